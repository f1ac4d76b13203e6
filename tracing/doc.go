// Package tracing wraps OpenTelemetry so that coordinator commands can be
// traced without the rest of the module importing otel directly. Until Init
// is called every span is a no-op.
package tracing
