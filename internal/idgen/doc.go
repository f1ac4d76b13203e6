// Package idgen wraps the UUID generator so that it can be stubbed in tests.
// Session, queue entry and offer identifiers are opaque strings; callers must
// not parse them.
package idgen
