// Package policy holds the per-location rules for handing a freed court to the
// queue: whether it is offered automatically or claimed explicitly, and what
// happens to a request whose offer was abandoned.
package policy
