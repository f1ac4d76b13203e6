// Package allocator is the single entry point that mutates a location. Every
// command and every tick runs under the location lock, so reading the courts
// and the queue, deciding, and writing back happen as one step. It is the
// only caller of the lifecycle, fairness and approval services.
package allocator
