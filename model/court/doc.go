// Package court defines the domain model shared by the status evaluator, the
// session lifecycle manager, the queue fairness policy and the allocation
// coordinator: sessions, queue entries, locations, status tiers and the typed
// error taxonomy returned by every command.
package court
