// Package courtside tracks who plays on which court at a venue and who waits
// for the next free one.
//
// Each configured location gets its own coordinator, created on first access:
//
//	srv, _ := courtside.NewFromConfig(cfg)
//	park, _ := srv.Location(ctx, "cooper-park")
//	res, _ := park.Request(ctx, court.Doubles, "Alice & Bob")
//	stop, _ := srv.Watch(ctx, "cooper-park")
//	defer stop()
//
// Commands go through the coordinator (see service/allocator); the scheduler
// started by Watch re-evaluates timers and releases or flags expired courts.
package courtside
