// Package async runs a function in its own goroutine and hands back a Future
// for its result.
//
// The connection supervisor uses futures for reconnect chains: request
// handlers start one and move on, while shutdown waits on one with
// AwaitWithTimeout so a hung close never blocks process exit.
//
//	f := async.Async(ctx, sup, func(ctx context.Context, s *supervisor.Supervisor) (bool, error) {
//		return s.Connect(ctx), nil
//	})
//	ok, err := f.AwaitWithTimeout(5 * time.Second)
//
// Async skips the callback when ctx is already cancelled and completes the
// Future with the context error. A panicking callback completes it with
// ErrPanic. Resolved returns a Future that is already complete.
//
// A Future can be awaited any number of times from any goroutine. Await blocks,
// AwaitWithTimeout fails with ErrTimeout, AwaitContext fails with the context
// error, and Done exposes the completion channel for select statements.
package async
