// Package async provides a small generic Future used to model operations that
// suspend before producing a result.
//
// A Future is obtained either by calling Go, which runs the supplied function in
// its own goroutine, or by calling Resolved / Rejected, which return an already
// completed Future. Callers wait for completion with Await, AwaitContext or
// AwaitWithTimeout, or poll with IsComplete and Done.
//
// The statemachine package uses Future in two places: guard hooks that await an
// external event (statemachine.FutureHook) and Machine.Go, which runs a
// transition request as an explicit asynchronous operation.
//
// # Usage
//
//	import (
//	    "context"
//	    "github.com/dmitrymomot/transit/pkg/async"
//	)
//
//	f := async.Go(ctx, func(ctx context.Context) (string, error) {
//	    return waitForHandshake(ctx)
//	})
//
//	// do other work …
//	res, err := f.Await()
//
// # Error Handling
//
// Await returns the error produced by the callback. AwaitWithTimeout returns
// ErrTimeout and AwaitContext returns the context error joined with
// ErrAwaitCancelled when the wait is abandoned; the computation itself keeps
// running and its result stays available to later Await calls.
package async
