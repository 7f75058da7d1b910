package async

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Future represents the result of an asynchronous computation.
type Future[T any] struct {
	result T
	err    error
	done   chan struct{}
}

// Go executes fn in a new goroutine and returns a Future for its result.
// A panic inside fn is recovered and reported as an error wrapping ErrPanicked.
func Go[T any](ctx context.Context, fn func(context.Context) (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}

	go func() {
		defer close(f.done)
		defer func() {
			if r := recover(); r != nil {
				var zero T
				f.result = zero
				f.err = errors.Join(ErrPanicked, fmt.Errorf("%v", r))
			}
		}()

		// Early exit prevents running work for a caller that already gave up
		if err := ctx.Err(); err != nil {
			f.err = err
			return
		}

		f.result, f.err = fn(ctx)
	}()

	return f
}

// Resolved returns an already completed Future holding v.
func Resolved[T any](v T) *Future[T] {
	f := &Future[T]{result: v, done: make(chan struct{})}
	close(f.done)
	return f
}

// Rejected returns an already completed Future holding err.
func Rejected[T any](err error) *Future[T] {
	f := &Future[T]{err: err, done: make(chan struct{})}
	close(f.done)
	return f
}

// Await waits for the computation to complete and returns its result and error.
func (f *Future[T]) Await() (T, error) {
	<-f.done
	return f.result, f.err
}

// AwaitContext waits for completion or for ctx to be done, whichever comes first.
func (f *Future[T]) AwaitContext(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		var zero T
		return zero, errors.Join(ErrAwaitCancelled, ctx.Err())
	}
}

// AwaitWithTimeout waits for completion for at most timeout.
func (f *Future[T]) AwaitWithTimeout(timeout time.Duration) (T, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-f.done:
		return f.result, f.err
	case <-timer.C:
		var zero T
		return zero, ErrTimeout
	}
}

// Done returns a channel that is closed once the computation completes.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// IsComplete reports whether the computation has completed without blocking.
func (f *Future[T]) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}
