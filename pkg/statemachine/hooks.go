package statemachine

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrymomot/transit/pkg/async"
)

// DefaultVeto is the veto reason reported by BoolHook.
const DefaultVeto = "vetoed by guard"

// BoolHook adapts a predicate returning true to veto the transition.
func BoolHook(veto func(ctx context.Context, from, to State) bool) Hook {
	return func(ctx context.Context, from, to State) (string, error) {
		if veto(ctx, from, to) {
			return DefaultVeto, nil
		}
		return "", nil
	}
}

// ErrorHook adapts a function whose error fails the transition.
func ErrorHook(fn func(ctx context.Context, from, to State) error) Hook {
	return func(ctx context.Context, from, to State) (string, error) {
		return "", fn(ctx, from, to)
	}
}

// FutureHook adapts a hook that starts asynchronous work and returns a future
// for the veto. The machine stays pending until the future completes or ctx is
// done; in the latter case the transition fails with the context error.
func FutureHook(start func(ctx context.Context, from, to State) *async.Future[string]) Hook {
	return func(ctx context.Context, from, to State) (string, error) {
		f := start(ctx, from, to)
		if f == nil {
			return "", nil
		}
		return f.AwaitContext(ctx)
	}
}

// ErrHookTimeout is returned by hooks wrapped with TimeoutHook when they run too long.
var ErrHookTimeout = errors.New("statemachine: hook timed out")

// TimeoutHook bounds hook with a timeout. The machine imposes none itself.
// The wrapped hook receives a context cancelled at the deadline; if it does
// not return by then the transition fails with ErrHookTimeout and the hook's
// eventual result is discarded.
func TimeoutHook(hook Hook, timeout time.Duration) Hook {
	if hook == nil {
		return nil
	}
	return func(ctx context.Context, from, to State) (string, error) {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		f := async.Go(ctx, func(ctx context.Context) (string, error) {
			return hook(ctx, from, to)
		})

		select {
		case <-f.Done():
			return f.Await()
		case <-ctx.Done():
			return "", errors.Join(ErrHookTimeout, ctx.Err())
		}
	}
}
