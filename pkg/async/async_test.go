package async_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/transit/pkg/async"
)

func TestGo(t *testing.T) {
	t.Parallel()

	t.Run("returns result", func(t *testing.T) {
		t.Parallel()
		f := async.Go(context.Background(), func(ctx context.Context) (string, error) {
			time.Sleep(20 * time.Millisecond)
			return "ready", nil
		})

		res, err := f.Await()
		require.NoError(t, err)
		assert.Equal(t, "ready", res)
		assert.True(t, f.IsComplete())
	})

	t.Run("returns error", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("boom")
		f := async.Go(context.Background(), func(ctx context.Context) (int, error) {
			return 0, boom
		})

		_, err := f.Await()
		assert.ErrorIs(t, err, boom)
	})

	t.Run("pre-cancelled context skips work", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		called := false
		f := async.Go(ctx, func(ctx context.Context) (int, error) {
			called = true
			return 1, nil
		})

		_, err := f.Await()
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, called)
	})

	t.Run("panic is reported as error", func(t *testing.T) {
		t.Parallel()
		f := async.Go(context.Background(), func(ctx context.Context) (int, error) {
			panic("kaboom")
		})

		_, err := f.Await()
		require.Error(t, err)
		assert.ErrorIs(t, err, async.ErrPanicked)
		assert.Contains(t, err.Error(), "kaboom")
	})
}

func TestResolvedAndRejected(t *testing.T) {
	t.Parallel()

	f := async.Resolved("now")
	assert.True(t, f.IsComplete())
	res, err := f.Await()
	require.NoError(t, err)
	assert.Equal(t, "now", res)

	boom := errors.New("boom")
	r := async.Rejected[string](boom)
	assert.True(t, r.IsComplete())
	_, err = r.Await()
	assert.ErrorIs(t, err, boom)
}

func TestAwaitWithTimeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	f := async.Go(context.Background(), func(ctx context.Context) (int, error) {
		<-release
		return 42, nil
	})

	_, err := f.AwaitWithTimeout(10 * time.Millisecond)
	assert.ErrorIs(t, err, async.ErrTimeout)
	assert.False(t, f.IsComplete())

	close(release)
	res, err := f.AwaitWithTimeout(time.Second)
	require.NoError(t, err)
	assert.Equal(t, 42, res)
}

func TestAwaitContext(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	defer close(release)
	f := async.Go(context.Background(), func(ctx context.Context) (int, error) {
		<-release
		return 1, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := f.AwaitContext(ctx)
	assert.ErrorIs(t, err, async.ErrAwaitCancelled)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	select {
	case <-f.Done():
		t.Fatal("future should still be running")
	default:
	}
}
