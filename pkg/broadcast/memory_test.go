package broadcast

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type transition struct {
	From string
	To   string
}

func receive[T any](t *testing.T, sub Subscriber[T]) Message[T] {
	t.Helper()
	select {
	case msg, ok := <-sub.Receive(context.Background()):
		require.True(t, ok, "subscriber channel closed")
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
	}
	return Message[T]{}
}

func TestMemoryBroadcaster_Subscribe(t *testing.T) {
	t.Run("subscribe creates active subscriber", func(t *testing.T) {
		b := NewMemoryBroadcaster[transition](10)
		defer b.Close()

		sub := b.Subscribe(context.Background())
		require.NotNil(t, sub)
		require.NotNil(t, sub.Receive(context.Background()))
		assert.Equal(t, 1, b.SubscriberCount())
	})

	t.Run("subscribe after close returns closed subscriber", func(t *testing.T) {
		b := NewMemoryBroadcaster[transition](10)
		require.NoError(t, b.Close())

		sub := b.Subscribe(context.Background())
		_, ok := <-sub.Receive(context.Background())
		assert.False(t, ok)
	})

	t.Run("context cancellation unsubscribes", func(t *testing.T) {
		b := NewMemoryBroadcaster[transition](10)
		defer b.Close()

		ctx, cancel := context.WithCancel(context.Background())
		sub := b.Subscribe(ctx)
		cancel()

		require.Eventually(t, func() bool { return b.SubscriberCount() == 0 }, time.Second, 5*time.Millisecond)
		_, ok := <-sub.Receive(context.Background())
		assert.False(t, ok)
	})

	t.Run("close does not wait for live subscriber contexts", func(t *testing.T) {
		b := NewMemoryBroadcaster[transition](10)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		b.Subscribe(ctx)

		closed := make(chan struct{})
		go func() {
			_ = b.Close()
			close(closed)
		}()

		select {
		case <-closed:
		case <-time.After(time.Second):
			t.Fatal("Close blocked on an uncancelled subscriber context")
		}
	})
}

func TestMemoryBroadcaster_Broadcast(t *testing.T) {
	t.Run("broadcast to multiple subscribers", func(t *testing.T) {
		b := NewMemoryBroadcaster[transition](10)
		defer b.Close()

		ctx := context.Background()
		subs := []Subscriber[transition]{b.Subscribe(ctx), b.Subscribe(ctx), b.Subscribe(ctx)}

		msg := Message[transition]{Topic: "statemachine.state_changed", Data: transition{From: "idle", To: "busy"}}
		require.NoError(t, b.Broadcast(ctx, msg))

		for _, sub := range subs {
			got := receive(t, sub)
			assert.Equal(t, msg, got)
		}
	})

	t.Run("broadcast after close is a no-op", func(t *testing.T) {
		b := NewMemoryBroadcaster[transition](10)
		require.NoError(t, b.Close())
		assert.NoError(t, b.Broadcast(context.Background(), Message[transition]{}))
	})

	t.Run("slow subscriber is dropped", func(t *testing.T) {
		b := NewMemoryBroadcaster[int](1)
		defer b.Close()

		ctx := context.Background()
		slow := b.Subscribe(ctx)

		require.NoError(t, b.Broadcast(ctx, Message[int]{Data: 1}))
		require.NoError(t, b.Broadcast(ctx, Message[int]{Data: 2}))

		require.Eventually(t, func() bool { return b.SubscriberCount() == 0 }, time.Second, 5*time.Millisecond)

		assert.Equal(t, uint64(1), b.Dropped())

		first, ok := <-slow.Receive(ctx)
		require.True(t, ok)
		assert.Equal(t, 1, first.Data)
		_, ok = <-slow.Receive(ctx)
		assert.False(t, ok, "dropped subscriber channel is closed")
	})

	t.Run("buffer size has a minimum of one", func(t *testing.T) {
		b := NewMemoryBroadcaster[int](0)
		defer b.Close()

		sub := b.Subscribe(context.Background())
		require.NoError(t, b.Broadcast(context.Background(), Message[int]{Data: 7}))
		assert.Equal(t, 7, receive(t, sub).Data)
	})
}

func TestMemoryBroadcaster_Close(t *testing.T) {
	b := NewMemoryBroadcaster[string](10)

	ctx := context.Background()
	subs := make([]Subscriber[string], 3)
	for i := range subs {
		subs[i] = b.Subscribe(ctx)
	}

	require.NoError(t, b.Close())
	require.NoError(t, b.Close(), "double close is safe")

	for i, sub := range subs {
		_, ok := <-sub.Receive(ctx)
		assert.False(t, ok, "subscriber %d channel should be closed", i)
	}
}

func TestMemoryBroadcaster_Concurrent(t *testing.T) {
	b := NewMemoryBroadcaster[int](1000)
	defer b.Close()

	ctx := context.Background()
	sub := b.Subscribe(ctx)

	const numGoroutines = 10
	const msgsPerGoroutine = 50

	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	for i := range numGoroutines {
		go func(base int) {
			defer wg.Done()
			for j := range msgsPerGoroutine {
				assert.NoError(t, b.Broadcast(ctx, Message[int]{Data: base*1000 + j}))
			}
		}(i)
	}
	wg.Wait()

	received := make(map[int]bool)
	for range numGoroutines * msgsPerGoroutine {
		received[receive(t, sub).Data] = true
	}
	assert.Len(t, received, numGoroutines*msgsPerGoroutine)
}

func TestMemoryBroadcaster_SubscribeTopics(t *testing.T) {
	b := NewMemoryBroadcaster[transition](1)
	defer b.Close()

	var _ TopicSubscriber[transition] = b

	ctx := context.Background()
	faults := b.SubscribeTopics(ctx, "statemachine.fault")

	for range 3 {
		require.NoError(t, b.Broadcast(ctx, Message[transition]{Topic: "statemachine.state_changed"}))
	}
	require.NoError(t, b.Broadcast(ctx, Message[transition]{Topic: "statemachine.fault", Data: transition{From: "a"}}))

	got := receive(t, faults)
	assert.Equal(t, "statemachine.fault", got.Topic)
	assert.Equal(t, "a", got.Data.From)

	assert.Zero(t, b.Dropped(), "filtered messages do not fill the buffer")
	assert.Equal(t, 1, b.SubscriberCount())
}
