package broadcast

import (
	"context"
	"sync"
	"sync/atomic"
)

// MemoryBroadcaster fans messages out to in-process subscribers.
//
// A subscriber whose buffer is full when a message arrives is unsubscribed and
// its channel closed, so a stalled consumer of machine events notices the gap
// instead of silently reading a stream with holes. Dropped counts the
// messages lost that way. All methods are safe for concurrent use.
type MemoryBroadcaster[T any] struct {
	bufferSize int
	dropped    atomic.Uint64

	mu          sync.RWMutex
	subscribers map[*subscriber[T]]struct{}
	closed      bool
	done        chan struct{}
	watchers    sync.WaitGroup
}

// NewMemoryBroadcaster creates a broadcaster whose subscribers buffer up to
// bufferSize messages each; the minimum is 1.
func NewMemoryBroadcaster[T any](bufferSize int) *MemoryBroadcaster[T] {
	return &MemoryBroadcaster[T]{
		bufferSize:  max(bufferSize, 1),
		subscribers: make(map[*subscriber[T]]struct{}),
		done:        make(chan struct{}),
	}
}

// Subscribe returns a subscriber for every message.
// On a closed broadcaster it returns an already closed subscriber.
func (b *MemoryBroadcaster[T]) Subscribe(ctx context.Context) Subscriber[T] {
	return b.SubscribeTopics(ctx)
}

// SubscribeTopics returns a subscriber for messages with one of the topics.
func (b *MemoryBroadcaster[T]) SubscribeTopics(ctx context.Context, topics ...string) Subscriber[T] {
	sub := newSubscriber[T](b.bufferSize, topics...)

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		_ = sub.Close()
		return sub
	}
	b.subscribers[sub] = struct{}{}

	if ctx.Done() != nil {
		b.watchers.Add(1)
		go b.watch(ctx, sub)
	}
	return sub
}

// Broadcast delivers msg to every interested subscriber without blocking.
// It is a no-op on a closed broadcaster.
func (b *MemoryBroadcaster[T]) Broadcast(_ context.Context, msg Message[T]) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil
	}

	for sub := range b.subscribers {
		if sub.send(msg) {
			continue
		}
		b.dropped.Add(1)
		// unsubscribe needs the write lock
		go b.unsubscribe(sub)
	}
	return nil
}

// SubscriberCount returns the number of active subscribers.
func (b *MemoryBroadcaster[T]) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Dropped returns how many messages were lost to full subscriber buffers.
func (b *MemoryBroadcaster[T]) Dropped() uint64 {
	return b.dropped.Load()
}

// Close closes every subscriber. Calling it again is a no-op.
func (b *MemoryBroadcaster[T]) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	close(b.done)
	for sub := range b.subscribers {
		_ = sub.Close()
	}
	clear(b.subscribers)
	b.mu.Unlock()

	b.watchers.Wait()
	return nil
}

// watch unsubscribes sub when its context ends before the broadcaster closes.
func (b *MemoryBroadcaster[T]) watch(ctx context.Context, sub *subscriber[T]) {
	defer b.watchers.Done()
	select {
	case <-ctx.Done():
		b.unsubscribe(sub)
	case <-b.done:
	}
}

func (b *MemoryBroadcaster[T]) unsubscribe(sub *subscriber[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subscribers, sub)
	_ = sub.Close()
}
