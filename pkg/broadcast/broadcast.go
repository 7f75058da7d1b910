package broadcast

import (
	"context"
	"sync"
)

// Message wraps data of type T for type-safe broadcasting.
// Topic is optional and lets subscribers of a shared stream filter messages
// (the statemachine package sets it to the event name).
type Message[T any] struct {
	Topic string `json:"topic,omitempty"`
	Data  T      `json:"data"`
}

// Subscriber receives messages from a Broadcaster.
// Implementations must be safe for concurrent use.
type Subscriber[T any] interface {
	// Receive returns the channel delivering broadcast messages.
	// The channel is closed when the subscriber is closed.
	Receive(ctx context.Context) <-chan Message[T]

	// Close releases resources. It is idempotent.
	Close() error
}

// Broadcaster sends messages to multiple subscribers.
// Implementations drop messages for slow consumers rather than block the sender.
type Broadcaster[T any] interface {
	// Subscribe creates a subscriber that lives until ctx is done or it is closed.
	Subscribe(ctx context.Context) Subscriber[T]

	// Broadcast sends msg to all active subscribers.
	Broadcast(ctx context.Context, msg Message[T]) error

	// Close shuts down the broadcaster and closes all subscribers.
	Close() error
}

// TopicSubscriber is implemented by broadcasters that can filter by topic.
// The statemachine package uses event names as topics, so a subscriber can
// ask for faults only, or for state changes only.
type TopicSubscriber[T any] interface {
	// SubscribeTopics is Subscribe restricted to messages whose Topic is one
	// of topics. No topics means every message.
	SubscribeTopics(ctx context.Context, topics ...string) Subscriber[T]
}

type subscriber[T any] struct {
	ch     chan Message[T]
	topics map[string]struct{}
	closed bool
	mu     sync.RWMutex
}

func newSubscriber[T any](bufferSize int, topics ...string) *subscriber[T] {
	s := &subscriber[T]{
		ch: make(chan Message[T], bufferSize),
	}
	if len(topics) > 0 {
		s.topics = make(map[string]struct{}, len(topics))
		for _, t := range topics {
			s.topics[t] = struct{}{}
		}
	}
	return s
}

// wants reports whether the subscriber asked for topic.
func (s *subscriber[T]) wants(topic string) bool {
	if s.topics == nil {
		return true
	}
	_, ok := s.topics[topic]
	return ok
}

func (s *subscriber[T]) Receive(ctx context.Context) <-chan Message[T] {
	return s.ch
}

func (s *subscriber[T]) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		close(s.ch)
		s.closed = true
	}
	return nil
}

// send delivers msg without blocking. It reports false only when msg was
// lost because the buffer is full or the subscriber is closed; messages
// outside the topic filter are skipped and count as delivered.
func (s *subscriber[T]) send(msg Message[T]) bool {
	if !s.wants(msg.Topic) {
		return true
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false
	}

	select {
	case s.ch <- msg:
		return true
	default:
		return false
	}
}
