package broadcast

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/redis/go-redis/v9"
)

// RedisClient is the part of the go-redis client used by RedisBroadcaster.
// *redis.Client and redis.UniversalClient satisfy it.
type RedisClient interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
	Subscribe(ctx context.Context, channels ...string) *redis.PubSub
}

// RedisOption configures a RedisBroadcaster.
type RedisOption func(*redisOptions)

type redisOptions struct {
	bufferSize int
	onError    func(error)
}

// WithBufferSize sets the channel buffer of each subscriber (default 64).
func WithBufferSize(n int) RedisOption {
	return func(o *redisOptions) {
		o.bufferSize = max(n, 1)
	}
}

// WithErrorHandler receives messages that could not be decoded by a subscriber.
func WithErrorHandler(fn func(error)) RedisOption {
	return func(o *redisOptions) {
		if fn != nil {
			o.onError = fn
		}
	}
}

// RedisBroadcaster publishes JSON-encoded messages on a Redis pub/sub channel.
// Subscribers in any process receive them; delivery is at-most-once, like the
// in-memory implementation.
type RedisBroadcaster[T any] struct {
	client  RedisClient
	channel string
	opts    redisOptions

	mu     sync.Mutex
	closed bool
	subs   map[*redisSubscriber[T]]struct{}
}

// NewRedisBroadcaster creates a broadcaster bound to channel.
func NewRedisBroadcaster[T any](client RedisClient, channel string, opts ...RedisOption) *RedisBroadcaster[T] {
	o := redisOptions{bufferSize: 64}
	for _, opt := range opts {
		opt(&o)
	}
	return &RedisBroadcaster[T]{
		client:  client,
		channel: channel,
		opts:    o,
		subs:    make(map[*redisSubscriber[T]]struct{}),
	}
}

// Broadcast encodes msg as JSON and publishes it.
func (b *RedisBroadcaster[T]) Broadcast(ctx context.Context, msg Message[T]) error {
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return ErrClosed
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return errors.Join(ErrEncodeMessage, err)
	}

	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		return errors.Join(ErrPublishFailed, err)
	}
	return nil
}

// Subscribe opens a Redis subscription that lives until ctx is done or the
// subscriber is closed. Messages that cannot be decoded are skipped and
// reported to the error handler.
func (b *RedisBroadcaster[T]) Subscribe(ctx context.Context) Subscriber[T] {
	return b.SubscribeTopics(ctx)
}

// SubscribeTopics is Subscribe restricted to the given topics. Filtering
// happens after decoding; the Redis channel still carries every message.
func (b *RedisBroadcaster[T]) SubscribeTopics(ctx context.Context, topics ...string) Subscriber[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := &redisSubscriber[T]{
		subscriber: newSubscriber[T](b.opts.bufferSize, topics...),
		stop:       make(chan struct{}),
	}
	if b.closed {
		_ = sub.subscriber.Close()
		close(sub.stop)
		return sub
	}

	sub.pubsub = b.client.Subscribe(ctx, b.channel)
	b.subs[sub] = struct{}{}

	go b.pump(ctx, sub)

	return sub
}

// Close closes every subscriber. The Redis client itself is owned by the caller.
func (b *RedisBroadcaster[T]) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	subs := make([]*redisSubscriber[T], 0, len(b.subs))
	for sub := range b.subs {
		subs = append(subs, sub)
	}
	clear(b.subs)
	b.mu.Unlock()

	var errs []error
	for _, sub := range subs {
		errs = append(errs, sub.Close())
	}
	return errors.Join(errs...)
}

func (b *RedisBroadcaster[T]) pump(ctx context.Context, sub *redisSubscriber[T]) {
	defer func() {
		b.mu.Lock()
		delete(b.subs, sub)
		b.mu.Unlock()
		_ = sub.Close()
	}()

	in := sub.pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.stop:
			return
		case raw, ok := <-in:
			if !ok {
				return
			}
			var msg Message[T]
			if err := json.Unmarshal([]byte(raw.Payload), &msg); err != nil {
				if b.opts.onError != nil {
					b.opts.onError(errors.Join(ErrDecodeMessage, err))
				}
				continue
			}
			// Slow readers lose messages, the subscription stays open
			sub.send(msg)
		}
	}
}

type redisSubscriber[T any] struct {
	*subscriber[T]
	pubsub *redis.PubSub
	stop   chan struct{}
	once   sync.Once
}

func (s *redisSubscriber[T]) Close() error {
	var err error
	s.once.Do(func() {
		select {
		case <-s.stop:
		default:
			close(s.stop)
		}
		if s.pubsub != nil {
			err = s.pubsub.Close()
		}
		_ = s.subscriber.Close()
	})
	return err
}
