// Package broadcast provides type-safe, non-blocking one-to-many message
// delivery to channel subscribers.
//
// Two implementations share the Broadcaster interface:
//
//   - MemoryBroadcaster fans messages out in process. Slow subscribers whose
//     buffer is full are dropped instead of blocking the sender.
//   - RedisBroadcaster publishes JSON-encoded messages on a Redis pub/sub
//     channel so listeners in other processes can observe them.
//
// The statemachine package forwards every machine event to a Broadcaster
// configured with statemachine.WithBroadcaster, giving asynchronous consumers
// a stream next to the synchronous listeners.
//
// Basic usage:
//
//	b := broadcast.NewMemoryBroadcaster[statemachine.Event](64)
//	defer b.Close()
//
//	sub := b.Subscribe(ctx)
//	defer sub.Close()
//
//	for msg := range sub.Receive(ctx) {
//		fmt.Println(msg.Topic, msg.Data.To)
//	}
//
// Subscribers are cleaned up when their context is cancelled, when their
// buffer overflows, or when the broadcaster is closed.
package broadcast
