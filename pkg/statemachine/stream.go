package statemachine

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/transit/pkg/broadcast"
	"github.com/dmitrymomot/transit/pkg/logger"
)

// Stream defaults used when no option or config overrides them.
const (
	DefaultStreamBuffer  = 64
	DefaultStreamTimeout = 5 * time.Second
)

// ErrEventDropped is logged when the event queue of a broadcaster is full.
var ErrEventDropped = errors.New("statemachine: event queue full, event dropped")

// eventStream hands events to a broadcaster from its own goroutine, so a slow
// transport never delays a transition. Events are forwarded in emission order.
type eventStream struct {
	target  broadcast.Broadcaster[Event]
	timeout time.Duration
	log     *slog.Logger

	queue chan Event
	done  chan struct{}

	mu     sync.Mutex
	closed bool
}

func newEventStream(target broadcast.Broadcaster[Event], size int, timeout time.Duration, log *slog.Logger) *eventStream {
	s := &eventStream{
		target:  target,
		timeout: timeout,
		log:     log,
		queue:   make(chan Event, max(size, 1)),
		done:    make(chan struct{}),
	}
	go s.run()
	return s
}

// push queues ev without blocking. Events pushed after close are discarded.
func (s *eventStream) push(ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	select {
	case s.queue <- ev:
		return nil
	default:
		return ErrEventDropped
	}
}

// close stops accepting events and waits until the queued ones are forwarded.
func (s *eventStream) close() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.queue)
	}
	s.mu.Unlock()

	<-s.done
}

func (s *eventStream) run() {
	defer close(s.done)
	for ev := range s.queue {
		s.forward(ev)
	}
}

func (s *eventStream) forward(ev Event) {
	// The request may be long gone; only its values are kept
	ctx := context.WithoutCancel(ev.Context())
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	err := s.target.Broadcast(ctx, broadcast.Message[Event]{Topic: ev.Name, Data: ev})
	if err != nil && s.log != nil {
		s.log.WarnContext(ctx, "failed to broadcast machine event",
			logger.Component("statemachine"),
			logger.MachineID(ev.MachineID),
			logger.Event(ev.Name),
			logger.Error(err),
		)
	}
}
