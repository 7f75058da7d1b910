package statemachine

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/transit/pkg/broadcast"
	"github.com/dmitrymomot/transit/pkg/config"
	"github.com/dmitrymomot/transit/pkg/notifier"
)

// Option configures a Machine during construction.
type Option func(*Machine)

// Teardown runs once when the machine dies. Its result is reported in the
// Dead event.
type Teardown func(m *Machine) any

// Config is the environment-driven part of the machine configuration.
type Config struct {
	FailFast      bool          `env:"STATEMACHINE_FAIL_FAST" envDefault:"false"`
	StreamBuffer  int           `env:"STATEMACHINE_STREAM_BUFFER" envDefault:"64"`
	StreamTimeout time.Duration `env:"STATEMACHINE_STREAM_TIMEOUT" envDefault:"5s"`
}

// LoadConfig reads Config from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	err := config.Load(&cfg)
	return cfg, err
}

// WithConfig applies an environment-driven Config. Zero stream settings keep
// the defaults.
func WithConfig(cfg Config) Option {
	return func(m *Machine) {
		m.failFast = cfg.FailFast
		WithStreamBuffer(cfg.StreamBuffer)(m)
		WithStreamTimeout(cfg.StreamTimeout)(m)
	}
}

// WithTeardown registers the routine run when the machine dies.
func WithTeardown(fn Teardown) Option {
	return func(m *Machine) {
		m.teardown = fn
	}
}

// WithFailFast makes every fault terminal: the machine dies on the first
// Fault event it emits.
func WithFailFast(enabled bool) Option {
	return func(m *Machine) {
		m.failFast = enabled
	}
}

// WithNotifier makes the machine emit through n instead of a private emitter.
// Several machines may share one notifier; listeners registered with
// Machine.On only see events of their own machine. Listener panics are then
// handled by n; the private emitter logs them when WithLogger is set.
func WithNotifier(n notifier.Notifier[Event]) Option {
	return func(m *Machine) {
		if n != nil {
			m.events = n
		}
	}
}

// WithLogger logs every machine event: pending and changed at debug level,
// warnings at warn, faults at error, dying and dead at info. Recovered
// listener panics are logged at error level.
func WithLogger(l *slog.Logger) Option {
	return func(m *Machine) {
		m.log = l
	}
}

// WithBroadcaster forwards every event to b from a background goroutine.
// Events are queued (see WithStreamBuffer) and dropped when the queue is full,
// so a slow broadcaster never delays a transition. Each Broadcast call gets
// its own deadline (see WithStreamTimeout). Drops and broadcast errors are
// logged when a logger is configured and otherwise ignored. Die flushes the
// queue.
func WithBroadcaster(b broadcast.Broadcaster[Event]) Option {
	return func(m *Machine) {
		m.broadcaster = b
	}
}

// WithStreamBuffer sets how many events may wait for the broadcaster.
func WithStreamBuffer(n int) Option {
	return func(m *Machine) {
		if n > 0 {
			m.streamBuffer = n
		}
	}
}

// WithStreamTimeout bounds each Broadcast call.
func WithStreamTimeout(d time.Duration) Option {
	return func(m *Machine) {
		if d > 0 {
			m.streamTimeout = d
		}
	}
}

// WithID overrides the generated machine id.
func WithID(id string) Option {
	return func(m *Machine) {
		if id != "" {
			m.id = id
		}
	}
}
