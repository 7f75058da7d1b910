package logger

import (
	"fmt"
	"log/slog"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Event records the event name under the key "event".
func Event(name string) slog.Attr {
	return slog.String("event", name)
}

// MachineID records the state machine instance id under the key "machine_id".
func MachineID(id string) slog.Attr {
	return slog.String("machine_id", id)
}

// State records a state name under the key "state".
func State[S ~string](s S) slog.Attr {
	return slog.String("state", string(s))
}

// From records the source state of a transition under the key "from".
func From[S ~string](s S) slog.Attr {
	return slog.String("from", string(s))
}

// To records the target state of a transition under the key "to".
func To[S ~string](s S) slog.Attr {
	return slog.String("to", string(s))
}

// Kind records a message identifier under the key "kind".
func Kind[K ~string](k K) slog.Attr {
	return slog.String("kind", string(k))
}

// Reason records a transition or death reason under the key "reason".
// If reason is nil, it returns an empty Attr.
func Reason(reason any) slog.Attr {
	if reason == nil {
		return slog.Attr{}
	}
	if s, ok := reason.(fmt.Stringer); ok {
		return slog.String("reason", s.String())
	}
	return slog.Any("reason", reason)
}

// Duration records a duration under the key "duration".
func Duration(d any) slog.Attr {
	return slog.Any("duration", d)
}
