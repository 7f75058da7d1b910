package statemachine

import (
	"context"
	"time"

	"github.com/dmitrymomot/transit/pkg/messages"
)

// Event names. They are prefixed so listeners on a shared notifier can tell
// machine events from others; Event.MachineID tells machines apart.
const (
	EventStatePending = "statemachine.state_pending"
	EventStateChanged = "statemachine.state_changed"
	EventWarning      = "statemachine.warning"
	EventFault        = "statemachine.fault"
	EventDying        = "statemachine.dying"
	EventDead         = "statemachine.dead"
)

// EventNames lists every event a machine emits, in lifecycle order.
var EventNames = []string{
	EventStatePending,
	EventStateChanged,
	EventWarning,
	EventFault,
	EventDying,
	EventDead,
}

// Event is the payload of every machine notification.
//
//   - StatePending, StateChanged: From, To, Reason.
//   - Warning, Fault: Kind and Args (the message parameters).
//   - Dying: Reason.
//   - Dead: Reason and Result (the teardown return value).
type Event struct {
	Name      string      `json:"name"`
	MachineID string      `json:"machine_id"`
	From      State       `json:"from,omitempty"`
	To        State       `json:"to,omitempty"`
	Reason    any         `json:"reason,omitempty"`
	Kind      messages.ID `json:"kind,omitempty"`
	Args      []any       `json:"args,omitempty"`
	Result    any         `json:"result,omitempty"`
	Time      time.Time   `json:"time"`

	ctx context.Context
}

// Message renders Kind and Args in English. Empty for events without a kind.
func (e Event) Message() string {
	if e.Kind == "" {
		return ""
	}
	return messages.Text(e.Kind, e.Args...)
}

// Context returns the context of the transition request that produced the
// event, or context.Background for events raised outside a request.
func (e Event) Context() context.Context {
	if e.ctx == nil {
		return context.Background()
	}
	return e.ctx
}

// Listener receives machine events.
type Listener func(Event)
