package statemachine

import (
	"errors"
	"fmt"

	"github.com/dmitrymomot/transit/pkg/messages"
)

// ErrHookPanicked is wrapped by TransitionFailedError when a hook panics.
var ErrHookPanicked = errors.New("statemachine: hook panicked")

// ConfigError reports invalid construction input.
type ConfigError struct {
	Reason messages.ID
	State  State
}

func (e *ConfigError) Error() string {
	if e.Reason == messages.InitialStateNotInTable {
		return messages.Text(e.Reason, e.State)
	}
	return messages.Text(e.Reason)
}

func (e *ConfigError) Kind() messages.ID { return e.Reason }

// IllegalTransitionError indicates the table has no edge (From, To).
type IllegalTransitionError struct {
	From State
	To   State
}

func (e *IllegalTransitionError) Error() string {
	return messages.Text(messages.TransitionNotAllowed, e.From, e.To)
}

func (e *IllegalTransitionError) Kind() messages.ID { return messages.TransitionNotAllowed }

// InvalidTargetError indicates a transition to the empty state was requested.
type InvalidTargetError struct {
	From State
}

func (e *InvalidTargetError) Error() string {
	return messages.Text(messages.CannotTransitionToEmptyState)
}

func (e *InvalidTargetError) Kind() messages.ID { return messages.CannotTransitionToEmptyState }

// DeadMachineError indicates a transition was requested after Die.
type DeadMachineError struct {
	To State
}

func (e *DeadMachineError) Error() string {
	return messages.Text(messages.AttemptOnDeadMachine)
}

func (e *DeadMachineError) Kind() messages.ID { return messages.AttemptOnDeadMachine }

// PendingMachineError indicates a transition was requested while another one
// was still in flight.
type PendingMachineError struct {
	To State
}

func (e *PendingMachineError) Error() string {
	return messages.Text(messages.AttemptOnPendingMachine)
}

func (e *PendingMachineError) Kind() messages.ID { return messages.AttemptOnPendingMachine }

// TransitionFailedError wraps the error returned (or panic raised) by a hook.
type TransitionFailedError struct {
	From State
	To   State
	Err  error
}

func (e *TransitionFailedError) Error() string {
	return messages.Text(messages.TransitionFailed, e.From, e.To, e.Err)
}

func (e *TransitionFailedError) Unwrap() error { return e.Err }

func (e *TransitionFailedError) Kind() messages.ID { return messages.TransitionFailed }

// KindOf returns the message id carried by err, or "" if it carries none.
func KindOf(err error) messages.ID {
	var k interface{ Kind() messages.ID }
	if errors.As(err, &k) {
		return k.Kind()
	}
	return ""
}

func IsConfigError(err error) bool {
	var e *ConfigError
	return errors.As(err, &e)
}

func IsIllegalTransitionError(err error) bool {
	var e *IllegalTransitionError
	return errors.As(err, &e)
}

func IsInvalidTargetError(err error) bool {
	var e *InvalidTargetError
	return errors.As(err, &e)
}

func IsDeadMachineError(err error) bool {
	var e *DeadMachineError
	return errors.As(err, &e)
}

func IsPendingMachineError(err error) bool {
	var e *PendingMachineError
	return errors.As(err, &e)
}

func IsTransitionFailedError(err error) bool {
	var e *TransitionFailedError
	return errors.As(err, &e)
}

func hookPanic(v any) error {
	return errors.Join(ErrHookPanicked, fmt.Errorf("%v", v))
}
