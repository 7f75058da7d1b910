package messages

import (
	"errors"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// ID is a stable, parameterised message identifier.
type ID string

// Warnings.
const (
	StateMachineDead      ID = "statemachine.state_machine_dead"
	StateMachinePending   ID = "statemachine.state_machine_pending"
	AlreadyInState        ID = "statemachine.already_in_state"
	TransitionInterrupted ID = "statemachine.transition_interrupted"
)

// Faults.
const (
	AttemptOnDeadMachine         ID = "statemachine.attempt_on_dead_machine"
	AttemptOnPendingMachine      ID = "statemachine.attempt_on_pending_machine"
	CannotTransitionToEmptyState ID = "statemachine.cannot_transition_to_empty_state"
	TransitionNotAllowed         ID = "statemachine.transition_not_allowed"
	TransitionFailed             ID = "statemachine.transition_failed"
)

// Configuration errors.
const (
	MustDefineTransitions  ID = "statemachine.must_define_transitions"
	MustDefineInitialState ID = "statemachine.must_define_initial_state"
	InitialStateNotInTable ID = "statemachine.initial_state_not_in_table"
)

var ErrEmptyID = errors.New("messages: message id cannot be empty")

// english holds the default wording. Parameterised formats take the states
// involved first (from, to) followed by the veto or cause.
var english = map[ID]string{
	StateMachineDead:      "state machine is dead",
	StateMachinePending:   "state machine is pending",
	AlreadyInState:        `state machine is already in state "%s"`,
	TransitionInterrupted: `transition from state "%s" to state "%s" interrupted: %v.`,

	AttemptOnDeadMachine:         "attempt to set state on dead machine",
	AttemptOnPendingMachine:      "attempt to set state on pending machine",
	CannotTransitionToEmptyState: "cannot transition to empty state",
	TransitionNotAllowed:         `transition from state "%s" to state "%s" not allowed.`,
	TransitionFailed:             `transition from state "%s" to state "%s" failed: %v.`,

	MustDefineTransitions:  "must define default transitions",
	MustDefineInitialState: "must define default state",
	InitialStateNotInTable: `default state "%s" must be at top of transition tree`,
}

var (
	builder = catalog.NewBuilder(catalog.Fallback(language.English))
	printer = message.NewPrinter(language.English, message.Catalog(builder))
)

func init() {
	for id, format := range english {
		if err := builder.SetString(language.English, string(id), format); err != nil {
			panic(err)
		}
	}
}

// Register adds or replaces the format for id in the given language.
func Register(tag language.Tag, id ID, format string) error {
	if id == "" {
		return ErrEmptyID
	}
	return builder.SetString(tag, string(id), format)
}

// Text renders id with args in English.
func Text(id ID, args ...any) string {
	return printer.Sprintf(string(id), args...)
}

// Render renders id with args in the requested language. Register a format
// for the language first; unknown ids render as the id itself.
func Render(tag language.Tag, id ID, args ...any) string {
	if tag == language.English {
		return Text(id, args...)
	}
	return message.NewPrinter(tag, message.Catalog(builder)).Sprintf(string(id), args...)
}

// Known reports whether id has English wording.
func Known(id ID) bool {
	_, ok := english[id]
	return ok
}
