// Package statemachine implements an embeddable finite-state machine that
// validates transitions against a declarative table, runs optional guard hooks
// that may block, and reports everything it does as events.
//
// # Table
//
// A Table maps each source state to its permitted targets. An edge is either
// Allowed or Guarded by a Hook:
//
//	table := statemachine.NewTableBuilder().
//	    From("draft").To("review").
//	    From("review").To("published").Guard(checkOwner).
//	    To("draft").
//	    State("published").
//	    MustBuild()
//
//	m, err := statemachine.New(table, "draft",
//	    statemachine.WithLogger(log),
//	    statemachine.WithTeardown(func(m *statemachine.Machine) any { return cleanup() }),
//	)
//
// # Transitions
//
// RequestTransition validates the request, runs the edge hook and commits the
// target. While a hook runs the machine is pending: State returns None and
// further requests are rejected with *PendingMachineError. A hook vetoes by
// returning a non-empty reason, which leaves the state unchanged and emits a
// Warning. A hook error (or panic) emits a Fault and is returned wrapped in
// *TransitionFailedError.
//
// Requests that fail validation are reported twice: as a Fault event and as a
// returned error. The error types have Is* predicates and a Kind method
// returning the messages.ID of the fault.
//
// # Events
//
// Every machine emits StatePending, StateChanged, Warning, Fault, Dying and
// Dead through a notifier.Notifier. Machines can share one notifier; Machine.On
// filters by machine id. WithBroadcaster additionally queues events for a
// broadcast.Broadcaster such as the Redis one; a background goroutine forwards
// them so transitions never wait on the transport. Die flushes the queue.
//
// # Death
//
// Die emits Dying, runs the teardown routine once, and emits Dead with its
// result. A dead machine rejects every request. WithFailFast kills the machine
// on its first Fault.
package statemachine
