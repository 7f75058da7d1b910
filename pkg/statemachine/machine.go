package statemachine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/transit/pkg/async"
	"github.com/dmitrymomot/transit/pkg/broadcast"
	"github.com/dmitrymomot/transit/pkg/logger"
	"github.com/dmitrymomot/transit/pkg/messages"
	"github.com/dmitrymomot/transit/pkg/notifier"
)

// ErrTeardownPanicked is reported as the Dead event result when teardown panics.
var ErrTeardownPanicked = errors.New("statemachine: teardown panicked")

// Machine tracks a single current state over a transition Table.
//
// The mutex only protects field access and is never held while a hook or a
// listener runs. Overlapping requests are rejected through the busy flag
// instead, so a machine is meant to have a single logical owner.
type Machine struct {
	id       string
	table    Table
	teardown Teardown
	failFast bool
	events   notifier.Notifier[Event]
	log      *slog.Logger

	broadcaster   broadcast.Broadcaster[Event]
	streamBuffer  int
	streamTimeout time.Duration
	stream        *eventStream

	mu      sync.Mutex
	current State
	busy    bool // a transition request holds the machine
	pending bool // a hook is running, current is hidden
	dying   bool
	dead    bool
}

// Snapshot is a side-effect free view of a machine.
type Snapshot struct {
	ID      string `json:"id"`
	State   State  `json:"state"`
	Pending bool   `json:"pending"`
	Dead    bool   `json:"dead"`
}

// New creates a machine in state initial.
// It fails with *ConfigError when table is empty, initial is empty, or
// initial has no entry in table.
func New(table Table, initial State, opts ...Option) (*Machine, error) {
	if len(table) == 0 {
		return nil, &ConfigError{Reason: messages.MustDefineTransitions}
	}
	if initial == None {
		return nil, &ConfigError{Reason: messages.MustDefineInitialState}
	}
	if _, ok := table[initial]; !ok {
		return nil, &ConfigError{Reason: messages.InitialStateNotInTable, State: initial}
	}

	m := &Machine{
		id:            uuid.New().String(),
		table:         cloneTable(table),
		current:       initial,
		streamBuffer:  DefaultStreamBuffer,
		streamTimeout: DefaultStreamTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}

	if m.events == nil {
		var nopts []notifier.Option
		if m.log != nil {
			nopts = append(nopts, notifier.WithErrorHandler(m.logListenerError))
		}
		m.events = notifier.New[Event](nopts...)
	}
	if m.log != nil {
		m.OnAny(m.logEvent)
	}
	if m.broadcaster != nil {
		m.stream = newEventStream(m.broadcaster, m.streamBuffer, m.streamTimeout, m.log)
	}

	return m, nil
}

// MustNew is like New but panics on invalid configuration.
func MustNew(table Table, initial State, opts ...Option) *Machine {
	m, err := New(table, initial, opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to create state machine: %v", err))
	}
	return m
}

// ID returns the machine instance id carried by every event.
func (m *Machine) ID() string {
	return m.id
}

// State returns the current state, or None while a hook is running or after
// the machine died. Reading None emits a diagnostic Warning.
func (m *Machine) State() State {
	m.mu.Lock()
	current, pending, dead := m.current, m.pending, m.dead
	m.mu.Unlock()

	switch {
	case dead:
		m.warn(context.Background(), messages.StateMachineDead)
		return None
	case pending:
		m.warn(context.Background(), messages.StateMachinePending)
		return None
	}
	return current
}

// IsDead reports whether Die has completed.
func (m *Machine) IsDead() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dead
}

// IsPending reports whether a guard hook is currently running.
func (m *Machine) IsPending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending
}

// Can reports whether the table has an edge from the current state to target.
// It runs no hook and emits no event.
func (m *Machine) Can(target State) bool {
	from := m.peek()
	if from == None || target == None {
		return false
	}
	_, ok := m.table.Edge(from, target)
	return ok
}

// Snapshot returns the machine status without emitting events.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		ID:      m.id,
		State:   m.visibleLocked(),
		Pending: m.pending,
		Dead:    m.dead,
	}
}

// On registers fn for the named event of this machine.
func (m *Machine) On(name string, fn Listener) func() {
	if fn == nil {
		return func() {}
	}
	return m.events.On(name, func(_ string, ev Event) {
		if ev.MachineID == m.id {
			fn(ev)
		}
	})
}

// OnAny registers fn for every event of this machine.
func (m *Machine) OnAny(fn Listener) func() {
	offs := make([]func(), 0, len(EventNames))
	for _, name := range EventNames {
		offs = append(offs, m.On(name, fn))
	}
	return func() {
		for _, off := range offs {
			off()
		}
	}
}

// RequestTransition moves the machine to target.
//
// A StatePending event is emitted first for every attempt. Requests on a dead
// or busy machine, to the empty state, or along an edge missing from the
// table emit a Fault and return the matching error. Requesting the current
// state emits a Warning and does nothing. A guarded edge runs its hook, which
// may block; meanwhile the state reads as None. A hook veto emits a Warning
// and returns nil with the state unchanged. A hook error emits a Fault and
// returns *TransitionFailedError. Success emits StateChanged.
func (m *Machine) RequestTransition(ctx context.Context, target State, reason any) error {
	m.mu.Lock()
	dead := m.dead
	from := None
	claimed := false
	if !dead && !m.busy {
		from = m.current
		m.busy = true
		claimed = true
	}
	m.mu.Unlock()

	m.emit(ctx, Event{Name: EventStatePending, From: from, To: target, Reason: reason})

	if !claimed {
		if dead {
			m.fault(ctx, messages.AttemptOnDeadMachine)
			return &DeadMachineError{To: target}
		}
		m.fault(ctx, messages.AttemptOnPendingMachine)
		return &PendingMachineError{To: target}
	}

	// A StatePending listener may have killed the machine
	if !m.finishIfDead() {
		m.fault(ctx, messages.AttemptOnDeadMachine)
		return &DeadMachineError{To: target}
	}

	if target == None {
		m.finish(None)
		m.fault(ctx, messages.CannotTransitionToEmptyState)
		return &InvalidTargetError{From: from}
	}

	if from == target {
		m.finish(None)
		m.warn(ctx, messages.AlreadyInState, from)
		return nil
	}

	edge, ok := m.table.Edge(from, target)
	if !ok {
		m.finish(None)
		m.fault(ctx, messages.TransitionNotAllowed, from, target)
		return &IllegalTransitionError{From: from, To: target}
	}

	if !m.enterPending() {
		m.fault(ctx, messages.AttemptOnDeadMachine)
		return &DeadMachineError{To: target}
	}

	var (
		veto string
		err  error
	)
	if edge.IsGuarded() {
		veto, err = invoke(ctx, edge.hook, from, target)
	}

	next := target
	if err != nil || veto != "" {
		next = None
	}
	if !m.finish(next) {
		m.fault(ctx, messages.AttemptOnDeadMachine)
		return &DeadMachineError{To: target}
	}

	switch {
	case err != nil:
		m.fault(ctx, messages.TransitionFailed, from, target, err.Error())
		return &TransitionFailedError{From: from, To: target, Err: err}
	case veto != "":
		m.warn(ctx, messages.TransitionInterrupted, from, target, veto)
		return nil
	}

	m.emit(ctx, Event{Name: EventStateChanged, From: from, To: target, Reason: reason})
	return nil
}

// Go runs RequestTransition asynchronously. The future resolves to the state
// observed after the request together with the request error.
func (m *Machine) Go(ctx context.Context, target State, reason any) *async.Future[State] {
	return async.Go(ctx, func(ctx context.Context) (State, error) {
		err := m.RequestTransition(ctx, target, reason)
		return m.peek(), err
	})
}

// Die terminates the machine. See DieContext.
func (m *Machine) Die(reason any) *Machine {
	return m.DieContext(context.Background(), reason)
}

// DieContext emits Dying, runs the teardown routine, marks the machine dead
// and emits Dead with the teardown result. Only the first call has any
// effect; the teardown never runs twice.
//
// With a broadcaster configured, DieContext returns after every queued event
// up to Dead was handed to it. Later events are not forwarded.
func (m *Machine) DieContext(ctx context.Context, reason any) *Machine {
	m.mu.Lock()
	if m.dead || m.dying {
		m.mu.Unlock()
		return m
	}
	m.dying = true
	m.mu.Unlock()

	m.emit(ctx, Event{Name: EventDying, Reason: reason})

	result := m.runTeardown()

	m.mu.Lock()
	m.dead = true
	m.dying = false
	m.pending = false
	m.current = None
	m.mu.Unlock()

	m.emit(ctx, Event{Name: EventDead, Reason: reason, Result: result})

	if m.stream != nil {
		m.stream.close()
	}
	return m
}

// finish releases the machine after a request, committing next unless it is
// None. It reports false if the machine died in the meantime.
func (m *Machine) finish(next State) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.busy = false
	m.pending = false
	if m.dead {
		return false
	}
	if next != None {
		m.current = next
	}
	return true
}

// finishIfDead releases the machine only if it died; it reports whether the
// machine is still alive.
func (m *Machine) finishIfDead() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.dead {
		m.busy = false
		return false
	}
	return true
}

// enterPending hides the current state for the duration of a hook. It fails,
// releasing the machine, if the machine died since it was claimed.
func (m *Machine) enterPending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.dead {
		m.busy = false
		return false
	}
	m.pending = true
	return true
}

func (m *Machine) peek() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.visibleLocked()
}

func (m *Machine) visibleLocked() State {
	if m.dead || m.pending {
		return None
	}
	return m.current
}

func (m *Machine) runTeardown() (result any) {
	if m.teardown == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			result = errors.Join(ErrTeardownPanicked, fmt.Errorf("%v", r))
		}
	}()
	return m.teardown(m)
}

func (m *Machine) warn(ctx context.Context, kind messages.ID, args ...any) {
	m.emit(ctx, Event{Name: EventWarning, Kind: kind, Args: args})
}

// fault emits a Fault event. With fail-fast the machine dies right after
// the listeners saw it.
func (m *Machine) fault(ctx context.Context, kind messages.ID, args ...any) {
	ev := Event{Name: EventFault, Kind: kind, Args: args}
	m.emit(ctx, ev)
	if m.failFast {
		m.DieContext(ctx, ev.Message())
	}
}

func (m *Machine) emit(ctx context.Context, ev Event) {
	if ctx == nil {
		ctx = context.Background()
	}
	ev.MachineID = m.id
	ev.Time = time.Now()
	ev.ctx = ctx

	m.events.Emit(ev.Name, ev)

	if m.stream == nil {
		return
	}
	if err := m.stream.push(ev); err != nil && m.log != nil {
		m.log.WarnContext(ctx, "machine event not forwarded",
			logger.Component("statemachine"),
			logger.MachineID(m.id),
			logger.Event(ev.Name),
			logger.Error(err),
		)
	}
}

// invoke runs hook, turning a panic into an error.
func invoke(ctx context.Context, hook Hook, from, to State) (veto string, err error) {
	defer func() {
		if r := recover(); r != nil {
			veto, err = "", hookPanic(r)
		}
	}()
	return hook(ctx, from, to)
}

func cloneTable(t Table) Table {
	out := make(Table, len(t))
	for from, targets := range t {
		edges := make(map[State]Edge, len(targets))
		for to, edge := range targets {
			edges[to] = edge
		}
		out[from] = edges
	}
	return out
}
