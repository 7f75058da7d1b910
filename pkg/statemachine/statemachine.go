package statemachine

import (
	"context"
	"slices"
)

// State is a state name. The empty string is "no defined state".
type State string

// None is returned by Machine.State while the machine is pending or dead.
const None State = ""

func (s State) String() string {
	return string(s)
}

// Hook guards a single edge. It returns an empty veto to let the transition
// proceed, a non-empty veto to interrupt it, or an error to fail it.
// A hook may block; the machine stays pending until it returns.
type Hook func(ctx context.Context, from, to State) (veto string, err error)

// Edge describes one permitted transition.
type Edge struct {
	hook Hook
}

// Allowed returns an edge that is taken unconditionally.
func Allowed() Edge {
	return Edge{}
}

// Guarded returns an edge that is taken only if hook does not veto or fail.
// Guarded(nil) is equivalent to Allowed().
func Guarded(hook Hook) Edge {
	return Edge{hook: hook}
}

// IsGuarded reports whether the edge has a hook.
func (e Edge) IsGuarded() bool {
	return e.hook != nil
}

// Table maps a source state to its outgoing edges.
type Table map[State]map[State]Edge

// Edge looks up the edge (from, to).
func (t Table) Edge(from, to State) (Edge, bool) {
	targets, ok := t[from]
	if !ok {
		return Edge{}, false
	}
	edge, ok := targets[to]
	return edge, ok
}

// Targets returns the states reachable from from in one step, sorted.
func (t Table) Targets(from State) []State {
	targets := make([]State, 0, len(t[from]))
	for to := range t[from] {
		targets = append(targets, to)
	}
	slices.Sort(targets)
	return targets
}
