package statemachine

import (
	"errors"
	"fmt"
)

// ErrIncompleteEdge is returned by TableBuilder.Build when an edge is missing
// its source or target state.
var ErrIncompleteEdge = errors.New("statemachine: edge needs both from and to states")

// TableBuilder provides a fluent API for building transition tables.
type TableBuilder struct {
	table       Table
	currentFrom State
	currentTo   State
	hook        Hook
	open        bool
	err         error
}

// NewTableBuilder creates an empty table builder.
func NewTableBuilder() *TableBuilder {
	return &TableBuilder{table: make(Table)}
}

// State declares a state without outgoing edges (a terminal state).
func (b *TableBuilder) State(states ...State) *TableBuilder {
	b.flush()
	for _, s := range states {
		if _, ok := b.table[s]; !ok {
			b.table[s] = make(map[State]Edge)
		}
	}
	return b
}

// From sets the source state for the next edge.
func (b *TableBuilder) From(state State) *TableBuilder {
	b.flush()
	b.currentFrom = state
	return b
}

// To sets the target state and opens a new edge from the current source.
// Calling To again adds another edge from the same source.
func (b *TableBuilder) To(state State) *TableBuilder {
	b.flush()
	b.currentTo = state
	b.open = true
	return b
}

// Guard attaches hook to the edge opened by the last To call.
func (b *TableBuilder) Guard(hook Hook) *TableBuilder {
	b.hook = hook
	return b
}

// Build returns the constructed table.
func (b *TableBuilder) Build() (Table, error) {
	b.flush()
	if b.err != nil {
		return nil, b.err
	}
	return cloneTable(b.table), nil
}

// MustBuild is like Build but panics on error.
func (b *TableBuilder) MustBuild() Table {
	t, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to build transition table: %v", err))
	}
	return t
}

// flush commits the open edge, if any.
func (b *TableBuilder) flush() {
	if !b.open {
		return
	}
	defer b.reset()

	if b.currentFrom == None || b.currentTo == None {
		if b.err == nil {
			b.err = fmt.Errorf("%w: %q -> %q", ErrIncompleteEdge, b.currentFrom, b.currentTo)
		}
		return
	}
	if _, ok := b.table[b.currentFrom]; !ok {
		b.table[b.currentFrom] = make(map[State]Edge)
	}
	b.table[b.currentFrom][b.currentTo] = Guarded(b.hook)
}

// reset clears the open edge but keeps the source state for chaining.
func (b *TableBuilder) reset() {
	b.currentTo = None
	b.hook = nil
	b.open = false
}
