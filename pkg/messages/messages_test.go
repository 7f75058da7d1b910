package messages_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/dmitrymomot/transit/pkg/messages"
)

func TestText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		id   messages.ID
		args []any
		want string
	}{
		{
			name: "plain warning",
			id:   messages.StateMachineDead,
			want: "state machine is dead",
		},
		{
			name: "transition not allowed",
			id:   messages.TransitionNotAllowed,
			args: []any{"next", "default"},
			want: `transition from state "next" to state "default" not allowed.`,
		},
		{
			name: "transition failed",
			id:   messages.TransitionFailed,
			args: []any{"default", "last", "cannot enter state"},
			want: `transition from state "default" to state "last" failed: cannot enter state.`,
		},
		{
			name: "transition interrupted",
			id:   messages.TransitionInterrupted,
			args: []any{"previous", "last", "not ready"},
			want: `transition from state "previous" to state "last" interrupted: not ready.`,
		},
		{
			name: "initial state not in table",
			id:   messages.InitialStateNotInTable,
			args: []any{"idle"},
			want: `default state "idle" must be at top of transition tree`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, messages.Text(tt.id, tt.args...))
		})
	}
}

func TestKnown(t *testing.T) {
	t.Parallel()
	assert.True(t, messages.Known(messages.AttemptOnPendingMachine))
	assert.False(t, messages.Known(messages.ID("statemachine.unknown")))
}

func TestRegister(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, messages.Register(language.German, "", "x"), messages.ErrEmptyID)

	require.NoError(t, messages.Register(language.German, messages.CannotTransitionToEmptyState,
		"Übergang in einen leeren Zustand ist nicht möglich"))

	assert.Equal(t, "Übergang in einen leeren Zustand ist nicht möglich",
		messages.Render(language.German, messages.CannotTransitionToEmptyState))
	assert.Equal(t, "cannot transition to empty state",
		messages.Render(language.English, messages.CannotTransitionToEmptyState))
}
