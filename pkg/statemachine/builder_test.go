package statemachine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/transit/pkg/statemachine"
)

func TestTableBuilder(t *testing.T) {
	t.Parallel()

	notReady := func(context.Context, statemachine.State, statemachine.State) (string, error) {
		return "not ready", nil
	}

	t.Run("builds edges and terminal states", func(t *testing.T) {
		t.Parallel()
		table, err := statemachine.NewTableBuilder().
			From("draft").To("review").
			From("review").To("published").Guard(notReady).
			To("draft").
			State("published").
			Build()
		require.NoError(t, err)

		assert.Equal(t, []statemachine.State{"review"}, table.Targets("draft"))
		assert.Equal(t, []statemachine.State{"draft", "published"}, table.Targets("review"))
		assert.Empty(t, table.Targets("published"))
		assert.Contains(t, table, statemachine.State("published"))

		edge, ok := table.Edge("review", "published")
		require.True(t, ok)
		assert.True(t, edge.IsGuarded())

		edge, ok = table.Edge("review", "draft")
		require.True(t, ok)
		assert.False(t, edge.IsGuarded(), "guard applies to one edge only")
	})

	t.Run("built table drives a machine", func(t *testing.T) {
		t.Parallel()
		table := statemachine.NewTableBuilder().
			From("draft").To("review").
			From("review").To("published").Guard(notReady).
			MustBuild()

		m := statemachine.MustNew(table, "draft")
		ctx := context.Background()
		require.NoError(t, m.RequestTransition(ctx, "review", nil))
		require.NoError(t, m.RequestTransition(ctx, "published", nil))
		assert.Equal(t, statemachine.State("review"), m.State())
	})

	t.Run("incomplete edge", func(t *testing.T) {
		t.Parallel()
		_, err := statemachine.NewTableBuilder().To("orphan").Build()
		assert.ErrorIs(t, err, statemachine.ErrIncompleteEdge)

		_, err = statemachine.NewTableBuilder().From("a").To("").Build()
		assert.ErrorIs(t, err, statemachine.ErrIncompleteEdge)

		assert.Panics(t, func() {
			statemachine.NewTableBuilder().To("orphan").MustBuild()
		})
	})

	t.Run("build returns independent copies", func(t *testing.T) {
		t.Parallel()
		b := statemachine.NewTableBuilder().From("a").To("b")
		first := b.MustBuild()
		second := b.From("b").To("a").MustBuild()

		assert.Len(t, first, 1)
		assert.Len(t, second, 2)
	})
}
