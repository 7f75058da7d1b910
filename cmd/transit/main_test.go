package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/transit/pkg/statemachine"
)

const machine = `
initial: default
states:
  default:
    next: allow
    last: { guard: deny }
  next:
    last: { guard: delay }
    broken: { guard: fail }
  last: {}
`

func writeDefinition(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "machine.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func replay(t *testing.T, args ...string) (statemachine.Snapshot, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	require.NoError(t, run(context.Background(), args, &stdout, &stderr))

	var snap statemachine.Snapshot
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &snap))
	return snap, stderr.String()
}

func TestRun(t *testing.T) {
	def := writeDefinition(t, machine)

	t.Run("replays targets", func(t *testing.T) {
		snap, _ := replay(t, "-def", def, "-delay", "1ms", "last", "next", "last")
		assert.Equal(t, statemachine.State("last"), snap.State)
		assert.False(t, snap.Dead)
	})

	t.Run("rejected targets are logged and skipped", func(t *testing.T) {
		snap, logs := replay(t, "-def", def, "default", "next", "broken")
		assert.Equal(t, statemachine.State("next"), snap.State)
		assert.Contains(t, logs, "transition rejected")
		assert.Contains(t, logs, "guard refused next -> broken")
	})

	t.Run("missing definition flag", func(t *testing.T) {
		err := run(context.Background(), []string{"next"}, &bytes.Buffer{}, &bytes.Buffer{})
		assert.ErrorIs(t, err, errUsage)
	})

	t.Run("unreadable definition", func(t *testing.T) {
		err := run(context.Background(), []string{"-def", filepath.Join(t.TempDir(), "none.yaml")}, &bytes.Buffer{}, &bytes.Buffer{})
		assert.Error(t, err)
	})
}
