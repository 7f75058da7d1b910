package logger_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/transit/pkg/logger"
)

type ctxKey string

func TestLogHandlerDecorator(t *testing.T) {
	t.Parallel()

	t.Run("adds context values", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithContextValue("job_id", ctxKey("job")))

		ctx := context.WithValue(context.Background(), ctxKey("job"), "j-1")
		log.InfoContext(ctx, "transition")
		assert.Equal(t, "j-1", decode(t, buf)["job_id"])
	})

	t.Run("record attributes win over context values", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithContextValue("machine_id", ctxKey("machine")))

		ctx := context.WithValue(context.Background(), ctxKey("machine"), "from-context")
		log.InfoContext(ctx, "state changed", logger.MachineID("m-1"))

		out := buf.String()
		assert.Equal(t, 1, strings.Count(out, `"machine_id"`))
		assert.Equal(t, "m-1", decode(t, buf)["machine_id"])
	})

	t.Run("missing values are skipped", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithContextValue("job_id", ctxKey("job")))

		log.InfoContext(context.Background(), "transition")
		_, ok := decode(t, buf)["job_id"]
		assert.False(t, ok)
	})

	t.Run("nil extractors are ignored", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		h := logger.NewLogHandlerDecorator(slog.NewJSONHandler(buf, nil), nil)
		slog.New(h).Info("ok")
		assert.Equal(t, "ok", decode(t, buf)["msg"])
	})
}
