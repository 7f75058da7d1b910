package statemachine

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dmitrymomot/transit/pkg/logger"
	"github.com/dmitrymomot/transit/pkg/notifier"
)

func (m *Machine) logEvent(ev Event) {
	attrs := []slog.Attr{
		logger.Component("statemachine"),
		logger.MachineID(ev.MachineID),
		logger.Event(ev.Name),
	}

	var (
		level slog.Level
		msg   string
	)
	switch ev.Name {
	case EventStatePending:
		level, msg = slog.LevelDebug, "transition requested"
		attrs = append(attrs, logger.From(ev.From), logger.To(ev.To), logger.Reason(ev.Reason))
	case EventStateChanged:
		level, msg = slog.LevelDebug, "state changed"
		attrs = append(attrs, logger.From(ev.From), logger.To(ev.To), logger.Reason(ev.Reason))
	case EventWarning:
		level, msg = slog.LevelWarn, ev.Message()
		attrs = append(attrs, logger.Kind(ev.Kind))
	case EventFault:
		level, msg = slog.LevelError, ev.Message()
		attrs = append(attrs, logger.Kind(ev.Kind))
	case EventDying:
		level, msg = slog.LevelInfo, "machine dying"
		attrs = append(attrs, logger.Reason(ev.Reason))
	case EventDead:
		level, msg = slog.LevelInfo, "machine dead"
		attrs = append(attrs, logger.Reason(ev.Reason))
		if ev.Result != nil {
			attrs = append(attrs, slog.Any("teardown_result", ev.Result))
		}
	default:
		return
	}

	m.log.LogAttrs(ev.Context(), level, msg, attrs...)
}

// logListenerError reports listener panics recovered by the private emitter.
func (m *Machine) logListenerError(err error) {
	attrs := []slog.Attr{
		logger.Component("statemachine"),
		logger.MachineID(m.id),
		logger.Error(err),
	}
	var lp *notifier.ListenerPanicError
	if errors.As(err, &lp) {
		attrs = append(attrs, logger.Event(lp.Event), slog.Any("panic", lp.Value))
	}
	m.log.LogAttrs(context.Background(), slog.LevelError, "machine listener panicked", attrs...)
}
