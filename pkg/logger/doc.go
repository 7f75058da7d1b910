// Package logger provides a small factory around log/slog plus attribute
// helpers that keep key names consistent across transition logs.
//
// New builds a *slog.Logger from functional options:
//
//   - WithDevelopment / WithStaging / WithProduction / WithEnvironment – per-environment defaults.
//   - WithFormat / WithTextFormatter / WithJSONFormatter – output format.
//   - WithLevel, WithOutput, WithAttr – level, destination and static attributes.
//   - WithContextExtractors / WithContextValue – attributes read from context.Context.
//   - FromConfig – the above driven by environment variables (see Config).
//
// Attribute helpers (MachineID, State, From, To, Kind, Reason, Error, ...)
// return slog.Attr values; the ones taking optional values return an empty Attr
// for nil so callers can pass them unconditionally:
//
//	log := logger.New(logger.WithDevelopment("jobs"))
//	log.Info("state changed",
//	    logger.MachineID(id),
//	    logger.From(from),
//	    logger.To(to),
//	    logger.Reason(reason),
//	)
package logger
