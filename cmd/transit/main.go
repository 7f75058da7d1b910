// Command transit loads a machine definition, replays a list of target states
// against it and prints the final snapshot as JSON.
//
//	transit -def machine.yaml next last
//
// Logging is configured from LOG_LEVEL, LOG_FORMAT, APP_ENV and APP_NAME,
// fail-fast from STATEMACHINE_FAIL_FAST. When REDIS_URL is set every machine
// event is also published to REDIS_EVENTS_CHANNEL.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrymomot/transit/pkg/broadcast"
	"github.com/dmitrymomot/transit/pkg/config"
	"github.com/dmitrymomot/transit/pkg/definition"
	"github.com/dmitrymomot/transit/pkg/logger"
	"github.com/dmitrymomot/transit/pkg/redis"
	"github.com/dmitrymomot/transit/pkg/statemachine"
)

var errUsage = errors.New("usage: transit -def machine.yaml [-env .env] target...")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("transit", flag.ContinueOnError)
	fs.SetOutput(stderr)
	defPath := fs.String("def", "", "machine definition file (YAML)")
	envFile := fs.String("env", "", "optional .env file loaded before configuration")
	delay := fs.Duration("delay", 100*time.Millisecond, "duration of the built-in \"delay\" guard")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *defPath == "" {
		return errUsage
	}

	if *envFile != "" {
		if err := config.LoadEnv(*envFile); err != nil {
			return err
		}
		config.ResetCache()
	}

	var logCfg logger.Config
	if err := config.Load(&logCfg); err != nil {
		return err
	}
	log := logger.New(logger.FromConfig(logCfg), logger.WithOutput(stderr))

	smCfg, err := statemachine.LoadConfig()
	if err != nil {
		return err
	}

	def, err := definition.LoadFile(*defPath)
	if err != nil {
		return err
	}

	opts := []statemachine.Option{
		statemachine.WithLogger(log),
		statemachine.WithTeardown(func(m *statemachine.Machine) any {
			return m.Snapshot()
		}),
	}
	opts = append(opts,
		statemachine.WithStreamBuffer(smCfg.StreamBuffer),
		statemachine.WithStreamTimeout(smCfg.StreamTimeout),
	)
	// The environment can only tighten the policy of the file.
	if smCfg.FailFast {
		opts = append(opts, statemachine.WithFailFast(true))
	}

	if _, ok := os.LookupEnv("REDIS_URL"); ok {
		stream, closeStream, err := connectStream(ctx, log)
		if err != nil {
			return err
		}
		defer closeStream()
		opts = append(opts, statemachine.WithBroadcaster(stream))
	}

	m, err := def.NewMachine(builtinGuards(*delay), opts...)
	if err != nil {
		return err
	}

	for _, target := range fs.Args() {
		if ctx.Err() != nil {
			break
		}
		if err := m.RequestTransition(ctx, statemachine.State(target), "replay"); err != nil {
			log.WarnContext(ctx, "transition rejected",
				logger.To(target),
				logger.Kind(statemachine.KindOf(err)),
				logger.Error(err),
			)
			if m.IsDead() {
				break
			}
		}
	}

	snapshot := m.Snapshot()
	m.Die("replay finished")

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(snapshot)
}

// builtinGuards are the hooks a definition may reference by name.
func builtinGuards(delay time.Duration) definition.Registry {
	return definition.Registry{
		"deny": statemachine.BoolHook(func(context.Context, statemachine.State, statemachine.State) bool {
			return true
		}),
		"fail": statemachine.ErrorHook(func(_ context.Context, from, to statemachine.State) error {
			return fmt.Errorf("guard refused %s -> %s", from, to)
		}),
		"delay": statemachine.ErrorHook(func(ctx context.Context, _, _ statemachine.State) error {
			select {
			case <-time.After(delay):
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}),
	}
}

func connectStream(ctx context.Context, log *slog.Logger) (broadcast.Broadcaster[statemachine.Event], func(), error) {
	var cfg redis.Config
	if err := config.Load(&cfg); err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	client, err := redis.Connect(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	stream := broadcast.NewRedisBroadcaster[statemachine.Event](client, cfg.Channel,
		broadcast.WithErrorHandler(func(err error) {
			log.Error("event stream error", logger.Error(err))
		}),
	)
	log.InfoContext(ctx, "publishing machine events", slog.String("channel", cfg.Channel))

	return stream, func() {
		_ = stream.Close()
		_ = client.Close()
	}, nil
}
