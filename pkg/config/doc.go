// Package config loads typed configuration from environment variables.
//
// It wraps github.com/joho/godotenv (for .env files) and
// github.com/caarlos0/env/v11 (for struct tags):
//
//   - Load parses the environment into any struct and caches the result per
//     type, so repeated calls are cheap and consistent.
//   - LoadEnv loads one or more .env files before parsing.
//   - Reload and ResetCache bypass or clear the cache, mostly for tests.
//
// # Usage
//
//	type MachineConfig struct {
//	    FailFast bool `env:"STATEMACHINE_FAIL_FAST" envDefault:"false"`
//	}
//
//	var cfg MachineConfig
//	if err := config.Load(&cfg); err != nil {
//	    log.Fatalf("parsing env: %v", err)
//	}
//
// # Error Handling
//
// Errors are sentinels joined with the underlying cause; compare with
// errors.Is: ErrParsingConfig, ErrNilPointer, ErrInvalidConfigType,
// ErrLoadingEnvFile.
package config
