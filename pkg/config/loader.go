package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// cache stores one parsed copy per configuration type.
type cache struct {
	mu     sync.Mutex
	values map[reflect.Type]any
}

var (
	globalCache = &cache{values: make(map[reflect.Type]any)}

	defaultEnvLoaded sync.Once
)

// Load parses environment variables into v according to its `env` tags.
//
// The default .env file in the working directory is loaded once per process
// (a missing file is not an error). Each configuration type is parsed once;
// later calls for the same type receive the cached copy.
//
// Example:
//
//	type MachineConfig struct {
//		FailFast bool `env:"STATEMACHINE_FAIL_FAST" envDefault:"false"`
//	}
//
//	var cfg MachineConfig
//	if err := config.Load(&cfg); err != nil {
//		// Handle error
//	}
func Load[T any](v *T) error {
	defaultEnvLoaded.Do(func() {
		_ = godotenv.Load()
	})
	if v == nil {
		return ErrNilPointer
	}

	key := typeKey[T]()

	globalCache.mu.Lock()
	defer globalCache.mu.Unlock()

	if cached, ok := globalCache.values[key]; ok {
		typed, ok := cached.(T)
		if !ok {
			return ErrInvalidConfigType
		}
		*v = typed
		return nil
	}

	if err := parse(v); err != nil {
		return err
	}
	globalCache.values[key] = *v
	return nil
}

// MustLoad works like Load but panics if configuration loading fails.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}

// Reload parses v again, ignoring and replacing the cached copy.
func Reload[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}

	globalCache.mu.Lock()
	defer globalCache.mu.Unlock()

	if err := parse(v); err != nil {
		return err
	}
	globalCache.values[typeKey[T]()] = *v
	return nil
}

// LoadEnv loads the given .env files into the process environment, later files
// overriding earlier ones and the existing environment. Without arguments it
// loads the default .env file without overriding existing variables.
func LoadEnv(files ...string) error {
	var err error
	if len(files) == 0 {
		err = godotenv.Load()
	} else {
		err = godotenv.Overload(files...)
	}
	if err != nil {
		return errors.Join(ErrLoadingEnvFile, err)
	}
	return nil
}

// MustLoadEnv works like LoadEnv but panics on failure.
func MustLoadEnv(files ...string) {
	if err := LoadEnv(files...); err != nil {
		panic(fmt.Sprintf("failed to load env files: %v", err))
	}
}

// ResetCache drops every cached configuration. Intended for tests.
func ResetCache() {
	globalCache.mu.Lock()
	defer globalCache.mu.Unlock()
	clear(globalCache.values)
}

func parse[T any](v *T) error {
	var fresh T
	if err := env.Parse(&fresh); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	*v = fresh
	return nil
}

func typeKey[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
