package redis

import "time"

// Config describes the Redis connection used to publish machine events.
type Config struct {
	ConnectionURL  string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	Channel        string        `env:"REDIS_EVENTS_CHANNEL" envDefault:"statemachine.events"`
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"2s"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"10s"`
}

// Validate checks the settings needed to publish machine events.
func (c Config) Validate() error {
	if c.ConnectionURL == "" {
		return ErrEmptyConnectionURL
	}
	if c.Channel == "" {
		return ErrEmptyEventsChannel
	}
	return nil
}
