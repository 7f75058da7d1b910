package redis

import "errors"

var (
	ErrEmptyConnectionURL           = errors.New("redis: REDIS_URL is empty")
	ErrFailedToParseRedisConnString = errors.New("redis: invalid connection URL")
	ErrRedisNotReady                = errors.New("redis: server did not answer before the connect timeout")
	ErrHealthcheckFailed            = errors.New("redis: healthcheck failed")
	ErrEmptyEventsChannel           = errors.New("redis: REDIS_EVENTS_CHANNEL is empty")
)
