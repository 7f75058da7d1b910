// Package redis connects to the Redis server that carries the machine event
// stream published by broadcast.RedisBroadcaster.
//
// Connect parses a redis:// URL, pings the server with retries and returns a
// ready *redis.Client. Healthcheck turns any client into a liveness probe.
// Config is populated from environment variables with the config package:
//
//	var cfg redis.Config
//	if err := config.Load(&cfg); err != nil {
//	    return err
//	}
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	events := broadcast.NewRedisBroadcaster[statemachine.Event](client, cfg.Channel)
package redis
