// Package redis opens the go-redis client behind the redis storage driver.
//
// Open validates the URL, applies pool settings from Config and pings the
// server with linear backoff until it answers or the attempts run out.
//
//	client, err := redis.Open(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
package redis
