// Package store constructs the pooled Redis client shared by the service.
//
// The client is built once by the composition root and injected into every
// consumer; there is no package-level singleton. Closing the returned client
// releases the whole connection pool.
package store

import (
	"github.com/redis/go-redis/v9"

	"github.com/fairyhunter13/flash-sale-simulator/internal/config"
)

// NewClient builds a pooled Redis client from configuration.
//
// The pool bounds concurrent outstanding connections; callers beyond the
// bound queue for a free connection instead of failing. Every round-trip
// carries the configured dial/read/write timeout so a dead store surfaces
// as an error rather than a hung request.
func NewClient(cfg config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr(),
		PoolSize:     cfg.RedisPoolSize,
		DialTimeout:  cfg.RedisTimeout,
		ReadTimeout:  cfg.RedisTimeout,
		WriteTimeout: cfg.RedisTimeout,
	})
}
