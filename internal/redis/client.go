// Package redis wraps the go-redis client used for the optional transaction
// view cache and the change event stream.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/paibudget/budget-service/internal/config"
)

// Client is the shared connection behind the view cache and the event
// publisher or subscriber. It is only created when redis.addr is set.
type Client struct {
	*redis.Client
}

// NewClient connects using the service's Redis settings and pings the server.
// An unreachable server fails startup instead of silently disabling the cache.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("redis is not configured")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}
	return &Client{Client: rdb}, nil
}
