package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultDialTimeout = 5 * time.Second
	defaultIOTimeout   = time.Second
)

// Config holds the connection settings for the idempotency cache.
type Config struct {
	Addr     string
	DB       int
	PoolSize int
	// DialTimeout bounds connecting and the startup ping.
	DialTimeout time.Duration
	// IOTimeout bounds each command.
	IOTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.DialTimeout <= 0 {
		c.DialTimeout = defaultDialTimeout
	}
	if c.IOTimeout <= 0 {
		c.IOTimeout = defaultIOTimeout
	}
	return c
}

// Connect builds a client and pings it before returning.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	cfg = cfg.withDefaults()

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.IOTimeout,
		WriteTimeout: cfg.IOTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}

	return client, nil
}

// HealthCheck returns a readiness probe for client.
func HealthCheck(client redis.Cmdable) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis ping: %w", err)
		}
		return nil
	}
}
