// Package cache provides a Redis-backed key/value cache with lifecycle coordination.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/JaimeStill/registry/pkg/lifecycle"
)

// System is a TTL-bounded byte cache.
type System interface {
	// Get returns the cached value or ErrMiss.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value under key for the configured TTL.
	Set(ctx context.Context, key string, value []byte) error
	// Delete evicts key. Evicting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Start registers startup ping, shutdown close, and readiness hooks.
	Start(lc *lifecycle.Coordinator) error
}

type redisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *slog.Logger
}

// New creates a Redis cache from cfg. It parses the URL and applies pool
// settings but does not dial until the first command or Start.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.DialTimeout = cfg.DialTimeoutDuration()
	opts.ReadTimeout = cfg.ReadTimeoutDuration()
	opts.WriteTimeout = cfg.WriteTimeoutDuration()

	return &redisCache{
		client: redis.NewClient(opts),
		prefix: cfg.Prefix,
		ttl:    cfg.TTLDuration(),
		logger: logger.With("system", "cache"),
	}, nil
}

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("cache get %s: %w", key, err)
	}
	return v, nil
}

func (c *redisCache) Set(ctx context.Context, key string, value []byte) error {
	if err := c.client.Set(ctx, c.prefix+key, value, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

func (c *redisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.prefix+key).Err(); err != nil {
		return fmt.Errorf("cache delete %s: %w", key, err)
	}
	return nil
}

func (c *redisCache) Start(lc *lifecycle.Coordinator) error {
	c.logger.Info("starting cache connection")

	lc.OnStartup(func() {
		if err := c.client.Ping(lc.Context()).Err(); err != nil {
			c.logger.Error("cache ping failed", "error", err)
			return
		}
		c.logger.Info("cache connection established")
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		if err := c.client.Close(); err != nil {
			c.logger.Error("cache close failed", "error", err)
			return
		}
		c.logger.Info("cache connection closed")
	})

	lc.OnProbe("cache", func(ctx context.Context) error {
		return c.client.Ping(ctx).Err()
	})

	return nil
}
