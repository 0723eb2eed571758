/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package cache provides the Redis-backed shared tier of the API key cache.
package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// KeyShippingAPIKey addresses the shared API key entry. The entry value is
// the plain-text key; its expiry is set to the configured key TTL so it ages
// out independently of any process instance.
const KeyShippingAPIKey = "orderstatus:cache:shipping_api_key"

// Config contains cache configuration.
type Config struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Fallback behavior
	DisableOnError bool // If true, disable caching on Redis errors
}

// DefaultConfig returns default cache configuration.
func DefaultConfig() Config {
	return Config{
		RedisAddr:      "localhost:6379",
		DisableOnError: true,
	}
}

// Cache provides Redis-backed caching with graceful fallback. A cache outage
// never fails a request; key resolution falls through to the next tier.
type Cache struct {
	client *redis.Client
	logger zerolog.Logger
	config Config

	mu       sync.RWMutex
	disabled bool // Circuit breaker state
}

// New creates a new cache instance.
func New(cfg Config, logger zerolog.Logger) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn().Err(err).Msg("Redis cache unavailable, running without shared key cache")
		return &Cache{
			logger:   logger.With().Str("component", "cache").Logger(),
			config:   cfg,
			disabled: true,
		}, nil
	}

	logger.Info().Str("addr", cfg.RedisAddr).Msg("Redis cache initialized")

	return &Cache{
		client: client,
		logger: logger.With().Str("component", "cache").Logger(),
		config: cfg,
	}, nil
}

// Close closes the Redis connection.
func (c *Cache) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// IsAvailable returns true if the cache is operational.
func (c *Cache) IsAvailable() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.disabled && c.client != nil
}

// handleError handles Redis errors with circuit breaker logic.
func (c *Cache) handleError(err error, operation string) {
	if err == nil || err == redis.Nil {
		return
	}

	c.logger.Debug().Err(err).Str("operation", operation).Msg("cache operation failed")

	if c.config.DisableOnError {
		c.mu.Lock()
		c.disabled = true
		c.mu.Unlock()
		c.logger.Warn().Msg("disabling cache due to Redis error")
	}
}

// GetAPIKey retrieves the shared API key entry. A miss, an unavailable
// cache, and a Redis error all report "not found".
func (c *Cache) GetAPIKey(ctx context.Context) (string, bool) {
	if !c.IsAvailable() {
		return "", false
	}

	val, err := c.client.Get(ctx, KeyShippingAPIKey).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		c.handleError(err, "get")
		return "", false
	}

	val = strings.TrimSpace(val)
	if val == "" {
		return "", false
	}

	c.logger.Debug().Msg("shared API key cache hit")
	return val, true
}

// SetAPIKey stores the API key in the shared cache with the given TTL.
func (c *Cache) SetAPIKey(ctx context.Context, key string, ttl time.Duration) error {
	if !c.IsAvailable() {
		return nil
	}

	if err := c.client.Set(ctx, KeyShippingAPIKey, key, ttl).Err(); err != nil {
		c.handleError(err, "set")
		return err
	}

	c.logger.Debug().Dur("ttl", ttl).Msg("cached API key in shared tier")
	return nil
}
