/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config covers process level configuration read from environment variables.
type Config struct {
	Environment string
	HTTPBind    string
	HTTPPort    int
	MetricsBind string

	// Upstream tracking site. The same base URL serves the order API
	// (/api/order_info) and the origin page scanned for the API key.
	UpstreamBaseURL string

	// Shared key cache configuration
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// KeyTTL bounds both the process-local and the shared API key cache.
	KeyTTL time.Duration

	// UpstreamTimeout applies to each outbound call to the tracking site.
	UpstreamTimeout time.Duration

	// Tracing configuration
	TracingEnabled    bool
	OTLPEndpoint      string
	TracingSampleRate float64
}

// Load reads environment variables, applies defaults, and validates the result.
func Load() (*Config, error) {
	cfg := &Config{
		Environment: getEnv("ORDERSTATUS_ENV", "development"),
		HTTPBind:    getEnv("ORDERSTATUS_HTTP_BIND", "0.0.0.0"),
		HTTPPort:    getEnvInt("ORDERSTATUS_HTTP_PORT", 8080),
		MetricsBind: getEnv("ORDERSTATUS_METRICS_BIND", "127.0.0.1:9000"),

		UpstreamBaseURL: getEnv("ORDERSTATUS_UPSTREAM_BASE_URL", ""),

		RedisAddr:     getEnv("ORDERSTATUS_REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("ORDERSTATUS_REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("ORDERSTATUS_REDIS_DB", 0),

		KeyTTL:          time.Duration(getEnvInt("ORDERSTATUS_KEY_TTL_SECONDS", 43200)) * time.Second,
		UpstreamTimeout: time.Duration(getEnvInt("ORDERSTATUS_UPSTREAM_TIMEOUT_SECONDS", 15)) * time.Second,

		TracingEnabled:    getEnvBool("ORDERSTATUS_TRACING_ENABLED", false),
		OTLPEndpoint:      getEnv("ORDERSTATUS_OTLP_ENDPOINT", "localhost:4317"),
		TracingSampleRate: getEnvFloat("ORDERSTATUS_TRACING_SAMPLE_RATE", 1.0),
	}

	if cfg.UpstreamBaseURL == "" {
		return nil, fmt.Errorf("ORDERSTATUS_UPSTREAM_BASE_URL must be provided")
	}
	u, err := url.Parse(cfg.UpstreamBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("ORDERSTATUS_UPSTREAM_BASE_URL %q is not a valid http(s) URL", cfg.UpstreamBaseURL)
	}
	cfg.UpstreamBaseURL = strings.TrimRight(cfg.UpstreamBaseURL, "/")

	if cfg.KeyTTL <= 0 {
		return nil, fmt.Errorf("ORDERSTATUS_KEY_TTL_SECONDS must be positive")
	}
	if cfg.UpstreamTimeout <= 0 {
		return nil, fmt.Errorf("ORDERSTATUS_UPSTREAM_TIMEOUT_SECONDS must be positive")
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if val := os.Getenv(key); val != "" {
		val = strings.ToLower(strings.TrimSpace(val))
		if val == "true" || val == "1" || val == "yes" {
			return true
		}
		if val == "false" || val == "0" || val == "no" {
			return false
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
	}
	return def
}
