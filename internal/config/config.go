// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads application configuration from environment variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath     string `env:"SOYLE_DB_PATH" envDefault:"./data/soyle.db"`
	ServerHost string `env:"SOYLE_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"SOYLE_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"SOYLE_ENV" envDefault:"development"`
	LogLevel   string `env:"SOYLE_LOG_LEVEL" envDefault:"info"`

	// Cache configuration
	RedisURL     string `env:"SOYLE_REDIS_URL"`                         // Optional Redis URL for distributed caching
	CachePrefix  string `env:"SOYLE_CACHE_PREFIX" envDefault:"soyle:"`  // Redis key prefix
	CacheTTL     int    `env:"SOYLE_CACHE_TTL" envDefault:"300"`        // Default cache TTL in seconds
	CacheMaxSize int    `env:"SOYLE_CACHE_MAX_SIZE" envDefault:"10000"` // Max memory cache entries

	// GeoIP configuration
	GeoIPDBPath string `env:"SOYLE_GEOIP_DB_PATH"` // Path to GeoLite2-Country.mmdb file

	// RetentionDays controls how long interaction and event log rows are
	// kept before the nightly prune job removes them. Zero disables pruning.
	RetentionDays int `env:"SOYLE_RETENTION_DAYS" envDefault:"365"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// GeoIPEnabled returns true if GeoIP database is configured.
func (c Config) GeoIPEnabled() bool {
	return c.GeoIPDBPath != ""
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.ServerPort < 1 || cfg.ServerPort > 65535 {
		return nil, fmt.Errorf("SOYLE_SERVER_PORT out of range: %d", cfg.ServerPort)
	}
	if cfg.RetentionDays < 0 {
		return nil, fmt.Errorf("SOYLE_RETENTION_DAYS must not be negative: %d", cfg.RetentionDays)
	}

	return cfg, nil
}
