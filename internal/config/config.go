// SendUp - Peer-to-Peer Freight Marketplace
// Copyright 2026 margoul1Malin
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/margoul1Malin/sendup

// Package config handles application configuration from environment
// variables and an optional YAML file, layered over built-in defaults
// with Koanf v2. Precedence: ENV > file > defaults.
package config

import (
	"fmt"
	"time"

	"github.com/margoul1Malin/sendup/internal/matching"
)

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig    `koanf:"server"`
	Database DatabaseConfig  `koanf:"database"`
	Security SecurityConfig  `koanf:"security"`
	API      APIConfig       `koanf:"api"`
	Logging  LoggingConfig   `koanf:"logging"`
	Matching matching.Config `koanf:"matching"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`

	// Timeout applies to both read and write on the HTTP server.
	Timeout time.Duration `koanf:"timeout"`

	// ShutdownTimeout bounds graceful shutdown on SIGTERM.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// Environment is "development" or "production". Production tightens
	// validation (JWT secret becomes mandatory).
	Environment string `koanf:"environment"`
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	// Path is the DuckDB database file. Empty means in-memory, which is
	// only useful for tests.
	Path string `koanf:"path"`

	// MaxMemory is passed to DuckDB as its memory limit (e.g. "2GB").
	MaxMemory string `koanf:"max_memory"`

	// Threads limits DuckDB worker threads. Zero lets DuckDB decide.
	Threads int `koanf:"threads"`
}

// SecurityConfig holds authentication and rate limiting settings.
type SecurityConfig struct {
	// JWTSecret signs access tokens. Must be at least 32 characters.
	// Required in production; in development an ephemeral secret is
	// generated when empty.
	JWTSecret string `koanf:"jwt_secret"`

	// TokenTTL is the access token lifetime.
	TokenTTL time.Duration `koanf:"token_ttl"`

	// RefreshTTL is the refresh session lifetime.
	RefreshTTL time.Duration `koanf:"refresh_ttl"`

	// BcryptCost is the bcrypt work factor for password hashing.
	BcryptCost int `koanf:"bcrypt_cost"`

	// SessionStorePath is the Badger directory for refresh sessions.
	// Empty means in-memory sessions (lost on restart).
	SessionStorePath string `koanf:"session_store_path"`

	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	CORSOrigins []string `koanf:"cors_origins"`
}

// APIConfig holds pagination settings for listing endpoints.
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1-65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}
	if c.Server.Environment != "development" && c.Server.Environment != "production" {
		return fmt.Errorf("server.environment must be development or production, got %q", c.Server.Environment)
	}

	if c.IsProduction() && c.Security.JWTSecret == "" {
		return fmt.Errorf("security.jwt_secret is required in production (set JWT_SECRET)")
	}
	if c.Security.JWTSecret != "" && len(c.Security.JWTSecret) < 32 {
		return fmt.Errorf("security.jwt_secret must be at least 32 characters, got %d", len(c.Security.JWTSecret))
	}
	if c.Security.TokenTTL <= 0 {
		return fmt.Errorf("security.token_ttl must be positive, got %s", c.Security.TokenTTL)
	}
	if c.Security.RefreshTTL < c.Security.TokenTTL {
		return fmt.Errorf("security.refresh_ttl must be >= token_ttl, got %s < %s",
			c.Security.RefreshTTL, c.Security.TokenTTL)
	}
	if c.Security.BcryptCost < 10 || c.Security.BcryptCost > 31 {
		return fmt.Errorf("security.bcrypt_cost must be in 10-31, got %d", c.Security.BcryptCost)
	}
	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs < 1 {
			return fmt.Errorf("security.rate_limit_reqs must be positive, got %d", c.Security.RateLimitReqs)
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("security.rate_limit_window must be positive, got %s", c.Security.RateLimitWindow)
		}
	}

	if c.API.DefaultPageSize < 1 {
		return fmt.Errorf("api.default_page_size must be positive, got %d", c.API.DefaultPageSize)
	}
	if c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("api.max_page_size must be >= api.default_page_size, got %d < %d",
			c.API.MaxPageSize, c.API.DefaultPageSize)
	}

	if err := c.Matching.Validate(); err != nil {
		return fmt.Errorf("matching: %w", err)
	}

	return nil
}
