// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config reads runtime settings from the environment with caarlos0/env.

The API server and pagectl share one [Config]. DATABASE_URL, REDIS_URL and
JWT_PUBLIC_KEY_PATH are required; everything else has a default suited to
a single-host deployment where page files live under COMICS_ROOT.
*/
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the catalog API server and pagectl.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis), used for the keyword list
	RedisURL        string        `env:"REDIS_URL,required"`
	KeywordCacheTTL time.Duration `env:"KEYWORD_CACHE_TTL" envDefault:"10m"`

	// Viewer identity. The private key is optional: without it the server
	// only verifies tokens issued elsewhere.
	JWTPrivKeyPath string `env:"JWT_PRIVATE_KEY_PATH"`
	JWTPubKeyPath  string `env:"JWT_PUBLIC_KEY_PATH,required"`

	// Page storage
	ComicsRoot     string `env:"COMICS_ROOT"      envDefault:"./data/comics"`
	JournalPath    string `env:"JOURNAL_PATH"     envDefault:"./data/journal"`
	MaxUploadBytes int64  `env:"MAX_UPLOAD_BYTES" envDefault:"104857600"`

	// Per-client token buckets. Writes draw from both buckets.
	RateLimitRPS        float64 `env:"RATE_LIMIT_RPS"         envDefault:"100"`
	RateLimitBurst      int     `env:"RATE_LIMIT_BURST"       envDefault:"150"`
	WriteRateLimitRPS   float64 `env:"WRITE_RATE_LIMIT_RPS"   envDefault:"5"`
	WriteRateLimitBurst int     `env:"WRITE_RATE_LIMIT_BURST" envDefault:"30"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Loading

// Load parses the environment and checks the values env tags cannot express.
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	switch {
	case cfg.MaxUploadBytes <= 0:
		return nil, fmt.Errorf("config: MAX_UPLOAD_BYTES must be positive")
	case cfg.RateLimitRPS <= 0 || cfg.WriteRateLimitRPS <= 0:
		return nil, fmt.Errorf("config: rate limits must be positive")
	}

	return &cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AllowedOrigins splits [Config.ExtraOrigins] into individual origins.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.ExtraOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
