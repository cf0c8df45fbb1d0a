// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/comicvault/internal/platform/config"
)

/*
TestLoad_Defaults verifies that only the required variables must be set.
*/
func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/comics")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("JWT_PUBLIC_KEY_PATH", "/keys/public.pem")
	t.Setenv("EXTRA_ORIGINS", "https://a.example, ,https://b.example")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "./data/comics", cfg.ComicsRoot)
	assert.Equal(t, 10*time.Minute, cfg.KeywordCacheTTL)
	assert.Equal(t, 5.0, cfg.WriteRateLimitRPS)
	assert.Equal(t, 150, cfg.RateLimitBurst)
	assert.Empty(t, cfg.JWTPrivKeyPath)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins())
}

/*
TestLoad_MissingRequired fails fast when the database is not configured.
*/
func TestLoad_MissingRequired(t *testing.T) {
	// Setenv registers the restore, Unsetenv removes the variable entirely
	t.Setenv("DATABASE_URL", "unused")
	require.NoError(t, os.Unsetenv("DATABASE_URL"))
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("JWT_PUBLIC_KEY_PATH", "/keys/public.pem")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_RejectsNonPositiveLimits(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/comics")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("JWT_PUBLIC_KEY_PATH", "/keys/public.pem")
	t.Setenv("WRITE_RATE_LIMIT_RPS", "0")

	_, err := config.Load()
	assert.ErrorContains(t, err, "rate limits")
}
