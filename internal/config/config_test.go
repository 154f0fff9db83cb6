package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "support-portal", cfg.App.Name)
	require.Equal(t, "5000", cfg.App.Port)
	require.Equal(t, "0.0.0.0:5000", cfg.App.Addr())
	require.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	require.True(t, cfg.App.IsDevelopment())
	require.True(t, cfg.Postgres.RunMigrations)
	require.Equal(t, 12, cfg.Auth.BcryptCost)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "8080")
	t.Setenv("APP_ENV", "production")
	t.Setenv("POSTGRES_RUN_MIGRATIONS", "false")
	t.Setenv("AUTH_ACCESS_TOKEN_TTL_MINUTES", "15")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.App.Port)
	require.False(t, cfg.App.IsDevelopment())
	require.False(t, cfg.Postgres.RunMigrations)
	require.Equal(t, 15, cfg.Auth.AccessTokenTTLMinutes)
}

func TestLoadBadIntFallsBack(t *testing.T) {
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 30, cfg.App.RequestTimeoutSeconds)
}

func TestLoadRejectsBadRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")

	_, err := Load()
	require.Error(t, err)
}
