package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-that-is-long-enough-123"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0", cfg.Host)
	require.Equal(t, "9000", cfg.Port)
	require.Equal(t, "./data/homesync-hub.db", cfg.SQLiteDBPath)
	require.Equal(t, "development", cfg.Env)
	require.False(t, cfg.AllowTestMode)
	require.Equal(t, 3600, cfg.JWTAccessTokenExpirySec)
	require.Equal(t, 2592000, cfg.JWTRefreshTokenExpirySec)
	require.Equal(t, "UTC", cfg.Timezone)
	require.True(t, cfg.TickerEnabled)
	require.Equal(t, 30, cfg.AuditRetentionDays)
	require.Empty(t, cfg.SeedPath)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("PORT", "8088")
	t.Setenv("APP_ENV", "production")
	t.Setenv("ALLOW_TEST_MODE", "true")
	t.Setenv("TIMEZONE", "Europe/Berlin")
	t.Setenv("SCHEDULE_TICKER_ENABLED", "false")
	t.Setenv("AUDIT_RETENTION_DAYS", "7")
	t.Setenv("SEED_PATH", "/etc/homesync/seed.yaml")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "8088", cfg.Port)
	require.Equal(t, "production", cfg.Env)
	require.True(t, cfg.AllowTestMode)
	require.Equal(t, "Europe/Berlin", cfg.Timezone)
	require.False(t, cfg.TickerEnabled)
	require.Equal(t, 7, cfg.AuditRetentionDays)
	require.Equal(t, "/etc/homesync/seed.yaml", cfg.SeedPath)
}

func TestLoad_RejectsShortSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "too-short")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_RejectsMissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
}
