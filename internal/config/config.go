package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds the base server configuration.
type Config struct {
	Host                     string
	Port                     string
	SQLiteDBPath             string
	Env                      string
	AllowTestMode            bool
	JWTSecret                string
	JWTAccessTokenExpirySec  int
	JWTRefreshTokenExpirySec int

	// SeedPath points at a YAML file with the initial devices, routines,
	// schedules and energy samples. Empty means built-in defaults.
	SeedPath string

	// Timezone is the IANA zone the schedule ticker evaluates "now" in.
	Timezone string

	// TickerEnabled controls whether the minute ticker that fires schedules
	// runs. Disabled in tests that drive the evaluator directly.
	TickerEnabled bool

	// AuditRetentionDays is how long audit events are kept before pruning.
	AuditRetentionDays int
}

// Load reads configuration from environment variables with defaults.
func Load() (Config, error) {
	host := envString("HOST", "0.0.0.0")
	port := envString("PORT", "9000")
	sqlitePath := envString("SQLITE_DB_PATH", "./data/homesync-hub.db")
	env := envString("APP_ENV", "development")
	allowTestMode := envBool("ALLOW_TEST_MODE", false)
	jwtSecret := envString("JWT_SECRET", "")
	jwtAccessExpiry := envInt("JWT_ACCESS_TOKEN_EXPIRY", 3600)
	jwtRefreshExpiry := envInt("JWT_REFRESH_TOKEN_EXPIRY", 2592000)
	seedPath := envString("SEED_PATH", "")
	timezone := envString("TIMEZONE", "UTC")
	tickerEnabled := envBool("SCHEDULE_TICKER_ENABLED", true)
	auditRetention := envInt("AUDIT_RETENTION_DAYS", 30)

	if len(strings.TrimSpace(jwtSecret)) < 32 {
		return Config{}, fmt.Errorf("JWT_SECRET must be at least 32 characters")
	}

	return Config{
		Host:                     host,
		Port:                     port,
		SQLiteDBPath:             sqlitePath,
		Env:                      env,
		AllowTestMode:            allowTestMode,
		JWTSecret:                jwtSecret,
		JWTAccessTokenExpirySec:  jwtAccessExpiry,
		JWTRefreshTokenExpirySec: jwtRefreshExpiry,
		SeedPath:                 seedPath,
		Timezone:                 timezone,
		TickerEnabled:            tickerEnabled,
		AuditRetentionDays:       auditRetention,
	}, nil
}

func envString(key, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}

func envInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func envBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return strings.EqualFold(val, "true")
}
