package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration. It is loaded once at
// startup and passed into constructors; nothing reads the environment
// after Load returns.
type Config struct {
	ServerPort      int
	DatabasePath    string
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	// Audit event retention.
	EventRetentionDays int
	EventPruneSchedule string // cron expression

	// Optional doctor account provisioned at startup if absent.
	BootstrapUsername string
	BootstrapPassword string
}

// Load loads configuration from environment variables or sets defaults.
func Load() (*Config, error) {
	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		return nil, err
	}

	accessTTL, err := time.ParseDuration(getEnv("ACCESS_TOKEN_TTL", "1h"))
	if err != nil {
		return nil, err
	}

	refreshTTL, err := time.ParseDuration(getEnv("REFRESH_TOKEN_TTL", "24h"))
	if err != nil {
		return nil, err
	}

	retentionDays, err := strconv.Atoi(getEnv("EVENT_RETENTION_DAYS", "90"))
	if err != nil {
		return nil, err
	}

	return &Config{
		ServerPort:         port,
		DatabasePath:       getEnv("DATABASE_PATH", "./patients.db"),
		JWTSecret:          getEnv("JWT_SECRET", "dev-insecure-secret"),
		AccessTokenTTL:     accessTTL,
		RefreshTokenTTL:    refreshTTL,
		EventRetentionDays: retentionDays,
		EventPruneSchedule: getEnv("EVENT_PRUNE_SCHEDULE", "0 3 * * *"),
		BootstrapUsername:  getEnv("BOOTSTRAP_USERNAME", ""),
		BootstrapPassword:  getEnv("BOOTSTRAP_PASSWORD", ""),
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
