// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Environment name ("development" or "production"); selects the log encoder.
	Env string

	// Base URL of the remote ledger service. Required by the client binaries.
	LedgerBaseURL string

	// Timeout applied to every outbound HTTP request.
	RequestTimeout time.Duration

	// Fake ledger server.
	Port string

	// Session token signing.
	SessionSecret string
	SessionUser   string
	SessionExpiry time.Duration
}

// Load reads configuration from environment variables, loading a .env file
// first if one is present.
func Load() (*Config, error) {
	// A missing .env file is fine; real environment variables still apply.
	_ = godotenv.Load()

	cfg := &Config{
		Env:           getEnv("ENV", "development"),
		LedgerBaseURL: os.Getenv("LEDGER_BASE_URL"),
		Port:          getEnv("PORT", "5000"),
		SessionSecret: getEnv("SESSION_SECRET", "dev-secret"),
		SessionUser:   getEnv("SESSION_USER", "demo"),
	}

	timeout, err := parseDuration(os.Getenv("REQUEST_TIMEOUT"), 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid REQUEST_TIMEOUT: %w", err)
	}
	cfg.RequestTimeout = timeout

	expiry, err := parseDuration(os.Getenv("SESSION_EXPIRY"), 15*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_EXPIRY: %w", err)
	}
	cfg.SessionExpiry = expiry

	return cfg, nil
}

// RequireLedgerBaseURL returns an error if no ledger base URL is configured.
// The fake ledger binary does not need one, so Load itself does not insist.
func (c *Config) RequireLedgerBaseURL() error {
	if c.LedgerBaseURL == "" {
		return fmt.Errorf("LEDGER_BASE_URL is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, defaultVal time.Duration) (time.Duration, error) {
	if s == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %v", d)
	}
	return d, nil
}
