package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Server
	Port        string
	Environment string

	// Workbook
	DataFile    string
	LockFile    string
	LockTimeout time.Duration

	// Receipts
	UploadDir string

	// Session tokens
	SessionSecret   string
	SessionTTLHours int

	// CORS
	AllowedOrigins []string

	// Sentry
	SentryDSN string
}

// DefaultLockTimeout is how long a writer waits for the workbook lock.
const DefaultLockTimeout = 10 * time.Second

// Load reads configuration from environment variables
func Load() (*Config, error) {
	dataFile := getEnv("DATA_FILE", "construction_data.xlsx")

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		Environment:     getEnv("ENVIRONMENT", "development"),
		DataFile:        dataFile,
		LockFile:        getEnv("LOCK_FILE", dataFile+".lock"),
		LockTimeout:     getEnvAsDuration("LOCK_TIMEOUT_SECONDS", DefaultLockTimeout),
		UploadDir:       getEnv("UPLOAD_DIR", "uploads"),
		SessionSecret:   getEnv("SESSION_SECRET", ""),
		SessionTTLHours: getEnvAsInt("SESSION_TTL_HOURS", 12),
		AllowedOrigins:  getEnvAsSlice("ALLOWED_ORIGINS", []string{"*"}),
		SentryDSN:       getEnv("SENTRY_DSN", ""),
	}

	if cfg.DataFile == "" {
		return nil, fmt.Errorf("DATA_FILE is required")
	}

	if cfg.LockTimeout <= 0 {
		return nil, fmt.Errorf("LOCK_TIMEOUT_SECONDS must be positive")
	}

	if cfg.SessionSecret == "" && cfg.Environment == "production" {
		return nil, fmt.Errorf("SESSION_SECRET is required in production")
	}

	// Set default session secret for development
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = "dev-secret-change-in-production"
	}

	return cfg, nil
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt reads an environment variable as integer
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration reads a whole number of seconds
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	seconds := getEnvAsInt(key, -1)
	if seconds < 0 {
		return defaultValue
	}
	return time.Duration(seconds) * time.Second
}

// getEnvAsSlice reads an environment variable as comma-separated slice
func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
