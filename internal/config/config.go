// Package config contains everything related to configuration
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/j-veylop/zonetls/internal/chunk"
	"github.com/j-veylop/zonetls/internal/cloudflare"
)

// Config holds the application configuration. The API token may also be
// supplied on the command line, so Load does not require it.
type Config struct {
	APIToken    string
	BaseURL     string
	MaxSpan     time.Duration
	HTTPTimeout time.Duration
	Delay       time.Duration
	Limit       int
}

// Default values
const (
	defaultDelay = 500 * time.Millisecond
	defaultLimit = 1000
)

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	// Try loading .env from multiple locations
	envPaths := getEnvPaths()
	for _, path := range envPaths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	cfg := &Config{
		APIToken:    getEnvString("CF_API_TOKEN", ""),
		BaseURL:     getEnvString("CF_API_BASE_URL", cloudflare.DefaultBaseURL),
		MaxSpan:     getEnvDuration("ZONETLS_MAX_SPAN", chunk.DefaultMaxSpan),
		HTTPTimeout: getEnvDuration("ZONETLS_HTTP_TIMEOUT", cloudflare.DefaultTimeout),
		Delay:       getEnvDuration("ZONETLS_DELAY", defaultDelay),
		Limit:       getEnvInt("ZONETLS_LIMIT", defaultLimit),
	}

	return cfg, nil
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	// Current directory
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	// Home directory locations
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "zonetls", ".env"),
			filepath.Join(home, ".zonetls", ".env"),
		)
	}

	return paths
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30s", "1m", "500ms".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Try parsing as seconds if no unit specified
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns the default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
