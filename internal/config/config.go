// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration values for the export API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// GroupTolerance is the time window within which container-bearing
	// submissions at the same location merge into one group. Set
	// GROUP_TOLERANCE_SECONDS to override the 60-second default.
	GroupTolerance time.Duration

	// MigrateOnStart applies pending schema migrations during server
	// bootstrap when MIGRATE_ON_START is "true".
	MigrateOnStart bool
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set or
// malformed.
func Load() (Config, error) {
	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		CORSOrigins:    splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		MigrateOnStart: getEnv("MIGRATE_ON_START", "false") == "true",
	}

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	tolerance, err := toleranceFromEnv()
	if err != nil {
		return Config{}, err
	}
	cfg.GroupTolerance = tolerance

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// toleranceFromEnv parses GROUP_TOLERANCE_SECONDS. Zero or negative values
// are rejected rather than silently defaulted, since a misconfigured
// tolerance silently changes grouping behavior.
func toleranceFromEnv() (time.Duration, error) {
	raw := getEnv("GROUP_TOLERANCE_SECONDS", "60")
	secs, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("GROUP_TOLERANCE_SECONDS is not an integer: %q", raw)
	}
	if secs <= 0 {
		return 0, fmt.Errorf("GROUP_TOLERANCE_SECONDS must be positive, got %d", secs)
	}
	return time.Duration(secs) * time.Second, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
