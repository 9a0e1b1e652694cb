// Package config centralises configuration parsing for the exercise service.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures runtime configuration values.
type Config struct {
	HTTPAddress            string
	// PostgresURL empty selects the in-memory repository.
	PostgresURL            string
	PostgresMigrate        bool
	// KafkaBrokers empty disables event publishing.
	KafkaBrokers           []string
	EventsTopic            string
	JWTSecret              string
	JWTIssuer              string
	HTTPTimeout            time.Duration
	CacheInvalidationURL   string
	CacheInvalidationToken string
	CORSOrigin             string
	ShutdownTimeout        time.Duration
}

// Load reads environment variables and applies defaults for local dev.
func Load() Config {
	return Config{
		HTTPAddress:            getEnv("HTTP_ADDRESS", ":8080"),
		PostgresURL:            getEnv("POSTGRES_URL", ""),
		PostgresMigrate:        getBoolEnv("POSTGRES_MIGRATE", true),
		KafkaBrokers:           splitAndTrim(getEnv("KAFKA_BROKERS", "")),
		EventsTopic:            getEnv("EXERCISE_EVENTS_TOPIC", "exercise_events"),
		JWTSecret:              getEnv("JWT_SECRET", "dev-secret-change-me"),
		JWTIssuer:              getEnv("JWT_ISSUER", "i5e.identity"),
		HTTPTimeout:            getDurationEnv("HTTP_TIMEOUT", 5*time.Second),
		CacheInvalidationURL:   getEnv("CACHE_INVALIDATION_URL", ""),
		CacheInvalidationToken: getEnv("CACHE_INVALIDATION_TOKEN", ""),
		CORSOrigin:             getEnv("CORS_ORIGIN", "http://localhost:5173"),
		ShutdownTimeout:        getDurationEnv("SHUTDOWN_TIMEOUT", 15*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}
