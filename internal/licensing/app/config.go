package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultAdminID is the main admin identity used when LICENSING_ADMIN_ID is
// unset. The grant attached to it is implicit and cannot be revoked.
const DefaultAdminID = "admin"

type Config struct {
	AdminID      string // Optional: main admin identity (default: "admin")
	DatabaseFile string // Optional: path to SQLite database file (default: ./licensing.db)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
	RequestTimeout      time.Duration // Per-request store work deadline (default: 5s)
	CORSOrigins         []string      // Allowed CORS origins (default: *)
}

func LoadConfig() Config {
	return Config{
		AdminID:             getEnvOrDefault("LICENSING_ADMIN_ID", DefaultAdminID),
		DatabaseFile:        getEnvOrDefault("LICENSING_DATABASE_FILE", "licensing.db"),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		RequestTimeout:      getEnvDurationOrDefault("LICENSING_REQUEST_TIMEOUT", 5*time.Second),
		CORSOrigins:         getEnvListOrDefault("LICENSING_CORS_ORIGINS", []string{"*"}),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}

func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
