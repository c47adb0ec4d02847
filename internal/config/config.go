package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	AppEnv          string
	Debug           bool
	Version         string
	BotToken        string
	OwnerIDs        []int64
	SentryDSN       string
	MongoDBURI      string
	MongoDBDatabase string

	// Lead intake rate limiting.
	LeadRateLimit  int
	LeadRateWindow time.Duration

	// Location used by the posting scheduler for wall-clock fire times.
	SchedulerTimezone string

	DefaultLanguage string
}

// LoadConfig loads configuration from environment variables. It attempts to
// load a .env file if present but prioritizes actual environment variables
// set in the system (e.g., by Docker).
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	debug, _ := strconv.ParseBool(getEnv("DEBUG", "false"))

	ownerIDs, err := parseOwnerIDs(getEnv("OWNER_IDS", ""))
	if err != nil {
		return nil, fmt.Errorf("invalid OWNER_IDS: %w", err)
	}

	rateLimit, err := strconv.Atoi(getEnv("LEAD_RATE_LIMIT_PER_HOUR", "10"))
	if err != nil || rateLimit < 1 {
		return nil, fmt.Errorf("invalid LEAD_RATE_LIMIT_PER_HOUR: %q", getEnv("LEAD_RATE_LIMIT_PER_HOUR", "10"))
	}

	rateWindow, err := time.ParseDuration(getEnv("LEAD_RATE_WINDOW", "1h"))
	if err != nil || rateWindow <= 0 {
		return nil, fmt.Errorf("invalid LEAD_RATE_WINDOW: %q", getEnv("LEAD_RATE_WINDOW", "1h"))
	}

	cfg := &Config{
		AppEnv:            getEnv("APP_ENV", "development"),
		Debug:             debug,
		Version:           getEnv("VERSION", "dev"),
		BotToken:          getEnv("TELEGRAM_BOT_TOKEN", ""),
		OwnerIDs:          ownerIDs,
		SentryDSN:         getEnv("SENTRY_DSN", ""),
		MongoDBURI:        getEnv("MONGODB_URI", ""),
		MongoDBDatabase:   getEnv("MONGODB_DATABASE", ""),
		LeadRateLimit:     rateLimit,
		LeadRateWindow:    rateWindow,
		SchedulerTimezone: getEnv("SCHEDULER_TIMEZONE", "UTC"),
		DefaultLanguage:   getEnv("DEFAULT_LANGUAGE", "en"),
	}

	if cfg.BotToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}
	if len(cfg.OwnerIDs) == 0 {
		return nil, fmt.Errorf("OWNER_IDS is required (comma-separated Telegram user IDs)")
	}
	if cfg.MongoDBURI == "" {
		return nil, fmt.Errorf("MONGODB_URI is required")
	}
	if cfg.MongoDBDatabase == "" {
		return nil, fmt.Errorf("MONGODB_DATABASE is required")
	}
	if cfg.SentryDSN == "" {
		log.Println("Warning: SENTRY_DSN is not set. Error tracking disabled.")
	}

	return cfg, nil
}

// parseOwnerIDs splits a comma-separated list of Telegram user IDs.
func parseOwnerIDs(raw string) ([]int64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad owner id %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
