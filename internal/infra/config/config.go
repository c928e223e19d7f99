package config

import (
	"fmt"
	"os"
	"strconv"
	"strings" // For LogLevel normalization

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	TelegramToken        string
	DatabaseURL          string
	AdminTelegramID      int64
	AnnounceChatID       int64 // Chat that receives schedule announcements
	LogLevel             string
	Environment          string
	CronSpecRollover     string // Daily check that generates the next cycle when one runs out
	CronSpecWeeklyDigest string // Weekly schedule digest for the announce chat
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is not set")
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	adminIDStr := os.Getenv("ADMIN_TELEGRAM_ID")
	if adminIDStr == "" {
		return nil, fmt.Errorf("ADMIN_TELEGRAM_ID is not set")
	}
	cfg.AdminTelegramID, err = strconv.ParseInt(adminIDStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid ADMIN_TELEGRAM_ID: %w", err)
	}

	announceIDStr := os.Getenv("ANNOUNCE_CHAT_ID")
	if announceIDStr != "" {
		cfg.AnnounceChatID, err = strconv.ParseInt(announceIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ANNOUNCE_CHAT_ID: %w", err)
		}
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	cfg.CronSpecRollover = os.Getenv("CRON_SPEC_ROLLOVER")
	if cfg.CronSpecRollover == "" {
		cfg.CronSpecRollover = "0 9 * * *" // Default: 9:00 AM daily
	}

	cfg.CronSpecWeeklyDigest = os.Getenv("CRON_SPEC_WEEKLY_DIGEST")
	if cfg.CronSpecWeeklyDigest == "" {
		cfg.CronSpecWeeklyDigest = "0 10 * * 1" // Default: 10:00 AM on Mondays
	}

	return cfg, nil
}
