// Package config reads the runtime configuration from the environment.
// A .env file is honoured when present; hosted deployments set the
// variables directly.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the environment-driven settings.
type Config struct {
	Token    string // bot token from @BotFather
	ChatID   int64  // group the scheduler posts into
	Port     string // HTTP listen port for the health surface
	LogFile  string // path to log file, empty for stderr only
	Debug    bool   // enable debug logging
	Timezone string // IANA zone for schedules and ban deadlines
}

// FromEnv builds a Config from the process environment, applying
// defaults. Validation is separate so the web-only mode can run
// without bot credentials.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Token:    os.Getenv("TOKEN"),
		Port:     getenv("PORT", "8080"),
		LogFile:  os.Getenv("LOG_FILE"),
		Timezone: getenv("TIMEZONE", "Africa/Cairo"),
	}

	if v := os.Getenv("CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing CHAT_ID: %w", err)
		}
		cfg.ChatID = id
	}

	if v := os.Getenv("DEBUG"); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("parsing DEBUG: %w", err)
		}
		cfg.Debug = debug
	}

	return cfg, nil
}

// ValidateBot checks the settings the bot mode cannot run without.
func (c *Config) ValidateBot() error {
	if c.Token == "" {
		return fmt.Errorf("TOKEN is required")
	}
	if c.ChatID == 0 {
		return fmt.Errorf("CHAT_ID is required")
	}
	return nil
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
