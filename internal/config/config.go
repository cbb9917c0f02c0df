// Package config handles application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds the application configuration.
type Config struct {
	TelegramBotToken string
	DatabasePath     string
	LogLevel         string
	CheckInterval    int // seconds between scan cycles
	CheckEnabled     bool
	ProxyEnabled     bool
	ProxyListURL     string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "./data/bot.db"
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	interval := 60
	if raw := os.Getenv("CHECK_INTERVAL"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("invalid CHECK_INTERVAL %q: must be a positive number of seconds", raw)
		}
		interval = v
	}

	checkEnabled, err := boolEnv("ENABLE_CHECK", true)
	if err != nil {
		return nil, err
	}

	proxyEnabled, err := boolEnv("ENABLE_PROXY", false)
	if err != nil {
		return nil, err
	}

	proxyURL := os.Getenv("PROXY_LIST_URL")
	if proxyEnabled && proxyURL == "" {
		return nil, fmt.Errorf("PROXY_LIST_URL is required when ENABLE_PROXY is true")
	}

	return &Config{
		TelegramBotToken: token,
		DatabasePath:     dbPath,
		LogLevel:         logLevel,
		CheckInterval:    interval,
		CheckEnabled:     checkEnabled,
		ProxyEnabled:     proxyEnabled,
		ProxyListURL:     proxyURL,
	}, nil
}

func boolEnv(key string, def bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	switch strings.ToLower(raw) {
	case "true", "1", "yes":
		return true, nil
	case "false", "0", "no":
		return false, nil
	default:
		return false, fmt.Errorf("invalid %s %q: expected true or false", key, raw)
	}
}
