package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the bot.
type Config struct {
	// Telegram configuration
	BotToken string

	// Report store service configuration
	BackendURL string

	// Session store configuration. RedisAddr empty means in-memory.
	RedisAddr  string
	SessionTTL time.Duration
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{
		BotToken:   getEnv("TELEGRAM_BOT_TOKEN", ""),
		BackendURL: getEnv("BACKEND_URL", "http://localhost:8000"),
		RedisAddr:  getEnv("REDIS_ADDR", ""),
		SessionTTL: getEnvDuration("SESSION_TTL", 24*time.Hour),
	}

	if config.BotToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN env var is required")
	}

	return config, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration gets a duration environment variable or returns a
// default value. A zero duration disables session expiry.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
