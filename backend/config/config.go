package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the report store service.
type Config struct {
	// Firebase configuration
	DatabaseURL     string
	CredentialsFile string

	// Server configuration
	Port string
}

// Load loads configuration from environment variables. The Firebase
// settings are mandatory; the service refuses to start without them.
func Load() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{
		DatabaseURL:     getEnv("FIREBASE_DATABASE_URL", ""),
		CredentialsFile: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),

		// Server defaults
		Port: getEnv("PORT", "8000"),
	}

	if config.DatabaseURL == "" {
		return nil, fmt.Errorf("FIREBASE_DATABASE_URL env var is required")
	}
	if config.CredentialsFile == "" {
		return nil, fmt.Errorf("GOOGLE_APPLICATION_CREDENTIALS env var is required")
	}
	if _, err := os.Stat(config.CredentialsFile); err != nil {
		return nil, fmt.Errorf("GOOGLE_APPLICATION_CREDENTIALS must point to a readable service account JSON: %w", err)
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
