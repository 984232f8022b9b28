// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs at startup.
type Config struct {
	Port         string
	JWTSecret    string
	DatabasePath string
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first when present, without overriding
// variables already set.
func Load() (*Config, error) {
	// Missing .env is the normal production case.
	_ = godotenv.Load()

	cfg := &Config{
		Port:         getEnv("PORT", "3000"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		DatabasePath: getEnv("DATABASE_PATH", "finance.db"),
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
