package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const defaultPort = 3000

type Config struct {
	Port        int
	DatabaseURL string
	JWTSecret   string
}

// Load reads configuration from the environment, with .env as a convenience
// for local runs. The signing secret and the database DSN have no defaults:
// starting without them is a configuration error, not a fallback case.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{Port: defaultPort}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		cfg.Port = port
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	return cfg, nil
}
