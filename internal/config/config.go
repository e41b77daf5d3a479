// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Port           int      `envconfig:"PORT" default:"8080"`
		StaticPath     string   `envconfig:"STATIC_PATH" default:"./web/static"`
		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
		// URL is the public address of the web client, used in emailed links.
		URL            string   `envconfig:"APP_URL" default:"http://localhost:8080"`
	}

	DB struct {
		Path string `envconfig:"DB_PATH" default:"./data/slipwise.db"`
	}

	Auth struct {
		JWTSecret string        `envconfig:"JWT_SECRET"`
		TokenTTL  time.Duration `envconfig:"JWT_TTL" default:"24h"`
	}

	// Redis is optional. When Addr is empty balances are cached in memory.
	Redis struct {
		Addr     string `envconfig:"REDIS_ADDR"`
		Password string `envconfig:"REDIS_PASSWORD"`
		DB       int    `envconfig:"REDIS_DB" default:"0"`
	}

	Cache struct {
		TTL  time.Duration `envconfig:"BALANCE_CACHE_TTL" default:"5m"`
		Size int           `envconfig:"BALANCE_CACHE_SIZE" default:"256"`
	}

	// SMTP is optional. Password reset emails are disabled when Host is empty.
	SMTP struct {
		Host     string `envconfig:"SMTP_HOST"`
		Port     int    `envconfig:"SMTP_PORT" default:"587"`
		Username string `envconfig:"SMTP_USERNAME"`
		Password string `envconfig:"SMTP_PASSWORD"`
		From     string `envconfig:"SMTP_FROM" default:"Slipwise <no-reply@localhost>"`
	}

	Log struct {
		Level string `envconfig:"LOG_LEVEL" default:"info"`
	}
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.App.Port <= 0 || c.App.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.App.Port))
	}
	if c.DB.Path == "" {
		errs = append(errs, errors.New("DB_PATH is required"))
	}
	if len(c.Auth.JWTSecret) < 16 {
		errs = append(errs, errors.New("JWT_SECRET must be at least 16 characters"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("JWT_TTL must be positive"))
	}
	if c.Cache.TTL <= 0 {
		errs = append(errs, errors.New("BALANCE_CACHE_TTL must be positive"))
	}
	if c.Cache.Size <= 0 {
		errs = append(errs, errors.New("BALANCE_CACHE_SIZE must be positive"))
	}
	if c.SMTP.Host != "" {
		if c.SMTP.Port <= 0 || c.SMTP.Port > 65535 {
			errs = append(errs, fmt.Errorf("SMTP_PORT must be between 1 and 65535, got %d", c.SMTP.Port))
		}
		if c.SMTP.From == "" {
			errs = append(errs, errors.New("SMTP_FROM is required with SMTP_HOST"))
		}
		if c.App.URL == "" {
			errs = append(errs, errors.New("APP_URL is required with SMTP_HOST"))
		}
	}
	return errors.Join(errs...)
}

// Load reads an optional .env file, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
