// Package config loads process configuration from the environment and
// command-line flags. The result is built once in main and passed to
// constructors.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/pflag"
)

const minSecretLength = 32

// Config holds runtime settings for the API server.
type Config struct {
	Port        string        `env:"PORT" envDefault:"8000"`
	DatabaseURI string        `env:"DATABASE_URI" envDefault:"todo.db"`
	JWTSecret   string        `env:"JWT_SECRET"`
	FrontendURL string        `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`
	BcryptCost  int           `env:"BCRYPT_COST" envDefault:"12"`
	TokenTTL    time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	LogLevel    slog.Level    `env:"LOG_LEVEL" envDefault:"info"`
}

// Load parses the environment, applies flag overrides from args (without
// the program name), and validates the result. pflag.ErrHelp is returned
// unchanged when -h/--help is given.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	fs := pflag.NewFlagSet("todo-api", pflag.ContinueOnError)
	fs.StringVar(&cfg.Port, "port", cfg.Port, "port to listen on")
	fs.StringVar(&cfg.DatabaseURI, "database-uri", cfg.DatabaseURI, "MongoDB URI or SQLite file path")
	fs.StringVar(&cfg.FrontendURL, "frontend-url", cfg.FrontendURL, "origin allowed to make credentialed cross-origin requests")
	fs.IntVar(&cfg.BcryptCost, "bcrypt-cost", cfg.BcryptCost, "bcrypt work factor (4-14)")
	logLevel := fs.String("log-level", cfg.LogLevel.String(), "log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, err
		}
		return nil, fmt.Errorf("parse flags: %w", err)
	}
	if fs.Changed("log-level") {
		if err := cfg.LogLevel.UnmarshalText([]byte(*logLevel)); err != nil {
			return nil, fmt.Errorf("parse flags: log-level: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET environment variable is required")
	}
	if len(c.JWTSecret) < minSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters for HMAC-SHA256 security", minSecretLength)
	}
	if c.BcryptCost < 4 || c.BcryptCost > 14 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 14, got %d", c.BcryptCost)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	if strings.TrimSpace(c.Port) == "" {
		return errors.New("PORT must not be empty")
	}
	if strings.TrimSpace(c.FrontendURL) == "" {
		return errors.New("FRONTEND_URL must not be empty")
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// UsesMongo reports whether DatabaseURI names a MongoDB deployment rather
// than a SQLite file.
func (c *Config) UsesMongo() bool {
	return strings.HasPrefix(c.DatabaseURI, "mongodb://") ||
		strings.HasPrefix(c.DatabaseURI, "mongodb+srv://")
}
