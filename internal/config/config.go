// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

// Config is the server's process configuration. Command-line flags
// override these values.
type Config struct {
	Addr         string        `env:"DUSKFALL_ADDR"          envDefault:":8080"`
	DBPath       string        `env:"DUSKFALL_DB_PATH"       envDefault:"duskfall.db"`
	TickInterval time.Duration `env:"DUSKFALL_TICK_INTERVAL" envDefault:"250ms"`
	LogLevel     string        `env:"DUSKFALL_LOG_LEVEL"     envDefault:"info"`
	LogFormat    string        `env:"DUSKFALL_LOG_FORMAT"    envDefault:"console"`
	MaxGames     int           `env:"DUSKFALL_MAX_GAMES"     envDefault:"64"`
	EndedGameTTL time.Duration `env:"DUSKFALL_ENDED_GAME_TTL" envDefault:"10m"`
	MessageQuota int           `env:"DUSKFALL_MESSAGE_QUOTA" envDefault:"120"`
	CORSOrigin   string        `env:"DUSKFALL_CORS_ORIGIN"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads Config from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the server cannot run with.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("config: DUSKFALL_ADDR is empty")
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("config: tick interval must be positive, got %s", c.TickInterval)
	}
	if c.MaxGames < 1 {
		return fmt.Errorf("config: max games must be at least 1, got %d", c.MaxGames)
	}
	if c.MessageQuota < 0 {
		return fmt.Errorf("config: message quota must not be negative, got %d", c.MessageQuota)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("config: log format must be console or json, got %q", c.LogFormat)
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (zerolog.Level, error) {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("config: log level: %w", err)
	}
	return lvl, nil
}
