package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"twentyone/internal/game"
)

// Config is the bot configuration, read from the environment and an
// optional .env file.
type Config struct {
	BotToken     string `env:"BOT_TOKEN"`
	DatabasePath string `env:"DATABASE_PATH" envDefault:"./twentyone.db"`
	TargetScore  int    `env:"TARGET_SCORE" envDefault:"21"`
	DealerStop   int    `env:"DEALER_STOP" envDefault:"17"`
	TopLimit     int    `env:"TOP_LIMIT" envDefault:"10"`
}

func (c *Config) Rules() game.Rules {
	return game.Rules{TargetScore: c.TargetScore, DealerStop: c.DealerStop}
}

func Load() (*Config, error) {
	godotenv.Load()

	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return nil, err
	}

	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN is not set")
	}
	if err := cfg.Rules().Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
