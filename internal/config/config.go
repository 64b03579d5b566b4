// Package config loads process configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config 為 cmd/server 的全部設定。
type Config struct {
	DataFile      string        `env:"BANK_DATA_FILE" envDefault:"accounts.txt"`
	HTTPAddr      string        `env:"BANK_HTTP_ADDR" envDefault:"127.0.0.1:8080"`
	TokenSecret   string        `env:"BANK_TOKEN_SECRET"`
	TokenTTL      time.Duration `env:"BANK_TOKEN_TTL" envDefault:"30m"`
	MaxIDAttempts int           `env:"BANK_MAX_ID_ATTEMPTS" envDefault:"100"`
}

// Load 解析環境變數並檢查數值範圍。
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var errs []error
	if c.DataFile == "" {
		errs = append(errs, errors.New("BANK_DATA_FILE must not be empty"))
	}
	if c.HTTPAddr == "" {
		errs = append(errs, errors.New("BANK_HTTP_ADDR must not be empty"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("BANK_TOKEN_TTL must be positive, got %s", c.TokenTTL))
	}
	if c.MaxIDAttempts <= 0 {
		errs = append(errs, fmt.Errorf("BANK_MAX_ID_ATTEMPTS must be positive, got %d", c.MaxIDAttempts))
	}
	return errors.Join(errs...)
}
