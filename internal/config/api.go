package config

import (
	"errors"
	"fmt"
	"net"
	"time"
)

type APIConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	WriteTimeout time.Duration `mapstructure:"write-timeout"`
	ReadTimeout  time.Duration `mapstructure:"read-timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle-timeout"`
}

func (cfg *APIConfig) Validate() error {
	if cfg.Host == "" {
		return errors.New("api host is required")
	}
	if cfg.Port < 1024 || cfg.Port > 65535 {
		return fmt.Errorf("api port must be between 1024 and 65535 (got %d)", cfg.Port)
	}
	if cfg.WriteTimeout <= 0 {
		return errors.New("write-timeout must be positive")
	}
	if cfg.ReadTimeout <= 0 {
		return errors.New("read-timeout must be positive")
	}
	if cfg.IdleTimeout <= 0 {
		return errors.New("idle-timeout must be positive")
	}

	return nil
}

func (cfg *APIConfig) Address() string {
	return net.JoinHostPort(cfg.Host, fmt.Sprintf("%d", cfg.Port))
}
