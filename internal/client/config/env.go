package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type envConfig struct {
	ServerEndpointAddr  *string        `env:"GOPHAUTH_SERVER_ADDR"`
	AdminToken          *string        `env:"GOPHAUTH_ADMIN_TOKEN"`
	OnlineCheckInterval *time.Duration `env:"GOPHAUTH_ONLINE_CHECK_INTERVAL"`
	RequestTimeout      *time.Duration `env:"GOPHAUTH_REQUEST_TIMEOUT"`
	StatePath           *string        `env:"GOPHAUTH_STATE_PATH"`
}

func parseEnv(cfg *Config) error {
	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	if raw.ServerEndpointAddr != nil {
		cfg.ServerEndpointAddr = *raw.ServerEndpointAddr
	}
	if raw.AdminToken != nil {
		cfg.AdminToken = *raw.AdminToken
	}
	if raw.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = *raw.OnlineCheckInterval
	}
	if raw.RequestTimeout != nil {
		cfg.RequestTimeout = *raw.RequestTimeout
	}
	if raw.StatePath != nil {
		cfg.StatePath = *raw.StatePath
	}
	return nil
}
