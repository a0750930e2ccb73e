package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// envConfig mirrors Config for environment variables. Pointer fields stay
// nil when the variable is unset, so only present variables override.
// AUTH0_DOMAIN, AUTH0_AUDIENCE and DATABASE_URL keep the names existing
// deployments already export.
type envConfig struct {
	EndpointAddrHTTP *string        `env:"GOPHAUTH_HTTP_ADDR"`
	EndpointAddrGRPC *string        `env:"GOPHAUTH_GRPC_ADDR"`
	DatabaseDSN      *string        `env:"DATABASE_URL"`
	OIDCDomain       *string        `env:"AUTH0_DOMAIN"`
	OIDCAudience     *string        `env:"AUTH0_AUDIENCE"`
	OIDCIssuerScheme *string        `env:"GOPHAUTH_OIDC_SCHEME"`
	OIDCTimeout      *time.Duration `env:"GOPHAUTH_OIDC_TIMEOUT"`
	OIDCLinkSubject  *bool          `env:"GOPHAUTH_OIDC_LINK_SUBJECT"`
	PasswordScheme   *string        `env:"GOPHAUTH_PASSWORD_SCHEME"`
	BcryptCost       *int           `env:"GOPHAUTH_BCRYPT_COST"`
	AdminToken       *string        `env:"GOPHAUTH_ADMIN_TOKEN"`
	LogLevel         *string        `env:"GOPHAUTH_LOG_LEVEL"`
	ShutdownTimeout  *time.Duration `env:"GOPHAUTH_SHUTDOWN_TIMEOUT"`
}

func parseEnv(config *Config) error {
	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	apply(&config.EndpointAddrHTTP, raw.EndpointAddrHTTP)
	apply(&config.EndpointAddrGRPC, raw.EndpointAddrGRPC)
	apply(&config.DatabaseDSN, raw.DatabaseDSN)
	apply(&config.OIDCDomain, raw.OIDCDomain)
	apply(&config.OIDCAudience, raw.OIDCAudience)
	apply(&config.OIDCIssuerScheme, raw.OIDCIssuerScheme)
	apply(&config.OIDCTimeout, raw.OIDCTimeout)
	apply(&config.OIDCLinkSubject, raw.OIDCLinkSubject)
	apply(&config.PasswordScheme, raw.PasswordScheme)
	apply(&config.BcryptCost, raw.BcryptCost)
	apply(&config.AdminToken, raw.AdminToken)
	apply(&config.LogLevel, raw.LogLevel)
	apply(&config.ShutdownTimeout, raw.ShutdownTimeout)

	return nil
}

func apply[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
