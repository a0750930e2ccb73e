// Package config handles configuration for the server component: defaults,
// an optional JSON file, environment variables and command-line flags, in
// that order of precedence (later wins).
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/server/password"
	"golang.org/x/crypto/bcrypt"
)

// Config holds runtime settings for the gophauth server.
//
// Fields:
//   - EndpointAddrHTTP / EndpointAddrGRPC: bind addresses of the two adapters.
//   - DatabaseDSN: postgres://… selects PostgreSQL (pgx), sqlite://path or file:… selects SQLite.
//   - OIDCDomain / OIDCAudience: identity provider; leaving either empty disables federated login.
//   - OIDCIssuerScheme: scheme used to build issuer, JWKS and userinfo URLs (https outside tests).
//   - OIDCTimeout: bound on every call to the identity provider.
//   - OIDCLinkSubject: reuse users by the provider's stable subject instead of by email only.
//   - PasswordScheme / BcryptCost: hashing of local passwords.
//   - AdminToken: when set, administrative operations require it.
type Config struct {
	EndpointAddrHTTP string
	EndpointAddrGRPC string
	DatabaseDSN      string
	OIDCDomain       string
	OIDCAudience     string
	OIDCIssuerScheme string
	OIDCTimeout      time.Duration
	OIDCLinkSubject  bool
	PasswordScheme   string
	BcryptCost       int
	AdminToken       string
	LogLevel         string
	ShutdownTimeout  time.Duration
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8000"
	c.EndpointAddrGRPC = ":50051"
	c.DatabaseDSN = "sqlite://gophauth.db"
	c.OIDCIssuerScheme = "https"
	c.OIDCTimeout = 5 * time.Second
	c.PasswordScheme = password.SchemeBcrypt
	c.BcryptCost = bcrypt.DefaultCost
	c.LogLevel = "info"
	c.ShutdownTimeout = 10 * time.Second
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if c.DatabaseDSN == "" {
		return fmt.Errorf("database dsn is required")
	}
	if err := password.CheckScheme(c.PasswordScheme, c.BcryptCost); err != nil {
		return err
	}
	if c.OIDCTimeout <= 0 {
		return fmt.Errorf("oidc timeout must be positive")
	}
	return nil
}

// LoadConfig builds a Config from os.Args and the environment.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load applies defaults, then the JSON file named by -c/-config in args,
// then environment variables, then the remaining flags in args.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, args); err != nil {
		return nil, fmt.Errorf("json config: %w", err)
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
