package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
	"github.com/dmitrijs2005/gophauth/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Absent keys
// leave the corresponding Config field untouched.
type JsonConfig struct {
	EndpointAddrHTTP string          `json:"endpoint_addr_http"`
	EndpointAddrGRPC string          `json:"endpoint_addr_grpc"`
	DatabaseDSN      string          `json:"database_dsn"`
	OIDCDomain       string          `json:"oidc_domain"`
	OIDCAudience     string          `json:"oidc_audience"`
	OIDCIssuerScheme string          `json:"oidc_issuer_scheme"`
	OIDCTimeout      *timex.Duration `json:"oidc_timeout"`
	OIDCLinkSubject  *bool           `json:"oidc_link_subject"`
	PasswordScheme   string          `json:"password_scheme"`
	BcryptCost       int             `json:"bcrypt_cost"`
	AdminToken       string          `json:"admin_token"`
	LogLevel         string          `json:"log_level"`
	ShutdownTimeout  *timex.Duration `json:"shutdown_timeout"`
}

// parseJson overlays the file named by -c / -config, if any.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigFilePath(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return err
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.OIDCDomain, c.OIDCDomain)
	setString(&config.OIDCAudience, c.OIDCAudience)
	setString(&config.OIDCIssuerScheme, c.OIDCIssuerScheme)
	setString(&config.PasswordScheme, c.PasswordScheme)
	setString(&config.AdminToken, c.AdminToken)
	setString(&config.LogLevel, c.LogLevel)

	if c.OIDCTimeout != nil {
		config.OIDCTimeout = c.OIDCTimeout.Duration
	}
	if c.ShutdownTimeout != nil {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	if c.OIDCLinkSubject != nil {
		config.OIDCLinkSubject = *c.OIDCLinkSubject
	}
	if c.BcryptCost != 0 {
		config.BcryptCost = c.BcryptCost
	}

	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
