package config

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/server/password"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":8000", c.EndpointAddrHTTP)
	assert.Equal(t, ":50051", c.EndpointAddrGRPC)
	assert.Equal(t, "sqlite://gophauth.db", c.DatabaseDSN)
	assert.Equal(t, "https", c.OIDCIssuerScheme)
	assert.Equal(t, 5*time.Second, c.OIDCTimeout)
	assert.Equal(t, password.SchemeBcrypt, c.PasswordScheme)
	assert.Equal(t, bcrypt.DefaultCost, c.BcryptCost)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, 10*time.Second, c.ShutdownTimeout)
	assert.Empty(t, c.OIDCDomain)
	assert.False(t, c.OIDCLinkSubject)
	assert.Empty(t, c.AdminToken)
}

func TestLoad_UsesDefaultsWithoutInput(t *testing.T) {
	c, err := Load(nil)
	require.NoError(t, err)
	require.NotNil(t, c)

	var want Config
	want.LoadDefaults()
	assert.Equal(t, &want, c)
}

func TestLoad_EnvOverridesJSONAndFlagsOverrideEnv(t *testing.T) {
	path := writeTempJSON(t, "", "cfg.json", map[string]any{
		"endpoint_addr_http": ":1111",
		"database_dsn":       "sqlite://from-json.db",
		"oidc_domain":        "json.example.com",
	})

	t.Setenv("AUTH0_DOMAIN", "env.example.com")
	t.Setenv("AUTH0_AUDIENCE", "env-audience")
	t.Setenv("DATABASE_URL", "sqlite://from-env.db")

	c, err := Load([]string{"-c", path, "-d", "sqlite://from-flag.db"})
	require.NoError(t, err)

	assert.Equal(t, ":1111", c.EndpointAddrHTTP)
	assert.Equal(t, "env.example.com", c.OIDCDomain)
	assert.Equal(t, "env-audience", c.OIDCAudience)
	assert.Equal(t, "sqlite://from-flag.db", c.DatabaseDSN)
}

func TestLoad_InvalidJSONPath(t *testing.T) {
	_, err := Load([]string{"-config", "/does/not/exist.json"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "json config")
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("GOPHAUTH_BCRYPT_COST", "not-a-number")

	_, err := Load(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults ok", mutate: func(c *Config) {}},
		{name: "argon2id ok", mutate: func(c *Config) { c.PasswordScheme = password.SchemeArgon2id }},
		{name: "empty dsn", mutate: func(c *Config) { c.DatabaseDSN = "" }, wantErr: "dsn"},
		{name: "unknown scheme", mutate: func(c *Config) { c.PasswordScheme = "md5" }, wantErr: "unknown password scheme"},
		{name: "cost too low", mutate: func(c *Config) { c.BcryptCost = 1 }, wantErr: "out of range"},
		{name: "cost too high", mutate: func(c *Config) { c.BcryptCost = 99 }, wantErr: "out of range"},
		{name: "zero timeout", mutate: func(c *Config) { c.OIDCTimeout = 0 }, wantErr: "timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Config
			c.LoadDefaults()
			tt.mutate(&c)

			err := c.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
