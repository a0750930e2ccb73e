package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds runtime settings for the gophauth CLI.
//
// Fields:
//   - ServerEndpointAddr: host:port of the gRPC endpoint.
//   - AdminToken: sent with administrative calls; empty when the server runs unguarded.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - RequestTimeout: bound on every call to the server.
//   - StatePath: sqlite file keeping the session between runs; empty disables it.
type Config struct {
	ServerEndpointAddr  string
	AdminToken          string
	OnlineCheckInterval time.Duration
	RequestTimeout      time.Duration
	StatePath           string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.OnlineCheckInterval = 3 * time.Second
	c.RequestTimeout = 5 * time.Second
	c.StatePath = "gophauth-cli.db"
}

// LoadConfig builds a Config from os.Args and the environment.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load applies defaults, the JSON file, the environment and then flags.
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
	if cfg.ServerEndpointAddr == "" {
		return nil, fmt.Errorf("server address is required")
	}
	return cfg, nil
}
