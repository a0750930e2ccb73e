package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
)

// parseFlags overlays command-line flags.
//
// Supported flags:
//
//	-a string   HTTP bind address (e.g. ":8000")
//	-g string   gRPC bind address (e.g. ":50051")
//	-d string   database DSN
//	-o string   identity provider domain
//	-u string   identity provider audience
//	-k string   admin token
//	-p string   password scheme (bcrypt | argon2id)
//	-l string   log level
//	-link-subject  link federated users by subject
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-g", "-d", "-o", "-u", "-k", "-p", "-l", "-link-subject"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "HTTP address and port to run server")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "gRPC address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.OIDCDomain, "o", config.OIDCDomain, "identity provider domain")
	fs.StringVar(&config.OIDCAudience, "u", config.OIDCAudience, "identity provider audience")
	fs.StringVar(&config.AdminToken, "k", config.AdminToken, "admin token")
	fs.StringVar(&config.PasswordScheme, "p", config.PasswordScheme, "password scheme")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.BoolVar(&config.OIDCLinkSubject, "link-subject", config.OIDCLinkSubject, "link federated users by subject")

	return fs.Parse(args)
}
