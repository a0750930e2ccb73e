// Package migrations embeds the goose migrations for every supported dialect.
package migrations

import "embed"

// Postgres holds migrations for the pgx backend, rooted at "postgres".
//
//go:embed postgres/*.sql
var Postgres embed.FS

// SQLite holds migrations for the modernc sqlite backend, rooted at "sqlite".
//
//go:embed sqlite/*.sql
var SQLite embed.FS
