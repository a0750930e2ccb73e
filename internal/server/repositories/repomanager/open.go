package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedDSN is returned by Open for DSNs without a known scheme.
var ErrUnsupportedDSN = errors.New("unsupported database dsn")

const sqlitePragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

// Open connects to the database named by dsn, applies migrations and returns
// the handle together with the matching RepositoryManager.
//
//	postgres://… | postgresql://…   PostgreSQL via pgx
//	sqlite:///<relative path>       SQLite via modernc (sqlite://<path> also relative)
//	sqlite:////<absolute path>
//	file:…
func Open(ctx context.Context, dsn string) (*sql.DB, RepositoryManager, error) {
	var (
		driver string
		source string
		m      RepositoryManager
	)

	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		driver, source, m = "pgx", dsn, NewPostgresRepositoryManager()
	case strings.HasPrefix(dsn, "sqlite://"), strings.HasPrefix(dsn, "file:"):
		driver, source, m = "sqlite", sqliteSource(dsn), NewSQLiteRepositoryManager()
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnsupportedDSN, redact(dsn))
	}

	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, nil, fmt.Errorf("db open error: %w", err)
	}
	if driver == "sqlite" {
		// one writer at a time; also keeps :memory: databases on one connection
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("db ping error: %w", err)
	}

	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migration error: %w", err)
	}

	return db, m, nil
}

// sqliteSource turns a sqlite:// URL into a modernc DSN with the pragmas the
// store relies on. Three slashes give a relative path and four an absolute
// one. file: URIs are passed through untouched.
func sqliteSource(dsn string) string {
	if strings.HasPrefix(dsn, "file:") {
		return dsn
	}
	path := strings.TrimPrefix(dsn, "sqlite://")
	if strings.HasPrefix(path, "//") {
		path = path[1:]
	} else {
		path = strings.TrimPrefix(path, "/")
	}
	if strings.Contains(path, "?") {
		return path + "&" + sqlitePragmas
	}
	return path + "?" + sqlitePragmas
}

// redact hides everything after the scheme so credentials never reach logs.
func redact(dsn string) string {
	scheme, _, found := strings.Cut(dsn, "://")
	if !found {
		return "…"
	}
	return scheme + "://…"
}
