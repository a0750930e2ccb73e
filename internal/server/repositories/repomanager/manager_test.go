package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/identities"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDB(t *testing.T) *sql.DB {
	t.Helper()
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func stubGoose(t *testing.T, fn func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error) {
	t.Helper()
	orig := gooseUpContext
	gooseUpContext = fn
	t.Cleanup(func() { gooseUpContext = orig })
}

func TestFactories_ReturnConcreteRepos(t *testing.T) {
	db := newDB(t)

	pg := NewPostgresRepositoryManager()
	assert.IsType(t, &users.PostgresRepository{}, pg.Users(db))
	assert.IsType(t, &sessions.PostgresRepository{}, pg.Sessions(db))
	assert.IsType(t, &identities.PostgresRepository{}, pg.Identities(db))

	lite := NewSQLiteRepositoryManager()
	assert.IsType(t, &users.SQLiteRepository{}, lite.Users(db))
	assert.IsType(t, &sessions.SQLiteRepository{}, lite.Sessions(db))
	assert.IsType(t, &identities.SQLiteRepository{}, lite.Identities(db))
}

func TestRunMigrations_Dirs(t *testing.T) {
	tests := []struct {
		name string
		m    RepositoryManager
		dir  string
	}{
		{name: "postgres", m: NewPostgresRepositoryManager(), dir: "postgres"},
		{name: "sqlite", m: NewSQLiteRepositoryManager(), dir: "sqlite"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotDir string
			stubGoose(t, func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
				gotDir = dir
				return nil
			})

			require.NoError(t, tt.m.RunMigrations(context.Background(), newDB(t)))
			assert.Equal(t, tt.dir, gotDir)
		})
	}
}

func TestRunMigrations_Error(t *testing.T) {
	stubGoose(t, func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	})

	err := NewPostgresRepositoryManager().RunMigrations(context.Background(), newDB(t))
	if err == nil || err.Error() != "boom" {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestOpen_SQLiteFileAppliesMigrations(t *testing.T) {
	dsn := "sqlite:///" + filepath.Join(t.TempDir(), "auth.db")

	db, m, err := Open(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	assert.IsType(t, &SQLiteRepositoryManager{}, m)

	for _, table := range []string{"users", "sessions", "external_identities"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, table)
	}

	var fk int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk)
}

func TestOpen_MigrationFailureClosesDB(t *testing.T) {
	stubGoose(t, func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("bad migration")
	})

	_, _, err := Open(context.Background(), "sqlite:///"+filepath.Join(t.TempDir(), "x.db"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migration error: bad migration")
}

func TestOpen_UnsupportedDSN(t *testing.T) {
	_, _, err := Open(context.Background(), "mysql://root:hunter2@db/auth")
	require.ErrorIs(t, err, ErrUnsupportedDSN)
	assert.NotContains(t, err.Error(), "hunter2")
}

func TestSQLiteSource(t *testing.T) {
	assert.Equal(t, "auth.db?"+sqlitePragmas, sqliteSource("sqlite://auth.db"))
	assert.Equal(t, "./backen.db?"+sqlitePragmas, sqliteSource("sqlite:///./backen.db"))
	assert.Equal(t, "backen.db?"+sqlitePragmas, sqliteSource("sqlite:///backen.db"))
	assert.Equal(t, "var/lib/auth.db?"+sqlitePragmas, sqliteSource("sqlite:///var/lib/auth.db"))
	assert.Equal(t, "/var/lib/auth.db?"+sqlitePragmas, sqliteSource("sqlite:////var/lib/auth.db"))
	assert.Equal(t, "x.db?mode=rwc&"+sqlitePragmas, sqliteSource("sqlite://x.db?mode=rwc"))
	assert.Equal(t, "file:x?mode=memory", sqliteSource("file:x?mode=memory"))
}
