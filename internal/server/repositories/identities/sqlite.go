package identities

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// SQLiteRepository implements Repository for SQLite.
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository constructs a repository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Find returns the link for (provider, subject) or common.ErrorNotFound.
func (r *SQLiteRepository) Find(ctx context.Context, provider, subject string) (*models.ExternalIdentity, error) {
	var (
		id      models.ExternalIdentity
		created int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT provider, subject, user_id, created_at FROM external_identities WHERE provider = ? AND subject = ?`,
		provider, subject).Scan(&id.Provider, &id.Subject, &id.UserID, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	id.CreatedAt = time.UnixMilli(created).UTC()
	return &id, nil
}

// Create records a link. An existing (provider, subject) pair yields
// common.ErrorAlreadyExists.
func (r *SQLiteRepository) Create(ctx context.Context, identity *models.ExternalIdentity) error {
	now := time.Now().UTC().Truncate(time.Millisecond)
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO external_identities (provider, subject, user_id, created_at) VALUES (?, ?, ?, ?)`,
		identity.Provider, identity.Subject, identity.UserID, now.UnixMilli())
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	identity.CreatedAt = now
	return nil
}
