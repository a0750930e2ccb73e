package identities

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Find returns the link for (provider, subject) or common.ErrorNotFound.
func (r *PostgresRepository) Find(ctx context.Context, provider, subject string) (*models.ExternalIdentity, error) {
	query := `
		SELECT provider, subject, user_id, created_at
		FROM external_identities
		WHERE provider = $1 AND subject = $2
	`
	id := &models.ExternalIdentity{}
	err := r.db.QueryRowContext(ctx, query, provider, subject).Scan(&id.Provider, &id.Subject, &id.UserID, &id.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return id, nil
}

// Create records a link. An existing (provider, subject) pair yields
// common.ErrorAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, identity *models.ExternalIdentity) error {
	query := `
		INSERT INTO external_identities (provider, subject, user_id)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query, identity.Provider, identity.Subject, identity.UserID).Scan(&identity.CreatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
