package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX (satisfied by
// *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new session for userID with a fresh random token.
func (r *PostgresRepository) Create(ctx context.Context, userID string, deviceInfo *string) (*models.Session, error) {
	token, err := common.MakeRandHexString(common.SessionTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	query := `
		INSERT INTO sessions (token, user_id, device_info)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	s := &models.Session{Token: token, UserID: userID, DeviceInfo: deviceInfo}
	if err := r.db.QueryRowContext(ctx, query, token, userID, deviceInfo).Scan(&s.ID, &s.CreatedAt); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

// FindByToken returns the session row for token.
// If not found, it returns common.ErrorNotFound.
func (r *PostgresRepository) FindByToken(ctx context.Context, token string) (*models.Session, error) {
	query := `
		SELECT id, token, user_id, device_info, created_at
		FROM sessions
		WHERE token = $1
	`
	var (
		s      models.Session
		device sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, token).Scan(&s.ID, &s.Token, &s.UserID, &device, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if device.Valid {
		s.DeviceInfo = &device.String
	}
	return &s, nil
}

// ListByUser returns userID's sessions, oldest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]models.Session, error) {
	query := `
		SELECT id, token, user_id, device_info, created_at
		FROM sessions
		WHERE user_id = $1
		ORDER BY id
	`
	return r.list(ctx, query, userID)
}

// ListAll returns every session, oldest first.
func (r *PostgresRepository) ListAll(ctx context.Context) ([]models.Session, error) {
	query := `
		SELECT id, token, user_id, device_info, created_at
		FROM sessions
		ORDER BY id
	`
	return r.list(ctx, query)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]models.Session, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.Session
	for rows.Next() {
		var (
			s      models.Session
			device sql.NullString
		)
		if err := rows.Scan(&s.ID, &s.Token, &s.UserID, &device, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if device.Valid {
			s.DeviceInfo = &device.String
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// Delete removes a session by id.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// DeleteByToken removes the session with token and reports how many rows went.
func (r *PostgresRepository) DeleteByToken(ctx context.Context, token string) (int64, error) {
	return r.exec(ctx, `DELETE FROM sessions WHERE token = $1`, token)
}

// DeleteByUser removes all of userID's sessions.
func (r *PostgresRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	return r.exec(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID)
}

// DeleteAll removes every session.
func (r *PostgresRepository) DeleteAll(ctx context.Context) (int64, error) {
	return r.exec(ctx, `DELETE FROM sessions`)
}

// DeleteByUserExceptOldest keeps only userID's lowest-id session.
func (r *PostgresRepository) DeleteByUserExceptOldest(ctx context.Context, userID string) (int64, error) {
	query := `
		DELETE FROM sessions
		WHERE user_id = $1
		  AND id <> (SELECT MIN(id) FROM sessions WHERE user_id = $1)
	`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	var retained int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions WHERE user_id = $1`, userID).Scan(&retained); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return retained, nil
}

func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
