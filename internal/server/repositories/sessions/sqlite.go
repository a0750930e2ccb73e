package sessions

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

const sqliteColumns = `id, token, user_id, device_info, created_at`

// SQLiteRepository implements Repository for SQLite. created_at is stored as
// unix milliseconds.
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository constructs a repository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Create inserts a new session for userID with a fresh random token.
func (r *SQLiteRepository) Create(ctx context.Context, userID string, deviceInfo *string) (*models.Session, error) {
	token, err := common.MakeRandHexString(common.SessionTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	now := time.Now().UTC().Truncate(time.Millisecond)

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (token, user_id, device_info, created_at) VALUES (?, ?, ?, ?)`,
		token, userID, deviceInfo, now.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return &models.Session{ID: id, Token: token, UserID: userID, DeviceInfo: deviceInfo, CreatedAt: now}, nil
}

// FindByToken returns the session row for token.
// If not found, it returns common.ErrorNotFound.
func (r *SQLiteRepository) FindByToken(ctx context.Context, token string) (*models.Session, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+sqliteColumns+` FROM sessions WHERE token = ?`, token)

	s, err := scanSQLite(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

// ListByUser returns userID's sessions, oldest first.
func (r *SQLiteRepository) ListByUser(ctx context.Context, userID string) ([]models.Session, error) {
	return r.list(ctx, `SELECT `+sqliteColumns+` FROM sessions WHERE user_id = ? ORDER BY id`, userID)
}

// ListAll returns every session, oldest first.
func (r *SQLiteRepository) ListAll(ctx context.Context) ([]models.Session, error) {
	return r.list(ctx, `SELECT `+sqliteColumns+` FROM sessions ORDER BY id`)
}

func (r *SQLiteRepository) list(ctx context.Context, query string, args ...any) ([]models.Session, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.Session
	for rows.Next() {
		s, err := scanSQLite(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSQLite(row scanner) (*models.Session, error) {
	var (
		s       models.Session
		device  sql.NullString
		created int64
	)
	if err := row.Scan(&s.ID, &s.Token, &s.UserID, &device, &created); err != nil {
		return nil, err
	}
	if device.Valid {
		s.DeviceInfo = &device.String
	}
	s.CreatedAt = time.UnixMilli(created).UTC()
	return &s, nil
}

// Delete removes a session by id.
func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// DeleteByToken removes the session with token and reports how many rows went.
func (r *SQLiteRepository) DeleteByToken(ctx context.Context, token string) (int64, error) {
	return r.exec(ctx, `DELETE FROM sessions WHERE token = ?`, token)
}

// DeleteByUser removes all of userID's sessions.
func (r *SQLiteRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	return r.exec(ctx, `DELETE FROM sessions WHERE user_id = ?`, userID)
}

// DeleteAll removes every session.
func (r *SQLiteRepository) DeleteAll(ctx context.Context) (int64, error) {
	return r.exec(ctx, `DELETE FROM sessions`)
}

// DeleteByUserExceptOldest keeps only userID's lowest-id session and
// returns how many remain.
func (r *SQLiteRepository) DeleteByUserExceptOldest(ctx context.Context, userID string) (int64, error) {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM sessions
		WHERE user_id = ?1
		  AND id <> (SELECT MIN(id) FROM sessions WHERE user_id = ?1)`, userID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	var retained int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions WHERE user_id = ?`, userID).Scan(&retained); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return retained, nil
}

func (r *SQLiteRepository) exec(ctx context.Context, query string, args ...any) (int64, error) {
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
