// Package sessions stores opaque session tokens. A user's sessions are
// always ordered by id, which storage assigns in creation order.
package sessions

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

type Repository interface {
	// Create issues a fresh random token for userID.
	Create(ctx context.Context, userID string, deviceInfo *string) (*models.Session, error)
	// FindByToken returns common.ErrorNotFound for unknown tokens.
	FindByToken(ctx context.Context, token string) (*models.Session, error)
	ListByUser(ctx context.Context, userID string) ([]models.Session, error)
	ListAll(ctx context.Context) ([]models.Session, error)
	Delete(ctx context.Context, id int64) error
	DeleteByToken(ctx context.Context, token string) (int64, error)
	DeleteByUser(ctx context.Context, userID string) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
	// DeleteByUserExceptOldest removes every session of userID but the one
	// with the smallest id and returns how many remain (0 or 1).
	DeleteByUserExceptOldest(ctx context.Context, userID string) (int64, error)
}
