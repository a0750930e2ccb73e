// Package users stores registered accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// Repository persists users. Create fills in ID (when empty) and CreatedAt
// and returns common.ErrDuplicateEmail when the email is taken. Lookups
// return common.ErrorNotFound for missing rows.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
}
