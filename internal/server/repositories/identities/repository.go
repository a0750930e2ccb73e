// Package identities links identity-provider subjects to local users.
package identities

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// Repository returns common.ErrorNotFound from Find for unknown links and
// common.ErrorAlreadyExists from Create when (provider, subject) is taken.
type Repository interface {
	Find(ctx context.Context, provider, subject string) (*models.ExternalIdentity, error)
	Create(ctx context.Context, identity *models.ExternalIdentity) error
}
