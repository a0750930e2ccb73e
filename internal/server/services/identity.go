package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/oidc"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/users"
)

// PlaceholderEmailDomain is used for identities that never disclose an email.
const PlaceholderEmailDomain = "noemail.local"

// IdentityResolver turns verified provider claims into a local user.
//
// The userinfo lookup happens before any transaction is opened. Users are
// matched by email; with linkSubject set, the provider subject is recorded
// and takes precedence on later logins, so identities without an email map
// to one stable user instead of a fresh placeholder each time.
type IdentityResolver struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	verifier    TokenVerifier
	linkSubject bool
	log         logging.Logger
}

func NewIdentityResolver(db *sql.DB, m repomanager.RepositoryManager, verifier TokenVerifier,
	linkSubject bool, log logging.Logger) *IdentityResolver {
	return &IdentityResolver{
		db:          db,
		repomanager: m,
		verifier:    verifier,
		linkSubject: linkSubject,
		log:         log.With("module", "identity"),
	}
}

type profile struct {
	email string
	name  string
}

// Resolve finds or creates the user behind claims. rawToken is forwarded to
// the userinfo endpoint when the claims carry no email.
func (r *IdentityResolver) Resolve(ctx context.Context, claims *oidc.Claims, rawToken string) (*models.User, error) {
	p := r.profile(ctx, claims, rawToken)

	var (
		user *models.User
		err  error
	)
	// A concurrent login may win either insert; the second pass then finds it.
	for attempt := 0; attempt < 2; attempt++ {
		err = dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
			var txErr error
			user, txErr = r.resolveTx(ctx, tx, claims.Subject, p)
			return txErr
		})
		if !errors.Is(err, common.ErrDuplicateEmail) && !errors.Is(err, common.ErrorAlreadyExists) {
			break
		}
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *IdentityResolver) resolveTx(ctx context.Context, tx dbx.DBTX, subject string, p profile) (*models.User, error) {
	usersRepo := r.repomanager.Users(tx)
	link := r.linkSubject && subject != ""

	if link {
		identity, err := r.repomanager.Identities(tx).Find(ctx, r.verifier.Provider(), subject)
		switch {
		case err == nil:
			return usersRepo.FindByID(ctx, identity.UserID)
		case !errors.Is(err, common.ErrorNotFound):
			return nil, err
		}
	}

	user, err := findOrCreate(ctx, usersRepo, p)
	if err != nil {
		return nil, err
	}

	if link {
		err := r.repomanager.Identities(tx).Create(ctx, &models.ExternalIdentity{
			Provider: r.verifier.Provider(),
			Subject:  subject,
			UserID:   user.ID,
		})
		if err != nil {
			return nil, fmt.Errorf("link identity: %w", err)
		}
		r.log.Info(ctx, "identity linked", "user_id", user.ID)
	}

	return user, nil
}

func findOrCreate(ctx context.Context, repo users.Repository, p profile) (*models.User, error) {
	user, err := repo.FindByEmail(ctx, p.email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}
	return repo.Create(ctx, &models.User{Email: p.email, Name: p.name})
}

func (r *IdentityResolver) profile(ctx context.Context, claims *oidc.Claims, rawToken string) profile {
	p := profile{email: claims.Email, name: firstNonEmpty(claims.Name, claims.Nickname)}

	if p.email == "" {
		if info, ok := r.verifier.UserInfo(ctx, rawToken); ok {
			p.email = info.Email
			if p.name == "" {
				p.name = firstNonEmpty(info.Name, info.Nickname)
			}
		}
	}

	if p.email == "" {
		id := common.UserIDPrefix + common.ShortHex()
		p.email = id + "@" + PlaceholderEmailDomain
		if p.name == "" {
			p.name = id
		}
	}

	if p.name == "" {
		p.name = common.EmailLocalPart(p.email)
	}
	return p
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
