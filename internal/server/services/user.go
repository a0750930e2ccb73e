package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/password"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
)

// UserService provides account and login operations:
// - Signup: create a local account (no session)
// - Login / LoginWithExternalToken: mint a session token
// - Logout: drop a session token
// - Me: resolve a session token to its user
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      PasswordHasher
	verifier    TokenVerifier
	resolver    *IdentityResolver
	log         logging.Logger
}

// NewUserService wires a UserService. verifier may be disabled, in which
// case every federated login fails with common.ErrInvalidExternalToken.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher PasswordHasher,
	verifier TokenVerifier, resolver *IdentityResolver, log logging.Logger) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		verifier:    verifier,
		resolver:    resolver,
		log:         log.With("module", "users"),
	}
}

// Signup registers email with a hashed password. name defaults to the local
// part of email. An empty email or password is common.ErrMissingRequiredField.
func (s *UserService) Signup(ctx context.Context, email, plaintext, name string) (*models.User, error) {
	if email == "" || plaintext == "" {
		return nil, common.ErrMissingRequiredField
	}

	digest, err := s.hasher.Hash(plaintext)
	if err != nil {
		if errors.Is(err, password.ErrTooLong) {
			return nil, err
		}
		s.log.Error(ctx, "hash password", "error", err)
		return nil, common.ErrorInternal
	}

	if name == "" {
		name = common.EmailLocalPart(email)
	}

	user, err := s.createUser(ctx, email, digest, name)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) {
			return nil, common.ErrDuplicateEmail
		}
		s.log.Error(ctx, "create user", "error", err)
		return nil, common.ErrorInternal
	}

	s.log.Info(ctx, "user signed up", "user_id", user.ID)
	return user, nil
}

// newUserID is swapped in tests to force id collisions.
var newUserID = common.NewUserID

const maxIDAttempts = 3

// createUser inserts the account under a fresh id. A unique violation whose
// email is still free was an id collision and is retried with another id.
func (s *UserService) createUser(ctx context.Context, email, digest, name string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	var err error
	for range maxIDAttempts {
		var user *models.User
		user, err = repo.Create(ctx, &models.User{ID: newUserID(), Email: email, PasswordHash: digest, Name: name})
		if !errors.Is(err, common.ErrDuplicateEmail) {
			return user, err
		}

		_, ferr := repo.FindByEmail(ctx, email)
		if ferr == nil {
			return nil, common.ErrDuplicateEmail
		}
		if !errors.Is(ferr, common.ErrorNotFound) {
			return nil, ferr
		}
		s.log.Warn(ctx, "user id collision, retrying")
	}
	return nil, err
}

// Login checks credentials and opens a session. Unknown emails and
// federation-only accounts still pay for a password verification.
func (s *UserService) Login(ctx context.Context, email, plaintext string) (string, *models.User, error) {
	user, err := s.repomanager.Users(s.db).FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.VerifyDummy(plaintext)
			return "", nil, common.ErrInvalidCredentials
		}
		s.log.Error(ctx, "find user", "error", err)
		return "", nil, common.ErrorInternal
	}

	if !user.HasPassword() {
		s.hasher.VerifyDummy(plaintext)
		return "", nil, common.ErrInvalidCredentials
	}
	if !s.hasher.Verify(plaintext, user.PasswordHash) {
		return "", nil, common.ErrInvalidCredentials
	}

	token, err := s.openSession(ctx, user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// LoginWithExternalToken verifies an identity-provider token, resolves it to
// a local user and opens a session.
func (s *UserService) LoginWithExternalToken(ctx context.Context, raw string) (string, *models.User, error) {
	if raw == "" {
		return "", nil, common.ErrInvalidExternalToken
	}

	claims, ok := s.verifier.Verify(ctx, raw)
	if !ok {
		return "", nil, common.ErrInvalidExternalToken
	}

	user, err := s.resolver.Resolve(ctx, claims, raw)
	if err != nil {
		s.log.Error(ctx, "resolve identity", "error", err)
		return "", nil, common.ErrorInternal
	}

	token, err := s.openSession(ctx, user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Logout deletes the session for token. Unknown tokens are not an error.
func (s *UserService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return common.ErrMissingRequiredField
	}

	n, err := s.repomanager.Sessions(s.db).DeleteByToken(ctx, token)
	if err != nil {
		s.log.Error(ctx, "delete session", "error", err)
		return common.ErrorInternal
	}
	if n > 0 {
		s.log.Debug(ctx, "session closed")
	}
	return nil
}

// Me returns the owner of a live session token.
func (s *UserService) Me(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, common.ErrorUnauthorized
	}

	session, err := s.repomanager.Sessions(s.db).FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		s.log.Error(ctx, "find session", "error", err)
		return nil, common.ErrorInternal
	}

	user, err := s.repomanager.Users(s.db).FindByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		s.log.Error(ctx, "find user", "error", err)
		return nil, common.ErrorInternal
	}
	return user, nil
}

// ListUsers returns every account in creation order.
func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.repomanager.Users(s.db).List(ctx)
	if err != nil {
		s.log.Error(ctx, "list users", "error", err)
		return nil, common.ErrorInternal
	}
	return users, nil
}

func (s *UserService) openSession(ctx context.Context, user *models.User) (string, error) {
	session, err := s.repomanager.Sessions(s.db).Create(ctx, user.ID, nil)
	if err != nil {
		s.log.Error(ctx, "create session", "error", err)
		return "", common.ErrorInternal
	}
	s.log.Info(ctx, "session opened", "user_id", user.ID, "session_id", session.ID)
	return session.Token, nil
}
