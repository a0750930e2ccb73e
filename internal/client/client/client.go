package client

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/shared"
)

type Client interface {
	Close() error
	SessionToken() string
	SetSessionToken(token string)
	Ping(ctx context.Context) error
	Signup(ctx context.Context, email string, password []byte, name string) (shared.User, error)
	Login(ctx context.Context, email string, password []byte) (shared.User, error)
	LoginWithExternalToken(ctx context.Context, token string) (shared.User, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (shared.User, error)
	ListUsers(ctx context.Context) ([]shared.User, error)
	ListSessions(ctx context.Context, userID string) ([]string, error)
	ForceLogout(ctx context.Context, userID string) (int64, error)
	ListAllSessions(ctx context.Context) ([]shared.Session, error)
	ClearUserSessions(ctx context.Context, userID string) (int64, error)
	ClearAllSessions(ctx context.Context) (int64, error)
}
