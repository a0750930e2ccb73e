// Package services contains server-side business logic: local signup and
// login, federated login through an external identity provider, and session
// administration. Services translate storage errors into the sentinels of
// package common; adapters map those onto transport codes.
package services

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/server/oidc"
)

// PasswordHasher is satisfied by *password.Hasher.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
	VerifyDummy(plaintext string)
}

// TokenVerifier is satisfied by *oidc.Verifier.
type TokenVerifier interface {
	Verify(ctx context.Context, raw string) (*oidc.Claims, bool)
	UserInfo(ctx context.Context, accessToken string) (*oidc.Claims, bool)
	Provider() string
}
