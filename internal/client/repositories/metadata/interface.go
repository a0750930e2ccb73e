// Package metadata stores small key/value facts the CLI keeps between runs,
// such as the current session.
package metadata

import (
	"context"
)

// Keys used by the CLI.
const (
	KeySessionToken = "session_token"
	KeyUserEmail    = "user_email"
)

type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
