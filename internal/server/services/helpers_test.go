package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/oidc"
	"github.com/dmitrijs2005/gophauth/internal/server/password"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repotest"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeVerifier struct {
	claims *oidc.Claims
	ok     bool

	info   *oidc.Claims
	infoOK bool

	infoCalls atomic.Int32
}

func (f *fakeVerifier) Verify(context.Context, string) (*oidc.Claims, bool) {
	if !f.ok {
		return nil, false
	}
	c := *f.claims
	return &c, true
}

func (f *fakeVerifier) UserInfo(context.Context, string) (*oidc.Claims, bool) {
	f.infoCalls.Add(1)
	if !f.infoOK {
		return nil, false
	}
	c := *f.info
	return &c, true
}

func (f *fakeVerifier) Provider() string { return "tenant.example.com" }

// countingHasher records dummy verifications.
type countingHasher struct {
	*password.Hasher
	dummies atomic.Int32
}

func (h *countingHasher) VerifyDummy(plaintext string) {
	h.dummies.Add(1)
	h.Hasher.VerifyDummy(plaintext)
}

type env struct {
	db       *sql.DB
	users    *UserService
	sessions *SessionService
	verifier *fakeVerifier
	hasher   *countingHasher
}

func newEnv(t *testing.T, linkSubject bool) *env {
	t.Helper()

	return newEnvOn(t, repotest.OpenSQLite(t), repomanager.NewSQLiteRepositoryManager(), linkSubject)
}

// newFileEnv runs against a file-backed database opened the way the server
// opens it, so concurrent callers hit separate transactions on disk.
func newFileEnv(t *testing.T, linkSubject bool) *env {
	t.Helper()

	db, rm, err := repomanager.Open(context.Background(), "sqlite:///"+filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return newEnvOn(t, db, rm, linkSubject)
}

func newEnvOn(t *testing.T, db *sql.DB, rm repomanager.RepositoryManager, linkSubject bool) *env {
	t.Helper()

	h, err := password.New(password.SchemeBcrypt, bcrypt.MinCost)
	require.NoError(t, err)
	hasher := &countingHasher{Hasher: h}

	v := &fakeVerifier{}
	log := logging.Nop{}
	resolver := NewIdentityResolver(db, rm, v, linkSubject, log)

	return &env{
		db:       db,
		users:    NewUserService(db, rm, hasher, v, resolver, log),
		sessions: NewSessionService(db, rm, log),
		verifier: v,
		hasher:   hasher,
	}
}
