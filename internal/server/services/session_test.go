package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loginN(t *testing.T, e *env, email string, n int) []string {
	t.Helper()
	var tokens []string
	for i := 0; i < n; i++ {
		token, _, err := e.users.Login(context.Background(), email, "pw")
		require.NoError(t, err)
		tokens = append(tokens, token)
	}
	return tokens
}

func TestForceLogout_KeepsOldest(t *testing.T) {
	e := newEnv(t, false)
	ctx := context.Background()

	user, err := e.users.Signup(ctx, "a@x.com", "pw", "")
	require.NoError(t, err)
	tokens := loginN(t, e, "a@x.com", 4)

	retained, err := e.sessions.ForceLogout(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), retained)

	left, err := e.sessions.ListSessionsForUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, tokens[:1], left)

	me, err := e.users.Me(ctx, tokens[0])
	require.NoError(t, err)
	assert.Equal(t, user.ID, me.ID)

	retained, err = e.sessions.ForceLogout(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), retained)
}

func TestForceLogout_NoSessions(t *testing.T) {
	e := newEnv(t, false)

	retained, err := e.sessions.ForceLogout(context.Background(), "user_00000000")
	require.NoError(t, err)
	assert.Zero(t, retained)

	_, err = e.sessions.ForceLogout(context.Background(), "")
	assert.ErrorIs(t, err, common.ErrMissingRequiredField)
}

func TestForceLogout_LeavesOtherUsersAlone(t *testing.T) {
	e := newEnv(t, false)
	ctx := context.Background()

	a, err := e.users.Signup(ctx, "a@x.com", "pw", "")
	require.NoError(t, err)
	b, err := e.users.Signup(ctx, "b@x.com", "pw", "")
	require.NoError(t, err)

	loginN(t, e, "b@x.com", 1)
	loginN(t, e, "a@x.com", 2)
	bTokens := loginN(t, e, "b@x.com", 1)

	_, err = e.sessions.ForceLogout(ctx, a.ID)
	require.NoError(t, err)

	left, err := e.sessions.ListSessionsForUser(ctx, b.ID)
	require.NoError(t, err)
	assert.Len(t, left, 2)
	assert.Equal(t, bTokens[0], left[1])
}

func TestClearSessions(t *testing.T) {
	e := newEnv(t, false)
	ctx := context.Background()

	a, err := e.users.Signup(ctx, "a@x.com", "pw", "")
	require.NoError(t, err)
	_, err = e.users.Signup(ctx, "b@x.com", "pw", "")
	require.NoError(t, err)

	loginN(t, e, "a@x.com", 3)
	loginN(t, e, "b@x.com", 2)

	all, err := e.sessions.ListAllSessions(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	n, err := e.sessions.ClearUserSessions(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	n, err = e.sessions.ClearUserSessions(ctx, a.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = e.sessions.ClearUserSessions(ctx, "")
	assert.ErrorIs(t, err, common.ErrMissingRequiredField)

	n, err = e.sessions.ClearAllSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = e.sessions.ClearAllSessions(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
