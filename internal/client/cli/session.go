package cli

import (
	"context"
	"errors"
	"log"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
	"github.com/dmitrijs2005/gophauth/internal/client/repositories/metadata"
)

// restoreSession picks up the token saved by a previous run. Only a token the
// server rejects as unauthenticated is forgotten; other failures keep it for
// the next run.
func (a *App) restoreSession(ctx context.Context) {
	if a.state == nil {
		return
	}

	token, err := a.state.Get(ctx, metadata.KeySessionToken)
	if err != nil {
		log.Printf("restore session: %v", err)
		return
	}
	if len(token) == 0 {
		return
	}

	a.client.SetSessionToken(string(token))

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	user, err := a.client.Me(ctx)
	switch {
	case err == nil:
		a.user = &user
		printlnFn("Resumed session for " + user.Email)
	case errors.Is(err, client.ErrUnauthorized):
		a.client.SetSessionToken("")
		a.forgetSession(ctx)
	default:
		log.Printf("restore session: %v", err)
	}
}

func (a *App) saveSession(ctx context.Context) {
	if a.state == nil {
		return
	}
	if err := a.state.Set(ctx, metadata.KeySessionToken, []byte(a.client.SessionToken())); err != nil {
		log.Printf("save session: %v", err)
		return
	}
	if a.user != nil {
		if err := a.state.Set(ctx, metadata.KeyUserEmail, []byte(a.user.Email)); err != nil {
			log.Printf("save session: %v", err)
		}
	}
}

func (a *App) forgetSession(ctx context.Context) {
	if a.state == nil {
		return
	}
	if err := a.state.Clear(ctx); err != nil {
		log.Printf("forget session: %v", err)
	}
}
