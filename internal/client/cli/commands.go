package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// argOrPrompt returns args[0] or asks for the value interactively.
func (a *App) argOrPrompt(args []string, prompt string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return getSimpleText(a.reader, prompt, a.out)
}

// Signup prompts for email, password and an optional display name.
// The password is wiped before returning.
func (a *App) Signup(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	name, err := getSimpleText(a.reader, "Enter name (optional)", a.out)
	if err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	user, err := a.client.Signup(ctx, email, password, name)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Registered %s (%s). Use 'login' to start a session.\n", user.ID, user.Name)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	user, err := a.client.Login(ctx, email, password)
	if err != nil {
		return err
	}

	a.user = &user
	a.saveSession(ctx)
	fmt.Fprintf(a.out, "Logged in as %s\n", user.Email)
	return nil
}

// LoginExternal exchanges an identity-provider token for a session.
func (a *App) LoginExternal(ctx context.Context, args []string) error {
	token, err := a.argOrPrompt(args, "Paste identity provider token")
	if err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	user, err := a.client.LoginWithExternalToken(ctx, token)
	if err != nil {
		return err
	}

	a.user = &user
	a.saveSession(ctx)
	fmt.Fprintf(a.out, "Logged in as %s (%s)\n", user.Email, user.Name)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.client.Logout(ctx); err != nil {
		return err
	}
	a.user = nil
	a.forgetSession(ctx)
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) Me(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	user, err := a.client.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s\t%s\t%s\n", user.ID, user.Email, user.Name)
	return nil
}

func (a *App) Users(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	users, err := a.client.ListUsers(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		fmt.Fprintf(a.out, "%s\t%s\t%s\n", u.ID, u.Email, u.Name)
	}
	fmt.Fprintf(a.out, "%d user(s)\n", len(users))
	return nil
}

func (a *App) Sessions(ctx context.Context, args []string) error {
	userID, err := a.argOrPrompt(args, "Enter user id")
	if err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	tokens, err := a.client.ListSessions(ctx, userID)
	if err != nil {
		return err
	}
	for _, t := range tokens {
		fmt.Fprintln(a.out, t)
	}
	fmt.Fprintf(a.out, "%d session(s)\n", len(tokens))
	return nil
}

func (a *App) ForceLogout(ctx context.Context, args []string) error {
	userID, err := a.argOrPrompt(args, "Enter user id")
	if err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	retained, err := a.client.ForceLogout(ctx, userID)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%d session(s) retained\n", retained)
	return nil
}

func (a *App) AllSessions(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	sessions, err := a.client.ListAllSessions(ctx)
	if err != nil {
		return err
	}
	for _, s := range sessions {
		fmt.Fprintf(a.out, "%d\t%s\t%s\n", s.ID, s.UserID, s.Token)
	}
	fmt.Fprintf(a.out, "%d session(s)\n", len(sessions))
	return nil
}

func (a *App) ClearSessions(ctx context.Context, args []string) error {
	userID, err := a.argOrPrompt(args, "Enter user id")
	if err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	n, err := a.client.ClearUserSessions(ctx, userID)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%d session(s) cleared\n", n)
	return nil
}

func (a *App) ClearAllSessions(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	n, err := a.client.ClearAllSessions(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%d session(s) cleared\n", n)
	return nil
}
