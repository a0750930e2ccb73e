package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	args  [][]string
	err   error
}

func (f *fakeExec) record(name string, args []string) error {
	f.calls = append(f.calls, name)
	f.args = append(f.args, args)
	return f.err
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Signup(ctx context.Context) error {
	return f.record("signup", nil)
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.loggedIn = true
	return f.record("login", nil)
}
func (f *fakeExec) LoginExternal(ctx context.Context, args []string) error {
	f.loggedIn = true
	return f.record("sso", args)
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.loggedIn = false
	return f.record("logout", nil)
}
func (f *fakeExec) Me(ctx context.Context) error    { return f.record("me", nil) }
func (f *fakeExec) Users(ctx context.Context) error { return f.record("users", nil) }
func (f *fakeExec) Sessions(ctx context.Context, args []string) error {
	return f.record("sessions", args)
}
func (f *fakeExec) ForceLogout(ctx context.Context, args []string) error {
	return f.record("forcelogout", args)
}
func (f *fakeExec) AllSessions(ctx context.Context) error { return f.record("allsessions", nil) }
func (f *fakeExec) ClearSessions(ctx context.Context, args []string) error {
	return f.record("clear", args)
}
func (f *fakeExec) ClearAllSessions(ctx context.Context) error { return f.record("clearall", nil) }

func silence(t *testing.T) *[]string {
	t.Helper()
	var printed []string
	origPrint := printlnFn
	printlnFn = func(a ...any) (int, error) {
		printed = append(printed, strings.TrimSpace(fmt.Sprintln(a...)))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = origPrint })
	return &printed
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	silence(t)

	input := strings.NewReader(strings.Join([]string{
		"help",
		"signup",
		"login",
		"me",
		"users",
		"sessions user_1",
		"forcelogout user_1",
		"allsessions",
		"clear user_2",
		"clearall",
		"sso tok",
		"logout",
		"",
		"foobar",
		"exit",
		"me",
	}, "\n"))

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, bufio.NewReader(input))

	want := []string{"signup", "login", "me", "users", "sessions", "forcelogout", "allsessions", "clear", "clearall", "sso", "logout"}
	if strings.Join(exec.calls, ",") != strings.Join(want, ",") {
		t.Fatalf("calls = %v, want %v", exec.calls, want)
	}
	if got := exec.args[4]; len(got) != 1 || got[0] != "user_1" {
		t.Fatalf("sessions args = %v", got)
	}
	if got := exec.args[9]; len(got) != 1 || got[0] != "tok" {
		t.Fatalf("sso args = %v", got)
	}
}

func TestRunREPL_PrintsErrorsAndContinues(t *testing.T) {
	printed := silence(t)

	exec := &fakeExec{err: errors.New("boom")}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("me\nusers\n")))

	if len(exec.calls) != 2 {
		t.Fatalf("calls = %v", exec.calls)
	}
	errorsSeen := 0
	for _, line := range *printed {
		if line == "Error: boom" {
			errorsSeen++
		}
	}
	if errorsSeen != 2 {
		t.Fatalf("printed = %v", *printed)
	}
}

func TestRunREPL_QuitStopsEarly(t *testing.T) {
	silence(t)

	exec := &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewReader(strings.NewReader("quit\nme\n")))

	if len(exec.calls) != 0 {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
}
