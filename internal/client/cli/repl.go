package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Signup(ctx context.Context) error
	Login(ctx context.Context) error
	LoginExternal(ctx context.Context, args []string) error
	Logout(ctx context.Context) error
	Me(ctx context.Context) error
	Users(ctx context.Context) error
	Sessions(ctx context.Context, args []string) error
	ForceLogout(ctx context.Context, args []string) error
	AllSessions(ctx context.Context) error
	ClearSessions(ctx context.Context, args []string) error
	ClearAllSessions(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the gophauth CLI.
//
// It reads a line from reader, parses the first token as the command and
// dispatches to methods on 'a'; remaining tokens are passed as arguments.
// Command errors are printed and the loop continues. The loop exits on EOF or
// when the user types "exit" or "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("ga %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: me, logout, users, sessions, forcelogout, allsessions, clear, clearall, exit")
			} else {
				printlnFn("Available commands: signup, login, sso, users, sessions, forcelogout, allsessions, clear, clearall, exit")
			}

		case "signup", "register":
			cmdErr = a.Signup(ctx)

		case "login":
			cmdErr = a.Login(ctx)

		case "sso":
			cmdErr = a.LoginExternal(ctx, args)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "me":
			cmdErr = a.Me(ctx)

		case "users":
			cmdErr = a.Users(ctx)

		case "sessions":
			cmdErr = a.Sessions(ctx, args)

		case "forcelogout":
			cmdErr = a.ForceLogout(ctx, args)

		case "allsessions":
			cmdErr = a.AllSessions(ctx)

		case "clear":
			cmdErr = a.ClearSessions(ctx, args)

		case "clearall":
			cmdErr = a.ClearAllSessions(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", cmdErr)
		}
	}
}
