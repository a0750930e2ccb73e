// Package cli provides the interactive gophauth command-line client.
//
// It wires configuration, the gRPC client and a REPL. A background watcher
// pings the server and flips the prompt between online and offline.
//
// Commands:
//   - signup / login / sso / logout / me
//   - users, sessions <user_id>, forcelogout <user_id>
//   - allsessions, clear <user_id>, clearall
//   - help, exit
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
