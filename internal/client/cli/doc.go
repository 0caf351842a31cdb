// Package cli provides the interactive gophtodo command-line client.
//
// It wires configuration, the local cache, API services, and an interactive
// REPL. Typical flow: prompt for credentials, start a background connectivity
// watcher, and execute user commands.
//
// Key features:
//   - Register / Login / Logout
//   - Add, complete, rename and delete todos
//   - List todos, served from the local cache while the server is offline
//   - Delete the account together with all of its todos
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
