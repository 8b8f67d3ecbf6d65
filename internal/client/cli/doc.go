// Package cli provides the interactive AuthKeeper command-line client.
//
// It wires configuration, local credential storage, the API client, and an
// interactive REPL. Typical flow: restore the cached session on startup,
// start a background connectivity watcher, and execute user commands.
//
// Key features:
//   - Register / Login / Logout
//   - Show and refresh the user profile
//   - Update profile fields and change the password
//   - Request and complete a password reset
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App, StartHealthWatcher, and runREPL for details.
package cli
