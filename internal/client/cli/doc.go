// Package cli provides the interactive tripvault command-line client.
//
// It wires configuration, local storage, API services, and an interactive REPL
// that supports online/offline operation. Typical flow: prompt for credentials,
// start a background connectivity watcher, pick a trip, and execute commands.
//
// Every document is encrypted on this machine with a passphrase asked for at
// upload time. The passphrase is read without echo, used for one operation and
// wiped. It is unrelated to the account password and is never sent anywhere.
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
