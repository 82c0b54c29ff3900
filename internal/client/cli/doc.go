// Package cli is the interactive command-line front end of the donation
// marketplace client.
//
// App wires configuration, the local cache, the backend API client and the
// services, then runs a REPL. Each listing command is a view: opening it
// mounts the pollers that keep its data fresh and unmounts the previous
// view's pollers. Signing out stops all pollers and clears cached data.
//
// The prompt shows the signed-in user and whether the last refresh reached
// the backend (online) or not (offline).
package cli
