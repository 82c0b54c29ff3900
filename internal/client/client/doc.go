// Package client contains the client-side building blocks that talk to the
// donation marketplace backend.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) covering
//     sign-up/sign-in, campaigns, donations, NGO verification and contact
//     messages.
//  2. A REST implementation (see HTTPClient) that attaches the bearer token
//     of the current session to every request, unwraps the backend's
//     {success, message, data, user, token} envelope and maps statuses to
//     sentinel errors. Collection responses are parsed record by record;
//     malformed records are logged and dropped.
//  3. Local persistence bootstrap utilities (InitDatabase, RunMigrations)
//     that open the SQLite cache and apply embedded goose migrations.
//
// # Error Handling
//
// Common conditions are exposed as sentinel errors that callers can match with
// errors.Is: ErrUnavailable (connection failures, timeouts, 5xx),
// ErrUnauthorized (401/403) and ErrNotFound (404). Other rejections are
// returned as *APIError. Unparseable 2xx bodies wrap models.ErrMalformedPayload.
//
// All operations accept context.Context and honor cancellation.
package client
