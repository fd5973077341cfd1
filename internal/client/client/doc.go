// Package client contains the client-side transport to the tripvault server.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface):
//     Register/GetSalt/Login, Ping, and the document calls RequestUpload,
//     CreateDocument, ListDocuments, GetDocument, UpdateDocument and
//     DeleteDocument.
//  2. A concrete gRPC implementation (see GRPCClient) that manages a
//     connection, injects an access token via an interceptor, transparently
//     refreshes expired tokens, and maps gRPC status codes to sentinel errors.
//  3. Local persistence bootstrap utilities (InitDatabase, RunMigrations) for
//     the CLI, wiring an SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Common conditions are exposed as sentinel errors that callers can match with
// errors.Is: ErrUnavailable, ErrUnauthorized, ErrNotFound, ErrAlreadyExists,
// ErrInvalidArgument, ErrRateLimited, ErrLocalDataNotAvailable.
//
// The client never sends a document passphrase; only ciphertext metadata
// crosses the wire.
package client
