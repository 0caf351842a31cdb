// Package client contains client-side building blocks for gophtodo.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) to talk
//     to the gophtodo backend: Register, Login, Ping, todo operations and
//     account deletion.
//  2. A concrete gRPC implementation (see GRPCClient) that manages a
//     connection, injects the session token via an interceptor, and maps
//     gRPC status codes to sentinel errors.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite cache and applying embedded goose migrations.
//
// # Error Handling
//
// Common conditions are exposed as sentinel errors that callers can match with
// errors.Is: ErrUnavailable, ErrUnauthorized, ErrNotFound, ErrAlreadyExists,
// ErrInvalidInput.
package client
