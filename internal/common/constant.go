// Package common contains shared constants and sentinel errors used across
// gophtodo components.
package common

const (
	// TokenCookieName is the session cookie carrying the signed token.
	TokenCookieName = "token"

	// TokenHeaderName is the HTTP header / gRPC metadata key accepted as an
	// alternative token transport for non-browser clients.
	TokenHeaderName = "x-auth-token"
)
