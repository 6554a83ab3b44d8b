// Package api defines the remote authentication endpoint of the HealthPulse
// backend and its HTTP implementation. Services depend on the Client
// interface so tests can substitute a fake.
package api

import (
	"context"
	"encoding/json"
)

// LoginResult is the session material returned by a successful login.
// User is kept as raw JSON: the client treats the user record as opaque
// and re-serializes it for local storage.
type LoginResult struct {
	AccessToken string
	TokenType   string
	User        json.RawMessage
}

// Client is the remote auth API.
//
// Contract:
//   - Login: exchange credentials for session material. Rejected
//     credentials surface as *AuthError; an unreachable server as
//     ErrUnavailable.
//   - VerifyToken: check that a stored token is still accepted. Returns nil
//     for an accepted token, ErrUnauthorized for a rejected one and
//     ErrUnavailable when the server cannot be reached.
//
// All methods must honor context cancellation/timeouts.
type Client interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	VerifyToken(ctx context.Context, tokenType, accessToken string) error
}
