package api

import "errors"

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
)

// AuthError carries the server-provided rejection message from a failed
// login. Message may be empty when the server did not include one; callers
// are expected to fall back to a generic message then.
//
// AuthError unwraps to ErrUnauthorized, so errors.Is(err, ErrUnauthorized)
// matches both plain and message-carrying rejections.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return "authentication failed"
	}
	return e.Message
}

func (e *AuthError) Unwrap() error {
	return ErrUnauthorized
}
