// Package session models the persisted session triple (access token, token
// type, user record) and its SQLite-backed store.
package session

import (
	"encoding/json"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Storage keys for the session triple. The invariant is all three present
// together or none; Save and Clear touch them in one transaction and Load
// treats a partial triple as absent.
const (
	KeyAccessToken = "access_token"
	KeyTokenType   = "token_type"
	KeyUserData    = "user_data"
)

// Session is the material persisted after a successful login. UserData is
// the user record exactly as the backend returned it, re-serialized to a
// string.
type Session struct {
	AccessToken string
	TokenType   string
	UserData    string
}

// Username extracts the username from the stored user record. Returns ""
// when the record cannot be parsed or has no username field.
func (s *Session) Username() string {
	var u struct {
		Username string `json:"username"`
	}
	if err := json.Unmarshal([]byte(s.UserData), &u); err != nil {
		return ""
	}
	return u.Username
}

// ExpiresAt decodes the access token as a JWT without verifying the
// signature and reports its expiry claim. Diagnostic only: the server
// remains the authority on token validity.
func (s *Session) ExpiresAt() (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.AccessToken, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
