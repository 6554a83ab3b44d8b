package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/mkarev/healthpulse/internal/client/api"
	"github.com/mkarev/healthpulse/internal/client/session"
	"github.com/mkarev/healthpulse/internal/logging"
)

var (
	// ErrValidation: the input never left the device, no network call was
	// made.
	ErrValidation = errors.New("username and password are required")

	// ErrBusy: a submission is already in flight.
	ErrBusy = errors.New("login already in progress")

	// ErrSessionNotStored: the login itself succeeded but the session could
	// not be persisted. The returned outcome is still valid for this run.
	ErrSessionNotStored = errors.New("session not stored")
)

// LoginOutcome is what a successful submission produces. Username comes from
// the returned user record, falling back to the submitted username when the
// record carries none.
type LoginOutcome struct {
	Username string
	Session  *session.Session
}

// LoginService submits credentials and manages the stored session.
type LoginService interface {
	Login(ctx context.Context, username string, password []byte) (*LoginOutcome, error)
	Logout(ctx context.Context) error
}

type loginService struct {
	client api.Client
	store  session.Store
	log    logging.Logger
	busy   atomic.Bool
}

func NewLoginService(client api.Client, store session.Store, log logging.Logger) LoginService {
	return &loginService{client: client, store: store, log: log}
}

// Login validates the input, submits it to the backend and persists the
// returned session.
//
// The username is trimmed before the emptiness check; the password is taken
// as-is. At most one submission runs at a time: a concurrent call returns
// ErrBusy, and the busy flag is released on every exit path.
//
// Error surface: ErrValidation (local, no network call), *api.AuthError
// (rejected credentials), api.ErrUnavailable (connectivity),
// ErrSessionNotStored (login succeeded, outcome is non-nil, persisting
// failed).
func (l *loginService) Login(ctx context.Context, username string, password []byte) (*LoginOutcome, error) {
	username = strings.TrimSpace(username)
	if username == "" || len(password) == 0 {
		return nil, ErrValidation
	}

	if !l.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer l.busy.Store(false)

	res, err := l.client.Login(ctx, username, string(password))
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	sess := &session.Session{
		AccessToken: res.AccessToken,
		TokenType:   res.TokenType,
		UserData:    string(res.User),
	}

	outcome := &LoginOutcome{Username: sess.Username(), Session: sess}
	if outcome.Username == "" {
		outcome.Username = username
	}

	if err := l.store.Save(ctx, sess); err != nil {
		l.log.Error(ctx, "failed to persist session", "error", err)
		return outcome, fmt.Errorf("%w: %w", ErrSessionNotStored, err)
	}

	return outcome, nil
}

// Logout clears the stored session.
func (l *loginService) Logout(ctx context.Context) error {
	return l.store.Clear(ctx)
}
