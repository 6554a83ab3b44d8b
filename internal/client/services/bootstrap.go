// Package services contains the application services of the HealthPulse
// client: the startup session check and the login/logout flow.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/mkarev/healthpulse/internal/client/api"
	"github.com/mkarev/healthpulse/internal/client/session"
	"github.com/mkarev/healthpulse/internal/logging"
)

// Decision is the outcome of the startup session check.
type Decision int

const (
	// DecisionShowLogin means no usable session: show the login form.
	DecisionShowLogin Decision = iota
	// DecisionRedirect means the stored session was confirmed: go straight
	// to the authenticated area.
	DecisionRedirect
)

func (d Decision) String() string {
	if d == DecisionRedirect {
		return "redirect"
	}
	return "show-login"
}

// BootstrapService decides on startup whether a stored session is still
// usable.
type BootstrapService interface {
	Bootstrap(ctx context.Context) (Decision, error)
}

type bootstrapService struct {
	client api.Client
	store  session.Store
	log    logging.Logger
}

func NewBootstrapService(client api.Client, store session.Store, log logging.Logger) BootstrapService {
	return &bootstrapService{client: client, store: store, log: log}
}

// Bootstrap loads the stored session and checks it against the verify
// endpoint with a single attempt.
//
//   - no (or partial) stored session: show the login form;
//   - token confirmed: redirect;
//   - token rejected: delete the stored session (best effort, a failed
//     delete is only logged) and show the login form;
//   - server unreachable: the session cannot be confirmed — keep it stored
//     and show the login form.
//
// A storage read failure also falls back to the login form; the error is
// returned alongside the decision so the caller can warn the user.
func (b *bootstrapService) Bootstrap(ctx context.Context) (Decision, error) {
	sess, err := b.store.Load(ctx)
	if err != nil {
		return DecisionShowLogin, fmt.Errorf("session check: %w", err)
	}
	if sess == nil {
		return DecisionShowLogin, nil
	}

	err = b.client.VerifyToken(ctx, sess.TokenType, sess.AccessToken)
	switch {
	case err == nil:
		return DecisionRedirect, nil

	case errors.Is(err, api.ErrUnavailable):
		b.log.Warn(ctx, "verify endpoint unreachable, session not confirmed", "error", err)
		return DecisionShowLogin, nil

	default:
		if clearErr := b.store.Clear(ctx); clearErr != nil {
			b.log.Error(ctx, "failed to clear rejected session", "error", clearErr)
		}
		return DecisionShowLogin, nil
	}
}
