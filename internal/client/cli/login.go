package cli

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/mkarev/healthpulse/internal/client/api"
	"github.com/mkarev/healthpulse/internal/client/services"
	"github.com/mkarev/healthpulse/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

const (
	msgEmptyInput          = "Username and password must not be empty."
	msgGenericAuthFailure  = "Login failed. Please check your credentials and try again."
	msgConnectivityFailure = "Cannot reach the server. Please check your connection and try again."
)

// LoginForm prompts for credentials and submits them until a login succeeds
// or input is exhausted.
//
// Behavior on failure:
//   - rejected credentials: the server message (or a generic fallback) is
//     shown, the username is kept and only the password is asked again;
//   - connectivity failure: a generic message, username kept;
//   - empty input: both fields are asked again when the username was the
//     empty one.
//
// The password buffer is wiped after every submission. When the login
// succeeded but the session could not be stored, a distinct warning is shown
// and the user still proceeds.
func (a *App) LoginForm(ctx context.Context) error {
	username := ""
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if username == "" {
			var err error
			username, err = getSimpleText(a.reader, "Enter username", os.Stdout)
			if err != nil {
				return err
			}
		}

		password, err := getPassword(os.Stdout)
		if err != nil {
			return err
		}

		outcome, err := a.login.Login(ctx, username, password)
		common.WipeByteArray(password)

		switch {
		case err == nil:
			a.userName = outcome.Username
			printlnFn("Welcome, " + outcome.Username + "!")
			return nil

		case errors.Is(err, services.ErrSessionNotStored):
			a.userName = outcome.Username
			printlnFn("Logged in as " + outcome.Username + ", but the session could not be saved on this device. You will have to log in again next time.")
			return nil

		case errors.Is(err, services.ErrValidation):
			printlnFn(msgEmptyInput)
			username = strings.TrimSpace(username)

		case errors.Is(err, api.ErrUnavailable):
			printlnFn(msgConnectivityFailure)

		default:
			msg := msgGenericAuthFailure
			var ae *api.AuthError
			if errors.As(err, &ae) && ae.Message != "" {
				msg = ae.Message
			}
			printlnFn(msg)
		}
	}
}
