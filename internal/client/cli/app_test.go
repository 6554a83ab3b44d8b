package cli

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkarev/healthpulse/internal/client/session"
	"github.com/mkarev/healthpulse/internal/logging"
)

type fakeStore struct {
	sess    *session.Session
	loadErr error
}

func (f *fakeStore) Load(ctx context.Context) (*session.Session, error) {
	return f.sess, f.loadErr
}

func (f *fakeStore) Save(ctx context.Context, sess *session.Session) error {
	f.sess = sess
	return nil
}

func (f *fakeStore) Clear(ctx context.Context) error {
	f.sess = nil
	return nil
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": "alice",
		"exp":      exp.Unix(),
	})
	signed, err := token.SignedString([]byte("test-key"))
	require.NoError(t, err)
	return signed
}

func TestWhoami_NoStoredSession(t *testing.T) {
	out := captureOutput(t)
	app := &App{
		store: &fakeStore{},
		log:   logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}

	require.NoError(t, app.Whoami(context.Background()))
	assert.Contains(t, *out, "No session is stored on this device.")
}

func TestWhoami_PrintsUsernameAndExpiry(t *testing.T) {
	out := captureOutput(t)
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	app := &App{
		store: &fakeStore{sess: &session.Session{
			AccessToken: signedToken(t, exp),
			TokenType:   "Bearer",
			UserData:    `{"username":"alice"}`,
		}},
	}

	require.NoError(t, app.Whoami(context.Background()))

	require.NotEmpty(t, *out)
	assert.Contains(t, *out, "Logged in as alice")
	assert.Contains(t, (*out)[len(*out)-1], "Token expires at")
}

func TestWhoami_OpaqueToken_NoExpiryLine(t *testing.T) {
	out := captureOutput(t)
	app := &App{
		store: &fakeStore{sess: &session.Session{
			AccessToken: "opaque",
			TokenType:   "Bearer",
			UserData:    `{"username":"alice"}`,
		}},
	}

	require.NoError(t, app.Whoami(context.Background()))
	assert.Equal(t, []string{"Logged in as alice"}, *out)
}

func TestLogout_ResetsUserName(t *testing.T) {
	_ = captureOutput(t)
	app := &App{
		login:    &fakeLoginService{},
		userName: "alice",
	}

	require.NoError(t, app.Logout(context.Background()))
	assert.False(t, app.isLoggedIn())
}

func TestGetStatus(t *testing.T) {
	app := &App{}
	assert.Equal(t, "", app.getStatus())

	app.userName = "alice"
	assert.Equal(t, "(alice)", app.getStatus())
}
