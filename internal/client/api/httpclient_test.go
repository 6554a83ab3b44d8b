package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClientFor(t *testing.T, srv *httptest.Server) *HTTPClient {
	t.Helper()
	base, err := url.Parse(srv.URL)
	require.NoError(t, err)
	return NewHTTPClient(srv.Client(), *base, 5*time.Second)
}

func TestLogin_Success_ParsesSessionMaterial(t *testing.T) {
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"t1","token_type":"Bearer","user":{"username":"alice"}}`))
	}))
	t.Cleanup(srv.Close)

	c := newClientFor(t, srv)
	res, err := c.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)

	assert.Equal(t, "t1", res.AccessToken)
	assert.Equal(t, "Bearer", res.TokenType)
	assert.JSONEq(t, `{"username":"alice"}`, string(res.User))

	assert.Equal(t, "alice", gotBody["username"])
	assert.Equal(t, "secret", gotBody["password"])
}

func TestLogin_Rejected_SurfacesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"bad credentials"}`))
	}))
	t.Cleanup(srv.Close)

	c := newClientFor(t, srv)
	_, err := c.Login(context.Background(), "alice", "wrong")
	require.Error(t, err)

	var ae *AuthError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "bad credentials", ae.Message)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestLogin_Rejected_NoErrorField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	c := newClientFor(t, srv)
	_, err := c.Login(context.Background(), "alice", "secret")

	var ae *AuthError
	require.ErrorAs(t, err, &ae)
	assert.Empty(t, ae.Message)
	assert.Equal(t, "authentication failed", ae.Error())
}

func TestLogin_TransportFailure_IsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from now on

	c := newClientFor(t, srv)
	_, err := c.Login(context.Background(), "alice", "secret")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestLogin_MalformedSuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"token_type":"Bearer"}`))
	}))
	t.Cleanup(srv.Close)

	c := newClientFor(t, srv)
	_, err := c.Login(context.Background(), "alice", "secret")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnavailable)
}

func TestVerifyToken_SendsAuthorizationHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/auth/verify-token", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
	}))
	t.Cleanup(srv.Close)

	c := newClientFor(t, srv)
	require.NoError(t, c.VerifyToken(context.Background(), "Bearer", "t1"))
	assert.Equal(t, "Bearer t1", gotAuth)
}

func TestVerifyToken_NonOK_IsUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)

	c := newClientFor(t, srv)
	err := c.VerifyToken(context.Background(), "Bearer", "stale")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestVerifyToken_TransportFailure_IsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := newClientFor(t, srv)
	err := c.VerifyToken(context.Background(), "Bearer", "t1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.False(t, errors.Is(err, ErrUnauthorized))
}

func TestWithTimeout_Disabled(t *testing.T) {
	c := NewHTTPClient(http.DefaultClient, url.URL{}, 0)
	ctx, cancel := c.withTimeout(context.Background())
	defer cancel()
	_, ok := ctx.Deadline()
	assert.False(t, ok, "zero timeout must not set a deadline")
}
