package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	loginPath  = "auth/login"
	verifyPath = "auth/verify-token"
)

// Doer is the subset of *http.Client used by HTTPClient; injectable for
// tests.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPClient implements Client over the backend's JSON HTTP API.
type HTTPClient struct {
	doer    Doer
	baseURL url.URL
	timeout time.Duration
}

// NewHTTPClient builds a client for the given base URL. A non-positive
// timeout disables the per-request deadline.
func NewHTTPClient(doer Doer, baseURL url.URL, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		doer:    doer,
		baseURL: baseURL,
		timeout: timeout,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	User        json.RawMessage `json:"user"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (c *HTTPClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

// Login posts credentials to the login endpoint. A 2xx response yields the
// parsed session material; any other status is translated to *AuthError
// with the optional server-provided message.
func (c *HTTPClient) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	body, err := json.Marshal(loginRequest{Username: username, Password: password})
	if err != nil {
		return nil, fmt.Errorf("encoding login request: %w", err)
	}

	loginURL := c.baseURL.JoinPath(loginPath)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, loginURL.String(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading login response: %w", err)
	}

	if resp.StatusCode/100 != 2 {
		var er errorResponse
		_ = json.Unmarshal(data, &er) // body may be empty or not JSON at all
		return nil, &AuthError{Message: er.Error}
	}

	var lr loginResponse
	if err := json.Unmarshal(data, &lr); err != nil {
		return nil, fmt.Errorf("decoding login response: %w", err)
	}
	if lr.AccessToken == "" || lr.TokenType == "" {
		return nil, fmt.Errorf("login response is missing token fields")
	}

	return &LoginResult{
		AccessToken: lr.AccessToken,
		TokenType:   lr.TokenType,
		User:        lr.User,
	}, nil
}

// VerifyToken issues a single GET to the verify endpoint with an
// "Authorization: <tokenType> <accessToken>" header. No retries.
func (c *HTTPClient) VerifyToken(ctx context.Context, tokenType, accessToken string) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	verifyURL := c.baseURL.JoinPath(verifyPath)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, verifyURL.String(), nil)
	if err != nil {
		return fmt.Errorf("building verify request: %w", err)
	}
	req.Header.Set("Authorization", tokenType+" "+accessToken)

	resp, err := c.doer.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	// drain so the connection can be reused
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("%w: verify returned status %d", ErrUnauthorized, resp.StatusCode)
	}
	return nil
}
