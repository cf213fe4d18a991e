// Package client provides a Go client for the notes HTTP API. It is
// the programmatic equivalent of the web frontend: the token from
// Login is held on the client and attached to every later call.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/jotter/jotter/internal/handler/dto"
)

const (
	// ClientTimeout is the total request timeout.
	ClientTimeout = 15 * time.Second
	// DialTimeout is the connection timeout.
	DialTimeout = 5 * time.Second
	// TLSHandshakeTimeout is the TLS negotiation timeout.
	TLSHandshakeTimeout = 5 * time.Second
	// ResponseHeaderTimeout is time to wait for response headers.
	ResponseHeaderTimeout = 10 * time.Second
)

var (
	// ErrUnavailable means the server could not be reached, or kept
	// failing after retries.
	ErrUnavailable = errors.New("service unavailable")
	// ErrUnauthorized means the token is missing, expired, or revoked.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrEmailTaken means the registration email is already in use.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials means login was rejected.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidInput means the server rejected the request fields.
	ErrInvalidInput = errors.New("invalid input")
)

// Client talks to a notes API server. It is not safe for concurrent
// use while logging in or out; note calls may run concurrently.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client. Tests use this to
// point the client at an httptest server transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithToken seeds the client with an existing session token.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New creates a Client for the API at baseURL (scheme and host, no
// trailing slash).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: newHTTPClient(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// newHTTPClient creates an HTTP client with conservative timeouts.
// It does not follow redirects.
func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: ClientTimeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   DialTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   TLSHandshakeTimeout,
			ResponseHeaderTimeout: ResponseHeaderTimeout,
			MaxIdleConns:          10,
			IdleConnTimeout:       90 * time.Second,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// Token returns the current session token, or "" when logged out.
func (c *Client) Token() string { return c.token }

// Register creates an account. It does not log the new user in.
func (c *Client) Register(ctx context.Context, username, email, password string) (*dto.UserResponse, error) {
	var out dto.UserResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/register", dto.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Login signs in and stores the session token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*dto.UserResponse, error) {
	var out dto.LoginResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", dto.LoginRequest{
		Email:    email,
		Password: password,
	}, &out)
	if err != nil {
		return nil, err
	}
	c.token = out.Token
	return &out.User, nil
}

// Logout revokes the session and clears the stored token. The token
// is cleared even if the server call fails; the client side of the
// session is gone either way.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/logout", nil, nil)
	c.token = ""
	return err
}

// Me returns the current session.
func (c *Client) Me(ctx context.Context) (*dto.SessionResponse, error) {
	var out dto.SessionResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListNotes fetches the full note collection, retrying transient
// failures a few times before giving up with ErrUnavailable.
func (c *Client) ListNotes(ctx context.Context) ([]dto.NoteResponse, error) {
	var out dto.NoteListResponse
	err := withRetry(ctx, func() error {
		return c.do(ctx, http.MethodGet, "/api/v1/notes", nil, &out)
	})
	if err != nil {
		return nil, err
	}
	return out.Data, nil
}

// AddNote creates a note and returns the refreshed collection.
func (c *Client) AddNote(ctx context.Context, title, content string) ([]dto.NoteResponse, error) {
	var out dto.NoteListResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/notes", dto.CreateNoteRequest{
		Title:   title,
		Content: content,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.Data, nil
}

// DeleteNote removes a note and returns the refreshed collection.
func (c *Client) DeleteNote(ctx context.Context, id string) ([]dto.NoteResponse, error) {
	var out dto.NoteListResponse
	err := c.do(ctx, http.MethodDelete, "/api/v1/notes/"+id, nil, &out)
	if err != nil {
		return nil, err
	}
	return out.Data, nil
}

// do performs one request/response round trip.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return apiError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// apiError maps an error response body to a sentinel error.
func apiError(resp *http.Response) error {
	var body dto.ErrorResponse
	_ = json.NewDecoder(resp.Body).Decode(&body)

	switch body.Code {
	case "EMAIL_TAKEN":
		return ErrEmailTaken
	case "INVALID_CREDENTIALS":
		return ErrInvalidCredentials
	case "INVALID_INPUT", "INVALID_JSON", "MISSING_ID":
		return ErrInvalidInput
	case "UNAUTHENTICATED":
		return ErrUnauthorized
	}

	if resp.StatusCode >= 500 {
		return fmt.Errorf("%w: server returned %d", ErrUnavailable, resp.StatusCode)
	}
	if body.Error != "" {
		return fmt.Errorf("api error %d: %s", resp.StatusCode, body.Error)
	}
	return fmt.Errorf("api error %d", resp.StatusCode)
}
