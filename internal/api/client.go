// Package api is the REST client for the tracker backend. The backend owns
// all persistence and business rules; this client only moves JSON.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

// ClientVersion is the version of this client, checked against the
// server's reported minimum for compatibility
var ClientVersion = "0.4.2"

// ErrUnauthorized marks 401 replies so callers can prompt for a fresh login
var ErrUnauthorized = errors.New("unauthorized")

// APIError carries the raw response body of a non-2xx reply
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Body)
}

func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// Client talks to the tracker backend over HTTP with bearer auth
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New creates a client for the given base URL. The token may be empty for
// the login call itself.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// SetTimeout sets the per-request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.http.Timeout = timeout
}

// BaseURL returns the configured server base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do sends one JSON request and decodes the JSON response into out.
// Non-2xx responses become an *APIError carrying the raw body.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}
	return nil
}

// LoginResult is the response of a successful login
type LoginResult struct {
	Token string `json:"token"`
	User  struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"user"`
}

// Login exchanges credentials for a bearer token
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var result LoginResult
	err := c.do(ctx, http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ServerInfo is the backend's version handshake
type ServerInfo struct {
	Version          string `json:"version"`
	MinClientVersion string `json:"minClientVersion"`
}

// Info fetches the server version handshake
func (c *Client) Info(ctx context.Context) (*ServerInfo, error) {
	var info ServerInfo
	if err := c.do(ctx, http.MethodGet, "/server/info", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Compatible reports whether this client meets the server's minimum
// version. An empty or malformed minimum is treated as compatible.
func (info *ServerInfo) Compatible(clientVersion string) bool {
	min := "v" + strings.TrimPrefix(info.MinClientVersion, "v")
	cur := "v" + strings.TrimPrefix(clientVersion, "v")
	if !semver.IsValid(min) || !semver.IsValid(cur) {
		return true
	}
	return semver.Compare(cur, min) >= 0
}
