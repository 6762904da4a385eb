// Package client implements the login side of the handshake: an HTTP API
// client that submits credentials and a controller that turns the outcome
// into a navigation decision.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrUnauthorized is returned when the server rejects the credential. The
// server never says which part was wrong, and neither does this client.
var ErrUnauthorized = errors.New("invalid credentials")

// Client submits a login attempt and returns the role the server resolved.
type Client interface {
	Login(ctx context.Context, email, password string) (int, error)
}

// APIClient talks to the portal server over HTTP/JSON.
type APIClient struct {
	baseURL string
	http    *http.Client
}

// NewAPIClient creates an APIClient for the server at baseURL
// (e.g. "http://localhost:8080").
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success bool `json:"success"`
	RoleID  int  `json:"role_id"`
}

// Login posts the credential to the login endpoint. On success it returns
// the server-resolved role id. A 401 or success=false maps to
// ErrUnauthorized; anything else is a transport/server error.
func (c *APIClient) Login(ctx context.Context, email, password string) (int, error) {
	body, err := json.Marshal(loginRequest{Email: email, Password: password})
	if err != nil {
		return 0, fmt.Errorf("failed to encode login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/v1/auth/login", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return 0, ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	var out loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("failed to decode login response: %w", err)
	}
	if !out.Success {
		return 0, ErrUnauthorized
	}
	return out.RoleID, nil
}
