// Package authclient is a small client for the GitSprint auth surface. It is
// meant for Go frontends and tools that drive the OAuth flow through a
// browser and manage the resulting session token.
package authclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Default navigation targets of the hosted app.
const (
	DefaultCallbackURL = "/feature/dashboard"
	ErrorCallbackURL   = "/auth/signin"
	NewUserCallbackURL = "/feature/onboarding"
)

// HTTPClient abstracts HTTP operations for testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the auth API.
type Client struct {
	baseURL string
	http    HTTPClient
}

// New creates a client for the API at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// SetHTTPClient overrides the underlying HTTP client (used for testing).
func (c *Client) SetHTTPClient(client HTTPClient) {
	c.http = client
}

// SignInOptions override the navigation targets of a sign-in flow.
type SignInOptions struct {
	CallbackURL        string
	ErrorCallbackURL   string
	NewUserCallbackURL string
}

// SignInWithGithub builds the URL that starts a GitHub sign-in flow. The
// caller navigates the browser there; the API drives the rest of the flow.
func (c *Client) SignInWithGithub(opts SignInOptions) string {
	return c.signInURL("github", opts)
}

// SignInWithGoogle builds the URL that starts a Google sign-in flow.
func (c *Client) SignInWithGoogle(opts SignInOptions) string {
	return c.signInURL("google", opts)
}

func (c *Client) signInURL(provider string, opts SignInOptions) string {
	q := url.Values{}
	q.Set("callbackURL", valueOr(opts.CallbackURL, DefaultCallbackURL))
	q.Set("errorCallbackURL", valueOr(opts.ErrorCallbackURL, ErrorCallbackURL))
	q.Set("newUserCallbackURL", valueOr(opts.NewUserCallbackURL, NewUserCallbackURL))
	return c.baseURL + "/api/auth/signin/" + provider + "?" + q.Encode()
}

// Session is the payload of a resolved session.
type Session struct {
	Session struct {
		ID        string    `json:"id"`
		UserID    string    `json:"user_id"`
		CreatedAt time.Time `json:"created_at"`
		ExpiresAt time.Time `json:"expires_at"`
	} `json:"session"`
	User struct {
		ID               string `json:"id"`
		Name             string `json:"name"`
		Email            string `json:"email"`
		Role             string `json:"role"`
		ProfileCompleted bool   `json:"profile_completed"`
	} `json:"user"`
}

// GetSession resolves the session behind a token. A nil session with a nil
// error means the token no longer resolves.
func (c *Client) GetSession(ctx context.Context, token string) (*Session, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/auth/get-session", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get-session returned %d", resp.StatusCode)
	}

	var session *Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return session, nil
}

// SignOut invalidates the session behind the token and then calls navigate,
// typically to send the browser back to the sign-in page. When sign-out
// fails the error is returned and navigate never runs, so the caller's local
// session state stays untouched.
func (c *Client) SignOut(ctx context.Context, token string, navigate func()) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/sign-out", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to sign out: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sign-out returned %d", resp.StatusCode)
	}

	if navigate != nil {
		navigate()
	}
	return nil
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
