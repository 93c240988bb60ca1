// Package github fetches user profiles from the GitHub REST API.
package github

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/agentstation/deskbridge/internal/transport"
	"github.com/agentstation/deskbridge/pkg/constants"
	"github.com/agentstation/deskbridge/pkg/errors"
	"github.com/agentstation/deskbridge/pkg/logging"
)

const service = "github"

// User is the subset of a GitHub user profile that is synced.
// JSON null fields decode to the empty string.
type User struct {
	Login           string `json:"login" yaml:"login"`
	Name            string `json:"name,omitempty" yaml:"name,omitempty"`
	CreatedAt       string `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	Email           string `json:"email,omitempty" yaml:"email,omitempty"`
	Location        string `json:"location,omitempty" yaml:"location,omitempty"`
	TwitterUsername string `json:"twitter_username,omitempty" yaml:"twitter_username,omitempty"`
}

// Client is a GitHub users API client.
type Client struct {
	transport transport.Transport
	auth      transport.Authenticator
	baseURL   string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root (GitHub Enterprise, tests).
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// NewClient creates a client that authenticates with token. An empty token
// sends unauthenticated requests.
func NewClient(tr transport.Transport, token string, opts ...Option) *Client {
	var auth transport.Authenticator = &transport.NoAuth{}
	if token = strings.TrimSpace(token); token != "" {
		auth = &transport.TokenAuth{Token: token}
	}
	c := &Client{
		transport: tr,
		auth:      auth,
		baseURL:   constants.DefaultGitHubAPIURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetUser fetches the profile for login.
// An unknown login yields a NotFoundError; any other error status a RemoteError.
func (c *Client) GetUser(ctx context.Context, login string) (*User, error) {
	if strings.TrimSpace(login) == "" {
		return nil, errors.NewValidationError("login", login, "login is required")
	}

	endpoint := c.baseURL + "/users/" + url.PathEscape(login)
	headers := transport.Headers(c.auth, false, map[string]string{
		"Accept": constants.GitHubAcceptHeader,
	})

	logging.Ctx(ctx).Debug().Str("url", endpoint).Msg("Fetching GitHub user")

	resp, err := c.transport.Call(ctx, http.MethodGet, endpoint, headers, nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, errors.NewNotFoundError("github user", login)
	}
	if resp.IsError() {
		e := errors.NewRemoteError(service, "fetch", resp.StatusCode, string(resp.Body))
		e.Endpoint = endpoint
		return nil, e
	}

	var user User
	if err := transport.DecodeJSON(resp, endpoint, &user); err != nil {
		return nil, err
	}
	if user.Login == "" {
		return nil, errors.NewParseError("json", endpoint, "response has no login", nil)
	}
	return &user, nil
}
