package transport

import (
	"encoding/base64"
)

// Authenticator adds a static credential to the headers of a request.
type Authenticator interface {
	Apply(headers map[string]string)
}

// NoAuth sends requests without credentials.
type NoAuth struct{}

// Apply implements the Authenticator interface for NoAuth.
func (a *NoAuth) Apply(_ map[string]string) {}

// BasicAuth implements Freshdesk style API key authentication: the key is
// sent as the user name of a Basic credential with a fixed password.
type BasicAuth struct {
	Username string
	Password string
}

// NewAPIKeyAuth returns the Basic credential for an API token ("token:X").
func NewAPIKeyAuth(token string) *BasicAuth {
	return &BasicAuth{Username: token, Password: "X"}
}

// Apply implements the Authenticator interface for BasicAuth.
func (a *BasicAuth) Apply(headers map[string]string) {
	headers["Authorization"] = "Basic " + a.Encoded()
}

// Encoded returns base64(username:password).
func (a *BasicAuth) Encoded() string {
	return base64.StdEncoding.EncodeToString([]byte(a.Username + ":" + a.Password))
}

// TokenAuth implements the GitHub "token" scheme.
type TokenAuth struct {
	Token string
}

// Apply implements the Authenticator interface for TokenAuth.
func (a *TokenAuth) Apply(headers map[string]string) {
	headers["Authorization"] = "token " + a.Token
}
