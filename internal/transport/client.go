// Package transport provides the HTTP capability used by the GitHub and
// Freshdesk clients: send a method, URL, headers and optional body, get back a
// status code and the raw response body.
//
// Error statuses are returned as ordinary responses. Only network and IO
// failures are reported as errors.
package transport

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/agentstation/deskbridge/pkg/constants"
	"github.com/agentstation/deskbridge/pkg/errors"
)

// DefaultHTTPTimeout is the default timeout for HTTP requests.
var DefaultHTTPTimeout = constants.DefaultHTTPTimeout

// Response is the status and raw body of a completed call.
type Response struct {
	StatusCode int
	Body       []byte
}

// IsSuccess reports whether the status is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode <= 299
}

// IsError reports whether the status is 4xx or 5xx.
func (r *Response) IsError() bool {
	return r.StatusCode >= 400
}

// Transport performs a single HTTP call. A nil body sends no payload.
type Transport interface {
	Call(ctx context.Context, method, url string, headers map[string]string, body []byte) (*Response, error)
}

// HTTP is the live Transport backed by net/http.
type HTTP struct {
	http      *http.Client
	userAgent string
}

// Option configures an HTTP transport.
type Option func(*HTTP)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(client *http.Client) Option {
	return func(t *HTTP) {
		if client != nil {
			t.http = client
		}
	}
}

// WithUserAgent sets the User-Agent sent with every request.
func WithUserAgent(userAgent string) Option {
	return func(t *HTTP) {
		t.userAgent = strings.TrimSpace(userAgent)
	}
}

// New creates a live transport.
func New(opts ...Option) *HTTP {
	t := &HTTP{
		http: &http.Client{Timeout: DefaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Call implements Transport.
func (t *HTTP) Call(ctx context.Context, method, url string, headers map[string]string, body []byte) (*Response, error) {
	if err := ValidateMethod(method); err != nil {
		return nil, err
	}

	var reader io.Reader
	if method != http.MethodGet {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, errors.WrapTransport(method, url, err)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	if t.userAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", t.userAgent)
	}

	resp, err := t.http.Do(req)
	if err != nil {
		return nil, errors.WrapTransport(method, url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WrapTransport(method, url, err)
	}
	return &Response{StatusCode: resp.StatusCode, Body: respBody}, nil
}

// CloseIdleConnections releases pooled connections.
func (t *HTTP) CloseIdleConnections() {
	t.http.CloseIdleConnections()
}

// ValidateMethod rejects anything but GET, POST and PUT.
func ValidateMethod(method string) error {
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut:
		return nil
	default:
		return errors.NewValidationError("method", method, "unsupported method: "+method)
	}
}
