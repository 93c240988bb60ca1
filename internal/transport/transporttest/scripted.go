// Package transporttest provides a scripted Transport for tests.
package transporttest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/agentstation/deskbridge/internal/transport"
)

// Call is a request recorded by Scripted.
type Call struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
}

// Reply is a scripted answer. A non-nil Err is returned instead of a response.
type Reply struct {
	StatusCode int
	Body       string
	Err        error
}

type route struct {
	method string
	prefix string
	reply  Reply
}

// Scripted answers calls from routes registered with On. Routes are matched
// by method and URL prefix in registration order; a matched route is
// consumed unless it is the last one left for that method and prefix.
// Unmatched calls fail the test via the returned error.
type Scripted struct {
	mu     sync.Mutex
	routes []*route
	calls  []Call
}

// New creates an empty Scripted transport.
func New() *Scripted {
	return &Scripted{}
}

// On registers a reply for requests whose URL starts with prefix.
func (s *Scripted) On(method, prefix string, reply Reply) *Scripted {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes = append(s.routes, &route{method: method, prefix: prefix, reply: reply})
	return s
}

// JSON registers a reply with the given status and body.
func (s *Scripted) JSON(method, prefix string, status int, body string) *Scripted {
	return s.On(method, prefix, Reply{StatusCode: status, Body: body})
}

// Call implements transport.Transport.
func (s *Scripted) Call(_ context.Context, method, url string, headers map[string]string, body []byte) (*transport.Response, error) {
	if err := transport.ValidateMethod(method); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make(map[string]string, len(headers))
	for k, v := range headers {
		copied[k] = v
	}
	s.calls = append(s.calls, Call{Method: method, URL: url, Headers: copied, Body: append([]byte(nil), body...)})

	for i, r := range s.routes {
		if r.method != method || !strings.HasPrefix(url, r.prefix) {
			continue
		}
		if s.hasLaterMatch(i, method, r.prefix) {
			s.routes = append(s.routes[:i], s.routes[i+1:]...)
		}
		if r.reply.Err != nil {
			return nil, r.reply.Err
		}
		return &transport.Response{StatusCode: r.reply.StatusCode, Body: []byte(r.reply.Body)}, nil
	}
	return nil, fmt.Errorf("transporttest: no route for %s %s", method, url)
}

func (s *Scripted) hasLaterMatch(i int, method, prefix string) bool {
	for _, r := range s.routes[i+1:] {
		if r.method == method && r.prefix == prefix {
			return true
		}
	}
	return false
}

// Calls returns a copy of every recorded call.
func (s *Scripted) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CallsTo returns the recorded calls with the given method and URL prefix.
func (s *Scripted) CallsTo(method, prefix string) []Call {
	var out []Call
	for _, c := range s.Calls() {
		if c.Method == method && strings.HasPrefix(c.URL, prefix) {
			out = append(out, c)
		}
	}
	return out
}

var _ transport.Transport = (*Scripted)(nil)
