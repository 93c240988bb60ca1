package transport

import (
	"encoding/json"

	"github.com/agentstation/deskbridge/pkg/errors"
)

// Headers builds a request header map with the given authenticator applied.
// JSON requests also get a Content-Type.
func Headers(auth Authenticator, jsonBody bool, extra map[string]string) map[string]string {
	headers := make(map[string]string, len(extra)+2)
	for key, value := range extra {
		headers[key] = value
	}
	if auth != nil {
		auth.Apply(headers)
	}
	if jsonBody {
		headers["Content-Type"] = "application/json"
	}
	return headers
}

// DecodeJSON unmarshals a response body, reporting failures as ParseError.
func DecodeJSON(resp *Response, source string, target any) error {
	if err := json.Unmarshal(resp.Body, target); err != nil {
		return errors.WrapParse("json", source, err)
	}
	return nil
}
