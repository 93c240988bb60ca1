// Package freshdesk reconciles contacts against the Freshdesk v2 API.
//
// Lookups go through two steps. The contacts list filtered by
// unique_external_id is tried first; when it has no match the search API is
// queried with the same key. Error statuses from the search step count as
// "not found". Create and update fail on any error status.
package freshdesk

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/agentstation/deskbridge/internal/transport"
	"github.com/agentstation/deskbridge/pkg/constants"
	"github.com/agentstation/deskbridge/pkg/errors"
	"github.com/agentstation/deskbridge/pkg/logging"
)

const service = "freshdesk"

// Options configures a Client.
type Options struct {
	Transport transport.Transport
	Subdomain string
	// Host defaults to freshdesk.com.
	Host string
	// BaseURL replaces https://{subdomain}.{host}/api/v2 entirely.
	BaseURL  string
	APIToken string
}

// Client is a Freshdesk contacts client.
type Client struct {
	transport transport.Transport
	auth      transport.Authenticator
	baseURL   string
}

// NewClient validates opts and creates a Client.
func NewClient(opts Options) (*Client, error) {
	if opts.Transport == nil {
		return nil, errors.NewValidationError("transport", nil, "transport is required")
	}
	if opts.APIToken == "" {
		return nil, errors.NewMissingEnvError("FRESHDESK_TOKEN")
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		if opts.Subdomain == "" {
			return nil, errors.NewValidationError("subdomain", opts.Subdomain, "subdomain is required")
		}
		host := opts.Host
		if host == "" {
			host = constants.DefaultFreshdeskHost
		}
		baseURL = "https://" + opts.Subdomain + "." + host + constants.FreshdeskAPIPath
	}

	return &Client{
		transport: opts.Transport,
		auth:      transport.NewAPIKeyAuth(opts.APIToken),
		baseURL:   baseURL,
	}, nil
}

// BaseURL returns the API root requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FindByExternalID returns the first contact whose unique_external_id equals
// key, or nil when neither lookup step finds one.
func (c *Client) FindByExternalID(ctx context.Context, key string) (*Contact, error) {
	logger := logging.Ctx(ctx).With().Str("unique_external_id", key).Logger()

	contact, err := c.findByFilter(ctx, key)
	if err != nil || contact != nil {
		return contact, err
	}

	logger.Debug().Msg("No contact from list filter, trying search")
	contact, err = c.findBySearch(ctx, key)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		logger.Debug().Msg("No existing contact")
	}
	return contact, nil
}

// findByFilter queries GET /contacts?unique_external_id=. Error statuses,
// empty lists and non-array bodies yield nil so the caller can fall back.
func (c *Client) findByFilter(ctx context.Context, key string) (*Contact, error) {
	endpoint := c.baseURL + "/contacts?unique_external_id=" + url.QueryEscape(key)
	resp, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		logging.Ctx(ctx).Debug().Int("status", resp.StatusCode).Msg("Contact list filter rejected")
		return nil, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(resp.Body, &items); err != nil {
		if isShapeMismatch(err) {
			return nil, nil
		}
		return nil, errors.WrapParse("json", endpoint, err)
	}
	return first(items, endpoint)
}

// findBySearch queries GET /search/contacts with a quoted field:value query.
// Error statuses and bodies that are not a results object yield nil.
func (c *Client) findBySearch(ctx context.Context, key string) (*Contact, error) {
	query := fmt.Sprintf("\"unique_external_id:'%s'\"", key)
	endpoint := c.baseURL + "/search/contacts?query=" + url.QueryEscape(query)
	resp, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		logging.Ctx(ctx).Debug().Int("status", resp.StatusCode).Msg("Contact search failed, treating as absent")
		return nil, nil
	}

	var envelope struct {
		Results []json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(resp.Body, &envelope); err != nil {
		if isShapeMismatch(err) {
			return nil, nil
		}
		return nil, errors.WrapParse("json", endpoint, err)
	}
	return first(envelope.Results, endpoint)
}

// isShapeMismatch reports whether err is well-formed JSON of the wrong type.
func isShapeMismatch(err error) bool {
	var typeErr *json.UnmarshalTypeError
	return stderrors.As(err, &typeErr)
}

func first(items []json.RawMessage, source string) (*Contact, error) {
	if len(items) == 0 {
		return nil, nil
	}
	var contact Contact
	if err := json.Unmarshal(items[0], &contact); err != nil {
		return nil, errors.WrapParse("json", source, err)
	}
	return &contact, nil
}

// Create inserts contact and returns the id assigned by the store.
func (c *Client) Create(ctx context.Context, contact *Contact) (string, error) {
	return c.write(ctx, http.MethodPost, "create", c.baseURL+"/contacts", contact)
}

// Update merges contact into the record with the given id. The returned id is
// the one echoed by the store.
func (c *Client) Update(ctx context.Context, id string, contact *Contact) (string, error) {
	if id == "" {
		return "", errors.NewValidationError("id", id, "contact id is required")
	}
	return c.write(ctx, http.MethodPut, "update", c.baseURL+"/contacts/"+url.PathEscape(id), contact)
}

func (c *Client) write(ctx context.Context, method, operation, endpoint string, contact *Contact) (string, error) {
	if contact == nil {
		return "", errors.NewValidationError("contact", nil, "contact is required")
	}
	body, err := json.Marshal(newPayload(contact))
	if err != nil {
		return "", errors.WrapParse("json", "contact payload", err)
	}

	headers := transport.Headers(c.auth, true, nil)
	resp, err := c.transport.Call(ctx, method, endpoint, headers, body)
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		e := errors.NewRemoteError(service, operation, resp.StatusCode, string(resp.Body))
		e.Endpoint = endpoint
		return "", e
	}

	var envelope struct {
		ID json.Number `json:"id"`
	}
	if err := transport.DecodeJSON(resp, endpoint, &envelope); err != nil {
		return "", err
	}
	if envelope.ID == "" {
		return "", errors.NewParseError("json", endpoint, "response has no id", nil)
	}
	return envelope.ID.String(), nil
}

func (c *Client) get(ctx context.Context, endpoint string) (*transport.Response, error) {
	return c.transport.Call(ctx, http.MethodGet, endpoint, transport.Headers(c.auth, false, nil), nil)
}
