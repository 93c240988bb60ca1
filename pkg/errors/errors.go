// Package errors provides custom error types for the deskbridge system.
// These errors enable programmatic error checking across the sync pipeline
// while keeping the messages a user sees verbatim from the remote services.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the deskbridge system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrRemote indicates that a remote service answered with an error status
	ErrRemote = errors.New("remote error")

	// ErrServiceUnavailable indicates that a remote service failed with a 5xx status
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrTransport indicates a network or IO level failure
	ErrTransport = errors.New("transport error")

	// ErrMissingConfig indicates that a required configuration value is absent
	ErrMissingConfig = errors.New("missing configuration")
)

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// RemoteError represents an error status returned by a remote API.
// The raw response body is kept verbatim so the user sees exactly what the
// service answered.
type RemoteError struct {
	Service    string // "github", "freshdesk"
	Operation  string // "fetch", "create", "update"
	StatusCode int
	Body       string
	Endpoint   string
}

// Error implements the error interface
func (e *RemoteError) Error() string {
	if e.Operation != "" {
		return fmt.Sprintf("%s %s error: %d body=%s", e.Service, e.Operation, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s error: %d body=%s", e.Service, e.StatusCode, e.Body)
}

// Is implements errors.Is support
func (e *RemoteError) Is(target error) bool {
	if target == ErrRemote {
		return true
	}
	if e.StatusCode >= 500 {
		return target == ErrServiceUnavailable
	}
	return false
}

// NewRemoteError creates a new RemoteError
func NewRemoteError(service, operation string, statusCode int, body string) *RemoteError {
	return &RemoteError{
		Service:    service,
		Operation:  operation,
		StatusCode: statusCode,
		Body:       body,
	}
}

// TransportError represents a network or IO failure while talking to a remote API
type TransportError struct {
	Method string
	URL    string
	Err    error
}

// Error implements the error interface
func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error during %s %s: %v", e.Method, e.URL, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// NewTransportError creates a new TransportError
func NewTransportError(method, url string, err error) *TransportError {
	return &TransportError{Method: method, URL: url, Err: err}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// NewMissingEnvError creates a ConfigError for a required environment value.
func NewMissingEnvError(name string) *ConfigError {
	return &ConfigError{
		Component: "env",
		Message:   "missing env: " + name,
		Err:       ErrMissingConfig,
	}
}

// ParseError represents an error when parsing a response or a stored value
type ParseError struct {
	Format  string // "json", "yaml", "dsn"
	Source  string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%s parse error in %s: %s", e.Format, e.Source, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, source, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		Source:  source,
		Message: message,
		Err:     err,
	}
}

// ResourceError represents an error during resource operations
type ResourceError struct {
	Operation string // "open", "upsert", "find", "close"
	Resource  string // "snapshot store", "snapshot"
	ID        string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ResourceError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("failed to %s %s %s: %s", e.Operation, e.Resource, e.ID, e.Message)
	}
	return fmt.Sprintf("failed to %s %s: %s", e.Operation, e.Resource, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ResourceError) Unwrap() error {
	return e.Err
}

// NewResourceError creates a new ResourceError
func NewResourceError(operation, resource, id string, err error) *ResourceError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ResourceError{
		Operation: operation,
		Resource:  resource,
		ID:        id,
		Message:   message,
		Err:       err,
	}
}

// SyncError represents a fatal failure of a single sync run.
// State names the step of the run that failed.
type SyncError struct {
	Login string
	State string
	Err   error
}

// Error implements the error interface
func (e *SyncError) Error() string {
	if e.State != "" {
		return fmt.Sprintf("sync of %s failed while %s: %v", e.Login, e.State, e.Err)
	}
	return fmt.Sprintf("sync of %s failed: %v", e.Login, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *SyncError) Unwrap() error {
	return e.Err
}

// NewSyncError creates a new SyncError
func NewSyncError(login, state string, err error) *SyncError {
	return &SyncError{
		Login: login,
		State: state,
		Err:   err,
	}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsRemote checks if an error carries an error status from a remote API
func IsRemote(err error) bool {
	return errors.Is(err, ErrRemote)
}

// IsTransport checks if an error is a network or IO failure
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}

// IsServiceUnavailable checks if an error is a 5xx from a remote API
func IsServiceUnavailable(err error) bool {
	return errors.Is(err, ErrServiceUnavailable)
}

// Helper wrapping functions for common patterns

// WrapResource wraps an error as a ResourceError
func WrapResource(operation, resource, id string, err error) error {
	if err == nil {
		return nil
	}
	return NewResourceError(operation, resource, id, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, source string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, source, err.Error(), err)
}

// WrapTransport wraps an error as a TransportError
func WrapTransport(method, url string, err error) error {
	if err == nil {
		return nil
	}
	return NewTransportError(method, url, err)
}
