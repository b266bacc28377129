// Package oaserrors provides structured error types for oascapture.
//
// These error types enable programmatic error handling via errors.Is() and
// errors.As(), allowing callers to distinguish between failures of the HTTP
// exchange itself, failures building the request, authentication problems,
// status mismatches and problems consuming or redacting the response.
//
// # Error Categories
//
//   - TransportError: the underlying Doer failed (network, connection)
//   - RequestError: URL, header or body construction failures
//   - ParameterError: a parameter value cannot be expressed at its location
//   - PathUnresolvedError: a path template kept unresolved placeholders
//   - AuthError: credentials are malformed or could not be acquired
//   - UnexpectedStatusError: the response status is outside the expected set
//   - UnsupportedOutputError: the response content does not fit the consumer
//   - JSONError: the response body did not deserialize into the target type
//   - RedactionError: a redaction plan could not be applied
//   - MissingOperationError: a response was recorded for an unknown operation
//   - ConfigError: invalid client or collector configuration
//
// # Usage with errors.Is
//
//	users, err := client.JSON[[]User](resp)
//	if errors.Is(err, oaserrors.ErrResponse) {
//	    var jsonErr *oaserrors.JSONError
//	    if errors.As(err, &jsonErr) {
//	        t.Logf("bad payload at %s: %s", jsonErr.Path, jsonErr.Body)
//	    }
//	}
package oaserrors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrTransport indicates the HTTP transport failed.
	ErrTransport = errors.New("transport error")

	// ErrRequest indicates the request could not be constructed.
	ErrRequest = errors.New("request error")

	// ErrPathUnresolved indicates a path template kept unresolved placeholders.
	ErrPathUnresolved = errors.New("path unresolved")

	// ErrUnsupportedValue indicates a parameter value cannot be serialized at its location.
	ErrUnsupportedValue = errors.New("unsupported parameter value")

	// ErrAuth indicates an authentication failure.
	ErrAuth = errors.New("authentication error")

	// ErrUnexpectedStatus indicates the response status was not expected.
	ErrUnexpectedStatus = errors.New("unexpected status code")

	// ErrResponse indicates the response could not be consumed as requested.
	ErrResponse = errors.New("response error")

	// ErrRedaction indicates a redaction failure.
	ErrRedaction = errors.New("redaction error")

	// ErrInternal indicates a programming error inside the capture pipeline.
	ErrInternal = errors.New("internal error")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")

	// ErrAlreadyExchanged indicates a call was exchanged more than once.
	ErrAlreadyExchanged = errors.New("call already exchanged")

	// ErrAlreadyConsumed indicates a response body was consumed more than once.
	ErrAlreadyConsumed = errors.New("response already consumed")
)

// TransportError wraps a failure of the HTTP transport.
// The cause is the error returned by the Doer, unchanged.
type TransportError struct {
	// Method is the HTTP method of the failed request
	Method string
	// URL is the request URL
	URL string
	// Cause is the error returned by the transport
	Cause error
}

// Error returns a human-readable error message.
func (e *TransportError) Error() string {
	msg := "transport error"
	if e.Method != "" && e.URL != "" {
		msg += " for " + e.Method + " " + e.URL
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *TransportError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// RequestError represents a failure to construct the outgoing request.
// This includes invalid header names and values and body encoding failures.
type RequestError struct {
	// Field identifies the request part that failed (e.g., "header", "body", "url")
	Field string
	// Name is the header, cookie or body name involved (may be empty)
	Name string
	// Message describes the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *RequestError) Error() string {
	msg := "request error"
	if e.Field != "" {
		msg += " in " + e.Field
	}
	if e.Name != "" {
		msg += fmt.Sprintf(" %q", e.Name)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *RequestError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *RequestError) Is(target error) bool {
	return target == ErrRequest
}

// ParameterError reports a parameter value that cannot be expressed at its location,
// for example a nested object in a header or a deepObject path parameter.
type ParameterError struct {
	// Name is the parameter name
	Name string
	// In is the parameter location: "path", "query", "header" or "cookie"
	In string
	// Style is the effective serialization style
	Style string
	// Value is the offending value
	Value any
	// Message describes why the value is not supported
	Message string
}

// Error returns a human-readable error message.
func (e *ParameterError) Error() string {
	msg := "unsupported parameter value"
	if e.Name != "" {
		msg += fmt.Sprintf(" for %s parameter %q", e.In, e.Name)
	}
	if e.Style != "" {
		msg += " (style " + e.Style + ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Value != nil {
		msg += fmt.Sprintf(": %v", e.Value)
	}
	return msg
}

// Is reports whether target matches this error type.
// ParameterError matches both ErrUnsupportedValue and ErrRequest.
func (e *ParameterError) Is(target error) bool {
	return target == ErrUnsupportedValue || target == ErrRequest
}

// PathUnresolvedError reports placeholders left in a path template after all
// arguments were substituted.
type PathUnresolvedError struct {
	// Template is the original path template
	Template string
	// Unresolved lists the placeholder names without a value
	Unresolved []string
}

// Error returns a human-readable error message.
func (e *PathUnresolvedError) Error() string {
	return fmt.Sprintf("path unresolved: %s: missing %s", e.Template, strings.Join(e.Unresolved, ", "))
}

// Is reports whether target matches this error type.
// PathUnresolvedError matches both ErrPathUnresolved and ErrRequest.
func (e *PathUnresolvedError) Is(target error) bool {
	return target == ErrPathUnresolved || target == ErrRequest
}

// AuthError represents an authentication failure: a malformed credential or a
// token that could not be acquired.
type AuthError struct {
	// Scheme is the authentication scheme (e.g., "bearer", "basic", "apiKey", "oauth2")
	Scheme string
	// Message describes the failure. It never contains secret material.
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *AuthError) Error() string {
	msg := "authentication error"
	if e.Scheme != "" {
		msg += " (" + e.Scheme + ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *AuthError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *AuthError) Is(target error) bool {
	return target == ErrAuth
}

// UnexpectedStatusError reports a response whose status code is outside the
// expected set of the call. Body holds at most the first 1024 bytes.
type UnexpectedStatusError struct {
	// Method is the HTTP method of the call
	Method string
	// Path is the path template of the call
	Path string
	// Status is the received status code
	Status int
	// Body is the truncated response body
	Body string
}

// Error returns a human-readable error message.
func (e *UnexpectedStatusError) Error() string {
	msg := fmt.Sprintf("unexpected status code %d", e.Status)
	if e.Method != "" && e.Path != "" {
		msg += " for " + e.Method + " " + e.Path
	}
	if e.Body != "" {
		msg += fmt.Sprintf(": %q", e.Body)
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *UnexpectedStatusError) Is(target error) bool {
	return target == ErrUnexpectedStatus
}

// Output kinds reported by UnsupportedOutputError.
const (
	OutputJSON  = "json"
	OutputText  = "text"
	OutputBytes = "bytes"
	OutputEmpty = "empty"
)

// UnsupportedOutputError reports a response whose content does not match the
// chosen consumption method.
type UnsupportedOutputError struct {
	// Expected is the requested output kind (OutputJSON, OutputText, ...)
	Expected string
	// Status is the response status code
	Status int
	// ContentType is the response content type (may be empty)
	ContentType string
}

// Error returns a human-readable error message.
func (e *UnsupportedOutputError) Error() string {
	ct := e.ContentType
	if ct == "" {
		ct = "no content"
	}
	return fmt.Sprintf("unsupported %s output: status %d with %s", e.Expected, e.Status, ct)
}

// Is reports whether target matches this error type.
func (e *UnsupportedOutputError) Is(target error) bool {
	return target == ErrResponse
}

// JSONError reports a response body that failed to deserialize.
type JSONError struct {
	// Path is the structural path of the failure (e.g., "items[2].id"); empty for syntax errors
	Path string
	// Body is the raw response body
	Body string
	// Cause is the decoder error
	Cause error
}

// Error returns a human-readable error message.
func (e *JSONError) Error() string {
	msg := "json error"
	if e.Path != "" {
		msg += " at " + e.Path
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *JSONError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *JSONError) Is(target error) bool {
	return target == ErrResponse
}

// RedactionError represents a failure applying a redaction plan: an invalid
// path, a path matching nothing when empty matches are not allowed, or a
// value that could not be assigned.
type RedactionError struct {
	// Path is the JSON Pointer or JSONPath expression involved
	Path string
	// Message describes the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *RedactionError) Error() string {
	msg := "redaction error"
	if e.Path != "" {
		msg += " at " + e.Path
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *RedactionError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *RedactionError) Is(target error) bool {
	return target == ErrRedaction
}

// MissingOperationError reports a response recorded against an operation that
// was never registered. It indicates a programming error.
type MissingOperationError struct {
	// OperationID is the operation identifier that was not found
	OperationID string
}

// Error returns a human-readable error message.
func (e *MissingOperationError) Error() string {
	return fmt.Sprintf("internal error: missing operation %q", e.OperationID)
}

// Is reports whether target matches this error type.
func (e *MissingOperationError) Is(target error) bool {
	return target == ErrInternal
}

// ConfigError represents an invalid configuration or input.
// This includes invalid options, missing required inputs, and conflicting settings.
type ConfigError struct {
	// Option is the name of the problematic configuration option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}
