package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"slices"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/erraggy/oascapture/collector"
	"github.com/erraggy/oascapture/internal/httputil"
	"github.com/erraggy/oascapture/oaserrors"
	"github.com/erraggy/oascapture/openapi"
	"github.com/erraggy/oascapture/schema"
)

// bodyKind classifies a response body.
type bodyKind int

const (
	kindEmpty bodyKind = iota
	kindJSON
	kindText
	kindBytes
	kindOther
)

// Response is a received response with an expected status. Its body was
// read in full by Exchange.
//
// A Response must be consumed by exactly one of Empty, Text, Bytes, Raw,
// [JSON], [OptionalJSON], [ResultJSON], [ResultOptionalJSON], [RedactJSON]
// or [RedactOptionalJSON]. Consuming records the response contract. A
// response that is never consumed leaves its operation in the document
// without that response, and nothing reports it.
type Response struct {
	collector *collector.Collector
	generator *schema.Generator

	callID      uuid.UUID
	operationID string
	description string
	skip        bool
	registered  bool

	status      int
	header      http.Header
	contentType string
	body        []byte
	kind        bodyKind

	consumed atomic.Bool
}

func newResponse(c *Call, resp *http.Response, data []byte) *Response {
	r := &Response{
		collector:   c.client.collector,
		generator:   c.client.generator,
		callID:      uuid.New(),
		operationID: c.resolvedOperationID(),
		description: c.responseDescription,
		skip:        c.skip,
		status:      resp.StatusCode,
		header:      resp.Header.Clone(),
		contentType: resp.Header.Get("Content-Type"),
		body:        data,
	}
	r.kind = classify(r.status, r.contentType, data)
	return r
}

// classify maps a response to its body kind: 204 and bodies without
// content type or bytes are empty, the rest is decided by media type.
func classify(status int, contentType string, body []byte) bodyKind {
	if status == http.StatusNoContent || (contentType == "" && len(body) == 0) {
		return kindEmpty
	}
	mt := httputil.NormalizeMediaType(contentType)
	switch {
	case httputil.IsJSON(mt):
		return kindJSON
	case httputil.IsBinary(mt):
		return kindBytes
	case httputil.IsText(mt):
		return kindText
	default:
		return kindOther
	}
}

// Status returns the status code.
func (r *Response) Status() int { return r.status }

// Header returns the response headers.
func (r *Response) Header() http.Header { return r.header }

// ContentType returns the Content-Type header as received.
func (r *Response) ContentType() string { return r.contentType }

// begin marks r consumed. A response consumes once, and only after its
// operation was registered.
func (r *Response) begin() error {
	if !r.consumed.CompareAndSwap(false, true) {
		return oaserrors.ErrAlreadyConsumed
	}
	if !r.skip && !r.registered {
		return &oaserrors.MissingOperationError{OperationID: r.operationID}
	}
	return nil
}

func (r *Response) unsupported(expected string) error {
	return &oaserrors.UnsupportedOutputError{Expected: expected, Status: r.status, ContentType: r.contentType}
}

func (r *Response) jsonError(err error) error {
	je := &oaserrors.JSONError{Body: string(r.body), Cause: err}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		je.Path = typeErr.Field
	}
	return je
}

// record posts the response with an optional schema and example. Schema
// entries are posted first.
func (r *Response) record(withContent bool, s *openapi.Schema, entries []*schema.Entry, example []byte) {
	if r.skip {
		return
	}
	for _, e := range entries {
		r.collector.Post(collector.AddSchemaEntry{Entry: e})
	}
	msg := collector.RegisterResponse{
		OperationID: r.operationID,
		CallID:      r.callID,
		Status:      r.status,
		Schema:      s,
		Description: r.description,
	}
	if withContent {
		msg.ContentType = r.contentType
	}
	if example == nil {
		r.collector.Post(msg)
		return
	}
	r.collector.Post(collector.RegisterResponseWithExample{RegisterResponse: msg, Example: example})
}

// recordJSON records the body schema of t with example as the content
// example, and as a component example when t is a component.
func (r *Response) recordJSON(t reflect.Type, example []byte, extra ...[]*schema.Entry) {
	if r.skip {
		return
	}
	s, entries := r.generator.For(t)
	for _, more := range extra {
		entries = append(entries, more...)
	}
	r.record(true, s, entries, example)
	if id, ok := componentID(t, entries); ok {
		r.collector.Post(collector.AddExample{ID: id, JSON: example})
	}
}

// entriesFor returns the schema entries reached by t.
func (r *Response) entriesFor(t reflect.Type) []*schema.Entry {
	_, entries := r.generator.For(t)
	return entries
}

// componentID returns the identity of t when t (or what it points to) is
// one of the registered entries.
func componentID(t reflect.Type, entries []*schema.Entry) (schema.TypeID, bool) {
	id := schema.IDOf(derefType(t))
	ok := slices.ContainsFunc(entries, func(e *schema.Entry) bool { return e.ID == id })
	return id, ok
}

// isAbsent reports whether an optional body is missing: 204 or 404.
func (r *Response) isAbsent() bool {
	return r.status == http.StatusNoContent || r.status == http.StatusNotFound
}

// recordAbsent records a 204 or 404 without a schema.
func (r *Response) recordAbsent(entries ...[]*schema.Entry) {
	var all []*schema.Entry
	for _, e := range entries {
		all = append(all, e...)
	}
	r.record(r.kind != kindEmpty, nil, all, nil)
}

// Empty requires a response without content.
func (r *Response) Empty() error {
	if err := r.begin(); err != nil {
		return err
	}
	if r.kind != kindEmpty {
		return r.unsupported(oaserrors.OutputEmpty)
	}
	r.record(false, nil, nil, nil)
	return nil
}

// Text requires a text/* response and returns its body.
func (r *Response) Text() (string, error) {
	if err := r.begin(); err != nil {
		return "", err
	}
	if r.kind != kindText {
		return "", r.unsupported(oaserrors.OutputText)
	}
	r.record(true, nil, nil, nil)
	return string(r.body), nil
}

// Bytes requires an application/octet-stream response and returns its
// body.
func (r *Response) Bytes() ([]byte, error) {
	if err := r.begin(); err != nil {
		return nil, err
	}
	if r.kind != kindBytes {
		return nil, r.unsupported(oaserrors.OutputBytes)
	}
	r.record(true, nil, nil, nil)
	return r.body, nil
}

// RawResponse is an uninterpreted response.
type RawResponse struct {
	Status      int
	ContentType string
	Header      http.Header
	Body        []byte
}

// Raw accepts any response. The content type is recorded without a
// schema.
func (r *Response) Raw() (*RawResponse, error) {
	if err := r.begin(); err != nil {
		return nil, err
	}
	r.record(r.kind != kindEmpty, nil, nil, nil)
	return &RawResponse{Status: r.status, ContentType: r.contentType, Header: r.header, Body: r.body}, nil
}

func decode[T any](r *Response) (T, error) {
	var v T
	if err := json.Unmarshal(r.body, &v); err != nil {
		return v, r.jsonError(err)
	}
	return v, nil
}

// JSON requires a JSON response and decodes it into T. The response
// schema references T, and the body becomes an example of it.
func JSON[T any](r *Response) (T, error) {
	var zero T
	if err := r.begin(); err != nil {
		return zero, err
	}
	if r.kind != kindJSON {
		return zero, r.unsupported(oaserrors.OutputJSON)
	}
	v, err := decode[T](r)
	if err != nil {
		return zero, err
	}
	r.recordJSON(reflect.TypeFor[T](), r.body)
	return v, nil
}

// OptionalJSON is JSON for endpoints that may answer 204 or 404 without a
// value, in which case it returns nil and records no schema.
func OptionalJSON[T any](r *Response) (*T, error) {
	if err := r.begin(); err != nil {
		return nil, err
	}
	if r.isAbsent() {
		r.recordAbsent()
		return nil, nil
	}
	if r.kind != kindJSON {
		return nil, r.unsupported(oaserrors.OutputJSON)
	}
	v, err := decode[T](r)
	if err != nil {
		return nil, err
	}
	r.recordJSON(reflect.TypeFor[T](), r.body)
	return &v, nil
}

// ErrorResponse is the error returned by ResultJSON and ResultOptionalJSON
// for a non-2xx status. Body is the decoded error payload.
type ErrorResponse[E any] struct {
	Status int
	Body   E
}

// Error implements the error interface.
func (e *ErrorResponse[E]) Error() string {
	return fmt.Sprintf("error response with status %d", e.Status)
}

// ResultJSON decodes a 2xx response into T and any other status into E,
// returned as an *ErrorResponse[E]. Both types are registered; the
// response schema is the one of the branch taken.
func ResultJSON[T, E any](r *Response) (T, error) {
	var zero T
	if err := r.begin(); err != nil {
		return zero, err
	}
	return resultJSON[T, E](r)
}

func resultJSON[T, E any](r *Response) (T, error) {
	var zero T
	if r.kind != kindJSON {
		return zero, r.unsupported(oaserrors.OutputJSON)
	}
	okType, errType := reflect.TypeFor[T](), reflect.TypeFor[E]()
	if httputil.IsSuccess(r.status) {
		v, err := decode[T](r)
		if err != nil {
			return zero, err
		}
		r.recordJSON(okType, r.body, r.entriesFor(errType))
		return v, nil
	}
	e, err := decode[E](r)
	if err != nil {
		return zero, err
	}
	r.recordJSON(errType, r.body, r.entriesFor(okType))
	return zero, &ErrorResponse[E]{Status: r.status, Body: e}
}

// ResultOptionalJSON is ResultJSON where 204 and 404 yield nil without
// an error.
func ResultOptionalJSON[T, E any](r *Response) (*T, error) {
	if err := r.begin(); err != nil {
		return nil, err
	}
	if r.isAbsent() {
		if !r.skip {
			r.recordAbsent(r.entriesFor(reflect.TypeFor[T]()), r.entriesFor(reflect.TypeFor[E]()))
		}
		return nil, nil
	}
	v, err := resultJSON[T, E](r)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
