package client

import (
	"bytes"
	"context"
	"errors"
	"io"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/erraggy/oascapture"
	"github.com/erraggy/oascapture/collector"
	"github.com/erraggy/oascapture/internal/httputil"
	"github.com/erraggy/oascapture/internal/naming"
	"github.com/erraggy/oascapture/oaserrors"
	"github.com/erraggy/oascapture/openapi"
	"github.com/erraggy/oascapture/param"
	"github.com/erraggy/oascapture/security"
)

// maxDiagnosticBody bounds the body bytes kept in an
// *oaserrors.UnexpectedStatusError.
const maxDiagnosticBody = 1024

// Call is one request under construction. Its methods record parameters,
// a body and documentation, and return the Call for chaining. Invalid
// input is collected and reported by Exchange, which can run once.
//
//	resp, err := c.Get("/users/{id}").
//	    PathParam("id", 42).
//	    Query("fields", param.Styled([]string{"id", "email"}, param.StylePipeDelimited)).
//	    Exchange(ctx)
//	user, err := client.JSON[User](resp)
type Call struct {
	client   *Client
	method   string
	template param.Template

	params param.Set
	body   *body
	auth   security.Credential

	operationID         string
	summary             string
	description         string
	tags                []string
	responseDescription string
	deprecated          bool
	extensions          map[string]any

	statuses    StatusSet
	hasStatuses bool
	security    []security.Requirement
	hasSecurity bool
	skip        bool

	errs      []error
	exchanged atomic.Bool
}

func newCall(c *Client, method, path string) *Call {
	call := &Call{client: c, method: method, template: param.ParseTemplate(path)}
	if method == "" {
		call.errs = append(call.errs, &oaserrors.RequestError{Field: "method", Message: "method is empty"})
	}
	if !strings.HasPrefix(path, "/") {
		call.errs = append(call.errs, &oaserrors.RequestError{Field: "url", Name: path, Message: "path must start with '/'"})
	}
	return call
}

func (c *Call) addParam(name string, loc param.Location, v any) *Call {
	r, err := param.Resolve(name, loc, param.ValueOf(v), c.client.generator)
	if err != nil {
		c.errs = append(c.errs, err)
		return c
	}
	c.params.Add(r)
	return c
}

// PathParam fills the {name} placeholder of the path template. v may be a
// param.Value to choose a style.
func (c *Call) PathParam(name string, v any) *Call {
	return c.addParam(name, param.Path, v)
}

// Query adds a query parameter. v may be a param.Value to choose a style.
func (c *Call) Query(name string, v any) *Call {
	return c.addParam(name, param.Query, v)
}

// Header adds a header parameter.
func (c *Call) Header(name string, v any) *Call {
	if !httputil.IsValidHeaderName(name) {
		c.errs = append(c.errs, &oaserrors.RequestError{Field: "header", Name: name, Message: "invalid header name"})
		return c
	}
	return c.addParam(name, param.Header, v)
}

// Cookie adds a cookie parameter.
func (c *Call) Cookie(name string, v any) *Call {
	return c.addParam(name, param.Cookie, v)
}

func (c *Call) setBody(b *body, err error) *Call {
	if err != nil {
		c.errs = append(c.errs, err)
		return c
	}
	if c.body != nil {
		c.errs = append(c.errs, &oaserrors.RequestError{Field: "body", Message: "body set twice"})
		return c
	}
	c.body = b
	return c
}

// JSON sends v as application/json. The body schema references the
// component of v's type, and v becomes an example of it.
func (c *Call) JSON(v any) *Call {
	return c.setBody(jsonBody(c.client.generator, v))
}

// Form sends values as application/x-www-form-urlencoded.
func (c *Call) Form(values url.Values) *Call {
	return c.setBody(formBody(values), nil)
}

// Multipart sends m as multipart/form-data.
func (c *Call) Multipart(m *Multipart) *Call {
	if m == nil {
		return c.setBody(nil, &oaserrors.RequestError{Field: "body", Message: "multipart body is nil"})
	}
	return c.setBody(m.encode())
}

// Text sends text as text/plain.
func (c *Call) Text(text string) *Call {
	return c.setBody(textBody(text), nil)
}

// Bytes sends data as application/octet-stream.
func (c *Call) Bytes(data []byte) *Call {
	return c.setBody(binaryBody(data), nil)
}

// RawBody sends data with an arbitrary content type. The document records
// the content type without a schema.
func (c *Call) RawBody(contentType string, data []byte) *Call {
	return c.setBody(rawBody(contentType, data))
}

// Auth overrides the client credential for this call.
func (c *Call) Auth(cred security.Credential) *Call {
	if cred == nil {
		c.errs = append(c.errs, &oaserrors.RequestError{Field: "auth", Message: "credential is nil"})
		return c
	}
	c.auth = cred
	return c
}

// OperationID overrides the derived operation id.
func (c *Call) OperationID(id string) *Call {
	c.operationID = id
	return c
}

// Summary sets the operation summary.
func (c *Call) Summary(s string) *Call {
	c.summary = s
	return c
}

// Description sets the operation description. Without one, a description
// is derived from the method and path.
func (c *Call) Description(d string) *Call {
	c.description = d
	return c
}

// Tags sets the operation tags. Without tags, they are derived from the
// path.
func (c *Call) Tags(tags ...string) *Call {
	c.tags = append(c.tags, tags...)
	return c
}

// ResponseDescription sets the description of the recorded response. The
// default is the status reason phrase.
func (c *Call) ResponseDescription(d string) *Call {
	c.responseDescription = d
	return c
}

// Deprecated marks the operation deprecated.
func (c *Call) Deprecated() *Call {
	c.deprecated = true
	return c
}

// Extension adds a specification extension to the operation. The name
// must start with "x-".
func (c *Call) Extension(name string, v any) *Call {
	if !strings.HasPrefix(name, "x-") {
		c.errs = append(c.errs, &oaserrors.RequestError{Field: "extension", Name: name, Message: "extension names must start with \"x-\""})
		return c
	}
	if c.extensions == nil {
		c.extensions = make(map[string]any)
	}
	c.extensions[name] = v
	return c
}

// Expect sets the expected status codes, replacing [DefaultStatuses].
// Repeated calls widen the set.
func (c *Call) Expect(s StatusSet) *Call {
	if c.hasStatuses {
		c.statuses = c.statuses.Union(s)
	} else {
		c.statuses, c.hasStatuses = s, true
	}
	return c
}

// ExpectStatus expects exactly the given codes.
func (c *Call) ExpectStatus(codes ...int) *Call {
	return c.Expect(Statuses(codes...))
}

// ExpectStandard expects exactly the given standard statuses.
func (c *Call) ExpectStandard(statuses ...Status) *Call {
	return c.Expect(Expected(statuses...))
}

// Security replaces the default security requirements for this operation.
// Each requirement is an alternative.
func (c *Call) Security(reqs ...security.Requirement) *Call {
	c.security = append(c.security, reqs...)
	c.hasSecurity = true
	return c
}

// NoSecurity documents the operation as public, overriding the default
// requirements.
func (c *Call) NoSecurity() *Call {
	c.security = []security.Requirement{security.NoSecurity}
	c.hasSecurity = true
	return c
}

// SkipCollection sends the request without recording anything.
func (c *Call) SkipCollection() *Call {
	c.skip = true
	return c
}

// Exchange sends the request. A status outside the expected set fails
// with an *oaserrors.UnexpectedStatusError and records nothing. Otherwise
// the operation is recorded and the returned Response must be consumed to
// record its contract.
func (c *Call) Exchange(ctx context.Context) (*Response, error) {
	if !c.exchanged.CompareAndSwap(false, true) {
		return nil, oaserrors.ErrAlreadyExchanged
	}
	if err := errors.Join(c.errs...); err != nil {
		return nil, err
	}
	statuses := DefaultStatuses()
	if c.hasStatuses {
		statuses = c.statuses
	}
	if err := statuses.Validate(); err != nil {
		return nil, err
	}

	req, err := c.buildRequest(ctx)
	if err != nil {
		return nil, err
	}

	logger := c.client.logger
	resp, err := c.client.doer.Do(req)
	if err != nil {
		return nil, &oaserrors.TransportError{Method: c.method, URL: req.URL.String(), Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &oaserrors.TransportError{Method: c.method, URL: req.URL.String(), Cause: err}
	}
	logger.Debug("exchange completed", "method", c.method, "path", c.template.String(), "status", resp.StatusCode)

	if !statuses.Contains(resp.StatusCode) {
		return nil, &oaserrors.UnexpectedStatusError{
			Method: c.method,
			Path:   c.template.String(),
			Status: resp.StatusCode,
			Body:   truncate(data, maxDiagnosticBody),
		}
	}

	r := newResponse(c, resp, data)
	if !c.skip {
		c.register(r)
	}
	return r, nil
}

func (c *Call) buildRequest(ctx context.Context) (*http.Request, error) {
	args, err := c.params.PathArgs()
	if err != nil {
		return nil, err
	}
	path, err := c.template.Resolve(args, c.client.logger)
	if err != nil {
		return nil, err
	}

	rawURL := c.client.baseURL + path
	if q := param.EncodeQuery(c.params.QueryPairs()); q != "" {
		rawURL += "?" + q
	}

	var reader io.Reader
	if c.body != nil {
		reader = bytes.NewReader(c.body.data)
	}
	req, err := http.NewRequestWithContext(ctx, c.method, rawURL, reader)
	if err != nil {
		return nil, &oaserrors.RequestError{Field: "url", Name: rawURL, Message: "cannot build request", Cause: err}
	}

	for name, values := range c.client.headers {
		req.Header[name] = slices.Clone(values)
	}
	req.Header.Set("User-Agent", oascapture.UserAgent())
	for _, h := range c.params.Header {
		v := h.HeaderValue()
		if !httputil.IsValidHeaderValue(v) {
			return nil, &oaserrors.RequestError{Field: "header", Name: h.Name, Message: "invalid header value"}
		}
		req.Header.Add(h.Name, v)
	}
	if c.body != nil {
		req.Header.Set("Content-Type", c.body.contentType)
	}
	if len(c.params.Cookie) > 0 {
		req.Header.Set("Cookie", param.CookieHeader(c.params.Cookie))
	}

	auth := c.auth
	if auth == nil {
		auth = c.client.auth
	}
	if auth != nil {
		if err := auth.Apply(ctx, req); err != nil {
			return nil, err
		}
	}
	return req, nil
}

// register posts the schemas and the operation of the call, schemas
// first.
func (c *Call) register(r *Response) {
	col := c.client.collector

	op := &openapi.Operation{
		OperationID: r.operationID,
		Summary:     c.summary,
		Description: c.description,
		Tags:        slices.Clone(c.tags),
		Parameters:  c.params.Parameters(),
		Deprecated:  c.deprecated,
		Extra:       maps.Clone(c.extensions),
	}
	if op.Description == "" || len(op.Tags) == 0 {
		desc, tags := naming.Describe(c.method, c.template.String())
		if op.Description == "" {
			op.Description = desc
		}
		if len(op.Tags) == 0 {
			op.Tags = tags
		}
	}
	if c.hasSecurity {
		op.Security = security.Project(c.security)
	}

	for _, e := range c.params.Entries() {
		col.Post(collector.AddSchemaEntry{Entry: e})
	}
	if c.body != nil {
		for _, e := range c.body.entries {
			col.Post(collector.AddSchemaEntry{Entry: e})
		}
		if !c.body.typeID.IsZero() {
			col.Post(collector.AddExample{ID: c.body.typeID, JSON: c.body.data})
		}
		op.RequestBody = c.body.requestBody()
	}

	col.Post(collector.RegisterOperation{Operation: collector.CalledOperation{
		CallID:           r.callID,
		OperationID:      r.operationID,
		Method:           c.method,
		Path:             c.template.String(),
		Operation:        op,
		SecurityOverride: c.hasSecurity,
	}})
	r.registered = true
}

// resolvedOperationID returns the explicit id or the slug of method and path.
func (c *Call) resolvedOperationID() string {
	if c.operationID != "" {
		return c.operationID
	}
	return naming.Slugify(c.method + " " + c.template.String())
}
