package openapi

import (
	"encoding/json"
	"fmt"
	"maps"

	"github.com/erraggy/oascapture/internal/httputil"
	"github.com/erraggy/oascapture/internal/jsonhelpers"
)

// Go's encoding/json has no equivalent of yaml:",inline" for maps, so every
// type carrying Extra flattens its extensions through a custom marshaler.
// Types without extensions take the fast path through an alias type.

// marshalExtended marshals v (an alias without methods) and merges the x-*
// entries of extra into the resulting object.
func marshalExtended(v any, extra map[string]any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil || len(extra) == 0 {
		return data, err
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	for k, e := range extra {
		if !jsonhelpers.IsExtension(k) {
			continue
		}
		raw, err := json.Marshal(e)
		if err != nil {
			return nil, fmt.Errorf("extension %s: %w", k, err)
		}
		m[k] = raw
	}
	return json.Marshal(m)
}

// MarshalJSON implements custom JSON marshaling for Document.
func (d *Document) MarshalJSON() ([]byte, error) {
	type Alias Document
	return marshalExtended((*Alias)(d), d.Extra)
}

// UnmarshalJSON implements custom JSON unmarshaling for Document.
func (d *Document) UnmarshalJSON(data []byte) error {
	type Alias Document
	if err := json.Unmarshal(data, (*Alias)(d)); err != nil {
		return err
	}
	d.Extra = jsonhelpers.ExtractExtensions(data)
	return nil
}

// MarshalJSON implements custom JSON marshaling for Schema.
func (s *Schema) MarshalJSON() ([]byte, error) {
	type Alias Schema
	return marshalExtended((*Alias)(s), s.Extra)
}

// UnmarshalJSON implements custom JSON unmarshaling for Schema.
func (s *Schema) UnmarshalJSON(data []byte) error {
	type Alias Schema
	if err := json.Unmarshal(data, (*Alias)(s)); err != nil {
		return err
	}
	s.Extra = jsonhelpers.ExtractExtensions(data)
	return nil
}

// MarshalJSON implements custom JSON marshaling for PathItem.
func (p *PathItem) MarshalJSON() ([]byte, error) {
	type Alias PathItem
	return marshalExtended((*Alias)(p), p.Extra)
}

// UnmarshalJSON implements custom JSON unmarshaling for PathItem.
func (p *PathItem) UnmarshalJSON(data []byte) error {
	type Alias PathItem
	if err := json.Unmarshal(data, (*Alias)(p)); err != nil {
		return err
	}
	p.Extra = jsonhelpers.ExtractExtensions(data)
	return nil
}

// MarshalJSON implements custom JSON marshaling for Operation.
func (o *Operation) MarshalJSON() ([]byte, error) {
	if len(o.Extra) == 0 {
		type Alias Operation
		return json.Marshal((*Alias)(o))
	}

	m := map[string]any{
		"responses": o.Responses, // Required field, always include
	}
	jsonhelpers.SetIfSliceNotEmpty(m, "tags", o.Tags)
	jsonhelpers.SetIfNotEmpty(m, "summary", o.Summary)
	jsonhelpers.SetIfNotEmpty(m, "description", o.Description)
	jsonhelpers.SetPtr(m, "externalDocs", o.ExternalDocs)
	jsonhelpers.SetIfNotEmpty(m, "operationId", o.OperationID)
	jsonhelpers.SetIfSliceNotEmpty(m, "parameters", o.Parameters)
	jsonhelpers.SetPtr(m, "requestBody", o.RequestBody)
	jsonhelpers.SetIfTrue(m, "deprecated", o.Deprecated)
	jsonhelpers.SetIfSliceNotEmpty(m, "security", o.Security)
	jsonhelpers.SetIfSliceNotEmpty(m, "servers", o.Servers)
	return jsonhelpers.MarshalWithExtras(m, o.Extra)
}

// UnmarshalJSON implements custom JSON unmarshaling for Operation.
func (o *Operation) UnmarshalJSON(data []byte) error {
	type Alias Operation
	if err := json.Unmarshal(data, (*Alias)(o)); err != nil {
		return err
	}
	o.Extra = jsonhelpers.ExtractExtensions(data)
	return nil
}

// MarshalJSON implements custom JSON marshaling for Parameter.
func (p *Parameter) MarshalJSON() ([]byte, error) {
	if len(p.Extra) == 0 {
		type Alias Parameter
		return json.Marshal((*Alias)(p))
	}

	m := map[string]any{
		"name": p.Name,
		"in":   p.In,
	}
	jsonhelpers.SetIfNotEmpty(m, "description", p.Description)
	jsonhelpers.SetIfTrue(m, "required", p.Required)
	jsonhelpers.SetIfTrue(m, "deprecated", p.Deprecated)
	jsonhelpers.SetIfNotEmpty(m, "style", p.Style)
	jsonhelpers.SetPtr(m, "explode", p.Explode)
	jsonhelpers.SetIfTrue(m, "allowReserved", p.AllowReserved)
	jsonhelpers.SetPtr(m, "schema", p.Schema)
	jsonhelpers.SetIfNotNil(m, "example", p.Example)
	return jsonhelpers.MarshalWithExtras(m, p.Extra)
}

// UnmarshalJSON implements custom JSON unmarshaling for Parameter.
func (p *Parameter) UnmarshalJSON(data []byte) error {
	type Alias Parameter
	if err := json.Unmarshal(data, (*Alias)(p)); err != nil {
		return err
	}
	p.Extra = jsonhelpers.ExtractExtensions(data)
	return nil
}

// MarshalJSON implements custom JSON marshaling for RequestBody.
func (rb *RequestBody) MarshalJSON() ([]byte, error) {
	type Alias RequestBody
	return marshalExtended((*Alias)(rb), rb.Extra)
}

// UnmarshalJSON implements custom JSON unmarshaling for RequestBody.
func (rb *RequestBody) UnmarshalJSON(data []byte) error {
	type Alias RequestBody
	if err := json.Unmarshal(data, (*Alias)(rb)); err != nil {
		return err
	}
	rb.Extra = jsonhelpers.ExtractExtensions(data)
	return nil
}

// MarshalJSON implements custom JSON marshaling for Response.
func (r *Response) MarshalJSON() ([]byte, error) {
	if len(r.Extra) == 0 {
		type Alias Response
		return json.Marshal((*Alias)(r))
	}

	m := map[string]any{
		"description": r.Description,
	}
	jsonhelpers.SetIfMapNotEmpty(m, "headers", r.Headers)
	jsonhelpers.SetIfMapNotEmpty(m, "content", r.Content)
	return jsonhelpers.MarshalWithExtras(m, r.Extra)
}

// UnmarshalJSON implements custom JSON unmarshaling for Response.
func (r *Response) UnmarshalJSON(data []byte) error {
	type Alias Response
	if err := json.Unmarshal(data, (*Alias)(r)); err != nil {
		return err
	}
	r.Extra = jsonhelpers.ExtractExtensions(data)
	return nil
}

// MarshalJSON implements custom JSON marshaling for MediaType.
func (mt *MediaType) MarshalJSON() ([]byte, error) {
	type Alias MediaType
	return marshalExtended((*Alias)(mt), mt.Extra)
}

// UnmarshalJSON implements custom JSON unmarshaling for MediaType.
func (mt *MediaType) UnmarshalJSON(data []byte) error {
	type Alias MediaType
	if err := json.Unmarshal(data, (*Alias)(mt)); err != nil {
		return err
	}
	mt.Extra = jsonhelpers.ExtractExtensions(data)
	return nil
}

// MarshalJSON implements custom JSON marshaling for SecurityScheme.
func (ss *SecurityScheme) MarshalJSON() ([]byte, error) {
	type Alias SecurityScheme
	return marshalExtended((*Alias)(ss), ss.Extra)
}

// UnmarshalJSON implements custom JSON unmarshaling for SecurityScheme.
func (ss *SecurityScheme) UnmarshalJSON(data []byte) error {
	type Alias SecurityScheme
	if err := json.Unmarshal(data, (*Alias)(ss)); err != nil {
		return err
	}
	ss.Extra = jsonhelpers.ExtractExtensions(data)
	return nil
}

// MarshalJSON writes the scopes map even when empty, as the field is required.
func (f *OAuthFlow) MarshalJSON() ([]byte, error) {
	type Alias OAuthFlow
	a := *(*Alias)(f)
	if a.Scopes == nil {
		a.Scopes = map[string]string{}
	}
	return json.Marshal(a)
}

// MarshalYAML writes the scopes map even when empty, as the field is required.
func (f *OAuthFlow) MarshalYAML() (any, error) {
	type Alias OAuthFlow
	a := *(*Alias)(f)
	if a.Scopes == nil {
		a.Scopes = map[string]string{}
	}
	return a, nil
}

// MarshalJSON writes an empty scope list instead of null.
func (sr SecurityRequirement) MarshalJSON() ([]byte, error) {
	m := make(map[string][]string, len(sr))
	for name, scopes := range sr {
		if scopes == nil {
			scopes = []string{}
		}
		m[name] = scopes
	}
	return json.Marshal(m)
}

// MarshalJSON implements custom JSON marshaling for Responses.
// Status codes are flattened next to "default".
func (r *Responses) MarshalJSON() ([]byte, error) {
	m := make(map[string]*Response, len(r.Codes)+1)
	maps.Copy(m, r.Codes)
	if r.Default != nil {
		m["default"] = r.Default
	}
	return json.Marshal(m)
}

// UnmarshalJSON implements custom JSON unmarshaling for Responses.
func (r *Responses) UnmarshalJSON(data []byte) error {
	var m map[string]*Response
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	r.Default = m["default"]
	delete(m, "default")
	for code := range m {
		if !httputil.ValidateStatusCode(code) {
			return fmt.Errorf("invalid status code %q in responses", code)
		}
	}
	r.Codes = m
	return nil
}
