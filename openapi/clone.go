package openapi

import (
	"maps"
	"slices"
)

// Clone returns a deep copy of the document. Example values and extensions
// are copied as JSON values; GoType pointers are shared, as types are immutable.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	cp := &Document{
		OpenAPI:      d.OpenAPI,
		Info:         d.Info.Clone(),
		Servers:      cloneSlice(d.Servers, (*Server).Clone),
		Paths:        d.Paths.Clone(),
		Components:   d.Components.Clone(),
		Security:     cloneSecurity(d.Security),
		Tags:         cloneSlice(d.Tags, (*Tag).Clone),
		ExternalDocs: d.ExternalDocs.Clone(),
		Extra:        deepCopyExtensions(d.Extra),
	}
	return cp
}

// Clone returns a copy of the info object.
func (i *Info) Clone() *Info {
	if i == nil {
		return nil
	}
	cp := *i
	if i.Contact != nil {
		c := *i.Contact
		cp.Contact = &c
	}
	if i.License != nil {
		l := *i.License
		cp.License = &l
	}
	return &cp
}

// Clone returns a copy of the server.
func (s *Server) Clone() *Server {
	if s == nil {
		return nil
	}
	cp := *s
	return &cp
}

// Clone returns a copy of the tag.
func (t *Tag) Clone() *Tag {
	if t == nil {
		return nil
	}
	cp := *t
	cp.ExternalDocs = t.ExternalDocs.Clone()
	return &cp
}

// Clone returns a copy of the external documentation object.
func (e *ExternalDocs) Clone() *ExternalDocs {
	if e == nil {
		return nil
	}
	cp := *e
	return &cp
}

// Clone returns a deep copy of the components.
func (c *Components) Clone() *Components {
	if c == nil {
		return nil
	}
	return &Components{
		Schemas:         cloneMap(c.Schemas, (*Schema).Clone),
		Responses:       cloneMap(c.Responses, (*Response).Clone),
		SecuritySchemes: cloneMap(c.SecuritySchemes, (*SecurityScheme).Clone),
	}
}

// Clone returns a deep copy of the paths, keeping their order.
func (p *Paths) Clone() *Paths {
	if p == nil {
		return nil
	}
	cp := NewPaths()
	for k, item := range p.All() {
		cp.Set(k, item.Clone())
	}
	return cp
}

// Clone returns a deep copy of the path item.
func (p *PathItem) Clone() *PathItem {
	if p == nil {
		return nil
	}
	cp := &PathItem{
		Summary:     p.Summary,
		Description: p.Description,
		Parameters:  cloneSlice(p.Parameters, (*Parameter).Clone),
		Extra:       deepCopyExtensions(p.Extra),
	}
	for _, m := range Methods {
		cp.SetOperation(m, p.Operation(m).Clone())
	}
	return cp
}

// Clone returns a deep copy of the operation.
func (o *Operation) Clone() *Operation {
	if o == nil {
		return nil
	}
	return &Operation{
		Tags:         slices.Clone(o.Tags),
		Summary:      o.Summary,
		Description:  o.Description,
		ExternalDocs: o.ExternalDocs.Clone(),
		OperationID:  o.OperationID,
		Parameters:   cloneSlice(o.Parameters, (*Parameter).Clone),
		RequestBody:  o.RequestBody.Clone(),
		Responses:    o.Responses.Clone(),
		Deprecated:   o.Deprecated,
		Security:     cloneSecurity(o.Security),
		Servers:      cloneSlice(o.Servers, (*Server).Clone),
		Extra:        deepCopyExtensions(o.Extra),
	}
}

// Clone returns a deep copy of the parameter.
func (p *Parameter) Clone() *Parameter {
	if p == nil {
		return nil
	}
	cp := *p
	if p.Explode != nil {
		e := *p.Explode
		cp.Explode = &e
	}
	cp.Schema = p.Schema.Clone()
	cp.Example = deepCopyJSONValue(p.Example)
	cp.Extra = deepCopyExtensions(p.Extra)
	return &cp
}

// Clone returns a deep copy of the request body.
func (rb *RequestBody) Clone() *RequestBody {
	if rb == nil {
		return nil
	}
	return &RequestBody{
		Description: rb.Description,
		Content:     cloneMap(rb.Content, (*MediaType).Clone),
		Required:    rb.Required,
		Extra:       deepCopyExtensions(rb.Extra),
	}
}

// Clone returns a deep copy of the responses.
func (r *Responses) Clone() *Responses {
	if r == nil {
		return nil
	}
	return &Responses{
		Default: r.Default.Clone(),
		Codes:   cloneMap(r.Codes, (*Response).Clone),
	}
}

// Clone returns a deep copy of the response.
func (r *Response) Clone() *Response {
	if r == nil {
		return nil
	}
	return &Response{
		Description: r.Description,
		Headers:     cloneMap(r.Headers, (*Header).Clone),
		Content:     cloneMap(r.Content, (*MediaType).Clone),
		Extra:       deepCopyExtensions(r.Extra),
	}
}

// Clone returns a deep copy of the media type.
func (mt *MediaType) Clone() *MediaType {
	if mt == nil {
		return nil
	}
	return &MediaType{
		Schema:   mt.Schema.Clone(),
		Example:  deepCopyJSONValue(mt.Example),
		Examples: cloneMap(mt.Examples, (*Example).Clone),
		Extra:    deepCopyExtensions(mt.Extra),
	}
}

// Clone returns a deep copy of the example.
func (e *Example) Clone() *Example {
	if e == nil {
		return nil
	}
	cp := *e
	cp.Value = deepCopyJSONValue(e.Value)
	return &cp
}

// Clone returns a deep copy of the header.
func (h *Header) Clone() *Header {
	if h == nil {
		return nil
	}
	cp := *h
	cp.Schema = h.Schema.Clone()
	cp.Example = deepCopyJSONValue(h.Example)
	return &cp
}

// Clone returns a deep copy of the schema.
func (s *Schema) Clone() *Schema {
	if s == nil {
		return nil
	}
	cp := *s
	cp.Type = deepCopySchemaType(s.Type)
	cp.Enum = deepCopySlice(s.Enum)
	cp.Const = deepCopyJSONValue(s.Const)
	cp.Default = deepCopyJSONValue(s.Default)
	cp.Examples = deepCopySlice(s.Examples)
	cp.Minimum = clonePtr(s.Minimum)
	cp.Maximum = clonePtr(s.Maximum)
	cp.ExclusiveMinimum = clonePtr(s.ExclusiveMinimum)
	cp.ExclusiveMaximum = clonePtr(s.ExclusiveMaximum)
	cp.MultipleOf = clonePtr(s.MultipleOf)
	cp.MinLength = clonePtr(s.MinLength)
	cp.MaxLength = clonePtr(s.MaxLength)
	cp.MinItems = clonePtr(s.MinItems)
	cp.MaxItems = clonePtr(s.MaxItems)
	cp.Items = s.Items.Clone()
	cp.Properties = cloneMap(s.Properties, (*Schema).Clone)
	cp.Required = slices.Clone(s.Required)
	cp.AdditionalProperties = s.AdditionalProperties.Clone()
	cp.AllOf = cloneSlice(s.AllOf, (*Schema).Clone)
	cp.AnyOf = cloneSlice(s.AnyOf, (*Schema).Clone)
	cp.OneOf = cloneSlice(s.OneOf, (*Schema).Clone)
	cp.Extra = deepCopyExtensions(s.Extra)
	return &cp
}

// Clone returns a deep copy of the security scheme.
func (ss *SecurityScheme) Clone() *SecurityScheme {
	if ss == nil {
		return nil
	}
	cp := *ss
	if ss.Flows != nil {
		cp.Flows = &OAuthFlows{
			Implicit:          ss.Flows.Implicit.Clone(),
			Password:          ss.Flows.Password.Clone(),
			ClientCredentials: ss.Flows.ClientCredentials.Clone(),
			AuthorizationCode: ss.Flows.AuthorizationCode.Clone(),
		}
	}
	cp.Extra = deepCopyExtensions(ss.Extra)
	return &cp
}

// Clone returns a deep copy of the flow.
func (f *OAuthFlow) Clone() *OAuthFlow {
	if f == nil {
		return nil
	}
	cp := *f
	cp.Scopes = maps.Clone(f.Scopes)
	return &cp
}

// Clone returns a deep copy of the requirement.
func (sr SecurityRequirement) Clone() SecurityRequirement {
	if sr == nil {
		return nil
	}
	cp := make(SecurityRequirement, len(sr))
	for k, scopes := range sr {
		cp[k] = slices.Clone(scopes)
		if cp[k] == nil {
			cp[k] = []string{}
		}
	}
	return cp
}

func cloneSecurity(v []SecurityRequirement) []SecurityRequirement {
	if v == nil {
		return nil
	}
	cp := make([]SecurityRequirement, len(v))
	for i, req := range v {
		cp[i] = req.Clone()
		if cp[i] == nil {
			cp[i] = SecurityRequirement{}
		}
	}
	return cp
}

func cloneSlice[T any](v []*T, clone func(*T) *T) []*T {
	if v == nil {
		return nil
	}
	cp := make([]*T, len(v))
	for i, item := range v {
		cp[i] = clone(item)
	}
	return cp
}

func cloneMap[T any](v map[string]*T, clone func(*T) *T) map[string]*T {
	if v == nil {
		return nil
	}
	cp := make(map[string]*T, len(v))
	for k, item := range v {
		cp[k] = clone(item)
	}
	return cp
}

func clonePtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	cp := *v
	return &cp
}

// deepCopySchemaType copies a type keyword, which is a string or a slice.
func deepCopySchemaType(v any) any {
	switch t := v.(type) {
	case []string:
		return slices.Clone(t)
	case []any:
		return deepCopySlice(t)
	}
	return v
}

func deepCopySlice(v []any) []any {
	if v == nil {
		return nil
	}
	cp := make([]any, len(v))
	for i, item := range v {
		cp[i] = deepCopyJSONValue(item)
	}
	return cp
}

// DeepCopyJSONValue copies a decoded JSON value (maps, slices and scalars).
func DeepCopyJSONValue(v any) any {
	return deepCopyJSONValue(v)
}

func deepCopyJSONValue(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		return deepCopySlice(t)
	case map[string]any:
		cp := make(map[string]any, len(t))
		for k, item := range t {
			cp[k] = deepCopyJSONValue(item)
		}
		return cp
	default:
		// Scalars copy by value; anything else is shared.
		return v
	}
}

func deepCopyExtensions(v map[string]any) map[string]any {
	if v == nil {
		return nil
	}
	cp := make(map[string]any, len(v))
	for k, item := range v {
		cp[k] = deepCopyJSONValue(item)
	}
	return cp
}
