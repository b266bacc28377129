package openapi

// Walk calls fn for s and every schema nested in it, depth first.
// Walking stops at nil schemas; references are not followed.
func (s *Schema) Walk(fn func(*Schema)) {
	if s == nil {
		return
	}
	fn(s)
	s.Items.Walk(fn)
	s.AdditionalProperties.Walk(fn)
	for _, k := range sortedKeys(s.Properties) {
		s.Properties[k].Walk(fn)
	}
	for _, group := range [][]*Schema{s.AllOf, s.AnyOf, s.OneOf} {
		for _, sub := range group {
			sub.Walk(fn)
		}
	}
}

// WalkSchemas calls fn for every schema in the operation: parameters,
// request body content and response content and headers.
func (o *Operation) WalkSchemas(fn func(*Schema)) {
	if o == nil {
		return
	}
	for _, p := range o.Parameters {
		p.Schema.Walk(fn)
	}
	if o.RequestBody != nil {
		walkContent(o.RequestBody.Content, fn)
	}
	if o.Responses != nil {
		walkResponse(o.Responses.Default, fn)
		for _, code := range sortedKeys(o.Responses.Codes) {
			walkResponse(o.Responses.Codes[code], fn)
		}
	}
}

// WalkSchemas calls fn for every schema reachable from the document:
// path items, operations and components.
func (d *Document) WalkSchemas(fn func(*Schema)) {
	if d == nil {
		return
	}
	for _, item := range d.Paths.All() {
		if item == nil {
			continue
		}
		for _, p := range item.Parameters {
			p.Schema.Walk(fn)
		}
		for _, m := range Methods {
			item.Operation(m).WalkSchemas(fn)
		}
	}
	if d.Components == nil {
		return
	}
	for _, name := range sortedKeys(d.Components.Schemas) {
		d.Components.Schemas[name].Walk(fn)
	}
	for _, name := range sortedKeys(d.Components.Responses) {
		walkResponse(d.Components.Responses[name], fn)
	}
}

func walkResponse(r *Response, fn func(*Schema)) {
	if r == nil {
		return
	}
	for _, name := range sortedKeys(r.Headers) {
		if h := r.Headers[name]; h != nil {
			h.Schema.Walk(fn)
		}
	}
	walkContent(r.Content, fn)
}

func walkContent(content map[string]*MediaType, fn func(*Schema)) {
	for _, ct := range sortedKeys(content) {
		if mt := content[ct]; mt != nil {
			mt.Schema.Walk(fn)
		}
	}
}
