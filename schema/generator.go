package schema

import (
	"encoding"
	"encoding/json"
	"reflect"
	"slices"
	"sync"
	"time"

	"github.com/erraggy/oascapture/openapi"
)

// Namer is implemented by types that choose their own component base name.
type Namer interface {
	SchemaName() string
}

// Provider is implemented by types that supply their own schema.
// A named struct type implementing Provider is still registered as a
// component; any other type's provided schema is inlined.
type Provider interface {
	OpenAPISchema() *openapi.Schema
}

var (
	timeType          = reflect.TypeFor[time.Time]()
	rawMessageType    = reflect.TypeFor[json.RawMessage]()
	namerType         = reflect.TypeFor[Namer]()
	providerType      = reflect.TypeFor[Provider]()
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
)

// Generator reflects Go types into OpenAPI schemas.
//
// A Generator caches the entries of every struct type it has seen and is
// safe for concurrent use.
type Generator struct {
	mu    sync.Mutex
	cache *typeCache
}

// NewGenerator creates a Generator with an empty cache.
func NewGenerator() *Generator {
	return &Generator{cache: newTypeCache()}
}

// For returns the schema to embed at a reference site for t, plus the
// entries of every named type the schema reaches (t itself included when
// t is registered). The entries are shared with the cache and must be
// treated as read-only.
func (g *Generator) For(t reflect.Type) (*openapi.Schema, []*Entry) {
	if t == nil {
		return &openapi.Schema{}, nil
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	s := g.generate(t)
	return s, g.closure(s)
}

// For is a convenience wrapper around [Generator.For] for a static type.
func For[T any](g *Generator) (*openapi.Schema, []*Entry) {
	return g.For(reflect.TypeFor[T]())
}

// closure collects the entries referenced from s, transitively, in
// first-reference order.
func (g *Generator) closure(s *openapi.Schema) []*Entry {
	var out []*Entry
	seen := make(map[reflect.Type]bool)
	var visit func(*openapi.Schema)
	visit = func(s *openapi.Schema) {
		s.Walk(func(node *openapi.Schema) {
			if node.GoType == nil || seen[node.GoType] {
				return
			}
			seen[node.GoType] = true
			if e := g.cache.get(node.GoType); e != nil {
				out = append(out, e)
				visit(e.Schema)
			}
		})
	}
	visit(s)
	return out
}

// generate converts t to a schema, registering named structs in the cache.
func (g *Generator) generate(t reflect.Type) *openapi.Schema {
	// Dereference pointers
	isPointer := false
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
		isPointer = true
	}

	schema := g.generateValue(t)
	if isPointer {
		schema = schema.Nullable()
	}
	return schema
}

func (g *Generator) generateValue(t reflect.Type) *openapi.Schema {
	// Special types are checked before the cache
	if special := specialTypeSchema(t); special != nil {
		return special
	}

	if isRegistered(t) {
		if g.cache.get(t) != nil || g.cache.isInProgress(t) {
			return openapi.RefTo(t)
		}
		g.cache.markInProgress(t)
		defer g.cache.clearInProgress(t)

		var schema *openapi.Schema
		if p, ok := provided(t); ok {
			schema = p
		} else {
			schema = g.generateStructSchema(t)
		}
		g.cache.set(t, &Entry{
			ID:       IDOf(t),
			Schema:   schema,
			BaseName: baseName(t),
		})
		return openapi.RefTo(t)
	}

	if p, ok := provided(t); ok {
		return p
	}

	switch t.Kind() {
	case reflect.Struct:
		// Anonymous structs have no name to register under
		return g.generateStructSchema(t)

	case reflect.Slice, reflect.Array:
		return g.generateArraySchema(t)

	case reflect.Map:
		return g.generateMapSchema(t)

	default:
		return primitiveSchema(t)
	}
}

// isRegistered reports whether t becomes a named component.
// Only named struct types are registered; named scalars, slices and maps
// are inlined like their underlying type.
func isRegistered(t reflect.Type) bool {
	return t.Kind() == reflect.Struct && t.Name() != "" && specialTypeSchema(t) == nil
}

// IsInlined reports whether t is always inlined at reference sites.
func IsInlined(t reflect.Type) bool {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return !isRegistered(t)
}

// specialTypeSchema handles types with a fixed string representation.
func specialTypeSchema(t reflect.Type) *openapi.Schema {
	switch {
	case t == timeType:
		return &openapi.Schema{Type: openapi.TypeString, Format: "date-time"}

	case isUUIDType(t):
		return &openapi.Schema{Type: openapi.TypeString, Format: "uuid"}

	case t == rawMessageType:
		return &openapi.Schema{}

	case t.Kind() != reflect.Struct && implementsEither(t, textMarshalerType):
		return &openapi.Schema{Type: openapi.TypeString}

	case t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8:
		// encoding/json writes byte slices as base64 strings
		return &openapi.Schema{Type: openapi.TypeString, ContentEncoding: "base64"}
	}
	return nil
}

// isUUIDType matches github.com/google/uuid.UUID and look-alikes by name,
// so that any UUID package is recognized without importing it.
func isUUIDType(t reflect.Type) bool {
	if t.Name() != "UUID" {
		return false
	}
	return (t.Kind() == reflect.Array && t.Len() == 16 && t.Elem().Kind() == reflect.Uint8) ||
		t.Kind() == reflect.String
}

func implementsEither(t, iface reflect.Type) bool {
	return t.Implements(iface) || reflect.PointerTo(t).Implements(iface)
}

// provided returns the schema supplied by a Provider implementation.
func provided(t reflect.Type) (*openapi.Schema, bool) {
	if !implementsEither(t, providerType) {
		return nil, false
	}
	p, ok := instance(t, providerType).(Provider)
	if !ok {
		return nil, false
	}
	s := p.OpenAPISchema()
	if s == nil {
		return &openapi.Schema{}, true
	}
	return s.Clone(), true
}

// instance returns a value of t that satisfies iface, addressable when
// the method has a pointer receiver.
func instance(t, iface reflect.Type) any {
	if t.Kind() != reflect.Interface && !t.Implements(iface) {
		return reflect.New(t).Interface()
	}
	return reflect.Zero(t).Interface()
}

// generateStructSchema reflects on a struct type to generate an object schema.
func (g *Generator) generateStructSchema(t reflect.Type) *openapi.Schema {
	properties := make(map[string]*openapi.Schema)
	var required []string

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue // Explicitly excluded
		}
		name, jsonOpts := parseJSONTag(jsonTag)

		// Embedded structs without a json name are flattened, as encoding/json does
		if field.Anonymous && name == "" {
			ft := field.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				embedded := g.embeddedStructSchema(ft)
				for propName, propSchema := range embedded.Properties {
					if _, exists := properties[propName]; !exists {
						properties[propName] = propSchema
					}
				}
				for _, req := range embedded.Required {
					if !slices.Contains(required, req) {
						required = append(required, req)
					}
				}
				continue
			}
		}

		// Skip unexported fields
		if !field.IsExported() {
			continue
		}

		if name == "" {
			name = field.Name
		}

		fieldSchema := g.generate(field.Type)
		if hasOption(jsonOpts, "string") && isStringable(field.Type) {
			fieldSchema = &openapi.Schema{Type: openapi.TypeString}
		}

		if oasTag := field.Tag.Get("oas"); oasTag != "" {
			fieldSchema = applyOASTag(fieldSchema, oasTag)
		}

		properties[name] = fieldSchema

		if isFieldRequired(field, jsonOpts) {
			required = append(required, name)
		}
	}

	return &openapi.Schema{
		Type:       openapi.TypeObject,
		Properties: properties,
		Required:   required,
	}
}

// embeddedStructSchema returns the object schema of an embedded struct,
// generating it inline even when the type is registered elsewhere.
func (g *Generator) embeddedStructSchema(t reflect.Type) *openapi.Schema {
	if e := g.cache.get(t); e != nil {
		return e.Schema
	}
	if g.cache.isInProgress(t) {
		return &openapi.Schema{}
	}
	return g.generateStructSchema(t)
}

// generateArraySchema generates a schema for slice/array types.
func (g *Generator) generateArraySchema(t reflect.Type) *openapi.Schema {
	return &openapi.Schema{
		Type:  openapi.TypeArray,
		Items: g.generate(t.Elem()),
	}
}

// generateMapSchema generates a schema for map types.
func (g *Generator) generateMapSchema(t reflect.Type) *openapi.Schema {
	return &openapi.Schema{
		Type:                 openapi.TypeObject,
		AdditionalProperties: g.generate(t.Elem()),
	}
}

// primitiveSchema generates a schema for primitive kinds.
func primitiveSchema(t reflect.Type) *openapi.Schema {
	switch t.Kind() {
	case reflect.String:
		return &openapi.Schema{Type: openapi.TypeString}

	case reflect.Int, reflect.Int64, reflect.Uint, reflect.Uint32, reflect.Uint64:
		return &openapi.Schema{Type: openapi.TypeInteger, Format: "int64"}

	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Uint8, reflect.Uint16:
		return &openapi.Schema{Type: openapi.TypeInteger, Format: "int32"}

	case reflect.Float32:
		return &openapi.Schema{Type: openapi.TypeNumber, Format: "float"}

	case reflect.Float64:
		return &openapi.Schema{Type: openapi.TypeNumber, Format: "double"}

	case reflect.Bool:
		return &openapi.Schema{Type: openapi.TypeBoolean}

	default:
		// any, channels and funcs accept anything
		return &openapi.Schema{}
	}
}

// isStringable reports whether the json ",string" option applies to t.
func isStringable(t reflect.Type) bool {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64, reflect.String:
		return true
	}
	return false
}

// typeCache holds the entries of registered types and tracks types whose
// generation is in progress to terminate recursion.
type typeCache struct {
	byType     map[reflect.Type]*Entry
	inProgress map[reflect.Type]bool
}

func newTypeCache() *typeCache {
	return &typeCache{
		byType:     make(map[reflect.Type]*Entry),
		inProgress: make(map[reflect.Type]bool),
	}
}

func (c *typeCache) get(t reflect.Type) *Entry {
	return c.byType[t]
}

func (c *typeCache) set(t reflect.Type, e *Entry) {
	c.byType[t] = e
}

func (c *typeCache) isInProgress(t reflect.Type) bool {
	return c.inProgress[t]
}

func (c *typeCache) markInProgress(t reflect.Type) {
	c.inProgress[t] = true
}

func (c *typeCache) clearInProgress(t reflect.Type) {
	delete(c.inProgress, t)
}
