package openapi

import (
	"reflect"
	"slices"
)

// JSON Schema type names.
const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeInteger = "integer"
	TypeBoolean = "boolean"
	TypeArray   = "array"
	TypeObject  = "object"
	TypeNull    = "null"
)

// Schema is the subset of the JSON Schema 2020-12 vocabulary that oascapture
// emits. Type is either a string or a []string (for nullable types).
type Schema struct {
	Ref         string `yaml:"$ref,omitempty" json:"$ref,omitempty"`
	Title       string `yaml:"title,omitempty" json:"title,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	Type   any    `yaml:"type,omitempty" json:"type,omitempty"`
	Format string `yaml:"format,omitempty" json:"format,omitempty"`

	Enum     []any `yaml:"enum,omitempty" json:"enum,omitempty"`
	Const    any   `yaml:"const,omitempty" json:"const,omitempty"`
	Default  any   `yaml:"default,omitempty" json:"default,omitempty"`
	Examples []any `yaml:"examples,omitempty" json:"examples,omitempty"`

	Deprecated bool `yaml:"deprecated,omitempty" json:"deprecated,omitempty"`
	ReadOnly   bool `yaml:"readOnly,omitempty" json:"readOnly,omitempty"`
	WriteOnly  bool `yaml:"writeOnly,omitempty" json:"writeOnly,omitempty"`

	// Numeric validation
	Minimum          *float64 `yaml:"minimum,omitempty" json:"minimum,omitempty"`
	Maximum          *float64 `yaml:"maximum,omitempty" json:"maximum,omitempty"`
	ExclusiveMinimum *float64 `yaml:"exclusiveMinimum,omitempty" json:"exclusiveMinimum,omitempty"`
	ExclusiveMaximum *float64 `yaml:"exclusiveMaximum,omitempty" json:"exclusiveMaximum,omitempty"`
	MultipleOf       *float64 `yaml:"multipleOf,omitempty" json:"multipleOf,omitempty"`

	// String validation
	MinLength        *int   `yaml:"minLength,omitempty" json:"minLength,omitempty"`
	MaxLength        *int   `yaml:"maxLength,omitempty" json:"maxLength,omitempty"`
	Pattern          string `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	ContentEncoding  string `yaml:"contentEncoding,omitempty" json:"contentEncoding,omitempty"`
	ContentMediaType string `yaml:"contentMediaType,omitempty" json:"contentMediaType,omitempty"`

	// Array
	Items       *Schema `yaml:"items,omitempty" json:"items,omitempty"`
	MinItems    *int    `yaml:"minItems,omitempty" json:"minItems,omitempty"`
	MaxItems    *int    `yaml:"maxItems,omitempty" json:"maxItems,omitempty"`
	UniqueItems bool    `yaml:"uniqueItems,omitempty" json:"uniqueItems,omitempty"`

	// Object
	Properties           map[string]*Schema `yaml:"properties,omitempty" json:"properties,omitempty"`
	Required             []string           `yaml:"required,omitempty" json:"required,omitempty"`
	AdditionalProperties *Schema            `yaml:"additionalProperties,omitempty" json:"additionalProperties,omitempty"`

	// Composition
	AllOf []*Schema `yaml:"allOf,omitempty" json:"allOf,omitempty"`
	AnyOf []*Schema `yaml:"anyOf,omitempty" json:"anyOf,omitempty"`
	OneOf []*Schema `yaml:"oneOf,omitempty" json:"oneOf,omitempty"`

	// GoType is the registered Go type this schema refers to. It is set on
	// reference schemas whose component name is only known once every type
	// has been observed, and is never serialized.
	GoType reflect.Type `yaml:"-" json:"-"`

	// Extra captures specification extensions (fields starting with "x-")
	Extra map[string]any `yaml:",inline" json:"-"`
}

// RefTo returns an unresolved reference schema for a registered Go type.
func RefTo(t reflect.Type) *Schema {
	return &Schema{GoType: t}
}

// IsRef reports whether s is a reference, resolved or not.
func (s *Schema) IsRef() bool {
	return s != nil && (s.Ref != "" || s.GoType != nil)
}

// Types returns the schema's type keyword as a slice.
func (s *Schema) Types() []string {
	if s == nil {
		return nil
	}
	switch t := s.Type.(type) {
	case string:
		if t == "" {
			return nil
		}
		return []string{t}
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, v := range t {
			if str, ok := v.(string); ok {
				out = append(out, str)
			}
		}
		return out
	}
	return nil
}

// HasType reports whether the schema's type keyword includes typ.
func (s *Schema) HasType(typ string) bool {
	return slices.Contains(s.Types(), typ)
}

// Nullable returns a copy of s whose type also admits null.
//
// A reference cannot carry sibling type keywords, so a nullable reference
// becomes anyOf [ref, {type: null}].
func (s *Schema) Nullable() *Schema {
	if s == nil {
		return nil
	}
	if s.IsRef() {
		return &Schema{AnyOf: []*Schema{s, {Type: TypeNull}}}
	}
	types := s.Types()
	if len(types) == 0 || slices.Contains(types, TypeNull) {
		return s
	}
	cp := s.Clone()
	cp.Type = append(slices.Clone(types), TypeNull)
	return cp
}

// AddExample appends v to the schema's examples unless an equal example is
// already present.
func (s *Schema) AddExample(v any) {
	for _, e := range s.Examples {
		if reflect.DeepEqual(e, v) {
			return
		}
	}
	s.Examples = append(s.Examples, v)
}
