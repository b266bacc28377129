package openapi

// Parameter describes a single operation parameter
type Parameter struct {
	Name          string  `yaml:"name" json:"name"`
	In            string  `yaml:"in" json:"in"`
	Description   string  `yaml:"description,omitempty" json:"description,omitempty"`
	Required      bool    `yaml:"required,omitempty" json:"required,omitempty"`
	Deprecated    bool    `yaml:"deprecated,omitempty" json:"deprecated,omitempty"`
	Style         string  `yaml:"style,omitempty" json:"style,omitempty"`
	Explode       *bool   `yaml:"explode,omitempty" json:"explode,omitempty"`
	AllowReserved bool    `yaml:"allowReserved,omitempty" json:"allowReserved,omitempty"`
	Schema        *Schema `yaml:"schema,omitempty" json:"schema,omitempty"`
	Example       any     `yaml:"example,omitempty" json:"example,omitempty"`

	// Extra captures specification extensions (fields starting with "x-")
	Extra map[string]any `yaml:",inline" json:"-"`
}

// ParameterKey identifies a parameter within an operation: name and location.
type ParameterKey struct {
	Name string
	In   string
}

// Key returns the identity of the parameter within an operation.
func (p *Parameter) Key() ParameterKey {
	return ParameterKey{Name: p.Name, In: p.In}
}

// RequestBody describes a single request body
type RequestBody struct {
	Description string                `yaml:"description,omitempty" json:"description,omitempty"`
	Content     map[string]*MediaType `yaml:"content" json:"content"`
	Required    bool                  `yaml:"required,omitempty" json:"required,omitempty"`

	// Extra captures specification extensions (fields starting with "x-")
	Extra map[string]any `yaml:",inline" json:"-"`
}
