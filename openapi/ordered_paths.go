package openapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"
	"slices"

	"go.yaml.in/yaml/v4"
)

// Paths holds the relative paths to the individual endpoints, in the order
// they were first added. Both the JSON and YAML encodings keep that order.
type Paths struct {
	keys  []string
	items map[string]*PathItem
}

// NewPaths returns an empty Paths.
func NewPaths() *Paths {
	return &Paths{items: make(map[string]*PathItem)}
}

// Set stores item under path. A new path is appended; an existing path keeps
// its position.
func (p *Paths) Set(path string, item *PathItem) {
	if p.items == nil {
		p.items = make(map[string]*PathItem)
	}
	if _, ok := p.items[path]; !ok {
		p.keys = append(p.keys, path)
	}
	p.items[path] = item
}

// Get returns the item stored under path, or nil.
func (p *Paths) Get(path string) *PathItem {
	if p == nil {
		return nil
	}
	return p.items[path]
}

// Delete removes path.
func (p *Paths) Delete(path string) {
	if p == nil {
		return
	}
	if _, ok := p.items[path]; !ok {
		return
	}
	delete(p.items, path)
	p.keys = slices.DeleteFunc(p.keys, func(k string) bool { return k == path })
}

// Keys returns the paths in insertion order.
func (p *Paths) Keys() []string {
	if p == nil {
		return nil
	}
	return slices.Clone(p.keys)
}

// Len returns the number of paths.
func (p *Paths) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// All iterates over the paths in insertion order.
func (p *Paths) All() iter.Seq2[string, *PathItem] {
	return func(yield func(string, *PathItem) bool) {
		if p == nil {
			return
		}
		for _, k := range p.keys {
			if !yield(k, p.items[k]) {
				return
			}
		}
	}
}

// IsZero reports whether there are no paths.
func (p *Paths) IsZero() bool {
	return p.Len() == 0
}

// MarshalJSON writes the paths as a JSON object in insertion order.
func (p *Paths) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range p.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(p.items[k])
		if err != nil {
			return nil, fmt.Errorf("path %s: %w", k, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object of path items, keeping the source order.
func (p *Paths) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("paths: expected object, got %v", tok)
	}
	*p = Paths{items: make(map[string]*PathItem)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("paths: expected key, got %v", tok)
		}
		var item PathItem
		if err := dec.Decode(&item); err != nil {
			return fmt.Errorf("path %s: %w", key, err)
		}
		p.Set(key, &item)
	}
	_, err = dec.Token()
	return err
}

// MarshalYAML returns a mapping node whose keys follow insertion order.
func (p *Paths) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range p.keys {
		var val yaml.Node
		if err := val.Encode(p.items[k]); err != nil {
			return nil, fmt.Errorf("path %s: %w", k, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			&val,
		)
	}
	return node, nil
}

// UnmarshalYAML reads a mapping node of path items, keeping the source order.
func (p *Paths) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("paths: expected mapping at line %d", node.Line)
	}
	*p = Paths{items: make(map[string]*PathItem)}
	for i := 0; i+1 < len(node.Content); i += 2 {
		var item PathItem
		if err := node.Content[i+1].Decode(&item); err != nil {
			return fmt.Errorf("path %s: %w", node.Content[i].Value, err)
		}
		p.Set(node.Content[i].Value, &item)
	}
	return nil
}

var (
	_ json.Marshaler   = (*Paths)(nil)
	_ json.Unmarshaler = (*Paths)(nil)
	_ yaml.Marshaler   = (*Paths)(nil)
	_ yaml.Unmarshaler = (*Paths)(nil)
)
