package schema

import (
	"encoding/json"
	"slices"

	"github.com/erraggy/oascapture/openapi"
)

// Entry is a named component schema observed for one Go type.
//
// An entry is created on first observation of its type and afterwards only
// gains examples.
type Entry struct {
	// ID is the identity of the Go type
	ID TypeID
	// Schema is the canonical schema, with late-bound references
	Schema *openapi.Schema
	// BaseName is the component name before disambiguation
	BaseName string
	// Examples are JSON values in observation order, without duplicates
	Examples []any

	keys map[string]struct{}
}

// NewEntry creates an entry for id.
func NewEntry(id TypeID, s *openapi.Schema, baseName string) *Entry {
	return &Entry{ID: id, Schema: s, BaseName: baseName}
}

// AddExample appends v unless an example with the same canonical JSON is
// already present. It reports whether v was added.
func (e *Entry) AddExample(v any) bool {
	key, ok := canonicalJSON(v)
	if !ok {
		return false
	}
	if e.keys == nil {
		e.keys = make(map[string]struct{}, len(e.Examples)+1)
		for _, ex := range e.Examples {
			if k, ok := canonicalJSON(ex); ok {
				e.keys[k] = struct{}{}
			}
		}
	}
	if _, dup := e.keys[key]; dup {
		return false
	}
	e.keys[key] = struct{}{}
	e.Examples = append(e.Examples, v)
	return true
}

// AddExampleJSON parses data and adds it as an example. Malformed JSON is
// not added.
func (e *Entry) AddExampleJSON(data []byte) bool {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return false
	}
	return e.AddExample(v)
}

// clone returns a copy of e sharing the read-only schema.
func (e *Entry) clone() *Entry {
	return &Entry{
		ID:       e.ID,
		Schema:   e.Schema,
		BaseName: e.BaseName,
		Examples: slices.Clone(e.Examples),
	}
}

// fingerprint returns the canonical JSON of the entry's schema.
func (e *Entry) fingerprint() string {
	data, err := json.Marshal(e.Schema)
	if err != nil {
		return ""
	}
	return string(data)
}

// canonicalJSON returns the JSON encoding of v with object keys sorted,
// which is what encoding/json produces for decoded values.
func canonicalJSON(v any) (string, bool) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", false
	}
	var normalized any
	if err := json.Unmarshal(data, &normalized); err != nil {
		return "", false
	}
	data, err = json.Marshal(normalized)
	if err != nil {
		return "", false
	}
	return string(data), true
}
