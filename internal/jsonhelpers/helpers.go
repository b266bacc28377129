// Package jsonhelpers provides helpers for the custom JSON marshalers of the
// openapi object model, which flatten specification extensions (x-* fields)
// into the surrounding object.
package jsonhelpers

import (
	"encoding/json"
	"maps"
	"strings"
)

// MarshalWithExtras marshals a base map while merging in extension fields.
//
//	func (s *Schema) MarshalJSON() ([]byte, error) {
//	    m := map[string]any{}
//	    jsonhelpers.SetIfNotEmpty(m, "format", s.Format)
//	    return jsonhelpers.MarshalWithExtras(m, s.Extra)
//	}
func MarshalWithExtras(base map[string]any, extras map[string]any) ([]byte, error) {
	maps.Copy(base, extras)
	return json.Marshal(base)
}

// IsExtension reports whether key names a specification extension.
func IsExtension(key string) bool {
	return strings.HasPrefix(key, "x-")
}

// ExtractExtensions extracts the x-* fields of a JSON object.
// Returns nil if there are none or if data is not an object.
func ExtractExtensions(data []byte) map[string]any {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil
	}

	var extra map[string]any
	for k, v := range m {
		if IsExtension(k) {
			if extra == nil {
				extra = make(map[string]any)
			}
			extra[k] = v
		}
	}
	return extra
}

// SetIfNotEmpty sets a field in the map only if the value is not empty.
func SetIfNotEmpty(m map[string]any, key string, value string) {
	if value != "" {
		m[key] = value
	}
}

// SetIfNotNil sets a field in the map only if the value is not nil.
func SetIfNotNil(m map[string]any, key string, value any) {
	if value != nil {
		m[key] = value
	}
}

// SetIfTrue sets a boolean field in the map only if the value is true.
func SetIfTrue(m map[string]any, key string, value bool) {
	if value {
		m[key] = value
	}
}

// SetIfSliceNotEmpty sets a slice field in the map only if the slice has length > 0.
func SetIfSliceNotEmpty[T any](m map[string]any, key string, value []T) {
	if len(value) > 0 {
		m[key] = value
	}
}

// SetIfMapNotEmpty sets a map field in the map only if the map has length > 0.
func SetIfMapNotEmpty[K comparable, V any](m map[string]any, key string, value map[K]V) {
	if len(value) > 0 {
		m[key] = value
	}
}

// SetPtr sets a field in the map only if the pointer is not nil.
// A typed nil pointer stored as any is not nil, so pointers need their own helper.
func SetPtr[T any](m map[string]any, key string, value *T) {
	if value != nil {
		m[key] = value
	}
}
