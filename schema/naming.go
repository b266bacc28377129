package schema

import (
	"fmt"
	"hash/fnv"
	"reflect"
	"strings"
)

// baseName returns the component base name of a registered type.
// Namer implementations win; generic instantiations such as
// Page[example.com/api.User] become Page_User.
func baseName(t reflect.Type) string {
	if implementsEither(t, namerType) {
		if n, ok := instance(t, namerType).(Namer); ok {
			if name := sanitizeSchemaName(n.SchemaName()); name != "" {
				return name
			}
		}
	}

	name := t.Name()
	base := extractBaseTypeName(name)
	params := extractGenericParams(name)
	if len(params) == 0 {
		return sanitizeSchemaName(base)
	}
	parts := []string{base}
	for _, p := range params {
		parts = append(parts, shortTypeName(p))
	}
	return sanitizeSchemaName(strings.Join(parts, "_"))
}

// extractBaseTypeName extracts the base type name from a generic type.
// For example, "Response[User]" returns "Response".
func extractBaseTypeName(name string) string {
	if idx := strings.Index(name, "["); idx != -1 {
		return name[:idx]
	}
	return name
}

// extractGenericParams extracts type parameters from a generic type name.
// It handles nested generics by counting bracket depth.
func extractGenericParams(name string) []string {
	start := strings.Index(name, "[")
	end := strings.LastIndex(name, "]")
	if start == -1 || end == -1 || end <= start {
		return nil
	}

	var params []string
	var current strings.Builder
	depth := 0

	for _, r := range name[start+1 : end] {
		switch r {
		case '[':
			depth++
			current.WriteRune(r)
		case ']':
			depth--
			current.WriteRune(r)
		case ',':
			if depth == 0 {
				params = append(params, strings.TrimSpace(current.String()))
				current.Reset()
			} else {
				current.WriteRune(r)
			}
		default:
			current.WriteRune(r)
		}
	}

	if current.Len() > 0 {
		params = append(params, strings.TrimSpace(current.String()))
	}

	return params
}

// shortTypeName strips package paths from a type parameter, keeping
// nested generic arguments: "example.com/api.Page[example.com/api.User]"
// becomes "Page_User".
func shortTypeName(param string) string {
	base := extractBaseTypeName(param)
	base = strings.TrimLeft(base, "*[]")
	if idx := strings.LastIndex(base, "/"); idx != -1 {
		base = base[idx+1:]
	}
	if idx := strings.LastIndex(base, "."); idx != -1 {
		base = base[idx+1:]
	}
	nested := extractGenericParams(param)
	if len(nested) == 0 {
		return base
	}
	parts := []string{base}
	for _, p := range nested {
		parts = append(parts, shortTypeName(p))
	}
	return strings.Join(parts, "_")
}

// sanitizeSchemaName replaces characters that are not valid in component
// names (letters, digits, '.', '-', '_').
func sanitizeSchemaName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	name = b.String()
	for strings.Contains(name, "__") {
		name = strings.ReplaceAll(name, "__", "_")
	}
	return strings.Trim(name, "_")
}

// hashSuffix returns the disambiguating suffix for e: FNV-1a 64 over the
// qualified type path and the schema fingerprint, masked to 16 bits.
func hashSuffix(e *Entry) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(e.ID.Path()))
	_, _ = h.Write([]byte(e.fingerprint()))
	return fmt.Sprintf("%04x", h.Sum64()&0xFFFF)
}

// parentName forms "<parent>_<base>" from the nearest remaining package
// segment, or returns false when no segment remains.
func parentName(e *Entry) (string, bool) {
	segs := e.ID.segments()
	if len(segs) == 0 {
		return "", false
	}
	return sanitizeSchemaName(segs[len(segs)-1]) + "_" + e.BaseName, true
}
