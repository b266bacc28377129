package schema

import (
	"reflect"
	"strings"
)

// TypeID identifies a Go type. Two TypeIDs are equal exactly when they
// wrap the same reflect.Type.
type TypeID struct {
	t reflect.Type
}

// IDOf returns the identity of t.
func IDOf(t reflect.Type) TypeID {
	return TypeID{t: t}
}

// IDFor returns the identity of T.
func IDFor[T any]() TypeID {
	return TypeID{t: reflect.TypeFor[T]()}
}

// Type returns the wrapped type.
func (id TypeID) Type() reflect.Type {
	return id.t
}

// IsZero reports whether id wraps no type.
func (id TypeID) IsZero() bool {
	return id.t == nil
}

// Path returns the qualified type path, "pkgpath.Name" for named types
// and the type literal otherwise.
func (id TypeID) Path() string {
	if id.t == nil {
		return ""
	}
	if id.t.Name() != "" && id.t.PkgPath() != "" {
		return id.t.PkgPath() + "." + id.t.Name()
	}
	return id.t.String()
}

// String implements fmt.Stringer.
func (id TypeID) String() string {
	return id.Path()
}

// segments returns the package path segments of id, without empty and
// filtered segments. A trailing "_test" package suffix is trimmed.
func (id TypeID) segments() []string {
	if id.t == nil {
		return nil
	}
	pkg := strings.TrimSuffix(id.t.PkgPath(), "_test")
	var out []string
	for _, seg := range strings.Split(pkg, "/") {
		if seg == "" || filteredSegments[seg] {
			continue
		}
		out = append(out, seg)
	}
	return out
}

// filteredSegments never contribute to disambiguated names.
var filteredSegments = map[string]bool{
	"tests":    true,
	"test":     true,
	"_test":    true,
	"testing":  true,
	"internal": true,
	"private":  true,
}
