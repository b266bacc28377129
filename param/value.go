package param

import (
	"bytes"
	"encoding"
	"encoding/json"
	"fmt"
	"reflect"
	"slices"

	"github.com/spf13/cast"

	"github.com/erraggy/oascapture/oaserrors"
	"github.com/erraggy/oascapture/openapi"
	"github.com/erraggy/oascapture/schema"
)

// Value is a parameter value with its serialization style.
type Value struct {
	V     any
	Style Style
}

// Styled pairs v with a non-default style.
func Styled(v any, style Style) Value {
	return Value{V: v, Style: style}
}

// ValueOf wraps v with the default style. A Value is returned unchanged.
func ValueOf(v any) Value {
	if pv, ok := v.(Value); ok {
		return pv
	}
	return Value{V: v}
}

// Kind is the shape of a resolved parameter value.
type Kind int

const (
	// KindScalar is a single string, number or boolean
	KindScalar Kind = iota
	// KindArray is a list of scalars
	KindArray
	// KindObject is an ordered set of key/scalar pairs
	KindObject
)

// Pair is one key/value of an object parameter or of a query string.
type Pair struct {
	Key   string
	Value string
}

// Resolved is a parameter value serialized for one location.
type Resolved struct {
	Name  string
	In    Location
	Style Style
	Kind  Kind

	Scalar string
	Array  []string
	Object []Pair

	// Schema is the parameter schema, with late-bound references
	Schema *openapi.Schema
	// Entries are the named schemas the parameter schema reaches
	Entries []*schema.Entry
	// Example is the value as decoded JSON
	Example any
}

// Resolve serializes v for loc. gen may be nil, in which case the schema
// is left empty.
func Resolve(name string, loc Location, v Value, gen *schema.Generator) (*Resolved, error) {
	style := v.Style.For(loc)
	if !slices.Contains(allowedStyles[loc], style) {
		return nil, &oaserrors.ParameterError{
			Name:    name,
			In:      string(loc),
			Style:   style.String(),
			Value:   v.V,
			Message: fmt.Sprintf("style is not supported in %s", loc),
		}
	}

	r := &Resolved{Name: name, In: loc, Style: style}
	fail := func(msg string) error {
		return &oaserrors.ParameterError{
			Name:    name,
			In:      string(loc),
			Style:   style.String(),
			Value:   v.V,
			Message: msg,
		}
	}

	rv := reflect.ValueOf(v.V)
	for rv.IsValid() && rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			break
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() || (rv.Kind() == reflect.Pointer && rv.IsNil()) {
		return nil, fail("value is nil")
	}

	switch {
	case isScalar(rv):
		s, err := scalarString(rv)
		if err != nil {
			return nil, fail(err.Error())
		}
		r.Kind = KindScalar
		r.Scalar = s

	case rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array:
		r.Kind = KindArray
		r.Array = make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			elem := rv.Index(i)
			for elem.Kind() == reflect.Pointer || elem.Kind() == reflect.Interface {
				if elem.IsNil() {
					return nil, fail("array elements must not be nil")
				}
				elem = elem.Elem()
			}
			if !isScalar(elem) {
				return nil, fail("array elements must be scalars")
			}
			s, err := scalarString(elem)
			if err != nil {
				return nil, fail(err.Error())
			}
			r.Array = append(r.Array, s)
		}

	case rv.Kind() == reflect.Map || rv.Kind() == reflect.Struct:
		if style != StyleDeepObject {
			if loc == Query {
				return nil, fail("object values require the deepObject style")
			}
			return nil, fail(fmt.Sprintf("object values are not supported in %s", loc))
		}
		pairs, err := objectPairs(rv.Interface())
		if err != nil {
			return nil, fail(err.Error())
		}
		r.Kind = KindObject
		r.Object = pairs

	default:
		return nil, fail(fmt.Sprintf("unsupported kind %s", rv.Kind()))
	}

	if r.Kind != KindObject && style == StyleDeepObject {
		return nil, fail("deepObject style requires an object value")
	}

	if gen != nil {
		r.Schema, r.Entries = gen.For(reflect.TypeOf(v.V))
	} else {
		r.Schema = &openapi.Schema{}
	}
	r.Example = exampleOf(v.V)
	return r, nil
}

var textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()

// isScalar reports whether v renders as a single string.
func isScalar(v reflect.Value) bool {
	if v.Type().Implements(textMarshalerType) {
		return true
	}
	if v.Kind() == reflect.Slice && v.Type().Elem().Kind() == reflect.Uint8 {
		return true
	}
	switch v.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// scalarString renders a scalar the way it appears on the wire.
func scalarString(v reflect.Value) (string, error) {
	if tm, ok := v.Interface().(encoding.TextMarshaler); ok {
		text, err := tm.MarshalText()
		if err != nil {
			return "", err
		}
		return string(text), nil
	}
	// Named scalar types are converted to their underlying kind for cast
	switch v.Kind() {
	case reflect.Slice:
		return string(v.Bytes()), nil
	case reflect.String:
		return v.String(), nil
	case reflect.Bool:
		return cast.ToStringE(v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cast.ToStringE(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return cast.ToStringE(v.Uint())
	case reflect.Float32:
		return cast.ToStringE(float32(v.Float()))
	default:
		return cast.ToStringE(v.Float())
	}
}

// objectPairs flattens an object to key/scalar pairs, in struct field
// order for structs and sorted key order for maps.
func objectPairs(v any) ([]Pair, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil, fmt.Errorf("value does not encode as an object")
	}
	var pairs []Pair
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key := tok.(string)
		var raw any
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		switch val := raw.(type) {
		case nil:
			continue
		case map[string]any, []any:
			return nil, fmt.Errorf("property %q must be a scalar", key)
		default:
			s, err := cast.ToStringE(val)
			if err != nil {
				return nil, err
			}
			pairs = append(pairs, Pair{Key: key, Value: s})
		}
	}
	return pairs, nil
}

// exampleOf returns v as decoded JSON, or nil when v does not marshal.
func exampleOf(v any) any {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}
