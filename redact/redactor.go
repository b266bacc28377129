package redact

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/mitchellh/copystructure"
)

// Redactor computes the replacement for a matched value.
type Redactor interface {
	// Redact returns the value to store at pointer. current is the value
	// found there.
	Redact(pointer string, current any) (any, error)
}

// Func adapts a function to a Redactor.
type Func func(pointer string, current any) (any, error)

// Redact implements Redactor.
func (f Func) Redact(pointer string, current any) (any, error) {
	return f(pointer, current)
}

type fixed struct {
	v any
}

// Value returns a redactor that stores v at every match. Each match gets
// its own copy of v.
func Value(v any) Redactor {
	return fixed{v: v}
}

func (f fixed) Redact(string, any) (any, error) {
	if f.v == nil {
		return nil, nil
	}
	return copystructure.Copy(f.v)
}

// StableID returns a redactor that replaces a value with prefix-N, where N
// is the last array index in the matched pointer. A pointer without an
// array index yields prefix alone.
//
//	$[*].id on [{"id":"a"},{"id":"b"}] with StableID("user") -> "user-0", "user-1"
func StableID(prefix string) Func {
	return func(pointer string, _ any) (any, error) {
		if idx, ok := lastIndex(pointer); ok {
			return fmt.Sprintf("%s-%d", prefix, idx), nil
		}
		return prefix, nil
	}
}

// StableUUID returns a redactor that replaces a value with a name-based
// (version 5) UUID derived from namespace and the matched pointer. The same
// pointer always yields the same UUID.
func StableUUID(namespace uuid.UUID) Func {
	return func(pointer string, _ any) (any, error) {
		return uuid.NewSHA1(namespace, []byte(pointer)).String(), nil
	}
}

// lastIndex returns the last reference token of pointer that is an array
// index.
func lastIndex(pointer string) (int, bool) {
	tokens := strings.Split(pointer, "/")
	for i := len(tokens) - 1; i > 0; i-- {
		if n, err := strconv.Atoi(tokens[i]); err == nil && n >= 0 {
			return n, true
		}
	}
	return 0, false
}
