package redact

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/go-openapi/jsonpointer"

	"github.com/erraggy/oascapture/oaserrors"
)

// match is a concrete location selected by an action.
type match struct {
	pointer string
	tokens  []string
}

func pointerOf(tokens []string) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteByte('/')
		b.WriteString(jsonpointer.Escape(t))
	}
	return b.String()
}

// get returns the value at tokens.
func get(doc any, tokens []string) (any, error) {
	p, err := jsonpointer.New(pointerOf(tokens))
	if err != nil {
		return nil, err
	}
	v, _, err := p.Get(doc)
	return v, err
}

// set stores v at tokens and returns the (possibly new) root.
func set(doc any, tokens []string, v any) (any, error) {
	if len(tokens) == 0 {
		return v, nil
	}
	parentTokens, last := tokens[:len(tokens)-1], tokens[len(tokens)-1]
	parent, err := get(doc, parentTokens)
	if err != nil {
		return nil, assignError(tokens, "parent not found", err)
	}
	switch c := parent.(type) {
	case map[string]any:
		c[last] = v
	case []any:
		idx, err := arrayIndex(last, len(c))
		if err != nil {
			return nil, assignError(tokens, "invalid array index", err)
		}
		c[idx] = v
	default:
		return nil, assignError(tokens, "parent is not an object or array", nil)
	}
	return doc, nil
}

// remove deletes the member or element at tokens and returns the
// (possibly new) root. Array elements are removed by rebuilding the array.
func remove(doc any, tokens []string) (any, error) {
	if len(tokens) == 0 {
		return nil, assignError(tokens, "cannot remove the document root", nil)
	}
	parentTokens, last := tokens[:len(tokens)-1], tokens[len(tokens)-1]
	parent, err := get(doc, parentTokens)
	if err != nil {
		return nil, assignError(tokens, "parent not found", err)
	}
	switch c := parent.(type) {
	case map[string]any:
		delete(c, last)
		return doc, nil
	case []any:
		idx, err := arrayIndex(last, len(c))
		if err != nil {
			return nil, assignError(tokens, "invalid array index", err)
		}
		shrunk := make([]any, 0, len(c)-1)
		shrunk = append(shrunk, c[:idx]...)
		shrunk = append(shrunk, c[idx+1:]...)
		return set(doc, parentTokens, shrunk)
	default:
		return nil, assignError(tokens, "parent is not an object or array", nil)
	}
}

func arrayIndex(token string, n int) (int, error) {
	idx, err := strconv.Atoi(token)
	if err != nil {
		return 0, err
	}
	if idx < 0 || idx >= n {
		return 0, &oaserrors.RedactionError{Message: "index " + token + " out of range"}
	}
	return idx, nil
}

func assignError(tokens []string, msg string, cause error) error {
	return &oaserrors.RedactionError{Path: pointerOf(tokens), Message: msg, Cause: cause}
}

// sortForRemoval orders matches so that removing them one at a time never
// shifts a later target: descendants before ancestors, higher array
// indices before lower ones.
func sortForRemoval(ms []match) {
	slices.SortFunc(ms, func(a, b match) int {
		return -compareTokens(a.tokens, b.tokens)
	})
}

func compareTokens(a, b []string) int {
	for i := range min(len(a), len(b)) {
		if c := compareToken(a[i], b[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a), len(b))
}

func compareToken(a, b string) int {
	ai, aErr := strconv.Atoi(a)
	bi, bErr := strconv.Atoi(b)
	if aErr == nil && bErr == nil {
		return cmp.Compare(ai, bi)
	}
	return strings.Compare(a, b)
}
