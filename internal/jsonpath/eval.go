package jsonpath

import (
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/go-openapi/jsonpointer"
)

// Location is a node selected by a path: its value and the reference tokens
// leading to it from the root.
type Location struct {
	Tokens []string
	Value  any
}

// Pointer returns the location as an RFC 6901 JSON Pointer ("" for the root).
func (l Location) Pointer() string {
	if len(l.Tokens) == 0 {
		return ""
	}
	var b strings.Builder
	for _, tok := range l.Tokens {
		b.WriteByte('/')
		b.WriteString(jsonpointer.Escape(tok))
	}
	return b.String()
}

// Locate evaluates the path against doc and returns every selected location.
// A node reached through several selectors is reported once, at its first
// occurrence.
func (p *Path) Locate(doc any) []Location {
	current := []Location{{Value: doc}}
	for _, seg := range p.segments {
		var next []Location
		for _, loc := range current {
			if seg.descendant {
				descend(loc, func(l Location) {
					next = append(next, applySelectors(l, seg.selectors)...)
				})
			} else {
				next = append(next, applySelectors(loc, seg.selectors)...)
			}
		}
		current = dedupe(next)
		if len(current) == 0 {
			return nil
		}
	}
	return current
}

// Get evaluates the path against doc and returns the selected values.
func (p *Path) Get(doc any) []any {
	locs := p.Locate(doc)
	if len(locs) == 0 {
		return nil
	}
	out := make([]any, len(locs))
	for i, l := range locs {
		out[i] = l.Value
	}
	return out
}

// descend visits loc and all of its descendants in document order.
func descend(loc Location, visit func(Location)) {
	visit(loc)
	for _, child := range children(loc) {
		descend(child, visit)
	}
}

// children returns the direct members of an object (sorted by key) or the
// elements of an array.
func children(loc Location) []Location {
	switch v := loc.Value.(type) {
	case map[string]any:
		keys := slices.Sorted(maps.Keys(v))
		out := make([]Location, len(keys))
		for i, k := range keys {
			out[i] = child(loc, k, v[k])
		}
		return out
	case []any:
		out := make([]Location, len(v))
		for i, e := range v {
			out[i] = child(loc, strconv.Itoa(i), e)
		}
		return out
	}
	return nil
}

func child(parent Location, token string, value any) Location {
	tokens := make([]string, len(parent.Tokens)+1)
	copy(tokens, parent.Tokens)
	tokens[len(parent.Tokens)] = token
	return Location{Tokens: tokens, Value: value}
}

func applySelectors(loc Location, sels []selector) []Location {
	var out []Location
	for _, sel := range sels {
		out = append(out, applySelector(loc, sel)...)
	}
	return out
}

func applySelector(loc Location, sel selector) []Location {
	switch sel.kind {
	case selectName:
		if m, ok := loc.Value.(map[string]any); ok {
			if v, exists := m[sel.name]; exists {
				return []Location{child(loc, sel.name, v)}
			}
		}

	case selectWildcard:
		return children(loc)

	case selectIndex:
		if arr, ok := loc.Value.([]any); ok {
			idx := sel.index
			if idx < 0 {
				idx += len(arr)
			}
			if idx >= 0 && idx < len(arr) {
				return []Location{child(loc, strconv.Itoa(idx), arr[idx])}
			}
		}

	case selectSlice:
		if arr, ok := loc.Value.([]any); ok {
			var out []Location
			for _, i := range sliceIndices(sel.slice, len(arr)) {
				out = append(out, child(loc, strconv.Itoa(i), arr[i]))
			}
			return out
		}

	case selectFilter:
		var out []Location
		for _, c := range children(loc) {
			if sel.expr.eval(c.Value) {
				out = append(out, c)
			}
		}
		return out
	}
	return nil
}

// sliceIndices returns the indices selected by a slice over an array of
// length n, following the normalization rules of RFC 9535 section 2.3.4.
func sliceIndices(s sliceSpec, n int) []int {
	step := s.step
	if step == 0 {
		return nil
	}
	normalize := func(i int) int {
		if i < 0 {
			return n + i
		}
		return i
	}

	var lower, upper int
	if step > 0 {
		start, end := 0, n
		if s.start != nil {
			start = normalize(*s.start)
		}
		if s.end != nil {
			end = normalize(*s.end)
		}
		lower, upper = min(max(start, 0), n), min(max(end, 0), n)
		var out []int
		for i := lower; i < upper; i += step {
			out = append(out, i)
		}
		return out
	}

	start, end := n-1, -n-1
	if s.start != nil {
		start = normalize(*s.start)
	}
	if s.end != nil {
		end = normalize(*s.end)
	}
	upper, lower = min(max(start, -1), n-1), min(max(end, -1), n-1)
	var out []int
	for i := upper; i > lower; i += step {
		out = append(out, i)
	}
	return out
}

func dedupe(locs []Location) []Location {
	if len(locs) < 2 {
		return locs
	}
	seen := make(map[string]bool, len(locs))
	out := locs[:0]
	for _, l := range locs {
		ptr := l.Pointer()
		if seen[ptr] {
			continue
		}
		seen[ptr] = true
		out = append(out, l)
	}
	return out
}
