package param

import (
	"github.com/erraggy/oascapture/openapi"
	"github.com/erraggy/oascapture/schema"
)

// Set holds the resolved parameters of one call, grouped by location.
type Set struct {
	Path   []*Resolved
	Query  []*Resolved
	Header []*Resolved
	Cookie []*Resolved
}

// Add appends r to the group of its location.
func (s *Set) Add(r *Resolved) {
	switch r.In {
	case Path:
		s.Path = append(s.Path, r)
	case Query:
		s.Query = append(s.Query, r)
	case Header:
		s.Header = append(s.Header, r)
	case Cookie:
		s.Cookie = append(s.Cookie, r)
	}
}

// All returns every parameter: path, then query, header and cookie.
func (s *Set) All() []*Resolved {
	out := make([]*Resolved, 0, len(s.Path)+len(s.Query)+len(s.Header)+len(s.Cookie))
	out = append(out, s.Path...)
	out = append(out, s.Query...)
	out = append(out, s.Header...)
	out = append(out, s.Cookie...)
	return out
}

// Parameters projects the set into OpenAPI parameters, keeping the first
// occurrence of each (name, location).
func (s *Set) Parameters() []*openapi.Parameter {
	var out []*openapi.Parameter
	seen := make(map[openapi.ParameterKey]bool)
	for _, r := range s.All() {
		p := r.Parameter()
		if seen[p.Key()] {
			continue
		}
		seen[p.Key()] = true
		out = append(out, p)
	}
	return out
}

// Entries returns the named schemas reached by every parameter schema.
func (s *Set) Entries() []*schema.Entry {
	var out []*schema.Entry
	for _, r := range s.All() {
		out = append(out, r.Entries...)
	}
	return out
}

// QueryPairs renders every query parameter in order.
func (s *Set) QueryPairs() []Pair {
	var pairs []Pair
	for _, r := range s.Query {
		pairs = append(pairs, r.QueryPairs()...)
	}
	return pairs
}

// PathArgs renders every path parameter as a template argument.
func (s *Set) PathArgs() ([]Arg, error) {
	args := make([]Arg, 0, len(s.Path))
	for _, r := range s.Path {
		token, err := r.PathToken()
		if err != nil {
			return nil, err
		}
		args = append(args, Arg{Name: r.Name, Token: token})
	}
	return args, nil
}
