package redact

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/go-openapi/jsonpointer"
	"github.com/mitchellh/copystructure"

	"github.com/erraggy/oascapture/internal/jsonpath"
	"github.com/erraggy/oascapture/oaserrors"
)

// Option configures a single action.
type Option func(*action)

// AllowEmptyMatch makes an action a no-op when its path matches nothing.
func AllowEmptyMatch() Option {
	return func(a *action) { a.allowEmpty = true }
}

type action struct {
	path       string
	remove     bool
	redactor   Redactor
	allowEmpty bool

	pointer *jsonpointer.Pointer
	query   *jsonpath.Path
}

// resolve returns the concrete locations the action targets in doc.
func (a *action) resolve(doc any) []match {
	if a.pointer != nil {
		if _, _, err := a.pointer.Get(doc); err != nil {
			return nil
		}
		return []match{{pointer: a.path, tokens: a.pointer.DecodedTokens()}}
	}
	locs := a.query.Locate(doc)
	out := make([]match, len(locs))
	for i, l := range locs {
		out[i] = match{pointer: l.Pointer(), tokens: l.Tokens}
	}
	return out
}

// Plan is an ordered list of redaction actions. Build one with New and the
// fluent Replace and Remove methods; invalid paths are reported by Apply.
// A Plan is immutable once built and safe for concurrent Apply calls.
type Plan struct {
	actions []action
	errs    []error
}

// New returns an empty plan.
func New() *Plan {
	return &Plan{}
}

// Replace adds an action that stores the redactor's result at every match.
func (p *Plan) Replace(path string, r Redactor, opts ...Option) *Plan {
	if r == nil {
		p.errs = append(p.errs, &oaserrors.RedactionError{Path: path, Message: "redactor is nil"})
		return p
	}
	return p.add(action{path: path, redactor: r}, opts)
}

// Remove adds an action that deletes every match: object members are
// removed and array elements are spliced out.
func (p *Plan) Remove(path string, opts ...Option) *Plan {
	return p.add(action{path: path, remove: true}, opts)
}

func (p *Plan) add(a action, opts []Option) *Plan {
	for _, opt := range opts {
		opt(&a)
	}
	switch {
	case strings.HasPrefix(a.path, "/"):
		ptr, err := jsonpointer.New(a.path)
		if err != nil {
			p.errs = append(p.errs, &oaserrors.RedactionError{Path: a.path, Message: "invalid JSON Pointer", Cause: err})
			return p
		}
		a.pointer = &ptr
	case strings.HasPrefix(a.path, "$"):
		q, err := jsonpath.Parse(a.path)
		if err != nil {
			p.errs = append(p.errs, &oaserrors.RedactionError{Path: a.path, Message: "invalid JSONPath", Cause: err})
			return p
		}
		a.query = q
	default:
		p.errs = append(p.errs, &oaserrors.RedactionError{
			Path:    a.path,
			Message: "path must be a JSON Pointer (/...) or a JSONPath expression ($...)",
		})
		return p
	}
	p.actions = append(p.actions, a)
	return p
}

// Merge appends the actions of other to p.
func (p *Plan) Merge(other *Plan) *Plan {
	if other == nil {
		return p
	}
	p.actions = append(p.actions, other.actions...)
	p.errs = append(p.errs, other.errs...)
	return p
}

// Len returns the number of valid actions.
func (p *Plan) Len() int {
	if p == nil {
		return 0
	}
	return len(p.actions)
}

// Err returns the errors collected while building the plan, joined.
func (p *Plan) Err() error {
	if p == nil {
		return nil
	}
	return errors.Join(p.errs...)
}

// Apply runs the plan against a decoded JSON value (map[string]any, []any
// or a scalar) and returns the redacted copy. v is not modified.
func (p *Plan) Apply(v any) (any, error) {
	if err := p.Err(); err != nil {
		return nil, err
	}
	doc := v
	if v != nil {
		cp, err := copystructure.Copy(v)
		if err != nil {
			return nil, &oaserrors.RedactionError{Message: "failed to copy value", Cause: err}
		}
		doc = cp
	}
	if p == nil {
		return doc, nil
	}

	for i := range p.actions {
		a := &p.actions[i]
		matches := a.resolve(doc)
		if len(matches) == 0 {
			if a.allowEmpty {
				continue
			}
			return nil, &oaserrors.RedactionError{Path: a.path, Message: "path matched nothing"}
		}

		var err error
		if a.remove {
			sortForRemoval(matches)
			for _, m := range matches {
				if doc, err = remove(doc, m.tokens); err != nil {
					return nil, err
				}
			}
			continue
		}
		for _, m := range matches {
			current, err := get(doc, m.tokens)
			if err != nil {
				return nil, &oaserrors.RedactionError{Path: m.pointer, Message: "matched value disappeared", Cause: err}
			}
			replacement, err := a.redactor.Redact(m.pointer, current)
			if err != nil {
				return nil, &oaserrors.RedactionError{Path: m.pointer, Message: "redactor failed", Cause: err}
			}
			if doc, err = set(doc, m.tokens, replacement); err != nil {
				return nil, err
			}
		}
	}
	return doc, nil
}

// ApplyJSON decodes data, applies the plan and re-encodes the result.
func (p *Plan) ApplyJSON(data []byte) ([]byte, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, &oaserrors.RedactionError{Message: "invalid JSON", Cause: err}
	}
	out, err := p.Apply(v)
	if err != nil {
		return nil, err
	}
	data, err = json.Marshal(out)
	if err != nil {
		return nil, &oaserrors.RedactionError{Message: "failed to encode redacted value", Cause: err}
	}
	return data, nil
}
