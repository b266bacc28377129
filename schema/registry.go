package schema

import (
	"reflect"

	"github.com/erraggy/oascapture/openapi"
)

// Registry maps type identities to component entries and resolves the
// component name of each entry.
//
// A Registry is not safe for concurrent use; the collector owns it and
// mutates it from a single goroutine.
type Registry struct {
	logger  openapi.Logger
	entries map[TypeID]*Entry
	order   []TypeID
	byBase  map[string][]TypeID
	names   map[TypeID]string
}

// NewRegistry creates an empty registry. A nil logger discards warnings.
func NewRegistry(logger openapi.Logger) *Registry {
	return &Registry{
		logger:  openapi.LoggerOrNop(logger),
		entries: make(map[TypeID]*Entry),
		byBase:  make(map[string][]TypeID),
		names:   make(map[TypeID]string),
	}
}

// Add inserts a copy of e unless an entry for e.ID already exists.
// It reports whether the entry was inserted.
func (r *Registry) Add(e *Entry) bool {
	if e == nil || e.ID.IsZero() {
		return false
	}
	if _, exists := r.entries[e.ID]; exists {
		return false
	}
	r.insert(e.clone())
	return true
}

func (r *Registry) insert(e *Entry) {
	r.entries[e.ID] = e
	r.order = append(r.order, e.ID)
	r.byBase[e.BaseName] = append(r.byBase[e.BaseName], e.ID)
	r.evict(e.BaseName)
}

// evict drops memoized names that a new entry with base name may change:
// the names of entries sharing the base name, and any name equal to it.
func (r *Registry) evict(base string) {
	for _, id := range r.byBase[base] {
		delete(r.names, id)
	}
	for id, name := range r.names {
		if name == base {
			delete(r.names, id)
		}
	}
}

// Get returns the entry for id, or nil.
func (r *Registry) Get(id TypeID) *Entry {
	return r.entries[id]
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Entries returns the entries in insertion order.
func (r *Registry) Entries() []*Entry {
	out := make([]*Entry, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.entries[id])
	}
	return out
}

// AddExample records a JSON example for the type id. Malformed JSON and
// examples for unknown types are dropped. It reports whether the example
// was added.
func (r *Registry) AddExample(id TypeID, data []byte) bool {
	e := r.entries[id]
	if e == nil {
		r.logger.Debug("example for unregistered type dropped", "type", id.Path())
		return false
	}
	return e.AddExampleJSON(data)
}

// AddExampleValue records an already decoded JSON value as an example.
func (r *Registry) AddExampleValue(id TypeID, v any) bool {
	e := r.entries[id]
	if e == nil {
		return false
	}
	return e.AddExample(v)
}

// Merge folds src into r: missing entries are inserted, existing entries
// gain the source examples in order.
func (r *Registry) Merge(src *Registry) {
	if src == nil {
		return
	}
	for _, id := range src.order {
		se := src.entries[id]
		de, exists := r.entries[id]
		if !exists {
			r.insert(se.clone())
			continue
		}
		for _, ex := range se.Examples {
			de.AddExample(ex)
		}
	}
}

// ResolvedName returns the component name for id.
//
// The base name is used when no other entry shares it. Otherwise every
// entry of the group is named "<parent>_<base>" after its nearest package
// segment, ignoring test, internal and private segments. Entries without a
// usable segment, and names that still collide, get a hash suffix.
func (r *Registry) ResolvedName(id TypeID) string {
	if name, ok := r.names[id]; ok {
		return name
	}
	e := r.entries[id]
	if e == nil {
		return ""
	}
	group := r.byBase[e.BaseName]
	if len(group) == 1 {
		r.names[id] = e.BaseName
		return e.BaseName
	}
	r.resolveGroup(group)
	return r.names[id]
}

// resolveGroup names every entry of a base-name collision group at once so
// that the outcome does not depend on lookup order.
func (r *Registry) resolveGroup(group []TypeID) {
	candidates := make(map[TypeID]string, len(group))
	counts := make(map[string]int, len(group))
	for _, id := range group {
		e := r.entries[id]
		name, ok := parentName(e)
		if !ok {
			name = e.BaseName + "_" + hashSuffix(e)
			r.logger.Warn("schema name collision resolved by hash",
				"type", id.Path(), "base", e.BaseName, "name", name)
		}
		candidates[id] = name
		counts[name]++
	}
	for _, id := range group {
		name := candidates[id]
		if counts[name] > 1 || r.isBaseNameTaken(name) {
			e := r.entries[id]
			name = name + "_" + hashSuffix(e)
			r.logger.Warn("schema name collision resolved by hash",
				"type", id.Path(), "base", e.BaseName, "name", name)
		}
		r.names[id] = name
	}
}

// isBaseNameTaken reports whether a unique entry already uses name.
func (r *Registry) isBaseNameTaken(name string) bool {
	return len(r.byBase[name]) == 1
}

// ResolveRef rewrites a late-bound reference into a component $ref.
// It is meant to be passed to the openapi Walk functions.
func (r *Registry) ResolveRef(s *openapi.Schema) {
	if s == nil || s.GoType == nil {
		return
	}
	s.Ref = openapi.SchemaRef(r.nameForType(s.GoType))
	s.GoType = nil
}

// Resolve returns a copy of s with every late-bound reference resolved.
func (r *Registry) Resolve(s *openapi.Schema) *openapi.Schema {
	cp := s.Clone()
	cp.Walk(r.ResolveRef)
	return cp
}

func (r *Registry) nameForType(t reflect.Type) string {
	if name := r.ResolvedName(IDOf(t)); name != "" {
		return name
	}
	name := baseName(t)
	r.logger.Warn("reference to unregistered type", "type", IDOf(t).Path(), "name", name)
	return name
}

// Components returns the component schemas keyed by resolved name, with
// examples attached and references resolved. Each call returns fresh
// copies.
func (r *Registry) Components() map[string]*openapi.Schema {
	if len(r.entries) == 0 {
		return nil
	}
	out := make(map[string]*openapi.Schema, len(r.entries))
	for _, id := range r.order {
		e := r.entries[id]
		s := r.Resolve(e.Schema)
		if s == nil {
			s = &openapi.Schema{}
		}
		for _, ex := range e.Examples {
			s.AddExample(openapi.DeepCopyJSONValue(ex))
		}
		out[r.ResolvedName(id)] = s
	}
	return out
}
