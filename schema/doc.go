// Package schema turns Go types into OpenAPI 3.1 schemas and keeps the
// registry of named component schemas observed during a test run.
//
// # Generating schemas
//
// A [Generator] reflects a Go type into a schema. Named struct types become
// component entries and are referenced; everything else is inlined:
//
//	gen := schema.NewGenerator()
//	ref, entries := gen.For(reflect.TypeFor[[]User]())
//	// ref:     {type: array, items: <ref to User>}
//	// entries: [User] plus every named struct reachable from User
//
// References are late-bound: the schema for User carries the Go type, and
// the component name is only fixed when the registry projects its entries.
//
// Struct fields follow encoding/json: the json tag names and excludes
// fields, omitempty and pointer fields are optional. An oas tag refines
// the generated field schema:
//
//	type User struct {
//	    ID    string `json:"id" oas:"format=uuid,description=User identifier"`
//	    Email string `json:"email" oas:"pattern=^.+@.+$"`
//	    Role  string `json:"role,omitempty" oas:"enum=admin|member"`
//	}
//
// Types implementing [Namer] choose their component name and types
// implementing [Provider] supply their own schema.
//
// Primitives (bool, integers, floats, string, []byte), time.Time and UUID
// types are never registered; they are always inlined.
//
// # Registry and names
//
// A [Registry] maps type identities to entries. When two distinct types
// share a base name, [Registry.ResolvedName] disambiguates them with the
// nearest package segment, falling back to a hash suffix:
//
//	example.com/shop/api/v1.User  ->  v1_User
//	example.com/shop/admin.User   ->  admin_User
//
// The hash fallback is FNV-1a 64 over the qualified type path and the
// schema fingerprint, masked to 16 bits and rendered as four hex digits.
package schema
