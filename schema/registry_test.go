package schema

import (
	"reflect"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oascapture/internal/testutil"
	"github.com/erraggy/oascapture/internal/testutil/shop/admin"
	v1 "github.com/erraggy/oascapture/internal/testutil/shop/v1"
	"github.com/erraggy/oascapture/openapi"
)

type widgetA struct {
	A int `json:"a"`
}

func (widgetA) SchemaName() string { return "Widget" }

type widgetB struct {
	B string `json:"b"`
}

func (widgetB) SchemaName() string { return "Widget" }

func addType[T any](t *testing.T, r *Registry, g *Generator) *openapi.Schema {
	t.Helper()
	ref, entries := For[T](g)
	for _, e := range entries {
		r.Add(e)
	}
	return ref
}

func TestRegistryAdd(t *testing.T) {
	g := NewGenerator()
	r := NewRegistry(nil)

	_, entries := For[LineItem](g)
	require.Len(t, entries, 1)
	assert.True(t, r.Add(entries[0]))
	assert.False(t, r.Add(entries[0]))
	assert.False(t, r.Add(nil))
	assert.Equal(t, 1, r.Len())

	// The registry keeps its own copy
	r.AddExample(IDFor[LineItem](), []byte(`{"sku":"a","quantity":1,"price":"1.00"}`))
	assert.Empty(t, entries[0].Examples)
	assert.Len(t, r.Get(IDFor[LineItem]()).Examples, 1)
}

func TestRegistryAddExample(t *testing.T) {
	g := NewGenerator()
	r := NewRegistry(nil)
	addType[LineItem](t, r, g)
	id := IDFor[LineItem]()

	assert.True(t, r.AddExample(id, []byte(`{"sku":"a","quantity":1}`)))
	assert.False(t, r.AddExample(id, []byte(`{ "quantity": 1, "sku": "a" }`)), "same canonical JSON")
	assert.True(t, r.AddExample(id, []byte(`{"sku":"b","quantity":2}`)))
	assert.False(t, r.AddExample(id, []byte(`{"sku":`)), "malformed JSON is dropped")
	assert.False(t, r.AddExample(IDFor[Order](), []byte(`{}`)), "unknown type")

	examples := r.Get(id).Examples
	require.Len(t, examples, 2)
	assert.Equal(t, "a", examples[0].(map[string]any)["sku"])
	assert.Equal(t, "b", examples[1].(map[string]any)["sku"])
}

func TestRegistryMerge(t *testing.T) {
	g := NewGenerator()
	dst := NewRegistry(nil)
	src := NewRegistry(nil)

	addType[LineItem](t, dst, g)
	dst.AddExample(IDFor[LineItem](), []byte(`{"sku":"a"}`))

	addType[LineItem](t, src, g)
	addType[Node](t, src, g)
	src.AddExample(IDFor[LineItem](), []byte(`{"sku":"a"}`))
	src.AddExample(IDFor[LineItem](), []byte(`{"sku":"b"}`))
	src.AddExample(IDFor[Node](), []byte(`{"value":1}`))

	dst.Merge(src)
	dst.Merge(nil)

	assert.Equal(t, 2, dst.Len())
	assert.Len(t, dst.Get(IDFor[LineItem]()).Examples, 2)
	assert.Len(t, dst.Get(IDFor[Node]()).Examples, 1)

	entries := dst.Entries()
	assert.Equal(t, "LineItem", entries[0].BaseName)
	assert.Equal(t, "Node", entries[1].BaseName)
}

func TestRegistryResolvedNameUnique(t *testing.T) {
	r := NewRegistry(nil)
	addType[v1.User](t, r, NewGenerator())
	assert.Equal(t, "User", r.ResolvedName(IDFor[v1.User]()))
	assert.Empty(t, r.ResolvedName(IDFor[admin.User]()))
}

func TestRegistryResolvedNameCollision(t *testing.T) {
	logger := testutil.NewRecordingLogger()
	r := NewRegistry(logger)
	g := NewGenerator()

	addType[v1.User](t, r, g)
	require.Equal(t, "User", r.ResolvedName(IDFor[v1.User]()))

	// A new entry with the same base name evicts the memoized name
	addType[admin.User](t, r, g)
	assert.Equal(t, "v1_User", r.ResolvedName(IDFor[v1.User]()))
	assert.Equal(t, "admin_User", r.ResolvedName(IDFor[admin.User]()))
	assert.Empty(t, logger.Warnings())
}

func TestRegistryResolvedNameHashFallback(t *testing.T) {
	logger := testutil.NewRecordingLogger()
	r := NewRegistry(logger)
	g := NewGenerator()

	// Same package, same base name: the parent segment does not help
	addType[widgetA](t, r, g)
	addType[widgetB](t, r, g)

	a := r.ResolvedName(IDFor[widgetA]())
	b := r.ResolvedName(IDFor[widgetB]())
	assert.NotEqual(t, a, b)
	assert.Regexp(t, regexp.MustCompile(`^schema_Widget_[0-9a-f]{4}$`), a)
	assert.Regexp(t, regexp.MustCompile(`^schema_Widget_[0-9a-f]{4}$`), b)
	assert.Len(t, logger.Warnings(), 2)

	// Memoized: no further warnings
	assert.Equal(t, a, r.ResolvedName(IDFor[widgetA]()))
	assert.Len(t, logger.Warnings(), 2)
}

func TestRegistryResolvedNameNoSegments(t *testing.T) {
	logger := testutil.NewRecordingLogger()
	r := NewRegistry(logger)

	anon := IDOf(reflect.TypeFor[struct{ X int }]())
	r.Add(NewEntry(anon, &openapi.Schema{Type: openapi.TypeObject}, "LineItem"))
	addType[LineItem](t, r, NewGenerator())

	assert.Regexp(t, regexp.MustCompile(`^LineItem_[0-9a-f]{4}$`), r.ResolvedName(anon))
	assert.Equal(t, "schema_LineItem", r.ResolvedName(IDFor[LineItem]()))
	assert.Len(t, logger.Warnings(), 1)
}

func TestRegistryHashIsDeterministic(t *testing.T) {
	e := NewEntry(IDFor[widgetA](), &openapi.Schema{Type: openapi.TypeObject}, "Widget")
	assert.Equal(t, hashSuffix(e), hashSuffix(e))
	other := NewEntry(IDFor[widgetB](), &openapi.Schema{Type: openapi.TypeObject}, "Widget")
	assert.NotEqual(t, hashSuffix(e), hashSuffix(other))
}

func TestRegistryComponents(t *testing.T) {
	r := NewRegistry(nil)
	g := NewGenerator()

	ref := addType[[]v1.User](t, r, g)
	addType[admin.User](t, r, g)
	addType[Node](t, r, g)
	r.AddExample(IDFor[v1.User](), []byte(`{"id":1,"email":"a@example.com"}`))

	components := r.Components()
	require.Len(t, components, 3)
	require.Contains(t, components, "v1_User")
	require.Contains(t, components, "admin_User")
	require.Contains(t, components, "Node")

	user := components["v1_User"]
	assert.Equal(t, []any{map[string]any{"id": float64(1), "email": "a@example.com"}}, user.Examples)

	node := components["Node"]
	assert.Equal(t, "#/components/schemas/Node", node.Properties["children"].Items.Ref)
	assert.Nil(t, node.Properties["children"].Items.GoType)

	// Components never mutate the stored entries
	assert.NotNil(t, r.Get(IDFor[Node]()).Schema.Properties["children"].Items.GoType)
	assert.Empty(t, r.Get(IDFor[Node]()).Schema.Examples)

	resolved := r.Resolve(ref)
	assert.Equal(t, "#/components/schemas/v1_User", resolved.Items.Ref)
	assert.NotNil(t, ref.Items.GoType)
}

func TestRegistryComponentsEmpty(t *testing.T) {
	assert.Nil(t, NewRegistry(nil).Components())
}

func TestSanitizeSchemaName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"User", "User"},
		{"Page[User]", "Page_User"},
		{"Map[string,int]", "Map_string_int"},
		{"Renamed Thing", "Renamed_Thing"},
		{"a.b-c", "a.b-c"},
		{"__x__", "x"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeSchemaName(tt.input))
		})
	}
}

func TestTypeIDSegments(t *testing.T) {
	assert.Equal(t,
		[]string{"github.com", "erraggy", "oascapture", "testutil", "shop", "v1"},
		IDFor[v1.User]().segments())
	assert.Equal(t, "github.com/erraggy/oascapture/internal/testutil/shop/v1.User", IDFor[v1.User]().Path())
	assert.Equal(t, "[]int", IDFor[[]int]().Path())
	assert.True(t, TypeID{}.IsZero())
}
