package schema

import (
	"encoding/json"
	"net"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oascapture/openapi"
)

type address struct {
	Street string `json:"street"`
	City   string `json:"city,omitempty"`
}

type Customer struct {
	Name    string   `json:"name"`
	Address *address `json:"address,omitempty"`
}

type LineItem struct {
	SKU      string  `json:"sku"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price,string"`
}

type Order struct {
	ID       uuid.UUID  `json:"id"`
	Customer Customer   `json:"customer"`
	Items    []LineItem `json:"items"`
	PlacedAt time.Time  `json:"placed_at"`
	Notes    *string    `json:"notes"`
	Internal string     `json:"-"`
	secret   string
}

type Node struct {
	Value    int    `json:"value"`
	Children []Node `json:"children,omitempty"`
	Parent   *Node  `json:"parent,omitempty"`
}

type Timestamps struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

type Article struct {
	Timestamps
	Title string `json:"title" oas:"description=Article title,minLength=1,maxLength=200"`
	State string `json:"state" oas:"enum=draft|published,default=draft"`
	Score int    `json:"score,omitempty" oas:"minimum=0,maximum=10,example=7,required=true"`
	Old   bool   `json:"old,omitempty" oas:"deprecated"`
}

type Page[T any] struct {
	Items []T    `json:"items"`
	Next  string `json:"next,omitempty"`
}

type renamed struct {
	A int `json:"a"`
}

func (renamed) SchemaName() string { return "Renamed Thing" }

type Money int64

func (Money) OpenAPISchema() *openapi.Schema {
	return &openapi.Schema{Type: openapi.TypeString, Pattern: `^\d+\.\d{2}$`}
}

type Opaque struct{}

func (*Opaque) OpenAPISchema() *openapi.Schema {
	return &openapi.Schema{Type: openapi.TypeObject, Description: "opaque"}
}

func TestGeneratorPrimitivesAreInlined(t *testing.T) {
	tests := []struct {
		name string
		typ  reflect.Type
		want *openapi.Schema
	}{
		{"string", reflect.TypeFor[string](), &openapi.Schema{Type: "string"}},
		{"bool", reflect.TypeFor[bool](), &openapi.Schema{Type: "boolean"}},
		{"int", reflect.TypeFor[int](), &openapi.Schema{Type: "integer", Format: "int64"}},
		{"int32", reflect.TypeFor[int32](), &openapi.Schema{Type: "integer", Format: "int32"}},
		{"uint8", reflect.TypeFor[uint8](), &openapi.Schema{Type: "integer", Format: "int32"}},
		{"float32", reflect.TypeFor[float32](), &openapi.Schema{Type: "number", Format: "float"}},
		{"float64", reflect.TypeFor[float64](), &openapi.Schema{Type: "number", Format: "double"}},
		{"bytes", reflect.TypeFor[[]byte](), &openapi.Schema{Type: "string", ContentEncoding: "base64"}},
		{"time", reflect.TypeFor[time.Time](), &openapi.Schema{Type: "string", Format: "date-time"}},
		{"uuid", reflect.TypeFor[uuid.UUID](), &openapi.Schema{Type: "string", Format: "uuid"}},
		{"raw message", reflect.TypeFor[json.RawMessage](), &openapi.Schema{}},
		{"any", reflect.TypeFor[any](), &openapi.Schema{}},
		{"text marshaler", reflect.TypeFor[net.IP](), &openapi.Schema{Type: "string"}},
		{"named scalar", reflect.TypeFor[time.Duration](), &openapi.Schema{Type: "integer", Format: "int64"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGenerator()
			got, entries := g.For(tt.typ)
			assert.Equal(t, tt.want, got)
			assert.Empty(t, entries)
			assert.True(t, IsInlined(tt.typ))
		})
	}
}

func TestGeneratorPointerAddsNull(t *testing.T) {
	g := NewGenerator()

	s, _ := g.For(reflect.TypeFor[*int]())
	assert.Equal(t, []string{"integer", "null"}, s.Types())

	s, entries := g.For(reflect.TypeFor[*Customer]())
	require.Len(t, s.AnyOf, 2)
	assert.Equal(t, reflect.TypeFor[Customer](), s.AnyOf[0].GoType)
	assert.Equal(t, "null", s.AnyOf[1].Type)
	require.Len(t, entries, 2)
	assert.Equal(t, "Customer", entries[0].BaseName)
	assert.Equal(t, "address", entries[1].BaseName)
}

func TestGeneratorStruct(t *testing.T) {
	g := NewGenerator()
	ref, entries := For[Order](g)

	assert.Equal(t, reflect.TypeFor[Order](), ref.GoType)
	assert.True(t, ref.IsRef())

	require.Len(t, entries, 4)
	assert.Equal(t, "Order", entries[0].BaseName)
	assert.Equal(t, "Customer", entries[1].BaseName)
	assert.Equal(t, "address", entries[2].BaseName)
	assert.Equal(t, "LineItem", entries[3].BaseName)

	order := entries[0].Schema
	assert.Equal(t, "object", order.Type)
	assert.ElementsMatch(t, []string{"id", "customer", "items", "placed_at", "notes"}, keys(order.Properties))
	assert.Equal(t, []string{"id", "customer", "items", "placed_at"}, order.Required)
	assert.Equal(t, "uuid", order.Properties["id"].Format)
	assert.Equal(t, "date-time", order.Properties["placed_at"].Format)
	assert.Equal(t, []string{"string", "null"}, order.Properties["notes"].Types())
	assert.Equal(t, reflect.TypeFor[LineItem](), order.Properties["items"].Items.GoType)

	customer := entries[1].Schema
	addr := customer.Properties["address"]
	require.Len(t, addr.AnyOf, 2)
	assert.Equal(t, reflect.TypeFor[address](), addr.AnyOf[0].GoType)
	assert.Equal(t, []string{"name"}, customer.Required)
	assert.Equal(t, []string{"street"}, entries[2].Schema.Required)

	item := entries[3].Schema
	assert.Equal(t, "string", item.Properties["price"].Type)
}

func TestGeneratorRecursiveType(t *testing.T) {
	g := NewGenerator()
	ref, entries := For[Node](g)

	assert.Equal(t, reflect.TypeFor[Node](), ref.GoType)
	require.Len(t, entries, 1)
	node := entries[0].Schema
	assert.Equal(t, reflect.TypeFor[Node](), node.Properties["children"].Items.GoType)
	require.Len(t, node.Properties["parent"].AnyOf, 2)
	assert.Equal(t, reflect.TypeFor[Node](), node.Properties["parent"].AnyOf[0].GoType)
}

func TestGeneratorCachesEntries(t *testing.T) {
	g := NewGenerator()
	_, first := For[Order](g)
	_, second := For[[]Order](g)

	require.Len(t, second, 4)
	assert.Same(t, first[0], second[0])
}

func TestGeneratorEmbeddedAndTags(t *testing.T) {
	g := NewGenerator()
	_, entries := For[Article](g)
	require.Len(t, entries, 1)
	s := entries[0].Schema

	assert.ElementsMatch(t, []string{"created_at", "updated_at", "title", "state", "score", "old"}, keys(s.Properties))
	assert.Equal(t, []string{"created_at", "title", "state", "score"}, s.Required)

	title := s.Properties["title"]
	assert.Equal(t, "Article title", title.Description)
	require.NotNil(t, title.MinLength)
	assert.Equal(t, 1, *title.MinLength)
	assert.Equal(t, 200, *title.MaxLength)

	state := s.Properties["state"]
	assert.Equal(t, []any{"draft", "published"}, state.Enum)
	assert.Equal(t, "draft", state.Default)

	score := s.Properties["score"]
	assert.Equal(t, 0.0, *score.Minimum)
	assert.Equal(t, 10.0, *score.Maximum)
	assert.Equal(t, []any{float64(7)}, score.Examples)

	assert.True(t, s.Properties["old"].Deprecated)
}

func TestGeneratorNamerAndProvider(t *testing.T) {
	g := NewGenerator()

	_, entries := For[renamed](g)
	require.Len(t, entries, 1)
	assert.Equal(t, "Renamed_Thing", entries[0].BaseName)

	money, entries := For[Money](g)
	assert.Empty(t, entries)
	assert.Equal(t, "string", money.Type)
	assert.Equal(t, `^\d+\.\d{2}$`, money.Pattern)

	ref, entries := For[Opaque](g)
	assert.True(t, ref.IsRef())
	require.Len(t, entries, 1)
	assert.Equal(t, "opaque", entries[0].Schema.Description)
}

func TestGeneratorGenericName(t *testing.T) {
	g := NewGenerator()
	_, entries := For[Page[LineItem]](g)
	require.Len(t, entries, 2)
	assert.Equal(t, "Page_LineItem", entries[0].BaseName)
	assert.Equal(t, "LineItem", entries[1].BaseName)
}

func TestParseOASTag(t *testing.T) {
	got := parseOASTag("description=User ID, minLength=1,deprecated,,pattern=a=b")
	assert.Equal(t, map[string]string{
		"description": "User ID",
		"minLength":   "1",
		"deprecated":  "true",
		"pattern":     "a=b",
	}, got)
}

func TestApplyOASTagNullable(t *testing.T) {
	s := applyOASTag(&openapi.Schema{Type: openapi.TypeInteger}, "nullable,default=3")
	assert.Equal(t, []string{"integer", "null"}, s.Types())
	assert.Equal(t, int64(3), s.Default)
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
