package collector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oascapture/internal/testutil"
	"github.com/erraggy/oascapture/openapi"
)

func observed(method, path string, op *openapi.Operation) *CalledOperation {
	if op.Responses == nil {
		op.Responses = openapi.NewResponses()
	}
	return &CalledOperation{OperationID: "op", Method: method, Path: path, Operation: op}
}

func jsonContent(s *openapi.Schema) map[string]*openapi.MediaType {
	return map[string]*openapi.MediaType{"application/json": {Schema: s}}
}

func TestMergeTagsDescriptionDeprecated(t *testing.T) {
	group := []*CalledOperation{
		observed("GET", "/users", &openapi.Operation{Tags: []string{"users", "admin"}}),
		observed("GET", "/users", &openapi.Operation{Tags: []string{"accounts", "users"}, Description: "List users", Deprecated: true}),
		observed("GET", "/users", &openapi.Operation{Description: "Ignored"}),
	}
	op, ok := mergeGroup(group, openapi.NopLogger{})
	require.True(t, ok)
	assert.Equal(t, "op", op.OperationID)
	assert.Equal(t, []string{"accounts", "admin", "users"}, op.Tags)
	assert.Equal(t, "List users", op.Description)
	assert.True(t, op.Deprecated)
}

func TestMergeParametersFirstWins(t *testing.T) {
	limit1 := &openapi.Parameter{Name: "limit", In: "query", Example: 1.0}
	limit2 := &openapi.Parameter{Name: "limit", In: "query", Example: 2.0}
	limitHeader := &openapi.Parameter{Name: "limit", In: "header"}
	offset := &openapi.Parameter{Name: "offset", In: "query"}

	group := []*CalledOperation{
		observed("GET", "/users", &openapi.Operation{}),
		observed("GET", "/users", &openapi.Operation{Parameters: []*openapi.Parameter{limit1}}),
		observed("GET", "/users", &openapi.Operation{Parameters: []*openapi.Parameter{limit2, limitHeader, offset}}),
	}
	op, ok := mergeGroup(group, openapi.NopLogger{})
	require.True(t, ok)
	require.Len(t, op.Parameters, 3)
	assert.Same(t, limit1, op.Parameters[0])
	assert.Same(t, limitHeader, op.Parameters[1])
	assert.Same(t, offset, op.Parameters[2])
}

func TestMergeRequestBodies(t *testing.T) {
	first := &openapi.Schema{Type: "object"}
	second := &openapi.Schema{Type: "array"}
	group := []*CalledOperation{
		observed("POST", "/items", &openapi.Operation{RequestBody: &openapi.RequestBody{
			Content: jsonContent(first),
		}}),
		observed("POST", "/items", &openapi.Operation{RequestBody: &openapi.RequestBody{
			Description: "An item",
			Required:    true,
			Content:     map[string]*openapi.MediaType{"application/x-www-form-urlencoded": {}},
		}}),
		observed("POST", "/items", &openapi.Operation{RequestBody: &openapi.RequestBody{
			Description: "Later",
			Content:     jsonContent(second),
		}}),
	}
	op, ok := mergeGroup(group, openapi.NopLogger{})
	require.True(t, ok)
	require.NotNil(t, op.RequestBody)
	assert.Equal(t, "An item", op.RequestBody.Description)
	assert.True(t, op.RequestBody.Required)
	assert.Len(t, op.RequestBody.Content, 2)
	assert.Same(t, second, op.RequestBody.Content["application/json"].Schema)

	assert.Len(t, group[0].Operation.RequestBody.Content, 1, "observations are not modified")
}

func TestMergeResponsesLaterWins(t *testing.T) {
	a, b := openapi.NewResponses(), openapi.NewResponses()
	a.Set(200, &openapi.Response{Description: "first"})
	a.Set(404, &openapi.Response{Description: "missing"})
	b.Set(200, &openapi.Response{Description: "second"})
	b.Default = &openapi.Response{Description: "error"}

	group := []*CalledOperation{
		observed("GET", "/x", &openapi.Operation{Responses: a}),
		observed("GET", "/x", &openapi.Operation{Responses: b}),
	}
	op, ok := mergeGroup(group, openapi.NopLogger{})
	require.True(t, ok)
	assert.Equal(t, 3, op.Responses.Len())
	assert.Equal(t, "second", op.Responses.Get(200).Description)
	assert.Equal(t, "missing", op.Responses.Get(404).Description)
	assert.Equal(t, "error", op.Responses.Default.Description)
}

func TestMergeSecurity(t *testing.T) {
	bearer := []openapi.SecurityRequirement{{"bearer": {}}}
	basic := []openapi.SecurityRequirement{{"basic": {}}}
	none := []openapi.SecurityRequirement{{}}

	tests := []struct {
		name  string
		group []*CalledOperation
		want  []openapi.SecurityRequirement
	}{
		{
			name: "earlier wins without override",
			group: []*CalledOperation{
				observed("GET", "/x", &openapi.Operation{}),
				observed("GET", "/x", &openapi.Operation{Security: bearer}),
				observed("GET", "/x", &openapi.Operation{Security: basic}),
			},
			want: bearer,
		},
		{
			name: "override replaces",
			group: []*CalledOperation{
				observed("GET", "/x", &openapi.Operation{Security: bearer}),
				{OperationID: "op", Method: "GET", Path: "/x", Operation: &openapi.Operation{Security: none}, SecurityOverride: true},
				observed("GET", "/x", &openapi.Operation{Security: basic}),
			},
			want: none,
		},
		{
			name: "nothing recorded",
			group: []*CalledOperation{
				observed("GET", "/x", &openapi.Operation{}),
			},
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, ok := mergeGroup(tt.group, openapi.NopLogger{})
			require.True(t, ok)
			assert.Equal(t, tt.want, op.Security)
		})
	}
}

func TestMergeExtensionsLaterWins(t *testing.T) {
	group := []*CalledOperation{
		observed("GET", "/x", &openapi.Operation{Extra: map[string]any{"x-a": 1, "x-b": "keep"}}),
		observed("GET", "/x", &openapi.Operation{Extra: map[string]any{"x-a": 2}}),
	}
	op, ok := mergeGroup(group, openapi.NopLogger{})
	require.True(t, ok)
	assert.Equal(t, map[string]any{"x-a": 2, "x-b": "keep"}, op.Extra)
}

func TestMergeAbandonsMismatchedGroup(t *testing.T) {
	logger := testutil.NewRecordingLogger()
	group := []*CalledOperation{
		observed("GET", "/users", &openapi.Operation{}),
		observed("GET", "/people", &openapi.Operation{}),
	}
	_, ok := mergeGroup(group, logger)
	assert.False(t, ok)
	assert.Equal(t, []string{"operation group abandoned"}, logger.Warnings())

	_, ok = mergeGroup(nil, logger)
	assert.False(t, ok)
}

func TestMergeOperationID(t *testing.T) {
	withID := func(id string) *CalledOperation {
		o := observed("GET", "/users", &openapi.Operation{})
		o.OperationID = id
		return o
	}
	tests := []struct {
		name  string
		group []*CalledOperation
		want  string
	}{
		{"all derived", []*CalledOperation{withID("get-users"), withID("get-users")}, "get-users"},
		{"explicit after derived", []*CalledOperation{withID("get-users"), withID("listUsers")}, "listUsers"},
		{"explicit before derived", []*CalledOperation{withID("listUsers"), withID("get-users")}, "listUsers"},
		{"first explicit wins", []*CalledOperation{withID("listUsers"), withID("searchUsers")}, "listUsers"},
		{"empty ids", []*CalledOperation{withID(""), withID("")}, "get-users"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, ok := mergeGroup(tt.group, openapi.NopLogger{})
			require.True(t, ok)
			assert.Equal(t, tt.want, op.OperationID)
		})
	}
}
