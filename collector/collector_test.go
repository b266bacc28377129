package collector

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/erraggy/oascapture/internal/testutil"
	"github.com/erraggy/oascapture/oaserrors"
	"github.com/erraggy/oascapture/openapi"
	"github.com/erraggy/oascapture/schema"
	"github.com/erraggy/oascapture/security"
)

type Pet struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Owner struct {
	Name string `json:"name"`
	Pets []Pet  `json:"pets"`
}

func newCollector(t *testing.T, opts ...Option) *Collector {
	t.Helper()
	c, err := New(opts...)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func document(t *testing.T, c *Collector) *openapi.Document {
	t.Helper()
	doc, err := c.Document(context.Background())
	require.NoError(t, err)
	return doc
}

// postSchema posts the entries for T and returns its reference schema.
func postSchema[T any](c *Collector, g *schema.Generator) *openapi.Schema {
	ref, entries := schema.For[T](g)
	for _, e := range entries {
		c.Post(AddSchemaEntry{Entry: e})
	}
	return ref
}

func called(method, path string) CalledOperation {
	return CalledOperation{
		CallID:    uuid.New(),
		Method:    method,
		Path:      path,
		Operation: &openapi.Operation{},
	}
}

func TestDocumentDefaults(t *testing.T) {
	doc := document(t, newCollector(t))
	assert.Equal(t, "3.1.0", doc.OpenAPI)
	assert.Equal(t, "API", doc.Info.Title)
	assert.Equal(t, "1.0.0", doc.Info.Version)
	assert.Equal(t, 0, doc.Paths.Len())
	assert.Nil(t, doc.Components)
	assert.Nil(t, doc.Security)
}

func TestDocumentProjectsOperationsInFirstSeenOrder(t *testing.T) {
	c := newCollector(t,
		WithInfo("Pets", "2.0.0", "Pet store"),
		WithServer("https://pets.example.com", "production"),
	)

	for _, op := range []CalledOperation{
		called("GET", "/pets"),
		called("POST", "/pets"),
		called("GET", "/owners"),
		called("get", "/pets/{id}"),
		called("GET", "/pets"),
	} {
		c.Post(RegisterOperation{Operation: op})
	}

	doc := document(t, c)
	assert.Equal(t, "Pets", doc.Info.Title)
	assert.Equal(t, "Pet store", doc.Info.Description)
	require.Len(t, doc.Servers, 1)
	assert.Equal(t, "https://pets.example.com", doc.Servers[0].URL)

	assert.Equal(t, []string{"/pets", "/owners", "/pets/{id}"}, doc.Paths.Keys())
	pets := doc.Paths.Get("/pets")
	require.NotNil(t, pets.Get)
	require.NotNil(t, pets.Post)
	assert.Equal(t, "get-pets", pets.Get.OperationID)
	assert.Equal(t, "post-pets", pets.Post.OperationID)
	assert.Equal(t, "get-pets-id", doc.Paths.Get("/pets/{id}").Get.OperationID)
}

func TestResponsesResolveSchemaReferences(t *testing.T) {
	c := newCollector(t)
	g := schema.NewGenerator()

	op := called("GET", "/owners/{id}")
	c.Post(RegisterOperation{Operation: op})
	ref := postSchema[Owner](c, g)
	c.Post(RegisterResponseWithExample{
		RegisterResponse: RegisterResponse{
			OperationID: "get-owners-id",
			CallID:      op.CallID,
			Status:      200,
			ContentType: "application/json; charset=utf-8",
			Schema:      ref,
		},
		Example: []byte(`{"name":"Ann","pets":[{"id":1,"name":"Rex"}]}`),
	})
	c.Post(AddExample{ID: schema.IDFor[Owner](), JSON: []byte(`{"name":"Ann","pets":[]}`)})

	doc := document(t, c)
	get := doc.Paths.Get("/owners/{id}").Get
	resp := get.Responses.Get(200)
	require.NotNil(t, resp)
	assert.Equal(t, "OK", resp.Description)
	mt := resp.Content["application/json"]
	require.NotNil(t, mt)
	assert.Equal(t, "#/components/schemas/Owner", mt.Schema.Ref)
	assert.Nil(t, mt.Schema.GoType)
	assert.Equal(t, map[string]any{"name": "Ann", "pets": []any{map[string]any{"id": 1.0, "name": "Rex"}}}, mt.Example)

	require.NotNil(t, doc.Components)
	require.Contains(t, doc.Components.Schemas, "Owner")
	require.Contains(t, doc.Components.Schemas, "Pet")
	assert.Equal(t, "#/components/schemas/Pet", doc.Components.Schemas["Owner"].Properties["pets"].Items.Ref)
	assert.Len(t, doc.Components.Schemas["Owner"].Examples, 1)
}

func TestDocumentIsIndependentCopy(t *testing.T) {
	c := newCollector(t)
	g := schema.NewGenerator()
	op := called("GET", "/pets")
	c.Post(RegisterOperation{Operation: op})
	ref := postSchema[[]Pet](c, g)
	c.Post(RegisterResponse{OperationID: "get-pets", CallID: op.CallID, Status: 200, ContentType: "application/json", Schema: ref})

	first := document(t, c)
	first.Paths.Get("/pets").Get.Responses.Get(200).Content["application/json"].Schema.Items.Ref = "mutated"
	first.Info.Title = "mutated"

	second := document(t, c)
	assert.Equal(t, "#/components/schemas/Pet", second.Paths.Get("/pets").Get.Responses.Get(200).Content["application/json"].Schema.Items.Ref)
	assert.Equal(t, "API", second.Info.Title)
}

func TestResponseAttachesToItsCall(t *testing.T) {
	c := newCollector(t)
	first, second := called("GET", "/x"), called("GET", "/x")
	c.Post(RegisterOperation{Operation: first})
	c.Post(RegisterOperation{Operation: second})
	c.Post(RegisterResponse{OperationID: "get-x", CallID: first.CallID, Status: 200, Description: "from first"})
	c.Post(RegisterResponse{OperationID: "get-x", Status: 404})

	doc := document(t, c)
	op := doc.Paths.Get("/x").Get
	assert.Equal(t, "from first", op.Responses.Get(200).Description)
	assert.Equal(t, "Not Found", op.Responses.Get(404).Description)
	assert.Nil(t, op.Responses.Get(404).Content)
}

func TestResponseForUnknownOperationWarns(t *testing.T) {
	logger := testutil.NewRecordingLogger()
	c := newCollector(t, WithLogger(logger))
	c.Post(RegisterResponse{OperationID: "nope", Status: 200})

	doc := document(t, c)
	assert.Equal(t, 0, doc.Paths.Len())
	assert.Equal(t, []string{"response for unknown operation"}, logger.Warnings())
}

func TestUnsupportedMethodWarns(t *testing.T) {
	logger := testutil.NewRecordingLogger()
	c := newCollector(t, WithLogger(logger))
	c.Post(RegisterOperation{Operation: called("CONNECT", "/tunnel")})
	c.Post(RegisterOperation{Operation: called("GET", "/ok")})

	doc := document(t, c)
	assert.Equal(t, []string{"/ok"}, doc.Paths.Keys())
	assert.Equal(t, []string{"unsupported HTTP method"}, logger.Warnings())
}

func TestSameMethodAndPathMergeAcrossIDs(t *testing.T) {
	logger := testutil.NewRecordingLogger()
	c := newCollector(t, WithLogger(logger))

	named := called("GET", "/x")
	named.OperationID = "listX"
	named.Operation.Parameters = []*openapi.Parameter{{Name: "page", In: "query"}}
	derived := called("GET", "/x")
	derived.Operation.Parameters = []*openapi.Parameter{{Name: "limit", In: "query"}}
	renamed := called("GET", "/x")
	renamed.OperationID = "listXAgain"

	c.Post(RegisterOperation{Operation: named})
	c.Post(RegisterOperation{Operation: derived})
	c.Post(RegisterOperation{Operation: renamed})
	c.Post(RegisterResponse{OperationID: "listX", CallID: named.CallID, Status: 200})
	c.Post(RegisterResponse{OperationID: "get-x", CallID: derived.CallID, Status: 400})
	c.Post(RegisterResponse{OperationID: "listXAgain", Status: 404})

	doc := document(t, c)
	op := doc.Paths.Get("/x").Get
	require.NotNil(t, op)
	assert.Equal(t, "listX", op.OperationID)
	require.Len(t, op.Parameters, 2)
	assert.Equal(t, "page", op.Parameters[0].Name)
	assert.Equal(t, "limit", op.Parameters[1].Name)
	assert.Equal(t, 3, op.Responses.Len())
	for _, status := range []int{200, 400, 404} {
		assert.NotNil(t, op.Responses.Get(status), status)
	}
	assert.Empty(t, logger.Warnings())
}

func TestDuplicateOperationIDAcrossEndpoints(t *testing.T) {
	logger := testutil.NewRecordingLogger()
	c := newCollector(t, WithLogger(logger))

	users := called("GET", "/users")
	users.OperationID = "list"
	pets := called("GET", "/pets")
	pets.OperationID = "list"
	c.Post(RegisterOperation{Operation: users})
	c.Post(RegisterOperation{Operation: pets})

	doc := document(t, c)
	assert.Equal(t, "list", doc.Paths.Get("/users").Get.OperationID)
	assert.Equal(t, "get-pets", doc.Paths.Get("/pets").Get.OperationID)
	assert.Equal(t, []string{"duplicate operation id replaced by derived id"}, logger.Warnings())
}

func TestSecurityProjection(t *testing.T) {
	c := newCollector(t,
		WithSecurityScheme("bearerAuth", security.Bearer{Format: "JWT"}),
		WithSecurityScheme("apiKey", security.APIKey{Name: "X-Key", In: security.InHeader}),
		WithDefaultSecurity(security.Require("bearerAuth"), security.Require("apiKey")),
	)
	public := called("GET", "/health")
	public.Operation.Security = security.Project([]security.Requirement{security.NoSecurity})
	public.SecurityOverride = true
	c.Post(RegisterOperation{Operation: public})

	doc := document(t, c)
	require.NotNil(t, doc.Components)
	assert.Equal(t, "bearer", doc.Components.SecuritySchemes["bearerAuth"].Scheme)
	assert.Equal(t, "apiKey", doc.Components.SecuritySchemes["apiKey"].Type)
	assert.Equal(t, []openapi.SecurityRequirement{{"bearerAuth": {}}, {"apiKey": {}}}, doc.Security)
	assert.Equal(t, []openapi.SecurityRequirement{{}}, doc.Paths.Get("/health").Get.Security)
}

func TestOptionErrors(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"mailbox size", WithMailboxSize(0)},
		{"old openapi version", WithOpenAPIVersion("3.0.3")},
		{"future openapi version", WithOpenAPIVersion("3.2.0")},
		{"not a version", WithOpenAPIVersion("latest")},
		{"empty server", WithServer("", "")},
		{"unnamed scheme", WithSecurityScheme("", security.Basic{})},
		{"nil scheme", WithSecurityScheme("x", nil)},
		{"invalid scheme", WithSecurityScheme("oidc", security.OpenIDConnect{})},
		{"undeclared default", WithDefaultSecurity(security.Require("missing"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opt)
			require.Error(t, err)
			assert.True(t, errors.Is(err, oaserrors.ErrConfig))
		})
	}

	_, err := New(WithSecurityScheme("a", security.Basic{}), WithSecurityScheme("a", security.Basic{}))
	assert.True(t, errors.Is(err, oaserrors.ErrConfig))
}

func TestOpenAPIVersionOption(t *testing.T) {
	c := newCollector(t, WithOpenAPIVersion("3.1.1"))
	assert.Equal(t, "3.1.1", document(t, c).OpenAPI)
}

func TestCloseDropsLaterPosts(t *testing.T) {
	c, err := New(WithMailboxSize(1))
	require.NoError(t, err)
	c.Post(RegisterOperation{Operation: called("GET", "/before")})
	c.Close()
	c.Close()
	c.Post(RegisterOperation{Operation: called("GET", "/after")})

	doc, err := c.Document(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"/before"}, doc.Paths.Keys())
}

func TestDocumentHonorsCancelledContext(t *testing.T) {
	c, err := New(WithMailboxSize(1))
	require.NoError(t, err)
	c.Close()

	// A stopped collector answers from its final state without the mailbox.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	doc, err := c.Document(ctx)
	if err != nil {
		assert.ErrorIs(t, err, context.Canceled)
	} else {
		assert.NotNil(t, doc)
	}
}

func TestConcurrentPosts(t *testing.T) {
	c := newCollector(t, WithMailboxSize(4))
	g := schema.NewGenerator()

	var eg errgroup.Group
	for i := range 50 {
		eg.Go(func() error {
			op := called("GET", fmt.Sprintf("/items/%d", i%10))
			c.Post(RegisterOperation{Operation: op})
			ref := postSchema[Pet](c, g)
			c.Post(RegisterResponse{CallID: op.CallID, Status: 200, ContentType: "application/json", Schema: ref})
			return nil
		})
	}
	require.NoError(t, eg.Wait())

	doc := document(t, c)
	assert.Equal(t, 10, doc.Paths.Len())
	for _, path := range doc.Paths.Keys() {
		resp := doc.Paths.Get(path).Get.Responses.Get(200)
		require.NotNil(t, resp, path)
		assert.Equal(t, "#/components/schemas/Pet", resp.Content["application/json"].Schema.Ref)
	}
	assert.Len(t, doc.Components.Schemas, 1)
}
