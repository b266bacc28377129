// Package oascapture builds an OpenAPI 3.1 document from the HTTP calls an
// integration test suite makes.
//
// Tests talk to the API under test through a [client.Client]. Every exchange
// is observed and its contract reconstructed: the path template and its
// parameters, the request body, the status code, the response schema and a
// representative example. Repeated calls to the same operation are merged,
// Go types become component schemas, and the result is written as JSON or
// YAML when the suite finishes.
//
// # Packages
//
//   - client: fluent request builder and typed response consumers
//   - collector: single-writer aggregation of observations and document writing
//   - schema: reflection based schema generation and component naming
//   - param: parameter styles and path templates
//   - security: security schemes, requirements and credentials
//   - redact: JSON Pointer and JSONPath redaction of recorded examples
//   - openapi: the OpenAPI 3.1 object model and its codecs
//   - oaserrors: error types shared by every package
//
// # Quick Start
//
//	func TestMain(m *testing.M) {
//	    srv := httptest.NewServer(api.Handler())
//	    c, err := client.New(srv.URL,
//	        client.WithTitle("Shop"),
//	        client.WithAPIVersion("1.0.0"),
//	    )
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    shop = c
//
//	    code := m.Run()
//	    if err := c.WriteFile(context.Background(), "testdata/openapi.yaml"); err != nil {
//	        log.Fatal(err)
//	    }
//	    c.Close()
//	    srv.Close()
//	    os.Exit(code)
//	}
//
//	func TestGetUser(t *testing.T) {
//	    resp, err := shop.Get("/users/{id}").PathParam("id", 42).Exchange(t.Context())
//	    require.NoError(t, err)
//	    user, err := client.JSON[User](resp)
//	    require.NoError(t, err)
//	    assert.Equal(t, 42, user.ID)
//	}
//
// # Redacting examples
//
// Examples come from real responses. Sensitive values are replaced before
// they reach the document while the caller keeps the original:
//
//	got, err := client.RedactJSON[User](resp).
//	    ReplaceValue("$.email", "user@example.com").
//	    Replace("/id", redact.StableID("user")).
//	    Finish()
//
// A [redact.Plan] passed to client.WithDocumentRedaction is applied to the
// whole document when it is written.
package oascapture
