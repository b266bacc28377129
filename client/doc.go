// Package client is an HTTP client for integration tests that writes an
// OpenAPI 3.1 document describing the calls it made.
//
// Each call is built fluently, exchanged, and its response consumed with a
// typed accessor. Every step records part of the contract: the path
// template and its parameters, the request body and its schema, the status
// code, the response schema and an example.
//
//	c, err := client.New(srv.URL, client.WithTitle("Shop"), client.WithAPIVersion("1.0.0"))
//	if err != nil {
//	    t.Fatal(err)
//	}
//	defer c.Close()
//
//	resp, err := c.Get("/users/{id}").PathParam("id", 42).Exchange(ctx)
//	require.NoError(t, err)
//	user, err := client.JSON[User](resp)
//	require.NoError(t, err)
//
//	require.NoError(t, c.WriteFile(ctx, "testdata/openapi.yaml"))
//
// # Consuming responses
//
// A [Response] must be consumed. Exchange registers the operation, but its
// responses are only recorded by the consumer: Empty, Text, Bytes, Raw,
// [JSON], [OptionalJSON], [ResultJSON], [ResultOptionalJSON] or a
// [RedactionBuilder]. An unconsumed response is not an error, it is simply
// missing from the document.
//
// # Expected statuses
//
// By default any status in [200, 500) is expected. Other statuses fail the
// exchange with an *oaserrors.UnexpectedStatusError carrying the first
// 1024 bytes of the body, and nothing is recorded.
//
// # Concurrency
//
// A Client may be shared by goroutines. A Call and its Response belong to
// the goroutine that created them. Recording never blocks on other calls;
// Document and WriteFile see every call that completed before them.
package client
