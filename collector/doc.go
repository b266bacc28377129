// Package collector accumulates observed HTTP exchanges and projects them
// into an OpenAPI 3.1 document.
//
// A Collector owns its state in a single goroutine. Producers post
// messages to its mailbox and move on:
//
//	c, _ := collector.New(collector.WithInfo("Shop", "1.0.0", ""))
//	defer c.Close()
//
//	c.Post(collector.AddSchemaEntry{Entry: entry})
//	c.Post(collector.RegisterOperation{Operation: called})
//	c.Post(collector.RegisterResponse{OperationID: called.OperationID, CallID: called.CallID, Status: 200})
//
//	doc, err := c.Document(ctx)
//
// Messages from one producer are applied in the order they were posted, so
// a schema entry posted before a response is known when the response is
// recorded. Document applies everything posted before it was called.
//
// # Merging
//
// Observations of the same method and path are merged when the document
// is projected, whatever operation ids they carry; the first explicitly set
// id is kept. Tags are unioned, the first description wins, parameters are
// keyed by name and location (first wins), request body media types and
// response status codes are unioned (later wins), and deprecated is
// or-merged. A per-call security override replaces earlier requirements.
// An id already used by another endpoint is replaced by the derived one.
//
// # Output
//
// WriteFile writes YAML for .yml and .yaml paths and JSON otherwise.
// WriteSplit moves component schemas into a second file. WithRedaction
// post-processes the document before it is written.
package collector
