// Package redact rewrites decoded JSON values with redaction plans so that
// captured examples stay stable across runs.
//
// A plan is an ordered list of actions. Each action targets a path and
// either replaces every matched value or removes it:
//
//	plan := redact.New().
//	    Replace("$[*].id", redact.StableID("user")).
//	    Replace("/meta/createdAt", redact.Value("2024-01-01T00:00:00Z")).
//	    Remove("$..etag", redact.AllowEmptyMatch())
//	out, err := plan.Apply(decoded)
//
// # Path language
//
// A path beginning with "/" is an RFC 6901 JSON Pointer and matches at most
// one value. A path beginning with "$" is an RFC 9535 JSONPath expression
// and may match many: wildcards, recursive descent, slices and filters are
// supported. Both forms resolve to concrete JSON Pointers before the
// redactor runs, and the matched pointer is passed to function redactors.
//
// # Empty matches
//
// A path that matches nothing is an error, which catches typos in plans.
// Pass [AllowEmptyMatch] for optional fields.
//
// Apply never modifies its input. All failures are *oaserrors.RedactionError.
package redact
