package client

import (
	"reflect"

	"github.com/erraggy/oascapture/oaserrors"
	"github.com/erraggy/oascapture/redact"
)

// RedactionBuilder consumes a JSON response like [JSON], but records a
// redacted copy of the body as the example. The caller still receives the
// real value.
//
//	got, err := client.RedactJSON[[]Item](resp).
//	    Replace("$[*].id", redact.Value("REDACTED")).
//	    Remove("$[*].updatedAt", redact.AllowEmptyMatch()).
//	    Finish()
type RedactionBuilder[T any] struct {
	resp     *Response
	optional bool
	plan     *redact.Plan
}

// Redacted is the outcome of a redacted consumption.
type Redacted[T any] struct {
	// Value is the response decoded without redaction
	Value T
	// JSON is the redacted body, as recorded in the document
	JSON []byte
}

// RedactJSON starts a redacted consumption of a JSON response into T.
func RedactJSON[T any](r *Response) *RedactionBuilder[T] {
	return &RedactionBuilder[T]{resp: r, plan: redact.New()}
}

// RedactOptionalJSON is RedactJSON for endpoints that may answer 204 or
// 404, in which case Finish returns nil.
func RedactOptionalJSON[T any](r *Response) *RedactionBuilder[T] {
	return &RedactionBuilder[T]{resp: r, optional: true, plan: redact.New()}
}

// Replace rewrites every match of path with the redactor's value. Paths
// starting with '/' are JSON Pointers, paths starting with '$' are
// JSONPath queries.
func (b *RedactionBuilder[T]) Replace(path string, r redact.Redactor, opts ...redact.Option) *RedactionBuilder[T] {
	b.plan.Replace(path, r, opts...)
	return b
}

// ReplaceValue rewrites every match of path with v.
func (b *RedactionBuilder[T]) ReplaceValue(path string, v any, opts ...redact.Option) *RedactionBuilder[T] {
	return b.Replace(path, redact.Value(v), opts...)
}

// Remove deletes every match of path.
func (b *RedactionBuilder[T]) Remove(path string, opts ...redact.Option) *RedactionBuilder[T] {
	b.plan.Remove(path, opts...)
	return b
}

// Finish consumes the response. It decodes the body into T, applies the
// plan to a copy of the body and records the copy as the response and
// component example. Invalid paths and plans that match nothing fail with
// an *oaserrors.RedactionError and record nothing.
func (b *RedactionBuilder[T]) Finish() (*Redacted[T], error) {
	r := b.resp
	if err := r.begin(); err != nil {
		return nil, err
	}
	if err := b.plan.Err(); err != nil {
		return nil, err
	}
	if b.optional && r.isAbsent() {
		r.recordAbsent()
		return nil, nil
	}
	if r.kind != kindJSON {
		return nil, r.unsupported(oaserrors.OutputJSON)
	}

	v, err := decode[T](r)
	if err != nil {
		return nil, err
	}
	redacted, err := b.plan.ApplyJSON(r.body)
	if err != nil {
		return nil, err
	}

	r.recordJSON(reflect.TypeFor[T](), redacted)
	return &Redacted[T]{Value: v, JSON: redacted}, nil
}
