package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime"
	"mime/multipart"
	"net/textproto"
	"net/url"
	"reflect"
	"slices"
	"strings"

	"github.com/erraggy/oascapture/internal/httputil"
	"github.com/erraggy/oascapture/oaserrors"
	"github.com/erraggy/oascapture/openapi"
	"github.com/erraggy/oascapture/schema"
)

// Content types set by the body constructors.
const (
	ContentTypeJSON      = "application/json"
	ContentTypeForm      = "application/x-www-form-urlencoded"
	ContentTypeText      = "text/plain; charset=utf-8"
	ContentTypeBinary    = "application/octet-stream"
	ContentTypeMultipart = "multipart/form-data"
)

// body is an encoded request body and what the document records about it.
type body struct {
	data        []byte
	contentType string

	schema  *openapi.Schema
	entries []*schema.Entry
	example any

	// typeID is set when example belongs to a registered component
	typeID schema.TypeID
}

func jsonBody(gen *schema.Generator, v any) (*body, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, &oaserrors.RequestError{Field: "body", Message: "cannot encode JSON", Cause: err}
	}
	b := &body{data: data, contentType: ContentTypeJSON}
	if v == nil {
		b.schema = &openapi.Schema{Type: "null"}
		return b, nil
	}

	t := reflect.TypeOf(v)
	b.schema, b.entries = gen.For(t)
	if decoded, ok := decodeJSON(data); ok {
		b.example = decoded
	}
	id := schema.IDOf(derefType(t))
	if slices.ContainsFunc(b.entries, func(e *schema.Entry) bool { return e.ID == id }) {
		b.typeID = id
	}
	return b, nil
}

func formBody(values url.Values) *body {
	s := &openapi.Schema{Type: "object", Properties: make(map[string]*openapi.Schema, len(values))}
	example := make(map[string]any, len(values))
	for name, vs := range values {
		if len(vs) > 1 {
			s.Properties[name] = &openapi.Schema{Type: "array", Items: &openapi.Schema{Type: "string"}}
			items := make([]any, len(vs))
			for i, v := range vs {
				items[i] = v
			}
			example[name] = items
			continue
		}
		s.Properties[name] = &openapi.Schema{Type: "string"}
		if len(vs) == 1 {
			example[name] = vs[0]
		}
	}
	return &body{
		data:        []byte(values.Encode()),
		contentType: ContentTypeForm,
		schema:      s,
		example:     example,
	}
}

func textBody(text string) *body {
	return &body{
		data:        []byte(text),
		contentType: ContentTypeText,
		schema:      &openapi.Schema{Type: "string"},
		example:     text,
	}
}

func binaryBody(data []byte) *body {
	return &body{
		data:        data,
		contentType: ContentTypeBinary,
		schema:      binarySchema(),
	}
}

func rawBody(contentType string, data []byte) (*body, error) {
	if _, _, err := mime.ParseMediaType(contentType); err != nil {
		return nil, &oaserrors.RequestError{Field: "body", Name: contentType, Message: "invalid content type", Cause: err}
	}
	return &body{data: data, contentType: contentType}, nil
}

func binarySchema() *openapi.Schema {
	return &openapi.Schema{Type: "string", Format: "binary"}
}

// requestBody projects b into the operation's request body. The example
// is left to the schema registry when it belongs to a component.
func (b *body) requestBody() *openapi.RequestBody {
	mt := &openapi.MediaType{Schema: b.schema}
	if b.typeID.IsZero() {
		mt.Example = b.example
	}
	return &openapi.RequestBody{
		Required: true,
		Content: map[string]*openapi.MediaType{
			httputil.NormalizeMediaType(b.contentType): mt,
		},
	}
}

// Multipart is a multipart/form-data body under construction.
type Multipart struct {
	parts []multipartPart
}

type multipartPart struct {
	name, filename, contentType string
	data                        []byte
}

// NewMultipart returns an empty multipart body.
func NewMultipart() *Multipart {
	return &Multipart{}
}

// Field adds a text field.
func (m *Multipart) Field(name, value string) *Multipart {
	m.parts = append(m.parts, multipartPart{name: name, data: []byte(value)})
	return m
}

// File adds a file part. An empty contentType defaults to
// application/octet-stream.
func (m *Multipart) File(name, filename, contentType string, data []byte) *Multipart {
	if contentType == "" {
		contentType = ContentTypeBinary
	}
	m.parts = append(m.parts, multipartPart{name: name, filename: filename, contentType: contentType, data: data})
	return m
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func (m *Multipart) encode() (*body, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	s := &openapi.Schema{Type: "object", Properties: make(map[string]*openapi.Schema, len(m.parts))}
	example := make(map[string]any)

	for _, p := range m.parts {
		if p.filename == "" {
			if err := w.WriteField(p.name, string(p.data)); err != nil {
				return nil, &oaserrors.RequestError{Field: "body", Name: p.name, Message: "cannot write multipart field", Cause: err}
			}
			s.Properties[p.name] = &openapi.Schema{Type: "string"}
			example[p.name] = string(p.data)
			continue
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(p.name), quoteEscaper.Replace(p.filename)))
		h.Set("Content-Type", p.contentType)
		pw, err := w.CreatePart(h)
		if err == nil {
			_, err = pw.Write(p.data)
		}
		if err != nil {
			return nil, &oaserrors.RequestError{Field: "body", Name: p.name, Message: "cannot write multipart file", Cause: err}
		}
		fs := binarySchema()
		if p.contentType != ContentTypeBinary {
			fs.ContentMediaType = httputil.NormalizeMediaType(p.contentType)
		}
		s.Properties[p.name] = fs
	}
	if err := w.Close(); err != nil {
		return nil, &oaserrors.RequestError{Field: "body", Message: "cannot close multipart body", Cause: err}
	}

	b := &body{data: buf.Bytes(), contentType: w.FormDataContentType(), schema: s}
	if len(example) > 0 {
		b.example = example
	}
	return b, nil
}

func decodeJSON(data []byte) (any, bool) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, false
	}
	return v, true
}

func derefType(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// truncate returns at most n bytes of data as a string.
func truncate(data []byte, n int) string {
	if len(data) <= n {
		return string(data)
	}
	return strings.ToValidUTF8(string(data[:n]), "")
}
