package collector

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/erraggy/oascapture/internal/fileutil"
	"github.com/erraggy/oascapture/openapi"
)

// WriteFile serializes the current document to path: YAML for .yml and
// .yaml, JSON otherwise. The document is fully serialized before anything
// is written, and the file is replaced atomically.
func (c *Collector) WriteFile(ctx context.Context, path string) error {
	doc, err := c.Document(ctx)
	if err != nil {
		return err
	}
	data, err := c.encode(doc, openapi.FormatFromPath(path))
	if err != nil {
		return err
	}
	if err := fileutil.WriteAtomic(path, data, fileutil.OwnerReadWrite); err != nil {
		return err
	}
	c.logger.Debug("document written", "path", path, "bytes", len(data))
	return nil
}

// WriteSplit writes the document to docPath and its component schemas to
// schemasPath. References in the main document point into the schemas
// file, relative to the main document's directory.
func (c *Collector) WriteSplit(ctx context.Context, docPath, schemasPath string) error {
	doc, err := c.Document(ctx)
	if err != nil {
		return err
	}
	ref, err := filepath.Rel(filepath.Dir(docPath), schemasPath)
	if err != nil {
		ref = schemasPath
	}
	main, schemas := SplitSchemas(doc, filepath.ToSlash(ref))

	mainData, err := c.encode(main, openapi.FormatFromPath(docPath))
	if err != nil {
		return err
	}
	schemaData, err := c.encode(schemas, openapi.FormatFromPath(schemasPath))
	if err != nil {
		return err
	}
	if err := fileutil.WriteAtomic(schemasPath, schemaData, fileutil.OwnerReadWrite); err != nil {
		return err
	}
	return fileutil.WriteAtomic(docPath, mainData, fileutil.OwnerReadWrite)
}

// encode serializes doc, running the redaction plan over the JSON form
// first when one is configured.
func (c *Collector) encode(doc *openapi.Document, format openapi.Format) ([]byte, error) {
	if c.redaction != nil && c.redaction.Len() > 0 {
		raw, err := openapi.Marshal(doc, openapi.FormatJSON)
		if err != nil {
			return nil, fmt.Errorf("encode document: %w", err)
		}
		if raw, err = c.redaction.ApplyJSON(raw); err != nil {
			return nil, err
		}
		order := doc.Paths.Keys()
		if doc, err = openapi.Unmarshal(raw); err != nil {
			return nil, fmt.Errorf("decode redacted document: %w", err)
		}
		restorePathOrder(doc, order)
	}
	data, err := openapi.Marshal(doc, format)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return data, nil
}

// restorePathOrder puts the paths of doc back in the given order. Decoding
// through a generic JSON value sorts object keys.
func restorePathOrder(doc *openapi.Document, order []string) {
	if doc.Paths == nil {
		return
	}
	sorted := openapi.NewPaths()
	for _, k := range order {
		if item := doc.Paths.Get(k); item != nil {
			sorted.Set(k, item)
		}
	}
	for k, item := range doc.Paths.All() {
		if sorted.Get(k) == nil {
			sorted.Set(k, item)
		}
	}
	doc.Paths = sorted
}

// SplitSchemas moves components.schemas of doc into a second document and
// rewrites every local schema reference of the first to
// <schemasFile>#/components/schemas/<name>. doc is not modified.
func SplitSchemas(doc *openapi.Document, schemasFile string) (main, schemas *openapi.Document) {
	main = doc.Clone()
	schemas = &openapi.Document{
		OpenAPI:    doc.OpenAPI,
		Info:       doc.Info.Clone(),
		Components: &openapi.Components{},
	}
	if main.Components == nil {
		return main, schemas
	}

	schemas.Components.Schemas = main.Components.Schemas
	main.Components.Schemas = nil
	if main.Components.IsEmpty() {
		main.Components = nil
	}
	main.WalkSchemas(func(s *openapi.Schema) {
		if strings.HasPrefix(s.Ref, openapi.SchemaRefPrefix) {
			s.Ref = schemasFile + s.Ref
		}
	})
	return main, schemas
}
