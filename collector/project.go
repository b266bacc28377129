package collector

import (
	"encoding/json"

	"github.com/erraggy/oascapture/openapi"
	"github.com/erraggy/oascapture/security"
)

// project builds the document from the current state. Paths appear in the
// order their first operation was observed. The returned document shares
// nothing with the state.
func (s *state) project() *openapi.Document {
	doc := &openapi.Document{
		OpenAPI: s.cfg.openAPIVersion,
		Info:    s.cfg.info.Clone(),
		Paths:   openapi.NewPaths(),
	}
	for _, srv := range s.cfg.servers {
		doc.Servers = append(doc.Servers, srv.Clone())
	}

	ids := make(map[string]string)
	for _, key := range s.order {
		group := s.groups[key]
		op, ok := mergeGroup(group, s.logger)
		if !ok {
			continue
		}
		method, path := group[0].Method, group[0].Path
		if taken, ok := ids[op.OperationID]; ok {
			derived := group[0].defaultID()
			s.logger.Warn("duplicate operation id replaced by derived id",
				"operationId", op.OperationID, "endpoint", key, "usedBy", taken, "replacement", derived)
			op.OperationID = derived
		}

		item := doc.Paths.Get(path)
		if item == nil {
			item = &openapi.PathItem{}
		}
		if !item.SetOperation(method, op) {
			s.logger.Warn("unsupported HTTP method", "operationId", op.OperationID, "method", method, "path", path)
			continue
		}
		ids[op.OperationID] = key
		doc.Paths.Set(path, item)
	}

	components := &openapi.Components{Schemas: s.registry.Components()}
	if len(s.cfg.schemes) > 0 {
		components.SecuritySchemes = make(map[string]*openapi.SecurityScheme, len(s.cfg.schemes))
		for _, ns := range s.cfg.schemes {
			components.SecuritySchemes[ns.name] = ns.scheme.SecurityScheme()
		}
	}
	if !components.IsEmpty() {
		doc.Components = components
	}
	doc.Security = security.Project(s.cfg.defaultSecurity)

	// Operations still share schemas with the stored observations, so refs
	// are resolved on a copy.
	out := doc.Clone()
	out.WalkSchemas(s.registry.ResolveRef)
	return out
}

// decodeExample parses a JSON example. Empty or malformed input yields
// false.
func decodeExample(data []byte) (any, bool) {
	if len(data) == 0 {
		return nil, false
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, false
	}
	return v, true
}
