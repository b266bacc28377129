package collector

import (
	"maps"
	"slices"

	"github.com/erraggy/oascapture/openapi"
)

// mergeGroup folds the observations of one method and path, oldest first,
// into a single operation. It returns false when the observations disagree
// on method or path; the group is then abandoned.
//
// Rules:
//   - operation id: first explicit id, else the derived one
//   - tags: union, sorted
//   - summary, description, external docs: first non-empty
//   - parameters: keyed by name and location, first wins
//   - request body: content union with the later media type winning,
//     first non-empty description, required or-merged
//   - responses: keyed by status, later wins
//   - security: a per-call override replaces, otherwise the earliest wins
//   - deprecated: or-merged
//   - extensions: union, later wins
func mergeGroup(group []*CalledOperation, logger openapi.Logger) (*openapi.Operation, bool) {
	if len(group) == 0 {
		return nil, false
	}
	first := group[0]
	for _, o := range group[1:] {
		if o.key() != first.key() {
			logger.Warn("operation group abandoned",
				"operationId", first.OperationID,
				"first", first.key(),
				"conflict", o.key())
			return nil, false
		}
	}

	merged := &openapi.Operation{
		OperationID: groupID(group, logger),
		Responses:   openapi.NewResponses(),
	}
	tags := make(map[string]bool)
	params := make(map[openapi.ParameterKey]bool)
	securitySet := false

	for _, o := range group {
		op := o.Operation
		for _, t := range op.Tags {
			tags[t] = true
		}
		if merged.Summary == "" {
			merged.Summary = op.Summary
		}
		if merged.Description == "" {
			merged.Description = op.Description
		}
		if merged.ExternalDocs == nil {
			merged.ExternalDocs = op.ExternalDocs
		}
		for _, p := range op.Parameters {
			if p == nil || params[p.Key()] {
				continue
			}
			params[p.Key()] = true
			merged.Parameters = append(merged.Parameters, p)
		}
		merged.RequestBody = mergeRequestBody(merged.RequestBody, op.RequestBody)
		if op.Responses != nil {
			if op.Responses.Default != nil {
				merged.Responses.Default = op.Responses.Default
			}
			maps.Copy(merged.Responses.Codes, op.Responses.Codes)
		}
		switch {
		case o.SecurityOverride:
			merged.Security = op.Security
			securitySet = true
		case !securitySet && op.Security != nil:
			merged.Security = op.Security
			securitySet = true
		}
		merged.Deprecated = merged.Deprecated || op.Deprecated
		if len(op.Extra) > 0 {
			if merged.Extra == nil {
				merged.Extra = make(map[string]any, len(op.Extra))
			}
			maps.Copy(merged.Extra, op.Extra)
		}
	}

	if len(tags) > 0 {
		merged.Tags = slices.Sorted(maps.Keys(tags))
	}
	return merged, true
}

// groupID returns the first explicitly chosen operation id of the group,
// or the derived id when every observation used it.
func groupID(group []*CalledOperation, logger openapi.Logger) string {
	derived := group[0].defaultID()
	id := ""
	for _, o := range group {
		if o.OperationID == "" || o.OperationID == derived {
			continue
		}
		if id == "" {
			id = o.OperationID
			continue
		}
		if o.OperationID != id {
			logger.Debug("operation id ignored in merge",
				"kept", id, "ignored", o.OperationID, "endpoint", o.key())
		}
	}
	if id == "" {
		return derived
	}
	return id
}

func mergeRequestBody(into, from *openapi.RequestBody) *openapi.RequestBody {
	if from == nil {
		return into
	}
	if into == nil {
		into = &openapi.RequestBody{Content: make(map[string]*openapi.MediaType)}
	}
	if into.Description == "" {
		into.Description = from.Description
	}
	into.Required = into.Required || from.Required
	maps.Copy(into.Content, from.Content)
	return into
}
