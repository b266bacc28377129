package collector

import (
	"github.com/google/uuid"

	"github.com/erraggy/oascapture/internal/naming"
	"github.com/erraggy/oascapture/openapi"
	"github.com/erraggy/oascapture/schema"
)

// CalledOperation is one observed exchange, before merging.
type CalledOperation struct {
	// CallID identifies the exchange. Responses recorded with the same
	// CallID attach to this observation.
	CallID uuid.UUID
	// OperationID names the operation. Observations of one method and path
	// merge even when their ids differ; the first explicit id is kept.
	OperationID string
	Method      string
	// Path is the path template, such as /users/{id}.
	Path      string
	Operation *openapi.Operation
	// SecurityOverride marks Operation.Security as a per-call override that
	// replaces whatever earlier observations recorded.
	SecurityOverride bool
}

// key identifies the endpoint the observation belongs to.
func (o *CalledOperation) key() string {
	return o.Method + " " + o.Path
}

// defaultID is the operation id derived from method and path.
func (o *CalledOperation) defaultID() string {
	return naming.Slugify(o.Method + " " + o.Path)
}

// Message is a mutation of the collector state. Messages are processed in
// posting order by the collector goroutine. The sender must not modify a
// message after posting it.
type Message interface {
	apply(s *state)
}

// RegisterOperation records an observation.
type RegisterOperation struct {
	Operation CalledOperation
}

func (m RegisterOperation) apply(s *state) { s.registerOperation(m.Operation) }

// AddSchemaEntry registers a component schema. Entries already known are
// ignored.
type AddSchemaEntry struct {
	Entry *schema.Entry
}

func (m AddSchemaEntry) apply(s *state) {
	if m.Entry != nil {
		s.registry.Add(m.Entry)
	}
}

// AddExample records a JSON example for a registered type. Malformed JSON
// is dropped.
type AddExample struct {
	ID   schema.TypeID
	JSON []byte
}

func (m AddExample) apply(s *state) { s.registry.AddExample(m.ID, m.JSON) }

// RegisterResponse records the response observed for a call.
type RegisterResponse struct {
	OperationID string
	CallID      uuid.UUID
	Status      int
	// ContentType is the response media type. Empty means no content.
	ContentType string
	// Schema describes the content; nil records the media type alone.
	Schema *openapi.Schema
	// Description defaults to the status text.
	Description string
}

func (m RegisterResponse) apply(s *state) { s.registerResponse(m, nil) }

// RegisterResponseWithExample records a response together with a JSON
// example of its content.
type RegisterResponseWithExample struct {
	RegisterResponse
	Example []byte
}

func (m RegisterResponseWithExample) apply(s *state) { s.registerResponse(m.RegisterResponse, m.Example) }

// snapshot asks the collector goroutine for a projected document. Because
// the mailbox is FIFO, every message posted before it has been applied.
type snapshot struct {
	reply chan *openapi.Document
}

func (m snapshot) apply(s *state) { m.reply <- s.project() }
