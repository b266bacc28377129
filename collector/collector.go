package collector

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/erraggy/oascapture/internal/httputil"
	"github.com/erraggy/oascapture/openapi"
	"github.com/erraggy/oascapture/redact"
	"github.com/erraggy/oascapture/schema"
)

// Collector accumulates observed operations and schemas and projects them
// into an OpenAPI document.
//
// All state is owned by a single goroutine that reads the mailbox. Post
// never takes a lock: it is a channel send that only waits while the
// mailbox is full. Create a Collector with New and stop it with Close.
type Collector struct {
	mailbox chan Message
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once

	// finalMu guards state once the goroutine has stopped.
	finalMu sync.Mutex
	state   *state

	logger    openapi.Logger
	redaction *redact.Plan
}

// New creates a Collector and starts its goroutine.
func New(opts ...Option) (*Collector, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	c := &Collector{
		mailbox:   make(chan Message, cfg.mailboxSize),
		done:      make(chan struct{}),
		stopped:   make(chan struct{}),
		state:     newState(cfg),
		logger:    cfg.logger,
		redaction: cfg.redaction,
	}
	go c.run()
	return c, nil
}

func (c *Collector) run() {
	defer close(c.stopped)
	for {
		select {
		case m := <-c.mailbox:
			m.apply(c.state)
		case <-c.done:
			for {
				select {
				case m := <-c.mailbox:
					m.apply(c.state)
				default:
					return
				}
			}
		}
	}
}

// Post sends m to the collector goroutine. Messages posted after Close are
// dropped.
func (c *Collector) Post(m Message) {
	select {
	case <-c.done:
		return
	default:
	}
	select {
	case c.mailbox <- m:
	case <-c.done:
	}
}

// Document processes every message posted so far and returns the projected
// document. The result is a fresh copy owned by the caller.
func (c *Collector) Document(ctx context.Context) (*openapi.Document, error) {
	req := snapshot{reply: make(chan *openapi.Document, 1)}
	select {
	case c.mailbox <- req:
	case <-c.stopped:
		return c.finalDocument(), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case doc := <-req.reply:
		return doc, nil
	case <-c.stopped:
		select {
		case doc := <-req.reply:
			return doc, nil
		default:
			return c.finalDocument(), nil
		}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// finalDocument projects the state after the goroutine has exited.
func (c *Collector) finalDocument() *openapi.Document {
	c.finalMu.Lock()
	defer c.finalMu.Unlock()
	return c.state.project()
}

// Close stops the collector goroutine after it has applied the messages
// already in the mailbox. Document keeps working on the final state.
func (c *Collector) Close() {
	c.once.Do(func() { close(c.done) })
	<-c.stopped
}

// state is the collector's data. Only the collector goroutine touches it
// while running.
type state struct {
	cfg      *config
	logger   openapi.Logger
	registry *schema.Registry

	// groups are keyed by "METHOD path"; order holds keys in first-seen order.
	order  []string
	groups map[string][]*CalledOperation
	byID   map[string]string
	byCall map[uuid.UUID]*CalledOperation
}

func newState(cfg *config) *state {
	return &state{
		cfg:      cfg,
		logger:   cfg.logger,
		registry: schema.NewRegistry(cfg.logger),
		groups:   make(map[string][]*CalledOperation),
		byID:     make(map[string]string),
		byCall:   make(map[uuid.UUID]*CalledOperation),
	}
}

func (s *state) registerOperation(op CalledOperation) {
	op.Method = strings.ToUpper(op.Method)
	if op.OperationID == "" {
		op.OperationID = op.defaultID()
	}
	if op.Operation == nil {
		op.Operation = &openapi.Operation{}
	}
	if op.Operation.Responses == nil {
		op.Operation.Responses = openapi.NewResponses()
	}

	stored := &op
	key := op.key()
	if _, ok := s.groups[key]; !ok {
		s.order = append(s.order, key)
	}
	s.groups[key] = append(s.groups[key], stored)
	s.byID[op.OperationID] = key
	if op.CallID != uuid.Nil {
		s.byCall[op.CallID] = stored
	}
}

// observation finds the observation a response belongs to: the one with
// the same call id, or else the latest observation of the operation.
func (s *state) observation(operationID string, callID uuid.UUID) *CalledOperation {
	if callID != uuid.Nil {
		if op, ok := s.byCall[callID]; ok {
			return op
		}
	}
	group := s.groups[s.byID[operationID]]
	if len(group) == 0 {
		return nil
	}
	return group[len(group)-1]
}

func (s *state) registerResponse(m RegisterResponse, example []byte) {
	obs := s.observation(m.OperationID, m.CallID)
	if obs == nil {
		s.logger.Warn("response for unknown operation", "operationId", m.OperationID, "status", m.Status)
		return
	}

	desc := m.Description
	if desc == "" {
		desc = httputil.StatusDescription(m.Status)
	}
	resp := &openapi.Response{Description: desc}
	if m.ContentType != "" {
		mt := &openapi.MediaType{Schema: m.Schema}
		if v, ok := decodeExample(example); ok {
			mt.Example = v
		}
		resp.Content = map[string]*openapi.MediaType{
			httputil.NormalizeMediaType(m.ContentType): mt,
		}
	}
	obs.Operation.Responses.Set(m.Status, resp)
}
