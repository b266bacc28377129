package client

import (
	"net/http"

	"github.com/erraggy/oascapture/collector"
	"github.com/erraggy/oascapture/internal/httputil"
	"github.com/erraggy/oascapture/oaserrors"
	"github.com/erraggy/oascapture/openapi"
	"github.com/erraggy/oascapture/redact"
	"github.com/erraggy/oascapture/security"
)

// Doer sends an HTTP request. *http.Client implements it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Option configures a Client.
type Option func(*config) error

type config struct {
	doer    Doer
	logger  openapi.Logger
	auth    security.Credential
	headers http.Header

	title, version, description string
	collectorOpts               []collector.Option
}

func defaultConfig() *config {
	return &config{
		doer:    http.DefaultClient,
		logger:  openapi.NopLogger{},
		headers: make(http.Header),
	}
}

// WithDoer sets the transport. The default is http.DefaultClient.
func WithDoer(d Doer) Option {
	return func(cfg *config) error {
		if d == nil {
			return &oaserrors.ConfigError{Option: "doer", Message: "doer is nil"}
		}
		cfg.doer = d
		return nil
	}
}

// WithLogger sets the logger for the client and its collector.
func WithLogger(l openapi.Logger) Option {
	return func(cfg *config) error {
		cfg.logger = openapi.LoggerOrNop(l)
		return nil
	}
}

// WithTitle sets info.title of the generated document.
func WithTitle(title string) Option {
	return func(cfg *config) error {
		cfg.title = title
		return nil
	}
}

// WithAPIVersion sets info.version of the generated document.
func WithAPIVersion(version string) Option {
	return func(cfg *config) error {
		cfg.version = version
		return nil
	}
}

// WithDescription sets info.description of the generated document.
func WithDescription(description string) Option {
	return func(cfg *config) error {
		cfg.description = description
		return nil
	}
}

// WithServer adds a server entry to the generated document.
func WithServer(url, description string) Option {
	return collectorOption(collector.WithServer(url, description))
}

// WithSecurityScheme declares a security scheme under name.
func WithSecurityScheme(name string, s security.Scheme) Option {
	return collectorOption(collector.WithSecurityScheme(name, s))
}

// WithDefaultSecurity sets the document-level security requirements.
// Calls override them with Call.Security or Call.NoSecurity.
func WithDefaultSecurity(reqs ...security.Requirement) Option {
	return collectorOption(collector.WithDefaultSecurity(reqs...))
}

// WithMailboxSize sets the collector mailbox capacity.
func WithMailboxSize(n int) Option {
	return collectorOption(collector.WithMailboxSize(n))
}

// WithOpenAPIVersion sets the openapi field of the generated document.
// Only 3.1.x versions are accepted.
func WithOpenAPIVersion(v string) Option {
	return collectorOption(collector.WithOpenAPIVersion(v))
}

// WithDocumentRedaction applies plan to the document before it is written
// to a file.
func WithDocumentRedaction(plan *redact.Plan) Option {
	return collectorOption(collector.WithRedaction(plan))
}

// WithAuth sets the credential applied to every call. Call.Auth overrides
// it for a single call. The credential is destroyed by Client.Close.
func WithAuth(c security.Credential) Option {
	return func(cfg *config) error {
		if c == nil {
			return &oaserrors.ConfigError{Option: "auth", Message: "credential is nil"}
		}
		cfg.auth = c
		return nil
	}
}

// WithDefaultHeader sends a header on every call. Default headers are not
// documented as parameters.
func WithDefaultHeader(name, value string) Option {
	return func(cfg *config) error {
		if !httputil.IsValidHeaderName(name) {
			return &oaserrors.ConfigError{Option: "default header", Value: name, Message: "invalid header name"}
		}
		if !httputil.IsValidHeaderValue(value) {
			return &oaserrors.ConfigError{Option: "default header", Value: name, Message: "invalid header value"}
		}
		cfg.headers.Add(name, value)
		return nil
	}
}

// collectorOption defers o to collector construction, where it is
// validated.
func collectorOption(o collector.Option) Option {
	return func(cfg *config) error {
		cfg.collectorOpts = append(cfg.collectorOpts, o)
		return nil
	}
}
