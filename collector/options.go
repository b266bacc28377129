package collector

import (
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/erraggy/oascapture/oaserrors"
	"github.com/erraggy/oascapture/openapi"
	"github.com/erraggy/oascapture/redact"
	"github.com/erraggy/oascapture/security"
)

// DefaultMailboxSize is the mailbox capacity used when WithMailboxSize is
// not given.
const DefaultMailboxSize = 256

// supportedVersions constrains the OpenAPI version written to documents.
var supportedVersions = mustConstraint("~3.1")

func mustConstraint(c string) *semver.Constraints {
	constraint, err := semver.NewConstraint(c)
	if err != nil {
		panic(err)
	}
	return constraint
}

// Option configures a Collector.
type Option func(*config) error

type namedScheme struct {
	name   string
	scheme security.Scheme
}

type config struct {
	logger          openapi.Logger
	mailboxSize     int
	openAPIVersion  string
	info            openapi.Info
	servers         []*openapi.Server
	schemes         []namedScheme
	defaultSecurity []security.Requirement
	redaction       *redact.Plan
}

func defaultConfig() *config {
	return &config{
		logger:         openapi.NopLogger{},
		mailboxSize:    DefaultMailboxSize,
		openAPIVersion: openapi.Version,
		info:           openapi.Info{Title: "API", Version: "1.0.0"},
	}
}

// validate checks settings that depend on more than one option.
func (c *config) validate() error {
	for _, req := range c.defaultSecurity {
		if req.IsNone() || c.hasScheme(req.Scheme) {
			continue
		}
		return &oaserrors.ConfigError{
			Option:  "default security",
			Value:   req.Scheme,
			Message: "requirement names an undeclared security scheme",
		}
	}
	return nil
}

func (c *config) hasScheme(name string) bool {
	for _, s := range c.schemes {
		if s.name == name {
			return true
		}
	}
	return false
}

// WithLogger sets the logger for warnings raised while collecting and
// projecting. The default discards everything.
func WithLogger(l openapi.Logger) Option {
	return func(cfg *config) error {
		cfg.logger = openapi.LoggerOrNop(l)
		return nil
	}
}

// WithMailboxSize sets the mailbox capacity. Posting only blocks when the
// mailbox is full.
func WithMailboxSize(n int) Option {
	return func(cfg *config) error {
		if n < 1 {
			return &oaserrors.ConfigError{Option: "mailbox size", Value: n, Message: "must be at least 1"}
		}
		cfg.mailboxSize = n
		return nil
	}
}

// WithOpenAPIVersion sets the openapi field of the document. Only 3.1.x
// versions are accepted.
func WithOpenAPIVersion(v string) Option {
	return func(cfg *config) error {
		ver, err := semver.StrictNewVersion(v)
		if err != nil {
			return &oaserrors.ConfigError{Option: "openapi version", Value: v, Message: "not a semantic version", Cause: err}
		}
		if !supportedVersions.Check(ver) {
			return &oaserrors.ConfigError{
				Option:  "openapi version",
				Value:   v,
				Message: fmt.Sprintf("must satisfy %s", supportedVersions),
			}
		}
		cfg.openAPIVersion = ver.String()
		return nil
	}
}

// WithInfo sets the document title, version and description.
func WithInfo(title, version, description string) Option {
	return func(cfg *config) error {
		if title != "" {
			cfg.info.Title = title
		}
		if version != "" {
			cfg.info.Version = version
		}
		cfg.info.Description = description
		return nil
	}
}

// WithServer adds a server entry.
func WithServer(url, description string) Option {
	return func(cfg *config) error {
		if url == "" {
			return &oaserrors.ConfigError{Option: "server", Message: "URL is required"}
		}
		cfg.servers = append(cfg.servers, &openapi.Server{URL: url, Description: description})
		return nil
	}
}

// WithSecurityScheme declares a security scheme under name.
func WithSecurityScheme(name string, s security.Scheme) Option {
	return func(cfg *config) error {
		if name == "" {
			return &oaserrors.ConfigError{Option: "security scheme", Message: "name is required"}
		}
		if s == nil {
			return &oaserrors.ConfigError{Option: "security scheme", Value: name, Message: "scheme is nil"}
		}
		if cfg.hasScheme(name) {
			return &oaserrors.ConfigError{Option: "security scheme", Value: name, Message: "declared twice"}
		}
		if err := s.Validate(); err != nil {
			return err
		}
		cfg.schemes = append(cfg.schemes, namedScheme{name: name, scheme: s})
		return nil
	}
}

// WithDefaultSecurity sets the document-level security requirements. Each
// requirement is an alternative.
func WithDefaultSecurity(reqs ...security.Requirement) Option {
	return func(cfg *config) error {
		cfg.defaultSecurity = append(cfg.defaultSecurity, reqs...)
		return nil
	}
}

// WithRedaction applies plan to the serialized document before it is
// written to a file.
func WithRedaction(plan *redact.Plan) Option {
	return func(cfg *config) error {
		if err := plan.Err(); err != nil {
			return &oaserrors.ConfigError{Option: "redaction", Message: "invalid plan", Cause: err}
		}
		cfg.redaction = plan
		return nil
	}
}
