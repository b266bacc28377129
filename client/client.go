package client

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/erraggy/oascapture/collector"
	"github.com/erraggy/oascapture/oaserrors"
	"github.com/erraggy/oascapture/openapi"
	"github.com/erraggy/oascapture/schema"
	"github.com/erraggy/oascapture/security"
)

// Client sends requests to one API and records every exchange. A Client
// is safe for concurrent use; each Call belongs to one goroutine.
type Client struct {
	baseURL   string
	doer      Doer
	logger    openapi.Logger
	auth      security.Credential
	headers   http.Header
	generator *schema.Generator
	collector *collector.Collector
}

// New creates a client for the API at baseURL. Invalid options are
// reported as an *oaserrors.ConfigError.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, &oaserrors.ConfigError{Option: "base URL", Value: baseURL, Message: "invalid URL", Cause: err}
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, &oaserrors.ConfigError{Option: "base URL", Value: baseURL, Message: "scheme and host are required"}
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	copts := []collector.Option{
		collector.WithLogger(cfg.logger),
		collector.WithInfo(cfg.title, cfg.version, cfg.description),
	}
	copts = append(copts, cfg.collectorOpts...)
	col, err := collector.New(copts...)
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL:   strings.TrimSuffix(u.String(), "/"),
		doer:      cfg.doer,
		logger:    cfg.logger,
		auth:      cfg.auth,
		headers:   cfg.headers,
		generator: schema.NewGenerator(),
		collector: col,
	}, nil
}

// Get starts a GET call to the path template.
func (c *Client) Get(path string) *Call { return c.Request(http.MethodGet, path) }

// Post starts a POST call to the path template.
func (c *Client) Post(path string) *Call { return c.Request(http.MethodPost, path) }

// Put starts a PUT call to the path template.
func (c *Client) Put(path string) *Call { return c.Request(http.MethodPut, path) }

// Patch starts a PATCH call to the path template.
func (c *Client) Patch(path string) *Call { return c.Request(http.MethodPatch, path) }

// Delete starts a DELETE call to the path template.
func (c *Client) Delete(path string) *Call { return c.Request(http.MethodDelete, path) }

// Head starts a HEAD call to the path template.
func (c *Client) Head(path string) *Call { return c.Request(http.MethodHead, path) }

// Options starts an OPTIONS call to the path template.
func (c *Client) Options(path string) *Call { return c.Request(http.MethodOptions, path) }

// Request starts a call with an arbitrary method.
func (c *Client) Request(method, path string) *Call {
	return newCall(c, strings.ToUpper(method), path)
}

// Document returns the document built from every call completed so far.
func (c *Client) Document(ctx context.Context) (*openapi.Document, error) {
	return c.collector.Document(ctx)
}

// WriteFile writes the document to path, as YAML for .yml and .yaml and
// JSON otherwise. Parent directories are created.
func (c *Client) WriteFile(ctx context.Context, path string) error {
	return c.collector.WriteFile(ctx, path)
}

// WriteSplit writes the document to docPath and its component schemas to
// schemasPath.
func (c *Client) WriteSplit(ctx context.Context, docPath, schemasPath string) error {
	return c.collector.WriteSplit(ctx, docPath, schemasPath)
}

// Close stops the collector and destroys the client credential. The
// document stays available.
func (c *Client) Close() {
	c.collector.Close()
	if c.auth != nil {
		c.auth.Destroy()
	}
}
