package security

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/erraggy/oascapture/internal/httputil"
	"github.com/erraggy/oascapture/oaserrors"
)

// Credential authenticates an outgoing request.
type Credential interface {
	// Apply adds the credential to req. Malformed credentials and token
	// acquisition failures return an *oaserrors.AuthError.
	Apply(ctx context.Context, req *http.Request) error
	// Destroy wipes the secret material.
	Destroy()
}

// b64token is the RFC 6750 bearer token syntax.
var b64token = regexp.MustCompile(`^[A-Za-z0-9\-._~+/]+=*$`)

// BearerCredential sends "Authorization: Bearer <token>".
type BearerCredential struct {
	token *Secret
}

// BearerToken returns a bearer credential.
func BearerToken(token string) *BearerCredential {
	return &BearerCredential{token: NewSecret(token)}
}

// Apply implements Credential.
func (c *BearerCredential) Apply(_ context.Context, req *http.Request) error {
	token := c.token.Reveal()
	if !b64token.MatchString(token) {
		return &oaserrors.AuthError{Scheme: "bearer", Message: "token contains invalid characters"}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

// Destroy implements Credential.
func (c *BearerCredential) Destroy() { c.token.Destroy() }

// String implements fmt.Stringer.
func (c *BearerCredential) String() string { return "Bearer(" + redacted + ")" }

// BasicCredential sends HTTP basic authentication.
type BasicCredential struct {
	username string
	password *Secret
}

// BasicAuth returns a basic credential.
func BasicAuth(username, password string) *BasicCredential {
	return &BasicCredential{username: username, password: NewSecret(password)}
}

// Apply implements Credential.
func (c *BasicCredential) Apply(_ context.Context, req *http.Request) error {
	if strings.Contains(c.username, ":") {
		return &oaserrors.AuthError{Scheme: "basic", Message: "username must not contain ':'"}
	}
	req.SetBasicAuth(c.username, c.password.Reveal())
	return nil
}

// Destroy implements Credential.
func (c *BasicCredential) Destroy() { c.password.Destroy() }

// String implements fmt.Stringer.
func (c *BasicCredential) String() string {
	return fmt.Sprintf("Basic(%s:%s)", c.username, redacted)
}

// APIKeyCredential sends an API key in a header, query parameter or cookie.
type APIKeyCredential struct {
	name  string
	in    APIKeyLocation
	value *Secret
}

// APIKeyAuth returns an API key credential.
func APIKeyAuth(name string, in APIKeyLocation, value string) *APIKeyCredential {
	return &APIKeyCredential{name: name, in: in, value: NewSecret(value)}
}

// Apply implements Credential.
func (c *APIKeyCredential) Apply(_ context.Context, req *http.Request) error {
	value := c.value.Reveal()
	switch c.in {
	case InHeader:
		if !httputil.IsValidHeaderName(c.name) {
			return &oaserrors.AuthError{Scheme: "apiKey", Message: fmt.Sprintf("invalid header name %q", c.name)}
		}
		if !httputil.IsValidHeaderValue(value) {
			return &oaserrors.AuthError{Scheme: "apiKey", Message: "key contains invalid header characters"}
		}
		req.Header.Set(c.name, value)
	case InQuery:
		q := req.URL.Query()
		q.Set(c.name, value)
		req.URL.RawQuery = q.Encode()
	case InCookie:
		req.AddCookie(&http.Cookie{Name: c.name, Value: value})
	default:
		return &oaserrors.AuthError{Scheme: "apiKey", Message: fmt.Sprintf("unsupported location %q", c.in)}
	}
	return nil
}

// Destroy implements Credential.
func (c *APIKeyCredential) Destroy() { c.value.Destroy() }

// String implements fmt.Stringer.
func (c *APIKeyCredential) String() string {
	return fmt.Sprintf("APIKey(%s in %s: %s)", c.name, c.in, redacted)
}

// ClientCredentialsConfig configures the OAuth2 client credentials grant.
type ClientCredentialsConfig struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	Scopes       []string
	// HTTPClient is used to reach the token endpoint. Defaults to
	// http.DefaultClient.
	HTTPClient *http.Client
}

// OAuth2Credential acquires a bearer token with the client credentials
// grant and caches it until it expires.
type OAuth2Credential struct {
	clientID   string
	secret     *Secret
	tokenURL   string
	scopes     []string
	httpClient *http.Client

	mu     sync.Mutex
	source oauth2.TokenSource
}

// OAuth2ClientCredentials returns an OAuth2 client credentials credential.
func OAuth2ClientCredentials(cfg ClientCredentialsConfig) *OAuth2Credential {
	return &OAuth2Credential{
		clientID:   cfg.ClientID,
		secret:     NewSecret(cfg.ClientSecret),
		tokenURL:   cfg.TokenURL,
		scopes:     cfg.Scopes,
		httpClient: cfg.HTTPClient,
	}
}

// tokenSource returns the cached token source, creating it on first use.
// The source outlives the request context that created it.
func (c *OAuth2Credential) tokenSource(ctx context.Context) oauth2.TokenSource {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.source != nil {
		return c.source
	}
	conf := &clientcredentials.Config{
		ClientID:     c.clientID,
		ClientSecret: c.secret.Reveal(),
		TokenURL:     c.tokenURL,
		Scopes:       c.scopes,
	}
	ctx = context.WithoutCancel(ctx)
	if c.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	}
	c.source = conf.TokenSource(ctx)
	return c.source
}

// Apply implements Credential.
func (c *OAuth2Credential) Apply(ctx context.Context, req *http.Request) error {
	if c.secret.IsDestroyed() {
		return &oaserrors.AuthError{Scheme: "oauth2", Message: "credential destroyed"}
	}
	tok, err := c.tokenSource(ctx).Token()
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) {
			msg := "token not acquired"
			if re.ErrorCode != "" {
				msg += ": " + re.ErrorCode
			}
			return &oaserrors.AuthError{Scheme: "oauth2", Message: msg}
		}
		return &oaserrors.AuthError{Scheme: "oauth2", Message: "token endpoint unreachable", Cause: err}
	}
	if tok.AccessToken == "" {
		return &oaserrors.AuthError{Scheme: "oauth2", Message: "token not acquired: empty access token"}
	}
	tok.SetAuthHeader(req)
	return nil
}

// Destroy implements Credential.
func (c *OAuth2Credential) Destroy() {
	c.secret.Destroy()
	c.mu.Lock()
	c.source = nil
	c.mu.Unlock()
}

// String implements fmt.Stringer.
func (c *OAuth2Credential) String() string {
	return fmt.Sprintf("OAuth2(%s: %s)", c.clientID, redacted)
}

var (
	_ Credential = (*BearerCredential)(nil)
	_ Credential = (*BasicCredential)(nil)
	_ Credential = (*APIKeyCredential)(nil)
	_ Credential = (*OAuth2Credential)(nil)
)
