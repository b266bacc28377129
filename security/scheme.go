// Package security declares the security schemes and requirements that
// oascapture projects into generated documents, and the credentials a
// client attaches to outgoing requests.
//
// Schemes describe how an API is protected; they end up in
// components.securitySchemes. Requirements select schemes for the whole
// document or for a single operation:
//
//	client.New(srv.URL,
//	    client.WithSecurityScheme("bearerAuth", security.Bearer{Format: "JWT"}),
//	    client.WithDefaultSecurity(security.Require("bearerAuth")),
//	    client.WithAuth(security.BearerToken(token)),
//	)
//
// Credentials hold their secret material in a [Secret], which never prints
// and can be wiped with Destroy.
package security

import (
	"fmt"
	"maps"

	"github.com/erraggy/oascapture/oaserrors"
	"github.com/erraggy/oascapture/openapi"
)

// Scheme is a declared security scheme.
type Scheme interface {
	// SecurityScheme projects the scheme into its OpenAPI form.
	SecurityScheme() *openapi.SecurityScheme
	// Validate reports missing or inconsistent settings.
	Validate() error
}

// Bearer is HTTP bearer authentication.
type Bearer struct {
	// Format is a hint about the token format, such as "JWT"
	Format      string
	Description string
}

// SecurityScheme implements Scheme.
func (b Bearer) SecurityScheme() *openapi.SecurityScheme {
	return &openapi.SecurityScheme{
		Type:         openapi.SchemeTypeHTTP,
		Scheme:       "bearer",
		BearerFormat: b.Format,
		Description:  b.Description,
	}
}

// Validate implements Scheme.
func (Bearer) Validate() error { return nil }

// Basic is HTTP basic authentication.
type Basic struct {
	Description string
}

// SecurityScheme implements Scheme.
func (b Basic) SecurityScheme() *openapi.SecurityScheme {
	return &openapi.SecurityScheme{
		Type:        openapi.SchemeTypeHTTP,
		Scheme:      "basic",
		Description: b.Description,
	}
}

// Validate implements Scheme.
func (Basic) Validate() error { return nil }

// APIKeyLocation is where an API key is sent.
type APIKeyLocation string

// API key locations.
const (
	InHeader APIKeyLocation = "header"
	InQuery  APIKeyLocation = "query"
	InCookie APIKeyLocation = "cookie"
)

// APIKey is an API key sent in a header, query parameter or cookie.
type APIKey struct {
	Name        string
	In          APIKeyLocation
	Description string
}

// SecurityScheme implements Scheme.
func (k APIKey) SecurityScheme() *openapi.SecurityScheme {
	return &openapi.SecurityScheme{
		Type:        openapi.SchemeTypeAPIKey,
		Name:        k.Name,
		In:          string(k.In),
		Description: k.Description,
	}
}

// Validate implements Scheme.
func (k APIKey) Validate() error {
	if k.Name == "" {
		return &oaserrors.ConfigError{Option: "security scheme", Message: "API key name is required"}
	}
	switch k.In {
	case InHeader, InQuery, InCookie:
		return nil
	default:
		return &oaserrors.ConfigError{
			Option:  "security scheme",
			Value:   string(k.In),
			Message: "API key location must be header, query or cookie",
		}
	}
}

// Flow is one OAuth2 flow. Which URLs are required depends on the flow.
type Flow struct {
	AuthorizationURL string
	TokenURL         string
	RefreshURL       string
	Scopes           map[string]string
}

func (f *Flow) project() *openapi.OAuthFlow {
	if f == nil {
		return nil
	}
	scopes := maps.Clone(f.Scopes)
	if scopes == nil {
		scopes = map[string]string{}
	}
	return &openapi.OAuthFlow{
		AuthorizationURL: f.AuthorizationURL,
		TokenURL:         f.TokenURL,
		RefreshURL:       f.RefreshURL,
		Scopes:           scopes,
	}
}

// Flows lists the OAuth2 flows a scheme supports. At least one is required.
type Flows struct {
	Implicit          *Flow
	Password          *Flow
	ClientCredentials *Flow
	AuthorizationCode *Flow
}

// OAuth2 is OAuth 2.0 authentication.
type OAuth2 struct {
	Flows       Flows
	Description string
}

// SecurityScheme implements Scheme.
func (o OAuth2) SecurityScheme() *openapi.SecurityScheme {
	return &openapi.SecurityScheme{
		Type:        openapi.SchemeTypeOAuth2,
		Description: o.Description,
		Flows: &openapi.OAuthFlows{
			Implicit:          o.Flows.Implicit.project(),
			Password:          o.Flows.Password.project(),
			ClientCredentials: o.Flows.ClientCredentials.project(),
			AuthorizationCode: o.Flows.AuthorizationCode.project(),
		},
	}
}

// Validate implements Scheme.
func (o OAuth2) Validate() error {
	f := o.Flows
	if f.Implicit == nil && f.Password == nil && f.ClientCredentials == nil && f.AuthorizationCode == nil {
		return &oaserrors.ConfigError{Option: "security scheme", Message: "OAuth2 requires at least one flow"}
	}
	checks := []struct {
		name      string
		flow      *Flow
		needsAuth bool
		needsTok  bool
	}{
		{"implicit", f.Implicit, true, false},
		{"password", f.Password, false, true},
		{"clientCredentials", f.ClientCredentials, false, true},
		{"authorizationCode", f.AuthorizationCode, true, true},
	}
	for _, c := range checks {
		if c.flow == nil {
			continue
		}
		if c.needsAuth && c.flow.AuthorizationURL == "" {
			return &oaserrors.ConfigError{
				Option:  "security scheme",
				Message: fmt.Sprintf("OAuth2 %s flow requires an authorization URL", c.name),
			}
		}
		if c.needsTok && c.flow.TokenURL == "" {
			return &oaserrors.ConfigError{
				Option:  "security scheme",
				Message: fmt.Sprintf("OAuth2 %s flow requires a token URL", c.name),
			}
		}
	}
	return nil
}

// OpenIDConnect is OpenID Connect discovery based authentication.
type OpenIDConnect struct {
	URL         string
	Description string
}

// SecurityScheme implements Scheme.
func (o OpenIDConnect) SecurityScheme() *openapi.SecurityScheme {
	return &openapi.SecurityScheme{
		Type:             openapi.SchemeTypeOpenIDConnect,
		OpenIDConnectURL: o.URL,
		Description:      o.Description,
	}
}

// Validate implements Scheme.
func (o OpenIDConnect) Validate() error {
	if o.URL == "" {
		return &oaserrors.ConfigError{Option: "security scheme", Message: "OpenID Connect URL is required"}
	}
	return nil
}
