package security

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oascapture/oaserrors"
	"github.com/erraggy/oascapture/openapi"
)

func newRequest(t *testing.T) *http.Request {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, "http://example.com/items?a=1", nil)
	require.NoError(t, err)
	return req
}

func TestSchemeProjection(t *testing.T) {
	tests := []struct {
		name   string
		scheme Scheme
		want   *openapi.SecurityScheme
	}{
		{
			name:   "bearer",
			scheme: Bearer{Format: "JWT", Description: "token"},
			want:   &openapi.SecurityScheme{Type: "http", Scheme: "bearer", BearerFormat: "JWT", Description: "token"},
		},
		{
			name:   "basic",
			scheme: Basic{},
			want:   &openapi.SecurityScheme{Type: "http", Scheme: "basic"},
		},
		{
			name:   "api key",
			scheme: APIKey{Name: "X-API-Key", In: InHeader},
			want:   &openapi.SecurityScheme{Type: "apiKey", Name: "X-API-Key", In: "header"},
		},
		{
			name:   "openid connect",
			scheme: OpenIDConnect{URL: "https://example.com/.well-known/openid-configuration"},
			want:   &openapi.SecurityScheme{Type: "openIdConnect", OpenIDConnectURL: "https://example.com/.well-known/openid-configuration"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, tt.scheme.Validate())
			assert.Equal(t, tt.want, tt.scheme.SecurityScheme())
		})
	}
}

func TestOAuth2Projection(t *testing.T) {
	s := OAuth2{Flows: Flows{
		ClientCredentials: &Flow{TokenURL: "https://example.com/token", Scopes: map[string]string{"read": "Read access"}},
		Implicit:          &Flow{AuthorizationURL: "https://example.com/auth"},
	}}
	require.NoError(t, s.Validate())

	got := s.SecurityScheme()
	assert.Equal(t, "oauth2", got.Type)
	require.NotNil(t, got.Flows.ClientCredentials)
	assert.Equal(t, "https://example.com/token", got.Flows.ClientCredentials.TokenURL)
	assert.Equal(t, map[string]string{"read": "Read access"}, got.Flows.ClientCredentials.Scopes)
	require.NotNil(t, got.Flows.Implicit)
	assert.NotNil(t, got.Flows.Implicit.Scopes, "scopes are always emitted")
	assert.Nil(t, got.Flows.Password)

	data, err := json.Marshal(got)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"scopes":{}`)
}

func TestSchemeValidation(t *testing.T) {
	tests := []struct {
		name   string
		scheme Scheme
	}{
		{"api key without name", APIKey{In: InHeader}},
		{"api key bad location", APIKey{Name: "k", In: "body"}},
		{"oauth2 without flows", OAuth2{}},
		{"implicit without auth url", OAuth2{Flows: Flows{Implicit: &Flow{}}}},
		{"password without token url", OAuth2{Flows: Flows{Password: &Flow{}}}},
		{"authorization code without token url", OAuth2{Flows: Flows{AuthorizationCode: &Flow{AuthorizationURL: "https://a"}}}},
		{"openid connect without url", OpenIDConnect{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.scheme.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, oaserrors.ErrConfig))
		})
	}
}

func TestProjectRequirements(t *testing.T) {
	assert.Nil(t, Project(nil))
	assert.Equal(t, []openapi.SecurityRequirement{{}}, Project([]Requirement{NoSecurity}))
	assert.Equal(t,
		[]openapi.SecurityRequirement{{"bearerAuth": {}}, {"oauth": {"read", "write"}}},
		Project([]Requirement{Require("bearerAuth"), Require("oauth", "read", "write")}))
	assert.True(t, NoSecurity.IsNone())
	assert.False(t, Require("x").IsNone())
}

func TestSecretNeverPrints(t *testing.T) {
	s := NewSecret("hunter2")
	assert.Equal(t, "hunter2", s.Reveal())

	for _, out := range []string{
		s.String(),
		fmt.Sprintf("%v", s),
		fmt.Sprintf("%+v", s),
		fmt.Sprintf("%#v", s),
		fmt.Sprintf("%s", s),
		fmt.Sprintf("%q", s),
		fmt.Sprintf("%x", s),
	} {
		assert.NotContains(t, out, "hunter2")
		assert.Contains(t, out, "REDACTED")
	}

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	logger.Info("login", "secret", s)
	assert.NotContains(t, buf.String(), "hunter2")

	data, err := json.Marshal(struct{ S *Secret }{s})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hunter2")

	s.Destroy()
	assert.True(t, s.IsDestroyed())
	assert.Empty(t, s.Reveal())
}

func TestSecretDestroyZeroesBytes(t *testing.T) {
	s := NewSecret("abc")
	backing := s.value
	s.Destroy()
	assert.Equal(t, []byte{0, 0, 0}, backing)
}

func TestBearerCredential(t *testing.T) {
	req := newRequest(t)
	require.NoError(t, BearerToken("abc.DEF-123_~+/=").Apply(context.Background(), req))
	assert.Equal(t, "Bearer abc.DEF-123_~+/=", req.Header.Get("Authorization"))

	err := BearerToken("bad token\n").Apply(context.Background(), newRequest(t))
	require.Error(t, err)
	assert.True(t, errors.Is(err, oaserrors.ErrAuth))
	assert.NotContains(t, err.Error(), "bad token")

	assert.NotContains(t, fmt.Sprint(BearerToken("topsecret")), "topsecret")
}

func TestBasicCredential(t *testing.T) {
	req := newRequest(t)
	require.NoError(t, BasicAuth("alice", "s3cret").Apply(context.Background(), req))
	user, pass, ok := req.BasicAuth()
	require.True(t, ok)
	assert.Equal(t, "alice", user)
	assert.Equal(t, "s3cret", pass)

	err := BasicAuth("al:ice", "x").Apply(context.Background(), newRequest(t))
	assert.True(t, errors.Is(err, oaserrors.ErrAuth))

	assert.NotContains(t, BasicAuth("alice", "s3cret").String(), "s3cret")
}

func TestAPIKeyCredential(t *testing.T) {
	req := newRequest(t)
	require.NoError(t, APIKeyAuth("X-API-Key", InHeader, "k1").Apply(context.Background(), req))
	assert.Equal(t, "k1", req.Header.Get("X-API-Key"))

	req = newRequest(t)
	require.NoError(t, APIKeyAuth("api_key", InQuery, "k2").Apply(context.Background(), req))
	assert.Equal(t, "k2", req.URL.Query().Get("api_key"))
	assert.Equal(t, "1", req.URL.Query().Get("a"))

	req = newRequest(t)
	require.NoError(t, APIKeyAuth("key", InCookie, "k3").Apply(context.Background(), req))
	cookie, err := req.Cookie("key")
	require.NoError(t, err)
	assert.Equal(t, "k3", cookie.Value)

	err = APIKeyAuth("Bad Header", InHeader, "k").Apply(context.Background(), newRequest(t))
	assert.True(t, errors.Is(err, oaserrors.ErrAuth))
}

func tokenServer(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		require.NoError(t, r.ParseForm())
		id, secret, _ := r.BasicAuth()
		if r.Form.Get("grant_type") != "client_credentials" || id != "client" || secret != "secret" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"invalid_client"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-1","token_type":"Bearer","expires_in":3600}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOAuth2ClientCredentials(t *testing.T) {
	var calls atomic.Int32
	srv := tokenServer(t, &calls)

	cred := OAuth2ClientCredentials(ClientCredentialsConfig{
		ClientID:     "client",
		ClientSecret: "secret",
		TokenURL:     srv.URL,
		Scopes:       []string{"read"},
		HTTPClient:   srv.Client(),
	})

	for range 3 {
		req := newRequest(t)
		require.NoError(t, cred.Apply(context.Background(), req))
		assert.Equal(t, "Bearer tok-1", req.Header.Get("Authorization"))
	}
	assert.Equal(t, int32(1), calls.Load(), "token is cached")
	assert.NotContains(t, cred.String(), "secret")

	cred.Destroy()
	err := cred.Apply(context.Background(), newRequest(t))
	assert.True(t, errors.Is(err, oaserrors.ErrAuth))
}

func TestOAuth2TokenNotAcquired(t *testing.T) {
	var calls atomic.Int32
	srv := tokenServer(t, &calls)

	cred := OAuth2ClientCredentials(ClientCredentialsConfig{
		ClientID:     "client",
		ClientSecret: "wrong",
		TokenURL:     srv.URL,
		HTTPClient:   srv.Client(),
	})
	err := cred.Apply(context.Background(), newRequest(t))
	require.Error(t, err)
	assert.True(t, errors.Is(err, oaserrors.ErrAuth))
	assert.Contains(t, err.Error(), "token not acquired")
	assert.Contains(t, err.Error(), "invalid_client")
	assert.NotContains(t, err.Error(), "wrong")
}

func TestOAuth2NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	cred := OAuth2ClientCredentials(ClientCredentialsConfig{ClientID: "c", ClientSecret: "s", TokenURL: url})
	err := cred.Apply(context.Background(), newRequest(t))
	require.Error(t, err)
	assert.True(t, errors.Is(err, oaserrors.ErrAuth))
	assert.Contains(t, err.Error(), "unreachable")
}
