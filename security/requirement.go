package security

import (
	"slices"

	"github.com/erraggy/oascapture/openapi"
)

// Requirement selects a declared scheme with the scopes it needs. Scopes
// are empty for every scheme but OAuth2 and OpenID Connect.
type Requirement struct {
	Scheme string
	Scopes []string
}

// NoSecurity is the empty requirement. Used as a per-call override it
// removes every requirement from the operation, projecting as [{}].
var NoSecurity = Requirement{}

// Require returns a requirement for the named scheme.
func Require(scheme string, scopes ...string) Requirement {
	return Requirement{Scheme: scheme, Scopes: scopes}
}

// IsNone reports whether r is the empty requirement.
func (r Requirement) IsNone() bool {
	return r.Scheme == ""
}

// Project converts alternative requirements into their OpenAPI form. Each
// requirement becomes its own entry; NoSecurity becomes {}.
func Project(reqs []Requirement) []openapi.SecurityRequirement {
	if reqs == nil {
		return nil
	}
	out := make([]openapi.SecurityRequirement, 0, len(reqs))
	for _, r := range reqs {
		if r.IsNone() {
			out = append(out, openapi.SecurityRequirement{})
			continue
		}
		scopes := slices.Clone(r.Scopes)
		if scopes == nil {
			scopes = []string{}
		}
		out = append(out, openapi.SecurityRequirement{r.Scheme: scopes})
	}
	return out
}
