package param

import (
	"net/url"
	"strings"

	"github.com/erraggy/oascapture/oaserrors"
	"github.com/erraggy/oascapture/openapi"
)

// values returns the scalar or array items of r.
func (r *Resolved) values() []string {
	if r.Kind == KindScalar {
		return []string{r.Scalar}
	}
	return r.Array
}

// PathToken renders r for substitution into a path template. The whole
// token, including label and matrix prefixes, is percent-encoded at every
// byte that is not an ASCII letter or digit.
func (r *Resolved) PathToken() (string, error) {
	if r.Kind == KindObject || r.Style == StyleDeepObject {
		return "", &oaserrors.ParameterError{
			Name:    r.Name,
			In:      string(Path),
			Style:   r.Style.String(),
			Message: "deepObject is not supported in path",
		}
	}
	joined := strings.Join(r.values(), ",")
	var token string
	switch r.Style {
	case StyleLabel:
		token = "." + joined
	case StyleMatrix:
		token = ";" + r.Name + "=" + joined
	default:
		token = joined
	}
	return EncodeNonAlphanumeric(token), nil
}

// QueryPairs renders r as ordered query string pairs, unescaped.
func (r *Resolved) QueryPairs() []Pair {
	switch r.Kind {
	case KindObject:
		pairs := make([]Pair, 0, len(r.Object))
		for _, p := range r.Object {
			pairs = append(pairs, Pair{Key: r.Name + "[" + p.Key + "]", Value: p.Value})
		}
		return pairs
	case KindScalar:
		return []Pair{{Key: r.Name, Value: r.Scalar}}
	}

	switch r.Style {
	case StyleSpaceDelimited:
		return []Pair{{Key: r.Name, Value: strings.Join(r.Array, " ")}}
	case StylePipeDelimited:
		return []Pair{{Key: r.Name, Value: strings.Join(r.Array, "|")}}
	default:
		// Exploded form repeats the key
		pairs := make([]Pair, 0, len(r.Array))
		for _, v := range r.Array {
			pairs = append(pairs, Pair{Key: r.Name, Value: v})
		}
		return pairs
	}
}

// HeaderValue renders r as a header value: the scalar, or the array
// items joined with commas.
func (r *Resolved) HeaderValue() string {
	return strings.Join(r.values(), ",")
}

// CookiePair renders r as "name=value", joining arrays with commas.
func (r *Resolved) CookiePair() string {
	return r.Name + "=" + strings.Join(r.values(), ",")
}

// Explode returns the effective explode setting of r.
func (r *Resolved) Explode() bool {
	switch {
	case r.In == Query && r.Style == StyleForm:
		return true
	case r.Style == StyleDeepObject:
		return true
	default:
		return false
	}
}

// Parameter projects r into an OpenAPI parameter. Style and explode are
// only written when they differ from the location defaults.
func (r *Resolved) Parameter() *openapi.Parameter {
	p := &openapi.Parameter{
		Name:     r.Name,
		In:       string(r.In),
		Required: r.In == Path,
		Schema:   r.Schema,
		Example:  r.Example,
	}
	if r.Style != StyleDefault.For(r.In) {
		p.Style = string(r.Style)
	}
	if explode := r.Explode(); explode != defaultExplode(r.Style) {
		p.Explode = &explode
	}
	return p
}

// EncodeQuery encodes ordered pairs as a query string, without the
// leading '?'.
func EncodeQuery(pairs []Pair) string {
	var b strings.Builder
	for i, p := range pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}

// CookieHeader joins rendered cookie pairs into a Cookie header value.
func CookieHeader(params []*Resolved) string {
	parts := make([]string, 0, len(params))
	for _, r := range params {
		parts = append(parts, r.CookiePair())
	}
	return strings.Join(parts, "; ")
}

// EncodeNonAlphanumeric percent-encodes every byte of s that is not an
// ASCII letter or digit.
func EncodeNonAlphanumeric(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9') {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0F])
	}
	return b.String()
}
