package security

import (
	"fmt"
	"log/slog"
	"sync"
)

const redacted = "[REDACTED]"

// Secret holds credential material. It never prints its value: String,
// GoString, Format and LogValue all render a placeholder. Destroy zeroes
// the bytes.
type Secret struct {
	mu    sync.Mutex
	value []byte
}

// NewSecret copies s into a new Secret.
func NewSecret(s string) *Secret {
	return &Secret{value: []byte(s)}
}

// Reveal returns the secret value, or "" once destroyed.
func (s *Secret) Reveal() string {
	if s == nil {
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return string(s.value)
}

// IsDestroyed reports whether Destroy was called.
func (s *Secret) IsDestroyed() bool {
	if s == nil {
		return true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value == nil
}

// Destroy overwrites the secret bytes with zeros and releases them.
func (s *Secret) Destroy() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.value)
	s.value = nil
}

// String implements fmt.Stringer.
func (s *Secret) String() string { return redacted }

// GoString implements fmt.GoStringer.
func (s *Secret) GoString() string { return "security.Secret(" + redacted + ")" }

// Format implements fmt.Formatter so that every verb is redacted.
func (s *Secret) Format(f fmt.State, verb rune) {
	if verb == 'v' && f.Flag('#') {
		_, _ = fmt.Fprint(f, s.GoString())
		return
	}
	_, _ = fmt.Fprint(f, redacted)
}

// LogValue implements slog.LogValuer.
func (s *Secret) LogValue() slog.Value { return slog.StringValue(redacted) }

// MarshalText implements encoding.TextMarshaler, so that encoders never
// write the value either.
func (s *Secret) MarshalText() ([]byte, error) { return []byte(redacted), nil }
