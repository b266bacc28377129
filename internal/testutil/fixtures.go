// Package testutil provides HTTP fixtures and a recording logger for unit tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/erraggy/oascapture/openapi"
)

// NewServer starts an httptest server for handler and closes it when the
// test completes.
func NewServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

// JSON returns a handler that writes body as JSON with the given status.
func JSON(status int, body any) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, status, body)
	}
}

// WriteJSON writes body as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// Text returns a handler that writes body as text/plain with the given status.
func Text(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

// Status returns a handler that writes only a status code.
func Status(status int) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
	}
}

// Echo returns a handler that answers with a JSON description of the
// request: method, path, raw query, selected headers and the body.
func Echo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		WriteJSON(w, http.StatusOK, EchoResponse{
			Method:        r.Method,
			Path:          r.URL.EscapedPath(),
			RawQuery:      r.URL.RawQuery,
			ContentType:   r.Header.Get("Content-Type"),
			Authorization: r.Header.Get("Authorization"),
			Cookie:        r.Header.Get("Cookie"),
			UserAgent:     r.Header.Get("User-Agent"),
			Header:        r.Header,
			Body:          string(body),
		})
	}
}

// EchoResponse is the payload written by Echo.
type EchoResponse struct {
	Method        string              `json:"method"`
	Path          string              `json:"path"`
	RawQuery      string              `json:"rawQuery"`
	ContentType   string              `json:"contentType"`
	Authorization string              `json:"authorization"`
	Cookie        string              `json:"cookie"`
	UserAgent     string              `json:"userAgent"`
	Header        map[string][]string `json:"header"`
	Body          string              `json:"body"`
}

// WriteTemp writes data to name inside a per-test temporary directory and
// returns the file path.
func WriteTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("Failed to write temporary file: %v", err)
	}
	return path
}

// Entry is a single record captured by RecordingLogger.
type Entry struct {
	Level string
	Msg   string
	Attrs []any
}

// String renders the entry as "LEVEL msg k=v ...".
func (e Entry) String() string {
	var b strings.Builder
	b.WriteString(e.Level)
	b.WriteByte(' ')
	b.WriteString(e.Msg)
	for i := 0; i+1 < len(e.Attrs); i += 2 {
		fmt.Fprintf(&b, " %v=%v", e.Attrs[i], e.Attrs[i+1])
	}
	return b.String()
}

// RecordingLogger is an openapi.Logger that keeps every record in memory.
// It is safe for concurrent use.
type RecordingLogger struct {
	mu      *sync.Mutex
	entries *[]Entry
	attrs   []any
}

// NewRecordingLogger returns an empty RecordingLogger.
func NewRecordingLogger() *RecordingLogger {
	return &RecordingLogger{mu: &sync.Mutex{}, entries: &[]Entry{}}
}

func (l *RecordingLogger) record(level, msg string, attrs []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	all := append(append([]any{}, l.attrs...), attrs...)
	*l.entries = append(*l.entries, Entry{Level: level, Msg: msg, Attrs: all})
}

// Debug implements openapi.Logger.
func (l *RecordingLogger) Debug(msg string, attrs ...any) { l.record("DEBUG", msg, attrs) }

// Info implements openapi.Logger.
func (l *RecordingLogger) Info(msg string, attrs ...any) { l.record("INFO", msg, attrs) }

// Warn implements openapi.Logger.
func (l *RecordingLogger) Warn(msg string, attrs ...any) { l.record("WARN", msg, attrs) }

// Error implements openapi.Logger.
func (l *RecordingLogger) Error(msg string, attrs ...any) { l.record("ERROR", msg, attrs) }

// With implements openapi.Logger. The returned logger shares the record buffer.
func (l *RecordingLogger) With(attrs ...any) openapi.Logger {
	return &RecordingLogger{
		mu:      l.mu,
		entries: l.entries,
		attrs:   append(append([]any{}, l.attrs...), attrs...),
	}
}

// Entries returns a copy of the recorded entries.
func (l *RecordingLogger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Entry(nil), *l.entries...)
}

// Warnings returns the messages of the recorded WARN entries.
func (l *RecordingLogger) Warnings() []string {
	var out []string
	for _, e := range l.Entries() {
		if e.Level == "WARN" {
			out = append(out, e.Msg)
		}
	}
	return out
}

var _ openapi.Logger = (*RecordingLogger)(nil)
