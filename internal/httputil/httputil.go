// Package httputil provides HTTP helpers shared by the client and the
// collector: media type normalization, status code checks and header token
// validation.
package httputil

import (
	"mime"
	"net/http"
	"strconv"
	"strings"
)

// HTTP Status Code Constants
const (
	StatusCodeLength = 3   // Standard length of HTTP status codes (e.g., "200", "404")
	MinStatusCode    = 100 // Minimum valid HTTP status code
	MaxStatusCode    = 599 // Maximum valid HTTP status code
	WildcardChar     = 'X' // Wildcard character used in status code patterns (e.g., "2XX")
)

// Wildcard boundary characters for validation
const (
	minWildcardBoundary = '1'
	maxWildcardBoundary = '5'
)

// ValidateStatusCode checks if a response key is valid in an OpenAPI responses object.
// Valid values are:
//   - "default" for default response
//   - Extension fields starting with "x-"
//   - Wildcard patterns: 1XX, 2XX, 3XX, 4XX, 5XX
//   - Numeric codes: 100-599
func ValidateStatusCode(code string) bool {
	if code == "default" || strings.HasPrefix(code, "x-") {
		return true
	}
	if len(code) != StatusCodeLength {
		return false
	}
	if code[1] == WildcardChar && code[2] == WildcardChar {
		return code[0] >= minWildcardBoundary && code[0] <= maxWildcardBoundary
	}
	n, err := strconv.Atoi(code)
	return err == nil && IsValidStatus(n)
}

// IsValidStatus reports whether n lies in [100, 600).
func IsValidStatus(n int) bool {
	return n >= MinStatusCode && n <= MaxStatusCode
}

// IsSuccess reports whether n is a 2xx code.
func IsSuccess(n int) bool {
	return n >= 200 && n < 300
}

// StatusDescription returns the reason phrase for a status code, or
// "Status <n>" for codes without one.
func StatusDescription(n int) string {
	if text := http.StatusText(n); text != "" {
		return text
	}
	return "Status " + strconv.Itoa(n)
}

// NormalizeMediaType strips parameters and lowercases a Content-Type value:
// "multipart/form-data; boundary=x" becomes "multipart/form-data".
// An empty input yields an empty result.
func NormalizeMediaType(contentType string) string {
	if contentType == "" {
		return ""
	}
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		return mt
	}
	mt, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(mt))
}

// IsJSON reports whether the normalized media type carries JSON,
// including structured suffixes such as application/problem+json.
func IsJSON(mediaType string) bool {
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// IsText reports whether the normalized media type is textual.
func IsText(mediaType string) bool {
	return strings.HasPrefix(mediaType, "text/")
}

// IsBinary reports whether the normalized media type is application/octet-stream.
func IsBinary(mediaType string) bool {
	return mediaType == "application/octet-stream"
}

// IsValidHeaderName reports whether name is an RFC 9110 token.
func IsValidHeaderName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		if !isTokenChar(name[i]) {
			return false
		}
	}
	return true
}

// IsValidHeaderValue reports whether v holds no control characters other
// than horizontal tab.
func IsValidHeaderValue(v string) bool {
	for i := 0; i < len(v); i++ {
		c := v[i]
		if (c < 0x20 && c != '\t') || c == 0x7f {
			return false
		}
	}
	return true
}

func isTokenChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}
	return strings.IndexByte("!#$%&'*+-.^_`|~", c) >= 0
}
