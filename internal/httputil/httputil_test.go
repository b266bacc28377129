package httputil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateStatusCode(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		expected bool
	}{
		{"default keyword", "default", true},
		{"extension", "x-custom", true},
		{"wildcard 2XX", "2XX", true},
		{"wildcard 5XX", "5XX", true},
		{"invalid wildcard 6XX", "6XX", false},
		{"partial wildcard 20X", "20X", false},
		{"valid 100", "100", true},
		{"valid 204", "204", true},
		{"valid 599", "599", true},
		{"invalid 099", "099", false},
		{"invalid 600", "600", false},
		{"too long", "2000", false},
		{"letters", "abc", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateStatusCode(tt.code))
		})
	}
}

func TestStatusHelpers(t *testing.T) {
	assert.True(t, IsValidStatus(100))
	assert.True(t, IsValidStatus(599))
	assert.False(t, IsValidStatus(99))
	assert.False(t, IsValidStatus(600))

	assert.True(t, IsSuccess(204))
	assert.False(t, IsSuccess(302))

	assert.Equal(t, "Not Found", StatusDescription(404))
	assert.Equal(t, "Status 299", StatusDescription(299))
}

func TestNormalizeMediaType(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"application/json", "application/json"},
		{"application/json; charset=utf-8", "application/json"},
		{"multipart/form-data; boundary=----x", "multipart/form-data"},
		{"Text/Plain", "text/plain"},
		{"application/json;;", "application/json"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeMediaType(tt.in))
		})
	}
}

func TestMediaTypeClasses(t *testing.T) {
	assert.True(t, IsJSON("application/json"))
	assert.True(t, IsJSON("application/problem+json"))
	assert.False(t, IsJSON("text/json5"))
	assert.True(t, IsText("text/csv"))
	assert.False(t, IsText("application/text"))
	assert.True(t, IsBinary("application/octet-stream"))
}

func TestHeaderValidation(t *testing.T) {
	assert.True(t, IsValidHeaderName("X-Request-ID"))
	assert.False(t, IsValidHeaderName(""))
	assert.False(t, IsValidHeaderName("Bad Header"))
	assert.False(t, IsValidHeaderName("bad:colon"))

	assert.True(t, IsValidHeaderValue("Bearer abc\tdef"))
	assert.False(t, IsValidHeaderValue("a\r\nb"))
	assert.False(t, IsValidHeaderValue("a\x00"))
}
