package jsonhelpers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalWithExtras(t *testing.T) {
	t.Run("without extras", func(t *testing.T) {
		data, err := MarshalWithExtras(map[string]any{"name": "test", "value": 42}, nil)
		require.NoError(t, err)

		var result map[string]any
		require.NoError(t, json.Unmarshal(data, &result))
		assert.Equal(t, "test", result["name"])
		assert.Equal(t, float64(42), result["value"])
		assert.Len(t, result, 2)
	})

	t.Run("with extras", func(t *testing.T) {
		data, err := MarshalWithExtras(map[string]any{"name": "test"}, map[string]any{"x-owner": "team-a"})
		require.NoError(t, err)
		assert.JSONEq(t, `{"name":"test","x-owner":"team-a"}`, string(data))
	})
}

func TestExtractExtensions(t *testing.T) {
	tests := []struct {
		name string
		data string
		want map[string]any
	}{
		{name: "none", data: `{"description":"x"}`, want: nil},
		{name: "one", data: `{"description":"x","x-rate-limit":10}`, want: map[string]any{"x-rate-limit": float64(10)}},
		{name: "not an object", data: `[1,2]`, want: nil},
		{name: "invalid", data: `{`, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractExtensions([]byte(tt.data)))
		})
	}
}

func TestSetters(t *testing.T) {
	m := map[string]any{}
	SetIfNotEmpty(m, "empty", "")
	SetIfNotEmpty(m, "str", "v")
	SetIfTrue(m, "false", false)
	SetIfTrue(m, "true", true)
	SetIfSliceNotEmpty(m, "nilSlice", []string(nil))
	SetIfSliceNotEmpty(m, "slice", []string{"a"})
	SetIfMapNotEmpty(m, "emptyMap", map[string]int{})
	SetIfMapNotEmpty(m, "map", map[string]int{"a": 1})
	SetIfNotNil(m, "nil", nil)

	var nilPtr *int
	SetPtr(m, "nilPtr", nilPtr)
	one := 1
	SetPtr(m, "ptr", &one)

	assert.Equal(t, map[string]any{
		"str":   "v",
		"true":  true,
		"slice": []string{"a"},
		"map":   map[string]int{"a": 1},
		"ptr":   &one,
	}, m)
}

func TestIsExtension(t *testing.T) {
	assert.True(t, IsExtension("x-internal"))
	assert.False(t, IsExtension("description"))
	assert.False(t, IsExtension("x"))
}
