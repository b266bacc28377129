package client

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oascapture/oaserrors"
)

func TestDefaultStatuses(t *testing.T) {
	s := DefaultStatuses()
	require.NoError(t, s.Validate())
	assert.False(t, s.Contains(199))
	assert.True(t, s.Contains(200))
	assert.True(t, s.Contains(404))
	assert.True(t, s.Contains(499))
	assert.False(t, s.Contains(500))
}

func TestStatusSetUnion(t *testing.T) {
	s := Statuses(201, 204).Union(StatusRange(400, 402)).Union(StatusRangeInclusive(500, 503))
	require.NoError(t, s.Validate())
	for _, code := range []int{201, 204, 400, 401, 500, 503} {
		assert.True(t, s.Contains(code), code)
	}
	for _, code := range []int{200, 202, 402, 499, 504} {
		assert.False(t, s.Contains(code), code)
	}
	assert.Equal(t, "201 | 204 | [400, 402) | [500, 504)", s.String())
}

func TestStatusSetValidation(t *testing.T) {
	tests := []struct {
		name string
		set  StatusSet
	}{
		{"below range", Statuses(99)},
		{"above range", Statuses(600)},
		{"range end above", StatusRange(500, 601)},
		{"inclusive end above", StatusRangeInclusive(500, 600)},
		{"reversed", StatusRange(300, 200)},
		{"empty half-open", StatusRange(200, 200)},
		{"nothing", StatusSet{}},
		{"bad member of union", Statuses(200).Union(Statuses(42))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.set.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, oaserrors.ErrRequest))
		})
	}

	assert.NoError(t, StatusRange(100, 600).Validate())
	assert.NoError(t, StatusRangeInclusive(599, 599).Validate())
}

func TestExpectedStandardStatuses(t *testing.T) {
	s := Expected(StatusOK, StatusNotFound).Union(Expected(Status{}))
	require.NoError(t, s.Validate())
	assert.True(t, s.Contains(200))
	assert.True(t, s.Contains(404))
	assert.False(t, s.Contains(201))
	assert.Equal(t, "200 | 404", s.String())
	assert.Equal(t, 204, StatusNoContent.Code())
	assert.Equal(t, "503", StatusServiceUnavailable.String())

	assert.Error(t, Expected().Validate(), "an empty set still expects nothing")
}
