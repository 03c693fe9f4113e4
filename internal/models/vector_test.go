package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorRoundTrip(t *testing.T) {
	v := Vector{0.25, -1.5, 3}

	value, err := v.Value()
	require.NoError(t, err)
	require.IsType(t, "", value)

	var scanned Vector
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, v, scanned)
}

func TestVectorNilStoresAsNull(t *testing.T) {
	var v Vector

	value, err := v.Value()
	require.NoError(t, err)
	assert.Nil(t, value)

	var scanned Vector
	require.NoError(t, scanned.Scan(nil))
	assert.Nil(t, scanned)
}

func TestVectorScanRejectsMalformedColumn(t *testing.T) {
	var v Vector
	assert.Error(t, v.Scan("not json"))
	assert.Error(t, v.Scan(42))
}

func TestCosineDistance(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Vector
		expected float64
	}{
		{
			name:     "identical direction",
			a:        Vector{1, 0, 0},
			b:        Vector{2, 0, 0},
			expected: 0,
		},
		{
			name:     "orthogonal",
			a:        Vector{1, 0},
			b:        Vector{0, 1},
			expected: 1,
		},
		{
			name:     "opposite",
			a:        Vector{1, 0},
			b:        Vector{-1, 0},
			expected: 2,
		},
		{
			name:     "dimension mismatch is maximal",
			a:        Vector{1, 0},
			b:        Vector{1, 0, 0},
			expected: 2,
		},
		{
			name:     "zero norm is maximal",
			a:        Vector{0, 0},
			b:        Vector{1, 0},
			expected: 2,
		},
		{
			name:     "empty query is maximal",
			a:        Vector{},
			b:        Vector{},
			expected: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, tt.a.CosineDistance(tt.b), 1e-9)
		})
	}
}

func TestCosineDistanceIsSymmetric(t *testing.T) {
	a := Vector{0.3, 0.7, -0.2}
	b := Vector{0.1, 0.9, 0.4}

	assert.InDelta(t, a.CosineDistance(b), b.CosineDistance(a), 1e-12)
}
