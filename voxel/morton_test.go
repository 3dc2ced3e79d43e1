package voxel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsqrt(t *testing.T) {
	cases := []struct {
		n    int
		want int
		ok   bool
	}{
		{0, 0, true},
		{1, 1, true},
		{4, 2, true},
		{9, 3, true},
		{16, 4, true},
		{2, 0, false},
		{15, 0, false},
		{-1, 0, false},
	}
	for _, c := range cases {
		got, ok := isqrt(c.n)
		assert.Equal(t, c.ok, ok, "n=%d", c.n)
		if ok {
			assert.Equal(t, c.want, got, "n=%d", c.n)
		}
	}
}

func TestIsPow2(t *testing.T) {
	assert.True(t, isPow2(1))
	assert.True(t, isPow2(2))
	assert.True(t, isPow2(64))
	assert.False(t, isPow2(0))
	assert.False(t, isPow2(3))
	assert.False(t, isPow2(-4))
}

func TestMortonOrderIsPermutation(t *testing.T) {
	const s = 8
	order := mortonOrder(s)
	require.Len(t, order, s*s*s)

	seen := make(map[uint64]bool, len(order))
	for _, code := range order {
		require.False(t, seen[code], "duplicate code %d", code)
		seen[code] = true
		assert.Less(t, code, uint64(s*s*s))
	}
}

func TestMortonEncodeInterleavesLowBits(t *testing.T) {
	assert.Equal(t, uint64(0), mortonEncode(0, 0, 0))
	assert.Equal(t, uint64(1), mortonEncode(1, 0, 0))
	assert.Equal(t, uint64(2), mortonEncode(0, 1, 0))
	assert.Equal(t, uint64(4), mortonEncode(0, 0, 1))
	assert.Equal(t, uint64(7), mortonEncode(1, 1, 1))
}
