package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHexKeyRoundTrip(t *testing.T) {
	for _, h := range GenerateGrid(3) {
		got, err := ParseKey(h.Key())
		require.NoError(t, err)
		assert.Equal(t, h, got)
	}
}

func TestParseKeyRejectsGarbage(t *testing.T) {
	for _, key := range []string{"", "1", "a,b", "1,2,3", "1;2"} {
		_, err := ParseKey(key)
		assert.Error(t, err, "key %q", key)
	}
}

func TestNeighborsAreAdjacent(t *testing.T) {
	center := Hex{Q: 2, R: -1}
	neighbors := center.Neighbors()
	require.Len(t, neighbors, 6)
	seen := make(map[string]bool)
	for _, n := range neighbors {
		assert.Equal(t, 1, Distance(center, n))
		seen[n.Key()] = true
	}
	assert.Len(t, seen, 6)
}

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b Hex
		want int
	}{
		{Hex{0, 0}, Hex{0, 0}, 0},
		{Hex{0, 0}, Hex{1, 0}, 1},
		{Hex{0, 0}, Hex{2, -2}, 2},
		{Hex{-2, 0}, Hex{2, 0}, 4},
		{Hex{1, -3}, Hex{-1, 2}, 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Distance(tt.a, tt.b))
		assert.Equal(t, tt.want, Distance(tt.b, tt.a))
	}
}

func TestGenerateGridSizes(t *testing.T) {
	assert.Len(t, GenerateGrid(0), 1)
	assert.Len(t, GenerateGrid(1), 7)
	assert.Len(t, GenerateGrid(2), 19)
	assert.Len(t, GenerateGrid(4), 61)
}

func TestGenerateGridStableAndBounded(t *testing.T) {
	first := GenerateGrid(2)
	second := GenerateGrid(2)
	require.Equal(t, first, second)

	origin := Hex{0, 0}
	for _, h := range first {
		assert.LessOrEqual(t, Distance(origin, h), 2)
	}
}

func TestPixelRoundTrip(t *testing.T) {
	const size = 12.5
	for _, h := range GenerateGrid(3) {
		x, y := h.ToPixel(size)
		assert.Equal(t, h, FromPixel(x, y, size))
	}
}
