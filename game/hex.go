package game

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Hex is an axial hex-grid coordinate.
type Hex struct {
	Q int `json:"q"`
	R int `json:"r"`
}

var hexDirections = [6]Hex{
	{1, 0}, {1, -1}, {0, -1},
	{-1, 0}, {-1, 1}, {0, 1},
}

func (h Hex) Add(o Hex) Hex {
	return Hex{h.Q + o.Q, h.R + o.R}
}

// Neighbors returns the six adjacent coordinates in a fixed order.
func (h Hex) Neighbors() []Hex {
	out := make([]Hex, 6)
	for i, d := range hexDirections {
		out[i] = h.Add(d)
	}
	return out
}

// Key renders the coordinate as a stable "q,r" map key.
func (h Hex) Key() string {
	return fmt.Sprintf("%d,%d", h.Q, h.R)
}

// ParseKey is the inverse of Key.
func ParseKey(key string) (Hex, error) {
	q, r, ok := strings.Cut(key, ",")
	if !ok {
		return Hex{}, fmt.Errorf("malformed hex key %q", key)
	}
	qi, err := strconv.Atoi(q)
	if err != nil {
		return Hex{}, fmt.Errorf("malformed hex key %q: %w", key, err)
	}
	ri, err := strconv.Atoi(r)
	if err != nil {
		return Hex{}, fmt.Errorf("malformed hex key %q: %w", key, err)
	}
	return Hex{qi, ri}, nil
}

// Distance is the hex metric between two coordinates.
func Distance(a, b Hex) int {
	dq := a.Q - b.Q
	dr := a.R - b.R
	return (abs(dq) + abs(dq+dr) + abs(dr)) / 2
}

// GenerateGrid enumerates every coordinate within the hex-shaped region of
// the given radius. The order is stable across calls: q ascending, then r.
func GenerateGrid(radius int) []Hex {
	var hexes []Hex
	for q := -radius; q <= radius; q++ {
		r1 := max(-radius, -q-radius)
		r2 := min(radius, -q+radius)
		for r := r1; r <= r2; r++ {
			hexes = append(hexes, Hex{q, r})
		}
	}
	return hexes
}

// ToPixel maps the coordinate to flat-top pixel space with the given cell size.
func (h Hex) ToPixel(size float64) (x, y float64) {
	x = size * 1.5 * float64(h.Q)
	y = size * math.Sqrt(3) * (float64(h.R) + float64(h.Q)/2)
	return x, y
}

// FromPixel maps a pixel position back to the nearest hex coordinate.
func FromPixel(x, y, size float64) Hex {
	fq := (2.0 / 3.0) * x / size
	fr := (-1.0/3.0)*x/size + (math.Sqrt(3)/3.0)*y/size
	return hexRound(fq, fr)
}

func hexRound(fq, fr float64) Hex {
	fs := -fq - fr
	q := math.Round(fq)
	r := math.Round(fr)
	s := math.Round(fs)

	qDiff := math.Abs(q - fq)
	rDiff := math.Abs(r - fr)
	sDiff := math.Abs(s - fs)

	if qDiff > rDiff && qDiff > sDiff {
		q = -r - s
	} else if rDiff > sDiff {
		r = -q - s
	}
	return Hex{int(q), int(r)}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
