// Package develop holds the numeric stages that turn a raw sensor
// mosaic into a normalized RGB image: dark correction, channel
// extraction (subsampled or demosaiced) and saturation normalization.
// Everything here is a pure function of its inputs; decoding and
// serialization live elsewhere.
package develop

import(
	"fmt"
)

// A Grid is a single-channel grid of photosite intensities, stored
// row-major with a stride.
type Grid struct {
	stride int
	values []uint16
}

func NewGrid(w, h int) *Grid {
	return &Grid{
		stride: w,
		values: make([]uint16, w*h),
	}
}

// GridFromPix wraps a flat row-major pixel slice, as produced by a
// decoder. The slice is not copied; callers must not mutate it after.
func GridFromPix(pix []uint16, w, h int) *Grid {
	return &Grid{stride: w, values: pix[:w*h]}
}

func (g *Grid)Set(x, y int, v uint16) { g.values[g.stride*y + x] = v }
func (g *Grid)Get(x, y int) uint16    { return g.values[g.stride*y + x] }
func (g *Grid)Dx() int                { return g.stride }
func (g *Grid)Dy() int                { return len(g.values) / g.stride }

func (g *Grid)String() string {
	return fmt.Sprintf("grid[%dx%d]", g.Dx(), g.Dy())
}

// GetClamped reads (x, y) with coordinates clamped to the grid bounds,
// replicating edge samples for neighborhood lookups.
func (g *Grid)GetClamped(x, y int) uint16 {
	if x < 0 {
		x = 0
	} else if x >= g.Dx() {
		x = g.Dx() - 1
	}
	if y < 0 {
		y = 0
	} else if y >= g.Dy() {
		y = g.Dy() - 1
	}
	return g.Get(x, y)
}
