package develop

import(
	"fmt"
	"log"

	"github.com/cfadev/rawconv/pkg/cfa"
)

// Interpolate produces full-resolution channel planes from a mosaic by
// estimating the two missing channels at every photosite from its
// neighbors (bilinear demosaic). The grid is trimmed at the trailing
// edge to whole tiles first, so Bayer output is H x W rounded down to
// even bounds. Edge pixels use clamped neighbor lookups.
//
// The XTrans path has no regular neighbor structure and falls back to
// ring searches around each pixel; it is substantially slower than the
// Bayer path.
func Interpolate(g *Grid, layout cfa.Layout) (Planes, error) {
	tile := layout.TileSize()
	if g.Dx() < tile || g.Dy() < tile {
		return Planes{}, fmt.Errorf("%w: %s, tile %dx%d", ErrInsufficientData, g, tile, tile)
	}

	if layout == cfa.XTrans {
		log.Printf("X-Trans interpolation is slow; expect seconds per megapixel")
		return interpolateXTrans(g), nil
	}
	return interpolateBayer(g, layout), nil
}

func interpolateBayer(g *Grid, layout cfa.Layout) Planes {
	w := g.Dx() &^ 1
	h := g.Dy() &^ 1

	p := Planes{R: NewGrid(w, h), G: NewGrid(w, h), B: NewGrid(w, h)}

	avg2 := func(a, b uint16) uint16 { return uint16((uint32(a) + uint32(b)) / 2) }
	avg4 := func(a, b, c, d uint16) uint16 {
		return uint16((uint32(a) + uint32(b) + uint32(c) + uint32(d)) / 4)
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := g.Get(x, y)
			var r, gr, b uint16

			switch ch := layout.At(x, y); ch {
			case cfa.Green:
				gr = v
				// One of R/B shares this row, the other this column.
				horiz := avg2(g.GetClamped(x-1, y), g.GetClamped(x+1, y))
				vert := avg2(g.GetClamped(x, y-1), g.GetClamped(x, y+1))
				if layout.At(x+1, y) == cfa.Red {
					r, b = horiz, vert
				} else {
					r, b = vert, horiz
				}

			default:
				same := v
				cross := avg4(g.GetClamped(x-1, y), g.GetClamped(x+1, y),
					g.GetClamped(x, y-1), g.GetClamped(x, y+1))
				diag := avg4(g.GetClamped(x-1, y-1), g.GetClamped(x+1, y-1),
					g.GetClamped(x-1, y+1), g.GetClamped(x+1, y+1))
				gr = cross
				if ch == cfa.Red {
					r, b = same, diag
				} else {
					r, b = diag, same
				}
			}

			p.R.Set(x, y, r)
			p.G.Set(x, y, gr)
			p.B.Set(x, y, b)
		}
	}
	return p
}

func interpolateXTrans(g *Grid) Planes {
	w := g.Dx()
	h := g.Dy()
	w -= w % 6
	h -= h % 6

	p := Planes{R: NewGrid(w, h), G: NewGrid(w, h), B: NewGrid(w, h)}
	planeFor := map[cfa.Channel]*Grid{cfa.Red: p.R, cfa.Green: p.G, cfa.Blue: p.B}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			own := cfa.XTrans.At(x, y)
			for ch, plane := range planeFor {
				if ch == own {
					plane.Set(x, y, g.Get(x, y))
					continue
				}
				plane.Set(x, y, nearestSameChannel(g, x, y, ch))
			}
		}
	}
	return p
}

// nearestSameChannel averages the same-channel samples on the closest
// Chebyshev ring around (x, y). Every channel occurs within two cells
// of any X-Trans position, so the search is short; coordinates are
// clamped at the frame edge.
func nearestSameChannel(g *Grid, x, y int, ch cfa.Channel) uint16 {
	clamp := func(v, max int) int {
		if v < 0 {
			return 0
		}
		if v >= max {
			return max - 1
		}
		return v
	}

	for r := 1; r < 6; r++ {
		var sum, n uint32
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if dx > -r && dx < r && dy > -r && dy < r {
					continue // interior of the ring, already visited
				}
				cx := clamp(x+dx, g.Dx())
				cy := clamp(y+dy, g.Dy())
				if cfa.XTrans.At(cx, cy) == ch {
					sum += uint32(g.Get(cx, cy))
					n++
				}
			}
		}
		if n > 0 {
			return uint16(sum / n)
		}
	}
	return g.Get(x, y) // unreachable for the fixed X-Trans tile
}
