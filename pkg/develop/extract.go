package develop

import(
	"errors"
	"fmt"

	"github.com/cfadev/rawconv/pkg/cfa"
)

var ErrInsufficientData = errors.New("frame smaller than one CFA tile")

// Planes holds one grid per color channel. After ExtractPlanes they
// are subsampled; after Interpolate they are full resolution.
type Planes struct {
	R, G, B *Grid
}

// ExtractPlanes splits a dark-corrected mosaic into per-channel planes
// without interpolating, honoring the CFA layout.
//
// Bayer layouts: the grid is trimmed at the trailing edge to even
// bounds, then each channel is a stride-2 subsample starting at its
// tile offset. The two green samples of each tile are averaged, with
// the fractional half truncated toward zero. Planes come out
// floor(H/2) x floor(W/2).
//
// XTrans: the grid is trimmed to multiples of 3, and every aligned 3x3
// block of the mosaic compacts to one output cell per channel, the
// truncated average of that block's same-channel samples (each block
// holds exactly 2 red, 5 green and 2 blue photosites). Planes come out
// floor(H/3) x floor(W/3). This compaction rule is fixed so repeated
// runs reproduce identical output.
func ExtractPlanes(g *Grid, layout cfa.Layout) (Planes, error) {
	tile := layout.TileSize()
	if g.Dx() < tile || g.Dy() < tile {
		return Planes{}, fmt.Errorf("%w: %s, tile %dx%d", ErrInsufficientData, g, tile, tile)
	}
	if layout == cfa.XTrans {
		return extractXTrans(g), nil
	}
	return extractBayer(g, layout), nil
}

func extractBayer(g *Grid, layout cfa.Layout) Planes {
	off, _ := layout.Offsets()
	pw := g.Dx() / 2
	ph := g.Dy() / 2

	p := Planes{R: NewGrid(pw, ph), G: NewGrid(pw, ph), B: NewGrid(pw, ph)}
	for y := 0; y < ph; y++ {
		for x := 0; x < pw; x++ {
			p.R.Set(x, y, g.Get(2*x+off.R.X, 2*y+off.R.Y))
			p.B.Set(x, y, g.Get(2*x+off.B.X, 2*y+off.B.Y))

			g1 := uint32(g.Get(2*x+off.G1.X, 2*y+off.G1.Y))
			g2 := uint32(g.Get(2*x+off.G2.X, 2*y+off.G2.Y))
			p.G.Set(x, y, uint16((g1+g2)/2)) // truncating average
		}
	}
	return p
}

func extractXTrans(g *Grid) Planes {
	tile := cfa.XTransTile()
	pw := g.Dx() / 3
	ph := g.Dy() / 3

	p := Planes{R: NewGrid(pw, ph), G: NewGrid(pw, ph), B: NewGrid(pw, ph)}
	for y := 0; y < ph; y++ {
		for x := 0; x < pw; x++ {
			var sum, n [3]uint32
			for dy := 0; dy < 3; dy++ {
				for dx := 0; dx < 3; dx++ {
					gy := 3*y + dy
					gx := 3*x + dx
					ch := tile[gy%6][gx%6]
					sum[ch] += uint32(g.Get(gx, gy))
					n[ch]++
				}
			}
			p.R.Set(x, y, uint16(sum[cfa.Red]/n[cfa.Red]))
			p.G.Set(x, y, uint16(sum[cfa.Green]/n[cfa.Green]))
			p.B.Set(x, y, uint16(sum[cfa.Blue]/n[cfa.Blue]))
		}
	}
	return p
}
