package pipeline

import(
	"fmt"
	"image"
	"image/color"
	"log"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"

	"github.com/cfadev/rawconv/pkg/develop"
)

// dumpPlanes writes one grayscale PNG per channel plane, for eyeballing
// extraction problems on very verbose runs.
func (p *Pipeline)dumpPlanes(inPath string, planes develop.Planes) {
	stem := strings.TrimSuffix(inPath, filepath.Ext(inPath))
	for name, g := range map[string]*develop.Grid{"R": planes.R, "G": planes.G, "B": planes.B} {
		filename := fmt.Sprintf("%s-plane-%s.png", stem, name)
		planeToImg(g, fmt.Sprintf("%s %s plane", filepath.Base(inPath), name), filename)
		log.Printf("dumped %s", filename)
	}
}

// planeToImg saves a plane as a simple grayscale, stretched over the
// range of values present so dim planes stay visible.
func planeToImg(g *develop.Grid, title, filename string) {
	lo, hi := uint16(0xFFFF), uint16(0)
	for y := 0; y < g.Dy(); y++ {
		for x := 0; x < g.Dx(); x++ {
			v := g.Get(x, y)
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	span := float64(hi) - float64(lo)
	if span == 0 {
		span = 1
	}

	img := image.NewRGBA64(image.Rect(0, 0, g.Dx(), g.Dy()))
	for y := 0; y < g.Dy(); y++ {
		for x := 0; x < g.Dx(); x++ {
			gray := uint16(float64(g.Get(x, y)-lo) / span * 65535.0)
			img.Set(x, y, color.RGBA64{R: gray, G: gray, B: gray, A: 0xFFFF})
		}
	}

	dc := gg.NewContextForImage(img)
	dc.SetRGB(1, 1, 1)
	dc.DrawString(title, 20, 20)
	dc.SavePNG(filename)
}
