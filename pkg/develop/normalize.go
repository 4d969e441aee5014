package develop

// Normalize rescales dark-corrected intensities onto the 16 bit output
// range. Inputs have already had the darkness level subtracted, so the
// meaningful span is [0, sat-dark]: a photosite that read exactly the
// saturation level maps to 65535, one at the darkness level maps to 0.
// Division rounds half up, and anything above the span clamps to 65535
// instead of wrapping. The caller guarantees sat > dark.
func Normalize(p Planes, dark, sat uint32) *RGB48 {
	span := uint64(sat - dark)
	half := span / 2

	norm := func(v uint16) uint16 {
		n := (uint64(v)*65535 + half) / span
		if n > 65535 {
			n = 65535
		}
		return uint16(n)
	}

	w := p.R.Dx()
	h := p.R.Dy()
	img := NewRGB48(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGB(x, y, norm(p.R.Get(x, y)), norm(p.G.Get(x, y)), norm(p.B.Get(x, y)))
		}
	}
	return img
}
