package develop

import(
	"image"
	"image/color"
)

// RGB48 is a 3-channel image of 16 bit samples, the pipeline's terminal
// artifact. It implements image.Image so the stdlib and x/image
// encoders can consume it directly; alpha is always opaque.
type RGB48 struct {
	W, H int
	Pix  []uint16 // 3 samples per pixel, R G B order, row-major
}

func NewRGB48(w, h int) *RGB48 {
	return &RGB48{
		W:   w,
		H:   h,
		Pix: make([]uint16, 3*w*h),
	}
}

func (m *RGB48)ColorModel() color.Model { return color.RGBA64Model }
func (m *RGB48)Bounds() image.Rectangle { return image.Rect(0, 0, m.W, m.H) }

func (m *RGB48)At(x, y int) color.Color {
	r, g, b := m.RGB(x, y)
	return color.RGBA64{R: r, G: g, B: b, A: 0xFFFF}
}

func (m *RGB48)RGB(x, y int) (uint16, uint16, uint16) {
	i := 3 * (y*m.W + x)
	return m.Pix[i], m.Pix[i+1], m.Pix[i+2]
}

func (m *RGB48)SetRGB(x, y int, r, g, b uint16) {
	i := 3 * (y*m.W + x)
	m.Pix[i], m.Pix[i+1], m.Pix[i+2] = r, g, b
}
