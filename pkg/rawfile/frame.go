// Package rawfile is the boundary to the external raw decoder. It
// yields decoded sensor frames; the raw container formats themselves
// are the decoder tool's problem.
package rawfile

import(
	"context"
	"errors"
	"fmt"

	"github.com/skypies/util/histogram"
	"gonum.org/v1/gonum/stat"
)

// A Frame is one decoded sensor readout: a flat single-channel mosaic
// of photosite intensities plus the bit depth the decoder reported.
// Frames are immutable once decoded.
type Frame struct {
	Width, Height int
	Bits          uint     // intensities lie in [0, 2^Bits - 1]
	Pix           []uint16 // row-major, Width*Height values
}

func (f *Frame)String() string {
	return fmt.Sprintf("frame[%dx%d, %d bit]", f.Width, f.Height, f.Bits)
}

var ErrDecode = errors.New("raw decode failed")

// A Decoder turns a raw camera file into a Frame. The production
// implementation shells out to an external tool; tests inject their
// own so the numeric stages never need a real camera file.
type Decoder interface {
	Decode(ctx context.Context, path string) (*Frame, error)
}

// Stats summarizes a frame's intensity distribution, for verbose runs.
type Stats struct {
	Mean, StdDev float64
	Hist         histogram.Histogram
}

func (f *Frame)Stats() Stats {
	hist := histogram.Histogram{NumBuckets: 64, ValMin: 0, ValMax: 1 << f.Bits}
	vals := make([]float64, len(f.Pix))
	for i, v := range f.Pix {
		vals[i] = float64(v)
		hist.Add(histogram.ScalarVal(int(v)))
	}
	mean, std := stat.MeanStdDev(vals, nil)
	return Stats{Mean: mean, StdDev: std, Hist: hist}
}

func (s Stats)String() string {
	return fmt.Sprintf("mean %.1f, stddev %.1f, %v", s.Mean, s.StdDev, s.Hist)
}
