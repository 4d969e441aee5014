package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cfadev/rawconv/pkg/rawfile"
)

// stubDecoder stands in for the external raw tool, per the injected
// decoder boundary. It serves canned frames and can fail chosen paths.
type stubDecoder struct {
	frame  *rawfile.Frame
	failOn map[string]bool
	calls  int32
}

func (d *stubDecoder) Decode(ctx context.Context, path string) (*rawfile.Frame, error) {
	atomic.AddInt32(&d.calls, 1)
	if d.failOn[path] {
		return nil, rawfile.ErrDecode
	}
	return d.frame, nil
}

// uniformFrame is a 4x4 RGGB-agnostic mosaic of all the same value.
func uniformFrame(v uint16) *rawfile.Frame {
	pix := make([]uint16, 16)
	for i := range pix {
		pix[i] = v
	}
	return &rawfile.Frame{Width: 4, Height: 4, Bits: 8, Pix: pix}
}

func testPipeline(t *testing.T, cfg Config, dec rawfile.Decoder) *Pipeline {
	t.Helper()
	p, err := New(cfg)
	require.NoError(t, err)
	p.Decoder = dec
	return p
}

func TestConvertFileReturnsImage(t *testing.T) {
	cfg := NewConfig()
	cfg.BitDepth = 8
	cfg.Persist = false
	cfg.Format = FormatNone

	p := testPipeline(t, cfg, &stubDecoder{frame: uniformFrame(100)})

	img, err := p.ConvertFile(context.Background(), "whatever.raw")
	require.NoError(t, err)
	require.NotNil(t, img)

	assert.Equal(t, 2, img.W)
	assert.Equal(t, 2, img.H)
	r, g, b := img.RGB(0, 0)
	assert.Equal(t, uint16(25700), r) // round(100/255 * 65535)
	assert.Equal(t, uint16(25700), g)
	assert.Equal(t, uint16(25700), b)
}

func TestConvertFileNoPersistWritesNothing(t *testing.T) {
	dir := t.TempDir()
	cfg := NewConfig()
	cfg.BitDepth = 8
	cfg.Persist = false

	p := testPipeline(t, cfg, &stubDecoder{frame: uniformFrame(50)})
	_, err := p.ConvertFile(context.Background(), filepath.Join(dir, "a.raw"))
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestConfigErrorBeforeAnyDecode(t *testing.T) {
	cfg := NewConfig()
	cfg.BitDepth = 8
	cfg.SaturationLevel = 300 // exceeds 2^8-1

	_, err := New(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfig)
}

func TestConvertFilePropagatesDecodeError(t *testing.T) {
	cfg := NewConfig()
	cfg.BitDepth = 8
	cfg.Persist = false

	dec := &stubDecoder{failOn: map[string]bool{"bad.raw": true}}
	p := testPipeline(t, cfg, dec)

	_, err := p.ConvertFile(context.Background(), "bad.raw")
	require.Error(t, err)
	assert.ErrorIs(t, err, rawfile.ErrDecode)
	assert.Contains(t, err.Error(), "bad.raw")
}

func TestBatchForcesPersistence(t *testing.T) {
	dir := t.TempDir()
	cfg := NewConfig()
	cfg.BitDepth = 8
	cfg.Persist = false // batch must override this
	cfg.Format = FormatPNG

	p := testPipeline(t, cfg, &stubDecoder{frame: uniformFrame(100)})

	paths := []string{filepath.Join(dir, "a.raw"), filepath.Join(dir, "b.raw")}
	require.NoError(t, p.ConvertBatch(context.Background(), paths))

	for _, name := range []string{"a.png", "b.png"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}

	// The pipeline's own config is untouched; batch mode copies it.
	assert.False(t, p.Config.Persist)
}

func TestBatchSkipsFailedFramesAndCompletes(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.raw")

	cfg := NewConfig()
	cfg.BitDepth = 8
	cfg.Format = FormatPNG

	dec := &stubDecoder{frame: uniformFrame(100), failOn: map[string]bool{bad: true}}
	p := testPipeline(t, cfg, dec)

	paths := []string{filepath.Join(dir, "a.raw"), bad, filepath.Join(dir, "c.raw")}
	err := p.ConvertBatch(context.Background(), paths)

	// The failure is reported, but the other frames were still written.
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.raw")
	assert.Contains(t, err.Error(), "1 of 3")

	for _, name := range []string{"a.png", "c.png"} {
		_, statErr := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, statErr, name)
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(&dec.calls))
}

func TestBatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := NewConfig()
	cfg.BitDepth = 8
	cfg.Format = FormatNone

	p := testPipeline(t, cfg, &stubDecoder{frame: uniformFrame(1)})
	err := p.ConvertBatch(ctx, []string{"a.raw", "b.raw"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConvertFileInterpolated(t *testing.T) {
	cfg := NewConfig()
	cfg.BitDepth = 8
	cfg.Persist = false
	cfg.Interpolate = true

	p := testPipeline(t, cfg, &stubDecoder{frame: uniformFrame(100)})

	img, err := p.ConvertFile(context.Background(), "whatever.raw")
	require.NoError(t, err)

	// Interpolation keeps full resolution.
	assert.Equal(t, 4, img.W)
	assert.Equal(t, 4, img.H)
	r, _, _ := img.RGB(3, 3)
	assert.Equal(t, uint16(25700), r)
}

func TestInsufficientDataSurfaces(t *testing.T) {
	cfg := NewConfig()
	cfg.BitDepth = 8
	cfg.Persist = false
	cfg.CFA = "XTrans"

	// 4x4 frame, smaller than one 6x6 X-Trans tile.
	p := testPipeline(t, cfg, &stubDecoder{frame: uniformFrame(10)})
	_, err := p.ConvertFile(context.Background(), "small.raw")
	require.Error(t, err)
	assert.False(t, errors.Is(err, rawfile.ErrDecode))
}
