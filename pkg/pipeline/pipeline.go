package pipeline

import(
	"context"
	"fmt"
	"log"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/cfadev/rawconv/pkg/develop"
	"github.com/cfadev/rawconv/pkg/rawfile"
)

// A Pipeline runs decode -> dark correction -> channel extraction ->
// normalization -> emit over input frames. The configuration is
// read-only once built, and no state crosses from one frame to the
// next, so frames can be processed concurrently.
type Pipeline struct {
	Config  Config
	Decoder rawfile.Decoder
}

// New validates the configuration and wires the production decoder.
// The returned ErrConfig, if any, fires before any frame is touched.
func New(cfg Config) (*Pipeline, error) {
	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return &Pipeline{
		Config:  cfg,
		Decoder: rawfile.DCRaw{KeepIntermediate: cfg.KeepIntermediate},
	}, nil
}

// ConvertFile processes a single frame and returns the normalized
// image. Any failure surfaces immediately. The result is written to
// disk only when the configuration asks for persistence.
func (p *Pipeline)ConvertFile(ctx context.Context, path string) (*develop.RGB48, error) {
	img, frame, err := p.process(ctx, path)
	if err != nil {
		return nil, err
	}
	if p.Config.Persist {
		if err := p.emit(path, img, frame); err != nil {
			return nil, err
		}
	}
	return img, nil
}

// ConvertBatch processes many frames, persisting every result: batch
// mode is write-only by design, since handing N images back through a
// single return value helps nobody. One frame's failure is logged and
// skipped so the rest of the batch completes; the aggregate error
// afterwards names what failed. Frames run in parallel, bounded by the
// core count, and a cancelled context stops unstarted frames while
// leaving already-written outputs valid.
func (p *Pipeline)ConvertBatch(ctx context.Context, paths []string) error {
	cfg := p.Config
	cfg.Persist = true
	sub := &Pipeline{Config: cfg, Decoder: p.Decoder}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	var mu sync.Mutex
	failed := []string{}

	for _, path := range paths {
		path := path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if _, err := sub.ConvertFile(ctx, path); err != nil {
				log.Printf("convert '%s' failed, skipping: %v", path, err)
				mu.Lock()
				failed = append(failed, path)
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("batch aborted: %w", err)
	}
	if len(failed) > 0 {
		return fmt.Errorf("batch: %d of %d frames failed: %v", len(failed), len(paths), failed)
	}
	return nil
}

// process runs the numeric stages for one frame. Nothing is written to
// disk here; emit happens only after normalization has fully completed,
// so a failed frame never leaves partial output behind.
func (p *Pipeline)process(ctx context.Context, path string) (*develop.RGB48, *rawfile.Frame, error) {
	frame, err := p.Decoder.Decode(ctx, path)
	if err != nil {
		return nil, nil, fmt.Errorf("decode '%s': %w", path, err)
	}

	if p.Config.Verbosity > 0 {
		log.Printf("%s: %s, %s", path, frame, frame.Stats())
		if frame.Bits != p.Config.BitDepth {
			log.Printf("%s: decoder reports %d bit data but configuration says %d; trusting configuration",
				path, frame.Bits, p.Config.BitDepth)
		}
	}

	grid := develop.GridFromPix(frame.Pix, frame.Width, frame.Height)
	corrected := develop.SubtractDark(grid, uint16(p.Config.DarknessLevel))

	var planes develop.Planes
	if p.Config.Interpolate {
		planes, err = develop.Interpolate(corrected, p.Config.Layout)
	} else {
		planes, err = develop.ExtractPlanes(corrected, p.Config.Layout)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("extract '%s': %w", path, err)
	}

	if p.Config.Verbosity > 1 {
		p.dumpPlanes(path, planes)
	}

	img := develop.Normalize(planes, p.Config.DarknessLevel, p.Config.SaturationLevel)
	return img, frame, nil
}
