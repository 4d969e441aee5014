package rawfile

import(
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// DCRaw decodes raw camera files by running the dcraw tool:
//   -D  document mode, the undemosaiced sensor mosaic
//   -4  16 bit linear output, no gamma or brightness fiddling
//   -c  write to stdout
// so we receive a single-channel 16 bit PGM on the pipe.
type DCRaw struct {
	Tool             string // binary to run, default "dcraw"
	KeepIntermediate bool   // also write the PGM next to the input file
}

func (d DCRaw)Decode(ctx context.Context, path string) (*Frame, error) {
	tool := d.Tool
	if tool == "" {
		tool = "dcraw"
	}

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: stat '%s': %v", ErrDecode, path, err)
	}

	cmd := exec.CommandContext(ctx, tool, "-D", "-4", "-c", path)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%w: run %s on '%s': %v (%s)",
			ErrDecode, tool, path, err, strings.TrimSpace(stderr.String()))
	}

	f, err := ReadPGM(bytes.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s output for '%s': %v", ErrDecode, tool, path, err)
	}

	if d.KeepIntermediate {
		pgmPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".pgm"
		if err := os.WriteFile(pgmPath, out, 0644); err != nil {
			return nil, fmt.Errorf("%w: keep intermediate '%s': %v", ErrDecode, pgmPath, err)
		}
	}

	return f, nil
}
