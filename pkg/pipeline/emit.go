package pipeline

import(
	"fmt"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/lmittmann/ppm"
	"golang.org/x/image/tiff"

	"github.com/cfadev/rawconv/pkg/develop"
	"github.com/cfadev/rawconv/pkg/exifname"
	"github.com/cfadev/rawconv/pkg/rawfile"
)

// Output format tags. "raw" re-emits the decoder's 16 bit mosaic PGM
// untouched; the others serialize the normalized RGB image.
const (
	FormatRaw  = "raw"
	FormatPPM  = "ppm"
	FormatTIFF = "tiff"
	FormatPNG  = "png"
	FormatNone = "none"
)

var formatExt = map[string]string{
	FormatRaw:  "pgm",
	FormatPPM:  "ppm",
	FormatTIFF: "tif",
	FormatPNG:  "png",
}

// emit serializes one finished frame next to its input file. Called
// only after normalization has completed.
func (p *Pipeline)emit(inPath string, img *develop.RGB48, frame *rawfile.Frame) error {
	if p.Config.Format == FormatNone {
		return nil
	}

	outPath := p.outputPath(inPath)
	if p.Config.Verbosity > 0 {
		log.Printf("writing %s", outPath)
	}

	writer, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("open+w '%s': %v", outPath, err)
	}
	defer writer.Close()

	switch p.Config.Format {
	case FormatRaw:
		err = rawfile.WritePGM(writer, frame)
	case FormatPPM:
		err = ppm.Encode(writer, img)
	case FormatTIFF:
		err = tiff.Encode(writer, img, &tiff.Options{Compression: tiff.Deflate})
	case FormatPNG:
		err = png.Encode(writer, img)
	}
	if err != nil {
		return fmt.Errorf("encode %s '%s': %v", p.Config.Format, outPath, err)
	}
	return nil
}

// outputPath builds the destination filename: the input's stem,
// optionally rebuilt from EXIF exposure info, plus the configured
// suffix and the format's extension. Missing metadata is only a
// warning; the plain stem is used instead.
func (p *Pipeline)outputPath(inPath string) string {
	stem := strings.TrimSuffix(filepath.Base(inPath), filepath.Ext(inPath))

	if p.Config.RenameWithInfo {
		if s, err := exifname.Rename(inPath); err != nil {
			log.Printf("metadata for '%s' unavailable, keeping plain name: %v", inPath, err)
		} else {
			stem = s
		}
	}

	name := stem + p.Config.Suffix + "." + formatExt[p.Config.Format]
	return filepath.Join(filepath.Dir(inPath), name)
}
