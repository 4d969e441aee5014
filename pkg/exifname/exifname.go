// Package exifname builds descriptive output file stems from a photo's
// EXIF exposure metadata. Metadata problems are never fatal here: the
// plain stem always comes back usable, with an error the caller can
// log as a warning.
package exifname

import(
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
)

// Rename returns a stem like DSC0123_1-250s_f5.6_iso800_20170821T113453
// for the given file, appending whichever of exposure time, aperture,
// ISO and capture time the EXIF block actually carries. If the file has
// no readable EXIF at all, the unmodified stem is returned along with
// the underlying error.
func Rename(path string) (string, error) {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	reader, err := os.Open(path)
	if err != nil {
		return stem, fmt.Errorf("open+r exif '%s': %v", path, err)
	}
	defer reader.Close()

	ex, err := exif.Decode(reader)
	if err != nil {
		return stem, fmt.Errorf("exif parsing '%s': %v", path, err)
	}

	parts := []string{stem}

	if tag, err := ex.Get(exif.ExposureTime); err == nil {
		if num, denom, err := tag.Rat2(0); err == nil {
			parts = append(parts, fmt.Sprintf("%d-%ds", num, denom))
		}
	}

	if tag, err := ex.Get(exif.FNumber); err == nil {
		if num, denom, err := tag.Rat2(0); err == nil && denom != 0 {
			parts = append(parts, strings.TrimSuffix(fmt.Sprintf("f%.1f", float64(num)/float64(denom)), ".0"))
		}
	}

	if tag, err := ex.Get(exif.ISOSpeedRatings); err == nil {
		if val, err := tag.Int64(0); err == nil {
			parts = append(parts, fmt.Sprintf("iso%d", val))
		}
	}

	if tag, err := ex.Get(exif.DateTimeOriginal); err == nil {
		if val, err := tag.StringVal(); err == nil {
			parts = append(parts, compactTimestamp(val))
		}
	}

	return strings.Join(parts, "_"), nil
}

// compactTimestamp turns the EXIF "2017:08:21 11:34:53" form into
// 20170821T113453, safe for filenames.
func compactTimestamp(s string) string {
	s = strings.ReplaceAll(s, ":", "")
	return strings.ReplaceAll(s, " ", "T")
}
