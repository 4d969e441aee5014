// Package pipeline sequences the conversion stages over input frames
// and routes results to the output and metadata collaborators.
package pipeline

import(
	"errors"
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/cfadev/rawconv/pkg/cfa"
)

/* Example config file ...

cfa: XTrans
bitdepth: 14
darknesslevel: 1024
saturationlevel: 16200
interpolate: false
format: tiff
suffix: _dev
rename-with-info: true
verbose: 1

*/

var ErrConfig = errors.New("invalid configuration")

type Config struct {
	CFA              string `yaml:"cfa"`
	BitDepth         uint   `yaml:"bitdepth"`
	DarknessLevel    uint32 `yaml:"darknesslevel"`
	SaturationLevel  uint32 `yaml:"saturationlevel"` // 0 means derive from bitdepth
	Interpolate      bool   `yaml:"interpolate"`
	Format           string `yaml:"format"`
	Suffix           string `yaml:"suffix"`
	KeepIntermediate bool   `yaml:"keepintermediate"`
	RenameWithInfo   bool   `yaml:"rename-with-info"`
	Persist          bool   `yaml:"persist"`
	Verbosity        int    `yaml:"verbose"`

	// Derived by Finalize
	Layout cfa.Layout `yaml:"-"`
}

func NewConfig() Config {
	return Config{
		CFA:      "RGGB",
		BitDepth: 16,
		Format:   FormatPNG,
		Persist:  true,
	}
}

func LoadConfig(filename string) (Config, error) {
	c := NewConfig()

	contents, err := os.ReadFile(filename)
	if err != nil {
		return c, fmt.Errorf("config read %s: %v", filename, err)
	}
	if err := yaml.Unmarshal(contents, &c); err != nil {
		return c, fmt.Errorf("config parse %s: %v", filename, err)
	}

	return c, nil
}

func (c Config)AsYaml() string {
	b, err := yaml.Marshal(c)
	if err != nil {
		log.Fatalf("Can't marshal config yaml: %v\n", err)
	}
	return string(b)
}

// DefaultSaturation is the ceiling used when none is configured: the
// maximum representable value at the sensor's bit depth.
func DefaultSaturation(bits uint) uint32 {
	return uint32(1)<<bits - 1
}

// Finalize applies defaults and sanity-checks the configuration. It
// must run, and pass, before any frame is read: every violation here is
// an ErrConfig, and nothing downstream re-validates.
func (c *Config)Finalize() error {
	if c.BitDepth < 1 || c.BitDepth > 16 {
		return fmt.Errorf("%w: bitdepth %d outside [1,16]", ErrConfig, c.BitDepth)
	}

	max := DefaultSaturation(c.BitDepth)
	if c.SaturationLevel == 0 {
		c.SaturationLevel = max
	}
	if c.SaturationLevel > max {
		return fmt.Errorf("%w: saturation %d exceeds %d, the maximum for %d bit data",
			ErrConfig, c.SaturationLevel, max, c.BitDepth)
	}
	if c.DarknessLevel >= c.SaturationLevel {
		return fmt.Errorf("%w: darkness %d must be below saturation %d",
			ErrConfig, c.DarknessLevel, c.SaturationLevel)
	}

	layout, err := cfa.ParseLayout(c.CFA)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}
	c.Layout = layout

	switch c.Format {
	case FormatRaw, FormatPPM, FormatTIFF, FormatPNG, FormatNone:
	default:
		return fmt.Errorf("%w: no output format named '%s'", ErrConfig, c.Format)
	}

	return nil
}
