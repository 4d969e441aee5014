package main

import(
	"context"
	"flag"
	"log"

	"github.com/cfadev/rawconv/pkg/pipeline"
)

var(
	fConfig string
	fCFA string
	fBitDepth uint
	fDarkness uint
	fSaturation uint
	fInterpolate bool
	fFormat string
	fSuffix string
	fKeepIntermediate bool
	fRenameWithInfo bool
	fPersist bool
	fVerbosity int
)

func init() {
	flag.StringVar(&fConfig, "c", "", "YAML config file; explicit flags override its values")
	flag.StringVar(&fCFA, "cfa", "RGGB", "CFA layout: RGGB, BGGR, GRBG, GBRG or XTrans")
	flag.UintVar(&fBitDepth, "bits", 16, "sensor bit depth")
	flag.UintVar(&fDarkness, "darkness", 0, "black level to subtract from every photosite")
	flag.UintVar(&fSaturation, "saturation", 0, "saturation ceiling (0 = max for the bit depth)")
	flag.BoolVar(&fInterpolate, "interpolate", false, "full-resolution demosaic instead of subsampled planes")
	flag.StringVar(&fFormat, "format", "png", "output format: raw, ppm, tiff, png or none")
	flag.StringVar(&fSuffix, "suffix", "", "appended to the output file stem")
	flag.BoolVar(&fKeepIntermediate, "keep", false, "keep the decoder's intermediate PGM next to the input")
	flag.BoolVar(&fRenameWithInfo, "info", false, "build output names from EXIF exposure info")
	flag.BoolVar(&fPersist, "persist", true, "write results to disk (always on for batches)")
	flag.IntVar(&fVerbosity, "v", 0, "how verbose to get")
	flag.Parse()

	log.Printf("rawconv starting\n")
}

func main() {
	cfg := pipeline.NewConfig()

	if fConfig != "" {
		loaded, err := pipeline.LoadConfig(fConfig)
		if err != nil {
			log.Fatal(err)
		}
		cfg = loaded
		log.Printf("Loaded base configuration from %s\n", fConfig)
	}

	// Only flags the user actually set override the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "cfa":         cfg.CFA = fCFA
		case "bits":        cfg.BitDepth = fBitDepth
		case "darkness":    cfg.DarknessLevel = uint32(fDarkness)
		case "saturation":  cfg.SaturationLevel = uint32(fSaturation)
		case "interpolate": cfg.Interpolate = fInterpolate
		case "format":      cfg.Format = fFormat
		case "suffix":      cfg.Suffix = fSuffix
		case "keep":        cfg.KeepIntermediate = fKeepIntermediate
		case "info":        cfg.RenameWithInfo = fRenameWithInfo
		case "persist":     cfg.Persist = fPersist
		case "v":           cfg.Verbosity = fVerbosity
		}
	})

	p, err := pipeline.New(cfg)
	if err != nil {
		log.Fatal(err)
	}

	if p.Config.Verbosity > 0 {
		log.Printf("Final configuration:-\n\n%s\n", p.Config.AsYaml())
	}

	paths := flag.Args()
	if len(paths) == 0 {
		log.Fatal("no input files given")
	}

	ctx := context.Background()
	if len(paths) == 1 {
		_, err = p.ConvertFile(ctx, paths[0])
	} else {
		err = p.ConvertBatch(ctx, paths)
	}
	if err != nil {
		log.Fatal(err)
	}
}
