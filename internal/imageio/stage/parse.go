package stage

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rm-hull/raster-filters/internal/filter"
	"github.com/rm-hull/raster-filters/internal/imageio"
	"github.com/rm-hull/raster-filters/internal/raster"
)

// BlurDefaults are applied to every box blur stage built by Parse.
type BlurDefaults struct {
	Divisor filter.Divisor
	Workers int
}

// Parse builds a stage from a "name=arg[,arg]" string, for example
// "blur=3", "brightness=1.7", "contrast=2,0.5" or "gaussian=1.0".
func Parse(spec string, defaults BlurDefaults) (imageio.PipelineStage, error) {
	name, args, _ := strings.Cut(strings.TrimSpace(spec), "=")
	var params []string
	if args != "" {
		params = strings.Split(args, ",")
	}

	switch strings.ToLower(name) {
	case "blur":
		if len(params) != 1 {
			return nil, usage(spec, "blur=<odd kernel size>")
		}
		k, err := strconv.Atoi(strings.TrimSpace(params[0]))
		if err != nil {
			return nil, fmt.Errorf("%w: kernel size %q: %v", raster.ErrInvalidArgument, params[0], err)
		}
		return &BoxBlurStage{KernelSize: k, Divisor: defaults.Divisor, Workers: defaults.Workers}, nil

	case "brightness":
		if len(params) != 1 {
			return nil, usage(spec, "brightness=<factor>")
		}
		f, err := parseFloats(params)
		if err != nil {
			return nil, err
		}
		return &BrightnessStage{Factor: f[0]}, nil

	case "contrast":
		if len(params) < 1 || len(params) > 2 {
			return nil, usage(spec, "contrast=<factor>[,<mid>]")
		}
		f, err := parseFloats(params)
		if err != nil {
			return nil, err
		}
		s := &ContrastStage{Factor: f[0], Mid: filter.DefaultContrastMid}
		if len(f) == 2 {
			s.Mid = f[1]
		}
		return s, nil

	case "gaussian":
		if len(params) != 1 {
			return nil, usage(spec, "gaussian=<sigma>")
		}
		f, err := parseFloats(params)
		if err != nil {
			return nil, err
		}
		return &GaussianBlurStage{Sigma: f[0]}, nil

	default:
		return nil, fmt.Errorf("%w: unknown stage %q", raster.ErrInvalidArgument, name)
	}
}

// ParseAll parses each spec in turn, failing on the first bad one.
func ParseAll(specs []string, defaults BlurDefaults) ([]imageio.PipelineStage, error) {
	stages := make([]imageio.PipelineStage, 0, len(specs))
	for _, spec := range specs {
		s, err := Parse(spec, defaults)
		if err != nil {
			return nil, err
		}
		stages = append(stages, s)
	}
	return stages, nil
}

func parseFloats(params []string) ([]float64, error) {
	out := make([]float64, len(params))
	for i, p := range params {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", raster.ErrInvalidArgument, p)
		}
		out[i] = f
	}
	return out, nil
}

func usage(spec, want string) error {
	return fmt.Errorf("%w: malformed stage %q, expected %s", raster.ErrInvalidArgument, spec, want)
}
