package filter

import (
	"fmt"

	"github.com/rm-hull/raster-filters/internal/raster"
	"golang.org/x/sync/errgroup"
)

// Divisor selects what a box blur divides each window sum by.
type Divisor int

const (
	// NominalDivisor always divides by kernelSize², even when the window was
	// clamped at the raster edge. Edge and corner pixels come out darker than
	// the interior.
	NominalDivisor Divisor = iota

	// SampleCountDivisor divides by the number of samples actually summed, so
	// a uniform input stays uniform up to the edges.
	SampleCountDivisor
)

func (d Divisor) String() string {
	switch d {
	case NominalDivisor:
		return "nominal"
	case SampleCountDivisor:
		return "count"
	default:
		return fmt.Sprintf("Divisor(%d)", int(d))
	}
}

// ParseDivisor accepts the names produced by Divisor.String.
func ParseDivisor(s string) (Divisor, error) {
	switch s {
	case "nominal", "":
		return NominalDivisor, nil
	case "count":
		return SampleCountDivisor, nil
	default:
		return 0, fmt.Errorf("%w: unknown blur divisor %q", raster.ErrInvalidArgument, s)
	}
}

type blurOptions struct {
	divisor Divisor
	workers int
}

type BlurOption func(*blurOptions)

func WithDivisor(d Divisor) BlurOption {
	return func(o *blurOptions) { o.divisor = d }
}

// WithWorkers splits the rows into n bands computed concurrently. Values
// below 2 keep the blur on the calling goroutine.
func WithWorkers(n int) BlurOption {
	return func(o *blurOptions) { o.workers = n }
}

// Blur replaces every sample with the mean of the kernelSize x kernelSize
// window centred on it. Windows are clamped to the raster bounds and the sum
// is divided by kernelSize² regardless of clamping (see NominalDivisor).
//
// kernelSize must be positive and odd. src is never modified.
func Blur(src *raster.Raster, kernelSize int) (*raster.Raster, error) {
	return BlurWith(src, kernelSize)
}

// BlurWith is Blur with a configurable divisor policy and row parallelism.
func BlurWith(src *raster.Raster, kernelSize int, opts ...BlurOption) (*raster.Raster, error) {
	o := blurOptions{divisor: NominalDivisor, workers: 1}
	for _, opt := range opts {
		opt(&o)
	}

	if kernelSize <= 0 {
		return nil, fmt.Errorf("%w: kernel size must be positive, got %d", raster.ErrInvalidArgument, kernelSize)
	}
	if kernelSize%2 == 0 {
		return nil, fmt.Errorf("%w: kernel size must be odd, got %d", raster.ErrInvalidArgument, kernelSize)
	}
	if o.divisor != NominalDivisor && o.divisor != SampleCountDivisor {
		return nil, fmt.Errorf("%w: unknown blur divisor %s", raster.ErrInvalidArgument, o.divisor)
	}
	if err := src.Validate(); err != nil {
		return nil, err
	}

	dst := src.NewLike()
	b := boxBlur{src: src, dst: dst, radius: kernelSize / 2, area: float64(kernelSize) * float64(kernelSize), divisor: o.divisor}

	height := src.Height()
	if o.workers <= 1 || height == 1 {
		b.rows(0, height)
		return dst, nil
	}

	workers := min(o.workers, height)
	band := (height + workers - 1) / workers

	var g errgroup.Group
	for lo := 0; lo < height; lo += band {
		hi := min(lo+band, height)
		g.Go(func() error {
			b.rows(lo, hi)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return dst, nil
}

type boxBlur struct {
	src     *raster.Raster
	dst     *raster.Raster
	radius  int
	area    float64
	divisor Divisor
}

// rows fills dst rows [lo, hi). Each call writes a disjoint set of rows.
func (b *boxBlur) rows(lo, hi int) {
	width, height, channels := b.src.Width(), b.src.Height(), b.src.Channels()

	for row := lo; row < hi; row++ {
		top, bottom := clamp(row-b.radius, height), clamp(row+b.radius, height)
		out := b.dst.Row(row)

		for col := 0; col < width; col++ {
			left, right := clamp(col-b.radius, width), clamp(col+b.radius, width)

			divisor := b.area
			if b.divisor == SampleCountDivisor {
				divisor = float64((bottom - top + 1) * (right - left + 1))
			}

			for ch := 0; ch < channels; ch++ {
				total := 0.0
				for i := top; i <= bottom; i++ {
					for j := left; j <= right; j++ {
						total += b.src.At(i, j, ch)
					}
				}
				out[col*channels+ch] = total / divisor
			}
		}
	}
}

// clamp pins n into [0, size-1].
func clamp(n, size int) int {
	return max(0, min(size-1, n))
}
