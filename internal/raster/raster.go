package raster

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrShape           = errors.New("invalid raster shape")
)

// Raster is a height x width grid of multi-channel float64 samples, stored
// row-major in a single flat slice.
type Raster struct {
	width    int
	height   int
	channels int
	samples  []float64
}

// New allocates a zero filled raster.
func New(width, height, channels int) (*Raster, error) {
	if width <= 0 || height <= 0 || channels <= 0 {
		return nil, fmt.Errorf("%w: %dx%dx%d", ErrShape, width, height, channels)
	}
	return &Raster{
		width:    width,
		height:   height,
		channels: channels,
		samples:  make([]float64, width*height*channels),
	}, nil
}

// FromSamples builds a raster from a row-major sample slice. The slice is
// copied, so later changes to it are not seen by the raster.
func FromSamples(width, height, channels int, samples []float64) (*Raster, error) {
	r, err := New(width, height, channels)
	if err != nil {
		return nil, err
	}
	if len(samples) != len(r.samples) {
		return nil, fmt.Errorf("%w: expected %d samples, got %d", ErrShape, len(r.samples), len(samples))
	}
	copy(r.samples, samples)
	return r, nil
}

// Filled returns a raster with every sample set to v.
func Filled(width, height, channels int, v float64) (*Raster, error) {
	r, err := New(width, height, channels)
	if err != nil {
		return nil, err
	}
	for i := range r.samples {
		r.samples[i] = v
	}
	return r, nil
}

func (r *Raster) Width() int    { return r.width }
func (r *Raster) Height() int   { return r.height }
func (r *Raster) Channels() int { return r.channels }

// Validate reports ErrShape for a nil raster or one whose backing slice does
// not match its dimensions.
func (r *Raster) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: nil raster", ErrShape)
	}
	if r.width <= 0 || r.height <= 0 || r.channels <= 0 {
		return fmt.Errorf("%w: %dx%dx%d", ErrShape, r.width, r.height, r.channels)
	}
	if len(r.samples) != r.width*r.height*r.channels {
		return fmt.Errorf("%w: %d samples for %dx%dx%d", ErrShape, len(r.samples), r.width, r.height, r.channels)
	}
	return nil
}

func (r *Raster) index(row, col, ch int) int {
	return (row*r.width+col)*r.channels + ch
}

// At returns the sample at (row, col, ch). It panics when out of range, the
// same way a slice index would.
func (r *Raster) At(row, col, ch int) float64 {
	return r.samples[r.index(row, col, ch)]
}

func (r *Raster) Set(row, col, ch int, v float64) {
	r.samples[r.index(row, col, ch)] = v
}

// Samples returns a copy of the backing samples.
func (r *Raster) Samples() []float64 {
	out := make([]float64, len(r.samples))
	copy(out, r.samples)
	return out
}

// NewLike allocates a zero filled raster with the same shape as r.
func (r *Raster) NewLike() *Raster {
	return &Raster{
		width:    r.width,
		height:   r.height,
		channels: r.channels,
		samples:  make([]float64, len(r.samples)),
	}
}

func (r *Raster) Clone() *Raster {
	out := r.NewLike()
	copy(out.samples, r.samples)
	return out
}

// SameShape reports whether both rasters have equal dimensions.
func (r *Raster) SameShape(other *Raster) bool {
	return r.width == other.width && r.height == other.height && r.channels == other.channels
}

// Equal reports whether both rasters have the same shape and every pair of
// samples differs by no more than tolerance.
func (r *Raster) Equal(other *Raster, tolerance float64) bool {
	if !r.SameShape(other) {
		return false
	}
	for i, v := range r.samples {
		d := v - other.samples[i]
		if d > tolerance || d < -tolerance {
			return false
		}
	}
	return true
}

// Map applies fn to every sample and returns the result as a new raster.
func (r *Raster) Map(fn func(v float64) float64) (*Raster, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	out := r.NewLike()
	for i, v := range r.samples {
		out.samples[i] = fn(v)
	}
	return out, nil
}

// Row returns the samples of a single row (width * channels values). The
// returned slice aliases the raster and must only be written by code that
// owns the raster, such as a filter filling in a freshly allocated one.
func (r *Raster) Row(row int) []float64 {
	start := row * r.width * r.channels
	return r.samples[start : start+r.width*r.channels]
}
