package stage

import (
	"fmt"

	"github.com/anthonynsimon/bild/blur"
	"github.com/rm-hull/raster-filters/internal/imageio"
	"github.com/rm-hull/raster-filters/internal/raster"
)

type GaussianBlurStage struct {
	Sigma float64
}

// Process applies a Gaussian blur using the specified Sigma value.
// The result is re-quantised to 8 bits per channel on the way through.
func (s *GaussianBlurStage) Process(p *imageio.Image) error {
	if s.Sigma <= 0 {
		return fmt.Errorf("%w: gaussian sigma must be positive, got %g", raster.ErrInvalidArgument, s.Sigma)
	}
	img, err := imageio.ToImage(p.Raster)
	if err != nil {
		return err
	}
	channels := p.Raster.Channels()
	out, err := imageio.FromImage(blur.Gaussian(img, s.Sigma))
	if err != nil {
		return err
	}
	if out.Channels() != channels {
		// bild always returns RGBA, which may come back with more or fewer
		// channels than the source had.
		out, err = matchChannels(out, channels)
		if err != nil {
			return err
		}
	}
	p.Raster = out
	return nil
}

// matchChannels truncates r to the given channel count, filling any missing
// (alpha) channel with 1.
func matchChannels(r *raster.Raster, channels int) (*raster.Raster, error) {
	out, err := raster.New(r.Width(), r.Height(), channels)
	if err != nil {
		return nil, err
	}
	for y := 0; y < r.Height(); y++ {
		for x := 0; x < r.Width(); x++ {
			for ch := 0; ch < channels; ch++ {
				v := 1.0
				if ch < r.Channels() {
					v = r.At(y, x, ch)
				}
				out.Set(y, x, ch, v)
			}
		}
	}
	return out, nil
}
