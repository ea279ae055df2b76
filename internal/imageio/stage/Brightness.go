package stage

import (
	"github.com/rm-hull/raster-filters/internal/filter"
	"github.com/rm-hull/raster-filters/internal/imageio"
)

type BrightnessStage struct {
	Factor float64
}

// Process multiplies every sample by Factor
// (< 1 darkens, > 1 brightens)
func (s *BrightnessStage) Process(p *imageio.Image) error {
	out, err := filter.Brightness(p.Raster, s.Factor)
	if err != nil {
		return err
	}
	p.Raster = out
	return nil
}
