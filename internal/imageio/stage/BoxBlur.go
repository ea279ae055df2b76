package stage

import (
	"github.com/rm-hull/raster-filters/internal/filter"
	"github.com/rm-hull/raster-filters/internal/imageio"
)

type BoxBlurStage struct {
	KernelSize int
	Divisor    filter.Divisor
	Workers    int
}

// Process averages each sample over a KernelSize x KernelSize window.
// With the default NominalDivisor the image edges darken slightly.
func (s *BoxBlurStage) Process(p *imageio.Image) error {
	out, err := filter.BlurWith(p.Raster, s.KernelSize,
		filter.WithDivisor(s.Divisor),
		filter.WithWorkers(s.Workers),
	)
	if err != nil {
		return err
	}
	p.Raster = out
	return nil
}
