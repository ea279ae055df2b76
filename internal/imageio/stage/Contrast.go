package stage

import (
	"github.com/rm-hull/raster-filters/internal/filter"
	"github.com/rm-hull/raster-filters/internal/imageio"
)

type ContrastStage struct {
	Factor float64
	Mid    float64
}

// Process stretches (Factor > 1) or flattens (Factor < 1) the distance of
// each sample from Mid
func (s *ContrastStage) Process(p *imageio.Image) error {
	out, err := filter.Contrast(p.Raster, s.Factor, s.Mid)
	if err != nil {
		return err
	}
	p.Raster = out
	return nil
}
