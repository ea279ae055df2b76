package filter

import (
	"github.com/rm-hull/raster-filters/internal/raster"
)

// DefaultContrastMid is the pivot used for samples normalised to [0,1].
const DefaultContrastMid = 0.5

// Brightness scales every sample by factor. Factors below 1 darken, above 1
// brighten.
func Brightness(src *raster.Raster, factor float64) (*raster.Raster, error) {
	return src.Map(func(v float64) float64 {
		return v * factor
	})
}

// Contrast moves every sample away from (factor > 1) or towards (factor < 1)
// mid.
func Contrast(src *raster.Raster, factor, mid float64) (*raster.Raster, error) {
	return src.Map(func(v float64) float64 {
		return (v-mid)*factor + mid
	})
}
