package stage

import (
	"testing"

	"github.com/rm-hull/raster-filters/internal/filter"
	"github.com/rm-hull/raster-filters/internal/imageio"
	"github.com/rm-hull/raster-filters/internal/raster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newImage(t *testing.T, width, height, channels int, v float64) *imageio.Image {
	t.Helper()
	r, err := raster.Filled(width, height, channels, v)
	require.NoError(t, err)
	return imageio.NewImage(r)
}

func TestParse(t *testing.T) {
	defaults := BlurDefaults{Divisor: filter.SampleCountDivisor, Workers: 4}

	tests := []struct {
		spec string
		want imageio.PipelineStage
	}{
		{"blur=3", &BoxBlurStage{KernelSize: 3, Divisor: filter.SampleCountDivisor, Workers: 4}},
		{" BLUR=15 ", &BoxBlurStage{KernelSize: 15, Divisor: filter.SampleCountDivisor, Workers: 4}},
		{"brightness=1.7", &BrightnessStage{Factor: 1.7}},
		{"contrast=2", &ContrastStage{Factor: 2, Mid: 0.5}},
		{"contrast=0.5,0.25", &ContrastStage{Factor: 0.5, Mid: 0.25}},
		{"gaussian=1.0", &GaussianBlurStage{Sigma: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := Parse(tt.spec, defaults)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("errors", func(t *testing.T) {
		for _, spec := range []string{"", "blur", "blur=x", "blur=3,3", "brightness=", "contrast=1,2,3", "gaussian=abc", "sharpen=2"} {
			_, err := Parse(spec, defaults)
			assert.ErrorIs(t, err, raster.ErrInvalidArgument, spec)
		}
	})
}

func TestParseAll(t *testing.T) {
	stages, err := ParseAll([]string{"brightness=0.3", "blur=5"}, BlurDefaults{})
	require.NoError(t, err)
	assert.Len(t, stages, 2)

	_, err = ParseAll([]string{"blur=3", "nope"}, BlurDefaults{})
	assert.EqualError(t, err, `invalid argument: unknown stage "nope"`)
}

func TestBoxBlurStage(t *testing.T) {
	img := newImage(t, 5, 5, 1, 2.0)
	src := img.Raster

	require.NoError(t, img.Pipeline(&BoxBlurStage{KernelSize: 3}))
	assert.InDelta(t, 8.0/9.0, img.Raster.At(0, 0, 0), 1e-9)
	assert.InDelta(t, 2.0, img.Raster.At(2, 2, 0), 1e-9)
	assert.Equal(t, 2.0, src.At(0, 0, 0))

	err := img.Pipeline(&BoxBlurStage{KernelSize: 2})
	assert.ErrorIs(t, err, raster.ErrInvalidArgument)
}

func TestAffineStages(t *testing.T) {
	img := newImage(t, 2, 2, 3, 0.4)

	require.NoError(t, img.Pipeline(&BrightnessStage{Factor: 1.5}, &ContrastStage{Factor: 2, Mid: 0.5}))
	// 0.4 * 1.5 = 0.6, then (0.6 - 0.5) * 2 + 0.5 = 0.7
	assert.InDelta(t, 0.7, img.Raster.At(1, 1, 2), 1e-9)
}

func TestGaussianBlurStage(t *testing.T) {
	t.Run("keeps shape", func(t *testing.T) {
		for _, channels := range []int{1, 3, 4} {
			img := newImage(t, 6, 4, channels, 0.5)
			require.NoError(t, img.Pipeline(&GaussianBlurStage{Sigma: 1}))
			assert.Equal(t, 6, img.Raster.Width())
			assert.Equal(t, 4, img.Raster.Height())
			assert.Equal(t, channels, img.Raster.Channels())
		}
	})

	t.Run("rejects non-positive sigma", func(t *testing.T) {
		img := newImage(t, 2, 2, 3, 0.5)
		assert.ErrorIs(t, img.Pipeline(&GaussianBlurStage{Sigma: 0}), raster.ErrInvalidArgument)
	})
}
