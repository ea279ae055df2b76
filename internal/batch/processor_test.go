package batch

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/rm-hull/raster-filters/internal/imageio"
	"github.com/rm-hull/raster-filters/internal/imageio/stage"
	"github.com/rm-hull/raster-filters/internal/raster"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func writeInput(t *testing.T, dir, name string, v float64) string {
	t.Helper()
	r, err := raster.Filled(5, 5, 3, v)
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, imageio.NewImage(r).Save(path))
	return path
}

func TestNewProcessor(t *testing.T) {
	dir := t.TempDir()

	t.Run("pool size", func(t *testing.T) {
		_, err := NewProcessor([]string{"a.png"}, dir, ".png", 0, false, nil, quietLogger())
		assert.EqualError(t, err, "pool size must be at least 1")
	})

	t.Run("no inputs", func(t *testing.T) {
		_, err := NewProcessor(nil, dir, ".png", 1, false, nil, quietLogger())
		assert.EqualError(t, err, "no files to process")
	})

	t.Run("unknown output format", func(t *testing.T) {
		_, err := NewProcessor([]string{"a.png"}, dir, ".gif", 1, false, nil, quietLogger())
		assert.ErrorIs(t, err, raster.ErrInvalidArgument)
	})

	t.Run("colliding output names", func(t *testing.T) {
		p, err := NewProcessor([]string{"a/lake.png", "b/city.png", "b/lake.jpg"}, dir, ".png", 2, false, nil, quietLogger())
		assert.Nil(t, p)
		assert.EqualError(t, err, "inputs a/lake.png and b/lake.jpg would both be written to "+filepath.Join(dir, "lake.png"))
	})

	t.Run("output names", func(t *testing.T) {
		p, err := NewProcessor([]string{"/some/where/lake.png", "city.jpg"}, dir, "_blur_k3.png", 1, false, nil, quietLogger())
		require.NoError(t, err)
		assert.Equal(t, []Job{
			{Input: "/some/where/lake.png", Output: filepath.Join(dir, "lake_blur_k3.png")},
			{Input: "city.jpg", Output: filepath.Join(dir, "city_blur_k3.png")},
		}, p.Jobs())
	})
}

func TestProcessor_Run(t *testing.T) {
	inDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "out")

	inputs := []string{
		writeInput(t, inDir, "one.png", 0.4),
		writeInput(t, inDir, "two.png", 0.8),
		filepath.Join(inDir, "missing.png"),
	}

	stages, err := stage.ParseAll([]string{"blur=3"}, stage.BlurDefaults{})
	require.NoError(t, err)

	p, err := NewProcessor(inputs, outDir, "_blur.png", 2, false, stages, quietLogger())
	require.NoError(t, err)

	errs := p.Run()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "failed to decode")

	img, err := imageio.Load(filepath.Join(outDir, "one_blur.png"))
	require.NoError(t, err)
	// corner pixel of a uniform image under the nominal divisor
	assert.InDelta(t, 0.4*4/9, img.Raster.At(0, 0, 0), 1.0/255)
	assert.InDelta(t, 0.4, img.Raster.At(2, 2, 0), 1.0/255)

	_, err = os.Stat(filepath.Join(outDir, "two_blur.png"))
	assert.NoError(t, err)

	leftovers, err := filepath.Glob(filepath.Join(outDir, "filter-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestProcessor_SkipsExisting(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()

	input := writeInput(t, inDir, "one.png", 0.4)
	existing := filepath.Join(outDir, "one_out.png")
	require.NoError(t, os.WriteFile(existing, []byte("keep me"), 0644))

	stages := []imageio.PipelineStage{&stage.BrightnessStage{Factor: 2}}

	p, err := NewProcessor([]string{input}, outDir, "_out.png", 1, false, stages, quietLogger())
	require.NoError(t, err)
	assert.Empty(t, p.Run())

	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "keep me", string(data))

	p, err = NewProcessor([]string{input}, outDir, "_out.png", 1, true, stages, quietLogger())
	require.NoError(t, err)
	assert.Empty(t, p.Run())

	img, err := imageio.Load(existing)
	require.NoError(t, err)
	assert.InDelta(t, 0.8, img.Raster.At(0, 0, 1), 1.0/255)
}
