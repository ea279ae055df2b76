package imageio

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/rm-hull/raster-filters/internal/raster"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Image is a decoded picture held as a raster so stages can work on float
// samples. Stages replace Raster with a new one rather than writing into it.
type Image struct {
	Raster *raster.Raster
}

type PipelineStage interface {
	Process(img *Image) error
}

func NewImage(r *raster.Raster) *Image {
	return &Image{Raster: r}
}

// Decode reads any registered image format (PNG, JPEG, GIF, BMP, TIFF, WebP).
func Decode(r io.Reader) (*Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	ras, err := FromImage(img)
	if err != nil {
		return nil, err
	}
	return &Image{Raster: ras}, nil
}

func Load(path string) (*Image, error) {
	img, err := imgio.Open(path)
	if err != nil {
		return nil, err
	}
	ras, err := FromImage(img)
	if err != nil {
		return nil, fmt.Errorf("failed to convert %s: %w", path, err)
	}
	return &Image{Raster: ras}, nil
}

// Write encodes the image as PNG.
func (p *Image) Write(w io.Writer) error {
	img, err := ToImage(p.Raster)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// Save encodes the image to path, choosing the encoder from the extension.
func (p *Image) Save(path string) error {
	encoder, err := EncoderFor(path)
	if err != nil {
		return err
	}
	img, err := ToImage(p.Raster)
	if err != nil {
		return err
	}
	return imgio.Save(path, img, encoder)
}

// EncoderFor maps .png, .jpg/.jpeg and .bmp to a bild encoder.
func EncoderFor(path string) (imgio.Encoder, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return imgio.PNGEncoder(), nil
	case ".jpg", ".jpeg":
		return imgio.JPEGEncoder(95), nil
	case ".bmp":
		return imgio.BMPEncoder(), nil
	default:
		return nil, fmt.Errorf("%w: no encoder for %q", raster.ErrInvalidArgument, filepath.Ext(path))
	}
}

func (p *Image) Pipeline(stages ...PipelineStage) error {
	for _, stage := range stages {
		if err := stage.Process(p); err != nil {
			return err
		}
	}
	return nil
}
