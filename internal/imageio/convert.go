package imageio

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/rm-hull/raster-filters/internal/raster"
	"golang.org/x/image/draw"
)

// FromImage converts img to a raster with samples normalised to [0,1].
// Grey images give one channel, opaque images three (RGB), and images with
// any translucent pixel four (non-premultiplied RGBA).
func FromImage(img image.Image) (*raster.Raster, error) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	switch img.(type) {
	case *image.Gray, *image.Gray16:
		r, err := raster.New(width, height, 1)
		if err != nil {
			return nil, err
		}
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				g := color.Gray16Model.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.Gray16)
				r.Set(y, x, 0, float64(g.Y)/0xffff)
			}
		}
		return r, nil
	}

	nrgba := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(nrgba, nrgba.Bounds(), img, bounds.Min, draw.Src)

	channels := 3
	if !nrgba.Opaque() {
		channels = 4
	}

	r, err := raster.New(width, height, channels)
	if err != nil {
		return nil, err
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			px := nrgba.Pix[nrgba.PixOffset(x, y):]
			for ch := 0; ch < channels; ch++ {
				r.Set(y, x, ch, float64(px[ch])/255)
			}
		}
	}
	return r, nil
}

// ToImage converts a raster with 1, 3 or 4 channels back to an 8-bit image.
// Samples are clamped to [0,1] before scaling.
func ToImage(r *raster.Raster) (image.Image, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	rect := image.Rect(0, 0, r.Width(), r.Height())
	switch r.Channels() {
	case 1:
		out := image.NewGray(rect)
		for y := 0; y < r.Height(); y++ {
			for x := 0; x < r.Width(); x++ {
				out.SetGray(x, y, color.Gray{Y: toByte(r.At(y, x, 0))})
			}
		}
		return out, nil

	case 3, 4:
		out := image.NewNRGBA(rect)
		for y := 0; y < r.Height(); y++ {
			for x := 0; x < r.Width(); x++ {
				c := color.NRGBA{
					R: toByte(r.At(y, x, 0)),
					G: toByte(r.At(y, x, 1)),
					B: toByte(r.At(y, x, 2)),
					A: 0xff,
				}
				if r.Channels() == 4 {
					c.A = toByte(r.At(y, x, 3))
				}
				out.SetNRGBA(x, y, c)
			}
		}
		return out, nil

	default:
		return nil, fmt.Errorf("%w: cannot encode %d channels", raster.ErrShape, r.Channels())
	}
}

func toByte(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 1 {
		return 0xff
	}
	return uint8(math.Round(v * 255))
}
