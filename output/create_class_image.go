package output

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"github.com/forest-guardian/burn-recovery-cli/internal/raster"
)

// ClassImage paints every recovery class with its color. Unclassified
// pixels are left transparent.
func ClassImage(m *raster.Mask) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, m.Grid.Width, m.Grid.Height))
	for y := 0; y < m.Grid.Height; y++ {
		for x := 0; x < m.Grid.Width; x++ {
			if class := m.At(x, y); class != 0 {
				img.SetNRGBA(x, y, ClassColor(class))
			}
		}
	}
	return img
}

// BurnImage paints burned pixels over a transparent background.
func BurnImage(m *raster.Mask) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, m.Grid.Width, m.Grid.Height))
	for y := 0; y < m.Grid.Height; y++ {
		for x := 0; x < m.Grid.Width; x++ {
			if m.At(x, y) != 0 {
				img.SetNRGBA(x, y, burnColor)
			}
		}
	}
	return img
}

// ndviStops goes from bare soil through sparse to dense vegetation.
var ndviStops = []struct {
	value float64
	color color.NRGBA
}{
	{-1, color.NRGBA{R: 165, G: 0, B: 38, A: 255}},
	{0, color.NRGBA{R: 255, G: 255, B: 191, A: 255}},
	{1, color.NRGBA{R: 0, G: 104, B: 55, A: 255}},
}

// IndexColor maps a normalized difference index in [-1, 1] to a color.
// NaN is black.
func IndexColor(v float64) color.NRGBA {
	if math.IsNaN(v) {
		return color.NRGBA{A: 255}
	}
	v = math.Max(-1, math.Min(1, v))
	for i := 1; i < len(ndviStops); i++ {
		lo, hi := ndviStops[i-1], ndviStops[i]
		if v <= hi.value {
			t := (v - lo.value) / (hi.value - lo.value)
			return color.NRGBA{
				R: lerp(lo.color.R, hi.color.R, t),
				G: lerp(lo.color.G, hi.color.G, t),
				B: lerp(lo.color.B, hi.color.B, t),
				A: 255,
			}
		}
	}
	return ndviStops[len(ndviStops)-1].color
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
}

// IndexImage renders an index raster with IndexColor.
func IndexImage(r *raster.Float) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, r.Grid.Width, r.Grid.Height))
	for y := 0; y < r.Grid.Height; y++ {
		for x := 0; x < r.Grid.Width; x++ {
			img.SetNRGBA(x, y, IndexColor(r.At(x, y)))
		}
	}
	return img
}

func WritePNG(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating PNG file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("error encoding PNG file: %w", err)
	}
	return nil
}
