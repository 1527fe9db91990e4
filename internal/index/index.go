package index

import (
	"fmt"
	"math"

	"github.com/forest-guardian/burn-recovery-cli/internal/raster"
	"github.com/forest-guardian/burn-recovery-cli/internal/scene"
)

// Epsilon keeps the denominator away from zero when both bands are zero.
const Epsilon = 1e-10

func normalizedDifference(a, b float64) float64 {
	return (a - b) / (a + b + Epsilon)
}

func clip(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}

// NormalizedDifference computes (a-b)/(a+b+Epsilon) per pixel clipped to [-1, 1].
// NaN in either band stays NaN.
func NormalizedDifference(a, b *raster.Float) (*raster.Float, error) {
	if err := a.Grid.Check(b.Grid); err != nil {
		return nil, err
	}

	result := raster.NewFloat(a.Grid)
	width := a.Grid.Width
	raster.ParallelRows(a.Grid.Height, func(y int) {
		for i := y * width; i < (y+1)*width; i++ {
			result.Data[i] = clip(normalizedDifference(a.Data[i], b.Data[i]))
		}
	})
	return result, nil
}

// NBR is the normalized burn ratio from near and shortwave infrared.
func NBR(nir, swir *raster.Float) (*raster.Float, error) {
	return NormalizedDifference(nir, swir)
}

// NDVI is the vegetation index from near infrared and red.
func NDVI(nir, red *raster.Float) (*raster.Float, error) {
	return NormalizedDifference(nir, red)
}

// Clip returns a copy of a precomputed index clipped to [-1, 1].
func Clip(r *raster.Float) *raster.Float {
	result := raster.NewFloat(r.Grid)
	for i, v := range r.Data {
		result.Data[i] = clip(v)
	}
	return result
}

// Derive attaches nbr and ndvi to s. NDVI comes from the product's own NDVI
// band when present, otherwise from B08 and B04.
func Derive(s scene.Scene) (scene.Scene, error) {
	nir, err := s.MustBand(scene.BandNIR)
	if err != nil {
		return scene.Scene{}, err
	}
	swir, err := s.MustBand(scene.BandSWIR)
	if err != nil {
		return scene.Scene{}, err
	}

	nbr, err := NBR(nir, swir)
	if err != nil {
		return scene.Scene{}, fmt.Errorf("nbr for scene %s: %w", s.ID, err)
	}

	var ndvi *raster.Float
	if precomputed, ok := s.Band(scene.BandNDVIL2A); ok {
		ndvi = Clip(precomputed)
	} else {
		red, err := s.MustBand(scene.BandRed)
		if err != nil {
			return scene.Scene{}, err
		}
		ndvi, err = NDVI(nir, red)
		if err != nil {
			return scene.Scene{}, fmt.Errorf("ndvi for scene %s: %w", s.ID, err)
		}
	}

	derived, err := s.WithBand(scene.BandNBR, nbr)
	if err != nil {
		return scene.Scene{}, err
	}
	return derived.WithBand(scene.BandNDVI, ndvi)
}
