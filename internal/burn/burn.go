package burn

import (
	"fmt"
	"math"

	"github.com/forest-guardian/burn-recovery-cli/internal/raster"
)

// Options configures burned-area delineation.
type Options struct {
	Threshold      float64 // dNBR at or above this value is burned
	MinClusterSize int     // components must be strictly larger to be kept
}

func DefaultOptions() Options {
	return Options{
		Threshold:      0.3,
		MinClusterSize: 150,
	}
}

// Result holds the intermediate and final rasters of one detection.
type Result struct {
	Diff       *raster.Float // dNBR, pre minus post
	Raw        *raster.Mask  // thresholded mask before size filtering
	Mask       *raster.Mask  // burn mask after size filtering
	Components int           // 8-connected components in Raw
	Kept       int           // components retained in Mask
	PixelCount int           // burned pixels in Mask
}

// Difference returns pre minus post. Higher values mean vegetation loss.
func Difference(pre, post *raster.Float) (*raster.Float, error) {
	if err := pre.Grid.Check(post.Grid); err != nil {
		return nil, err
	}
	diff := raster.NewFloat(pre.Grid)
	width := pre.Grid.Width
	raster.ParallelRows(pre.Grid.Height, func(y int) {
		for i := y * width; i < (y+1)*width; i++ {
			diff.Data[i] = pre.Data[i] - post.Data[i]
		}
	})
	return diff, nil
}

// Threshold marks pixels with diff >= threshold. NaN pixels stay 0.
func Threshold(diff *raster.Float, threshold float64) *raster.Mask {
	mask := raster.NewMask(diff.Grid)
	for i, v := range diff.Data {
		if !math.IsNaN(v) && v >= threshold {
			mask.Data[i] = 1
		}
	}
	return mask
}

// Filter keeps only 8-connected components of mask==1 larger than minSize.
// It returns the filtered mask, the number of components found and the
// number kept. Filtering a filtered mask with the same minSize is a no-op.
func Filter(mask *raster.Mask, minSize int) (*raster.Mask, int, int) {
	comps := raster.Label(mask, 1, raster.Eight)
	filtered := raster.NewMask(mask.Grid)
	kept := 0
	for _, pixels := range comps.Pixels {
		if len(pixels) <= minSize {
			continue
		}
		kept++
		for _, p := range pixels {
			filtered.Data[p] = 1
		}
	}
	return filtered, comps.Count(), kept
}

// FromDifference thresholds and filters an already computed dNBR raster.
func FromDifference(diff *raster.Float, opts Options) *Result {
	raw := Threshold(diff, opts.Threshold)
	mask, components, kept := Filter(raw, opts.MinClusterSize)
	return &Result{
		Diff:       diff,
		Raw:        raw,
		Mask:       mask,
		Components: components,
		Kept:       kept,
		PixelCount: mask.Count(1),
	}
}

// Detect delineates burned pixels from pre- and post-fire NBR rasters. An
// all-zero mask is a valid result when no component passes the size filter.
func Detect(pre, post *raster.Float, opts Options) (*Result, error) {
	if err := pre.Grid.Check(post.Grid); err != nil {
		return nil, err
	}
	if pre.ValidCount() == 0 {
		return nil, fmt.Errorf("pre-fire index: %w", raster.ErrEmptyInput)
	}
	if post.ValidCount() == 0 {
		return nil, fmt.Errorf("post-fire index: %w", raster.ErrEmptyInput)
	}

	diff, err := Difference(pre, post)
	if err != nil {
		return nil, err
	}
	return FromDifference(diff, opts), nil
}
