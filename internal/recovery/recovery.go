package recovery

import (
	"fmt"
	"math"

	"github.com/forest-guardian/burn-recovery-cli/internal/raster"
)

// Ordinal recovery classes. 0 is outside the burned area or without data.
const (
	ClassNone     uint8 = 0
	ClassLow      uint8 = 1
	ClassModerate uint8 = 2
	ClassHigh     uint8 = 3
)

// Classes lists the recovery classes in the order outputs enumerate them.
var Classes = []uint8{ClassLow, ClassModerate, ClassHigh}

type Method string

const (
	MethodThreshold Method = "threshold"
	MethodKMeans    Method = "kmeans"
)

// Strategy assigns recovery classes to the burned pixels of a dNDVI raster.
// It returns the class mask and, for clustering, the ascending class centers.
type Strategy interface {
	Method() Method
	Classify(dndvi *raster.Float, burn *raster.Mask) (*raster.Mask, []float64, error)
}

// Result is the classification of one post-fire date with one strategy.
type Result struct {
	Method  Method
	SceneID string
	DNDVI   *raster.Float
	Classes *raster.Mask
	Centers []float64
}

// Difference returns later minus pre inside the burn mask and NaN elsewhere.
func Difference(pre, later *raster.Float, burn *raster.Mask) (*raster.Float, error) {
	if err := pre.Grid.Check(later.Grid); err != nil {
		return nil, err
	}
	if err := pre.Grid.Check(burn.Grid); err != nil {
		return nil, fmt.Errorf("burn mask: %w", err)
	}

	dndvi := raster.NewFloat(pre.Grid)
	width := pre.Grid.Width
	raster.ParallelRows(pre.Grid.Height, func(y int) {
		for i := y * width; i < (y+1)*width; i++ {
			if burn.Data[i] == 1 {
				dndvi.Data[i] = later.Data[i] - pre.Data[i]
			} else {
				dndvi.Data[i] = math.NaN()
			}
		}
	})
	return dndvi, nil
}

// Classify computes dNDVI for one later date and applies the strategy. The
// input rasters are not modified.
func Classify(sceneID string, pre, later *raster.Float, burn *raster.Mask, strategy Strategy) (*Result, error) {
	if pre.ValidCount() == 0 {
		return nil, fmt.Errorf("pre-fire index: %w", raster.ErrEmptyInput)
	}
	if later.ValidCount() == 0 {
		return nil, fmt.Errorf("index of %s: %w", sceneID, raster.ErrEmptyInput)
	}

	dndvi, err := Difference(pre, later, burn)
	if err != nil {
		return nil, err
	}

	classes, centers, err := strategy.Classify(dndvi, burn)
	if err != nil {
		return nil, fmt.Errorf("%s classification of %s: %w", strategy.Method(), sceneID, err)
	}

	return &Result{
		Method:  strategy.Method(),
		SceneID: sceneID,
		DNDVI:   dndvi,
		Classes: classes,
		Centers: centers,
	}, nil
}
