package recovery

import (
	"fmt"
	"math"

	"github.com/forest-guardian/burn-recovery-cli/internal/raster"
)

// Thresholds are the dNDVI cut points between low, moderate and high recovery.
type Thresholds struct {
	Low  float64
	High float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{Low: 0.1, High: 0.4}
}

func (t Thresholds) Validate() error {
	if math.IsNaN(t.Low) || math.IsNaN(t.High) || t.Low >= t.High {
		return fmt.Errorf("invalid recovery thresholds: low %v must be below high %v", t.Low, t.High)
	}
	return nil
}

// Class maps one dNDVI value to its recovery class. NaN has no class.
func (t Thresholds) Class(v float64) uint8 {
	switch {
	case math.IsNaN(v):
		return ClassNone
	case v < t.Low:
		return ClassLow
	case v < t.High:
		return ClassModerate
	default:
		return ClassHigh
	}
}

// ThresholdStrategy classifies by fixed cut points.
type ThresholdStrategy struct {
	Thresholds Thresholds
}

func (s ThresholdStrategy) Method() Method {
	return MethodThreshold
}

func (s ThresholdStrategy) Classify(dndvi *raster.Float, burn *raster.Mask) (*raster.Mask, []float64, error) {
	if err := s.Thresholds.Validate(); err != nil {
		return nil, nil, err
	}
	if err := dndvi.Grid.Check(burn.Grid); err != nil {
		return nil, nil, err
	}

	classes := raster.NewMask(dndvi.Grid)
	for i, v := range dndvi.Data {
		if burn.Data[i] == 1 {
			classes.Data[i] = s.Thresholds.Class(v)
		}
	}
	return classes, nil, nil
}
