package sentinel

import (
	"fmt"
	"os"

	"github.com/forest-guardian/burn-recovery-cli/internal/raster"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// ReadAreaBound returns the bounding box of every feature of a GeoJSON
// FeatureCollection, the fire perimeter or area of interest to download.
func ReadAreaBound(path string) (orb.Bound, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return orb.Bound{}, err
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return orb.Bound{}, fmt.Errorf("invalid GeoJSON %s: %w", path, err)
	}
	if len(fc.Features) == 0 {
		return orb.Bound{}, fmt.Errorf("%s has no features", path)
	}

	bound := fc.Features[0].Geometry.Bound()
	for _, f := range fc.Features[1:] {
		bound = bound.Union(f.Geometry.Bound())
	}
	if bound.IsEmpty() {
		return orb.Bound{}, fmt.Errorf("%s covers no area", path)
	}
	return bound, nil
}

// GridForBound lays a width x height grid over bound.
func GridForBound(bound orb.Bound, width, height int, crs string) raster.Grid {
	return raster.NewGrid(width, height, bound.Min.X(), bound.Min.Y(), bound.Max.X(), bound.Max.Y(), crs)
}
