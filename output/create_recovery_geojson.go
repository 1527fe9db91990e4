package output

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/forest-guardian/burn-recovery-cli/internal/polygon"
	"github.com/forest-guardian/burn-recovery-cli/internal/recovery"
	"github.com/paulmach/orb/geojson"
)

// BurnAreas is the burn layer as one multipolygon feature. Without burned
// pixels the multipolygon is empty.
func BurnAreas(layer *polygon.Layer, date string) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	feature := geojson.NewFeature(layer.MultiPolygon(1))
	feature.Properties["burned"] = 1
	feature.Properties["date"] = date
	feature.Properties["pixels"] = layer.Pixels(1)
	feature.Properties["polygons"] = len(layer.Features)
	fc.Append(feature)
	return fc
}

// RecoveryAreas is one feature per recovery polygon, carrying the class
// value under recovery_class and its label under recovery.
func RecoveryAreas(layer *polygon.Layer, method recovery.Method, date string) *geojson.FeatureCollection {
	fc := layer.FeatureCollection("recovery_class")
	for _, f := range fc.Features {
		class := uint8(f.Properties.MustInt("recovery_class"))
		f.Properties["recovery"] = ClassLabel(class)
		f.Properties["method"] = string(method)
		f.Properties["date"] = date
	}
	return fc
}

func WriteGeoJSON(path string, fc *geojson.FeatureCollection) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating GeoJSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(fc); err != nil {
		return fmt.Errorf("error encoding GeoJSON: %w", err)
	}
	return nil
}
