package polygon

import (
	"github.com/forest-guardian/burn-recovery-cli/internal/raster"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Feature is one traced polygon tagged with the raster value it covers.
type Feature struct {
	Class   uint8
	Pixels  int
	Polygon orb.Polygon
}

// Layer is the vector form of a class raster. Features are grouped by class in
// the order of Values; within a class they follow tracing order.
type Layer struct {
	Grid      raster.Grid
	Values    []uint8
	Features  []Feature
	Discarded int // traced polygons dropped as invalid
}

// Polygonize traces the 4-connected regions of each value in values and maps
// them through the grid transform. Outer rings are counter-clockwise and holes
// clockwise in the output CRS. Invalid polygons are counted in Discarded and
// left out. A raster without any of the values yields an empty layer.
func Polygonize(m *raster.Mask, values []uint8) *Layer {
	layer := &Layer{
		Grid:     m.Grid,
		Values:   append([]uint8(nil), values...),
		Features: []Feature{},
	}

	width, height := m.Grid.Width, m.Grid.Height
	for _, value := range values {
		comps := raster.Label(m, value, raster.Four)
		for i, pixels := range comps.Pixels {
			id := int32(i + 1)
			inside := func(x, y int) bool {
				return x >= 0 && x < width && y >= 0 && y < height && comps.Labels[y*width+x] == id
			}

			first := vertex{X: pixels[0] % width, Y: pixels[0] / width}
			rings := traceRings(boundary(pixels, width, height, inside), first)
			pixelRings, poly := toPolygon(rings, m.Grid.Transform)
			if !validPolygon(pixelRings, poly) {
				layer.Discarded++
				continue
			}

			layer.Features = append(layer.Features, Feature{
				Class:   value,
				Pixels:  len(pixels),
				Polygon: poly,
			})
		}
	}
	return layer
}

// toPolygon orders traced rings as outer ring then holes and maps them to the
// output CRS. Rings with zero pixel area are kept so validation rejects them.
func toPolygon(rings [][]vertex, t raster.Transform) ([][]vertex, orb.Polygon) {
	var ordered [][]vertex
	var holes [][]vertex
	for _, ring := range rings {
		if len(ordered) == 0 && signedArea2(ring) > 0 {
			ordered = append(ordered, ring)
			continue
		}
		holes = append(holes, ring)
	}
	if len(ordered) == 0 {
		return nil, nil
	}
	ordered = append(ordered, holes...)

	poly := make(orb.Polygon, 0, len(ordered))
	for i, ring := range ordered {
		mapped := make(orb.Ring, len(ring))
		for j, v := range ring {
			x, y := t.Apply(float64(v.X), float64(v.Y))
			mapped[j] = orb.Point{x, y}
		}

		want := orb.CCW
		if i > 0 {
			want = orb.CW
		}
		if mapped.Orientation() != want {
			mapped.Reverse()
		}
		poly = append(poly, mapped)
	}
	return ordered, poly
}

// ByClass returns the features of one class value.
func (l *Layer) ByClass(value uint8) []Feature {
	var features []Feature
	for _, f := range l.Features {
		if f.Class == value {
			features = append(features, f)
		}
	}
	return features
}

// MultiPolygon dissolves the features of one class into a single geometry.
// Polygons of one class never share an edge, so this is a plain collection.
func (l *Layer) MultiPolygon(value uint8) orb.MultiPolygon {
	mp := orb.MultiPolygon{}
	for _, f := range l.ByClass(value) {
		mp = append(mp, f.Polygon)
	}
	return mp
}

// Pixels counts the pixels covered by the features of one class.
func (l *Layer) Pixels(value uint8) int {
	total := 0
	for _, f := range l.ByClass(value) {
		total += f.Pixels
	}
	return total
}

// FeatureCollection converts the layer to GeoJSON with the class value stored
// under property. An empty layer gives an empty collection.
func (l *Layer) FeatureCollection(property string) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, f := range l.Features {
		feature := geojson.NewFeature(f.Polygon)
		feature.Properties[property] = int(f.Class)
		fc.Append(feature)
	}
	return fc
}
