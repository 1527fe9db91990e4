package raster

import (
	"fmt"
	"math"
	"strings"
)

// Transform is an affine geotransform in GDAL order:
// x = t[0] + px*t[1] + py*t[2], y = t[3] + px*t[4] + py*t[5].
type Transform [6]float64

// Apply maps pixel coordinates (column, row) to spatial coordinates.
func (t Transform) Apply(px, py float64) (float64, float64) {
	return t[0] + px*t[1] + py*t[2], t[3] + px*t[4] + py*t[5]
}

// PixelArea is the area of one pixel in CRS units.
func (t Transform) PixelArea() float64 {
	return math.Abs(t[1]*t[5] - t[2]*t[4])
}

func (t Transform) equal(o Transform) bool {
	for i := range t {
		if math.Abs(t[i]-o[i]) > 1e-9 {
			return false
		}
	}
	return true
}

// Grid is the shared raster geometry: shape, transform and CRS.
type Grid struct {
	Width     int
	Height    int
	Transform Transform
	CRS       string
}

// NewGrid builds a north-up grid covering the bounds minX, minY, maxX, maxY.
func NewGrid(width, height int, minX, minY, maxX, maxY float64, crs string) Grid {
	return Grid{
		Width:  width,
		Height: height,
		Transform: Transform{
			minX, (maxX - minX) / float64(width), 0,
			maxY, 0, -(maxY - minY) / float64(height),
		},
		CRS: crs,
	}
}

func (g Grid) Size() int {
	return g.Width * g.Height
}

func (g Grid) Contains(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// Geographic reports whether the CRS is a geographic (lat/lon) system.
func (g Grid) Geographic() bool {
	crs := strings.ToUpper(strings.TrimSpace(g.CRS))
	switch {
	case crs == "EPSG:4326", crs == "WGS84", crs == "CRS:84":
		return true
	case strings.HasPrefix(crs, "GEOGCS"), strings.HasPrefix(crs, "GEOGCRS"):
		return true
	}
	return false
}

// Check returns ErrInputShapeMismatch when o does not share this grid.
func (g Grid) Check(o Grid) error {
	if g.Width != o.Width || g.Height != o.Height {
		return fmt.Errorf("%w: %dx%d vs %dx%d", ErrInputShapeMismatch, g.Width, g.Height, o.Width, o.Height)
	}
	if !g.Transform.equal(o.Transform) {
		return fmt.Errorf("%w: transform %v vs %v", ErrInputShapeMismatch, g.Transform, o.Transform)
	}
	if g.CRS != o.CRS {
		return fmt.Errorf("%w: crs %q vs %q", ErrInputShapeMismatch, g.CRS, o.CRS)
	}
	return nil
}
