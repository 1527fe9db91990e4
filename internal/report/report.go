package report

import (
	"math"

	"github.com/forest-guardian/burn-recovery-cli/internal/pipeline"
	"github.com/forest-guardian/burn-recovery-cli/internal/polygon"
	"github.com/forest-guardian/burn-recovery-cli/internal/raster"
	"github.com/forest-guardian/burn-recovery-cli/internal/recovery"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/planar"
	"gonum.org/v1/gonum/stat"
)

const squareMetersPerHectare = 10000

// Row is one (date, method, class) line of the recovery statistics.
type Row struct {
	Date      string  `csv:"date"`
	Method    string  `csv:"method"`
	Class     int     `csv:"class"`
	Pixels    int     `csv:"pixels"`
	Polygons  int     `csv:"polygons"`
	AreaHa    float64 `csv:"area_ha"`
	MeanDNDVI float64 `csv:"mean_dndvi"`
}

// Burn summarises the detected burn area.
type Burn struct {
	Date       string  `csv:"date"`
	Pixels     int     `csv:"pixels"`
	Components int     `csv:"components"`
	Kept       int     `csv:"kept"`
	Polygons   int     `csv:"polygons"`
	AreaHa     float64 `csv:"area_ha"`
}

type Report struct {
	Burn Burn
	Rows []Row
}

// Build summarises a pipeline run.
func Build(result *pipeline.Result) *Report {
	r := &Report{
		Burn: Burn{
			Date:       result.Post.Date(),
			Pixels:     result.Burn.PixelCount,
			Components: result.Burn.Components,
			Kept:       result.Burn.Kept,
			Polygons:   len(result.BurnLayer.Features),
			AreaHa:     LayerAreaHa(result.BurnLayer, 1),
		},
	}
	for _, rec := range result.Recovery {
		r.Rows = append(r.Rows, Summarize(rec.Scene.Date(), rec.Result, rec.Layer)...)
	}
	return r
}

// Select returns the rows of one date and method.
func (r *Report) Select(date string, method recovery.Method) []Row {
	var rows []Row
	for _, row := range r.Rows {
		if row.Date == date && row.Method == string(method) {
			rows = append(rows, row)
		}
	}
	return rows
}

// Summarize returns one row per recovery class, classes without pixels
// included with zero values.
func Summarize(date string, result *recovery.Result, layer *polygon.Layer) []Row {
	values := make(map[uint8][]float64, len(recovery.Classes))
	for i, class := range result.Classes.Data {
		if class != recovery.ClassNone && !math.IsNaN(result.DNDVI.Data[i]) {
			values[class] = append(values[class], result.DNDVI.Data[i])
		}
	}

	rows := make([]Row, 0, len(recovery.Classes))
	for _, class := range recovery.Classes {
		row := Row{
			Date:     date,
			Method:   string(result.Method),
			Class:    int(class),
			Pixels:   result.Classes.Count(class),
			Polygons: len(layer.ByClass(class)),
			AreaHa:   LayerAreaHa(layer, class),
		}
		if len(values[class]) > 0 {
			row.MeanDNDVI = stat.Mean(values[class], nil)
		}
		rows = append(rows, row)
	}
	return rows
}

// LayerAreaHa is the area of one class of a layer in hectares.
func LayerAreaHa(layer *polygon.Layer, class uint8) float64 {
	total := 0.0
	for _, f := range layer.ByClass(class) {
		total += AreaHa(f.Polygon, layer.Grid)
	}
	return total
}

// AreaHa measures a polygon in hectares: geodesic for geographic grids,
// planar in CRS units (assumed metres) otherwise.
func AreaHa(p orb.Polygon, g raster.Grid) float64 {
	if g.Geographic() {
		return math.Abs(geo.Area(p)) / squareMetersPerHectare
	}
	return math.Abs(planar.Area(p)) / squareMetersPerHectare
}
