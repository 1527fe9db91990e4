package output

import (
	"encoding/json"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/forest-guardian/burn-recovery-cli/internal/burn"
	"github.com/forest-guardian/burn-recovery-cli/internal/logger"
	"github.com/forest-guardian/burn-recovery-cli/internal/pipeline"
	"github.com/forest-guardian/burn-recovery-cli/internal/polygon"
	"github.com/forest-guardian/burn-recovery-cli/internal/raster"
	"github.com/forest-guardian/burn-recovery-cli/internal/recovery"
	"github.com/forest-guardian/burn-recovery-cli/internal/report"
	"github.com/forest-guardian/burn-recovery-cli/internal/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testGrid = raster.NewGrid(6, 4, 500000, 4600000, 500060, 4600040, "EPSG:32629")

func classMask(t *testing.T) *raster.Mask {
	t.Helper()
	m, err := raster.MaskFromRows(testGrid, [][]uint8{
		{0, 1, 1, 2, 2, 0},
		{0, 1, 1, 2, 2, 0},
		{0, 3, 3, 3, 0, 0},
		{0, 0, 0, 0, 0, 0},
	})
	require.NoError(t, err)
	return m
}

func TestClassImageColors(t *testing.T) {
	img := ClassImage(classMask(t))

	assert.Equal(t, color.NRGBA{}, img.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{R: 0xFF, A: 0xCC}, img.NRGBAAt(1, 0))
	assert.Equal(t, color.NRGBA{R: 0xFF, G: 0xFF, A: 0xCC}, img.NRGBAAt(3, 1))
	assert.Equal(t, color.NRGBA{G: 0xFF, A: 0xCC}, img.NRGBAAt(2, 2))
}

func TestClassLabel(t *testing.T) {
	assert.Equal(t, "No recovery", ClassLabel(recovery.ClassLow))
	assert.Equal(t, "Moderate recovery", ClassLabel(recovery.ClassModerate))
	assert.Equal(t, "High recovery", ClassLabel(recovery.ClassHigh))
	assert.Equal(t, "Class 7", ClassLabel(7))
}

func TestIndexColor(t *testing.T) {
	assert.Equal(t, color.NRGBA{R: 165, G: 0, B: 38, A: 255}, IndexColor(-1))
	assert.Equal(t, color.NRGBA{R: 165, G: 0, B: 38, A: 255}, IndexColor(-3))
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 191, A: 255}, IndexColor(0))
	assert.Equal(t, color.NRGBA{R: 0, G: 104, B: 55, A: 255}, IndexColor(1))
	assert.Equal(t, color.NRGBA{A: 255}, IndexColor(math.NaN()))
}

func TestRecoveryAreasProperties(t *testing.T) {
	layer := polygon.Polygonize(classMask(t), recovery.Classes)
	fc := RecoveryAreas(layer, recovery.MethodKMeans, "20241109")
	require.Len(t, fc.Features, 3)

	labels := map[string]bool{}
	for _, f := range fc.Features {
		assert.Equal(t, "kmeans", f.Properties["method"])
		assert.Equal(t, "20241109", f.Properties["date"])
		labels[f.Properties.MustString("recovery")] = true
	}
	assert.Equal(t, map[string]bool{"No recovery": true, "Moderate recovery": true, "High recovery": true}, labels)
}

func TestBurnAreasWithoutBurnIsEmptyMultiPolygon(t *testing.T) {
	layer := polygon.Polygonize(raster.NewMask(testGrid), []uint8{1})

	path := filepath.Join(t.TempDir(), BurnAreasFile)
	require.NoError(t, WriteGeoJSON(path, BurnAreas(layer, "20240910")))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc struct {
		Features []struct {
			Geometry struct {
				Type        string            `json:"type"`
				Coordinates []json.RawMessage `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]interface{} `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(raw, &doc))
	require.Len(t, doc.Features, 1)
	assert.Equal(t, "MultiPolygon", doc.Features[0].Geometry.Type)
	assert.Empty(t, doc.Features[0].Geometry.Coordinates)
	assert.EqualValues(t, 0, doc.Features[0].Properties["pixels"])
}

func TestWriteStatsCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), StatsFile)
	rows := []report.Row{
		{Date: "20241109", Method: "threshold", Class: 1, Pixels: 4, Polygons: 1, AreaHa: 0.04, MeanDNDVI: -0.2},
		{Date: "20241109", Method: "threshold", Class: 2},
	}
	require.NoError(t, WriteStatsCSV(path, rows))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "date,method,class,pixels,polygons,area_ha,mean_dndvi", lines[0])
	assert.Equal(t, "20241109,threshold,1,4,1,0.04,-0.2", lines[1])
}

func TestRecoveryBarChartSize(t *testing.T) {
	img := RecoveryBarChart("Recovery Areas - 20241109", []report.Row{
		{Class: 1, AreaHa: 2}, {Class: 2, AreaHa: 0}, {Class: 3, AreaHa: 5},
	})
	assert.Equal(t, chartWidth, img.Bounds().Dx())
	assert.Equal(t, chartHeight, img.Bounds().Dy())
}

func TestWriteAnimationRejectsMismatchedFrames(t *testing.T) {
	small := IndexImage(raster.NewFloatFilled(testGrid, 0.5))
	large := IndexImage(raster.NewFloatFilled(raster.NewGrid(8, 4, 0, 0, 8, 4, "EPSG:32629"), 0.5))

	err := WriteAnimation(filepath.Join(t.TempDir(), "a.avi"), []Frame{{Label: "a", Image: small}, {Label: "b", Image: large}})
	assert.ErrorContains(t, err, "expected")

	assert.Error(t, WriteAnimation(filepath.Join(t.TempDir(), "b.avi"), nil))
}

func analysisResult(t *testing.T) *pipeline.Result {
	t.Helper()
	burned, err := raster.MaskFromRows(testGrid, [][]uint8{
		{0, 1, 1, 1, 1, 0},
		{0, 1, 1, 1, 1, 0},
		{0, 1, 1, 1, 0, 0},
		{0, 0, 0, 0, 0, 0},
	})
	require.NoError(t, err)

	var scenes []scene.Scene
	for i, day := range []time.Time{
		time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 9, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 11, 9, 0, 0, 0, 0, time.UTC),
	} {
		s := scene.New("S2_"+day.Format("20060102"), day, "test", testGrid)
		s, err = s.WithBand(scene.BandNDVI, raster.NewFloatFilled(testGrid, 0.6-0.2*float64(i)))
		require.NoError(t, err)
		scenes = append(scenes, s)
	}

	classes := classMask(t)
	rec := &recovery.Result{
		Method:  recovery.MethodThreshold,
		SceneID: scenes[2].ID,
		DNDVI:   raster.NewFloatFilled(testGrid, 0.2),
		Classes: classes,
	}
	return &pipeline.Result{
		Scenes:    scenes,
		Pre:       scenes[0],
		Post:      scenes[1],
		Baseline:  scenes[0],
		Burn:      &burn.Result{Diff: raster.NewFloatFilled(testGrid, 0.5), Raw: burned, Mask: burned, Components: 1, Kept: 1, PixelCount: 11},
		BurnLayer: polygon.Polygonize(burned, []uint8{1}),
		Recovery: []pipeline.Recovery{
			{Scene: scenes[2], Result: rec, Layer: polygon.Polygonize(classes, recovery.Classes)},
		},
	}
}

func TestWriterWritesEveryOutput(t *testing.T) {
	result := analysisResult(t)
	dir := filepath.Join(t.TempDir(), "run")

	w := NewWriter(dir, &logger.NullLogger{})
	w.GeoTIFF = false
	var notified []string
	w.OnFile = func(path string) { notified = append(notified, path) }

	written, err := w.Write(result, report.Build(result))
	require.NoError(t, err)
	assert.Len(t, written, w.Count(result))
	assert.Equal(t, written, notified)

	for _, name := range []string{
		BurnAreasFile, BurnImageFile, BurnSummaryFile, StatsFile, NDVIAnimationFile,
		"recovery_threshold_20241109.geojson", "recovery_threshold_20241109.png", "recovery_bar_threshold_20241109.png",
	} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.Positive(t, info.Size(), name)
	}
	_, err = os.Stat(filepath.Join(dir, BurnMaskFile))
	assert.True(t, os.IsNotExist(err))
}

func ExampleRecoveryName() {
	fmt.Println(RecoveryName(recovery.MethodKMeans, "20250423") + ".geojson")
	fmt.Println(BarChartName(recovery.MethodThreshold, "20241109"))

	// Output:
	// recovery_kmeans_20250423.geojson
	// recovery_bar_threshold_20241109.png
}
