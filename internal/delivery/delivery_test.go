package delivery

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/forest-guardian/burn-recovery-cli/internal/logger"
	"github.com/forest-guardian/burn-recovery-cli/internal/pipeline"
	"github.com/forest-guardian/burn-recovery-cli/internal/raster"
	"github.com/forest-guardian/burn-recovery-cli/internal/scene"
	"github.com/forest-guardian/burn-recovery-cli/internal/sentinel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var grid = raster.NewGrid(12, 12, 500000, 4600000, 500120, 4600120, "EPSG:32629")

func inFire(x, y int) bool {
	return x >= 2 && x < 10 && y >= 2 && y < 10
}

func band(f func(x, y int) float64) *raster.Float {
	r := raster.NewFloat(grid)
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			r.Set(x, y, f(x, y))
		}
	}
	return r
}

// fireScene builds a scene whose burned block has the given reflectances.
func fireScene(t *testing.T, day time.Time, red, nir, swir float64) scene.Scene {
	t.Helper()
	s := scene.New("S2_"+day.Format("20060102"), day, "test", grid)
	values := map[string][2]float64{
		scene.BandRed:  {red, 0.05},
		scene.BandNIR:  {nir, 0.5},
		scene.BandSWIR: {swir, 0.1},
	}
	var err error
	for name, v := range values {
		s, err = s.WithBand(name, band(func(x, y int) float64 {
			if inFire(x, y) {
				return v[0]
			}
			return v[1]
		}))
		require.NoError(t, err)
	}
	return s
}

func fire(t *testing.T) []scene.Scene {
	return []scene.Scene{
		fireScene(t, time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC), 0.05, 0.5, 0.1),
		fireScene(t, time.Date(2024, 9, 10, 0, 0, 0, 0, time.UTC), 0.2, 0.1, 0.4),
		fireScene(t, time.Date(2024, 11, 9, 0, 0, 0, 0, time.UTC), 0.1, 0.3, 0.2),
	}
}

func testOptions(t *testing.T) AnalysisOptions {
	cfg := pipeline.DefaultConfig()
	cfg.Burn.MinClusterSize = 10
	return AnalysisOptions{
		ScenesDir: t.TempDir(),
		ResultDir: filepath.Join(t.TempDir(), "result"),
		Config:    cfg,
		Bands:     []string{scene.BandRed, scene.BandNIR, scene.BandSWIR},
	}
}

func TestAnalyzeWritesResults(t *testing.T) {
	opts := testOptions(t)

	summary, err := Analyze(context.Background(), fire(t), opts, &logger.NullLogger{})
	require.NoError(t, err)

	assert.Equal(t, 64, summary.Result.Burn.PixelCount)
	assert.Equal(t, "20240910", summary.Report.Burn.Date)
	assert.InDelta(t, 0.64, summary.Report.Burn.AreaHa, 1e-6)
	assert.Equal(t, []string{"20240910", "20241109"}, summary.Result.Dates())
	assert.Len(t, summary.Report.Rows, 2*2*3)

	for _, f := range summary.Files {
		_, err := os.Stat(f)
		assert.NoError(t, err, f)
	}
	assert.Contains(t, summary.Message(), "Burned area: 0.64 ha")
	assert.Contains(t, summary.Message(), "20241109:")
}

func TestRunAnalysisWithoutScenes(t *testing.T) {
	_, err := RunAnalysis(context.Background(), testOptions(t), &logger.NullLogger{})
	assert.ErrorIs(t, err, pipeline.ErrTooFewScenes)
}

type fakeDownloader struct {
	empty    map[string]bool
	fail     string
	requests []sentinel.Request
}

func (f *fakeDownloader) Download(_ context.Context, r sentinel.Request) (sentinel.Acquisition, error) {
	f.requests = append(f.requests, r)
	day := r.Day.Format("20060102")
	switch {
	case day == f.fail:
		return sentinel.Acquisition{}, errors.New("quota exceeded")
	case f.empty[day]:
		return sentinel.Acquisition{}, sentinel.ErrSceneNotFound
	}
	return sentinel.Acquisition{ID: "S2_" + day, Day: r.Day}, nil
}

func TestDownloadScenesSeparatesMissingDays(t *testing.T) {
	d := &fakeDownloader{empty: map[string]bool{"20240912": true}}
	days := []time.Time{
		time.Date(2024, 9, 12, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 9, 10, 0, 0, 0, 0, time.UTC),
	}

	summary, err := downloadScenes(context.Background(), d, grid, days, &logger.NullLogger{})
	require.NoError(t, err)
	require.Len(t, summary.Downloaded, 2)
	assert.Equal(t, "S2_20240801", summary.Downloaded[0].ID)
	assert.Equal(t, "S2_20240910", summary.Downloaded[1].ID)
	assert.Equal(t, []time.Time{days[0]}, summary.Missing)
	assert.Equal(t, 12, d.requests[0].Width)
}

func TestDownloadScenesStopsOnError(t *testing.T) {
	d := &fakeDownloader{fail: "20240801"}
	days := []time.Time{time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 9, 10, 0, 0, 0, 0, time.UTC)}

	_, err := downloadScenes(context.Background(), d, grid, days, &logger.NullLogger{})
	assert.ErrorContains(t, err, "quota exceeded")
	assert.Len(t, d.requests, 1)
}
