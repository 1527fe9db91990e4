package sentinel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/forest-guardian/burn-recovery-cli/internal/cache"
	"github.com/forest-guardian/burn-recovery-cli/internal/logger"
	"github.com/forest-guardian/burn-recovery-cli/internal/raster"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSceneName(t *testing.T) {
	id, day, err := ParseSceneName("/data/scenes/S2_20240910.tif")
	require.NoError(t, err)
	assert.Equal(t, "S2_20240910", id)
	assert.Equal(t, time.Date(2024, 9, 10, 0, 0, 0, 0, time.UTC), day)

	for _, bad := range []string{"S2_20240910.png", "L8_20240910.tif", "S2_2024-09-10.tif", "S2_20241310.tif"} {
		_, _, err := ParseSceneName(bad)
		assert.Error(t, err, bad)
	}
	assert.Equal(t, "S2_20250423.tif", SceneName(time.Date(2025, 4, 23, 10, 30, 0, 0, time.UTC)))
}

func TestListScenesSortsAndSkipsOtherFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"S2_20241109.tif", "S2_20240801.tif", "notes.txt", "S2_20240910.tif", "S2_x.tif"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "S2_20240101.tif"), 0755))

	files, err := ListScenes(dir)
	require.NoError(t, err)

	var ids []string
	for _, f := range files {
		ids = append(ids, f.ID)
	}
	assert.Equal(t, []string{"S2_20240801", "S2_20240910", "S2_20241109"}, ids)
	assert.Equal(t, filepath.Join(dir, "S2_20240801.tif"), files[0].Path)

	_, err = ListScenes(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestBuildPayload(t *testing.T) {
	g := raster.NewGrid(200, 100, -8.2, 41.1, -8.0, 41.3, "EPSG:4326")
	r := NewRequest(time.Date(2024, 9, 10, 15, 0, 0, 0, time.UTC), g)
	assert.InDeltaSlice(t, []float64{-8.2, 41.1, -8.0, 41.3}, []float64{r.Bound.Min.X(), r.Bound.Min.Y(), r.Bound.Max.X(), r.Bound.Max.Y()}, 1e-9)

	body, err := buildPayload(r)
	require.NoError(t, err)

	var payload struct {
		Input struct {
			Bounds struct {
				BBox       []float64         `json:"bbox"`
				Properties map[string]string `json:"properties"`
			} `json:"bounds"`
			Data []struct {
				Type       string `json:"type"`
				DataFilter struct {
					TimeRange struct {
						From string `json:"from"`
						To   string `json:"to"`
					} `json:"timeRange"`
					MosaickingOrder string `json:"mosaickingOrder"`
				} `json:"dataFilter"`
			} `json:"data"`
		} `json:"input"`
		Output struct {
			Width  int `json:"width"`
			Height int `json:"height"`
		} `json:"output"`
		Evalscript string `json:"evalscript"`
	}
	require.NoError(t, json.Unmarshal(body, &payload))

	assert.InDeltaSlice(t, []float64{-8.2, 41.1, -8.0, 41.3}, payload.Input.Bounds.BBox, 1e-9)
	assert.Equal(t, "http://www.opengis.net/def/crs/EPSG/0/4326", payload.Input.Bounds.Properties["crs"])
	require.Len(t, payload.Input.Data, 1)
	assert.Equal(t, "sentinel-2-l2a", payload.Input.Data[0].Type)
	assert.Equal(t, "2024-09-10T00:00:00Z", payload.Input.Data[0].DataFilter.TimeRange.From)
	assert.Equal(t, "2024-09-10T23:59:59Z", payload.Input.Data[0].DataFilter.TimeRange.To)
	assert.Equal(t, "leastCC", payload.Input.Data[0].DataFilter.MosaickingOrder)
	assert.Equal(t, 200, payload.Output.Width)
	assert.Equal(t, 100, payload.Output.Height)
	assert.Contains(t, payload.Evalscript, `"B04", "B08", "B12"`)
}

func TestBuildPayloadRejectsBadRequests(t *testing.T) {
	g := raster.NewGrid(3000, 100, 0, 0, 1, 1, "EPSG:4326")
	_, err := buildPayload(NewRequest(time.Now(), g))
	assert.Error(t, err)

	g = raster.NewGrid(100, 100, 0, 0, 1, 1, "+proj=longlat")
	_, err = buildPayload(NewRequest(time.Now(), g))
	assert.ErrorContains(t, err, "unsupported crs")
}

func TestPostRetriesThenSucceeds(t *testing.T) {
	retryDelay = 0
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			http.Error(w, "busy", http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, "tiff")
	}))
	defer srv.Close()
	t.Setenv("COPERNICUS_PROCESS_URL", srv.URL)

	content, err := post(context.Background(), srv.Client(), []byte("{}"), &logger.NullLogger{})
	require.NoError(t, err)
	assert.Equal(t, "tiff", string(content))
	assert.Equal(t, 3, calls)
}

func TestPostStopsOnForbidden(t *testing.T) {
	retryDelay = 0
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()
	t.Setenv("COPERNICUS_PROCESS_URL", srv.URL)

	_, err := post(context.Background(), srv.Client(), []byte("{}"), &logger.NullLogger{})
	assert.ErrorContains(t, err, "unauthorized")
	assert.Equal(t, 1, calls)
}

func TestRequestSceneNeedsCredentials(t *testing.T) {
	t.Setenv("COPERNICUS_CLIENT_ID", "a,b")
	t.Setenv("COPERNICUS_CLIENT_SECRET", "s")
	t.Setenv("COPERNICUS_TOKEN_URL", "http://localhost/token")
	g := raster.NewGrid(10, 10, 0, 0, 1, 1, "EPSG:4326")

	_, err := RequestScene(context.Background(), NewRequest(time.Now(), g), &logger.NullLogger{})
	assert.ErrorContains(t, err, "mismatched")

	t.Setenv("COPERNICUS_TOKEN_URL", "")
	_, err = RequestScene(context.Background(), NewRequest(time.Now(), g), &logger.NullLogger{})
	assert.ErrorContains(t, err, "COPERNICUS_TOKEN_URL")
}

func TestDownloaderSkipsKnownEmptyDay(t *testing.T) {
	fetched := false
	d := &Downloader{
		Dir:   t.TempDir(),
		Bands: []string{"B04", "B08", "B12"},
		Log:   &logger.NullLogger{},
		cache: cache.NewFileCacheAt[Acquisition](t.TempDir()),
		fetch: func(context.Context, Request, logger.ILogger) ([]byte, error) {
			fetched = true
			return nil, errors.New("unexpected request")
		},
	}
	r := NewRequest(time.Date(2024, 9, 12, 0, 0, 0, 0, time.UTC), raster.NewGrid(10, 10, 0, 0, 1, 1, "EPSG:4326"))
	key := d.cache.GenerateKey(r.Day.Format(sceneLayout), r.Bound, r.CRS, r.Width, r.Height)
	require.NoError(t, d.cache.Set(key, Acquisition{ID: "S2_20240912", Day: r.Day, Empty: true}))

	_, err := d.Download(context.Background(), r)
	assert.ErrorIs(t, err, ErrSceneNotFound)
	assert.False(t, fetched)
}

func TestDownloaderRechecksRecentEmptyDay(t *testing.T) {
	fetched := false
	d := &Downloader{
		Dir:   t.TempDir(),
		Log:   &logger.NullLogger{},
		cache: cache.NewFileCacheAt[Acquisition](t.TempDir()),
		fetch: func(context.Context, Request, logger.ILogger) ([]byte, error) {
			fetched = true
			return nil, errors.New("boom")
		},
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	r := NewRequest(today, raster.NewGrid(10, 10, 0, 0, 1, 1, "EPSG:4326"))
	key := d.cache.GenerateKey(r.Day.Format(sceneLayout), r.Bound, r.CRS, r.Width, r.Height)
	require.NoError(t, d.cache.Set(key, Acquisition{ID: "S2_" + today.Format(sceneLayout), Day: today, Empty: true}))

	_, err := d.Download(context.Background(), r)
	assert.ErrorContains(t, err, "boom")
	assert.True(t, fetched)
}

func TestDownloaderDropsEntryOfRemovedScene(t *testing.T) {
	fetched := false
	d := &Downloader{
		Dir:   t.TempDir(),
		Log:   &logger.NullLogger{},
		cache: cache.NewFileCacheAt[Acquisition](t.TempDir()),
		fetch: func(context.Context, Request, logger.ILogger) ([]byte, error) {
			fetched = true
			return nil, errors.New("boom")
		},
	}
	day := time.Date(2024, 9, 10, 0, 0, 0, 0, time.UTC)
	r := NewRequest(day, raster.NewGrid(10, 10, 0, 0, 1, 1, "EPSG:4326"))
	key := d.cache.GenerateKey(r.Day.Format(sceneLayout), r.Bound, r.CRS, r.Width, r.Height)
	require.NoError(t, d.cache.Set(key, Acquisition{ID: "S2_20240910", Day: day, Path: filepath.Join(d.Dir, "S2_20240910.tif"), Valid: 100}))

	_, err := d.Download(context.Background(), r)
	assert.ErrorContains(t, err, "boom")
	assert.True(t, fetched)
	_, ok := d.cache.Lookup(key)
	assert.False(t, ok)
}

func TestDownloaderReportsFetchError(t *testing.T) {
	d := &Downloader{
		Dir:   t.TempDir(),
		Log:   &logger.NullLogger{},
		cache: cache.NewFileCacheAt[Acquisition](t.TempDir()),
		fetch: func(context.Context, Request, logger.ILogger) ([]byte, error) {
			return nil, errors.New("boom")
		},
	}
	r := NewRequest(time.Now(), raster.NewGrid(10, 10, 0, 0, 1, 1, "EPSG:4326"))

	_, err := d.Download(context.Background(), r)
	assert.ErrorContains(t, err, "boom")
}

func TestReadAreaBound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fire.geojson")
	require.NoError(t, os.WriteFile(path, []byte(`{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {}, "geometry": {"type": "Polygon", "coordinates": [[[-8.1, 41.2], [-8.0, 41.2], [-8.0, 41.3], [-8.1, 41.2]]]}},
    {"type": "Feature", "properties": {}, "geometry": {"type": "Point", "coordinates": [-8.3, 41.1]}}
  ]
}`), 0644))

	bound, err := ReadAreaBound(path)
	require.NoError(t, err)
	assert.Equal(t, orb.Bound{Min: orb.Point{-8.3, 41.1}, Max: orb.Point{-8.0, 41.3}}, bound)

	g := GridForBound(bound, 30, 20, "EPSG:4326")
	x, y := g.Transform.Apply(30, 20)
	assert.InDelta(t, -8.0, x, 1e-12)
	assert.InDelta(t, 41.1, y, 1e-12)
}
