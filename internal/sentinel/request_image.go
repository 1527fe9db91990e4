package sentinel

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/forest-guardian/burn-recovery-cli/internal/cache"
	"github.com/forest-guardian/burn-recovery-cli/internal/logger"
	"github.com/forest-guardian/burn-recovery-cli/internal/properties"
	"github.com/forest-guardian/burn-recovery-cli/internal/raster"
	"github.com/forest-guardian/burn-recovery-cli/internal/scene"
	"github.com/paulmach/orb"
	"golang.org/x/oauth2/clientcredentials"
)

// ErrSceneNotFound is returned when the requested day has no valid pixel
// over the area.
var ErrSceneNotFound = errors.New("scene not found")

const (
	maxRetries = 10
	maxPixels  = 2500
)

var retryDelay = 5 * time.Second

const evalscript = `
    //VERSION=3
    function setup() {
      return {
        input: ["B04", "B08", "B12", "dataMask"],
        output: {
          id: "default",
          bands: 3,
          sampleType: SampleType.FLOAT32,
        },
      }
    }

    function evaluatePixel(sample) {
      if (sample.dataMask === 0) {
        return [NaN, NaN, NaN];
      }
      return [sample.B04, sample.B08, sample.B12];
    }
  `

// Request describes one day of Sentinel-2 L2A data over the analysed area.
type Request struct {
	Day    time.Time
	Bound  orb.Bound
	CRS    string
	Width  int
	Height int
}

// NewRequest requests day on grid g.
func NewRequest(day time.Time, g raster.Grid) Request {
	minX, maxY := g.Transform.Apply(0, 0)
	maxX, minY := g.Transform.Apply(float64(g.Width), float64(g.Height))
	return Request{
		Day:    day,
		Bound:  orb.Bound{Min: orb.Point{minX, minY}, Max: orb.Point{maxX, maxY}},
		CRS:    g.CRS,
		Width:  g.Width,
		Height: g.Height,
	}
}

func (r Request) validate() error {
	if r.Width < 1 || r.Height < 1 || r.Width > maxPixels || r.Height > maxPixels {
		return fmt.Errorf("output size %dx%d outside 1-%d", r.Width, r.Height, maxPixels)
	}
	if r.Bound.IsEmpty() {
		return fmt.Errorf("empty area %v", r.Bound)
	}
	return nil
}

// crsURL turns EPSG:<code> into the OGC URL the Process API expects.
func crsURL(crs string) (string, error) {
	code, ok := strings.CutPrefix(strings.ToUpper(strings.TrimSpace(crs)), "EPSG:")
	if !ok || code == "" {
		return "", fmt.Errorf("unsupported crs %q, expected EPSG:<code>", crs)
	}
	return "http://www.opengis.net/def/crs/EPSG/0/" + code, nil
}

func buildPayload(r Request) ([]byte, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}
	crs, err := crsURL(r.CRS)
	if err != nil {
		return nil, err
	}

	// One-day window; tiles of the same day are mosaicked server side.
	from := time.Date(r.Day.Year(), r.Day.Month(), r.Day.Day(), 0, 0, 0, 0, time.UTC)
	to := from.Add(time.Hour*23 + time.Minute*59 + time.Second*59)

	requestPayload := map[string]interface{}{
		"input": map[string]interface{}{
			"bounds": map[string]interface{}{
				"bbox": []float64{r.Bound.Min.X(), r.Bound.Min.Y(), r.Bound.Max.X(), r.Bound.Max.Y()},
				"properties": map[string]string{
					"crs": crs,
				},
			},
			"data": []map[string]interface{}{
				{
					"dataFilter": map[string]interface{}{
						"timeRange": map[string]string{
							"from": from.Format(time.RFC3339),
							"to":   to.Format(time.RFC3339),
						},
						"mosaickingOrder": "leastCC",
					},
					"type": sourceName,
				},
			},
		},
		"output": map[string]interface{}{
			"width":  r.Width,
			"height": r.Height,
			"responses": []map[string]interface{}{
				{
					"identifier": "default",
					"format": map[string]string{
						"type": "image/tiff",
					},
				},
			},
		},
		"evalscript": evalscript,
	}
	return json.Marshal(requestPayload)
}

type credentials struct {
	id     string
	secret string
}

func loadCredentials() ([]credentials, error) {
	ids := properties.CopernicusClientIDs()
	secrets := properties.CopernicusClientSecrets()
	if len(ids) == 0 || len(secrets) == 0 || properties.CopernicusTokenURL() == "" {
		return nil, fmt.Errorf("missing required environment variables: COPERNICUS_CLIENT_ID, COPERNICUS_CLIENT_SECRET, or COPERNICUS_TOKEN_URL")
	}
	if len(ids) != len(secrets) {
		return nil, fmt.Errorf("mismatched number of client IDs and secrets")
	}
	creds := make([]credentials, len(ids))
	for i := range ids {
		creds[i] = credentials{id: ids[i], secret: secrets[i]}
	}
	return creds, nil
}

// RequestScene posts the request to the Process API and returns the GeoTIFF.
// Each configured client is tried in turn, each with a bounded retry loop.
func RequestScene(ctx context.Context, r Request, log logger.ILogger) ([]byte, error) {
	requestBody, err := buildPayload(r)
	if err != nil {
		return nil, err
	}
	creds, err := loadCredentials()
	if err != nil {
		return nil, err
	}

	for _, c := range creds {
		config := &clientcredentials.Config{
			ClientID:     c.id,
			ClientSecret: c.secret,
			TokenURL:     properties.CopernicusTokenURL(),
		}
		var content []byte
		content, err = post(ctx, config.Client(ctx), requestBody, log)
		if err == nil {
			return content, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Errorf("client %s failed: %v", c.id, err)
	}
	return nil, err
}

func post(ctx context.Context, client *http.Client, body []byte, log logger.ILogger) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, properties.CopernicusProcessURL(), bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		response, err := client.Do(req)
		if err == nil {
			content, readErr := io.ReadAll(response.Body)
			response.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("failed to read response body: %w", readErr)
			case response.StatusCode == http.StatusOK:
				return content, nil
			case response.StatusCode == http.StatusForbidden || response.StatusCode == http.StatusUnauthorized:
				return nil, fmt.Errorf("unauthorized access, check your client ID and secret")
			default:
				lastErr = fmt.Errorf("status %d: %s", response.StatusCode, content)
			}
		} else {
			lastErr = err
		}
		log.Infof("attempt %d failed: %v", attempt, lastErr)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryDelay):
		}
	}
	return nil, fmt.Errorf("failed to request image after %d attempts: %w", maxRetries, lastErr)
}

// publishDelay is how long after sensing a day can still gain L2A products.
// An empty answer recorded earlier than that is not trusted.
const publishDelay = 5 * 24 * time.Hour

// Acquisition is the cached outcome of downloading one day.
type Acquisition struct {
	ID    string    `json:"id"`
	Day   time.Time `json:"day"`
	Path  string    `json:"path"`
	Valid int       `json:"valid_pixels"`
	Empty bool      `json:"empty"`
}

// Downloader stores requested scenes under Dir and remembers empty days.
type Downloader struct {
	Dir   string
	Bands []string
	Log   logger.ILogger
	cache cache.CacheService[Acquisition]
	fetch func(context.Context, Request, logger.ILogger) ([]byte, error)
}

func NewDownloader(dir string, bands []string, log logger.ILogger) *Downloader {
	return &Downloader{
		Dir:   dir,
		Bands: bands,
		Log:   log,
		cache: cache.NewFileCache[Acquisition]("cache/acquisitions"),
		fetch: RequestScene,
	}
}

// Download fetches one day unless it is already on disk or known to be
// empty, in which case ErrSceneNotFound is returned without a request.
// A scene file removed from disk is fetched again.
func (d *Downloader) Download(ctx context.Context, r Request) (Acquisition, error) {
	key := d.cache.GenerateKey(r.Day.Format(sceneLayout), r.Bound, r.CRS, r.Width, r.Height)
	if entry, ok := d.cache.Lookup(key); ok {
		acq := entry.Data
		switch {
		case acq.Empty && entry.StoredAt.Sub(r.Day) > publishDelay:
			return acq, ErrSceneNotFound
		case acq.Empty:
			d.Log.Debugf("%s was empty when checked, requesting it again", acq.ID)
		default:
			if _, err := os.Stat(acq.Path); err == nil {
				d.Log.Debugf("%s already downloaded", acq.ID)
				return acq, nil
			}
			if err := d.cache.Delete(key); err != nil {
				d.Log.Errorf("failed to drop stale cache entry for %s: %v", acq.ID, err)
			}
		}
	}

	content, err := d.fetch(ctx, r, d.Log)
	if err != nil {
		return Acquisition{}, fmt.Errorf("error requesting image: %w", err)
	}
	if err := os.MkdirAll(d.Dir, os.ModePerm); err != nil {
		return Acquisition{}, fmt.Errorf("failed to create directory %s: %w", d.Dir, err)
	}

	path := filepath.Join(d.Dir, SceneName(r.Day))
	if err := os.WriteFile(path, content, 0644); err != nil {
		return Acquisition{}, fmt.Errorf("failed to write image file: %w", err)
	}
	id, day, _ := ParseSceneName(path)
	acq := Acquisition{ID: id, Day: day, Path: path}

	s, err := LoadScene(SceneFile{ID: id, Path: path, Time: day}, d.Bands)
	if err != nil {
		return Acquisition{}, err
	}
	if nir, ok := s.Band(scene.BandNIR); ok {
		acq.Valid = nir.ValidCount()
	}
	if acq.Valid == 0 {
		acq.Empty = true
		os.Remove(path)
	}
	if err := d.cache.Set(key, acq); err != nil {
		d.Log.Errorf("failed to cache %s: %v", id, err)
	}
	if acq.Empty {
		return acq, ErrSceneNotFound
	}
	return acq, nil
}
