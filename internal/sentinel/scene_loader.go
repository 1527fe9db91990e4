package sentinel

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/airbusgeo/godal"
	"github.com/forest-guardian/burn-recovery-cli/internal/logger"
	"github.com/forest-guardian/burn-recovery-cli/internal/raster"
	"github.com/forest-guardian/burn-recovery-cli/internal/scene"
	"github.com/forest-guardian/burn-recovery-cli/internal/utils"
	"golang.org/x/sync/errgroup"
)

const (
	scenePrefix = "S2_"
	sceneSuffix = ".tif"
	sceneLayout = "20060102"
	sourceName  = "sentinel-2-l2a"
)

// SceneFile is a scene GeoTIFF found on disk.
type SceneFile struct {
	ID   string
	Path string
	Time time.Time
}

// SceneName is the file name a scene acquired on day is stored under.
func SceneName(day time.Time) string {
	return scenePrefix + day.Format(sceneLayout) + sceneSuffix
}

// ParseSceneName extracts the acquisition day from S2_<yyyymmdd>.tif.
func ParseSceneName(name string) (string, time.Time, error) {
	base := filepath.Base(name)
	if !strings.HasPrefix(base, scenePrefix) || !strings.HasSuffix(base, sceneSuffix) {
		return "", time.Time{}, fmt.Errorf("%s is not named %s<yyyymmdd>%s", base, scenePrefix, sceneSuffix)
	}
	id := strings.TrimSuffix(base, sceneSuffix)
	day, err := time.Parse(sceneLayout, strings.TrimPrefix(id, scenePrefix))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%s: %w", base, err)
	}
	return id, day, nil
}

// ListScenes returns the scene files of dir ordered by acquisition day.
// Files that do not follow the naming scheme are skipped.
func ListScenes(dir string) ([]SceneFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenes folder: %w", err)
	}
	var files []SceneFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		id, day, err := ParseSceneName(e.Name())
		if err != nil {
			continue
		}
		files = append(files, SceneFile{ID: id, Path: filepath.Join(dir, e.Name()), Time: day})
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].Time.Before(files[j].Time)
	})
	return files, nil
}

func openDataset(path string) (*godal.Dataset, error) {
	var ds *godal.Dataset
	var err error
	utils.ExecuteWithMutex(func() {
		ds, err = godal.Open(path, godal.ErrLogger(func(ec godal.ErrorCategory, code int, msg string) error {
			if ec == godal.CE_Warning {
				return nil
			}
			return fmt.Errorf("gdal: %s", msg)
		}))
	})
	return ds, err
}

// datasetCRS prefers the AUTHORITY:CODE form and falls back to WKT.
func datasetCRS(ds *godal.Dataset) string {
	wkt := ds.Projection()
	if wkt == "" {
		return ""
	}
	sr := ds.SpatialRef()
	defer sr.Close()
	name, code := sr.AuthorityName(""), sr.AuthorityCode("")
	if name != "" && code != "" {
		return name + ":" + code
	}
	return wkt
}

// LoadScene reads a multi-band scene GeoTIFF. bands names the raster bands
// in file order; no-data pixels become NaN.
func LoadScene(file SceneFile, bands []string) (scene.Scene, error) {
	ds, err := openDataset(file.Path)
	if err != nil {
		return scene.Scene{}, fmt.Errorf("failed to open %s: %w", file.Path, err)
	}
	defer ds.Close()

	structure := ds.Structure()
	if structure.NBands < len(bands) {
		return scene.Scene{}, fmt.Errorf("%s has %d bands, expected %d (%s)", file.Path, structure.NBands, len(bands), strings.Join(bands, ","))
	}
	gt, err := ds.GeoTransform()
	if err != nil {
		return scene.Scene{}, fmt.Errorf("failed to read geotransform of %s: %w", file.Path, err)
	}

	grid := raster.Grid{
		Width:     structure.SizeX,
		Height:    structure.SizeY,
		Transform: raster.Transform(gt),
		CRS:       datasetCRS(ds),
	}
	s := scene.New(file.ID, file.Time, sourceName, grid)

	dsBands := ds.Bands()
	for i, name := range bands {
		r := raster.NewFloat(grid)
		if err := dsBands[i].Read(0, 0, r.Data, grid.Width, grid.Height); err != nil {
			return scene.Scene{}, fmt.Errorf("failed to read band %s: %w", s.Key(name), err)
		}
		if nodata, ok := dsBands[i].NoData(); ok {
			for j, v := range r.Data {
				if v == nodata {
					r.Data[j] = math.NaN()
				}
			}
		}
		if s, err = s.WithBand(name, r); err != nil {
			return scene.Scene{}, err
		}
	}
	return s, nil
}

// LoadScenes reads files concurrently, keeping their order.
func LoadScenes(ctx context.Context, files []SceneFile, bands []string, log logger.ILogger) ([]scene.Scene, error) {
	scenes := make([]scene.Scene, len(files))
	g, ctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s, err := LoadScene(f, bands)
			if err != nil {
				return err
			}
			log.Debugf("loaded %s (%dx%d, %s)", f.ID, s.Grid.Width, s.Grid.Height, s.Grid.CRS)
			scenes[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scenes, nil
}
