package scene

import (
	"fmt"
	"sort"
	"time"

	"github.com/forest-guardian/burn-recovery-cli/internal/raster"
)

// Band names used across the analysis.
const (
	BandRed     = "B04"
	BandNIR     = "B08"
	BandSWIR    = "B12"
	BandNDVI    = "ndvi"
	BandNBR     = "nbr"
	BandNDVIL2A = "NDVI" // precomputed NDVI delivered with the L2A product
)

// BandKey identifies a raster by the scene it belongs to and its band name.
type BandKey struct {
	SceneID string
	Name    string
}

func (k BandKey) String() string {
	return fmt.Sprintf("%s/%s", k.SceneID, k.Name)
}

// Scene is a timestamped set of same-grid rasters. Adding a band returns a
// new Scene; the receiver and rasters already attached are never modified.
type Scene struct {
	ID     string
	Time   time.Time
	Source string
	Grid   raster.Grid
	bands  map[string]*raster.Float
}

func New(id string, t time.Time, source string, grid raster.Grid) Scene {
	return Scene{ID: id, Time: t, Source: source, Grid: grid, bands: map[string]*raster.Float{}}
}

// WithBand returns a copy of s with r attached under name.
func (s Scene) WithBand(name string, r *raster.Float) (Scene, error) {
	if err := s.Grid.Check(r.Grid); err != nil {
		return Scene{}, fmt.Errorf("band %s: %w", s.Key(name), err)
	}
	bands := make(map[string]*raster.Float, len(s.bands)+1)
	for k, v := range s.bands {
		bands[k] = v
	}
	bands[name] = r
	s.bands = bands
	return s, nil
}

func (s Scene) Band(name string) (*raster.Float, bool) {
	r, ok := s.bands[name]
	return r, ok
}

// MustBand is Band returning an error naming the missing key.
func (s Scene) MustBand(name string) (*raster.Float, error) {
	r, ok := s.bands[name]
	if !ok {
		return nil, fmt.Errorf("band %s not found", s.Key(name))
	}
	return r, nil
}

// BandNames lists attached bands in sorted order.
func (s Scene) BandNames() []string {
	names := make([]string, 0, len(s.bands))
	for k := range s.bands {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (s Scene) Key(name string) BandKey {
	return BandKey{SceneID: s.ID, Name: name}
}

// Date formats the acquisition day as yyyymmdd, the suffix used for outputs.
func (s Scene) Date() string {
	return s.Time.Format("20060102")
}

// SortByTime returns the scenes ordered by acquisition time.
func SortByTime(scenes []Scene) []Scene {
	sorted := make([]Scene, len(scenes))
	copy(sorted, scenes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time.Before(sorted[j].Time)
	})
	return sorted
}
