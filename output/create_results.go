package output

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/forest-guardian/burn-recovery-cli/internal/logger"
	"github.com/forest-guardian/burn-recovery-cli/internal/pipeline"
	"github.com/forest-guardian/burn-recovery-cli/internal/recovery"
	"github.com/forest-guardian/burn-recovery-cli/internal/report"
	"github.com/forest-guardian/burn-recovery-cli/internal/scene"
)

const (
	BurnAreasFile     = "burn_areas.geojson"
	BurnMaskFile      = "burn_mask.tif"
	BurnImageFile     = "burn_areas.png"
	DNBRFile          = "dnbr.tif"
	BurnSummaryFile   = "burn_summary.csv"
	StatsFile         = "recovery_stats.csv"
	NDVIAnimationFile = "ndvi_animation.avi"
)

// RecoveryName is the base name of the outputs of one method and date.
func RecoveryName(method recovery.Method, date string) string {
	return fmt.Sprintf("recovery_%s_%s", method, date)
}

// BarChartName is the file name of the area bar chart of one method and date.
func BarChartName(method recovery.Method, date string) string {
	return fmt.Sprintf("recovery_bar_%s_%s.png", method, date)
}

// Writer writes the results of one analysis under Dir.
type Writer struct {
	Dir string
	Log logger.ILogger
	// GeoTIFF enables the GDAL backed raster outputs.
	GeoTIFF bool
	// OnFile is called after each file is written.
	OnFile func(path string)

	written []string
}

func NewWriter(dir string, log logger.ILogger) *Writer {
	return &Writer{Dir: dir, Log: log, GeoTIFF: true}
}

// Count is the number of files Write produces for result.
func (w *Writer) Count(result *pipeline.Result) int {
	perRecovery, n := 3, 5
	if w.GeoTIFF {
		perRecovery++
		n += 2
	}
	return n + perRecovery*len(result.Recovery)
}

// Write stores every output of the analysis and returns the written paths.
func (w *Writer) Write(result *pipeline.Result, rep *report.Report) ([]string, error) {
	w.written = nil
	if err := os.MkdirAll(w.Dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create result folder: %w", err)
	}

	if err := w.writeBurn(result, rep); err != nil {
		return w.written, err
	}
	for _, rec := range result.Recovery {
		if err := w.writeRecovery(rec, rep); err != nil {
			return w.written, err
		}
	}
	if err := w.file(StatsFile, func(path string) error {
		return WriteStatsCSV(path, rep.Rows)
	}); err != nil {
		return w.written, err
	}
	if err := w.file(NDVIAnimationFile, func(path string) error {
		return WriteAnimation(path, ndviFrames(result.Scenes))
	}); err != nil {
		return w.written, err
	}
	return w.written, nil
}

func (w *Writer) writeBurn(result *pipeline.Result, rep *report.Report) error {
	date := result.Post.Date()
	if err := w.file(BurnAreasFile, func(path string) error {
		return WriteGeoJSON(path, BurnAreas(result.BurnLayer, date))
	}); err != nil {
		return err
	}
	if err := w.file(BurnImageFile, func(path string) error {
		return WritePNG(path, BurnImage(result.Burn.Mask))
	}); err != nil {
		return err
	}
	if err := w.file(BurnSummaryFile, func(path string) error {
		return WriteBurnCSV(path, rep.Burn)
	}); err != nil {
		return err
	}
	if !w.GeoTIFF {
		return nil
	}
	if err := w.file(BurnMaskFile, func(path string) error {
		return WriteMaskGeoTIFF(path, result.Burn.Mask)
	}); err != nil {
		return err
	}
	return w.file(DNBRFile, func(path string) error {
		return WriteFloatGeoTIFF(path, result.Burn.Diff)
	})
}

func (w *Writer) writeRecovery(rec pipeline.Recovery, rep *report.Report) error {
	date := rec.Scene.Date()
	method := rec.Result.Method
	name := RecoveryName(method, date)

	if err := w.file(name+".geojson", func(path string) error {
		return WriteGeoJSON(path, RecoveryAreas(rec.Layer, method, date))
	}); err != nil {
		return err
	}
	if err := w.file(name+".png", func(path string) error {
		return WritePNG(path, ClassImage(rec.Result.Classes))
	}); err != nil {
		return err
	}
	if err := w.file(BarChartName(method, date), func(path string) error {
		title := fmt.Sprintf("Recovery Areas - %s (%s)", date, method)
		return WritePNG(path, RecoveryBarChart(title, rep.Select(date, method)))
	}); err != nil {
		return err
	}
	if !w.GeoTIFF {
		return nil
	}
	return w.file(name+".tif", func(path string) error {
		return WriteMaskGeoTIFF(path, rec.Result.Classes)
	})
}

func (w *Writer) file(name string, write func(path string) error) error {
	path := filepath.Join(w.Dir, name)
	if err := write(path); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	w.written = append(w.written, path)
	w.Log.Debugf("wrote %s", path)
	if w.OnFile != nil {
		w.OnFile(path)
	}
	return nil
}

func ndviFrames(scenes []scene.Scene) []Frame {
	var frames []Frame
	for _, s := range scenes {
		if ndvi, ok := s.Band(scene.BandNDVI); ok {
			frames = append(frames, Frame{Label: "NDVI " + s.Time.Format("2006-01-02"), Image: IndexImage(ndvi)})
		}
	}
	return frames
}
