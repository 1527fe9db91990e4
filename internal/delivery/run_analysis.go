package delivery

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/forest-guardian/burn-recovery-cli/internal/logger"
	"github.com/forest-guardian/burn-recovery-cli/internal/pipeline"
	"github.com/forest-guardian/burn-recovery-cli/internal/properties"
	"github.com/forest-guardian/burn-recovery-cli/internal/report"
	"github.com/forest-guardian/burn-recovery-cli/internal/scene"
	"github.com/forest-guardian/burn-recovery-cli/internal/sentinel"
	"github.com/forest-guardian/burn-recovery-cli/output"
	"github.com/schollz/progressbar/v3"
)

type AnalysisOptions struct {
	ScenesDir string
	// ResultDir defaults to ROOT_PATH/data/result/<run time>.
	ResultDir string
	Config    pipeline.Config
	Bands     []string
	GeoTIFF   bool
}

// DefaultAnalysisOptions reads the configuration from the environment.
func DefaultAnalysisOptions() (AnalysisOptions, error) {
	cfg, err := LoadPipelineConfig()
	if err != nil {
		return AnalysisOptions{}, err
	}
	return AnalysisOptions{
		ScenesDir: properties.ScenesPath(),
		ResultDir: filepath.Join(properties.ResultPath(), time.Now().Format("20060102_150405")),
		Config:    cfg,
		Bands:     properties.SceneBands(),
		GeoTIFF:   true,
	}, nil
}

type AnalysisSummary struct {
	ResultDir string
	Files     []string
	Result    *pipeline.Result
	Report    *report.Report
}

// Message is the text sent with the success notification.
func (s *AnalysisSummary) Message() string {
	msg := fmt.Sprintf("Fire analysis finished!\nBurn date: %s\nBurned area: %.2f ha (%d polygons)\nResults: %s",
		s.Report.Burn.Date, s.Report.Burn.AreaHa, s.Report.Burn.Polygons, s.ResultDir)
	for _, date := range s.Result.Dates() {
		msg += "\n" + date + ":"
		for _, row := range s.Report.Rows {
			if row.Date == date {
				msg += fmt.Sprintf(" %s/%s %.2f ha", row.Method, output.ClassLabel(uint8(row.Class)), row.AreaHa)
			}
		}
	}
	return msg
}

// RunAnalysis loads every scene of ScenesDir, runs the burn and recovery
// analysis and writes its outputs.
func RunAnalysis(ctx context.Context, opts AnalysisOptions, log logger.ILogger) (*AnalysisSummary, error) {
	files, err := sentinel.ListScenes(opts.ScenesDir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no S2_<yyyymmdd>.tif scenes in %s", pipeline.ErrTooFewScenes, opts.ScenesDir)
	}
	log.Infof("found %d scenes, pre-fire %s, post-fire %s", len(files), files[0].ID, files[min(1, len(files)-1)].ID)

	scenes, err := sentinel.LoadScenes(ctx, files, opts.Bands, log)
	if err != nil {
		return nil, err
	}
	return Analyze(ctx, scenes, opts, log)
}

// Analyze runs the analysis on scenes already in memory.
func Analyze(ctx context.Context, scenes []scene.Scene, opts AnalysisOptions, log logger.ILogger) (*AnalysisSummary, error) {
	result, err := pipeline.New(opts.Config, log).Run(ctx, scenes)
	if err != nil {
		return nil, err
	}
	rep := report.Build(result)

	writer := output.NewWriter(opts.ResultDir, log)
	writer.GeoTIFF = opts.GeoTIFF
	progressBar := progressbar.Default(int64(writer.Count(result)), "Writing results")
	writer.OnFile = func(string) {
		progressBar.Add(1)
	}
	written, err := writer.Write(result, rep)
	if err != nil {
		return nil, err
	}

	return &AnalysisSummary{ResultDir: opts.ResultDir, Files: written, Result: result, Report: rep}, nil
}
