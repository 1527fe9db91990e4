package delivery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/forest-guardian/burn-recovery-cli/internal/logger"
	"github.com/forest-guardian/burn-recovery-cli/internal/properties"
	"github.com/forest-guardian/burn-recovery-cli/internal/raster"
	"github.com/forest-guardian/burn-recovery-cli/internal/sentinel"
	"github.com/forest-guardian/burn-recovery-cli/internal/utils"
	"github.com/schollz/progressbar/v3"
)

type downloader interface {
	Download(ctx context.Context, r sentinel.Request) (sentinel.Acquisition, error)
}

type DownloadSummary struct {
	Downloaded []sentinel.Acquisition
	// Missing are days without a valid pixel over the area.
	Missing []time.Time
}

// DownloadScenes requests one scene per day on the configured grid and
// stores them where RunAnalysis looks for them.
func DownloadScenes(ctx context.Context, days []time.Time, log logger.ILogger) (*DownloadSummary, error) {
	grid, err := properties.AreaGrid()
	if err != nil {
		return nil, err
	}
	d := sentinel.NewDownloader(properties.ScenesPath(), properties.SceneBands(), log)
	return downloadScenes(ctx, d, grid, days, log)
}

// DownloadScenesForArea is DownloadScenes over the bounds of a GeoJSON file.
func DownloadScenesForArea(ctx context.Context, areaPath string, days []time.Time, log logger.ILogger) (*DownloadSummary, error) {
	bound, err := sentinel.ReadAreaBound(areaPath)
	if err != nil {
		return nil, err
	}
	grid, err := properties.AreaGrid()
	if err != nil {
		return nil, err
	}
	grid = sentinel.GridForBound(bound, grid.Width, grid.Height, grid.CRS)
	d := sentinel.NewDownloader(properties.ScenesPath(), properties.SceneBands(), log)
	return downloadScenes(ctx, d, grid, days, log)
}

func downloadScenes(ctx context.Context, d downloader, grid raster.Grid, days []time.Time, log logger.ILogger) (*DownloadSummary, error) {
	days = utils.SortDates(days, true)
	summary := &DownloadSummary{}
	progressBar := progressbar.Default(int64(len(days)), "Downloading scenes")
	for _, day := range days {
		acq, err := d.Download(ctx, sentinel.NewRequest(day, grid))
		progressBar.Add(1)
		switch {
		case errors.Is(err, sentinel.ErrSceneNotFound):
			log.Infof("no valid pixels on %s", day.Format("2006-01-02"))
			summary.Missing = append(summary.Missing, day)
		case err != nil:
			return summary, fmt.Errorf("download of %s: %w", day.Format("2006-01-02"), err)
		default:
			summary.Downloaded = append(summary.Downloaded, acq)
		}
	}
	return summary, nil
}
