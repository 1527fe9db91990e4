package ui

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/forest-guardian/burn-recovery-cli/internal/delivery"
	"github.com/forest-guardian/burn-recovery-cli/internal/properties"
)

// DownloadScenes handles the UI for requesting scenes from the Copernicus Process API
func DownloadScenes() {
	PrintWarning("- COPERNICUS_CLIENT_ID, COPERNICUS_CLIENT_SECRET and COPERNICUS_TOKEN_URL must be set.\n- Scenes are stored in data/scenes. Enter the pre-fire date first, then the post-fire dates.")

	dates, err := ReadDates("Enter the dates to download (YYYY-MM-DD, comma separated): ")
	if err != nil {
		PrintError(err.Error())
		return
	}
	area := ReadString("Enter a '.geojson' file in data/areas to download its bounds (empty for AREA_EXTENT): ")

	log := newLogger()
	var summary *delivery.DownloadSummary
	if area == "" {
		summary, err = delivery.DownloadScenes(context.Background(), dates, log)
	} else {
		summary, err = delivery.DownloadScenesForArea(context.Background(), filepath.Join(properties.RootPath(), "data", "areas", area), dates, log)
	}
	if err != nil {
		PrintError(fmt.Sprintf("Error downloading scenes: %s", err.Error()))
		return
	}

	for _, day := range summary.Missing {
		PrintWarning(fmt.Sprintf("No valid image on %s", day.Format(dateLayout)))
	}
	PrintSuccess(fmt.Sprintf("%d scenes available in %s", len(summary.Downloaded), properties.ScenesPath()))
}
