package ui

import (
	"context"
	"errors"
	"fmt"

	"github.com/forest-guardian/burn-recovery-cli/internal/delivery"
	"github.com/forest-guardian/burn-recovery-cli/internal/notification"
	"github.com/forest-guardian/burn-recovery-cli/internal/pipeline"
)

// AnalyzeFire handles the UI for the burned area and recovery analysis
func AnalyzeFire() {
	PrintWarning("- Scenes are read from data/scenes and must be named S2_<yyyymmdd>.tif.\n- The earliest scene is the pre-fire acquisition, the next one is right after the fire.")

	opts, err := delivery.DefaultAnalysisOptions()
	if err != nil {
		PrintError(fmt.Sprintf("Invalid configuration: %s", err.Error()))
		return
	}

	summary, err := delivery.RunAnalysis(context.Background(), opts, newLogger())
	if err != nil {
		PrintError(fmt.Sprintf("Error analyzing fire: %s", err.Error()))
		if !errors.Is(err, pipeline.ErrTooFewScenes) {
			notification.SendDiscordErrorNotification(fmt.Sprintf("Error analyzing fire: %s", err.Error()))
		}
		return
	}

	PrintSuccess(summary.Message())
	if err := notification.SendDiscordSuccessNotification(summary.Message()); err != nil {
		PrintError(fmt.Sprintf("Failed to send notification: %s", err.Error()))
	}
}
