package ui

import (
	"fmt"
	"strings"

	"github.com/forest-guardian/burn-recovery-cli/internal/delivery"
	"github.com/forest-guardian/burn-recovery-cli/internal/properties"
)

// ShowConfiguration prints the analysis parameters read from the environment
func ShowConfiguration() {
	cfg, err := delivery.LoadPipelineConfig()
	if err != nil {
		PrintError(fmt.Sprintf("Invalid configuration: %s", err.Error()))
		return
	}
	grid, err := properties.AreaGrid()
	if err != nil {
		PrintError(fmt.Sprintf("Invalid area: %s", err.Error()))
		return
	}

	methods := make([]string, len(cfg.Methods))
	for i, m := range cfg.Methods {
		methods[i] = string(m)
	}

	lines := []string{
		fmt.Sprintf("Scenes folder: %s", properties.ScenesPath()),
		fmt.Sprintf("Results folder: %s", properties.ResultPath()),
		fmt.Sprintf("Scene bands: %s", strings.Join(properties.SceneBands(), ",")),
		fmt.Sprintf("Grid: %dx%d %s, transform %v", grid.Width, grid.Height, grid.CRS, grid.Transform),
		fmt.Sprintf("Burn threshold (dNBR): %v", cfg.Burn.Threshold),
		fmt.Sprintf("Minimum burn cluster size: %d pixels", cfg.Burn.MinClusterSize),
		fmt.Sprintf("Recovery thresholds (dNDVI): low %v, high %v", cfg.Thresholds.Low, cfg.Thresholds.High),
		fmt.Sprintf("K-means: seed %d, runs %d, max iterations %d, strict %v", cfg.KMeans.Seed, cfg.KMeans.Runs, cfg.KMeans.MaxIter, cfg.KMeans.Strict),
		fmt.Sprintf("Recovery methods: %s", strings.Join(methods, ",")),
		fmt.Sprintf("Recovery baseline: %s-fire scene", cfg.Baseline),
	}
	fmt.Printf("\n%sConfiguration:%s\n", ColorGreen, ColorReset)
	for _, line := range lines {
		fmt.Printf("%s- %s%s\n", ColorGreen, line, ColorReset)
	}
}
