package ui

import (
	"fmt"

	"github.com/forest-guardian/burn-recovery-cli/internal/properties"
	"github.com/forest-guardian/burn-recovery-cli/internal/sentinel"
)

// ListScenes handles the UI for viewing the scenes the analysis will use
func ListScenes() {
	files, err := sentinel.ListScenes(properties.ScenesPath())
	if err != nil {
		PrintError(fmt.Sprintf("Error reading scenes folder: %s", err.Error()))
		return
	}

	PrintWarning("To add a scene, download it or copy a 'S2_<yyyymmdd>.tif' file to the 'data/scenes' folder.")
	if len(files) == 0 {
		PrintError("No scenes found")
		return
	}

	fmt.Printf("\n%sAvailable scenes:%s\n", ColorGreen, ColorReset)
	for i, f := range files {
		fmt.Printf("%s- %s (%s)%s\n", ColorGreen, f.ID, sceneRole(i), ColorReset)
	}
}

func sceneRole(i int) string {
	switch i {
	case 0:
		return "pre-fire"
	case 1:
		return "post-fire, burn detection"
	default:
		return "recovery"
	}
}
