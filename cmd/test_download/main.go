package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/airbusgeo/godal"
	"github.com/forest-guardian/burn-recovery-cli/internal/logger"
	"github.com/forest-guardian/burn-recovery-cli/internal/properties"
	"github.com/forest-guardian/burn-recovery-cli/internal/sentinel"
	"github.com/joho/godotenv"
)

func main() {
	// Day to request; pass another one as YYYY-MM-DD
	testDate := time.Date(2024, 9, 10, 0, 0, 0, 0, time.UTC)
	if len(os.Args) > 1 {
		d, err := time.Parse("2006-01-02", os.Args[1])
		if err != nil {
			log.Fatalf("Invalid date %s: %v", os.Args[1], err)
		}
		testDate = d
	}

	fmt.Println("=== Burn Recovery Test Scene Download ===")
	fmt.Printf("Date: %s\n", testDate.Format("2006-01-02"))
	fmt.Println()

	if err := godotenv.Load("../../.env"); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
		fmt.Println("Make sure you have set the required environment variables:")
		fmt.Println("- COPERNICUS_CLIENT_ID")
		fmt.Println("- COPERNICUS_CLIENT_SECRET")
		fmt.Println("- COPERNICUS_TOKEN_URL")
		fmt.Println("- ROOT_PATH")
		fmt.Println()
	}

	godal.RegisterAll()

	grid, err := properties.AreaGrid()
	if err != nil {
		log.Fatalf("Invalid area: %v", err)
	}
	fmt.Printf("Grid: %dx%d %s, transform %v\n", grid.Width, grid.Height, grid.CRS, grid.Transform)

	d := sentinel.NewDownloader(properties.ScenesPath(), properties.SceneBands(), logger.NewStdOutLogger(logger.LogDebug))
	acq, err := d.Download(context.Background(), sentinel.NewRequest(testDate, grid))
	if errors.Is(err, sentinel.ErrSceneNotFound) {
		fmt.Println("No valid pixels for this date. This could mean:")
		fmt.Println("- No satellite pass over the area on this day")
		fmt.Println("- The area is fully outside the tile footprint")
		return
	}
	if err != nil {
		log.Fatalf("Failed to download scene: %v", err)
	}

	s, err := sentinel.LoadScene(sentinel.SceneFile{ID: acq.ID, Path: acq.Path, Time: acq.Day}, properties.SceneBands())
	if err != nil {
		log.Fatalf("Failed to load scene: %v", err)
	}

	fmt.Printf("\n=== Results ===\n")
	fmt.Printf("Scene: %s saved to %s\n", s.ID, acq.Path)
	fmt.Printf("Size: %dx%d, CRS: %s\n", s.Grid.Width, s.Grid.Height, s.Grid.CRS)
	for _, name := range s.BandNames() {
		b, _ := s.Band(name)
		fmt.Printf("- %s: %d valid pixels\n", name, b.ValidCount())
	}

	fmt.Println("\n✓ Test completed successfully!")
}
