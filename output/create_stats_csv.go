package output

import (
	"fmt"
	"os"

	"github.com/forest-guardian/burn-recovery-cli/internal/report"
	"github.com/gocarina/gocsv"
)

// WriteStatsCSV writes one line per (date, method, class).
func WriteStatsCSV(path string, rows []report.Row) error {
	return writeCSV(path, &rows)
}

// WriteBurnCSV writes the single line burn summary.
func WriteBurnCSV(path string, burn report.Burn) error {
	return writeCSV(path, &[]report.Burn{burn})
}

func writeCSV(path string, in interface{}) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(in, file); err != nil {
		return fmt.Errorf("error writing CSV file %s: %w", path, err)
	}
	return nil
}
