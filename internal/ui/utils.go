package ui

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/forest-guardian/burn-recovery-cli/internal/logger"
	"github.com/forest-guardian/burn-recovery-cli/internal/properties"
)

// Colors for consistent UI
const (
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorReset  = "\033[0m"
)

const dateLayout = "2006-01-02"

// PrintWarning displays a warning message with consistent formatting
func PrintWarning(message string) {
	fmt.Printf("%s\nWarning:%s\n", ColorYellow, ColorReset)
	fmt.Printf("%s%s%s\n", ColorYellow, message, ColorReset)
}

// PrintError displays an error message with consistent formatting
func PrintError(message string) {
	fmt.Printf("\n%sError: %s%s\n", ColorRed, message, ColorReset)
}

// PrintSuccess displays a success message with consistent formatting
func PrintSuccess(message string) {
	fmt.Printf("\n%s%s%s\n", ColorGreen, message, ColorReset)
}

// PrintInfo displays an info message with consistent formatting
func PrintInfo(message string) {
	fmt.Printf("%s%s%s", ColorBlue, message, ColorReset)
}

// ReadString reads a string from stdin with trimming
func ReadString(prompt string) string {
	reader := bufio.NewReader(os.Stdin)
	PrintInfo(prompt)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

// ReadInt reads an integer from stdin with validation
func ReadInt(prompt string, min, max int) (int, error) {
	PrintInfo(prompt)
	var input string
	fmt.Scanln(&input)
	input = strings.TrimSpace(input)

	value, err := strconv.Atoi(input)
	if err != nil {
		return 0, fmt.Errorf("invalid number: %s", input)
	}
	if value < min || value > max {
		return 0, fmt.Errorf("value must be between %d and %d", min, max)
	}
	return value, nil
}

// ReadDate reads a date from stdin with validation
func ReadDate(prompt string) (time.Time, error) {
	return parseDate(ReadString(prompt))
}

// ReadDates reads a comma separated list of dates
func ReadDates(prompt string) ([]time.Time, error) {
	return ParseDates(ReadString(prompt))
}

func parseDate(input string) (time.Time, error) {
	if input == "today" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	date, err := time.Parse(dateLayout, input)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %s. Please use YYYY-MM-DD", input)
	}
	return date, nil
}

// ParseDates parses "YYYY-MM-DD, YYYY-MM-DD, ...".
func ParseDates(input string) ([]time.Time, error) {
	var dates []time.Time
	for _, part := range strings.Split(input, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		date, err := parseDate(part)
		if err != nil {
			return nil, err
		}
		dates = append(dates, date)
	}
	if len(dates) == 0 {
		return nil, fmt.Errorf("no date given")
	}
	return dates, nil
}

// ReadPositiveInt reads a positive integer from stdin
func ReadPositiveInt(prompt string) (int, error) {
	PrintInfo(prompt)
	var input string
	fmt.Scanln(&input)
	input = strings.TrimSpace(input)

	value, err := strconv.Atoi(input)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("invalid number: %s. Please enter a positive integer", input)
	}
	return value, nil
}

func newLogger() logger.ILogger {
	return logger.NewStdOutLogger(properties.LogLevel())
}
