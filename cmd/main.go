package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/airbusgeo/godal"
	"github.com/common-nighthawk/go-figure"
	bannercolor "github.com/fatih/color"
	"github.com/forest-guardian/burn-recovery-cli/internal/delivery"
	"github.com/forest-guardian/burn-recovery-cli/internal/logger"
	"github.com/forest-guardian/burn-recovery-cli/internal/notification"
	"github.com/forest-guardian/burn-recovery-cli/internal/properties"
	"github.com/forest-guardian/burn-recovery-cli/internal/ui"
	"github.com/joho/godotenv"
)

func printBanner() {
	figure1 := figure.NewFigure("Burn", "isometric1", true)
	figure2 := figure.NewFigure("Recovery", "isometric1", true)
	bannercolor.Cyan(figure1.String())
	bannercolor.Cyan(figure2.String())
	fmt.Println()
}

// argValue reads --name=value or --name value.
func argValue(args []string, name string) string {
	flag := "--" + name
	for i, arg := range args {
		if strings.HasPrefix(arg, flag+"=") {
			return strings.TrimPrefix(arg, flag+"=")
		}
		if arg == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func recoverPanic() {
	if r := recover(); r != nil {
		pc, file, line, ok := runtime.Caller(3) // 3 levels up is often the panic source
		location := "Unknown location"
		if ok {
			location = fmt.Sprintf("%s:%d in %s", file, line, runtime.FuncForPC(pc).Name())
		}

		fmt.Printf("\n\033[31mPANIC: %v\033[0m\n", r)
		fmt.Printf("\033[31mLocation: %s\033[0m\n", location)
		fmt.Printf("\033[31mPlease check the input and try again.\033[0m\n")
		fmt.Printf("\033[31mExiting...\033[0m\n")

		errMessage := fmt.Sprintf("Burn recovery CLI panic:\n\n%v\n\nLocation: %s\n\nStack trace:\n%s", r, location, debug.Stack())
		if err := notification.SendDiscordErrorNotification(errMessage); err != nil {
			fmt.Printf("\033[31mFailed to send notification: %s\033[0m\n", err.Error())
		}
		os.Exit(1)
	}
}

// runOnce analyses the scenes of one folder without the menu.
func runOnce(scenesDir, resultDir string) error {
	opts, err := delivery.DefaultAnalysisOptions()
	if err != nil {
		return err
	}
	if scenesDir != "" {
		opts.ScenesDir = scenesDir
	}
	if resultDir != "" {
		opts.ResultDir = resultDir
	}

	summary, err := delivery.RunAnalysis(context.Background(), opts, logger.NewStdOutLogger(properties.LogLevel()))
	if err != nil {
		notification.SendDiscordErrorNotification(fmt.Sprintf("Error analyzing fire: %s", err.Error()))
		return err
	}
	ui.PrintSuccess(summary.Message())
	notification.SendDiscordSuccessNotification(summary.Message())
	return nil
}

func main() {
	defer recoverPanic()

	err := godotenv.Load("../.env")
	if err != nil {
		if err := godotenv.Load(".env"); err != nil {
			fmt.Printf("\033[33mNo .env file found, using the environment: %s\033[0m\n", err.Error())
		}
	}

	godal.RegisterAll()

	scenesDir := argValue(os.Args[1:], "scenes")
	resultDir := argValue(os.Args[1:], "output")
	if scenesDir != "" || resultDir != "" {
		if err := runOnce(scenesDir, resultDir); err != nil {
			ui.PrintError(err.Error())
			os.Exit(1)
		}
		return
	}

	printBanner()
	ui.ShowMenu()
}
