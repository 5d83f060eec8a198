package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/vuul/spackle-ssh/internal/history"
)

// handleHistory lists recent launch attempts, newest first.
func handleHistory(args []string) {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	limit := fs.Int("limit", 20, "Number of records to show")
	limitShort := fs.Int("l", 0, "Number of records (short)")
	clear := fs.Bool("clear", false, "Delete all history records")
	jsonOutput := fs.Bool("json", false, "Output JSON response")
	quiet := fs.Bool("quiet", false, "Suppress output")
	quietShort := fs.Bool("q", false, "Suppress output (short)")

	fs.Usage = func() {
		fmt.Println("Usage: spackle history [options]")
		fmt.Println()
		fmt.Println("List recent launch attempts, newest first.")
		fmt.Println()
		fmt.Println("Options:")
		fmt.Println("  -l, --limit <n>   Number of records to show (default 20)")
		fmt.Println("  --clear           Delete all history records")
		fmt.Println("  --json            Output JSON response")
		fmt.Println("  -q, --quiet       Suppress output")
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(exitGeneralError)
	}

	recordLimit := *limit
	if *limitShort > 0 {
		recordLimit = *limitShort
	}
	isQuiet := *quiet || *quietShort

	cfg, log := loadAppConfig()
	tracker, err := openTracker(cfg, log)
	if err != nil {
		outputError(*jsonOutput, isQuiet, err.Error(), "HISTORY_ERROR")
		os.Exit(exitGeneralError)
	}

	if *clear {
		if err := tracker.Clear(); err != nil {
			outputError(*jsonOutput, isQuiet, err.Error(), "HISTORY_ERROR")
			os.Exit(exitGeneralError)
		}
		outputSuccess(*jsonOutput, isQuiet, "cleared launch history",
			map[string]interface{}{"success": true, "cleared": true})
		os.Exit(exitSuccess)
	}

	records, err := tracker.Recent(recordLimit)
	if err != nil {
		outputError(*jsonOutput, isQuiet, err.Error(), "HISTORY_ERROR")
		os.Exit(exitGeneralError)
	}

	lines := make([]string, 0, len(records))
	for _, rec := range records {
		lines = append(lines, formatRecord(rec))
	}
	outputData(*jsonOutput, map[string]interface{}{"records": records}, lines)
	os.Exit(exitSuccess)
}

// formatRecord renders one history record as a fixed-layout line.
func formatRecord(rec history.Record) string {
	when := time.Unix(rec.CreatedAt, 0).Format("2006-01-02 15:04")
	line := fmt.Sprintf("%s  %-6s  %s", when, rec.Mode, rec.Target)
	if rec.Session != "" {
		line += fmt.Sprintf("  (%s)", rec.Session)
	}
	return line
}
