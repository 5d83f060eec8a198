package main

import (
	"flag"
	"fmt"
	"os"
)

// handleList prints the saved session names, sorted.
func handleList(args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	jsonOutput := fs.Bool("json", false, "Output JSON response")

	fs.Usage = func() {
		fmt.Println("Usage: spackle list [options]")
		fmt.Println()
		fmt.Println("List saved session names, one per line, sorted.")
		fmt.Println()
		fmt.Println("Options:")
		fmt.Println("  --json    Output JSON response")
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(exitGeneralError)
	}

	cfg, log := loadAppConfig()
	reg, err := openRegistry(cfg, log)
	if err != nil {
		outputError(*jsonOutput, false, err.Error(), "STORAGE_ERROR")
		os.Exit(exitGeneralError)
	}

	names := reg.Names()
	outputData(*jsonOutput, map[string]interface{}{"sessions": names}, names)
	os.Exit(exitSuccess)
}
