package main

import (
	"flag"
	"fmt"
	"os"
)

// handleDelete removes a session. Deleting an unknown name is a no-op.
func handleDelete(args []string) {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	jsonOutput := fs.Bool("json", false, "Output JSON response")
	quiet := fs.Bool("quiet", false, "Suppress output")
	quietShort := fs.Bool("q", false, "Suppress output (short)")

	fs.Usage = func() {
		fmt.Println("Usage: spackle delete <name> [options]")
		fmt.Println()
		fmt.Println("Remove a saved session. Unknown names are reported, not errors.")
		fmt.Println()
		fmt.Println("Options:")
		fmt.Println("  --json       Output JSON response")
		fmt.Println("  -q, --quiet  Suppress output")
	}

	name, rest := takeName(args)
	if err := fs.Parse(rest); err != nil {
		os.Exit(exitGeneralError)
	}
	isQuiet := *quiet || *quietShort

	if name == "" {
		outputError(*jsonOutput, isQuiet, "session name is required", "MISSING_REQUIRED")
		os.Exit(exitValidation)
	}

	cfg, log := loadAppConfig()
	reg, err := openRegistry(cfg, log)
	if err != nil {
		outputError(*jsonOutput, isQuiet, err.Error(), "STORAGE_ERROR")
		os.Exit(exitGeneralError)
	}

	if !reg.Has(name) {
		outputSuccess(*jsonOutput, isQuiet,
			fmt.Sprintf("no session named %q", name),
			map[string]interface{}{"success": true, "name": name, "deleted": false})
		os.Exit(exitSuccess)
	}

	if err := reg.Delete(name); err != nil {
		outputError(*jsonOutput, isQuiet, err.Error(), "DELETE_ERROR")
		os.Exit(exitGeneralError)
	}

	outputSuccess(*jsonOutput, isQuiet,
		fmt.Sprintf("deleted session: %s", name),
		map[string]interface{}{"success": true, "name": name, "deleted": true})
	os.Exit(exitSuccess)
}
