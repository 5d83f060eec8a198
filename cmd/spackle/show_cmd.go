package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/vuul/spackle-ssh/internal/session"
)

// handleShow prints one session with the shared defaults merged in, the same
// view a launch would use.
func handleShow(args []string) {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	jsonOutput := fs.Bool("json", false, "Output JSON response")

	fs.Usage = func() {
		fmt.Println("Usage: spackle show <name> [options]")
		fmt.Println()
		fmt.Println("Show a session's resolved settings. Colors print as #rrggbb.")
		fmt.Println()
		fmt.Println("Options:")
		fmt.Println("  --json    Output JSON response")
	}

	name, rest := takeName(args)
	if err := fs.Parse(rest); err != nil {
		os.Exit(exitGeneralError)
	}
	if name == "" {
		outputError(*jsonOutput, false, "session name is required", "MISSING_REQUIRED")
		os.Exit(exitValidation)
	}

	cfg, log := loadAppConfig()
	reg, err := openRegistry(cfg, log)
	if err != nil {
		outputError(*jsonOutput, false, err.Error(), "STORAGE_ERROR")
		os.Exit(exitGeneralError)
	}

	sess, err := loadBaseSession(reg)
	if err != nil {
		outputError(*jsonOutput, false, err.Error(), "STORAGE_ERROR")
		os.Exit(exitGeneralError)
	}
	if !reg.Has(name) {
		outputError(*jsonOutput, false, fmt.Sprintf("no session named %q", name), "NOT_FOUND")
		os.Exit(exitUnavailable)
	}
	reg.Load(name, &sess)

	outputData(*jsonOutput, sessionPayload(sess), sessionLines(sess))
	os.Exit(exitSuccess)
}

// takeName splits a leading positional argument off args.
func takeName(args []string) (string, []string) {
	if len(args) > 0 && len(args[0]) > 0 && args[0][0] != '-' {
		return args[0], args[1:]
	}
	return "", args
}

func sessionPayload(s session.Session) map[string]interface{} {
	return map[string]interface{}{
		"name":       s.Name,
		"hostname":   s.Hostname,
		"port":       s.Port,
		"mode":       s.Mode,
		"background": s.Background,
		"foreground": s.Foreground,
		"geometry":   s.Geometry,
		"scrollback": s.ScrollbackLines(),
		"fontsize":   s.FontSizePoints(),
		"keypath":    s.KeyPath,
	}
}

func sessionLines(s session.Session) []string {
	return []string{
		fmt.Sprintf("name:       %s", s.Name),
		fmt.Sprintf("hostname:   %s", s.Hostname),
		fmt.Sprintf("port:       %s", s.Port),
		fmt.Sprintf("mode:       %s", s.Mode),
		fmt.Sprintf("background: %s", s.Background),
		fmt.Sprintf("foreground: %s", s.Foreground),
		fmt.Sprintf("geometry:   %s", s.Geometry),
		fmt.Sprintf("scrollback: %d", s.ScrollbackLines()),
		fmt.Sprintf("fontsize:   %d", s.FontSizePoints()),
		fmt.Sprintf("keypath:    %s", s.KeyPath),
	}
}
