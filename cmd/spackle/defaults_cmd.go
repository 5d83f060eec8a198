package main

import (
	"flag"
	"fmt"
	"os"
)

// handleDefaults inspects or rewrites the shared appearance defaults that
// every session inherits.
func handleDefaults(args []string) {
	action := "show"
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		action = args[0]
		args = args[1:]
	}

	switch action {
	case "show":
		handleDefaultsShow(args)
	case "save":
		handleDefaultsSave(args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown defaults action: %s (valid: show, save)\n", action)
		os.Exit(exitGeneralError)
	}
}

func handleDefaultsShow(args []string) {
	fs := flag.NewFlagSet("defaults show", flag.ExitOnError)
	jsonOutput := fs.Bool("json", false, "Output JSON response")

	fs.Usage = func() {
		fmt.Println("Usage: spackle defaults [show] [options]")
		fmt.Println()
		fmt.Println("Show the shared appearance defaults.")
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

	sess, err := loadBaseSession(reg)
	if err != nil {
		outputError(*jsonOutput, false, err.Error(), "STORAGE_ERROR")
		os.Exit(exitGeneralError)
	}

	// The defaults record has no identity fields, only appearance.
	outputData(*jsonOutput,
		map[string]interface{}{
			"background": sess.Background,
			"foreground": sess.Foreground,
			"geometry":   sess.Geometry,
			"scrollback": sess.ScrollbackLines(),
			"fontsize":   sess.FontSizePoints(),
			"keypath":    sess.KeyPath,
		},
		[]string{
			fmt.Sprintf("background: %s", sess.Background),
			fmt.Sprintf("foreground: %s", sess.Foreground),
			fmt.Sprintf("geometry:   %s", sess.Geometry),
			fmt.Sprintf("scrollback: %d", sess.ScrollbackLines()),
			fmt.Sprintf("fontsize:   %d", sess.FontSizePoints()),
			fmt.Sprintf("keypath:    %s", sess.KeyPath),
		})
	os.Exit(exitSuccess)
}

func handleDefaultsSave(args []string) {
	fs := flag.NewFlagSet("defaults save", flag.ExitOnError)
	bg := fs.String("bg", "", "Background color #rrggbb")
	fg := fs.String("fg", "", "Foreground color #rrggbb")
	geometry := fs.String("geometry", "", "Terminal size, e.g. 80x24")
	geometryShort := fs.String("g", "", "Terminal size (short)")
	scrollback := fs.String("scrollback", "", "Scrollback lines")
	fontsize := fs.String("fontsize", "", "Font size in points")
	key := fs.String("key", "", "SSH identity file path")
	keyShort := fs.String("k", "", "SSH identity file path (short)")
	jsonOutput := fs.Bool("json", false, "Output JSON response")
	quiet := fs.Bool("quiet", false, "Suppress output")
	quietShort := fs.Bool("q", false, "Suppress output (short)")

	fs.Usage = func() {
		fmt.Println("Usage: spackle defaults save [options]")
		fmt.Println()
		fmt.Println("Rewrite the shared appearance defaults. Flags left unset keep")
		fmt.Println("their current value.")
		fmt.Println()
		fmt.Println("Options:")
		fmt.Println("  --bg <#rrggbb>           Background color")
		fmt.Println("  --fg <#rrggbb>           Foreground color")
		fmt.Println("  -g, --geometry <size>    80x24, 80x43, 132x24, or 132x43")
		fmt.Println("  --scrollback <lines>     Scrollback depth")
		fmt.Println("  --fontsize <points>      Font size")
		fmt.Println("  -k, --key <path>         SSH identity file")
		fmt.Println("  --json                   Output JSON response")
		fmt.Println("  -q, --quiet              Suppress output")
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(exitGeneralError)
	}

	defaultsGeometry := mergeFlags(*geometry, *geometryShort)
	defaultsKey := mergeFlags(*key, *keyShort)
	isQuiet := *quiet || *quietShort

	cfg, log := loadAppConfig()
	reg, err := openRegistry(cfg, log)
	if err != nil {
		outputError(*jsonOutput, isQuiet, err.Error(), "STORAGE_ERROR")
		os.Exit(exitGeneralError)
	}

	sess, err := loadBaseSession(reg)
	if err != nil {
		outputError(*jsonOutput, isQuiet, err.Error(), "STORAGE_ERROR")
		os.Exit(exitGeneralError)
	}

	if err := applyAppearance(&sess, *bg, *fg, defaultsGeometry, *scrollback, *fontsize, defaultsKey); err != nil {
		outputError(*jsonOutput, isQuiet, err.Error(), "INVALID_VALUE")
		os.Exit(exitValidation)
	}

	if err := reg.SaveDefaults(sess); err != nil {
		outputError(*jsonOutput, isQuiet, err.Error(), "SAVE_ERROR")
		os.Exit(exitGeneralError)
	}

	outputSuccess(*jsonOutput, isQuiet, "saved defaults",
		map[string]interface{}{
			"success":    true,
			"background": sess.Background,
			"foreground": sess.Foreground,
			"geometry":   sess.Geometry,
			"scrollback": sess.ScrollbackLines(),
			"fontsize":   sess.FontSizePoints(),
			"keypath":    sess.KeyPath,
		})
	os.Exit(exitSuccess)
}
