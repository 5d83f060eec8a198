package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/vuul/spackle-ssh/internal/connect"
	"github.com/vuul/spackle-ssh/internal/launch"
	"github.com/vuul/spackle-ssh/internal/platform"
)

// handleSpec exports the launch specification for a session without probing
// or spawning anything. Binaries that cannot be located keep their configured
// names so the export works on any machine.
func handleSpec(args []string) {
	fs := flag.NewFlagSet("spec", flag.ExitOnError)

	output := fs.String("output", "", "Write to file instead of stdout")
	outputShort := fs.String("o", "", "Write to file (short)")
	format := fs.String("format", "", "Output format: yaml or json (default yaml)")
	formatShort := fs.String("f", "", "Output format (short)")
	strategy := fs.String("strategy", "", "Force terminal host: native or emulator")
	strategyShort := fs.String("s", "", "Force terminal host (short)")
	quiet := fs.Bool("quiet", false, "Suppress output")
	quietShort := fs.Bool("q", false, "Suppress output (short)")

	fs.Usage = func() {
		fmt.Println("Usage: spackle spec <name> [options]")
		fmt.Println()
		fmt.Println("Export the launch specification a session would use.")
		fmt.Println()
		fmt.Println("Options:")
		fmt.Println("  -o, --output <file>      Write to file instead of stdout")
		fmt.Println("  -f, --format <format>    yaml or json (default yaml)")
		fmt.Println("  -s, --strategy <name>    native or emulator (default: by OS)")
		fmt.Println("  -q, --quiet              Suppress output")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  spackle spec build-box")
		fmt.Println("  spackle spec build-box -o build-box.yaml")
		fmt.Println("  spackle spec build-box --format json")
	}

	name, rest := takeName(args)
	if err := fs.Parse(rest); err != nil {
		os.Exit(exitGeneralError)
	}

	outPath := mergeFlags(*output, *outputShort)
	outFormat := mergeFlags(*format, *formatShort)
	specStrategy := mergeFlags(*strategy, *strategyShort)
	isQuiet := *quiet || *quietShort

	if name == "" {
		outputError(false, isQuiet, "session name is required", "MISSING_REQUIRED")
		os.Exit(exitValidation)
	}

	parsedFormat, err := launch.ParseFormat(outFormat)
	if err != nil {
		outputError(false, isQuiet, err.Error(), "INVALID_FORMAT")
		os.Exit(exitValidation)
	}
	strat, err := launch.ParseStrategy(specStrategy)
	if err != nil {
		outputError(false, isQuiet, err.Error(), "INVALID_STRATEGY")
		os.Exit(exitValidation)
	}

	cfg, log := loadAppConfig()
	reg, err := openRegistry(cfg, log)
	if err != nil {
		outputError(false, isQuiet, err.Error(), "STORAGE_ERROR")
		os.Exit(exitGeneralError)
	}

	sess, err := loadBaseSession(reg)
	if err != nil {
		outputError(false, isQuiet, err.Error(), "STORAGE_ERROR")
		os.Exit(exitGeneralError)
	}
	if !reg.Has(name) {
		outputError(false, isQuiet, fmt.Sprintf("no session named %q", name), "NOT_FOUND")
		os.Exit(exitUnavailable)
	}
	reg.Load(name, &sess)

	raw, connMode, connPort, keyPath, err := applyTarget(sess, targetInputs{})
	if err != nil {
		outputError(false, isQuiet, err.Error(), "INVALID_MODE")
		os.Exit(exitValidation)
	}
	conn, err := connect.Resolve(raw, connMode, connPort, keyPath, nil)
	if err != nil {
		msg, code, exitCode := resolveFailure(err)
		outputError(false, isQuiet, msg, code)
		os.Exit(exitCode)
	}

	sys := platform.NewSystem(log)
	tools, _ := locateTools(sys, cfg, conn.Mode, strat, false)

	spec, err := launch.Build(strat, conn, appearanceOf(sess), tools)
	if err != nil {
		outputError(false, isQuiet, err.Error(), "BUILD_ERROR")
		os.Exit(exitGeneralError)
	}

	if outPath != "" {
		if err := launch.WriteSpecFile(outPath, parsedFormat, spec); err != nil {
			outputError(false, isQuiet, err.Error(), "WRITE_ERROR")
			os.Exit(exitGeneralError)
		}
		outputSuccess(false, isQuiet,
			fmt.Sprintf("wrote %s spec for %s to %s", parsedFormat, name, outPath),
			nil)
		os.Exit(exitSuccess)
	}

	data, err := launch.Encode(spec, parsedFormat)
	if err != nil {
		outputError(false, isQuiet, err.Error(), "ENCODE_ERROR")
		os.Exit(exitGeneralError)
	}
	fmt.Print(string(data))
	os.Exit(exitSuccess)
}
