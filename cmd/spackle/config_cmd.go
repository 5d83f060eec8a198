package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/vuul/spackle-ssh/internal/config"
)

// handleConfig shows the effective configuration and manages the config file.
func handleConfig(args []string) {
	action := "show"
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		action = args[0]
		args = args[1:]
	}

	switch action {
	case "show":
		handleConfigShow(args)
	case "init":
		handleConfigInit(args)
	case "path":
		handleConfigPath()
	default:
		fmt.Fprintf(os.Stderr, "Unknown config action: %s (valid: show, init, path)\n", action)
		os.Exit(exitGeneralError)
	}
}

func handleConfigShow(args []string) {
	fs := flag.NewFlagSet("config show", flag.ExitOnError)
	jsonOutput := fs.Bool("json", false, "Output JSON response")

	fs.Usage = func() {
		fmt.Println("Usage: spackle config [show] [options]")
		fmt.Println()
		fmt.Println("Show the effective configuration: defaults, then the config")
		fmt.Println("file, then SPACKLE_* environment overrides.")
		fmt.Println()
		fmt.Println("Options:")
		fmt.Println("  --json    Output JSON response")
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(exitGeneralError)
	}

	cfg, _ := loadAppConfig()
	outputData(*jsonOutput,
		map[string]interface{}{
			"store_path":            cfg.StorePath,
			"history_path":          cfg.HistoryPath,
			"history_limit":         cfg.HistoryLimit,
			"ssh_binary":            cfg.SSHBinary,
			"telnet_binary":         cfg.TelnetBinary,
			"terminal_binary":       cfg.TerminalBinary,
			"probe_timeout_seconds": cfg.ProbeTimeoutSeconds,
			"log_level":             cfg.LogLevel,
		},
		[]string{
			fmt.Sprintf("store_path:            %s", cfg.StorePath),
			fmt.Sprintf("history_path:          %s", cfg.HistoryPath),
			fmt.Sprintf("history_limit:         %d", cfg.HistoryLimit),
			fmt.Sprintf("ssh_binary:            %s", cfg.SSHBinary),
			fmt.Sprintf("telnet_binary:         %s", cfg.TelnetBinary),
			fmt.Sprintf("terminal_binary:       %s", cfg.TerminalBinary),
			fmt.Sprintf("probe_timeout_seconds: %d", cfg.ProbeTimeoutSeconds),
			fmt.Sprintf("log_level:             %s", cfg.LogLevel),
		})
	os.Exit(exitSuccess)
}

func handleConfigInit(args []string) {
	fs := flag.NewFlagSet("config init", flag.ExitOnError)
	jsonOutput := fs.Bool("json", false, "Output JSON response")
	quiet := fs.Bool("quiet", false, "Suppress output")
	quietShort := fs.Bool("q", false, "Suppress output (short)")

	fs.Usage = func() {
		fmt.Println("Usage: spackle config init [options]")
		fmt.Println()
		fmt.Println("Write a commented example config file. An existing file is")
		fmt.Println("left untouched.")
		fmt.Println()
		fmt.Println("Options:")
		fmt.Println("  --json       Output JSON response")
		fmt.Println("  -q, --quiet  Suppress output")
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(exitGeneralError)
	}
	isQuiet := *quiet || *quietShort

	path, err := config.Path()
	if err != nil {
		outputError(*jsonOutput, isQuiet, err.Error(), "CONFIG_ERROR")
		os.Exit(exitGeneralError)
	}
	if err := config.CreateExample(); err != nil {
		outputError(*jsonOutput, isQuiet, err.Error(), "CONFIG_ERROR")
		os.Exit(exitGeneralError)
	}

	outputSuccess(*jsonOutput, isQuiet,
		fmt.Sprintf("config file at %s", path),
		map[string]interface{}{"success": true, "path": path})
	os.Exit(exitSuccess)
}

func handleConfigPath() {
	path, err := config.Path()
	if err != nil {
		outputError(false, false, err.Error(), "CONFIG_ERROR")
		os.Exit(exitGeneralError)
	}
	fmt.Println(path)
	os.Exit(exitSuccess)
}
