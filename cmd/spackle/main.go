package main

import (
	"fmt"
	"os"
	"runtime"
)

// Exit codes shared by every subcommand.
const (
	exitSuccess      = 0
	exitGeneralError = 1
	exitValidation   = 2
	exitUnavailable  = 3
)

// Version is stamped at build time via -ldflags.
var Version = "2.0.0-dev"

func main() {
	// The original refuses to run on Windows, and so does this port.
	if runtime.GOOS == "windows" {
		fmt.Fprintln(os.Stderr, "E099 This program is not for Windows. Please use PuTTY")
		os.Exit(exitGeneralError)
	}

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(exitGeneralError)
	}

	subcommand := os.Args[1]
	args := os.Args[2:]

	switch subcommand {
	case "list":
		handleList(args)
	case "show":
		handleShow(args)
	case "save":
		handleSave(args)
	case "delete":
		handleDelete(args)
	case "defaults":
		handleDefaults(args)
	case "launch":
		handleLaunch(args)
	case "spec":
		handleSpec(args)
	case "history":
		handleHistory(args)
	case "config":
		handleConfig(args)
	case "help", "-h", "--help":
		printUsage()
	case "version", "--version":
		fmt.Printf("spackle %s\n", Version)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", subcommand)
		fmt.Fprintln(os.Stderr, "Run 'spackle help' for usage.")
		os.Exit(exitGeneralError)
	}
}

func printUsage() {
	fmt.Println("Usage: spackle <command> [options]")
	fmt.Println()
	fmt.Println("Store named connection profiles and launch terminal sessions")
	fmt.Println("against them over ssh or telnet.")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  list      List saved session names")
	fmt.Println("  show      Show a session's resolved settings")
	fmt.Println("  save      Create or overwrite a session")
	fmt.Println("  delete    Remove a session")
	fmt.Println("  defaults  Inspect or rewrite the shared defaults")
	fmt.Println("  launch    Open a terminal against a session or host")
	fmt.Println("  spec      Export the launch specification for a session")
	fmt.Println("  history   List recent launches")
	fmt.Println("  config    Manage the configuration file")
	fmt.Println("  version   Print the version")
	fmt.Println()
	fmt.Println("Exit codes:")
	fmt.Println("  0  Success")
	fmt.Println("  1  General error")
	fmt.Println("  2  Invalid input")
	fmt.Println("  3  Not found / host unreachable")
	fmt.Println()
	fmt.Println("Run 'spackle <command> --help' for command options.")
}

// mergeFlags returns the long-form value unless only the short form was set.
func mergeFlags(long, short string) string {
	if long != "" {
		return long
	}
	return short
}
