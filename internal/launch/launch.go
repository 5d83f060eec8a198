// Package launch turns a resolved connection plus appearance settings into
// the exact program invocation that opens the terminal window.
package launch

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/vuul/spackle-ssh/internal/color"
	"github.com/vuul/spackle-ssh/internal/connect"
)

// Strategy selects which terminal host runs the session.
type Strategy string

const (
	// NativeHost drives Terminal.app through osascript.
	NativeHost Strategy = "native"
	// EmulatorHost starts an xterm with the appearance flags.
	EmulatorHost Strategy = "emulator"
)

// DetectStrategy picks the strategy for the current platform.
func DetectStrategy() Strategy {
	if runtime.GOOS == "darwin" {
		return NativeHost
	}
	return EmulatorHost
}

// ParseStrategy converts a flag value into a Strategy. Empty input selects
// the platform default.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DetectStrategy(), nil
	case "native":
		return NativeHost, nil
	case "emulator", "xterm":
		return EmulatorHost, nil
	}
	return "", fmt.Errorf("unknown launch strategy %q", s)
}

// Appearance carries the terminal look a launch applies.
type Appearance struct {
	Geometry   string
	Scrollback int
	FontSize   int
	Foreground string // #rrggbb
	Background string // #rrggbb
}

// Tools holds the located client binary paths. Xterm may be empty when the
// native strategy is used.
type Tools struct {
	SSH    string
	Telnet string
	Xterm  string
}

// Spec is a fully built launch: the program to start, its arguments, and the
// inner client command for display.
type Spec struct {
	Strategy Strategy `json:"strategy" yaml:"strategy"`
	Title    string   `json:"title" yaml:"title"`
	Command  string   `json:"command" yaml:"command"`
	Program  string   `json:"program" yaml:"program"`
	Args     []string `json:"args" yaml:"args"`
}

// Build assembles the launch for the given strategy.
func Build(strategy Strategy, conn connect.Spec, look Appearance, tools Tools) (Spec, error) {
	cmd := clientCommand(conn, tools)
	switch strategy {
	case NativeHost:
		return nativeSpec(cmd, conn.Title, look), nil
	case EmulatorHost:
		return emulatorSpec(tools.Xterm, cmd, conn.Title, look), nil
	}
	return Spec{}, fmt.Errorf("unknown launch strategy %q", strategy)
}

// clientCommand builds the inner ssh or telnet invocation. The identity file
// flag appears only when an explicit key path is set. Paths and usernames are
// interpolated verbatim, so values containing spaces are not supported by the
// command string form.
func clientCommand(conn connect.Spec, tools Tools) string {
	if conn.Mode == connect.ModeTelnet {
		return fmt.Sprintf("%s %s %s", tools.Telnet, conn.Host, conn.Port)
	}
	if conn.KeyPath != "" {
		return fmt.Sprintf("%s -p %s -i %s %s@%s", tools.SSH, conn.Port, conn.KeyPath, conn.User, conn.Host)
	}
	return fmt.Sprintf("%s -p %s %s@%s", tools.SSH, conn.Port, conn.User, conn.Host)
}

// The Terminal.app script sets the window up after the command starts: title,
// size, colors, font. Color triples are 16-bit per channel.
const appleScriptTemplate = `
tell application "Terminal"
    activate
    do script "%s"
    set targetWindow to front window
    set custom title of targetWindow to "%s"
    set number of columns of targetWindow to %s
    set number of rows of targetWindow to %s
    set background color of current settings of selected tab of targetWindow to %s
    set normal text color of current settings of selected tab of targetWindow to %s
    set font size of current settings of selected tab of targetWindow to %d
end tell
`

func nativeSpec(cmd, title string, look Appearance) Spec {
	cols, rows := splitGeometry(look.Geometry)
	script := fmt.Sprintf(appleScriptTemplate,
		escapeAppleScript(cmd),
		escapeAppleScript(title),
		cols, rows,
		appleScriptColor(look.Background),
		appleScriptColor(look.Foreground),
		look.FontSize,
	)
	return Spec{
		Strategy: NativeHost,
		Title:    title,
		Command:  cmd,
		Program:  "osascript",
		Args:     []string{"-e", script},
	}
}

func emulatorSpec(xtermPath, cmd, title string, look Appearance) Spec {
	return Spec{
		Strategy: EmulatorHost,
		Title:    title,
		Command:  cmd,
		Program:  xtermPath,
		Args: []string{
			"-T", title,
			"-geometry", look.Geometry,
			"-sl", strconv.Itoa(look.Scrollback),
			"-fa", fmt.Sprintf("mono-%d", look.FontSize),
			"-fg", xtermColor(look.Foreground),
			"-bg", xtermColor(look.Background),
			"-e", cmd,
		},
	}
}

// escapeAppleScript escapes a value for embedding in an AppleScript string
// literal. Backslashes must be doubled before quotes are escaped.
func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

// appleScriptColor renders #rrggbb as an AppleScript {r, g, b} triple with
// each channel scaled to the 0-65535 range. Unparseable input renders black.
func appleScriptColor(hexColor string) string {
	r, g, b, err := color.ParseHex(hexColor)
	if err != nil {
		r, g, b = 0, 0, 0
	}
	return fmt.Sprintf("{%d, %d, %d}", int(r)*257, int(g)*257, int(b)*257)
}

// xtermColor renders #rrggbb as an X11 rgb:RR/GG/BB value.
func xtermColor(hexColor string) string {
	r, g, b, err := color.ParseHex(hexColor)
	if err != nil {
		r, g, b = 0, 0, 0
	}
	return fmt.Sprintf("rgb:%02x/%02x/%02x", r, g, b)
}

func splitGeometry(geometry string) (cols, rows string) {
	cols, rows, ok := strings.Cut(geometry, "x")
	if !ok || cols == "" || rows == "" {
		return "80", "24"
	}
	return cols, rows
}
