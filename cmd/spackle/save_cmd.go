package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/vuul/spackle-ssh/internal/connect"
	"github.com/vuul/spackle-ssh/internal/session"
)

// handleSave creates or fully overwrites a named session. Appearance flags
// left unset inherit the shared defaults record.
func handleSave(args []string) {
	fs := flag.NewFlagSet("save", flag.ExitOnError)

	// Connection flags
	host := fs.String("host", "", "Hostname or user@host (required)")
	hostShort := fs.String("H", "", "Hostname (short)")
	port := fs.String("port", "", "Port (defaults to 22/23 by mode)")
	portShort := fs.String("p", "", "Port (short)")
	mode := fs.String("mode", "", "Protocol: ssh or telnet (default ssh)")
	modeShort := fs.String("m", "", "Protocol (short)")
	key := fs.String("key", "", "SSH identity file path")
	keyShort := fs.String("k", "", "SSH identity file path (short)")

	// Appearance flags
	bg := fs.String("bg", "", "Background color #rrggbb")
	fg := fs.String("fg", "", "Foreground color #rrggbb")
	geometry := fs.String("geometry", "", "Terminal size, e.g. 80x24")
	geometryShort := fs.String("g", "", "Terminal size (short)")
	scrollback := fs.String("scrollback", "", "Scrollback lines")
	fontsize := fs.String("fontsize", "", "Font size in points")

	jsonOutput := fs.Bool("json", false, "Output JSON response")
	quiet := fs.Bool("quiet", false, "Suppress output")
	quietShort := fs.Bool("q", false, "Suppress output (short)")

	fs.Usage = func() {
		fmt.Println("Usage: spackle save <name> [options]")
		fmt.Println()
		fmt.Println("Create or overwrite a session. A re-save replaces every field;")
		fmt.Println("appearance flags left unset inherit the saved defaults.")
		fmt.Println()
		fmt.Println("Required flags:")
		fmt.Println("  -H, --host <host>        Hostname, IP, or user@host")
		fmt.Println()
		fmt.Println("Optional flags:")
		fmt.Println("  -p, --port <port>        Port (defaults to 22/23 by mode)")
		fmt.Println("  -m, --mode <mode>        ssh or telnet (default ssh)")
		fmt.Println("  -k, --key <path>         SSH identity file")
		fmt.Println("  --bg <#rrggbb>           Background color")
		fmt.Println("  --fg <#rrggbb>           Foreground color")
		fmt.Println("  -g, --geometry <size>    80x24, 80x43, 132x24, or 132x43")
		fmt.Println("  --scrollback <lines>     Scrollback depth")
		fmt.Println("  --fontsize <points>      Font size")
		fmt.Println("  --json                   Output JSON response")
		fmt.Println("  -q, --quiet              Suppress output")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  spackle save build-box --host 10.0.0.5")
		fmt.Println("  spackle save legacy --host rack7 --mode telnet --bg #000000 --fg #00ff00")
	}

	name, rest := takeName(args)
	if err := fs.Parse(rest); err != nil {
		os.Exit(exitGeneralError)
	}

	sessionHost := mergeFlags(*host, *hostShort)
	sessionPort := mergeFlags(*port, *portShort)
	sessionMode := mergeFlags(*mode, *modeShort)
	sessionKey := mergeFlags(*key, *keyShort)
	sessionGeometry := mergeFlags(*geometry, *geometryShort)
	isQuiet := *quiet || *quietShort

	if name == "" {
		outputError(*jsonOutput, isQuiet, "session name is required", "MISSING_REQUIRED")
		os.Exit(exitValidation)
	}
	if sessionMode != "" && sessionMode != connect.ModeSSH && sessionMode != connect.ModeTelnet {
		outputError(*jsonOutput, isQuiet,
			fmt.Sprintf("invalid mode %q (valid: ssh, telnet)", sessionMode), "INVALID_MODE")
		os.Exit(exitValidation)
	}

	cfg, log := loadAppConfig()
	reg, err := openRegistry(cfg, log)
	if err != nil {
		outputError(*jsonOutput, isQuiet, err.Error(), "STORAGE_ERROR")
		os.Exit(exitGeneralError)
	}

	// Base: the defaults record, so unset appearance flags inherit it
	sess, err := loadBaseSession(reg)
	if err != nil {
		outputError(*jsonOutput, isQuiet, err.Error(), "STORAGE_ERROR")
		os.Exit(exitGeneralError)
	}

	sess.Name = name
	sess.Hostname = sessionHost
	if sessionMode != "" {
		sess.Mode = sessionMode
	}
	sess.Port = sessionPort
	if sess.Port == "" {
		sess.Port = connect.DefaultPort(sess.Mode)
	}
	if err := applyAppearance(&sess, *bg, *fg, sessionGeometry, *scrollback, *fontsize, sessionKey); err != nil {
		outputError(*jsonOutput, isQuiet, err.Error(), "INVALID_VALUE")
		os.Exit(exitValidation)
	}

	if err := reg.Save(name, sess); err != nil {
		var vErr *session.ValidationError
		if errors.As(err, &vErr) {
			outputError(*jsonOutput, isQuiet, err.Error(), "MISSING_REQUIRED")
			os.Exit(exitValidation)
		}
		outputError(*jsonOutput, isQuiet, err.Error(), "SAVE_ERROR")
		os.Exit(exitGeneralError)
	}

	outputSuccess(*jsonOutput, isQuiet,
		fmt.Sprintf("saved session: %s (%s:%s)", name, sess.Hostname, sess.Port),
		map[string]interface{}{
			"success":  true,
			"name":     name,
			"hostname": sess.Hostname,
			"port":     sess.Port,
			"mode":     sess.Mode,
		})
	os.Exit(exitSuccess)
}
