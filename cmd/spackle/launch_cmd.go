package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime"
	"strings"

	"go.uber.org/zap"

	"github.com/vuul/spackle-ssh/internal/config"
	"github.com/vuul/spackle-ssh/internal/connect"
	"github.com/vuul/spackle-ssh/internal/history"
	"github.com/vuul/spackle-ssh/internal/launch"
	"github.com/vuul/spackle-ssh/internal/platform"
	"github.com/vuul/spackle-ssh/internal/session"
)

// handleLaunch opens a terminal against a saved session or an ad-hoc host.
// The command validates the target, locates the client binaries, probes the
// host, and spawns the terminal fire-and-forget.
func handleLaunch(args []string) {
	fs := flag.NewFlagSet("launch", flag.ExitOnError)

	host := fs.String("host", "", "Ad-hoc hostname or user@host")
	hostShort := fs.String("H", "", "Ad-hoc hostname (short)")
	port := fs.String("port", "", "Port override")
	portShort := fs.String("p", "", "Port override (short)")
	mode := fs.String("mode", "", "Protocol override: ssh or telnet")
	modeShort := fs.String("m", "", "Protocol override (short)")
	key := fs.String("key", "", "SSH identity file override")
	keyShort := fs.String("k", "", "SSH identity file override (short)")
	strategy := fs.String("strategy", "", "Force terminal host: native or emulator")
	strategyShort := fs.String("s", "", "Force terminal host (short)")
	dryRun := fs.Bool("dry-run", false, "Print the launch spec without probing or spawning")
	noCheck := fs.Bool("no-check", false, "Skip the reachability probe")
	jsonOutput := fs.Bool("json", false, "Output JSON response")
	yamlOutput := fs.Bool("yaml", false, "Output YAML (with --dry-run)")
	quiet := fs.Bool("quiet", false, "Suppress output")
	quietShort := fs.Bool("q", false, "Suppress output (short)")

	fs.Usage = func() {
		fmt.Println("Usage: spackle launch [<name>] [options]")
		fmt.Println()
		fmt.Println("Open a terminal against a saved session or an ad-hoc host.")
		fmt.Println("Flags override the loaded session field by field.")
		fmt.Println()
		fmt.Println("Options:")
		fmt.Println("  -H, --host <host>        Hostname, IP, or user@host")
		fmt.Println("  -p, --port <port>        Port (defaults to 22/23 by mode)")
		fmt.Println("  -m, --mode <mode>        ssh or telnet")
		fmt.Println("  -k, --key <path>         SSH identity file")
		fmt.Println("  -s, --strategy <name>    native or emulator (default: by OS)")
		fmt.Println("  --dry-run                Print the launch spec and exit")
		fmt.Println("  --no-check               Skip the reachability probe")
		fmt.Println("  --json                   Output JSON response")
		fmt.Println("  --yaml                   Output YAML (with --dry-run)")
		fmt.Println("  -q, --quiet              Suppress output")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  spackle launch build-box")
		fmt.Println("  spackle launch --host alice@10.0.0.5")
		fmt.Println("  spackle launch build-box --dry-run --yaml")
	}

	name, rest := takeName(args)
	if err := fs.Parse(rest); err != nil {
		os.Exit(exitGeneralError)
	}

	launchHost := mergeFlags(*host, *hostShort)
	launchPort := mergeFlags(*port, *portShort)
	launchMode := mergeFlags(*mode, *modeShort)
	launchKey := mergeFlags(*key, *keyShort)
	launchStrategy := mergeFlags(*strategy, *strategyShort)
	isQuiet := *quiet || *quietShort

	if name == "" && launchHost == "" {
		outputError(*jsonOutput, isQuiet, "session name or --host is required", "MISSING_REQUIRED")
		os.Exit(exitValidation)
	}

	strat, err := launch.ParseStrategy(launchStrategy)
	if err != nil {
		outputError(*jsonOutput, isQuiet, err.Error(), "INVALID_STRATEGY")
		os.Exit(exitValidation)
	}

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
	if name != "" {
		if !reg.Has(name) {
			outputError(*jsonOutput, isQuiet, fmt.Sprintf("no session named %q", name), "NOT_FOUND")
			os.Exit(exitUnavailable)
		}
		reg.Load(name, &sess)
	}

	raw, connMode, connPort, keyPath, err := applyTarget(sess, targetInputs{
		Host: launchHost,
		Port: launchPort,
		Mode: launchMode,
		Key:  launchKey,
	})
	if err != nil {
		outputError(*jsonOutput, isQuiet, err.Error(), "INVALID_MODE")
		os.Exit(exitValidation)
	}

	conn, err := connect.Resolve(raw, connMode, connPort, keyPath, nil)
	if err != nil {
		msg, code, exitCode := resolveFailure(err)
		outputError(*jsonOutput, isQuiet, msg, code)
		os.Exit(exitCode)
	}

	sys := platform.NewSystem(log)
	tools, missing := locateTools(sys, cfg, conn.Mode, strat, !*dryRun)
	if missing != "" {
		outputError(*jsonOutput, isQuiet, missing, "BINARY_MISSING")
		os.Exit(exitUnavailable)
	}

	spec, err := launch.Build(strat, conn, appearanceOf(sess), tools)
	if err != nil {
		outputError(*jsonOutput, isQuiet, err.Error(), "BUILD_ERROR")
		os.Exit(exitGeneralError)
	}

	if *dryRun {
		if err := printSpec(spec, *jsonOutput, *yamlOutput); err != nil {
			outputError(*jsonOutput, isQuiet, err.Error(), "ENCODE_ERROR")
			os.Exit(exitGeneralError)
		}
		os.Exit(exitSuccess)
	}

	if !*noCheck {
		if err := sys.CheckReachable(conn.Host, conn.Port, cfg.ProbeTimeout()); err != nil {
			msg, code, exitCode := probeFailure(err, conn.Host)
			outputError(*jsonOutput, isQuiet, msg, code)
			os.Exit(exitCode)
		}
	}

	if err := sys.Spawn(spec); err != nil {
		outputError(*jsonOutput, isQuiet, fmt.Sprintf("E105 IOException: %v", err), "SPAWN_ERROR")
		os.Exit(exitGeneralError)
	}

	// Record the attempt; history problems never block a launch
	if tracker, err := openTracker(cfg, log); err == nil {
		if _, err := tracker.Append(history.Record{
			Session: name,
			Target:  conn.Target(),
			Mode:    conn.Mode,
			Program: spec.Program,
		}); err != nil {
			log.Warn("failed to record launch", zap.Error(err))
		}
	} else {
		log.Warn("failed to open launch history", zap.Error(err))
	}

	outputSuccess(*jsonOutput, isQuiet,
		fmt.Sprintf("launched %s", conn.Title),
		map[string]interface{}{
			"success":  true,
			"title":    conn.Title,
			"target":   conn.Target(),
			"mode":     conn.Mode,
			"strategy": string(spec.Strategy),
			"program":  spec.Program,
		})
	os.Exit(exitSuccess)
}

// targetInputs are the per-invocation overrides layered on a loaded session.
type targetInputs struct {
	Host string
	Port string
	Mode string
	Key  string
}

// applyTarget layers flag overrides onto the session and fills the protocol
// default port when none is set anywhere.
func applyTarget(sess session.Session, in targetInputs) (raw, mode, port, keyPath string, err error) {
	mode = sess.Mode
	if in.Mode != "" {
		if in.Mode != connect.ModeSSH && in.Mode != connect.ModeTelnet {
			return "", "", "", "", fmt.Errorf("invalid mode %q (valid: ssh, telnet)", in.Mode)
		}
		mode = in.Mode
	}

	raw = sess.Hostname
	if in.Host != "" {
		raw = in.Host
	}

	port = sess.Port
	if in.Port != "" {
		port = in.Port
	}
	if port == "" {
		port = connect.DefaultPort(mode)
	}

	keyPath = sess.ExplicitKeyPath()
	if in.Key != "" {
		keyPath = in.Key
	}
	return raw, mode, port, keyPath, nil
}

// locateTools finds the binaries the launch needs. The returned message is
// empty on success and carries the user-facing failure otherwise. With strict
// false a missing binary falls back to its configured name, which keeps dry
// runs working on machines without the clients installed.
func locateTools(sys platform.Launcher, cfg *config.Config, mode string, strategy launch.Strategy, strict bool) (launch.Tools, string) {
	var tools launch.Tools

	switch mode {
	case connect.ModeTelnet:
		path, err := sys.LocateExecutable(cfg.TelnetBinary)
		if err != nil {
			if strict {
				msg := "E101 Telnet not found on the system."
				if runtime.GOOS == "darwin" {
					msg += "\n\nInstall it with:  brew install telnet"
				}
				return tools, msg
			}
			path = cfg.TelnetBinary
		}
		tools.Telnet = path
	default:
		path, err := sys.LocateExecutable(cfg.SSHBinary)
		if err != nil {
			if strict {
				return tools, "E101 SSH not found on the system."
			}
			path = cfg.SSHBinary
		}
		tools.SSH = path
	}

	if strategy == launch.EmulatorHost {
		path, err := sys.LocateExecutable(cfg.TerminalBinary)
		if err != nil {
			if strict {
				return tools, fmt.Sprintf("E100 %s not found on the system.", cfg.TerminalBinary)
			}
			path = cfg.TerminalBinary
		}
		tools.Xterm = path
	}
	return tools, ""
}

// resolveFailure maps a target resolution error to its message, output code,
// and exit code.
func resolveFailure(err error) (string, string, int) {
	var fErr *connect.FormatError
	var vErr *connect.ValidationError
	switch {
	case errors.As(err, &fErr):
		return "Invalid hostname format.", "INVALID_HOSTNAME", exitValidation
	case errors.As(err, &vErr):
		if strings.Contains(vErr.Msg, "port") {
			return "E105 No port specified: Please enter a port number.", "NO_PORT", exitValidation
		}
		return "Please enter a hostname.", "NO_HOSTNAME", exitValidation
	}
	return err.Error(), "RESOLVE_ERROR", exitGeneralError
}

// probeFailure maps a reachability check error. Unresolvable names and
// connect failures are reported separately, the way the checks run.
func probeFailure(err error, host string) (string, string, int) {
	var uhErr *platform.UnknownHostError
	if errors.As(err, &uhErr) {
		return fmt.Sprintf("E105 Unknown Host: %s", host), "UNKNOWN_HOST", exitUnavailable
	}
	return fmt.Sprintf("E105 IOException: %v", err), "UNREACHABLE", exitUnavailable
}

func appearanceOf(sess session.Session) launch.Appearance {
	return launch.Appearance{
		Geometry:   sess.Geometry,
		Scrollback: sess.ScrollbackLines(),
		FontSize:   sess.FontSizePoints(),
		Foreground: sess.Foreground,
		Background: sess.Background,
	}
}

// printSpec renders a launch spec to stdout as text, JSON, or YAML.
func printSpec(spec launch.Spec, jsonOut, yamlOut bool) error {
	var format launch.OutputFormat
	switch {
	case yamlOut:
		format = launch.FormatYAML
	case jsonOut:
		format = launch.FormatJSON
	default:
		for _, line := range specLines(spec) {
			fmt.Println(line)
		}
		return nil
	}

	data, err := launch.Encode(spec, format)
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	return nil
}

func specLines(spec launch.Spec) []string {
	return []string{
		fmt.Sprintf("strategy: %s", spec.Strategy),
		fmt.Sprintf("title:    %s", spec.Title),
		fmt.Sprintf("command:  %s", spec.Command),
		fmt.Sprintf("program:  %s", spec.Program),
		fmt.Sprintf("args:     %s", strings.Join(spec.Args, " ")),
	}
}
