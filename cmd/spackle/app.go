package main

import (
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/vuul/spackle-ssh/internal/config"
	"github.com/vuul/spackle-ssh/internal/history"
	"github.com/vuul/spackle-ssh/internal/logging"
	"github.com/vuul/spackle-ssh/internal/session"
)

// loadAppConfig returns the effective configuration and a logger at its
// configured level. A broken config file is reported but never fatal; the
// defaults are used instead.
func loadAppConfig() (*config.Config, *logging.Logger) {
	cfg, err := config.Load()
	log := newLogger(cfg.LogLevel)
	if err != nil {
		log.Warn("using default configuration", zap.Error(err))
	}
	return cfg, log
}

func newLogger(level string) *logging.Logger {
	logCfg := logging.DefaultConfig()
	if level != "" {
		logCfg.Level = level
	}
	log, err := logging.New(logCfg)
	if err != nil {
		return logging.NewDefault()
	}
	return log
}

// openRegistry opens the session store named by the configuration.
func openRegistry(cfg *config.Config, log *logging.Logger) (*session.Registry, error) {
	path, err := cfg.StoreFile()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve store path: %w", err)
	}
	return session.NewRegistry(path, log)
}

// openTracker opens the launch history named by the configuration.
func openTracker(cfg *config.Config, log *logging.Logger) (*history.Tracker, error) {
	path, err := cfg.HistoryFile()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve history path: %w", err)
	}
	return history.NewTracker(path, cfg.HistoryLimit, log), nil
}

// loadBaseSession returns the shared defaults merged over the built-ins,
// synthesizing the defaults record on first run.
func loadBaseSession(reg *session.Registry) (session.Session, error) {
	sess := session.Defaults()
	if err := reg.EnsureDefaults(&sess); err != nil {
		return sess, err
	}
	return sess, nil
}

// outputError outputs an error message in the appropriate format
func outputError(jsonMode, quietMode bool, message, code string) {
	if quietMode {
		return
	}
	if jsonMode {
		output, _ := json.MarshalIndent(map[string]interface{}{
			"success": false,
			"error":   message,
			"code":    code,
		}, "", "  ")
		fmt.Println(string(output))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", message)
	}
}

// outputSuccess outputs a success message in the appropriate format
func outputSuccess(jsonMode, quietMode bool, message string, data map[string]interface{}) {
	if quietMode {
		return
	}
	if jsonMode {
		output, _ := json.MarshalIndent(data, "", "  ")
		fmt.Println(string(output))
	} else {
		fmt.Printf("✓ %s\n", message)
	}
}

// outputData prints query results: the data object under --json, the plain
// lines otherwise.
func outputData(jsonMode bool, data interface{}, lines []string) {
	if jsonMode {
		output, _ := json.MarshalIndent(data, "", "  ")
		fmt.Println(string(output))
		return
	}
	for _, line := range lines {
		fmt.Println(line)
	}
}
