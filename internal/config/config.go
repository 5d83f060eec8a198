// Package config loads the application configuration: TOML file first,
// SPACKLE_* environment variables on top.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"

	"github.com/vuul/spackle-ssh/internal/history"
)

const (
	// ConfigDirName is the directory under the home dir holding app state.
	ConfigDirName = ".spackle"
	// ConfigFileName is the TOML config file inside ConfigDirName.
	ConfigFileName = "config.toml"
	// EnvPrefix prefixes environment overrides (SPACKLE_STORE_PATH, ...).
	EnvPrefix = "spackle"
)

// Config is the application configuration. Precedence is environment over
// file over built-in defaults.
type Config struct {
	// StorePath is the session store file. The historical location is
	// ~/.spackle_2.0 and existing files there keep working.
	StorePath string `toml:"store_path" envconfig:"STORE_PATH"`

	// HistoryPath is the launch history JSON file.
	HistoryPath string `toml:"history_path" envconfig:"HISTORY_PATH"`

	// HistoryLimit caps how many launch records are retained.
	HistoryLimit int `toml:"history_limit" envconfig:"HISTORY_LIMIT"`

	// SSHBinary and TelnetBinary name the client programs to locate on
	// PATH. TerminalBinary is the emulator used outside macOS.
	SSHBinary      string `toml:"ssh_binary" envconfig:"SSH_BINARY"`
	TelnetBinary   string `toml:"telnet_binary" envconfig:"TELNET_BINARY"`
	TerminalBinary string `toml:"terminal_binary" envconfig:"TERMINAL_BINARY"`

	// ProbeTimeoutSeconds bounds the pre-launch reachability probe.
	ProbeTimeoutSeconds int `toml:"probe_timeout_seconds" envconfig:"PROBE_TIMEOUT"`

	// LogLevel sets the diagnostic level on stderr: debug, info, warn,
	// error.
	LogLevel string `toml:"log_level" envconfig:"LOG_LEVEL"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		StorePath:           "~/.spackle_2.0",
		HistoryPath:         "~/" + ConfigDirName + "/history.json",
		HistoryLimit:        history.DefaultLimit,
		SSHBinary:           "ssh",
		TelnetBinary:        "telnet",
		TerminalBinary:      "xterm",
		ProbeTimeoutSeconds: 5,
		LogLevel:            "warn",
	}
}

// ProbeTimeout returns the probe bound as a duration, falling back to the
// default when the configured value is not positive.
func (c Config) ProbeTimeout() time.Duration {
	if c.ProbeTimeoutSeconds <= 0 {
		return time.Duration(Default().ProbeTimeoutSeconds) * time.Second
	}
	return time.Duration(c.ProbeTimeoutSeconds) * time.Second
}

// StoreFile returns StorePath with a leading tilde expanded.
func (c Config) StoreFile() (string, error) {
	return expandTilde(c.StorePath)
}

// HistoryFile returns HistoryPath with a leading tilde expanded.
func (c Config) HistoryFile() (string, error) {
	return expandTilde(c.HistoryPath)
}

var (
	cache   *Config
	cacheMu sync.RWMutex
)

// Path returns the config file location. SPACKLE_CONFIG_DIR overrides the
// directory, mainly for tests and side-by-side setups.
func Path() (string, error) {
	if dir := os.Getenv("SPACKLE_CONFIG_DIR"); dir != "" {
		return filepath.Join(dir, ConfigFileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ConfigDirName, ConfigFileName), nil
}

// Load returns the effective configuration. The result is cached; use Reset
// to force a re-read.
func Load() (*Config, error) {
	cacheMu.RLock()
	if cache != nil {
		defer cacheMu.RUnlock()
		return cache, nil
	}
	cacheMu.RUnlock()

	cacheMu.Lock()
	defer cacheMu.Unlock()

	// Double-check after acquiring write lock
	if cache != nil {
		return cache, nil
	}

	cfg := Default()

	configPath, err := Path()
	if err == nil {
		if _, statErr := os.Stat(configPath); statErr == nil {
			if _, decErr := toml.DecodeFile(configPath, &cfg); decErr != nil {
				// Cache the defaults to prevent repeated parse attempts,
				// but surface the error so the caller can report it.
				fallback := Default()
				cache = &fallback
				return cache, fmt.Errorf("config.toml parse error: %w", decErr)
			}
		}
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment overrides: %w", err)
	}

	cache = &cfg
	return cache, nil
}

// Reset clears the cached config so the next Load re-reads file and
// environment.
func Reset() {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	cache = nil
}

// Save writes cfg to the config file and invalidates the cache.
func Save(cfg *Config) error {
	configPath, err := Path()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("# Spackle Configuration\n")
	buf.WriteString("# Edit this file or set SPACKLE_* environment variables\n\n")

	encoder := toml.NewEncoder(&buf)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	tmpPath := configPath + ".tmp"

	// Step 1: Write to temporary file (0600 = owner read/write only)
	if err := os.WriteFile(tmpPath, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	// Step 2: fsync the temp file to ensure data reaches disk before rename.
	// A failure here is not fatal; the atomic rename still provides some
	// safety on its own.
	_ = syncConfigFile(tmpPath)

	// Step 3: Atomic rename (atomic on POSIX systems)
	if err := os.Rename(tmpPath, configPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to finalize config save: %w", err)
	}

	Reset()
	return nil
}

// CreateExample writes a commented example config if none exists.
func CreateExample() error {
	configPath, err := Path()
	if err != nil {
		return err
	}

	// Don't overwrite existing config
	if _, err := os.Stat(configPath); err == nil {
		return nil
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	exampleConfig := `# Spackle Configuration
# This file is loaded on startup. Environment variables with the SPACKLE_
# prefix override any value here (e.g. SPACKLE_STORE_PATH).

# Session store file. The historical location is kept as the default so
# existing preference files keep working.
# store_path = "~/.spackle_2.0"

# Launch history file and how many records to retain.
# history_path = "~/.spackle/history.json"
# history_limit = 200

# Client binaries, located on PATH at launch time. terminal_binary is the
# emulator used outside macOS.
# ssh_binary = "ssh"
# telnet_binary = "telnet"
# terminal_binary = "xterm"

# Seconds to wait for the pre-launch port probe.
# probe_timeout_seconds = 5

# Diagnostic level on stderr: debug, info, warn, error.
# log_level = "warn"
`

	return os.WriteFile(configPath, []byte(exampleConfig), 0600)
}

// expandTilde expands a leading ~ to the home directory. The expansion
// refuses paths that would escape the home directory.
func expandTilde(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	if !strings.HasPrefix(path, "~/") {
		// ~user form is not supported
		return "", fmt.Errorf("unsupported path format: %s", path)
	}

	expanded := filepath.Join(home, path[2:])
	cleanHome := filepath.Clean(home)
	if expanded != cleanHome && !strings.HasPrefix(expanded, cleanHome+string(filepath.Separator)) {
		return "", fmt.Errorf("path escapes home directory: %s", path)
	}
	return expanded, nil
}

// syncConfigFile calls fsync on a file to ensure data is written to disk
func syncConfigFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
