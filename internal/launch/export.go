package launch

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// OutputFormat controls which serialization Encode produces.
type OutputFormat string

const (
	FormatYAML OutputFormat = "yaml"
	FormatJSON OutputFormat = "json"
)

// ParseFormat converts a format flag value into an OutputFormat. Empty input
// selects YAML.
func ParseFormat(s string) (OutputFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown output format %q", s)
}

// Encode renders the spec in the requested format, always with a trailing
// newline.
func Encode(s Spec, format OutputFormat) ([]byte, error) {
	switch format {
	case FormatJSON:
		b, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
		return append(b, '\n'), nil
	case FormatYAML, "":
		b, err := yaml.Marshal(s)
		if err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		// Ensure trailing newline for nicer diffs.
		if len(b) == 0 || b[len(b)-1] != '\n' {
			b = append(b, '\n')
		}
		return b, nil
	}
	return nil, fmt.Errorf("unknown output format %q", format)
}

// WriteSpecFile writes the spec to path in the requested format. Parent
// directories are created (0700).
func WriteSpecFile(path string, format OutputFormat, s Spec) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("empty output path")
	}

	b, err := Encode(s, format)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	if err := os.WriteFile(path, b, 0600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
