package launch

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exportSpec() Spec {
	return Spec{
		Strategy: EmulatorHost,
		Title:    "alice@db.internal",
		Command:  "/usr/bin/ssh -p 22 alice@db.internal",
		Program:  "/usr/bin/xterm",
		Args:     []string{"-T", "alice@db.internal", "-e", "/usr/bin/ssh -p 22 alice@db.internal"},
	}
}

func TestEncode_YAML(t *testing.T) {
	b, err := Encode(exportSpec(), FormatYAML)
	require.NoError(t, err)

	out := string(b)
	assert.Contains(t, out, "strategy: emulator")
	assert.Contains(t, out, "title: alice@db.internal")
	assert.Contains(t, out, "program: /usr/bin/xterm")
	assert.True(t, strings.HasSuffix(out, "\n"), "Encoded output must end with a newline")
}

func TestEncode_JSONRoundTrip(t *testing.T) {
	in := exportSpec()
	b, err := Encode(in, FormatJSON)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(b), "\n"))

	var out Spec
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, in, out)
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"", "yaml", "yml", "YAML"} {
		got, err := ParseFormat(s)
		require.NoError(t, err, "ParseFormat(%q)", s)
		assert.Equal(t, FormatYAML, got)
	}

	got, err := ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, got)

	_, err = ParseFormat("toml")
	assert.Error(t, err)
}

func TestWriteSpecFile_CreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exports", "nested", "launch.yaml")
	require.NoError(t, WriteSpecFile(path, FormatYAML, exportSpec()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	want, err := Encode(exportSpec(), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, want, data)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestWriteSpecFile_RejectsEmptyPath(t *testing.T) {
	assert.Error(t, WriteSpecFile("   ", FormatYAML, exportSpec()))
}
