package session

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vuul/spackle-ssh/internal/logging"
)

func newTestRegistry(t *testing.T) (*Registry, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "spackle_2.0")
	r, err := NewRegistry(path, logging.NewNop())
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}
	return r, path
}

func storeContains(t *testing.T, path, line string) bool {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	for _, l := range strings.Split(string(data), "\n") {
		if l == line {
			return true
		}
	}
	return false
}

func TestEnsureDefaultsFirstRun(t *testing.T) {
	r, path := newTestRegistry(t)

	s := Defaults()
	if err := r.EnsureDefaults(&s); err != nil {
		t.Fatalf("EnsureDefaults failed: %v", err)
	}

	if s.Background != "#ffffff" || s.Foreground != "#000000" {
		t.Errorf("Expected built-in colors, got bg=%q fg=%q", s.Background, s.Foreground)
	}
	if s.Geometry != "80x24" || s.Scrollback != "10000" || s.FontSize != "10" || s.KeyPath != "default" {
		t.Errorf("Expected built-in appearance, got %+v", s)
	}

	// The synthesized defaults must be on disk in signed integer form
	for _, want := range []string{
		"default.background=-1",
		"default.foreground=-16777216",
		"default.geometry=80x24",
		"default.scrollback=10000",
		"default.fontsize=10",
		"default.keypath=default",
	} {
		if !storeContains(t, path, want) {
			t.Errorf("Store file missing %q", want)
		}
	}

	// The default scope never stores identity keys
	for _, absent := range []string{"default.name", "default.hostname", "default.port", "default.mode"} {
		data, _ := os.ReadFile(path)
		if strings.Contains(string(data), absent+"=") {
			t.Errorf("Store file should not contain %q", absent)
		}
	}
}

func TestEnsureDefaultsLoadsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spackle_2.0")
	content := "default.background=-65536\ndefault.foreground=-1\ndefault.geometry=132x43\ndefault.scrollback=500\ndefault.fontsize=14\ndefault.keypath=/home/u/.ssh/id_ed25519\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	r, err := NewRegistry(path, logging.NewNop())
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}

	s := Defaults()
	if err := r.EnsureDefaults(&s); err != nil {
		t.Fatalf("EnsureDefaults failed: %v", err)
	}

	if s.Background != "#ff0000" {
		t.Errorf("Expected background #ff0000, got %q", s.Background)
	}
	if s.Foreground != "#ffffff" {
		t.Errorf("Expected foreground #ffffff, got %q", s.Foreground)
	}
	if s.Geometry != "132x43" || s.Scrollback != "500" || s.FontSize != "14" {
		t.Errorf("Unexpected appearance: %+v", s)
	}
	if s.KeyPath != "/home/u/.ssh/id_ed25519" {
		t.Errorf("Expected explicit key path, got %q", s.KeyPath)
	}
}

func TestSaveRequiresIdentityFields(t *testing.T) {
	r, _ := newTestRegistry(t)

	tests := []struct {
		field string
		s     Session
	}{
		{"name", Session{Hostname: "h", Port: "22", Background: "#ffffff", Foreground: "#000000"}},
		{"hostname", Session{Name: "n", Port: "22", Background: "#ffffff", Foreground: "#000000"}},
		{"port", Session{Name: "n", Hostname: "h", Background: "#ffffff", Foreground: "#000000"}},
	}
	for _, tt := range tests {
		err := r.Save(tt.s.Name, tt.s)
		if err == nil {
			t.Errorf("Save with empty %s should fail", tt.field)
			continue
		}
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("Expected ValidationError for empty %s, got %T", tt.field, err)
		} else if ve.Field != tt.field {
			t.Errorf("Expected field %q, got %q", tt.field, ve.Field)
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	r, path := newTestRegistry(t)

	in := Session{
		Name:       "build-box",
		Hostname:   "10.1.2.3",
		Port:       "2222",
		Mode:       "ssh",
		Background: "#ffffff",
		Foreground: "#ff0000",
		Geometry:   "132x24",
		Scrollback: "15000",
		FontSize:   "12",
		KeyPath:    "/home/u/.ssh/id_rsa",
	}
	if err := r.Save(in.Name, in); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if !storeContains(t, path, "build-box.background=-1") {
		t.Error("Background should be stored as -1")
	}
	if !storeContains(t, path, "build-box.foreground=-65536") {
		t.Error("Foreground should be stored as -65536")
	}

	// Reload from disk through a fresh registry
	r2, err := NewRegistry(path, logging.NewNop())
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}
	out := Defaults()
	r2.Load("build-box", &out)

	if out != in {
		t.Errorf("Round trip mismatch:\n got %+v\nwant %+v", out, in)
	}
}

func TestLoadMergeKeepsCallerValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spackle_2.0")
	content := "partial.hostname=db.internal\npartial.mode=rlogin\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	r, err := NewRegistry(path, logging.NewNop())
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}

	s := Defaults()
	s.Name = "kept"
	s.Port = "2022"
	r.Load("partial", &s)

	if s.Hostname != "db.internal" {
		t.Errorf("Expected hostname overwrite, got %q", s.Hostname)
	}
	if s.Name != "kept" || s.Port != "2022" {
		t.Errorf("Absent keys must not clobber caller values: %+v", s)
	}
	if s.Mode != "ssh" {
		t.Errorf("Unknown stored mode must leave caller mode, got %q", s.Mode)
	}
}

func TestLoadDefaultScopeSkipsIdentity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spackle_2.0")
	content := "default.name=bogus\ndefault.hostname=bogus\ndefault.port=9999\ndefault.mode=telnet\ndefault.fontsize=16\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	r, err := NewRegistry(path, logging.NewNop())
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}

	s := Defaults()
	s.Name = "mine"
	s.Hostname = "myhost"
	s.Port = "22"
	r.Load(DefaultScope, &s)

	if s.Name != "mine" || s.Hostname != "myhost" || s.Port != "22" || s.Mode != "ssh" {
		t.Errorf("Default scope must not contribute identity fields: %+v", s)
	}
	if s.FontSize != "16" {
		t.Errorf("Appearance keys still apply for default scope, got fontsize %q", s.FontSize)
	}
}

func TestLoadRepairsBadStoredValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spackle_2.0")
	content := "odd.geometry=200x50\nodd.scrollback=lots\nodd.fontsize=007\nodd.background=notanumber\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	r, err := NewRegistry(path, logging.NewNop())
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}

	s := Defaults()
	s.Geometry = "132x43"
	s.Scrollback = "123"
	r.Load("odd", &s)

	if s.Geometry != "80x24" {
		t.Errorf("Unsupported geometry should reset to 80x24, got %q", s.Geometry)
	}
	if s.Scrollback != "10000" {
		t.Errorf("Unparseable scrollback should reset to 10000, got %q", s.Scrollback)
	}
	if s.FontSize != "7" {
		t.Errorf("Numeric fontsize should be canonicalized, got %q", s.FontSize)
	}
	if s.Background != "#000000" {
		t.Errorf("Unparseable color should fall back to black, got %q", s.Background)
	}
}

func TestLoadKeyPathSentinel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spackle_2.0")
	content := "a.keypath=default\nb.keypath=/keys/b\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	r, err := NewRegistry(path, logging.NewNop())
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}

	s := Session{KeyPath: "/keys/old"}
	r.Load("a", &s)
	if s.KeyPath != "default" {
		t.Errorf("Stored sentinel should select default, got %q", s.KeyPath)
	}

	s = Session{KeyPath: "/keys/old"}
	r.Load("b", &s)
	if s.KeyPath != "/keys/b" {
		t.Errorf("Stored path should be literal, got %q", s.KeyPath)
	}

	// Absent keypath also resets to the sentinel
	s = Session{KeyPath: "/keys/old"}
	r.Load("missing", &s)
	if s.KeyPath != "default" {
		t.Errorf("Absent keypath should select default, got %q", s.KeyPath)
	}
}

func TestDeleteRemovesScope(t *testing.T) {
	r, path := newTestRegistry(t)

	s := Defaults()
	s.Name = "gone"
	s.Hostname = "h"
	s.Port = "22"
	if err := r.Save("gone", s); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if got := r.Names(); len(got) != 1 || got[0] != "gone" {
		t.Fatalf("Expected [gone], got %v", got)
	}

	if err := r.Delete("gone"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if got := r.Names(); len(got) != 0 {
		t.Errorf("Expected no sessions after delete, got %v", got)
	}
	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "gone.") {
		t.Error("Store file should not retain deleted scope keys")
	}

	// Deleting an unknown scope is not an error
	if err := r.Delete("never-existed"); err != nil {
		t.Errorf("Delete of unknown scope failed: %v", err)
	}
}

func TestNamesComeFromValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spackle_2.0")
	content := "zeta.name=zeta\nalpha.name=renamed\nempty.name=\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	r, err := NewRegistry(path, logging.NewNop())
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}

	got := r.Names()
	want := []string{"renamed", "zeta"}
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSaveEmptyKeyPathWritesSentinel(t *testing.T) {
	r, path := newTestRegistry(t)

	s := Defaults()
	s.Name = "n"
	s.Hostname = "h"
	s.Port = "22"
	s.KeyPath = ""
	if err := r.Save("n", s); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !storeContains(t, path, "n.keypath=default") {
		t.Error("Empty key path should be stored as the default sentinel")
	}
}
