package props

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFile(t *testing.T) {
	s := New()
	err := s.Load(filepath.Join(t.TempDir(), "nope.properties"))
	if err != nil {
		t.Fatalf("Load of missing file should not error, got %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("Expected empty store, got %d entries", s.Len())
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs")

	s := New()
	s.Set("work.hostname", "10.0.0.5")
	s.Set("work.port", "22")
	s.Set("default.background", "-1")

	if err := s.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded := New()
	if err := loaded.Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Len() != 3 {
		t.Fatalf("Expected 3 entries after round trip, got %d", loaded.Len())
	}
	for _, key := range s.Keys() {
		want, _ := s.Get(key)
		got, ok := loaded.Get(key)
		if !ok {
			t.Errorf("Key %q missing after round trip", key)
			continue
		}
		if got != want {
			t.Errorf("Key %q: expected %q, got %q", key, want, got)
		}
	}
}

func TestSaveWritesSortedKeysWithHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs")

	s := New()
	s.Set("zeta.name", "zeta")
	s.Set("alpha.name", "alpha")
	s.Set("mid.name", "mid")

	if err := s.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")

	if len(lines) != 5 {
		t.Fatalf("Expected 5 lines (2 header + 3 entries), got %d: %q", len(lines), lines)
	}
	if lines[0] != "#" {
		t.Errorf("First line should be bare '#', got %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "#") || len(lines[1]) < 2 {
		t.Errorf("Second line should be a '#'-prefixed timestamp, got %q", lines[1])
	}
	want := []string{"alpha.name=alpha", "mid.name=mid", "zeta.name=zeta"}
	for i, w := range want {
		if lines[2+i] != w {
			t.Errorf("Entry line %d: expected %q, got %q", i, w, lines[2+i])
		}
	}
}

func TestLoadSkipsCommentsAndBlanks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs")
	content := "#\n#2026-08-22 10:00:00.000000\n\n   \n# a comment\n   # indented comment\nnoequals\nwork.port=22\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	s := New()
	if err := s.Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Len() != 1 {
		t.Errorf("Expected 1 entry, got %d (keys: %v)", s.Len(), s.Keys())
	}
	if got, _ := s.Get("work.port"); got != "22" {
		t.Errorf("Expected work.port=22, got %q", got)
	}
}

func TestLoadSplitsOnFirstEqualsAndTrims(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs")
	content := "  spaced.key  =  value with = sign  \n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	s := New()
	if err := s.Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	got, ok := s.Get("spaced.key")
	if !ok {
		t.Fatalf("Expected spaced.key to be present, keys: %v", s.Keys())
	}
	if got != "value with = sign" {
		t.Errorf("Expected value split at first '=' and trimmed, got %q", got)
	}
}

func TestSetOverwritesAndRemoveIsIdempotent(t *testing.T) {
	s := New()
	s.Set("k", "one")
	s.Set("k", "two")
	if got, _ := s.Get("k"); got != "two" {
		t.Errorf("Expected last write to win, got %q", got)
	}

	s.Remove("k")
	if _, ok := s.Get("k"); ok {
		t.Error("Expected key to be removed")
	}
	// Removing again must not panic or error
	s.Remove("k")
	s.Remove("never-existed")
}

func TestGetDefault(t *testing.T) {
	s := New()
	s.Set("present", "yes")
	if got := s.GetDefault("present", "no"); got != "yes" {
		t.Errorf("Expected stored value, got %q", got)
	}
	if got := s.GetDefault("absent", "no"); got != "no" {
		t.Errorf("Expected fallback value, got %q", got)
	}
}

func TestSaveOverwritesPreviousContents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs")

	first := New()
	first.Set("old.key", "old")
	if err := first.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	second := New()
	second.Set("new.key", "new")
	if err := second.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded := New()
	if err := loaded.Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, ok := loaded.Get("old.key"); ok {
		t.Error("Expected old contents to be fully replaced")
	}
	if got, _ := loaded.Get("new.key"); got != "new" {
		t.Errorf("Expected new.key=new, got %q", got)
	}
}
