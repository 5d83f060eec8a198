package props

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

// Store is an in-memory string key/value mapping with the on-disk layout of
// the legacy preferences file: `key=value` lines, `#` comment lines, keys
// written in sorted order. The sort order is part of the persisted format
// (consumers rely on stable diffs), not a cosmetic choice.
//
// Values are stored verbatim. The format has no escaping, so keys and values
// must not contain `=` or newlines; callers are responsible for avoiding
// them. This is a documented limitation of the historical format.
type Store struct {
	values map[string]string
}

// New returns an empty Store.
func New() *Store {
	return &Store{values: make(map[string]string)}
}

// Get returns the value for key and whether it was present.
func (s *Store) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// GetDefault returns the value for key, or fallback when absent.
func (s *Store) GetDefault(key, fallback string) string {
	if v, ok := s.values[key]; ok {
		return v
	}
	return fallback
}

// Set stores value under key, overwriting any previous value.
func (s *Store) Set(key, value string) {
	s.values[key] = value
}

// Remove deletes key. Removing an absent key is a no-op.
func (s *Store) Remove(key string) {
	delete(s.values, key)
}

// Keys returns all keys in ascending lexicographic order.
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of entries.
func (s *Store) Len() int {
	return len(s.values)
}

// Load reads entries from the file at path into the store. Blank lines and
// lines whose first non-whitespace character is '#' are skipped; every other
// line containing '=' is split at the first '=' with both sides trimmed.
// Lines without '=' are ignored. A missing file is an empty store, not an
// error; other read failures propagate.
func (s *Store) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		s.values[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	return nil
}

// Save rewrites the file at path with the full store contents: a '#' header
// line, a '#'-prefixed timestamp line (informational only), then one
// key=value line per entry in sorted key order.
//
// The write is atomic: content goes to a temp file which is fsynced and then
// renamed over the target. Filesystem failures propagate to the caller.
func (s *Store) Save(path string) error {
	var b strings.Builder
	b.WriteString("#\n")
	b.WriteString("#" + time.Now().Format("2006-01-02 15:04:05.000000") + "\n")
	for _, key := range s.Keys() {
		b.WriteString(key)
		b.WriteString("=")
		b.WriteString(s.values[key])
		b.WriteString("\n")
	}

	tmpPath := path + ".tmp"

	// Step 1: Write to temporary file (0600 = owner read/write only)
	if err := os.WriteFile(tmpPath, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	// Step 2: fsync the temp file to ensure data reaches disk before rename.
	// A failure here is not fatal; the atomic rename still provides some
	// safety on its own.
	_ = syncFile(tmpPath)

	// Step 3: Atomic rename (atomic on POSIX systems)
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to finalize save: %w", err)
	}

	return nil
}

// syncFile calls fsync on a file to ensure data is written to disk
func syncFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
