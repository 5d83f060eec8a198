package session

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/vuul/spackle-ssh/internal/color"
	"github.com/vuul/spackle-ssh/internal/logging"
	"github.com/vuul/spackle-ssh/internal/props"
)

// The full set of per-scope keys. Delete removes exactly these.
var sessionKeySuffixes = []string{
	".name", ".hostname", ".port", ".mode",
	".background", ".foreground", ".geometry",
	".scrollback", ".fontsize", ".keypath",
}

// Registry persists sessions to a flat key/value store file, one scope per
// session plus the shared "default" scope. Every mutating operation writes
// the file through immediately.
type Registry struct {
	store *props.Store
	path  string
	log   *logging.Logger
}

// NewRegistry loads the store file at path. A missing file yields an empty
// registry.
func NewRegistry(path string, log *logging.Logger) (*Registry, error) {
	if log == nil {
		log = logging.NewNop()
	}
	store := props.New()
	if err := store.Load(path); err != nil {
		return nil, fmt.Errorf("failed to load session store: %w", err)
	}
	return &Registry{store: store, path: path, log: log}, nil
}

// Names returns the saved session names in sorted order. Names come from the
// stored `.name` values, not from the key prefixes, and empty values are
// skipped.
func (r *Registry) Names() []string {
	var names []string
	for _, key := range r.store.Keys() {
		if !strings.HasSuffix(key, ".name") {
			continue
		}
		if v, _ := r.store.Get(key); v != "" {
			names = append(names, v)
		}
	}
	sort.Strings(names)
	return names
}

// Has reports whether any key exists under the given scope.
func (r *Registry) Has(scope string) bool {
	for _, suffix := range sessionKeySuffixes {
		if _, ok := r.store.Get(scope + suffix); ok {
			return true
		}
	}
	return false
}

// Load merges the stored settings for scope into s. Present, non-empty
// values overwrite the corresponding fields; everything else keeps the
// caller's value. The default scope never contributes name, hostname, port,
// or mode. Stored colors decode with a black fallback, invalid geometry and
// unparseable numerics reset to the built-in defaults, and a missing or
// "default" key path selects the default identity.
func (r *Registry) Load(scope string, s *Session) {
	if scope != DefaultScope {
		if v, ok := r.store.Get(scope + ".name"); ok && v != "" {
			s.Name = v
		}
		if v, ok := r.store.Get(scope + ".hostname"); ok && v != "" {
			s.Hostname = v
		}
		if v, ok := r.store.Get(scope + ".port"); ok && v != "" {
			s.Port = v
		}
		switch v, _ := r.store.Get(scope + ".mode"); v {
		case "ssh", "telnet":
			s.Mode = v
		}
	}

	if v, ok := r.store.Get(scope + ".geometry"); ok && v != "" {
		if ValidGeometry(v) {
			s.Geometry = v
		} else {
			s.Geometry = DefaultGeometry
		}
	}
	if v, ok := r.store.Get(scope + ".scrollback"); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			s.Scrollback = strconv.Itoa(n)
		} else {
			s.Scrollback = strconv.Itoa(DefaultScrollback)
		}
	}
	if v, ok := r.store.Get(scope + ".fontsize"); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			s.FontSize = strconv.Itoa(n)
		} else {
			s.FontSize = strconv.Itoa(DefaultFontSize)
		}
	}

	if v, ok := r.store.Get(scope + ".keypath"); !ok || v == DefaultKeyPath {
		s.KeyPath = DefaultKeyPath
	} else {
		s.KeyPath = v
	}

	if v, ok := r.store.Get(scope + ".background"); ok && v != "" {
		s.Background = r.decodeColor(scope+".background", v)
	}
	if v, ok := r.store.Get(scope + ".foreground"); ok && v != "" {
		s.Foreground = r.decodeColor(scope+".foreground", v)
	}
}

// Save writes all keys for scope and persists the store. Name, Hostname,
// and Port are required.
func (r *Registry) Save(scope string, s Session) error {
	if s.Name == "" {
		return &ValidationError{Field: "name"}
	}
	if s.Hostname == "" {
		return &ValidationError{Field: "hostname"}
	}
	if s.Port == "" {
		return &ValidationError{Field: "port"}
	}

	bg, err := color.HexToSigned(s.Background)
	if err != nil {
		return fmt.Errorf("background color: %w", err)
	}
	fg, err := color.HexToSigned(s.Foreground)
	if err != nil {
		return fmt.Errorf("foreground color: %w", err)
	}

	r.store.Set(scope+".name", s.Name)
	r.store.Set(scope+".hostname", s.Hostname)
	r.store.Set(scope+".mode", s.Mode)
	r.store.Set(scope+".port", s.Port)
	r.store.Set(scope+".background", bg)
	r.store.Set(scope+".foreground", fg)
	r.store.Set(scope+".geometry", s.Geometry)
	r.store.Set(scope+".scrollback", s.Scrollback)
	r.store.Set(scope+".fontsize", s.FontSize)
	r.store.Set(scope+".keypath", keyPathValue(s.KeyPath))

	return r.persist()
}

// SaveDefaults writes the six default-scope appearance keys and persists the
// store. The default scope never stores name, hostname, port, or mode.
func (r *Registry) SaveDefaults(s Session) error {
	bg, err := color.HexToSigned(s.Background)
	if err != nil {
		return fmt.Errorf("background color: %w", err)
	}
	fg, err := color.HexToSigned(s.Foreground)
	if err != nil {
		return fmt.Errorf("foreground color: %w", err)
	}

	r.store.Set(DefaultScope+".background", bg)
	r.store.Set(DefaultScope+".foreground", fg)
	r.store.Set(DefaultScope+".geometry", s.Geometry)
	r.store.Set(DefaultScope+".scrollback", s.Scrollback)
	r.store.Set(DefaultScope+".fontsize", s.FontSize)
	r.store.Set(DefaultScope+".keypath", keyPathValue(s.KeyPath))

	return r.persist()
}

// Delete removes every key for scope and persists the store. Deleting an
// unknown scope rewrites the file unchanged.
func (r *Registry) Delete(scope string) error {
	for _, suffix := range sessionKeySuffixes {
		r.store.Remove(scope + suffix)
	}
	return r.persist()
}

// EnsureDefaults makes the default scope exist. On first run (no default.*
// key in the store) it applies the built-in appearance settings to s and
// writes them out; otherwise it loads the stored defaults into s.
func (r *Registry) EnsureDefaults(s *Session) error {
	for _, key := range r.store.Keys() {
		if strings.HasPrefix(key, DefaultScope+".") {
			r.Load(DefaultScope, s)
			return nil
		}
	}

	d := Defaults()
	s.Background = d.Background
	s.Foreground = d.Foreground
	s.Geometry = d.Geometry
	s.Scrollback = d.Scrollback
	s.FontSize = d.FontSize
	s.KeyPath = d.KeyPath
	return r.SaveDefaults(*s)
}

func (r *Registry) decodeColor(key, stored string) string {
	cr, cg, cb, err := color.RGB(stored)
	if err != nil {
		r.log.Debug("unparseable stored color, using black",
			zap.String("key", key),
			zap.String("value", stored))
		return "#000000"
	}
	return color.Hex(cr, cg, cb)
}

func keyPathValue(p string) string {
	if p == "" {
		return DefaultKeyPath
	}
	return p
}

func (r *Registry) persist() error {
	if err := r.store.Save(r.path); err != nil {
		return fmt.Errorf("failed to write session store: %w", err)
	}
	return nil
}
