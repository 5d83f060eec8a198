package session

import (
	"fmt"
	"strconv"
)

// Scope under which the shared appearance settings live. It never carries
// name/hostname/port/mode keys.
const DefaultScope = "default"

// Built-in appearance defaults, applied on first run and whenever a stored
// numeric value cannot be parsed.
const (
	DefaultBackground = "#ffffff"
	DefaultForeground = "#000000"
	DefaultGeometry   = "80x24"
	DefaultScrollback = 10000
	DefaultFontSize   = 10
	DefaultKeyPath    = "default"
)

// Bounds accepted for the numeric appearance settings.
const (
	MinScrollback = 0
	MaxScrollback = 20000
	MinFontSize   = 6
	MaxFontSize   = 20
)

// GeometryOptions are the terminal sizes a session may use, as cols x rows.
var GeometryOptions = []string{"80x24", "80x43", "132x24", "132x43"}

// Session is one saved connection profile. All fields are strings because
// that is how the preferences file stores them; colors are #rrggbb hex in
// memory and signed integer strings on disk.
type Session struct {
	Name       string
	Hostname   string
	Port       string
	Mode       string // "ssh" or "telnet"
	Background string
	Foreground string
	Geometry   string
	Scrollback string
	FontSize   string
	KeyPath    string // "default" or an explicit identity file path
}

// Defaults returns a session carrying the built-in appearance settings and
// ssh mode. Connection fields are left empty.
func Defaults() Session {
	return Session{
		Mode:       "ssh",
		Background: DefaultBackground,
		Foreground: DefaultForeground,
		Geometry:   DefaultGeometry,
		Scrollback: strconv.Itoa(DefaultScrollback),
		FontSize:   strconv.Itoa(DefaultFontSize),
		KeyPath:    DefaultKeyPath,
	}
}

// ValidGeometry reports whether geo is one of the supported terminal sizes.
func ValidGeometry(geo string) bool {
	for _, opt := range GeometryOptions {
		if geo == opt {
			return true
		}
	}
	return false
}

// ScrollbackLines returns the scrollback setting as an int, falling back to
// the default when the stored string does not parse.
func (s Session) ScrollbackLines() int {
	n, err := strconv.Atoi(s.Scrollback)
	if err != nil {
		return DefaultScrollback
	}
	return n
}

// ExplicitKeyPath returns the identity file path, or "" when the session
// uses the agent default.
func (s Session) ExplicitKeyPath() string {
	if s.KeyPath == DefaultKeyPath {
		return ""
	}
	return s.KeyPath
}

// FontSizePoints returns the font size as an int, falling back to the
// default when the stored string does not parse.
func (s Session) FontSizePoints() int {
	n, err := strconv.Atoi(s.FontSize)
	if err != nil {
		return DefaultFontSize
	}
	return n
}

// ValidationError reports a session that cannot be saved because a required
// field is empty.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("session %s must not be empty", e.Field)
}
