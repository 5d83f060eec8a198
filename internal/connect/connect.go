// Package connect resolves the user-entered target into the pieces a launch
// needs: username, hostname, port, and the window title.
package connect

import (
	"fmt"
	"os"
	"strings"
)

const (
	ModeSSH    = "ssh"
	ModeTelnet = "telnet"
)

// Spec is a fully resolved connection target.
type Spec struct {
	User    string
	Host    string
	Port    string
	Mode    string
	Title   string
	KeyPath string // explicit identity file, empty for the default
}

// Target renders the spec as user@host.
func (s Spec) Target() string {
	return s.User + "@" + s.Host
}

// FormatError reports a target that looks like user@host but does not split
// into exactly two non-empty parts.
type FormatError struct {
	Raw string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid hostname format %q", e.Raw)
}

// ValidationError reports a required connection field that is missing.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// UserSource supplies the username when the target does not carry one.
type UserSource interface {
	Username() string
}

// EnvUserSource resolves the username from the environment, USER first and
// LOGNAME as the fallback. A set-but-empty USER wins over LOGNAME, matching
// historical behavior.
type EnvUserSource struct{}

func (EnvUserSource) Username() string {
	if v, ok := os.LookupEnv("USER"); ok {
		return v
	}
	if v, ok := os.LookupEnv("LOGNAME"); ok {
		return v
	}
	return ""
}

// DefaultPort returns the conventional port for mode, as a prefill for
// callers that did not specify one.
func DefaultPort(mode string) string {
	switch mode {
	case ModeSSH:
		return "22"
	case ModeTelnet:
		return "23"
	}
	return ""
}

// Resolve parses raw into a Spec. A target containing '@' must split into
// exactly two non-empty parts and keeps the raw text as the title; a bare
// hostname takes its user from users and titles itself user@host. Telnet
// targets are retitled "telnet: <host>" regardless of form. The port must be
// non-empty but is not checked for numeric form here.
func Resolve(raw, mode, port, keyPath string, users UserSource) (Spec, error) {
	if users == nil {
		users = EnvUserSource{}
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Spec{}, &ValidationError{Msg: "no hostname specified"}
	}

	spec := Spec{
		Mode:    mode,
		Port:    strings.TrimSpace(port),
		KeyPath: keyPath,
	}

	if strings.Contains(raw, "@") {
		spec.Title = raw
		parts := strings.Split(raw, "@")
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return Spec{}, &FormatError{Raw: raw}
		}
		spec.User = parts[0]
		spec.Host = parts[1]
	} else {
		spec.User = users.Username()
		spec.Host = raw
		spec.Title = spec.User + "@" + spec.Host
	}

	if mode == ModeTelnet {
		spec.Title = "telnet: " + spec.Host
	}

	if spec.Port == "" {
		return Spec{}, &ValidationError{Msg: "no port specified"}
	}
	return spec, nil
}
