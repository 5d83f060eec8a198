// Package platform is the boundary to the host system: locating client
// binaries, probing the target before launch, and starting the terminal
// process.
package platform

import (
	"errors"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/vuul/spackle-ssh/internal/launch"
	"github.com/vuul/spackle-ssh/internal/logging"
)

// NotFoundError reports a client binary absent from the search path.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found on the system", e.Name)
}

// UnknownHostError reports a hostname that does not resolve.
type UnknownHostError struct {
	Host string
	Err  error
}

func (e *UnknownHostError) Error() string {
	return fmt.Sprintf("unknown host %s", e.Host)
}

func (e *UnknownHostError) Unwrap() error { return e.Err }

// TimeoutError reports a connection probe that did not complete in time.
type TimeoutError struct {
	Addr string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("connection to %s timed out", e.Addr)
}

// UnreachableError reports a resolvable host that did not accept the
// connection.
type UnreachableError struct {
	Addr string
	Err  error
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("cannot reach %s", e.Addr)
}

func (e *UnreachableError) Unwrap() error { return e.Err }

// Launcher is what the CLI needs from the host system. System is the shipped
// implementation; tests substitute their own.
type Launcher interface {
	LocateExecutable(name string) (string, error)
	CheckReachable(host, port string, timeout time.Duration) error
	Spawn(spec launch.Spec) error
}

// System implements Launcher against the real host.
type System struct {
	log *logging.Logger
}

func NewSystem(log *logging.Logger) *System {
	if log == nil {
		log = logging.NewNop()
	}
	return &System{log: log}
}

// LocateExecutable finds name on PATH. On macOS the historical X11 install
// location is also searched, since it is usually not on PATH.
func (s *System) LocateExecutable(name string) (string, error) {
	if path, err := exec.LookPath(name); err == nil {
		return path, nil
	}
	if runtime.GOOS == "darwin" {
		candidate := filepath.Join("/usr/X11/bin", name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() && info.Mode()&0111 != 0 {
			return candidate, nil
		}
	}
	return "", &NotFoundError{Name: name}
}

// CheckReachable resolves host and then probes host:port with a plain TCP
// connect bounded by timeout. The two failure stages return distinct error
// types so the caller can report them separately.
func (s *System) CheckReachable(host, port string, timeout time.Duration) error {
	if _, err := net.LookupHost(host); err != nil {
		return &UnknownHostError{Host: host, Err: err}
	}

	addr := net.JoinHostPort(host, port)
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		var nerr net.Error
		if errors.As(err, &nerr) && nerr.Timeout() {
			return &TimeoutError{Addr: addr}
		}
		return &UnreachableError{Addr: addr, Err: err}
	}
	conn.Close()
	return nil
}

// Spawn starts the terminal process and lets go. Output streams stay
// disconnected and the exit status is never collected; the window belongs to
// the user now.
func (s *System) Spawn(spec launch.Spec) error {
	cmd := exec.Command(spec.Program, spec.Args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", spec.Program, err)
	}
	if err := cmd.Process.Release(); err != nil {
		s.log.Warn("failed to release spawned process", zap.Error(err))
	}
	return nil
}
