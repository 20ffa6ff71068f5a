// Package logging builds the logrus loggers used by both binaries.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// Stderr is the log-file value that selects standard error.
const Stderr = "-"

// DefaultFile returns the TUI log path under the user's state directory.
func DefaultFile() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "pitwall", "pitwall.log")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "pitwall.log")
	}
	return filepath.Join(home, ".local", "state", "pitwall", "pitwall.log")
}

// New returns a logger writing to file at level. The returned closer
// releases the file and is safe to call when output is stderr.
func New(file, level string) (*logrus.Logger, io.Closer, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, nil, err
	}

	var (
		out    io.Writer = os.Stderr
		closer io.Closer = io.NopCloser(nil)
	)
	if file != "" && file != Stderr {
		if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
			return nil, nil, fmt.Errorf("logging: create log dir: %w", err)
		}
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("logging: open %s: %w", file, err)
		}
		out, closer = f, f
	}

	return NewWithWriter(out, lvl), closer, nil
}

// NewWithWriter returns a logger writing to w.
func NewWithWriter(w io.Writer, level logrus.Level) *logrus.Logger {
	return &logrus.Logger{
		Out:   w,
		Hooks: make(logrus.LevelHooks),
		Formatter: &logrus.TextFormatter{
			DisableColors: true,
			FullTimestamp: true,
		},
		Level:    level,
		ExitFunc: os.Exit,
	}
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	return NewWithWriter(io.Discard, logrus.PanicLevel)
}

// ParseLevel accepts debug, info, warn and error; empty means info.
func ParseLevel(s string) (logrus.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return logrus.InfoLevel, nil
	}
	switch s {
	case "debug", "info", "warn", "warning", "error":
		return logrus.ParseLevel(s)
	}
	return 0, fmt.Errorf("logging: unknown level %q", s)
}
