// Package logging configures the process-wide logrus logger.
package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
)

const (
	appDir      = "covidash"
	logFileName = "covidash.log"
)

// ErrLogFile marks a failure to open the TUI log file. Callers may treat
// it as non-fatal; logs are discarded in that case.
var ErrLogFile = errors.New("log file unavailable")

// Options selects where logs go and how verbose they are.
type Options struct {
	// Level is a logrus level name; empty means info.
	Level string

	// File overrides the log file used in TUI mode.
	File string

	// TUI routes output to a file so it never draws over the alt screen.
	TUI bool
}

// DefaultFile returns the log file used in TUI mode when none is configured.
func DefaultFile() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("logging: unable to determine cache directory: %w", err)
	}
	return filepath.Join(base, appDir, logFileName), nil
}

// Setup configures the standard logger. The returned closer releases the
// log file, if one was opened, and is always safe to call.
func Setup(opts Options) (io.Closer, error) {
	if opts.TUI {
		// Nothing may reach the terminal once the alt screen is up.
		log.SetOutput(io.Discard)
	}

	level := log.InfoLevel
	if name := strings.TrimSpace(opts.Level); name != "" {
		parsed, err := log.ParseLevel(name)
		if err != nil {
			return nopCloser{}, fmt.Errorf("logging: %w", err)
		}
		level = parsed
	}
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	if !opts.TUI {
		log.SetOutput(os.Stderr)
		return nopCloser{}, nil
	}

	path := opts.File
	if path == "" {
		var err error
		path, err = DefaultFile()
		if err != nil {
			return nopCloser{}, fmt.Errorf("%w: %v", ErrLogFile, err)
		}
	}

	f, err := openLogFile(path)
	if err != nil {
		return nopCloser{}, fmt.Errorf("%w: %v", ErrLogFile, err)
	}
	log.SetFormatter(&log.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	log.SetOutput(f)
	return f, nil
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("logging: failed to create directory for %s: %w", path, err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logging: failed to open %s: %w", path, err)
	}
	return f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
