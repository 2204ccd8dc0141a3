// Package logging configures the global zerolog logger used by the
// pipeline and the CLI.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

const timeFormat = "2006-01-02 15:04:05.000"

var mu sync.Mutex

// Config selects log level and destinations.
type Config struct {
	Level string
	// File, when set, receives JSON log lines through a rotating writer.
	File       string
	MaxSizeMB  int
	MaxBackups int
	// Console is the human-readable destination; nil means stderr.
	Console io.Writer
	NoColor bool
}

// consoleWriter reports len(p) back to zerolog: the console output is a
// reformatted line of a different length, which zerolog would otherwise
// treat as a short write.
type consoleWriter struct {
	zerolog.ConsoleWriter
}

func (c consoleWriter) WriteLevel(_ zerolog.Level, p []byte) (int, error) {
	_, err := c.ConsoleWriter.Write(p)
	return len(p), err
}

// Init replaces the global logger. It returns a close function for the
// log file, which is a no-op when logging only to the console.
func Init(cfg Config) (closeFn func() error, err error) {
	out := cfg.Console
	if out == nil {
		out = os.Stderr
	}

	writers := []io.Writer{consoleWriter{zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: timeFormat,
		NoColor:    cfg.NoColor,
	}}}

	closeFn = func() error { return nil }
	if cfg.File != "" {
		lj, err := fileWriter(cfg)
		if err != nil {
			return nil, err
		}
		writers = append(writers, lj)
		closeFn = lj.Close
	}

	mu.Lock()
	defer mu.Unlock()

	zerolog.TimeFieldFormat = timeFormat
	log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().
		Timestamp().
		Logger()
	SetLevel(cfg.Level)
	return closeFn, nil
}

func fileWriter(cfg Config) (*lumberjack.Logger, error) {
	if dir := filepath.Dir(cfg.File); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
	}
	size := cfg.MaxSizeMB
	if size <= 0 {
		size = 10
	}
	return &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    size,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     30,
	}, nil
}

// ParseLevel maps a level name to a zerolog level. Unknown or empty names
// yield info.
func ParseLevel(level string) zerolog.Level {
	l, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || l == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return l
}

// SetLevel sets the global log level by name.
func SetLevel(level string) {
	zerolog.SetGlobalLevel(ParseLevel(level))
}

// Timed logs how long fn took at debug level under the given message.
func Timed(msg string, fn func() error) error {
	start := time.Now()
	err := fn()
	ev := log.Debug()
	if err != nil {
		ev = log.Warn().Err(err)
	}
	ev.Dur("elapsed", time.Since(start)).Msg(msg)
	return err
}
