// Package logging provides leveled diagnostic output on stderr.
//
// Standard output is reserved for the preprocessor protocol, so every
// diagnostic goes to stderr regardless of level.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// Level selects the minimum severity that is written.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarning
	LevelError
	LevelNone
)

var (
	debug   *log.Logger
	info    *log.Logger
	warning *log.Logger
	errlog  *log.Logger
)

func init() {
	flags := log.Ldate | log.Ltime | log.LUTC
	debug = log.New(io.Discard, "D ", flags)
	info = log.New(io.Discard, "I ", flags)
	warning = log.New(io.Discard, "W ", flags)
	errlog = log.New(io.Discard, "E ", flags)

	SetLevel(LevelWarning)
}

// SetLevel enables output for the given level and everything above it.
func SetLevel(l Level) {
	out := func(min Level) io.Writer {
		if l <= min {
			return os.Stderr
		}
		return io.Discard
	}
	debug.SetOutput(out(LevelDebug))
	info.SetOutput(out(LevelInfo))
	warning.SetOutput(out(LevelWarning))
	errlog.SetOutput(out(LevelError))
}

// ParseLevel converts a level name ("debug", "info", "warning", "error",
// "none") to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warning", "warn":
		return LevelWarning, nil
	case "error":
		return LevelError, nil
	case "none", "off":
		return LevelNone, nil
	default:
		return LevelWarning, fmt.Errorf("unknown log level %q", s)
	}
}

func Debug(msg string, v ...interface{}) {
	debug.Printf(msg, v...)
}

func Info(msg string, v ...interface{}) {
	info.Printf(msg, v...)
}

func Warning(msg string, v ...interface{}) {
	warning.Printf(msg, v...)
}

func Error(msg string, v ...interface{}) {
	errlog.Printf(msg, v...)
}
