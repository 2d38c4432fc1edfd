package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"
)

// Level is the minimum severity a Logger prints
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps a LOG_LEVEL string to a Level, defaulting to info
func ParseLevel(s string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, true
	case "info", "":
		return LevelInfo, true
	case "warn", "warning":
		return LevelWarn, true
	case "error":
		return LevelError, true
	}
	return LevelInfo, false
}

// Logger wraps standard log with level-based output
type Logger struct {
	level Level
	info  *log.Logger
	warn  *log.Logger
	error *log.Logger
	debug *log.Logger
}

// NewLogger creates a logger writing to stdout, errors to stderr
func NewLogger(level string) *Logger {
	return NewLoggerTo(os.Stdout, os.Stderr, level)
}

// NewLoggerTo creates a logger with explicit destinations
func NewLoggerTo(out, errOut io.Writer, level string) *Logger {
	lvl, ok := ParseLevel(level)
	flags := log.Lmsgprefix
	l := &Logger{
		level: lvl,
		info:  log.New(out, "[INFO]  ", flags),
		warn:  log.New(out, "[WARN]  ", flags),
		error: log.New(errOut, "[ERROR] ", flags),
		debug: log.New(out, "[DEBUG] ", flags),
	}
	if !ok {
		l.Warn("Invalid log level %q, defaulting to info", level)
	}
	return l
}

// Discard returns a logger that prints nothing
func Discard() *Logger {
	return NewLoggerTo(io.Discard, io.Discard, "error")
}

func (l *Logger) prefix() string {
	return fmt.Sprintf(" %s ", time.Now().Format("15:04:05"))
}

func (l *Logger) Info(msg string, args ...interface{}) {
	if l.level <= LevelInfo {
		l.info.Printf(l.prefix()+msg, args...)
	}
}

func (l *Logger) Warn(msg string, args ...interface{}) {
	if l.level <= LevelWarn {
		l.warn.Printf(l.prefix()+msg, args...)
	}
}

func (l *Logger) Error(msg string, args ...interface{}) {
	l.error.Printf(l.prefix()+msg, args...)
}

func (l *Logger) Debug(msg string, args ...interface{}) {
	if l.level <= LevelDebug {
		l.debug.Printf(l.prefix()+msg, args...)
	}
}
