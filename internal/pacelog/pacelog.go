// Package pacelog implements pace's structured logger: a level-filtered
// wrapper over the standard library's *log.Logger with a component tag
// and key=value fields, adapted from the teacher's pkg/logger/logger.go.
package pacelog

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"
)

// Level is a logging severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a case-insensitive string (e.g. from config or an
// env var) to a Level, defaulting to LevelInfo on anything unrecognized.
func ParseLevel(s string) Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return LevelDebug
	case "INFO":
		return LevelInfo
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger is a component-tagged, level-filtered logger.
type Logger struct {
	component string
	level     Level
	out       *log.Logger
}

// New constructs a Logger that writes to w, tagging every line with
// component and filtering anything below level.
func New(component string, level Level, w io.Writer) *Logger {
	return &Logger{
		component: component,
		level:     level,
		out:       log.New(w, "", 0),
	}
}

// Default constructs a Logger writing to stderr at level, the
// conventional choice for a CLI tool whose stdout carries command
// output.
func Default(component string, level Level) *Logger {
	return New(component, level, os.Stderr)
}

// With returns a Logger for a sub-component, sharing the parent's level
// and writer, for tagging log lines per package (e.g. "facade",
// "storage/file").
func (l *Logger) With(component string) *Logger {
	return &Logger{component: l.component + "." + component, level: l.level, out: l.out}
}

func (l *Logger) format(level Level, msg string, fields ...interface{}) string {
	timestamp := time.Now().Format(time.RFC3339)

	var b strings.Builder
	if len(fields) > 0 {
		b.WriteString(" |")
		for i := 0; i+1 < len(fields); i += 2 {
			fmt.Fprintf(&b, " %s=%v", fields[i], fields[i+1])
		}
	}
	return fmt.Sprintf("[%s] %s [%s] %s%s", timestamp, level, l.component, msg, b.String())
}

func (l *Logger) log(level Level, msg string, fields ...interface{}) {
	if level < l.level {
		return
	}
	l.out.Println(l.format(level, msg, fields...))
}

func (l *Logger) Debug(msg string, fields ...interface{}) { l.log(LevelDebug, msg, fields...) }
func (l *Logger) Info(msg string, fields ...interface{})  { l.log(LevelInfo, msg, fields...) }
func (l *Logger) Warn(msg string, fields ...interface{})  { l.log(LevelWarn, msg, fields...) }
func (l *Logger) Error(msg string, fields ...interface{}) { l.log(LevelError, msg, fields...) }
