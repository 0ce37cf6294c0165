// Package corlog is a thin leveled wrapper over the standard library's
// log.Logger. No complete repo in the retrieval pack pulls in a
// structured logging library (zerolog/zap/logrus); the teacher
// (sixy6e/go-gsf) logs with plain log.Println/log.Fatal throughout
// cmd/main.go, so corider carries that same convention rather than
// introducing a dependency the corpus never reaches for.
package corlog

import (
	"log"
	"os"
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
		return "?"
	}
}

// Logger wraps *log.Logger with a minimum level filter.
type Logger struct {
	out *log.Logger
	min Level
}

// New returns a Logger writing to os.Stderr with the standard log
// flags, at the given minimum level.
func New(min Level) *Logger {
	return &Logger{out: log.New(os.Stderr, "", log.LstdFlags), min: min}
}

func (l *Logger) logf(level Level, format string, args ...interface{}) {
	if l == nil || level < l.min {
		return
	}
	l.out.Printf("["+level.String()+"] "+format, args...)
}

func (l *Logger) Debugf(format string, args ...interface{}) { l.logf(LevelDebug, format, args...) }
func (l *Logger) Infof(format string, args ...interface{})  { l.logf(LevelInfo, format, args...) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.logf(LevelWarn, format, args...) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.logf(LevelError, format, args...) }

// Default is a package-level Logger at LevelInfo, for callers (mainly
// cmd/corider) that don't need to thread a *Logger through explicitly.
var Default = New(LevelInfo)
