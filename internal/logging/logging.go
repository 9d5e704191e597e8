// Package logging provides leveled diagnostics on stderr, kept apart from
// the item stream written to stdout.
//
// The initial level comes from CALLIOPE_DEBUG (any of 1, true, yes, on) or
// LOG_LEVEL (debug, info, warn, error); SetLevel overrides both.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level is the severity of a log message.
type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return fmt.Sprintf("unknown(%d)", l)
	}
}

// zapLevel maps l onto zap's scale, where debug is -1 and info is 0.
func (l Level) zapLevel() zapcore.Level {
	return zapcore.Level(l) - 1
}

// ParseLevel converts a level name. Unknown names yield ok=false.
func ParseLevel(s string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, true
	case "info":
		return LevelInfo, true
	case "warn", "warning":
		return LevelWarn, true
	case "error":
		return LevelError, true
	}
	return LevelInfo, false
}

var (
	level     = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	levelOnce sync.Once
	logger    atomic.Pointer[zap.SugaredLogger]
)

func init() {
	SetOutput(os.Stderr)
}

func initLevel() {
	levelOnce.Do(func() {
		switch strings.ToLower(os.Getenv("CALLIOPE_DEBUG")) {
		case "1", "true", "yes", "on":
			level.SetLevel(LevelDebug.zapLevel())
			return
		}
		l, ok := ParseLevel(os.Getenv("LOG_LEVEL"))
		if !ok {
			l = LevelInfo
		}
		level.SetLevel(l.zapLevel())
	})
}

// GetLevel returns the current level.
func GetLevel() Level {
	initLevel()
	return Level(level.Level() + 1)
}

// SetLevel replaces the current level.
func SetLevel(l Level) {
	initLevel()
	level.SetLevel(l.zapLevel())
}

// SetOutput redirects log output. Lines carry the level and the message,
// without timestamps.
func SetOutput(w io.Writer) {
	enc := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		LevelKey:         "level",
		NameKey:          "logger",
		MessageKey:       "msg",
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeName:       zapcore.FullNameEncoder,
		ConsoleSeparator: " ",
	})
	core := zapcore.NewCore(enc, zapcore.Lock(zapcore.AddSync(w)), level)
	logger.Store(zap.New(core).Named("calliope").Sugar())
}

// IsDebugEnabled reports whether debug messages are printed.
func IsDebugEnabled() bool {
	return GetLevel() <= LevelDebug
}

func sugar() *zap.SugaredLogger {
	initLevel()
	return logger.Load()
}

// Debug logs a debug message.
func Debug(format string, args ...any) {
	sugar().Debugf(format, args...)
}

// Info logs an info message.
func Info(format string, args ...any) {
	sugar().Infof(format, args...)
}

// Warn logs a warning message.
func Warn(format string, args ...any) {
	sugar().Warnf(format, args...)
}

// Error logs an error message.
func Error(format string, args ...any) {
	sugar().Errorf(format, args...)
}
