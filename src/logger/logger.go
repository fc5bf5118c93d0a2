package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger defines the interface for logging throughout the application.
// Different implementations can be used for different contexts (console, silent, etc.)
type Logger interface {
	Info(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Debug(msg string, args ...interface{})
}

// ConsoleLogger writes human-readable logs to stderr through zerolog.
type ConsoleLogger struct {
	zl zerolog.Logger
}

// NewConsoleLogger creates a logger writing to stderr at the given level
// ("debug", "info", "error", ...). Unknown levels fall back to info.
func NewConsoleLogger(level string) *ConsoleLogger {
	return NewConsoleLoggerTo(os.Stderr, level)
}

// NewConsoleLoggerTo is NewConsoleLogger with an explicit writer.
func NewConsoleLoggerTo(w io.Writer, level string) *ConsoleLogger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen, NoColor: true}
	return &ConsoleLogger{
		zl: zerolog.New(out).Level(lvl).With().Timestamp().Logger(),
	}
}

func (c *ConsoleLogger) Info(msg string, args ...interface{}) {
	c.zl.Info().Msgf(msg, args...)
}

func (c *ConsoleLogger) Error(msg string, args ...interface{}) {
	c.zl.Error().Msgf(msg, args...)
}

func (c *ConsoleLogger) Debug(msg string, args ...interface{}) {
	c.zl.Debug().Msgf(msg, args...)
}

// SilentLogger discards all log messages.
// Used while the picker owns the terminal and when serving MCP over stdio.
type SilentLogger struct{}

func NewSilentLogger() *SilentLogger {
	return &SilentLogger{}
}

func (s *SilentLogger) Info(msg string, args ...interface{})  {}
func (s *SilentLogger) Error(msg string, args ...interface{}) {}
func (s *SilentLogger) Debug(msg string, args ...interface{}) {}
