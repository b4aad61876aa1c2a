// Package logger provides the process-wide structured logger. It wraps
// log/slog with a dynamically adjustable level so the MCP logging/setLevel
// request can retune verbosity at runtime.
package logger

import (
	"io"
	"log/slog"
	"strings"
)

// ValidLogLevels are the accepted values for the log level setting.
var ValidLogLevels = []string{"debug", "info", "notice", "warning", "error", "critical", "alert", "emergency"}

// ValidLogFormats are the accepted values for the log format setting.
var ValidLogFormats = []string{"text", "json"}

// Service holds the logger and its dynamic level controller.
type Service struct {
	*slog.Logger
	level *slog.LevelVar
}

// New creates a logging service writing to the given writer. The format is
// "json" or "text" (the default for anything else).
func New(level, format string, writer io.Writer) *Service {
	levelVar := &slog.LevelVar{}
	levelVar.Set(parseLevel(level))

	opts := &slog.HandlerOptions{
		Level:       levelVar,
		ReplaceAttr: replaceAttr,
	}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "json":
		handler = slog.NewJSONHandler(writer, opts)
	default:
		handler = slog.NewTextHandler(writer, opts)
	}

	return &Service{
		Logger: slog.New(handler),
		level:  levelVar,
	}
}

// SetLevel dynamically changes the logging level.
func (s *Service) SetLevel(level string) {
	s.level.Set(parseLevel(level))
}

// Extra severities covering the MCP logging level set.
const (
	LevelNotice    = slog.Level(2)
	LevelCritical  = slog.Level(10)
	LevelAlert     = slog.Level(12)
	LevelEmergency = slog.Level(16)
)

// parseLevel converts a level name to a slog.Level, defaulting to info.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "notice":
		return LevelNotice
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "critical":
		return LevelCritical
	case "alert":
		return LevelAlert
	case "emergency":
		return LevelEmergency
	default:
		return slog.LevelInfo
	}
}

// replaceAttr renames the custom severities so they print by name instead
// of slog's numeric offsets (e.g. "NOTICE" rather than "INFO+2").
func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey {
		return a
	}
	level, ok := a.Value.Any().(slog.Level)
	if !ok {
		return a
	}
	switch level {
	case LevelNotice:
		a.Value = slog.StringValue("NOTICE")
	case LevelCritical:
		a.Value = slog.StringValue("CRITICAL")
	case LevelAlert:
		a.Value = slog.StringValue("ALERT")
	case LevelEmergency:
		a.Value = slog.StringValue("EMERGENCY")
	}
	return a
}
