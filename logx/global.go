package logx

import (
	"io"
	"os"
	"strings"
)

var defaultLogger = New()

func init() {
	ConfigureFromEnv(defaultLogger, os.Getenv)
}

// ConfigureFromEnv applies LOG_LEVEL, LOG_FORMAT, LOG_COLOR and LOG_CALLER
// using lookup to read variables.
func ConfigureFromEnv(l *Logger, lookup func(string) string) {
	if v := lookup("LOG_LEVEL"); v != "" {
		if level, err := ParseLevel(v); err == nil {
			l.SetLevel(level)
		}
	}

	if v := lookup("LOG_FORMAT"); v != "" {
		switch strings.ToLower(v) {
		case "json":
			l.SetFormat(FormatJSON)
		case "cloudwatch":
			l.SetFormat(FormatCloudWatch)
		default:
			l.SetFormat(FormatConsole)
		}
	}

	if v := lookup("LOG_COLOR"); v != "" {
		l.SetColored(strings.ToLower(v) != "false")
	}

	if v := lookup("LOG_CALLER"); v != "" {
		l.SetShowCaller(strings.ToLower(v) != "false")
	}
}

func SetLevel(level Level)          { defaultLogger.SetLevel(level) }
func SetPrefix(prefix string)       { defaultLogger.SetPrefix(prefix) }
func SetOutput(w io.Writer)         { defaultLogger.SetOutput(w) }
func SetShowCaller(show bool)       { defaultLogger.SetShowCaller(show) }
func SetColored(colored bool)       { defaultLogger.SetColored(colored) }
func SetFormat(format OutputFormat) { defaultLogger.SetFormat(format) }

// GetLogger returns the default logger instance
func GetLogger() *Logger {
	return defaultLogger
}

// With returns a child of the default logger carrying key=value
func With(key string, value any) *Logger {
	return defaultLogger.With(key, value)
}

func Trace(msg string, args ...any) { defaultLogger.Trace(msg, args...) }
func Debug(msg string, args ...any) { defaultLogger.Debug(msg, args...) }
func Info(msg string, args ...any)  { defaultLogger.Info(msg, args...) }
func Warn(msg string, args ...any)  { defaultLogger.Warn(msg, args...) }
func Error(msg string, args ...any) { defaultLogger.Error(msg, args...) }
func Fatal(msg string, args ...any) { defaultLogger.Fatal(msg, args...) }

// DebugStruct logs a value with JSON formatting on the default logger
func DebugStruct(name string, value any) {
	defaultLogger.DebugStruct(name, value)
}

// IsLevelEnabled checks if a level is enabled on the default logger
func IsLevelEnabled(level Level) bool {
	return defaultLogger.IsLevelEnabled(level)
}
