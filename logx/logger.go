package logx

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"
)

// OutputFormat defines the log output format
type OutputFormat string

const (
	FormatConsole    OutputFormat = "console"
	FormatCloudWatch OutputFormat = "cloudwatch"
	FormatJSON       OutputFormat = "json"
)

// Logger is a leveled logger. A Logger is safe for concurrent use; child
// loggers created with With share the parent's output and settings lock.
type Logger struct {
	mu         *sync.Mutex
	level      Level
	out        io.Writer
	prefix     string
	showCaller bool
	colored    bool
	format     OutputFormat
	fields     map[string]any
}

// New creates a logger writing console output at INFO to stdout
func New() *Logger {
	return &Logger{
		mu:         &sync.Mutex{},
		level:      InfoLevel,
		out:        os.Stdout,
		showCaller: true,
		colored:    true,
		format:     FormatConsole,
	}
}

func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out = w
}

func (l *Logger) SetPrefix(prefix string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prefix = prefix
}

func (l *Logger) SetShowCaller(show bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.showCaller = show
}

func (l *Logger) SetColored(colored bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.colored = colored
}

// SetFormat sets the output format. CloudWatch and JSON output are never colored.
func (l *Logger) SetFormat(format OutputFormat) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.format = format
	if format != FormatConsole {
		l.colored = false
	}
}

// IsLevelEnabled reports whether messages at level are written
func (l *Logger) IsLevelEnabled(level Level) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return level >= l.level && level < OffLevel
}

// With returns a child logger that adds key=value to every entry
func (l *Logger) With(key string, value any) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()

	child := *l
	child.fields = make(map[string]any, len(l.fields)+1)
	for k, v := range l.fields {
		child.fields[k] = v
	}
	child.fields[key] = value
	return &child
}

// findCaller returns the first frame outside this package
func findCaller() string {
	for i := 2; i < 15; i++ {
		_, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}
		if filepath.Base(filepath.Dir(file)) == "logx" && !strings.HasSuffix(file, "_test.go") {
			continue
		}
		return fmt.Sprintf("%s:%d", filepath.Base(file), line)
	}
	return ""
}

func (l *Logger) log(level Level, msg string, args ...any) {
	if !l.IsLevelEnabled(level) {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if level <= DebugLevel {
		formatted := make([]any, len(args))
		for i, arg := range args {
			formatted[i] = formatValue(arg, l.format == FormatConsole)
		}
		args = formatted
	}
	message := Redact(fmt.Sprintf(msg, args...))

	var caller string
	if l.showCaller {
		caller = findCaller()
	}

	switch l.format {
	case FormatJSON:
		entry := map[string]any{
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"level":     level.String(),
			"message":   message,
		}
		if l.prefix != "" {
			entry["prefix"] = l.prefix
		}
		if caller != "" {
			entry["caller"] = caller
		}
		if len(l.fields) > 0 {
			entry["fields"] = l.fields
		}
		if data, err := json.Marshal(entry); err == nil {
			fmt.Fprintln(l.out, string(data))
		}
	case FormatCloudWatch:
		l.writeLine(time.Now().UTC().Format("2006-01-02T15:04:05.000Z"), level.String(), caller, message)
	default:
		l.writeLine(time.Now().Format("2006-01-02 15:04:05"), level.paint(l.colored), caller, message)
	}
}

func (l *Logger) writeLine(timestamp, level, caller, message string) {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] ", timestamp)
	if l.prefix != "" {
		b.WriteString(l.prefix + " ")
	}
	fmt.Fprintf(&b, "[%s]", level)
	if caller != "" {
		b.WriteString(" " + caller)
	}
	b.WriteString(": " + message)

	if len(l.fields) > 0 {
		keys := make([]string, 0, len(l.fields))
		for k := range l.fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%v", k, l.fields[k])
		}
	}
	fmt.Fprintln(l.out, b.String())
}

func (l *Logger) Trace(msg string, args ...any) { l.log(TraceLevel, msg, args...) }
func (l *Logger) Debug(msg string, args ...any) { l.log(DebugLevel, msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.log(InfoLevel, msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.log(WarnLevel, msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.log(ErrorLevel, msg, args...) }

// Fatal logs at error level and exits with status 1
func (l *Logger) Fatal(msg string, args ...any) {
	l.log(ErrorLevel, msg, args...)
	os.Exit(1)
}

// DebugStruct logs name = value with value rendered as JSON
func (l *Logger) DebugStruct(name string, value any) {
	l.log(DebugLevel, "%s = %v", name, value)
}
