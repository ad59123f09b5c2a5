// Package logging provides the leveled key/value logger used by ralph-loop.
// Diagnostics go to stderr so they never interleave with the agent output
// that the loop passes through to stdout.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Level represents a log level.
type Level int

const (
	// LevelDebug is for verbose debugging information.
	LevelDebug Level = iota
	// LevelInfo is for general informational messages.
	LevelInfo
	// LevelWarn is for recoverable problems.
	LevelWarn
	// LevelError is for failures that end the run.
	LevelError
)

var levelNames = map[Level]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

var levelStyles = map[Level]lipgloss.Style{
	LevelDebug: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	LevelInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	LevelWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
	LevelError: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
}

// String returns the level name.
func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("LEVEL(%d)", int(l))
}

// ParseLevel converts a level name (case-insensitive) into a Level.
func ParseLevel(name string) (Level, error) {
	for level, n := range levelNames {
		if strings.EqualFold(n, name) {
			return level, nil
		}
	}
	return LevelWarn, fmt.Errorf("unknown log level %q", name)
}

// Logger provides leveled logging with context fields.
type Logger struct {
	mu       sync.RWMutex
	minLevel Level
	color    bool
	fields   map[string]interface{}
	output   *log.Logger
}

var defaultLogger = New()

// New creates a Logger writing to stderr at warn level.
// Level names are coloured when stderr is a terminal.
func New() *Logger {
	return &Logger{
		minLevel: LevelWarn,
		color:    isatty.IsTerminal(os.Stderr.Fd()),
		fields:   make(map[string]interface{}),
		output:   log.New(os.Stderr, "", log.LstdFlags),
	}
}

// NewWriter creates an uncoloured Logger writing to w without timestamps.
func NewWriter(w io.Writer, level Level) *Logger {
	return &Logger{
		minLevel: level,
		fields:   make(map[string]interface{}),
		output:   log.New(w, "", 0),
	}
}

// SetLevel sets the minimum log level.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.minLevel = level
}

// SetOutput sets the output logger. Colour is disabled since the
// destination is no longer known to be a terminal.
func (l *Logger) SetOutput(output *log.Logger) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.output = output
	l.color = false
}

// With returns a new Logger with an additional context field.
func (l *Logger) With(key string, value interface{}) *Logger {
	return l.WithFields(map[string]interface{}{key: value})
}

// WithFields returns a new Logger with multiple additional context fields.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()

	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}

	return &Logger{
		minLevel: l.minLevel,
		color:    l.color,
		fields:   merged,
		output:   l.output,
	}
}

func (l *Logger) log(level Level, msg string, keyVals ...interface{}) {
	l.mu.RLock()
	minLevel := l.minLevel
	color := l.color
	output := l.output
	fields := l.fields
	l.mu.RUnlock()

	if level < minLevel {
		return
	}

	var sb strings.Builder
	name := level.String()
	if color {
		name = levelStyles[level].Render(name)
	}
	sb.WriteString(name)
	sb.WriteString(": ")
	sb.WriteString(msg)

	all := make(map[string]interface{}, len(fields)+len(keyVals)/2)
	for k, v := range fields {
		all[k] = v
	}
	for i := 0; i+1 < len(keyVals); i += 2 {
		if key, ok := keyVals[i].(string); ok {
			all[key] = keyVals[i+1]
		}
	}

	if len(all) > 0 {
		keys := make([]string, 0, len(all))
		for k := range all {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		sb.WriteString(" |")
		for _, k := range keys {
			sb.WriteString(" ")
			sb.WriteString(k)
			sb.WriteString("=")
			sb.WriteString(formatValue(all[k]))
		}
	}

	output.Print(sb.String())
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		if val == "" || strings.ContainsAny(val, " \t\n\"") {
			return fmt.Sprintf("%q", val)
		}
		return val
	case error:
		return fmt.Sprintf("%q", val.Error())
	case []string:
		return fmt.Sprintf("%q", strings.Join(val, " "))
	default:
		return fmt.Sprint(v)
	}
}

// Debug logs at debug level.
func (l *Logger) Debug(msg string, keyVals ...interface{}) {
	l.log(LevelDebug, msg, keyVals...)
}

// Info logs at info level.
func (l *Logger) Info(msg string, keyVals ...interface{}) {
	l.log(LevelInfo, msg, keyVals...)
}

// Warn logs at warn level.
func (l *Logger) Warn(msg string, keyVals ...interface{}) {
	l.log(LevelWarn, msg, keyVals...)
}

// Error logs at error level.
func (l *Logger) Error(msg string, keyVals ...interface{}) {
	l.log(LevelError, msg, keyVals...)
}

// Default returns the package-level logger.
func Default() *Logger {
	return defaultLogger
}

// SetLevel sets the minimum log level for the default logger.
func SetLevel(level Level) {
	defaultLogger.SetLevel(level)
}

// SetOutput sets the output for the default logger.
func SetOutput(output *log.Logger) {
	defaultLogger.SetOutput(output)
}

// With returns a new Logger with additional context from the default logger.
func With(key string, value interface{}) *Logger {
	return defaultLogger.With(key, value)
}

// WithFields returns a new Logger with multiple additional context fields.
func WithFields(fields map[string]interface{}) *Logger {
	return defaultLogger.WithFields(fields)
}

// Debug logs at debug level using the default logger.
func Debug(msg string, keyVals ...interface{}) {
	defaultLogger.Debug(msg, keyVals...)
}

// Info logs at info level using the default logger.
func Info(msg string, keyVals ...interface{}) {
	defaultLogger.Info(msg, keyVals...)
}

// Warn logs at warn level using the default logger.
func Warn(msg string, keyVals ...interface{}) {
	defaultLogger.Warn(msg, keyVals...)
}

// Error logs at error level using the default logger.
func Error(msg string, keyVals ...interface{}) {
	defaultLogger.Error(msg, keyVals...)
}
