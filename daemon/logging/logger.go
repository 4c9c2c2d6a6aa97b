package logging

import (
	"bytes"
	"context"
	"io"
	"log"
	"os"
	"sync"

	"github.com/xenago/libnss-shim/daemon/config"
)

// DefaultLogPath returns the default log file path from config
var DefaultLogPath = config.LogPath

// LogLevel represents the logging level
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
	LogLevelTrace
)

var logLevelNames = map[string]LogLevel{
	"error": LogLevelError,
	"warn":  LogLevelWarn,
	"info":  LogLevelInfo,
	"debug": LogLevelDebug,
	"trace": LogLevelTrace,
}

var logLevelStrings = map[LogLevel]string{
	LogLevelError: "ERROR",
	LogLevelWarn:  "WARN",
	LogLevelInfo:  "INFO",
	LogLevelDebug: "DEBUG",
	LogLevelTrace: "TRACE",
}

// Global logger configuration
var (
	globalLogLevel LogLevel = LogLevelInfo
	globalMu       sync.RWMutex
)

func SetGlobalLogLevel(level LogLevel) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogLevel = level
}

func SetGlobalLogLevelFromString(levelStr string) bool {
	if level, exists := logLevelNames[levelStr]; exists {
		SetGlobalLogLevel(level)
		return true
	}
	return false
}

func GetGlobalLogLevel() LogLevel {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogLevel
}

// Logger prefixes every line with its level and component. Loggers are
// values: WithDebug and WithRequestID return modified copies, so a query
// can carry its own diagnostic settings without touching shared state.
type Logger struct {
	component string
	requestID string
	debug     bool
}

func NewLogger(component string) *Logger {
	return &Logger{
		component: component,
	}
}

// WithDebug returns a copy of the logger that emits Debug messages
// regardless of the global level when enabled is true.
func (l *Logger) WithDebug(enabled bool) *Logger {
	c := *l
	c.debug = enabled
	return &c
}

// WithRequestID returns a copy of the logger that tags lines with id.
func (l *Logger) WithRequestID(id string) *Logger {
	c := *l
	c.requestID = id
	return &c
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying l.
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// FromContext returns the logger stored in ctx, or fallback if there is
// none.
func FromContext(ctx context.Context, fallback *Logger) *Logger {
	if l, ok := ctx.Value(contextKey{}).(*Logger); ok {
		return l
	}
	return fallback
}

func (l *Logger) shouldLog(level LogLevel) bool {
	if l.debug && level == LogLevelDebug {
		return true
	}
	return GetGlobalLogLevel() >= level
}

func (l *Logger) formatMessage(level LogLevel, format string) string {
	prefix := "[" + logLevelStrings[level] + "] "
	if l.component != "" {
		prefix += "[" + l.component + "] "
	}
	if l.requestID != "" {
		prefix += "[" + l.requestID + "] "
	}
	return prefix + format
}

func (l *Logger) Error(format string, args ...interface{}) {
	if l.shouldLog(LogLevelError) {
		log.Printf(l.formatMessage(LogLevelError, format), args...)
	}
}

func (l *Logger) Warn(format string, args ...interface{}) {
	if l.shouldLog(LogLevelWarn) {
		log.Printf(l.formatMessage(LogLevelWarn, format), args...)
	}
}

func (l *Logger) Info(format string, args ...interface{}) {
	if l.shouldLog(LogLevelInfo) {
		log.Printf(l.formatMessage(LogLevelInfo, format), args...)
	}
}

func (l *Logger) Debug(format string, args ...interface{}) {
	if l.shouldLog(LogLevelDebug) {
		log.Printf(l.formatMessage(LogLevelDebug, format), args...)
	}
}

func (l *Logger) Trace(format string, args ...interface{}) {
	if l.shouldLog(LogLevelTrace) {
		log.Printf(l.formatMessage(LogLevelTrace, format), args...)
	}
}

func (l *Logger) Fatal(format string, args ...interface{}) {
	log.Printf(l.formatMessage(LogLevelError, format), args...)
	os.Exit(1)
}

// SetOutput sends all log lines to w.
func SetOutput(w io.Writer) {
	log.SetOutput(w)
}

func SetupLogging(logPath string) error {
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.Printf("[ERROR] Failed to open log file %s, using stdout: %v", logPath, err)
		return err
	}

	multiWriter := io.MultiWriter(os.Stdout, logFile)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	log.Printf("Logging to file: %s", logPath)
	return nil
}

func SetupDefaultLogging() error {
	return SetupLogging(config.Getenv(config.LogPathEnv, DefaultLogPath))
}

// MockLogger redirects log output to a buffer and resets the global level
// to level. The returned function restores the previous output and level.
func MockLogger(level LogLevel) (buf *bytes.Buffer, restore func()) {
	buf = &bytes.Buffer{}
	oldWriter := log.Writer()
	oldFlags := log.Flags()
	oldLevel := GetGlobalLogLevel()

	log.SetOutput(buf)
	log.SetFlags(0)
	SetGlobalLogLevel(level)

	return buf, func() {
		log.SetOutput(oldWriter)
		log.SetFlags(oldFlags)
		SetGlobalLogLevel(oldLevel)
	}
}
