package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level is the minimum severity a Logger writes.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the label written into each entry.
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

// ParseLevel maps a name such as "debug" or "warn" to a Level.
// Unknown names map to LevelInfo.
func ParseLevel(name string) Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// sink is the destination shared by a Logger and every logger derived from it.
type sink struct {
	mu        sync.Mutex
	out       *log.Logger
	file      *os.File
	closeOnce sync.Once
}

// Logger writes component-tagged entries to a per-execution log file.
//
// Entries look like:
//
//	[2006-01-02 15:04:05.000] [component] [LEVEL] message
type Logger struct {
	sink      *sink
	component string
	minLevel  Level
	sessionID string
	logPath   string
}

// DefaultDir returns ~/.headliner/logs.
func DefaultDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".headliner", "logs"), nil
}

// Open creates the log directory if needed and opens a new log file named
// <session-id>-headliner.log inside it. An empty dir selects DefaultDir.
//
// If the file cannot be opened, Open returns a logger that writes to stderr
// together with the error, so callers may continue in fallback mode.
func Open(dir, component string) (*Logger, error) {
	sessID := uuid.New().String()

	if dir == "" {
		var err error
		if dir, err = DefaultDir(); err != nil {
			return newFallbackLogger(component, sessID, err), err
		}
	}

	if err := os.MkdirAll(dir, 0750); err != nil {
		err = fmt.Errorf("failed to create log directory: %w", err)
		return newFallbackLogger(component, sessID, err), err
	}

	logPath := filepath.Join(dir, fmt.Sprintf("%s-headliner.log", sessID))
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		err = fmt.Errorf("failed to open log file: %w", err)
		return newFallbackLogger(component, sessID, err), err
	}

	return &Logger{
		sink:      &sink{out: log.New(file, "", 0), file: file},
		component: component,
		minLevel:  LevelDebug,
		sessionID: sessID,
		logPath:   logPath,
	}, nil
}

func newFallbackLogger(component, sessID string, cause error) *Logger {
	l := &Logger{
		sink:      &sink{out: log.New(os.Stderr, "", 0)},
		component: component,
		minLevel:  LevelDebug,
		sessionID: sessID,
	}
	l.Warnf("file logging unavailable, writing to stderr: %v", cause)
	return l
}

// New returns a logger that writes to w. It is mainly useful in tests.
func New(w io.Writer, component string) *Logger {
	return &Logger{
		sink:      &sink{out: log.New(w, "", 0)},
		component: component,
		minLevel:  LevelDebug,
		sessionID: uuid.New().String(),
	}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return New(io.Discard, "discard")
}

// For returns a logger for another component sharing the same destination.
func (l *Logger) For(component string) *Logger {
	child := *l
	child.component = component
	return &child
}

// SetLevel drops entries below level. Derived loggers created afterwards
// inherit it.
func (l *Logger) SetLevel(level Level) {
	l.minLevel = level
}

func (l *Logger) write(level Level, format string, v ...interface{}) {
	if level < l.minLevel {
		return
	}

	message := fmt.Sprintf(format, v...)
	timestamp := time.Now().Format("2006-01-02 15:04:05.000")

	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.out.Printf("[%s] [%s] [%s] %s", timestamp, l.component, level, message)
}

// Debugf logs a debug-level message
func (l *Logger) Debugf(format string, v ...interface{}) { l.write(LevelDebug, format, v...) }

// Infof logs an info-level message
func (l *Logger) Infof(format string, v ...interface{}) { l.write(LevelInfo, format, v...) }

// Warnf logs a warning-level message
func (l *Logger) Warnf(format string, v ...interface{}) { l.write(LevelWarn, format, v...) }

// Errorf logs an error-level message
func (l *Logger) Errorf(format string, v ...interface{}) { l.write(LevelError, format, v...) }

// SessionID returns the execution ID embedded in the log file name.
func (l *Logger) SessionID() string {
	return l.sessionID
}

// LogPath returns the path to the log file, or "" when not writing to a file.
func (l *Logger) LogPath() string {
	return l.logPath
}

// Close closes the log file. Safe to call multiple times and from any
// derived logger.
func (l *Logger) Close() error {
	var err error
	l.sink.closeOnce.Do(func() {
		if l.sink.file != nil {
			err = l.sink.file.Close()
		}
	})
	return err
}
