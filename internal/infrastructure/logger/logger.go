package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ajpbench/ajpbench-go-client/internal/domain/model"
	"github.com/ajpbench/ajpbench-go-client/internal/domain/port"
)

// Level defines the logging level
type Level int

const (
	// LevelDebug is the level for debug messages
	LevelDebug Level = iota
	// LevelInfo is the level for informational messages
	LevelInfo
	// LevelWarn is the level for warning messages
	LevelWarn
	// LevelError is the level for error messages
	LevelError
)

// String returns the string representation of the level
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

// ParseLevel converts a string to Level. Unknown names map to LevelWarn.
func ParseLevel(level string) Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelWarn
	}
}

// Logger is an implementation of port.Logger. It is safe for use by
// concurrent request sessions.
type Logger struct {
	mu     sync.RWMutex
	logger *log.Logger
	level  Level
	writer io.Writer
}

// NewLogger creates a new Logger instance
func NewLogger(writer io.Writer, level string) *Logger {
	return &Logger{
		logger: log.New(writer, "", 0),
		level:  ParseLevel(level),
		writer: writer,
	}
}

// New builds the logger described by config: a file logger when LogFile
// is set, standard error otherwise.
func New(config *model.Config) (*Logger, error) {
	if config.LogFile != "" {
		return NewFileLogger(config.LogFile, string(config.LogLevel))
	}
	return NewLogger(os.Stderr, string(config.LogLevel)), nil
}

// SetLevel changes the logging level
func (l *Logger) SetLevel(level string) {
	l.mu.Lock()
	l.level = ParseLevel(level)
	l.mu.Unlock()
}

func (l *Logger) log(level Level, format string, args ...interface{}) {
	l.mu.RLock()
	min := l.level
	l.mu.RUnlock()
	if level < min {
		return
	}

	now := time.Now().Format("2006-01-02 15:04:05.000")

	message := format
	if len(args) > 0 {
		message = fmt.Sprintf(format, args...)
	}

	// log.Logger serializes writes
	l.logger.Printf("[%s] %s %s", now, level.String(), message)
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(LevelDebug, format, args...)
}

// Info logs an informational message
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(LevelInfo, format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(LevelWarn, format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(LevelError, format, args...)
}

// Close closes the writer if it is a file other than stdout or stderr
func (l *Logger) Close() error {
	if l.writer == os.Stdout || l.writer == os.Stderr {
		return nil
	}
	if closer, ok := l.writer.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// NewFileLogger creates a logger that appends to a file
func NewFileLogger(filePath string, level string) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %v", err)
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %v", err)
	}

	return NewLogger(file, level), nil
}

// Ensure Logger implements port.Logger
var _ port.Logger = (*Logger)(nil)
