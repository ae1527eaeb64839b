package transport

import (
	"log"
	"strings"
)

// DefaultLogger is the fallback logger of connections and sessions built
// without one. It writes through the standard log package and drops
// messages below its level, which defaults to warn.
type DefaultLogger struct {
	level string
}

var levelRank = map[string]int{"debug": 0, "info": 1, "warn": 2, "warning": 2, "error": 3}

func (l *DefaultLogger) enabled(level string) bool {
	min, ok := levelRank[strings.ToLower(l.level)]
	if !ok {
		min = levelRank["warn"]
	}
	return levelRank[level] >= min
}

// Debug logs a debug message
func (l *DefaultLogger) Debug(format string, args ...interface{}) {
	if l.enabled("debug") {
		log.Printf("[DEBUG] "+format, args...)
	}
}

// Info logs an info message
func (l *DefaultLogger) Info(format string, args ...interface{}) {
	if l.enabled("info") {
		log.Printf("[INFO] "+format, args...)
	}
}

// Warn logs a warning message
func (l *DefaultLogger) Warn(format string, args ...interface{}) {
	if l.enabled("warn") {
		log.Printf("[WARN] "+format, args...)
	}
}

// Error logs an error message
func (l *DefaultLogger) Error(format string, args ...interface{}) {
	log.Printf("[ERROR] "+format, args...)
}

// SetLevel changes the logging level
func (l *DefaultLogger) SetLevel(level string) {
	l.level = level
}

// Close is a no-op; the standard logger has nothing to release
func (l *DefaultLogger) Close() error {
	return nil
}
