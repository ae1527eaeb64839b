package model

import (
	"os"
	"path/filepath"
	"time"
)

// LogLevel defines logging levels
type LogLevel string

const (
	// LogLevelDebug is the level for debug messages
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo is the level for informational messages
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn is the level for warning messages
	LogLevelWarn LogLevel = "warn"
	// LogLevelError is the level for error messages
	LogLevelError LogLevel = "error"
)

// Config is the configuration structure for the ajpbench client
type Config struct {
	// Timeout is the socket read timeout in seconds (0 disables it)
	Timeout float64
	// Rounds is the default number of rounds per request
	Rounds int
	// HTTPVersion is the default HTTP version label ("1.0" or "1.1")
	HTTPVersion string
	// LogLevel is the logging level (debug, info, warn, error)
	LogLevel LogLevel
	// LogFile is the path to log file (empty for stdout)
	LogFile string
	// HistoryDB is the path of the sqlite result history (empty disables it)
	HistoryDB string
	// MetricsFile is the path of a Prometheus textfile (empty disables it)
	MetricsFile string
	// PublishURL is a websocket URL that receives every result (empty disables it)
	PublishURL string
	// DefaultHeaders are added to every request that does not set them
	DefaultHeaders map[string]string
}

// NewConfig creates a new Config instance with default values
func NewConfig() *Config {
	return &Config{
		Timeout:     0,
		Rounds:      1,
		HTTPVersion: "1.1",
		LogLevel:    LogLevelWarn,
		DefaultHeaders: map[string]string{
			"From":            "ajp@test.org",
			"User-Agent":      "ajpbench/" + Version,
			"Accept-Language": "en",
		},
	}
}

// Version is the application version
const Version = "1.0.0"

// ReadTimeout converts Timeout to a duration
func (c *Config) ReadTimeout() time.Duration {
	if c.Timeout <= 0 {
		return 0
	}
	return time.Duration(c.Timeout * float64(time.Second))
}

// GetConfigFilePath returns the path to configuration file
func (c *Config) GetConfigFilePath() string {
	configDir := "/etc/ajpbench"

	// If not root, use home directory
	if os.Getuid() != 0 {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			configDir = filepath.Join(homeDir, ".ajpbench")
		}
	}

	return filepath.Join(configDir, "config.yaml")
}
