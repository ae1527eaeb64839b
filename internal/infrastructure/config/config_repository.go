package config

import (
	"fmt"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/ajpbench/ajpbench-go-client/internal/domain/model"
	"github.com/ajpbench/ajpbench-go-client/internal/domain/port"
)

// ConfigRepository is an implementation of port.ConfigRepository
type ConfigRepository struct{}

// NewConfigRepository creates a new ConfigRepository instance
func NewConfigRepository() *ConfigRepository {
	return &ConfigRepository{}
}

// Load loads configuration from file. A missing file yields the defaults.
func (r *ConfigRepository) Load(configPath string) (*model.Config, error) {
	config := model.NewConfig()

	// If configPath is empty, look in the default location
	if configPath == "" {
		var err error
		configPath, err = r.GetDefaultPath()
		if err != nil {
			return nil, err
		}
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return config, nil
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %v", err)
	}

	if v.IsSet("timeout") {
		config.Timeout = v.GetFloat64("timeout")
	}
	if v.IsSet("rounds") {
		config.Rounds = v.GetInt("rounds")
	}
	if v.IsSet("http_version") {
		config.HTTPVersion = v.GetString("http_version")
	}
	if v.IsSet("log_level") {
		config.LogLevel = model.LogLevel(v.GetString("log_level"))
	}
	config.LogFile = v.GetString("log_file")
	config.HistoryDB = v.GetString("history_db")
	config.MetricsFile = v.GetString("metrics_file")
	config.PublishURL = v.GetString("publish_url")

	// viper lower-cases map keys, so header names are canonicalized again
	for name, value := range v.GetStringMapString("default_headers") {
		setHeader(config.DefaultHeaders, textproto.CanonicalMIMEHeaderKey(name), value)
	}

	return config, nil
}

func setHeader(headers map[string]string, name, value string) {
	for existing := range headers {
		if strings.EqualFold(existing, name) {
			delete(headers, existing)
		}
	}
	headers[name] = value
}

// Save saves configuration to file
func (r *ConfigRepository) Save(config *model.Config, configPath string) error {
	// If configPath is empty, use default location
	if configPath == "" {
		var err error
		configPath, err = r.GetDefaultPath()
		if err != nil {
			return err
		}
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %v", err)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.Set("timeout", config.Timeout)
	v.Set("rounds", config.Rounds)
	v.Set("http_version", config.HTTPVersion)
	v.Set("log_level", string(config.LogLevel))
	v.Set("log_file", config.LogFile)
	v.Set("history_db", config.HistoryDB)
	v.Set("metrics_file", config.MetricsFile)
	v.Set("publish_url", config.PublishURL)
	v.Set("default_headers", config.DefaultHeaders)

	if err := v.WriteConfig(); err != nil {
		// If file doesn't exist, create new one
		if os.IsNotExist(err) || strings.Contains(err.Error(), "no such file") {
			return v.SafeWriteConfig()
		}
		return fmt.Errorf("error saving configuration: %v", err)
	}

	return nil
}

// GetDefaultPath returns the default path for configuration file
func (r *ConfigRepository) GetDefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("error getting home directory: %v", err)
	}

	return filepath.Join(homeDir, ".ajpbench", "config.yaml"), nil
}

// Ensure ConfigRepository implements port.ConfigRepository
var _ port.ConfigRepository = (*ConfigRepository)(nil)
