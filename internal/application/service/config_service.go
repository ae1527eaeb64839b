package service

import (
	"fmt"
	"net/textproto"
	"strconv"
	"strings"

	"github.com/ajpbench/ajpbench-go-client/internal/domain/model"
	"github.com/ajpbench/ajpbench-go-client/internal/domain/port"
)

// ConfigService is a service for managing configuration
type ConfigService struct {
	configRepo port.ConfigRepository
	logger     port.Logger
}

// NewConfigService creates a new ConfigService instance
func NewConfigService(configRepo port.ConfigRepository, logger port.Logger) *ConfigService {
	return &ConfigService{
		configRepo: configRepo,
		logger:     logger,
	}
}

// LoadConfig loads configuration from a file
func (s *ConfigService) LoadConfig(configPath string) (*model.Config, error) {
	// If configPath is empty, use the default path
	if configPath == "" {
		var err error
		configPath, err = s.configRepo.GetDefaultPath()
		if err != nil {
			return nil, fmt.Errorf("failed to get default path: %v", err)
		}
	}

	config, err := s.configRepo.Load(configPath)
	if err != nil {
		s.logger.Warn("Failed to load configuration from %s: %v", configPath, err)
		// Return default configuration if loading fails
		return model.NewConfig(), nil
	}

	s.logger.Debug("Configuration loaded from %s", configPath)

	return config, nil
}

// SaveConfig saves configuration to a file
func (s *ConfigService) SaveConfig(config *model.Config, configPath string) error {
	// If configPath is empty, use the default path
	if configPath == "" {
		var err error
		configPath, err = s.configRepo.GetDefaultPath()
		if err != nil {
			return fmt.Errorf("failed to get default path: %v", err)
		}
	}

	if err := s.configRepo.Save(config, configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %v", err)
	}

	s.logger.Info("Configuration saved to %s", configPath)

	return nil
}

// LoadRequests reads a requests file using config for defaults
func (s *ConfigService) LoadRequests(path string, config *model.Config) (*model.RequestSet, error) {
	set, err := s.configRepo.LoadRequests(path, config)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("Loaded %d request(s) from %s", set.Len(), path)
	return set, nil
}

// SetTimeout sets the read timeout in seconds
func (s *ConfigService) SetTimeout(config *model.Config, seconds float64) error {
	if seconds < 0 {
		return model.Configurationf("timeout cannot be negative")
	}
	config.Timeout = seconds
	return nil
}

// SetRounds sets the default number of rounds
func (s *ConfigService) SetRounds(config *model.Config, rounds int) error {
	if rounds < 1 {
		return model.Configurationf("rounds must be at least 1")
	}
	config.Rounds = rounds
	return nil
}

// SetHTTPVersion sets the default HTTP version
func (s *ConfigService) SetHTTPVersion(config *model.Config, version string) error {
	switch version {
	case "1.0", "1.1":
		config.HTTPVersion = version
		return nil
	default:
		return model.Configurationf("unsupported http version %q", version)
	}
}

// SetLogLevel sets the log level
func (s *ConfigService) SetLogLevel(config *model.Config, logLevel string) {
	config.LogLevel = model.LogLevel(logLevel)
}

// SetLogFile sets the log file
func (s *ConfigService) SetLogFile(config *model.Config, logFile string) {
	config.LogFile = logFile
}

// SetHistoryDB sets the result history database path
func (s *ConfigService) SetHistoryDB(config *model.Config, path string) {
	config.HistoryDB = path
}

// SetMetricsFile sets the Prometheus textfile path
func (s *ConfigService) SetMetricsFile(config *model.Config, path string) {
	config.MetricsFile = path
}

// SetPublishURL sets the websocket URL results are streamed to
func (s *ConfigService) SetPublishURL(config *model.Config, url string) {
	config.PublishURL = url
}

// SetDefaultHeader sets or, with an empty value, removes a default header
func (s *ConfigService) SetDefaultHeader(config *model.Config, name, value string) {
	if config.DefaultHeaders == nil {
		config.DefaultHeaders = map[string]string{}
	}
	for existing := range config.DefaultHeaders {
		if strings.EqualFold(existing, name) {
			delete(config.DefaultHeaders, existing)
		}
	}
	if value != "" {
		config.DefaultHeaders[textproto.CanonicalMIMEHeaderKey(name)] = value
	}
}

// Set assigns a configuration key from its string form
func (s *ConfigService) Set(config *model.Config, key, value string) error {
	switch key {
	case "timeout":
		seconds, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return model.Configurationf("invalid timeout %q", value)
		}
		return s.SetTimeout(config, seconds)
	case "rounds":
		rounds, err := strconv.Atoi(value)
		if err != nil {
			return model.Configurationf("invalid rounds %q", value)
		}
		return s.SetRounds(config, rounds)
	case "http_version":
		return s.SetHTTPVersion(config, value)
	case "log_level":
		s.SetLogLevel(config, value)
	case "log_file":
		s.SetLogFile(config, value)
	case "history_db":
		s.SetHistoryDB(config, value)
	case "metrics_file":
		s.SetMetricsFile(config, value)
	case "publish_url":
		s.SetPublishURL(config, value)
	default:
		if name, ok := strings.CutPrefix(key, "default_headers."); ok && name != "" {
			s.SetDefaultHeader(config, name, value)
			return nil
		}
		return model.Configurationf("unknown configuration key %q", key)
	}
	return nil
}
