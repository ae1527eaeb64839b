package di

import (
	"fmt"
	"net"
	"os"

	"github.com/ajpbench/ajpbench-go-client/internal/application/service"
	"github.com/ajpbench/ajpbench-go-client/internal/domain/model"
	"github.com/ajpbench/ajpbench-go-client/internal/domain/port"
	"github.com/ajpbench/ajpbench-go-client/internal/infrastructure/config"
	"github.com/ajpbench/ajpbench-go-client/internal/infrastructure/logger"
	"github.com/ajpbench/ajpbench-go-client/internal/infrastructure/metrics"
	"github.com/ajpbench/ajpbench-go-client/internal/infrastructure/storage"
	"github.com/ajpbench/ajpbench-go-client/internal/infrastructure/transport"
)

// Container is a container for dependency injection
type Container struct {
	// Logger
	Logger *logger.Logger

	// Repositories
	ConfigRepository *config.ConfigRepository
	History          *storage.HistoryDB

	// Services
	ConfigService *service.ConfigService
	ProbeService  *service.ProbeService

	// Observers and sinks of a run
	Metrics   *metrics.Metrics
	Publisher *transport.WebSocketPublisher

	// Config
	Config *model.Config
}

// NewContainer creates a new Container instance
func NewContainer() *Container {
	return &Container{}
}

// Initialize loads the configuration and sets up logging
func (c *Container) Initialize(configPath string) error {
	// Log to stderr until the configuration names a log file
	c.Logger = logger.NewLogger(os.Stderr, string(model.LogLevelWarn))

	c.ConfigRepository = config.NewConfigRepository()
	c.ConfigService = service.NewConfigService(c.ConfigRepository, c.Logger)

	var err error
	c.Config, err = c.ConfigService.LoadConfig(configPath)
	if err != nil {
		return err
	}

	if c.Config.LogFile != "" {
		fileLogger, err := logger.New(c.Config)
		if err != nil {
			c.Logger.Error("Failed to create file logger: %v", err)
		} else {
			c.Logger = fileLogger
			c.ConfigService = service.NewConfigService(c.ConfigRepository, c.Logger)
		}
	}
	c.Logger.SetLevel(string(c.Config.LogLevel))

	return nil
}

// InitProbe builds the probe service from the current configuration, so
// command line overrides must be applied to Config first
func (c *Container) InitProbe() error {
	if c.Config == nil {
		return fmt.Errorf("container is not initialized")
	}

	factory := transport.NewSessionFactory(&net.Dialer{Timeout: transport.DefaultDialTimeout}, c.Config.ReadTimeout(), c.Logger)
	newSink := func(observers ...port.ResultObserver) port.StatisticsSink {
		return storage.NewMemorySink(observers...)
	}
	c.ProbeService = service.NewProbeService(c.Config, factory, newSink, c.Logger)

	if c.Config.MetricsFile != "" {
		c.Metrics = metrics.NewMetrics()
		c.ProbeService.AddObserver(c.Metrics)
	}

	if c.Config.HistoryDB != "" {
		history, err := storage.NewHistoryDB(c.Config.HistoryDB)
		if err != nil {
			return err
		}
		c.History = history
		c.ProbeService.SetHistory(history)
	}

	if c.Config.PublishURL != "" {
		c.Publisher = transport.NewWebSocketPublisher(c.Config.PublishURL, c.Logger)
		c.ProbeService.SetPublisher(c.Publisher)
	}

	return nil
}

// WriteMetrics writes the metrics textfile when one is configured
func (c *Container) WriteMetrics() error {
	if c.Metrics == nil {
		return nil
	}
	if err := c.Metrics.WriteTextfile(c.Config.MetricsFile); err != nil {
		return fmt.Errorf("failed to write metrics: %v", err)
	}
	c.Logger.Debug("Metrics written to %s", c.Config.MetricsFile)
	return nil
}

// Close closes all resources
func (c *Container) Close() {
	if c.History != nil {
		if err := c.History.Close(); err != nil {
			c.Logger.Error("Failed to close history: %v", err)
		}
	}

	// Close logger
	if c.Logger != nil {
		c.Logger.Close()
	}
}
