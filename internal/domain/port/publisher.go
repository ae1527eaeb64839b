package port

import "github.com/ajpbench/ajpbench-go-client/internal/domain/model"

// Publisher streams run messages to a remote collector
type Publisher interface {
	// Connect establishes a connection to the collector
	Connect() error

	// Publish sends one message; it is safe for concurrent use
	Publish(msg *model.Message) error

	// Close closes the connection to the collector
	Close() error
}
