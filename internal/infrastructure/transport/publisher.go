package transport

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ajpbench/ajpbench-go-client/internal/domain/model"
	"github.com/ajpbench/ajpbench-go-client/internal/domain/port"
)

// writeWait bounds a single websocket write
const writeWait = 10 * time.Second

// WebSocketPublisher streams run events as JSON text messages to a
// websocket endpoint.
type WebSocketPublisher struct {
	serverURL   string
	conn        *websocket.Conn
	isConnected bool
	mutex       sync.Mutex
	logger      port.Logger
}

// NewWebSocketPublisher creates a publisher for serverURL (ws:// or wss://)
func NewWebSocketPublisher(serverURL string, logger port.Logger) *WebSocketPublisher {
	if logger == nil {
		logger = &DefaultLogger{}
	}
	return &WebSocketPublisher{
		serverURL: serverURL,
		logger:    logger,
	}
}

// Connect dials the endpoint
func (p *WebSocketPublisher) Connect() error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.isConnected {
		return nil
	}

	u, err := url.Parse(p.serverURL)
	if err != nil {
		return fmt.Errorf("invalid publish URL: %v", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("invalid publish URL scheme %q", u.Scheme)
	}

	p.logger.Info("Connecting to publish endpoint: %s", u)
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to connect to publish endpoint: %v", err)
	}

	p.conn = conn
	p.isConnected = true
	return nil
}

// Publish sends msg. It is safe for concurrent use.
func (p *WebSocketPublisher) Publish(msg *model.Message) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if !p.isConnected || p.conn == nil {
		return fmt.Errorf("not connected to publish endpoint")
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to convert message to JSON: %v", err)
	}

	if err := p.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	if err := p.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		p.logger.Error("Failed to publish message: %v", err)
		p.isConnected = false
		return fmt.Errorf("failed to publish message: %v", err)
	}
	return nil
}

// IsConnected returns whether the publisher holds a connection
func (p *WebSocketPublisher) IsConnected() bool {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.isConnected
}

// Close sends a close frame and closes the connection
func (p *WebSocketPublisher) Close() error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.conn == nil {
		return nil
	}

	closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "run finished")
	_ = p.conn.WriteControl(websocket.CloseMessage, closeMsg, time.Now().Add(writeWait))
	err := p.conn.Close()
	p.conn = nil
	p.isConnected = false
	return err
}

var _ port.Publisher = (*WebSocketPublisher)(nil)
