package transport

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/ajpbench/ajpbench-go-client/internal/domain/model"
	"github.com/ajpbench/ajpbench-go-client/internal/domain/port"
	"github.com/ajpbench/ajpbench-go-client/internal/infrastructure/ajp13"
)

// DefaultDialTimeout bounds connection establishment
const DefaultDialTimeout = 10 * time.Second

// Connection owns one socket to an AJP connector. It is reused while the
// requested host and port stay the same and is never shared between
// sessions.
type Connection struct {
	dialer      port.Dialer
	readTimeout time.Duration
	logger      port.Logger

	conn     net.Conn
	endpoint model.Endpoint
	local    ajp13.Local
	dials    int
}

// NewConnection creates a Connection. A zero readTimeout disables read
// deadlines; a nil dialer uses a net.Dialer with DefaultDialTimeout.
func NewConnection(dialer port.Dialer, readTimeout time.Duration, logger port.Logger) *Connection {
	if dialer == nil {
		dialer = &net.Dialer{Timeout: DefaultDialTimeout}
	}
	if logger == nil {
		logger = &DefaultLogger{}
	}
	return &Connection{
		dialer:      dialer,
		readTimeout: readTimeout,
		logger:      logger,
	}
}

// Obtain returns the open socket when it is bound to the same host and
// port, otherwise closes it and dials endpoint.
func (c *Connection) Obtain(ctx context.Context, endpoint model.Endpoint) (net.Conn, error) {
	if c.conn != nil && c.endpoint.Host == endpoint.Host && c.endpoint.Port == endpoint.Port {
		return c.conn, nil
	}
	c.Discard()

	conn, err := c.dialer.DialContext(ctx, "tcp", endpoint.Address())
	if err != nil {
		return nil, fmt.Errorf("%w: connect %s: %v", model.ErrTransport, endpoint, err)
	}
	c.conn = conn
	c.endpoint = endpoint
	c.local = localOf(conn)
	c.dials++
	c.logger.Debug("Connected to %s at port %d", endpoint.Host, endpoint.Port)
	return conn, nil
}

// Read reads from the socket, arming the read timeout before every read
func (c *Connection) Read(p []byte) (int, error) {
	if c.conn == nil {
		return 0, fmt.Errorf("%w: connection is closed", model.ErrTransport)
	}
	if c.readTimeout > 0 {
		if err := c.conn.SetReadDeadline(time.Now().Add(c.readTimeout)); err != nil {
			return 0, err
		}
	}
	return c.conn.Read(p)
}

// Write writes to the socket
func (c *Connection) Write(p []byte) (int, error) {
	if c.conn == nil {
		return 0, fmt.Errorf("%w: connection is closed", model.ErrTransport)
	}
	return c.conn.Write(p)
}

// Local returns the client side identity of the open socket
func (c *Connection) Local() ajp13.Local {
	return c.local
}

// Dials returns how many sockets this Connection has opened
func (c *Connection) Dials() int {
	return c.dials
}

// IsOpen reports whether a socket is held
func (c *Connection) IsOpen() bool {
	return c.conn != nil
}

// Discard closes the socket so the next Obtain reconnects
func (c *Connection) Discard() {
	if c.conn == nil {
		return
	}
	if err := c.conn.Close(); err != nil {
		c.logger.Debug("Closing connection to %s: %v", c.endpoint, err)
	}
	c.conn = nil
}

// Close releases the socket
func (c *Connection) Close() error {
	c.Discard()
	return nil
}

var hostname = func() string {
	name, err := os.Hostname()
	if err != nil {
		return ""
	}
	return name
}()

func localOf(conn net.Conn) ajp13.Local {
	local := ajp13.Local{Name: hostname}
	if addr := conn.LocalAddr(); addr != nil {
		host, _, err := net.SplitHostPort(addr.String())
		if err != nil {
			host = addr.String()
		}
		local.Addr = host
	}
	if local.Name == "" {
		local.Name = local.Addr
	}
	return local
}
