package model

import (
	"net"
	"strconv"
)

// DefaultAJPPort is used when a URL carries no port or the scheme default
const DefaultAJPPort = 8009

// Endpoint is the AJP connector a request session talks to
type Endpoint struct {
	// Host is the connector host name or address
	Host string
	// Port is the connector port
	Port int
	// Secure is set when the request URL uses https
	Secure bool
}

// Address returns host:port suitable for dialing
func (e Endpoint) Address() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

// String implements fmt.Stringer
func (e Endpoint) String() string {
	return e.Address()
}
