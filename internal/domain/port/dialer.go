package port

import (
	"context"
	"net"
)

// Dialer opens connections to AJP connectors. *net.Dialer implements it.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}
