// Package ajp13 implements the AJP13 wire format: forward request encoding,
// request body chunks, CPing, and decoding of the container's response
// messages.
package ajp13

import "strings"

const (
	// MagicToServer prefixes every frame sent to the container
	MagicToServer = 0x1234
	// MagicToClient prefixes every frame sent by the container ("AB")
	MagicToClient = 0x4142

	// FrameHeaderSize is the magic plus the payload length
	FrameHeaderSize = 4
	// MaxPacketSize is the largest frame a default connector accepts
	MaxPacketSize = 8 * 1024
	// MaxPayloadSize bounds the payload of one outbound frame
	MaxPayloadSize = MaxPacketSize - FrameHeaderSize
	// MaxBodyChunkSize bounds the body bytes of one outbound body chunk
	MaxBodyChunkSize = MaxPayloadSize - 2

	// HeaderCodeBase is the base of the well-known header codes
	HeaderCodeBase = 0xA000
	// HostHeaderCode is the code of the mandatory host header
	HostHeaderCode = 0xA00B
	// ContentTypeHeaderCode is the code of content-type
	ContentTypeHeaderCode = 0xA007
	// ContentLengthHeaderCode is the code of content-length
	ContentLengthHeaderCode = 0xA008

	nullStringLength = 0xFFFF

	forwardRequestPrefix = 0x02
	queryStringAttribute = 0x05
	requestTerminator    = 0xFF

	// FormContentType is forced on POSTs that send their query parameters as the body
	FormContentType = "application/x-www-form-urlencoded"
)

// MessageType is the first payload byte of a frame
type MessageType byte

const (
	// TypeForwardRequest starts a request (client to container)
	TypeForwardRequest MessageType = 2
	// TypeSendBodyChunk carries response body bytes
	TypeSendBodyChunk MessageType = 3
	// TypeSendHeaders carries the response status and headers
	TypeSendHeaders MessageType = 4
	// TypeEndResponse ends the exchange
	TypeEndResponse MessageType = 5
	// TypeGetBodyChunk asks for more request body
	TypeGetBodyChunk MessageType = 6
	// TypeCPong answers a CPing
	TypeCPong MessageType = 9
	// TypeCPing probes container liveness (client to container)
	TypeCPing MessageType = 10
)

// String implements fmt.Stringer
func (t MessageType) String() string {
	switch t {
	case TypeForwardRequest:
		return "FORWARD_REQUEST"
	case TypeSendBodyChunk:
		return "SEND_BODY_CHUNK"
	case TypeSendHeaders:
		return "SEND_HEADERS"
	case TypeEndResponse:
		return "END_RESPONSE"
	case TypeGetBodyChunk:
		return "GET_BODY_CHUNK"
	case TypeCPong:
		return "CPONG"
	case TypeCPing:
		return "CPING"
	default:
		return "UNKNOWN"
	}
}

// method codes of the forward request
var methodCodes = map[string]byte{
	"GET":  0x02,
	"POST": 0x04,
}

// requestHeaderNames translates request header names to codes.
// The code of requestHeaderNames[i] is HeaderCodeBase+i+1.
var requestHeaderNames = [...]string{
	"accept",
	"accept-charset",
	"accept-encoding",
	"accept-language",
	"authorization",
	"connection",
	"content-type",
	"content-length",
	"cookie",
	"cookie2",
	"host",
	"pragma",
	"referer",
	"user-agent",
}

// responseHeaderNames translates response header codes to names.
// responseHeaderNames[i] is sent as HeaderCodeBase+i+1.
var responseHeaderNames = [...]string{
	"Content-Type",
	"Content-Language",
	"Content-Length",
	"Date",
	"Last-Modified",
	"Location",
	"Set-Cookie",
	"Set-Cookie2",
	"Servlet-Engine",
	"Status",
	"WWW-Authenticate",
}

// RequestHeaderCode returns the well-known code of a request header name,
// or 0 if the name must be sent as a literal string
func RequestHeaderCode(name string) int {
	for i, n := range requestHeaderNames {
		if strings.EqualFold(n, name) {
			return HeaderCodeBase + i + 1
		}
	}
	return 0
}

// ResponseHeaderName returns the name of a well-known response header code
func ResponseHeaderName(code int) (string, bool) {
	if code&0xFF00 != HeaderCodeBase {
		return "", false
	}
	i := code&0xFF - 1
	if i < 0 || i >= len(responseHeaderNames) {
		return "", false
	}
	return responseHeaderNames[i], true
}
