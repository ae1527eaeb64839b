package ajp13

import (
	"encoding/binary"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ajpbench/ajpbench-go-client/internal/domain/model"
)

// Local identifies the client end of a connection in the forward request
type Local struct {
	// Addr is the local IP address
	Addr string
	// Name is the local host name
	Name string
}

// Direction tells which side sent a frame
type Direction int

const (
	// ToServer frames carry MagicToServer
	ToServer Direction = iota
	// ToClient frames carry MagicToClient
	ToClient
)

// RequestBody returns the bytes sent as the body of spec. GET requests have
// no body; a POST without explicit body sends its form-encoded query.
func RequestBody(spec *model.RequestSpec) ([]byte, error) {
	if spec.Method != model.MethodPost {
		return nil, nil
	}
	switch spec.Body.Kind {
	case model.BodyNone:
		return spec.FormBody(), nil
	case model.BodyInline:
		return spec.Body.Data, nil
	case model.BodyFile:
		data, err := os.ReadFile(spec.Body.Path)
		if err != nil {
			return nil, model.Configurationf("read body file: %v", err)
		}
		return data, nil
	default:
		return nil, model.Configurationf("unsupported body source %q", spec.Body.Kind)
	}
}

// RequestHeaders returns the header entries of the forward request in wire
// order. The host header is always first and takes the caller's host value
// if one was given. A POST without explicit body gets forced content-type
// and content-length; other POST bodies get a content-length unless the
// caller set one.
func RequestHeaders(spec *model.RequestSpec, body []byte) []model.Header {
	host := spec.URL.Hostname()
	if v, ok := spec.Headers.Get("host"); ok {
		host = v
	}
	headers := []model.Header{{Name: "host", Value: host}}

	formPost := spec.Method == model.MethodPost && spec.Body.Kind == model.BodyNone
	for _, h := range spec.Headers.All() {
		switch strings.ToLower(h.Name) {
		case "host":
			continue
		case "content-type", "content-length":
			if formPost {
				continue
			}
		}
		headers = append(headers, h)
	}

	if formPost {
		headers = append(headers,
			model.Header{Name: "content-type", Value: FormContentType},
			model.Header{Name: "content-length", Value: strconv.Itoa(len(body))},
		)
	} else if spec.Method == model.MethodPost && !spec.Headers.Has("content-length") {
		headers = append(headers, model.Header{Name: "content-length", Value: strconv.Itoa(len(body))})
	}
	return headers
}

// EncodeForwardRequest serializes spec into a forward request frame. body is
// the request body that will follow; only its length is used here.
func EncodeForwardRequest(spec *model.RequestSpec, local Local, body []byte) ([]byte, error) {
	method, ok := methodCodes[string(spec.Method)]
	if !ok {
		return nil, model.Configurationf("unsupported method %q", spec.Method)
	}

	e := newEncoder()
	e.byte(forwardRequestPrefix)
	e.byte(method)
	e.string(spec.Protocol())
	e.string(requestPath(spec))
	e.string(local.Addr)
	e.string(local.Name)
	e.string(spec.URL.Hostname())
	e.int(spec.ServerPort())
	if spec.IsSecure() {
		e.byte(1)
	} else {
		e.byte(0)
	}

	headers := RequestHeaders(spec, body)
	e.int(len(headers))
	for _, h := range headers {
		if code := RequestHeaderCode(h.Name); code != 0 {
			e.int(code)
		} else {
			e.string(h.Name)
		}
		e.string(h.Value)
	}

	if spec.URL.RawQuery != "" {
		e.byte(queryStringAttribute)
		e.string(spec.URL.RawQuery)
	}
	e.byte(requestTerminator)
	return e.frame()
}

func requestPath(spec *model.RequestSpec) string {
	if p := spec.URL.EscapedPath(); p != "" {
		return p
	}
	return "/"
}

// EncodeBodyChunk frames one request body chunk. An empty chunk signals the
// end of the body.
func EncodeBodyChunk(chunk []byte) ([]byte, error) {
	if len(chunk) > MaxBodyChunkSize {
		return nil, fmt.Errorf("body chunk of %d bytes exceeds %d", len(chunk), MaxBodyChunkSize)
	}
	e := newEncoder()
	e.int(len(chunk))
	e.bytes(chunk)
	return e.frame()
}

// EncodeCPing returns a CPing frame
func EncodeCPing() []byte {
	return []byte{0x12, 0x34, 0x00, 0x01, byte(TypeCPing)}
}

// DecodeFrameHeader returns the direction and payload length of a frame header
func DecodeFrameHeader(header []byte) (Direction, int, error) {
	if len(header) < FrameHeaderSize {
		return 0, 0, model.Protocolf("short frame header: %d bytes", len(header))
	}
	length := int(binary.BigEndian.Uint16(header[2:]))
	switch magic := binary.BigEndian.Uint16(header); magic {
	case MagicToClient:
		return ToClient, length, nil
	case MagicToServer:
		return ToServer, length, nil
	default:
		return 0, 0, model.Protocolf("unexpected frame magic %#04x", magic)
	}
}

// DecodeMessageType returns the message type of a frame payload
func DecodeMessageType(payload []byte) (MessageType, error) {
	if len(payload) == 0 {
		return 0, model.Protocolf("empty frame payload")
	}
	return MessageType(payload[0]), nil
}

// SendHeaders is a decoded SEND_HEADERS message
type SendHeaders struct {
	Status  int
	Reason  string
	Headers []model.Header
}

// Block renders the status line and headers as one text block
func (h *SendHeaders) Block() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "HTTP/1.1 %d %s\n", h.Status, h.Reason)
	for _, header := range h.Headers {
		sb.WriteString(header.Name)
		sb.WriteString(": ")
		sb.WriteString(header.Value)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// DecodeHeadersMessage decodes a SEND_HEADERS payload
func DecodeHeadersMessage(payload []byte) (*SendHeaders, error) {
	d, err := expect(payload, TypeSendHeaders)
	if err != nil {
		return nil, err
	}
	status, err := d.int()
	if err != nil {
		return nil, err
	}
	reason, err := d.string()
	if err != nil {
		return nil, err
	}
	count, err := d.int()
	if err != nil {
		return nil, err
	}

	msg := &SendHeaders{Status: status, Reason: reason, Headers: make([]model.Header, 0, count)}
	for i := 0; i < count; i++ {
		code, err := d.peekInt()
		if err != nil {
			return nil, err
		}
		var name string
		if code&0xFF00 == HeaderCodeBase {
			var ok bool
			if name, ok = ResponseHeaderName(code); !ok {
				return nil, model.Protocolf("unknown response header code %#04x", code)
			}
			d.pos += 2
		} else if name, err = d.string(); err != nil {
			return nil, err
		}
		value, err := d.string()
		if err != nil {
			return nil, err
		}
		msg.Headers = append(msg.Headers, model.Header{Name: name, Value: value})
	}
	return msg, nil
}

// DecodeBodyChunk decodes a SEND_BODY_CHUNK payload. The returned slice
// aliases payload.
func DecodeBodyChunk(payload []byte) ([]byte, error) {
	d, err := expect(payload, TypeSendBodyChunk)
	if err != nil {
		return nil, err
	}
	n, err := d.int()
	if err != nil {
		return nil, err
	}
	return d.bytes(n)
}

// DecodeGetBodyChunk returns the number of body bytes the container asked for
func DecodeGetBodyChunk(payload []byte) (int, error) {
	d, err := expect(payload, TypeGetBodyChunk)
	if err != nil {
		return 0, err
	}
	if len(payload) < 3 {
		return MaxBodyChunkSize, nil
	}
	return d.int()
}

// DecodeEndResponse reports whether the container allows the connection to
// be reused. A missing reuse flag means reuse.
func DecodeEndResponse(payload []byte) (bool, error) {
	d, err := expect(payload, TypeEndResponse)
	if err != nil {
		return false, err
	}
	if len(payload) < 2 {
		return true, nil
	}
	reuse, err := d.byte()
	return reuse != 0, err
}

func expect(payload []byte, want MessageType) (*decoder, error) {
	got, err := DecodeMessageType(payload)
	if err != nil {
		return nil, err
	}
	if got != want {
		return nil, model.Protocolf("expected %s, got %s (%d)", want, got, byte(got))
	}
	d := newDecoder(payload)
	d.pos = 1
	return d, nil
}
