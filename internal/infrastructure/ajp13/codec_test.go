package ajp13

import (
	"bytes"
	"encoding/binary"
	"errors"
	"strings"
	"testing"

	"github.com/ajpbench/ajpbench-go-client/internal/domain/model"
	"github.com/google/go-cmp/cmp"
)

var testLocal = Local{Addr: "127.0.0.1", Name: "client.local"}

func ajpString(s string) []byte {
	b := make([]byte, 2, len(s)+3)
	binary.BigEndian.PutUint16(b, uint16(len(s)))
	b = append(b, s...)
	return append(b, 0)
}

func ajpInt(n int) []byte {
	return []byte{byte(n >> 8), byte(n)}
}

func frameOf(magic int, payload []byte) []byte {
	return append(append(ajpInt(magic), ajpInt(len(payload))...), payload...)
}

func mustSpec(t *testing.T, rawURL string) *model.RequestSpec {
	t.Helper()
	spec, err := model.NewRequestSpec(rawURL)
	if err != nil {
		t.Fatalf("NewRequestSpec(%q): %v", rawURL, err)
	}
	return spec
}

func TestEncodeForwardRequestGet(t *testing.T) {
	spec := mustSpec(t, "http://backend/index.jsp")

	got, err := EncodeForwardRequest(spec, testLocal, nil)
	if err != nil {
		t.Fatalf("EncodeForwardRequest: %v", err)
	}

	var p bytes.Buffer
	p.Write([]byte{0x02, 0x02})
	p.Write(ajpString("HTTP/1.1"))
	p.Write(ajpString("/index.jsp"))
	p.Write(ajpString("127.0.0.1"))
	p.Write(ajpString("client.local"))
	p.Write(ajpString("backend"))
	p.Write(ajpInt(80))
	p.WriteByte(0)
	p.Write(ajpInt(1))
	p.Write(ajpInt(0xA00B))
	p.Write(ajpString("backend"))
	p.WriteByte(0xFF)
	want := frameOf(MagicToServer, p.Bytes())

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("frame mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeForwardRequestSecureHTTP10WithQuery(t *testing.T) {
	spec := mustSpec(t, "https://backend/search?q=ajp")
	spec.HTTPVersion = "1.0"

	got, err := EncodeForwardRequest(spec, testLocal, nil)
	if err != nil {
		t.Fatalf("EncodeForwardRequest: %v", err)
	}

	var p bytes.Buffer
	p.Write([]byte{0x02, 0x02})
	p.Write(ajpString("HTTP/1.0"))
	p.Write(ajpString("/search"))
	p.Write(ajpString("127.0.0.1"))
	p.Write(ajpString("client.local"))
	p.Write(ajpString("backend"))
	p.Write(ajpInt(443))
	p.WriteByte(1)
	p.Write(ajpInt(1))
	p.Write(ajpInt(0xA00B))
	p.Write(ajpString("backend"))
	p.WriteByte(0x05)
	p.Write(ajpString("q=ajp"))
	p.WriteByte(0xFF)

	if diff := cmp.Diff(frameOf(MagicToServer, p.Bytes()), got); diff != "" {
		t.Errorf("frame mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeForwardRequestFormPost(t *testing.T) {
	spec := mustSpec(t, "http://backend/login")
	spec.Method = model.MethodPost
	spec.SetQueryParam("a", "1")
	spec.SetQueryParam("b", "2")

	body, err := RequestBody(spec)
	if err != nil {
		t.Fatalf("RequestBody: %v", err)
	}
	if string(body) != "a=1&b=2" {
		t.Fatalf("body = %q, want %q", body, "a=1&b=2")
	}

	got, err := EncodeForwardRequest(spec, testLocal, body)
	if err != nil {
		t.Fatalf("EncodeForwardRequest: %v", err)
	}

	var p bytes.Buffer
	p.Write([]byte{0x02, 0x04})
	p.Write(ajpString("HTTP/1.1"))
	p.Write(ajpString("/login"))
	p.Write(ajpString("127.0.0.1"))
	p.Write(ajpString("client.local"))
	p.Write(ajpString("backend"))
	p.Write(ajpInt(80))
	p.WriteByte(0)
	p.Write(ajpInt(3))
	p.Write(ajpInt(0xA00B))
	p.Write(ajpString("backend"))
	p.Write(ajpInt(0xA007))
	p.Write(ajpString(FormContentType))
	p.Write(ajpInt(0xA008))
	p.Write(ajpString("7"))
	p.WriteByte(0xFF)

	if diff := cmp.Diff(frameOf(MagicToServer, p.Bytes()), got); diff != "" {
		t.Errorf("frame mismatch (-want +got):\n%s", diff)
	}
}

func TestRequestHeadersCountMatchesEmitted(t *testing.T) {
	tests := []struct {
		name    string
		method  model.Method
		body    model.BodySource
		headers map[string]string
		want    []model.Header
	}{
		{
			name:    "caller host is folded into the host header",
			method:  model.MethodGet,
			headers: map[string]string{"Host": "vhost.example"},
			want:    []model.Header{{Name: "host", Value: "vhost.example"}},
		},
		{
			name:    "form post replaces caller content headers",
			method:  model.MethodPost,
			headers: map[string]string{"HOST": "vhost.example", "Content-Type": "text/plain"},
			want: []model.Header{
				{Name: "host", Value: "vhost.example"},
				{Name: "content-type", Value: FormContentType},
				{Name: "content-length", Value: "0"},
			},
		},
		{
			name:    "inline body keeps caller content type",
			method:  model.MethodPost,
			body:    model.BodySource{Kind: model.BodyInline, Data: []byte("{}")},
			headers: map[string]string{"Content-Type": "application/json"},
			want: []model.Header{
				{Name: "host", Value: "backend"},
				{Name: "Content-Type", Value: "application/json"},
				{Name: "content-length", Value: "2"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := mustSpec(t, "http://backend/")
			spec.Method = tt.method
			spec.Body = tt.body
			spec.Headers = model.NewHeaders(tt.headers)

			body, err := RequestBody(spec)
			if err != nil {
				t.Fatalf("RequestBody: %v", err)
			}
			got := RequestHeaders(spec, body)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("headers mismatch (-want +got):\n%s", diff)
			}

			frame, err := EncodeForwardRequest(spec, testLocal, body)
			if err != nil {
				t.Fatalf("EncodeForwardRequest: %v", err)
			}
			if n := declaredHeaderCount(t, frame); n != len(got) {
				t.Errorf("declared header count = %d, emitted %d", n, len(got))
			}
		})
	}
}

// declaredHeaderCount walks a forward request frame up to its header count
func declaredHeaderCount(t *testing.T, frame []byte) int {
	t.Helper()
	d := newDecoder(frame[FrameHeaderSize:])
	d.pos = 2
	for i := 0; i < 5; i++ {
		if _, err := d.string(); err != nil {
			t.Fatalf("walk frame: %v", err)
		}
	}
	d.pos += 3
	n, err := d.int()
	if err != nil {
		t.Fatalf("walk frame: %v", err)
	}
	return n
}

func TestEncodeForwardRequestTooLarge(t *testing.T) {
	spec := mustSpec(t, "http://backend/")
	spec.Headers.Set("X-Padding", strings.Repeat("x", MaxPacketSize))

	_, err := EncodeForwardRequest(spec, testLocal, nil)
	if !errors.Is(err, model.ErrConfiguration) {
		t.Fatalf("err = %v, want ErrConfiguration", err)
	}
}

func TestEncodeForwardRequestRejectsNonLatin1(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.RequestSpec)
	}{
		{"header value", func(s *model.RequestSpec) { s.Headers.Set("X-Price", "10€") }},
		{"header name", func(s *model.RequestSpec) { s.Headers.Set("X-Prix-€", "10") }},
		{"raw query", func(s *model.RequestSpec) { s.URL.RawQuery = "q=\u65e5\u672c" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := mustSpec(t, "http://backend/")
			tt.mutate(spec)
			frame, err := EncodeForwardRequest(spec, testLocal, nil)
			if !errors.Is(err, model.ErrConfiguration) {
				t.Fatalf("err = %v, want ErrConfiguration", err)
			}
			if frame != nil {
				t.Errorf("frame returned alongside error: % x", frame)
			}
		})
	}
}

func TestEncodeForwardRequestLatin1Value(t *testing.T) {
	spec := mustSpec(t, "http://backend/")
	spec.Headers.Set("X-Name", "caf\u00e9")

	frame, err := EncodeForwardRequest(spec, testLocal, nil)
	if err != nil {
		t.Fatalf("EncodeForwardRequest: %v", err)
	}
	if !bytes.Contains(frame, []byte{0x00, 0x04, 'c', 'a', 'f', 0xE9, 0x00}) {
		t.Errorf("frame does not carry the Latin-1 value: % x", frame)
	}
	if bytes.IndexByte(frame, 0x1A) >= 0 {
		t.Errorf("frame carries a substitution byte: % x", frame)
	}
}

func TestEncodeBodyChunk(t *testing.T) {
	got, err := EncodeBodyChunk([]byte("a=1"))
	if err != nil {
		t.Fatalf("EncodeBodyChunk: %v", err)
	}
	want := []byte{0x12, 0x34, 0x00, 0x05, 0x00, 0x03, 'a', '=', '1'}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("chunk mismatch (-want +got):\n%s", diff)
	}

	empty, err := EncodeBodyChunk(nil)
	if err != nil {
		t.Fatalf("EncodeBodyChunk(nil): %v", err)
	}
	if diff := cmp.Diff([]byte{0x12, 0x34, 0x00, 0x02, 0x00, 0x00}, empty); diff != "" {
		t.Errorf("empty chunk mismatch (-want +got):\n%s", diff)
	}

	if _, err := EncodeBodyChunk(make([]byte, MaxBodyChunkSize+1)); err == nil {
		t.Error("expected an error for an oversized chunk")
	}
}

func TestDecodeFrameHeader(t *testing.T) {
	dir, n, err := DecodeFrameHeader([]byte{'A', 'B', 0x01, 0x02})
	if err != nil || dir != ToClient || n != 0x0102 {
		t.Errorf("DecodeFrameHeader = (%v, %d, %v), want (ToClient, 258, nil)", dir, n, err)
	}
	if _, _, err := DecodeFrameHeader([]byte{'A', 'B', 0x00}); !errors.Is(err, model.ErrProtocol) {
		t.Errorf("short header: err = %v, want ErrProtocol", err)
	}
	if _, _, err := DecodeFrameHeader([]byte{0xDE, 0xAD, 0x00, 0x01}); !errors.Is(err, model.ErrProtocol) {
		t.Errorf("bad magic: err = %v, want ErrProtocol", err)
	}
}

func TestDecodeHeadersMessage(t *testing.T) {
	var p bytes.Buffer
	p.WriteByte(byte(TypeSendHeaders))
	p.Write(ajpInt(200))
	p.Write(ajpString("OK"))
	p.Write(ajpInt(2))
	p.Write(ajpInt(0xA001))
	p.Write(ajpString("text/html"))
	p.Write(ajpString("X-Powered-By"))
	p.Write(ajpString("Servlet/3.0"))

	msg, err := DecodeHeadersMessage(p.Bytes())
	if err != nil {
		t.Fatalf("DecodeHeadersMessage: %v", err)
	}
	want := &SendHeaders{
		Status: 200,
		Reason: "OK",
		Headers: []model.Header{
			{Name: "Content-Type", Value: "text/html"},
			{Name: "X-Powered-By", Value: "Servlet/3.0"},
		},
	}
	if diff := cmp.Diff(want, msg); diff != "" {
		t.Errorf("message mismatch (-want +got):\n%s", diff)
	}
	wantBlock := "HTTP/1.1 200 OK\nContent-Type: text/html\nX-Powered-By: Servlet/3.0\n"
	if block := msg.Block(); block != wantBlock {
		t.Errorf("Block() = %q, want %q", block, wantBlock)
	}
}

func TestDecodeHeadersMessageErrors(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
	}{
		{"wrong type", []byte{byte(TypeSendBodyChunk), 0x00, 0x00}},
		{"truncated status", []byte{byte(TypeSendHeaders), 0x00}},
		{"missing headers", append(append([]byte{byte(TypeSendHeaders)}, ajpInt(200)...), append(ajpString("OK"), ajpInt(1)...)...)},
		{"unknown code", append(append([]byte{byte(TypeSendHeaders)}, ajpInt(200)...), append(append(ajpString("OK"), ajpInt(1)...), ajpInt(0xA0FF)...)...)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeHeadersMessage(tt.payload); !errors.Is(err, model.ErrProtocol) {
				t.Errorf("err = %v, want ErrProtocol", err)
			}
		})
	}
}

func TestDecodeBodyChunk(t *testing.T) {
	payload := append([]byte{byte(TypeSendBodyChunk)}, ajpInt(5)...)
	payload = append(payload, "hello"...)
	payload = append(payload, 0)

	got, err := DecodeBodyChunk(payload)
	if err != nil {
		t.Fatalf("DecodeBodyChunk: %v", err)
	}
	if string(got) != "hello" {
		t.Errorf("chunk = %q, want %q", got, "hello")
	}

	if _, err := DecodeBodyChunk(payload[:5]); !errors.Is(err, model.ErrProtocol) {
		t.Errorf("underflow: err = %v, want ErrProtocol", err)
	}
}

func TestDecodeEndResponseAndGetBodyChunk(t *testing.T) {
	reuse, err := DecodeEndResponse([]byte{byte(TypeEndResponse), 0})
	if err != nil || reuse {
		t.Errorf("DecodeEndResponse(reuse=0) = (%v, %v)", reuse, err)
	}
	reuse, err = DecodeEndResponse([]byte{byte(TypeEndResponse)})
	if err != nil || !reuse {
		t.Errorf("DecodeEndResponse(no flag) = (%v, %v)", reuse, err)
	}

	n, err := DecodeGetBodyChunk(append([]byte{byte(TypeGetBodyChunk)}, ajpInt(100)...))
	if err != nil || n != 100 {
		t.Errorf("DecodeGetBodyChunk = (%d, %v), want (100, nil)", n, err)
	}
}

func TestReadFrame(t *testing.T) {
	payload := []byte{byte(TypeEndResponse), 1}
	got, err := ReadFrame(bytes.NewReader(frameOf(MagicToClient, payload)), nil)
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if diff := cmp.Diff(payload, got); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}

	truncated := frameOf(MagicToClient, payload)[:5]
	if _, err := ReadFrame(bytes.NewReader(truncated), nil); !errors.Is(err, model.ErrProtocol) {
		t.Errorf("truncated: err = %v, want ErrProtocol", err)
	}
	if _, err := ReadFrame(bytes.NewReader([]byte{'A', 'B'}), nil); !errors.Is(err, model.ErrProtocol) {
		t.Errorf("short header: err = %v, want ErrProtocol", err)
	}
	if _, err := ReadFrame(bytes.NewReader(frameOf(MagicToServer, payload)), nil); !errors.Is(err, model.ErrProtocol) {
		t.Errorf("wrong direction: err = %v, want ErrProtocol", err)
	}
}

func TestHeaderCodeTables(t *testing.T) {
	requestCodes := map[string]int{
		"Accept":         0xA001,
		"content-type":   0xA007,
		"CONTENT-LENGTH": 0xA008,
		"host":           0xA00B,
		"User-Agent":     0xA00E,
		"X-Custom":       0,
	}
	for name, want := range requestCodes {
		if got := RequestHeaderCode(name); got != want {
			t.Errorf("RequestHeaderCode(%q) = %#x, want %#x", name, got, want)
		}
	}

	if name, ok := ResponseHeaderName(0xA00B); !ok || name != "WWW-Authenticate" {
		t.Errorf("ResponseHeaderName(0xA00B) = (%q, %v)", name, ok)
	}
	if _, ok := ResponseHeaderName(0xA00C); ok {
		t.Error("ResponseHeaderName(0xA00C) should be unknown")
	}
	if _, ok := ResponseHeaderName(0xA000); ok {
		t.Error("ResponseHeaderName(0xA000) should be unknown")
	}
}
