package ajp13

import (
	"encoding/binary"

	"github.com/ajpbench/ajpbench-go-client/internal/domain/model"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// encoder appends AJP primitives to a frame under construction. The first
// error sticks; later writes are ignored.
type encoder struct {
	buf    []byte
	latin1 *encoding.Encoder
	err    error
}

func newEncoder() *encoder {
	e := &encoder{
		buf:    make([]byte, FrameHeaderSize, 256),
		latin1: charmap.ISO8859_1.NewEncoder(),
	}
	return e
}

func (e *encoder) byte(b byte) {
	if e.err != nil {
		return
	}
	e.buf = append(e.buf, b)
}

func (e *encoder) int(n int) {
	if e.err != nil {
		return
	}
	if n < 0 || n > 0xFFFF {
		e.err = model.Configurationf("value %d does not fit in two bytes", n)
		return
	}
	e.buf = binary.BigEndian.AppendUint16(e.buf, uint16(n))
}

func (e *encoder) bytes(b []byte) {
	if e.err != nil {
		return
	}
	e.buf = append(e.buf, b...)
}

// string writes a length-prefixed, NUL terminated Latin-1 string.
// Characters outside Latin-1 are a configuration error.
func (e *encoder) string(s string) {
	if e.err != nil {
		return
	}
	b, err := e.latin1.Bytes([]byte(s))
	if err != nil {
		e.err = model.Configurationf("%q cannot be encoded as Latin-1: %v", s, err)
		return
	}
	if len(b) >= nullStringLength {
		e.err = model.Configurationf("string of %d bytes is too long", len(b))
		return
	}
	e.int(len(b))
	e.bytes(b)
	e.byte(0)
}

// nullString writes the null string marker
func (e *encoder) nullString() {
	e.int(nullStringLength)
}

// frame fills in the frame header and returns the finished frame
func (e *encoder) frame() ([]byte, error) {
	if e.err != nil {
		return nil, e.err
	}
	size := len(e.buf) - FrameHeaderSize
	if size > MaxPayloadSize {
		return nil, model.Configurationf("frame payload of %d bytes exceeds %d", size, MaxPayloadSize)
	}
	binary.BigEndian.PutUint16(e.buf[0:], MagicToServer)
	binary.BigEndian.PutUint16(e.buf[2:], uint16(size))
	return e.buf, nil
}

// decoder reads AJP primitives from a frame payload. Reads past the end
// report ErrProtocol.
type decoder struct {
	buf []byte
	pos int
}

func newDecoder(payload []byte) *decoder {
	return &decoder{buf: payload}
}

func (d *decoder) need(n int) error {
	if d.pos+n > len(d.buf) {
		return model.Protocolf("payload underflow: need %d bytes at offset %d of %d", n, d.pos, len(d.buf))
	}
	return nil
}

func (d *decoder) byte() (byte, error) {
	if err := d.need(1); err != nil {
		return 0, err
	}
	b := d.buf[d.pos]
	d.pos++
	return b, nil
}

func (d *decoder) peekInt() (int, error) {
	if err := d.need(2); err != nil {
		return 0, err
	}
	return int(binary.BigEndian.Uint16(d.buf[d.pos:])), nil
}

func (d *decoder) int() (int, error) {
	n, err := d.peekInt()
	if err != nil {
		return 0, err
	}
	d.pos += 2
	return n, nil
}

func (d *decoder) bytes(n int) ([]byte, error) {
	if err := d.need(n); err != nil {
		return nil, err
	}
	b := d.buf[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}

// string reads a length-prefixed Latin-1 string and skips its terminator.
// The null string decodes as "".
func (d *decoder) string() (string, error) {
	n, err := d.int()
	if err != nil {
		return "", err
	}
	if n == nullStringLength {
		return "", nil
	}
	raw, err := d.bytes(n)
	if err != nil {
		return "", err
	}
	// the terminator is optional on the last field of a frame
	if d.pos < len(d.buf) {
		d.pos++
	}
	s, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return "", model.Protocolf("invalid string: %v", err)
	}
	return string(s), nil
}
