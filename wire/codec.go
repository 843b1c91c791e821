// Package wire implements the versioned, deterministic binary codec used
// for every message that crosses a peer-to-peer session: a leading version
// byte selects a decoder, then fixed-width little-endian integers and
// compact length-prefixed sequences follow, in the spirit of a SCALE-style
// encoding. No reflection: every message type hand-rolls Encode/Decode so
// the wire format is exact and auditable.
package wire

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// ErrUnknownVersion is returned by Decode when the leading version byte
// does not match any registered message kind.
var ErrUnknownVersion = errors.New("wire: unknown message version")

// Kind tags the message variant carried by a frame; it is encoded as the
// version byte.
type Kind byte

const (
	KindSumeragiPacket Kind = 1
	KindBlockSync      Kind = 2
	KindHealthCheck    Kind = 3
)

// Message is implemented by every wire type.
type Message interface {
	Kind() Kind
	EncodeBody(w *Writer)
	DecodeBody(r *Reader) error
}

// Encode serialises a full frame: kind byte followed by the message body.
func Encode(m Message) []byte {
	w := NewWriter()
	w.WriteByte(byte(m.Kind()))
	m.EncodeBody(w)
	return w.Bytes()
}

// Decode inspects the leading kind byte and dispatches to the matching
// zero-value message, returning the populated Message.
func Decode(buf []byte) (Message, error) {
	r := NewReader(buf)
	kindByte, err := r.ReadByte()
	if err != nil {
		return nil, errors.Wrap(err, "wire: reading kind byte")
	}
	var m Message
	switch Kind(kindByte) {
	case KindSumeragiPacket:
		m = &SumeragiPacket{}
	case KindBlockSync:
		m = &BlockSync{}
	case KindHealthCheck:
		m = &HealthCheck{}
	default:
		return nil, ErrUnknownVersion
	}
	if err := m.DecodeBody(r); err != nil {
		return nil, errors.Wrap(err, "wire: decoding body")
	}
	return m, nil
}

// Writer accumulates encoded bytes.
type Writer struct {
	buf []byte
}

func NewWriter() *Writer { return &Writer{} }

func (w *Writer) Bytes() []byte { return w.buf }

func (w *Writer) WriteByte(b byte) { w.buf = append(w.buf, b) }

func (w *Writer) WriteU32(v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

func (w *Writer) WriteU64(v uint64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

func (w *Writer) WriteI64(v int64) { w.WriteU64(uint64(v)) }

// WriteBytes writes a compact length prefix (u32 LE) followed by the bytes.
func (w *Writer) WriteBytes(b []byte) {
	w.WriteU32(uint32(len(b)))
	w.buf = append(w.buf, b...)
}

// WriteString writes a length-prefixed UTF-8 string.
func (w *Writer) WriteString(s string) { w.WriteBytes([]byte(s)) }

// WriteBool writes a single byte, 1 for true.
func (w *Writer) WriteBool(b bool) {
	if b {
		w.WriteByte(1)
	} else {
		w.WriteByte(0)
	}
}

// Reader consumes encoded bytes sequentially, tracking an offset.
type Reader struct {
	buf []byte
	off int
}

func NewReader(buf []byte) *Reader { return &Reader{buf: buf} }

func (r *Reader) ReadByte() (byte, error) {
	if r.off >= len(r.buf) {
		return 0, io.ErrUnexpectedEOF
	}
	b := r.buf[r.off]
	r.off++
	return b, nil
}

func (r *Reader) ReadU32() (uint32, error) {
	if r.off+4 > len(r.buf) {
		return 0, io.ErrUnexpectedEOF
	}
	v := binary.LittleEndian.Uint32(r.buf[r.off : r.off+4])
	r.off += 4
	return v, nil
}

func (r *Reader) ReadU64() (uint64, error) {
	if r.off+8 > len(r.buf) {
		return 0, io.ErrUnexpectedEOF
	}
	v := binary.LittleEndian.Uint64(r.buf[r.off : r.off+8])
	r.off += 8
	return v, nil
}

func (r *Reader) ReadI64() (int64, error) {
	v, err := r.ReadU64()
	return int64(v), err
}

func (r *Reader) ReadBytes() ([]byte, error) {
	n, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if r.off+int(n) > len(r.buf) {
		return nil, io.ErrUnexpectedEOF
	}
	out := make([]byte, n)
	copy(out, r.buf[r.off:r.off+int(n)])
	r.off += int(n)
	return out, nil
}

func (r *Reader) ReadString() (string, error) {
	b, err := r.ReadBytes()
	return string(b), err
}

func (r *Reader) ReadBool() (bool, error) {
	b, err := r.ReadByte()
	return b != 0, err
}

// Remaining reports whether the reader has unconsumed bytes.
func (r *Reader) Remaining() int { return len(r.buf) - r.off }
