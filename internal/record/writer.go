package record

import (
	"errors"
	"unicode/utf16"
)

// ErrOverflow is returned by WriteByte when the buffer is full.
var ErrOverflow = errors.New("record writer overflow")

// Writer writes fixed-width little-endian fields into a buffer of known size.
// Writes past the end are dropped and reported by Overflow.
type Writer struct {
	buf []byte
	pos int
	err bool
}

// NewWriter creates a writer over a zeroed buffer of size bytes.
func NewWriter(size int) *Writer {
	return &Writer{buf: make([]byte, size)}
}

func (w *Writer) reserve(n int) []byte {
	if w.pos+n > len(w.buf) {
		w.err = true
		return nil
	}
	b := w.buf[w.pos : w.pos+n]
	w.pos += n
	return b
}

// WriteByte writes a single byte.
func (w *Writer) WriteByte(v byte) error {
	b := w.reserve(1)
	if b == nil {
		return ErrOverflow
	}
	b[0] = v
	return nil
}

// WriteInt writes an int32 (4 bytes, LE).
func (w *Writer) WriteInt(val int32) {
	if b := w.reserve(4); b != nil {
		b[0] = byte(val)
		b[1] = byte(val >> 8)
		b[2] = byte(val >> 16)
		b[3] = byte(val >> 24)
	}
}

// WriteFixedString writes s as UTF-16LE into exactly n code units,
// truncating or NUL-padding as needed.
func (w *Writer) WriteFixedString(s string, n int) {
	b := w.reserve(2 * n)
	if b == nil {
		return
	}
	units := utf16.Encode([]rune(s))
	for i := 0; i < n && i < len(units); i++ {
		b[2*i] = byte(units[i])
		b[2*i+1] = byte(units[i] >> 8)
	}
}

// WriteBytes writes raw bytes.
func (w *Writer) WriteBytes(data []byte) {
	if b := w.reserve(len(data)); b != nil {
		copy(b, data)
	}
}

// Skip leaves n zero bytes.
func (w *Writer) Skip(n int) {
	w.reserve(n)
}

// Bytes returns the whole buffer, including any unwritten zero tail.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return w.pos
}

// Overflow reports whether any write did not fit.
func (w *Writer) Overflow() bool {
	return w.err
}
