package record

import (
	"encoding/binary"
	"fmt"
	"unicode/utf16"
)

// Reader reads fixed-width little-endian fields from a record buffer.
type Reader struct {
	data []byte
	pos  int
}

// NewReader creates a new record reader.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// ReadByte reads a single byte.
func (r *Reader) ReadByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, fmt.Errorf("ReadByte: not enough data (pos=%d, len=%d)", r.pos, len(r.data))
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// ReadInt reads an int32 (4 bytes, LE).
func (r *Reader) ReadInt() (int32, error) {
	if r.pos+4 > len(r.data) {
		return 0, fmt.Errorf("ReadInt: not enough data (pos=%d, len=%d)", r.pos, len(r.data))
	}
	val := int32(binary.LittleEndian.Uint32(r.data[r.pos:]))
	r.pos += 4
	return val, nil
}

// ReadFixedString reads a UTF-16LE string stored in exactly n code units.
// Decoding stops at the first NUL; the full field is always consumed.
func (r *Reader) ReadFixedString(n int) (string, error) {
	if n < 0 || r.pos+2*n > len(r.data) {
		return "", fmt.Errorf("ReadFixedString: not enough data (pos=%d, units=%d, len=%d)", r.pos, n, len(r.data))
	}

	units := make([]uint16, 0, n)
	for i := range n {
		u := binary.LittleEndian.Uint16(r.data[r.pos+2*i:])
		if u == 0 {
			break
		}
		units = append(units, u)
	}
	r.pos += 2 * n
	return string(utf16.Decode(units)), nil
}

// ReadBytes reads n bytes into a new slice.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("ReadBytes: negative count %d", n)
	}
	if r.pos+n > len(r.data) {
		return nil, fmt.Errorf("ReadBytes: not enough data (pos=%d, need=%d, len=%d)", r.pos, n, len(r.data))
	}
	out := make([]byte, n)
	copy(out, r.data[r.pos:r.pos+n])
	r.pos += n
	return out, nil
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

// Position returns the current read position.
func (r *Reader) Position() int {
	return r.pos
}
