package testutil

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"testing"
	"unicode/utf16"
)

// AssertInt32LE проверяет, что int32 значение в записи (little-endian) соответствует ожидаемому.
func AssertInt32LE(t testing.TB, expected int32, record []byte, offset int) {
	t.Helper()

	if len(record) < offset+4 {
		t.Fatalf("record too short: need %d bytes for int32 at offset %d, got %d",
			offset+4, offset, len(record))
	}

	actual := int32(binary.LittleEndian.Uint32(record[offset:]))
	if actual != expected {
		t.Fatalf("int32 mismatch at offset %d: expected %d, got %d", offset, expected, actual)
	}
}

// AssertByteAtOffset проверяет, что байт в записи соответствует ожидаемому.
func AssertByteAtOffset(t testing.TB, expected byte, record []byte, offset int) {
	t.Helper()

	if len(record) <= offset {
		t.Fatalf("record too short: need %d bytes, got %d", offset+1, len(record))
	}

	actual := record[offset]
	if actual != expected {
		t.Fatalf("byte mismatch at offset %d: expected 0x%02X, got 0x%02X", offset, expected, actual)
	}
}

// AssertUTF16Field проверяет UTF-16LE строку фиксированной длины (units кодовых единиц).
// Неиспользованный остаток поля должен быть заполнен нулями.
func AssertUTF16Field(t testing.TB, expected string, record []byte, offset, units int) {
	t.Helper()

	if len(record) < offset+2*units {
		t.Fatalf("record too short: need %d bytes for UTF-16 field at offset %d, got %d",
			offset+2*units, offset, len(record))
	}

	want := utf16.Encode([]rune(expected))
	if len(want) > units {
		t.Fatalf("expected string %q does not fit %d units", expected, units)
	}
	for i := range units {
		var w uint16
		if i < len(want) {
			w = want[i]
		}
		got := binary.LittleEndian.Uint16(record[offset+2*i:])
		if got != w {
			t.Fatalf("UTF-16 field mismatch at offset %d unit %d: expected 0x%04X, got 0x%04X",
				offset, i, w, got)
		}
	}
}

// AssertRecordLength проверяет, что длина записи соответствует ожидаемой.
func AssertRecordLength(t testing.TB, expected int, record []byte) {
	t.Helper()

	if len(record) != expected {
		t.Fatalf("record length mismatch: expected %d bytes, got %d bytes\n%s", expected, len(record), DumpRecord(record))
	}
}

// DumpRecord возвращает hex dump записи для отладки.
func DumpRecord(record []byte) string {
	var buf bytes.Buffer
	for i := 0; i < len(record); i += 16 {
		end := min(i+16, len(record))
		chunk := record[i:end]

		fmt.Fprintf(&buf, "%04x  ", i)
		for j, b := range chunk {
			if j == 8 {
				buf.WriteString(" ")
			}
			fmt.Fprintf(&buf, "%02x ", b)
		}
		buf.WriteString("\n")
	}
	return buf.String()
}
