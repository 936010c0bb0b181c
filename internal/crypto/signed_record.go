package crypto

import (
	"fmt"

	"golang.org/x/crypto/cryptobyte"
)

// SignedRecord is a view of an encrypted record: a clear prefix followed by
// one RSA-signed CMC block.
type SignedRecord struct {
	Prefix    []byte
	Signature []byte
}

// ParseSignedRecord splits record into its clear prefix and a trailing
// signature block of sigSize bytes. The returned slices alias record.
func ParseSignedRecord(record []byte, sigSize int) (SignedRecord, error) {
	if sigSize <= 0 || len(record) < sigSize {
		return SignedRecord{}, fmt.Errorf("%w: record %d bytes, signature block %d", ErrShortInput, len(record), sigSize)
	}

	var sr SignedRecord
	s := cryptobyte.String(record)
	if !s.ReadBytes(&sr.Prefix, len(record)-sigSize) || !s.ReadBytes(&sr.Signature, sigSize) || !s.Empty() {
		return SignedRecord{}, fmt.Errorf("%w: truncated record", ErrShortInput)
	}
	return sr, nil
}

// Len returns the encoded record length.
func (sr SignedRecord) Len() int {
	return len(sr.Prefix) + len(sr.Signature)
}

// MarshalTo writes prefix || signature into dst without growing it.
func (sr SignedRecord) MarshalTo(dst []byte) (int, error) {
	if len(dst) < sr.Len() {
		return sr.Len(), fmt.Errorf("%w: need %d, have %d", ErrShortBuffer, sr.Len(), len(dst))
	}

	b := cryptobyte.NewFixedBuilder(dst[:0:sr.Len()])
	b.AddBytes(sr.Prefix)
	b.AddBytes(sr.Signature)
	out, err := b.Bytes()
	if err != nil {
		return 0, fmt.Errorf("building signed record: %w", err)
	}
	return len(out), nil
}
