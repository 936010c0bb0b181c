package crypto

import (
	"fmt"
	"hash"
)

// RecoverableMessage is a message-recovery block: a data portion followed by
// a truncated hash of the full cleartext it was built from.
type RecoverableMessage []byte

// Data returns the data portion for the given hash length.
func (m RecoverableMessage) Data(hashLength int) []byte {
	return m[:len(m)-hashLength]
}

// Digest returns the embedded truncated hash.
func (m RecoverableMessage) Digest(hashLength int) []byte {
	return m[len(m)-hashLength:]
}

// RecoveryCodec builds and splits recoverable messages.
type RecoveryCodec struct {
	newHash func() hash.Hash
}

// NewRecoveryCodec returns a codec hashing with newHash.
func NewRecoveryCodec(newHash func() hash.Hash) RecoveryCodec {
	return RecoveryCodec{newHash: newHash}
}

// Build fills msg with the trailing len(msg)-hashLength bytes of cleartext
// followed by the first hashLength bytes of hash(cleartext).
func (rc RecoveryCodec) Build(msg RecoverableMessage, cleartext []byte, hashLength int) error {
	if hashLength < 0 || len(msg) <= hashLength {
		return fmt.Errorf("%w: message of %d bytes cannot hold a %d byte hash", ErrHashLength, len(msg), hashLength)
	}
	dataLength := len(msg) - hashLength
	if len(cleartext) < dataLength {
		return fmt.Errorf("%w: cleartext %d < %d", ErrShortInput, len(cleartext), dataLength)
	}

	sum := rc.Sum(cleartext)
	if len(sum) < hashLength {
		return fmt.Errorf("%w: digest has only %d bytes", ErrHashLength, len(sum))
	}

	copy(msg.Data(hashLength), cleartext[len(cleartext)-dataLength:])
	copy(msg.Digest(hashLength), sum[:hashLength])
	return nil
}

// Recover splits msg into its data portion and embedded hash.
func (rc RecoveryCodec) Recover(msg RecoverableMessage, hashLength int) (data, digest []byte, err error) {
	if hashLength < 0 || len(msg) <= hashLength {
		return nil, nil, fmt.Errorf("%w: message of %d bytes cannot hold a %d byte hash", ErrHashLength, len(msg), hashLength)
	}
	return msg.Data(hashLength), msg.Digest(hashLength), nil
}

// Sum hashes the concatenation of parts.
func (rc RecoveryCodec) Sum(parts ...[]byte) []byte {
	h := rc.newHash()
	for _, p := range parts {
		h.Write(p)
	}
	return h.Sum(nil)
}
