package crypto

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"hash"

	"github.com/udisondev/woomy/internal/constants"
)

// discardedBits are the bits of the first encrypted byte that Sign clears so
// the value stays below the modulus. Verify has to try every assignment.
const discardedBits byte = 0x80

// Engine signs and verifies records with message recovery.
//
// Sign: the trailing part of the cleartext and a truncated hash of all of it
// form a recoverable message, which is CMC-encrypted under a key derived from
// the clear prefix, has its top bit cleared and is raised to D.
// Verify raises the block to E and tries both values of the cleared bit.
//
// An Engine holds only immutable key material and is safe for concurrent use.
type Engine struct {
	keys        *KeyMaterial
	codec       RecoveryCodec
	messageSize int
}

// NewEngine creates an engine. messageSize must be a positive multiple of the
// AES block size and equal the modulus width.
func NewEngine(keys *KeyMaterial, newHash func() hash.Hash, messageSize int) (*Engine, error) {
	if messageSize <= 0 || messageSize%blockSize != 0 {
		return nil, fmt.Errorf("%w: message size %d is not a multiple of %d", ErrKeySize, messageSize, blockSize)
	}
	if keys.Size() != messageSize {
		return nil, fmt.Errorf("%w: modulus is %d bytes, message is %d", ErrKeySize, keys.Size(), messageSize)
	}
	if size := newHash().Size(); size < constants.CipherKeySize {
		return nil, fmt.Errorf("hash size %d is shorter than the %d byte cipher key", size, constants.CipherKeySize)
	}
	return &Engine{
		keys:        keys,
		codec:       NewRecoveryCodec(newHash),
		messageSize: messageSize,
	}, nil
}

// MessageSize returns the size of the signed block.
func (e *Engine) MessageSize() int {
	return e.messageSize
}

// DeriveKey returns the CMC key for a clear prefix: the first 16 bytes of
// hash(N || E || prefix).
func (e *Engine) DeriveKey(prefix []byte) []byte {
	return e.codec.Sum(e.keys.nBytes, e.keys.eBytes, prefix)[:constants.CipherKeySize]
}

// SignedLen returns the record length Sign produces for a cleartext length.
func (e *Engine) SignedLen(cleartextLen, hashLength int) int {
	return cleartextLen + hashLength
}

// Sign allocates and returns the signed record for cleartext.
func (e *Engine) Sign(cleartext []byte, hashLength int) ([]byte, error) {
	out := make([]byte, max(e.SignedLen(len(cleartext), hashLength), e.messageSize))
	n, err := e.SignTo(out, cleartext, hashLength)
	if err != nil {
		return nil, err
	}
	return out[:n], nil
}

// SignTo writes prefix || signature into dst and returns the bytes written.
// With ErrShortBuffer the returned count is the required capacity.
func (e *Engine) SignTo(dst, cleartext []byte, hashLength int) (int, error) {
	if hashLength < 0 || hashLength >= constants.MaxHashLength {
		return 0, fmt.Errorf("sign: %w: %d", ErrHashLength, hashLength)
	}
	if len(dst) < e.messageSize {
		return e.messageSize, fmt.Errorf("sign: %w: need %d, have %d", ErrShortBuffer, e.messageSize, len(dst))
	}
	required := e.SignedLen(len(cleartext), hashLength)
	if len(dst) < required {
		return required, fmt.Errorf("sign: %w: need %d, have %d", ErrShortBuffer, required, len(dst))
	}
	if len(cleartext) < e.messageSize-hashLength {
		return 0, fmt.Errorf("sign: %w: cleartext %d < %d", ErrShortInput, len(cleartext), e.messageSize-hashLength)
	}

	msg := make(RecoverableMessage, e.messageSize)
	if err := e.codec.Build(msg, cleartext, hashLength); err != nil {
		return 0, fmt.Errorf("sign: %w", err)
	}

	prefix := cleartext[:required-e.messageSize]
	c, err := NewCMC(e.DeriveKey(prefix))
	if err != nil {
		return 0, fmt.Errorf("sign: %w", err)
	}
	c.wrap(msg, msg)
	msg[0] &^= discardedBits

	sr := SignedRecord{
		Prefix:    prefix,
		Signature: e.keys.Exponentiate(msg, PrivateExponent),
	}
	n, err := sr.MarshalTo(dst)
	if err != nil {
		return n, fmt.Errorf("sign: %w", err)
	}
	return n, nil
}

// VerifiedLen returns the cleartext length recovered from a record.
func (e *Engine) VerifiedLen(recordLen, hashLength int) int {
	return recordLen - hashLength
}

// Verify allocates and returns the cleartext recovered from record. On
// ErrHashMismatch the best-effort output is returned along with the error.
func (e *Engine) Verify(record []byte, hashLength int) ([]byte, error) {
	n := e.VerifiedLen(len(record), hashLength)
	if n <= 0 {
		n = 0
	}
	out := make([]byte, n)
	n, err := e.VerifyTo(out, record, hashLength)
	if err != nil && !errors.Is(err, ErrHashMismatch) {
		return nil, err
	}
	return out[:n], err
}

// VerifyTo recovers the cleartext of record into dst and returns its length.
//
// The top bit of the encrypted message was discarded by Sign, so every
// assignment of the discarded bits is decrypted in turn and the first one
// whose embedded hash matches is accepted. When none matches, dst still holds
// the first candidate and ErrHashMismatch is returned: the output is then
// not authenticated.
func (e *Engine) VerifyTo(dst, record []byte, hashLength int) (int, error) {
	if hashLength < 0 || hashLength >= constants.MaxHashLength {
		return 0, fmt.Errorf("verify: %w: %d", ErrHashLength, hashLength)
	}
	if len(record) <= hashLength {
		return 0, fmt.Errorf("verify: %w: record %d <= hash length %d", ErrShortInput, len(record), hashLength)
	}
	messageLength := e.VerifiedLen(len(record), hashLength)
	if len(dst) < messageLength {
		return messageLength, fmt.Errorf("verify: %w: need %d, have %d", ErrShortBuffer, messageLength, len(dst))
	}

	sr, err := ParseSignedRecord(record, e.messageSize)
	if err != nil {
		return 0, fmt.Errorf("verify: %w", err)
	}

	encrypted := e.keys.Exponentiate(sr.Signature, PublicExponent)
	c, err := NewCMC(e.DeriveKey(sr.Prefix))
	if err != nil {
		return 0, fmt.Errorf("verify: %w", err)
	}

	out := dst[:messageLength]
	copy(out, sr.Prefix)
	data := out[len(sr.Prefix):]

	var first []byte
	candidate := make(RecoverableMessage, e.messageSize)
	for _, bits := range bitAssignments(discardedBits) {
		copy(candidate, encrypted)
		candidate[0] |= bits
		c.unwrap(candidate, candidate)

		payload, digest, err := e.codec.Recover(candidate, hashLength)
		if err != nil {
			return 0, fmt.Errorf("verify: %w", err)
		}
		copy(data, payload)
		if first == nil {
			first = clone(payload)
		}

		sum := e.codec.Sum(out)
		if len(sum) < hashLength {
			return 0, fmt.Errorf("verify: %w: digest has only %d bytes", ErrHashLength, len(sum))
		}
		if subtle.ConstantTimeCompare(sum[:hashLength], digest) == 1 {
			return messageLength, nil
		}
	}

	copy(data, first)
	return messageLength, fmt.Errorf("verify: %w", ErrHashMismatch)
}

// bitAssignments lists every subset of mask in ascending order, starting
// with zero so the first candidate is the value exactly as recovered.
func bitAssignments(mask byte) []byte {
	var out []byte
	sub := 0
	for {
		out = append(out, byte(sub))
		sub = (sub - int(mask)) & int(mask)
		if sub == 0 {
			return out
		}
	}
}
