package crypto

import "errors"

var (
	// ErrHashLength is returned when the hash length parameter is out of range.
	ErrHashLength = errors.New("hash length out of range")

	// ErrShortInput is returned when a cleartext or signed record is too short.
	ErrShortInput = errors.New("input too short")

	// ErrShortBuffer is returned when the destination buffer cannot hold the output.
	// The returned count is the required capacity.
	ErrShortBuffer = errors.New("output buffer too small")

	// ErrHashMismatch is returned by Verify when no decryption candidate carries
	// a matching embedded hash. The output is still populated but unauthenticated.
	ErrHashMismatch = errors.New("embedded hash mismatch")

	// ErrBadKeyString is returned for key strings that are not colon-hex.
	ErrBadKeyString = errors.New("malformed key string")

	// ErrKeySize is returned when the key material does not fit the message geometry.
	ErrKeySize = errors.New("key size does not match message size")
)
