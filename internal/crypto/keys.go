package crypto

import (
	"fmt"
	"math/big"
	"strings"
	"unicode"
)

// Exponent selects which exponent of a KeyMaterial is applied.
type Exponent int

const (
	// PublicExponent is E, used to open a signature.
	PublicExponent Exponent = iota
	// PrivateExponent is D, used to produce a signature.
	PrivateExponent
)

// KeyMaterial holds an RSA modulus with its public and private exponents.
// It is immutable after construction and safe for concurrent use.
type KeyMaterial struct {
	nBytes []byte
	dBytes []byte
	eBytes []byte

	n *big.Int
	d *big.Int
	e *big.Int
}

// NewKeyMaterial builds key material from big-endian modulus, private exponent
// and public exponent bytes. The byte slices are copied.
func NewKeyMaterial(n, d, e []byte) (*KeyMaterial, error) {
	km := &KeyMaterial{
		nBytes: clone(n),
		dBytes: clone(d),
		eBytes: clone(e),
	}
	km.n = bytesToInt(km.nBytes)
	km.d = bytesToInt(km.dBytes)
	km.e = bytesToInt(km.eBytes)

	if km.n.Sign() == 0 {
		return nil, fmt.Errorf("%w: zero modulus", ErrKeySize)
	}
	return km, nil
}

// NewKeyMaterialFromStrings decodes three colon-hex key strings.
func NewKeyMaterialFromStrings(n, d, e string) (*KeyMaterial, error) {
	nb, err := DecodeKeyString(n)
	if err != nil {
		return nil, fmt.Errorf("decoding modulus: %w", err)
	}
	db, err := DecodeKeyString(d)
	if err != nil {
		return nil, fmt.Errorf("decoding private exponent: %w", err)
	}
	eb, err := DecodeKeyString(e)
	if err != nil {
		return nil, fmt.Errorf("decoding public exponent: %w", err)
	}
	return NewKeyMaterial(nb, db, eb)
}

// Size returns the width of the modulus encoding in bytes.
// Every exponentiation result is left-padded to this width.
func (k *KeyMaterial) Size() int {
	return len(k.nBytes)
}

// Modulus returns a copy of the modulus bytes as decoded.
func (k *KeyMaterial) Modulus() []byte {
	return clone(k.nBytes)
}

// Exponentiate computes value^exp mod N over big-endian unsigned integers.
// The result is exactly Size() bytes.
func (k *KeyMaterial) Exponentiate(value []byte, exp Exponent) []byte {
	x := k.e
	if exp == PrivateExponent {
		x = k.d
	}
	r := new(big.Int).Exp(bytesToInt(value), x, k.n)
	return intToBytes(r, k.Size())
}

// DecodeKeyString decodes a colon-separated hex key string such as "01:00:01".
//
// The output holds one byte per separator plus one. Characters that are not
// letters or digits are skipped while a digit is expected; after two digits
// the next character is consumed as the byte terminator whatever it is. A
// trailing byte without a terminator lands in the last slot, so an odd digit
// count keeps only the high nibble of the final byte.
func DecodeKeyString(s string) ([]byte, error) {
	out := make([]byte, strings.Count(s, ":")+1)

	var (
		state int
		index int
		b     byte
	)
	for _, c := range s {
		if state < 2 {
			if !unicode.IsLetter(c) && !unicode.IsDigit(c) {
				continue
			}
			nibble, ok := hexNibble(c)
			if !ok {
				return nil, fmt.Errorf("%w: invalid hex digit %q", ErrBadKeyString, c)
			}
			if state == 0 {
				nibble <<= 4
			}
			b |= nibble
			state++
			continue
		}

		if index >= len(out) {
			return nil, fmt.Errorf("%w: more bytes than separators", ErrBadKeyString)
		}
		out[index] = b
		index++
		b = 0
		state = 0
	}

	if state != 0 {
		out[len(out)-1] = b
	}
	return out, nil
}

func hexNibble(c rune) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return byte(c - '0'), true
	case c >= 'a' && c <= 'f':
		return byte(c-'a') + 10, true
	case c >= 'A' && c <= 'F':
		return byte(c-'A') + 10, true
	}
	return 0, false
}

// bytesToInt and intToBytes are the only big-endian unsigned conversions
// in the package.
func bytesToInt(b []byte) *big.Int {
	return new(big.Int).SetBytes(b)
}

func intToBytes(v *big.Int, size int) []byte {
	out := make([]byte, size)
	v.FillBytes(out)
	return out
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
