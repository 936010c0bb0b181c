package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/subtle"
	"fmt"

	"github.com/udisondev/woomy/internal/constants"
)

const blockSize = constants.CipherBlockSize

// CMC implements the CBC-Mask-CBC wide-block mode over AES-128.
//
// Encrypt runs a zero-IV CBC pass forward, derives a mask by doubling the XOR
// of the first and last pass-one blocks, then runs a second CBC pass in reverse
// block order where every block is whitened with the mask and the chain carries
// the whitened input rather than the cipher output. Decrypt recovers the mask
// from the ciphertext alone because the whitening cancels in first^last.
type CMC struct {
	block cipher.Block
}

// NewCMC creates a CMC cipher keyed with a 16-byte AES key.
func NewCMC(key []byte) (*CMC, error) {
	if len(key) != constants.CipherKeySize {
		return nil, fmt.Errorf("cmc: key must be %d bytes, got %d", constants.CipherKeySize, len(key))
	}
	b, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating aes cipher: %w", err)
	}
	return &CMC{block: b}, nil
}

// Encrypt wraps src into dst. len(src) must be a non-zero multiple of 16 and
// dst at least as long. dst and src may overlap exactly.
func (c *CMC) Encrypt(dst, src []byte) error {
	if err := checkSpan(dst, src); err != nil {
		return fmt.Errorf("cmc encrypt: %w", err)
	}
	c.wrap(dst[:len(src)], src)
	return nil
}

// Decrypt unwraps src into dst under the same size rules as Encrypt.
func (c *CMC) Decrypt(dst, src []byte) error {
	if err := checkSpan(dst, src); err != nil {
		return fmt.Errorf("cmc decrypt: %w", err)
	}
	c.unwrap(dst[:len(src)], src)
	return nil
}

func checkSpan(dst, src []byte) error {
	if len(src) == 0 || len(src)%blockSize != 0 {
		return fmt.Errorf("size %d is not a multiple of %d", len(src), blockSize)
	}
	if len(dst) < len(src) {
		return fmt.Errorf("dst size %d < src size %d", len(dst), len(src))
	}
	return nil
}

// wrap returns the mask so tests can compare it with the one unwrap recovers.
func (c *CMC) wrap(dst, src []byte) [blockSize]byte {
	n := len(src)

	// Phase 1: CBC forward, zero IV.
	var chain, x [blockSize]byte
	for off := 0; off < n; off += blockSize {
		subtle.XORBytes(x[:], chain[:], src[off:off+blockSize])
		c.block.Encrypt(dst[off:off+blockSize], x[:])
		copy(chain[:], dst[off:off+blockSize])
	}

	var tweak [blockSize]byte
	subtle.XORBytes(tweak[:], chain[:], dst[:blockSize])
	mask := double(tweak)

	// Phase 2: CBC in reverse block order over mask-whitened blocks.
	var prev, w [blockSize]byte
	for off := n - blockSize; off >= 0; off -= blockSize {
		out := dst[off : off+blockSize]
		subtle.XORBytes(w[:], out, mask[:])
		c.block.Encrypt(out, w[:])
		subtle.XORBytes(out, out, prev[:])
		prev = w
	}
	return mask
}

func (c *CMC) unwrap(dst, src []byte) [blockSize]byte {
	n := len(src)

	// Undo phase 2. This yields every phase 1 block XORed with the mask.
	var prev, x [blockSize]byte
	for off := n - blockSize; off >= 0; off -= blockSize {
		subtle.XORBytes(x[:], prev[:], src[off:off+blockSize])
		c.block.Decrypt(dst[off:off+blockSize], x[:])
		copy(prev[:], dst[off:off+blockSize])
	}

	// (first ^ mask) ^ (last ^ mask) == first ^ last.
	var tweak [blockSize]byte
	subtle.XORBytes(tweak[:], dst[n-blockSize:n], dst[:blockSize])
	mask := double(tweak)
	for off := 0; off < n; off += blockSize {
		subtle.XORBytes(dst[off:off+blockSize], dst[off:off+blockSize], mask[:])
	}

	// Undo phase 1: CBC decrypt forward, zero IV.
	var chain, cur [blockSize]byte
	for off := 0; off < n; off += blockSize {
		copy(cur[:], dst[off:off+blockSize])
		c.block.Decrypt(dst[off:off+blockSize], cur[:])
		subtle.XORBytes(dst[off:off+blockSize], dst[off:off+blockSize], chain[:])
		chain = cur
	}
	return mask
}

// double multiplies a 128-bit big-endian value by x in GF(2^128)
// with the reduction polynomial x^128 + x^7 + x^2 + x + 1.
func double(in [blockSize]byte) [blockSize]byte {
	var out [blockSize]byte
	var carry byte
	for i := blockSize - 1; i >= 0; i-- {
		out[i] = in[i]<<1 | carry
		carry = in[i] >> 7
	}
	if in[0]&0x80 != 0 {
		out[blockSize-1] ^= 0x87
	}
	return out
}
