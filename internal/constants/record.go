package constants

// Record geometry of the Blitz amiibo save block.
const (
	// PayloadSize is the cleartext secret data length.
	PayloadSize = 184

	// PaddingSize is the clear prefix transmitted next to the encrypted block.
	PaddingSize = 8

	// MessageSize is one CMC super-block and the decrypted record size (0xC0).
	MessageSize = PayloadSize + PaddingSize

	// TotalEncSize is the signed record size on disk (0xC8).
	TotalEncSize = MessageSize + PaddingSize

	// HashSize is the truncated hash length used by the reference deployment.
	HashSize = 16

	// MaxHashLength is the exclusive upper bound for the hash length parameter.
	MaxHashLength = 0x20
)

// Block cipher constants.
const (
	// CipherBlockSize is the AES block size.
	CipherBlockSize = 16

	// CipherKeySize is the derived AES-128 key length.
	CipherKeySize = 16
)

// File suffixes written by the CLI tools.
const (
	DecSuffix = ".dec"
	EncSuffix = ".enc"
)
