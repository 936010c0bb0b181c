package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/woomy/internal/constants"
	"github.com/udisondev/woomy/internal/testutil"
)

func newTestEngine(t testing.TB) *Engine {
	t.Helper()
	e, err := NewReferenceEngine()
	require.NoError(t, err)
	return e
}

func TestEngine_SignGolden(t *testing.T) {
	e := newTestEngine(t)

	tests := []struct {
		name    string
		payload []byte
		want    string
	}{
		{"zero payload", make([]byte, constants.PayloadSize), testutil.Vectors.ZeroRecord},
		{"sequential payload", testutil.SeqBytes(constants.PayloadSize, 1, 0), testutil.Vectors.SeqRecord},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Sign(tt.payload, constants.HashSize)
			require.NoError(t, err)
			require.Len(t, got, constants.TotalEncSize)
			assert.Equal(t, testutil.MustHex(tt.want), got)
		})
	}
}

func TestEngine_VerifyGolden(t *testing.T) {
	e := newTestEngine(t)

	tests := []struct {
		name   string
		record string
		want   []byte
	}{
		{"zero payload", testutil.Vectors.ZeroRecord, make([]byte, constants.PayloadSize)},
		{"sequential payload", testutil.Vectors.SeqRecord, testutil.SeqBytes(constants.PayloadSize, 1, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Verify(testutil.MustHex(tt.record), constants.HashSize)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEngine_SignVerifyRoundTrip(t *testing.T) {
	e := newTestEngine(t)

	for range 16 {
		payload := make([]byte, constants.PayloadSize)
		_, err := rand.Read(payload)
		require.NoError(t, err)

		record, err := e.Sign(payload, constants.HashSize)
		require.NoError(t, err)
		require.Len(t, record, constants.TotalEncSize)
		assert.Equal(t, payload[:constants.PaddingSize], record[:constants.PaddingSize], "clear prefix must be copied as is")

		got, err := e.Verify(record, constants.HashSize)
		require.NoError(t, err)
		assert.Equal(t, payload, got)
	}
}

func TestEngine_RoundTripOtherHashLengths(t *testing.T) {
	e := newTestEngine(t)

	for _, hashLength := range []int{8, 12, 20, 31} {
		payload := testutil.SeqBytes(constants.MessageSize, 11, byte(hashLength))

		record, err := e.Sign(payload, hashLength)
		require.NoError(t, err, "hash length %d", hashLength)
		require.Len(t, record, len(payload)+hashLength)

		got, err := e.Verify(record, hashLength)
		require.NoError(t, err, "hash length %d", hashLength)
		assert.Equal(t, payload, got, "hash length %d", hashLength)
	}
}

func TestEngine_SecondCandidateAccepted(t *testing.T) {
	e := newTestEngine(t)

	// Ищем payload, у которого после CMC первый бит был 1 и был стёрт при подписи:
	// Verify должен принять именно второго кандидата.
	found := false
	for i := range 64 {
		payload := testutil.SeqBytes(constants.PayloadSize, byte(i), byte(i))
		record, err := e.Sign(payload, constants.HashSize)
		require.NoError(t, err)

		encrypted := e.keys.Exponentiate(record[constants.PaddingSize:], PublicExponent)
		require.Zero(t, encrypted[0]&discardedBits, "sign must clear the top bit")

		msg := make([]byte, constants.MessageSize)
		require.NoError(t, e.codec.Build(msg, payload, constants.HashSize))
		c, err := NewCMC(e.DeriveKey(payload[:constants.PaddingSize]))
		require.NoError(t, err)
		require.NoError(t, c.Encrypt(msg, msg))
		if msg[0]&discardedBits == 0 {
			continue
		}

		found = true
		got, err := e.Verify(record, constants.HashSize)
		require.NoError(t, err)
		assert.Equal(t, payload, got)
	}
	assert.True(t, found, "no payload exercised the second candidate")
}

func TestEngine_TamperDetection(t *testing.T) {
	e := newTestEngine(t)
	record := testutil.MustHex(testutil.Vectors.SeqRecord)

	for _, pos := range []int{8, 9, 50, 100, 150, 198, 199} {
		for _, bit := range []byte{0x01, 0x80} {
			tampered := append([]byte(nil), record...)
			tampered[pos] ^= bit

			got, err := e.Verify(tampered, constants.HashSize)
			assert.ErrorIs(t, err, ErrHashMismatch, "byte %d bit %#x", pos, bit)
			// Вывод всё равно заполнен (без аутентификации).
			assert.Len(t, got, constants.PayloadSize)
			assert.Equal(t, record[:constants.PaddingSize], got[:constants.PaddingSize])
		}
	}
}

func TestEngine_PrefixTamperDetection(t *testing.T) {
	e := newTestEngine(t)
	record := testutil.MustHex(testutil.Vectors.ZeroRecord)
	record[3] ^= 0x10

	_, err := e.Verify(record, constants.HashSize)
	assert.ErrorIs(t, err, ErrHashMismatch)
}

func TestEngine_MismatchKeepsFirstCandidate(t *testing.T) {
	e := newTestEngine(t)
	record := testutil.MustHex(testutil.Vectors.ZeroRecord)
	record[120] ^= 0x04

	got, err := e.Verify(record, constants.HashSize)
	require.ErrorIs(t, err, ErrHashMismatch)

	encrypted := e.keys.Exponentiate(record[constants.PaddingSize:], PublicExponent)
	c, err := NewCMC(e.DeriveKey(record[:constants.PaddingSize]))
	require.NoError(t, err)
	first := make([]byte, constants.MessageSize)
	require.NoError(t, c.Decrypt(first, encrypted))

	assert.Equal(t, first[:constants.MessageSize-constants.HashSize], got[constants.PaddingSize:])
}

func TestEngine_DeriveKey(t *testing.T) {
	e := newTestEngine(t)

	zero := make([]byte, constants.PaddingSize)
	assert.Equal(t, testutil.MustHex(testutil.Vectors.ZeroPrefixKey), e.DeriveKey(zero))
	assert.Equal(t, e.DeriveKey(zero), e.DeriveKey(zero), "derivation must be deterministic")

	seq := testutil.SeqBytes(constants.PaddingSize, 1, 0)
	assert.Equal(t, testutil.MustHex(testutil.Vectors.SeqPrefixKey), e.DeriveKey(seq))

	// Ключ зависит только от (N, E, prefix), не от payload.
	a := testutil.SeqBytes(constants.PayloadSize, 1, 0)
	b := testutil.SeqBytes(constants.PayloadSize, 3, 0)
	copy(b, a[:constants.PaddingSize])
	ra, err := e.Sign(a, constants.HashSize)
	require.NoError(t, err)
	rb, err := e.Sign(b, constants.HashSize)
	require.NoError(t, err)
	assert.Equal(t, e.DeriveKey(ra[:constants.PaddingSize]), e.DeriveKey(rb[:constants.PaddingSize]))
}

func TestEngine_BoundaryRejection(t *testing.T) {
	e := newTestEngine(t)
	payload := make([]byte, constants.PayloadSize)
	record := testutil.MustHex(testutil.Vectors.ZeroRecord)

	t.Run("sign hash length 32", func(t *testing.T) {
		_, err := e.Sign(payload, 32)
		assert.ErrorIs(t, err, ErrHashLength)
	})

	t.Run("sign negative hash length", func(t *testing.T) {
		_, err := e.Sign(payload, -1)
		assert.ErrorIs(t, err, ErrHashLength)
	})

	t.Run("sign short cleartext", func(t *testing.T) {
		_, err := e.Sign(make([]byte, constants.MessageSize-constants.HashSize-1), constants.HashSize)
		assert.ErrorIs(t, err, ErrShortInput)
	})

	t.Run("sign short buffer", func(t *testing.T) {
		n, err := e.SignTo(make([]byte, constants.TotalEncSize-1), payload, constants.HashSize)
		assert.ErrorIs(t, err, ErrShortBuffer)
		assert.Equal(t, constants.TotalEncSize, n)

		n, err = e.SignTo(make([]byte, 100), payload, constants.HashSize)
		assert.ErrorIs(t, err, ErrShortBuffer)
		assert.Equal(t, constants.MessageSize, n)
	})

	t.Run("verify hash length 32", func(t *testing.T) {
		_, err := e.Verify(record, 32)
		assert.ErrorIs(t, err, ErrHashLength)
	})

	t.Run("verify total length not above hash length", func(t *testing.T) {
		_, err := e.Verify(record[:16], 16)
		assert.ErrorIs(t, err, ErrShortInput)
		_, err = e.Verify(record[:10], 16)
		assert.ErrorIs(t, err, ErrShortInput)
	})

	t.Run("verify record shorter than block", func(t *testing.T) {
		_, err := e.Verify(record[:constants.MessageSize-1], constants.HashSize)
		assert.ErrorIs(t, err, ErrShortInput)
	})

	t.Run("verify short buffer", func(t *testing.T) {
		n, err := e.VerifyTo(make([]byte, 10), record, constants.HashSize)
		assert.ErrorIs(t, err, ErrShortBuffer)
		assert.Equal(t, constants.PayloadSize, n)
	})
}

func TestEngine_VerifyToRecordBuffer(t *testing.T) {
	e := newTestEngine(t)

	// CLI пишет .dec размером MessageSize: хвост после payload остаётся нулевым.
	dst := make([]byte, constants.MessageSize)
	n, err := e.VerifyTo(dst, testutil.MustHex(testutil.Vectors.SeqRecord), constants.HashSize)
	require.NoError(t, err)
	assert.Equal(t, constants.PayloadSize, n)
	assert.Equal(t, testutil.SeqBytes(constants.PayloadSize, 1, 0), dst[:n])
	assert.Equal(t, make([]byte, constants.PaddingSize), dst[n:])
}

func TestEngine_ConcurrentUse(t *testing.T) {
	e := newTestEngine(t)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			payload := testutil.SeqBytes(constants.PayloadSize, byte(i+1), byte(i))
			record, err := e.Sign(payload, constants.HashSize)
			if !assert.NoError(t, err) {
				return
			}
			got, err := e.Verify(record, constants.HashSize)
			assert.NoError(t, err)
			assert.Equal(t, payload, got)
		}()
	}
	wg.Wait()
}

func TestNewEngine_Validation(t *testing.T) {
	km, err := NewReferenceKeyMaterial()
	require.NoError(t, err)

	_, err = NewEngine(km, sha256.New, 100)
	assert.ErrorIs(t, err, ErrKeySize)

	_, err = NewEngine(km, sha256.New, 176)
	assert.ErrorIs(t, err, ErrKeySize)

	e, err := NewEngine(km, sha256.New, constants.MessageSize)
	require.NoError(t, err)
	assert.Equal(t, constants.MessageSize, e.MessageSize())
}

func TestBitAssignments(t *testing.T) {
	assert.Equal(t, []byte{0x00, 0x80}, bitAssignments(0x80))
	assert.Equal(t, []byte{0x00, 0x40, 0x80, 0xC0}, bitAssignments(0xC0))
	assert.Equal(t, []byte{0x00}, bitAssignments(0x00))
}
