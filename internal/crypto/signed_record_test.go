package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/woomy/internal/constants"
	"github.com/udisondev/woomy/internal/testutil"
)

func TestParseSignedRecord(t *testing.T) {
	record := testutil.MustHex(testutil.Vectors.SeqRecord)

	sr, err := ParseSignedRecord(record, constants.MessageSize)
	require.NoError(t, err)
	assert.Equal(t, testutil.SeqBytes(constants.PaddingSize, 1, 0), sr.Prefix)
	assert.Equal(t, record[constants.PaddingSize:], sr.Signature)
	assert.Equal(t, constants.TotalEncSize, sr.Len())
}

func TestParseSignedRecord_NoPrefix(t *testing.T) {
	sr, err := ParseSignedRecord(make([]byte, constants.MessageSize), constants.MessageSize)
	require.NoError(t, err)
	assert.Empty(t, sr.Prefix)
	assert.Len(t, sr.Signature, constants.MessageSize)
}

func TestParseSignedRecord_Short(t *testing.T) {
	_, err := ParseSignedRecord(make([]byte, 10), constants.MessageSize)
	assert.ErrorIs(t, err, ErrShortInput)

	_, err = ParseSignedRecord(make([]byte, 10), 0)
	assert.ErrorIs(t, err, ErrShortInput)
}

func TestSignedRecord_MarshalTo(t *testing.T) {
	record := testutil.MustHex(testutil.Vectors.ZeroRecord)
	sr, err := ParseSignedRecord(record, constants.MessageSize)
	require.NoError(t, err)

	dst := make([]byte, constants.TotalEncSize+4)
	n, err := sr.MarshalTo(dst)
	require.NoError(t, err)
	assert.Equal(t, constants.TotalEncSize, n)
	assert.Equal(t, record, dst[:n])

	n, err = sr.MarshalTo(make([]byte, constants.TotalEncSize-1))
	assert.ErrorIs(t, err, ErrShortBuffer)
	assert.Equal(t, constants.TotalEncSize, n)
}
