package blob

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeVector(t *testing.T) {
	vec := []float32{1, -2.5, 3.25, 0}
	b := EncodeVector(vec)
	require.Len(t, b, EncodedSize(len(vec)))
	assert.Equal(t, uint64(len(vec)), binary.LittleEndian.Uint64(b[:PrefixSize]))

	got, err := DecodeVector(b, 0)
	require.NoError(t, err)
	assert.Equal(t, vec, got)

	got, err = DecodeBytes(b)
	require.NoError(t, err)
	assert.Equal(t, vec, got)
}

func TestDecodeVector_ConcatenatedRecords(t *testing.T) {
	a := []float32{1, 2, 3}
	c := []float32{4, 5}
	buf := AppendVector(nil, a)
	second := uint64(len(buf))
	buf = AppendVector(buf, c)

	got, err := DecodeVector(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, a, got)

	got, err = DecodeVector(buf, second)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestDecodeVector_Empty(t *testing.T) {
	b := EncodeVector(nil)
	got, err := DecodeVector(b, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDecodeVector_Errors(t *testing.T) {
	b := EncodeVector([]float32{1, 2, 3})

	_, err := DecodeVector(b, uint64(len(b)))
	assert.ErrorIs(t, err, ErrOffsetOutOfRange)

	_, err = DecodeVector(b, 1<<40)
	assert.ErrorIs(t, err, ErrOffsetOutOfRange)

	_, err = DecodeVector(b[:len(b)-1], 0)
	assert.ErrorIs(t, err, ErrTruncated)

	_, err = DecodeVector(b[:4], 0)
	assert.ErrorIs(t, err, ErrOffsetOutOfRange)

	// A huge element count must not overflow the bounds check.
	bad := binary.LittleEndian.AppendUint64(nil, ^uint64(0))
	_, err = DecodeVector(bad, 0)
	assert.ErrorIs(t, err, ErrTruncated)

	_, err = DecodeBytes(append(b, 0))
	assert.ErrorIs(t, err, ErrTruncated)
}
