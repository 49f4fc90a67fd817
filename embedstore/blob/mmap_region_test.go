package blob

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeBlob(t *testing.T, vecs ...[]float32) (string, []uint64) {
	t.Helper()
	var buf []byte
	offsets := make([]uint64, len(vecs))
	for i, v := range vecs {
		offsets[i] = uint64(len(buf))
		buf = AppendVector(buf, v)
	}
	path := filepath.Join(t.TempDir(), "blob.vec")
	require.NoError(t, os.WriteFile(path, buf, 0o644))
	return path, offsets
}

func TestMmapRegion_VectorView(t *testing.T) {
	a := []float32{0.5, 1.5, 2.5}
	b := []float32{-1, -2, -3}
	path, offsets := writeBlob(t, a, b)

	r, err := OpenRegion(path)
	require.NoError(t, err)
	defer r.Close()
	require.NoError(t, r.Advise())

	got, err := DecodeVector(r.Bytes(), offsets[1])
	require.NoError(t, err)
	assert.Equal(t, b, got)

	if hostLittleEndian {
		assert.Equal(t, a, r.VectorView(offsets[0]))
		assert.Equal(t, b, r.VectorView(offsets[1]))
	}
	assert.Nil(t, r.VectorView(uint64(len(r.Bytes()))))
}

func TestMmapRegion_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.vec")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	r, err := OpenRegion(path)
	require.NoError(t, err)
	assert.Empty(t, r.Bytes())
	assert.Nil(t, r.VectorView(0))
	require.NoError(t, r.Advise())
	require.NoError(t, r.Close())
}

func TestMmapRegion_Missing(t *testing.T) {
	_, err := OpenRegion(filepath.Join(t.TempDir(), "nope.vec"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMmapRegion_CloseTwice(t *testing.T) {
	path, _ := writeBlob(t, []float32{1})
	r, err := OpenRegion(path)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	require.NoError(t, r.Close())
	assert.Nil(t, r.Bytes())
}
