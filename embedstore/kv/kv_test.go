package kv

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ic-timon/vecdump/embedstore/blob"
)

func entry(word string, vec ...float32) blob.Entry {
	return blob.Entry{Word: word, Data: blob.EncodeVector(vec)}
}

func TestWriterStore_Roundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.db")
	w, err := Create(path, 2, 3)
	require.NoError(t, err)
	require.Equal(t, path, w.Path())
	require.NoError(t, w.WriteBatch([]blob.Entry{
		entry("apple", 1, 2, 3),
		entry("banana", 4, 5, 6),
	}))
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	s, err := Open(path, zap.NewNop())
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 3, s.Dim())

	v, ok := s.Get("apple")
	require.True(t, ok)
	assert.Equal(t, []float32{1, 2, 3}, v)
	v, ok = s.Get("banana")
	require.True(t, ok)
	assert.Equal(t, []float32{4, 5, 6}, v)

	_, ok = s.Get("cherry")
	assert.False(t, ok)

	n, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestWriter_ConcurrentBatches(t *testing.T) {
	path := filepath.Join(t.TempDir(), "concurrent.db")
	w, err := Create(path, 400, 2)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 4)
	for b := 0; b < 4; b++ {
		wg.Add(1)
		go func(b int) {
			defer wg.Done()
			batch := make([]blob.Entry, 0, 100)
			for i := 0; i < 100; i++ {
				n := b*100 + i
				batch = append(batch, entry(fmt.Sprintf("w%d", n), float32(n), float32(-n)))
			}
			errs <- w.WriteBatch(batch)
		}(b)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	s, err := Open(path, zap.NewNop())
	require.NoError(t, err)
	defer s.Close()
	n, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, 400, n)
	v, ok := s.Get("w321")
	require.True(t, ok)
	assert.Equal(t, []float32{321, -321}, v)
}

func TestWriter_ReplacesDuplicateWord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dup.db")
	w, err := Create(path, 2, 1)
	require.NoError(t, err)
	require.NoError(t, w.WriteBatch([]blob.Entry{entry("x", 1), entry("x", 2)}))
	require.NoError(t, w.Close())

	s, err := Open(path, zap.NewNop())
	require.NoError(t, err)
	defer s.Close()
	v, ok := s.Get("x")
	require.True(t, ok)
	assert.Equal(t, []float32{2}, v)
}

func TestStore_CorruptValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.db")
	w, err := Create(path, 1, 3)
	require.NoError(t, err)
	require.NoError(t, w.WriteBatch([]blob.Entry{{Word: "bad", Data: []byte{1, 2, 3}}}))
	require.NoError(t, w.Close())

	s, err := Open(path, zap.NewNop())
	require.NoError(t, err)
	defer s.Close()
	_, ok := s.Get("bad")
	assert.False(t, ok)
}

func TestOpen_Missing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.db"), nil)
	assert.Error(t, err)
}

func TestCreate_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "again.db")
	w, err := Create(path, 1, 1)
	require.NoError(t, err)
	require.NoError(t, w.WriteBatch([]blob.Entry{entry("old", 1)}))
	require.NoError(t, w.Close())

	w, err = Create(path, 5, 1)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	s, err := Open(path, nil)
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, 5, s.Len())
	_, ok := s.Get("old")
	assert.False(t, ok)
}
