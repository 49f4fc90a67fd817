package embedstore

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const sampleCorpus = "2 3\napple 1.0 2.0 3.0\nbanana 4.0 5.0 6.0\n"

func testConfig(t *testing.T) *Config {
	cfg := DefaultConfig()
	cfg.Logger = zaptest.NewLogger(t)
	cfg.OutputDir = filepath.Join(t.TempDir(), "out")
	cfg.ReadBufferSize = 64 << 10
	cfg.IndexBufferSize = 16 << 10
	cfg.BlobBufferSize = 64 << 10
	return cfg
}

func TestReadCorpusFrom(t *testing.T) {
	in := "3 2\r\na 1 2\r\n\r\nb 3 4\n   \nc 5 6"
	meta, lines, err := ReadCorpusFrom(strings.NewReader(in), testConfig(t))
	require.NoError(t, err)
	assert.Equal(t, Meta{Len: 3, Dim: 2}, meta)
	assert.Equal(t, []string{"a 1 2", "b 3 4", "c 5 6"}, lines)
}

func TestReadCorpusFrom_ProgressEvery(t *testing.T) {
	cfg := testConfig(t)
	cfg.ProgressEvery = 1
	_, lines, err := ReadCorpusFrom(strings.NewReader(sampleCorpus), cfg)
	require.NoError(t, err)
	assert.Len(t, lines, 2)
}

func TestReadCorpusFrom_MissingHeader(t *testing.T) {
	_, _, err := ReadCorpusFrom(strings.NewReader(""), testConfig(t))
	assert.ErrorIs(t, err, ErrMalformedHeader)

	_, _, err = ReadCorpusFrom(strings.NewReader("apple 1 2 3\n"), testConfig(t))
	assert.ErrorIs(t, err, ErrMalformedHeader)
}

func TestReadCorpus_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.txt")
	_, _, err := ReadCorpus(path, testConfig(t))
	assert.ErrorIs(t, err, ErrIO)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, 1, strings.Count(err.Error(), path), err.Error())
	assert.Equal(t, "io error: open "+path+": no such file or directory", err.Error())
}

func writeCompressed(t *testing.T, path string, wrap func(io.Writer) io.WriteCloser) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	w := wrap(f)
	_, err = io.WriteString(w, sampleCorpus)
	require.NoError(t, err)
	require.NoError(t, w.Close())
}

func TestReadCorpus_Compressed(t *testing.T) {
	writers := map[string]func(io.Writer) io.WriteCloser{
		"corpus.txt.gz": func(w io.Writer) io.WriteCloser { return gzip.NewWriter(w) },
		"corpus.txt.zst": func(w io.Writer) io.WriteCloser {
			enc, err := zstd.NewWriter(w)
			require.NoError(t, err)
			return enc
		},
		"corpus.txt.lz4": func(w io.Writer) io.WriteCloser { return lz4.NewWriter(w) },
	}
	for name, wrap := range writers {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			writeCompressed(t, path, wrap)

			meta, lines, err := ReadCorpus(path, testConfig(t))
			require.NoError(t, err)
			assert.Equal(t, Meta{Len: 2, Dim: 3}, meta)
			assert.Equal(t, []string{"apple 1.0 2.0 3.0", "banana 4.0 5.0 6.0"}, lines)
		})
	}
}

func TestReadCorpus_CorruptGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.txt.gz")
	require.NoError(t, os.WriteFile(path, []byte("not gzip at all"), 0o644))
	_, _, err := ReadCorpus(path, testConfig(t))
	assert.ErrorIs(t, err, ErrIO)
}

func TestOutputStem(t *testing.T) {
	cases := map[string]string{
		"enwiki_300d.txt":         "enwiki_300d",
		"/data/enwiki_300d.txt":   "enwiki_300d",
		"vectors.txt.gz":          "vectors",
		"vectors.vec.ZST":         "vectors",
		"glove.6B.50d.txt":        "glove.6B.50d",
		"plain":                   "plain",
		".txt":                    "w2v_store",
		filepath.Join("a", "b.c"): "b",
	}
	for in, want := range cases {
		assert.Equal(t, want, OutputStem(in), in)
	}
}
