package embedstore

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"go.uber.org/zap"
)

// compressionExts maps corpus file extensions to their decompressors.
var compressionExts = map[string]func(io.Reader) (io.ReadCloser, error){
	".gz": func(r io.Reader) (io.ReadCloser, error) {
		return gzip.NewReader(r)
	},
	".zst": func(r io.Reader) (io.ReadCloser, error) {
		d, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return d.IOReadCloser(), nil
	},
	".lz4": func(r io.Reader) (io.ReadCloser, error) {
		return io.NopCloser(lz4.NewReader(r)), nil
	},
}

// ReadCorpus opens a plaintext corpus (optionally .gz, .zst or .lz4
// compressed) and returns its header and remaining lines.
func ReadCorpus(path string, cfg *Config) (Meta, []string, error) {
	cfg = cfg.OrDefault()
	f, err := os.Open(path)
	if err != nil {
		return Meta{}, nil, ioError("open", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if open, ok := compressionExts[strings.ToLower(filepath.Ext(path))]; ok {
		dr, err := open(bufio.NewReaderSize(f, 1<<20))
		if err != nil {
			return Meta{}, nil, ioError("decompress", path, err)
		}
		defer dr.Close()
		r = dr
	}
	meta, lines, err := ReadCorpusFrom(r, cfg)
	if err != nil {
		return Meta{}, nil, fmt.Errorf("%s: %w", path, err)
	}
	return meta, lines, nil
}

// ReadCorpusFrom reads a header line followed by the corpus lines from r.
// All lines are held in memory; blank lines are skipped.
func ReadCorpusFrom(r io.Reader, cfg *Config) (Meta, []string, error) {
	cfg = cfg.OrDefault()
	log := cfg.logger()
	br := bufio.NewReaderSize(r, cfg.ReadBufferSize)

	meta, err := ReadHeader(br)
	if err != nil {
		return Meta{}, nil, err
	}

	lines := make([]string, 0, meta.sizeHint())
	for {
		line, err := readLine(br)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return Meta{}, nil, fmt.Errorf("%w: read line %d: %w", ErrIO, len(lines)+2, err)
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines)%cfg.ProgressEvery == 0 {
			log.Info("read corpus lines", zap.Int("lines", len(lines)))
		}
	}
	log.Debug("corpus loaded", zap.Stringer("meta", meta), zap.Int("lines", len(lines)))
	return meta, lines, nil
}
