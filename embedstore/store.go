package embedstore

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/ic-timon/vecdump/embedstore/blob"
	"github.com/ic-timon/vecdump/embedstore/kv"
)

// Reader is a read-only keyed-vector store. Both *MmapStore and *kv.Store
// implement it.
type Reader interface {
	// Get returns the vector for word, or false if it is absent or unreadable.
	Get(word string) ([]float32, bool)
	// Len returns the declared vocabulary size. It is not an entry count.
	Len() int
	// Dim returns the declared dimension.
	Dim() int
	Close() error
}

var (
	_ Reader = (*MmapStore)(nil)
	_ Reader = (*kv.Store)(nil)
)

// MmapStore serves vectors from an index/blob file pair. The index is held
// in memory; the blob file is mapped read-only. After Open it is immutable
// and safe for concurrent lookups without locking.
type MmapStore struct {
	index  map[string]uint64
	region *blob.MmapRegion
	meta   Meta
	log    *zap.Logger
}

// Open maps blobPath and loads indexPath. cfg may be nil to use DefaultConfig().
// When a word appears more than once in the index, the last line wins.
func Open(indexPath, blobPath string, cfg *Config) (*MmapStore, error) {
	cfg = cfg.OrDefault()
	log := cfg.logger()

	region, err := blob.OpenRegion(blobPath)
	if err != nil {
		return nil, ioError("map", blobPath, err)
	}
	if err := region.Advise(); err != nil {
		log.Debug("madvise failed", zap.String("path", blobPath), zap.Error(err))
	}

	meta, index, err := loadIndex(indexPath, cfg)
	if err != nil {
		region.Close()
		return nil, err
	}
	log.Debug("store opened",
		zap.String("index", indexPath),
		zap.String("blob", blobPath),
		zap.Int("words", len(index)),
		zap.Int("blob_bytes", len(region.Bytes())))
	return &MmapStore{index: index, region: region, meta: meta, log: log}, nil
}

func loadIndex(path string, cfg *Config) (Meta, map[string]uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return Meta{}, nil, ioError("open", path, err)
	}
	defer f.Close()
	r := bufio.NewReaderSize(f, cfg.ReadBufferSize)

	meta, err := ReadHeader(r)
	if err != nil {
		return Meta{}, nil, fmt.Errorf("%s: %w", path, err)
	}
	index := make(map[string]uint64, meta.sizeHint())
	for lineNo := 2; ; lineNo++ {
		line, err := readLine(r)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return Meta{}, nil, ioError("read", path, err)
		}
		word, off, err := parseIndexLine(line)
		if err != nil {
			var re *RecordError
			if errors.As(err, &re) {
				re.Line = lineNo
			}
			return Meta{}, nil, fmt.Errorf("%s: %w", path, err)
		}
		index[word] = off
	}
	return meta, index, nil
}

// Get decodes the vector for word into a new slice. A record that does not
// decode (corrupt bytes, offset past the end of the blob) is logged and
// reported as absent.
func (s *MmapStore) Get(word string) ([]float32, bool) {
	off, ok := s.index[word]
	if !ok || s.region == nil {
		return nil, false
	}
	vec, err := blob.DecodeVector(s.region.Bytes(), off)
	if err != nil {
		s.log.Warn("vector decode failed",
			zap.String("word", word),
			zap.Uint64("offset", off),
			zap.Error(fmt.Errorf("%w: %w", ErrDeserialize, err)))
		return nil, false
	}
	return vec, true
}

// View returns the vector for word as a slice aliasing the mapping, falling
// back to Get when a zero-copy view is unavailable. The slice is valid until
// Close. Caller must not modify it.
func (s *MmapStore) View(word string) ([]float32, bool) {
	off, ok := s.index[word]
	if !ok || s.region == nil {
		return nil, false
	}
	if v := s.region.VectorView(off); v != nil {
		return v, true
	}
	return s.Get(word)
}

// Contains reports whether word has an index entry.
func (s *MmapStore) Contains(word string) bool {
	_, ok := s.index[word]
	return ok
}

// Len returns the declared vocabulary size from the index header.
func (s *MmapStore) Len() int { return int(s.meta.Len) }

// Dim returns the declared dimension from the index header.
func (s *MmapStore) Dim() int { return int(s.meta.Dim) }

// Meta returns the index header.
func (s *MmapStore) Meta() Meta { return s.meta }

// Words returns the number of entries actually loaded from the index.
func (s *MmapStore) Words() int { return len(s.index) }

// Close unmaps the blob file and drops the index. Safe to call more than once.
func (s *MmapStore) Close() error {
	s.index = nil
	if s.region == nil {
		return nil
	}
	err := s.region.Close()
	s.region = nil
	return err
}
