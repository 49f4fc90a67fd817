package embedstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ic-timon/vecdump/embedstore/blob"
	"github.com/ic-timon/vecdump/embedstore/kv"
)

// Output describes the files produced by Ingest.
type Output struct {
	Backend Backend
	// Paths is [index, blob] for BackendFiles and [database] for BackendSQLite.
	Paths   []string
	Meta    Meta
	Records int
	Chunks  int
}

// Ingest parses the corpus at path in parallel and writes it to the sink
// selected by cfg.Backend, named after the corpus base name inside
// cfg.OutputDir. Any malformed line or I/O failure aborts the whole run;
// outputs of a failed run are left in an undefined state.
func Ingest(path string, cfg *Config) (*Output, error) {
	cfg = cfg.OrDefault()
	log := cfg.logger().With(zap.String("corpus", path))
	start := time.Now()

	log.Info("ingest started", zap.String("backend", string(cfg.Backend)), zap.Int("workers", cfg.Workers))
	meta, lines, err := ReadCorpus(path, cfg)
	if err != nil {
		return nil, err
	}
	log.Info("corpus loaded", zap.Int("lines", len(lines)), zap.Uint64("declared", meta.Len), zap.Uint64("dim", meta.Dim))

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, ioError("mkdir", cfg.OutputDir, err)
	}
	base := filepath.Join(cfg.OutputDir, OutputStem(path))
	sink, paths, err := openSink(base, meta, cfg)
	if err != nil {
		return nil, err
	}

	chunks, err := writeChunks(lines, meta, sink, cfg, log)
	if err != nil {
		sink.Close()
		return nil, err
	}
	if err := sink.Close(); err != nil {
		return nil, err
	}

	if uint64(len(lines)) != meta.Len {
		log.Warn("declared vocabulary size differs from records written",
			zap.Uint64("declared", meta.Len), zap.Int("written", len(lines)))
	}
	log.Info("ingest finished",
		zap.Strings("paths", paths),
		zap.Int("records", len(lines)),
		zap.Int("chunks", chunks),
		zap.Duration("elapsed", time.Since(start)))
	return &Output{
		Backend: cfg.Backend,
		Paths:   paths,
		Meta:    meta,
		Records: len(lines),
		Chunks:  chunks,
	}, nil
}

// OutputStem returns the name outputs are based on: the corpus base name
// without its compression and format extensions.
func OutputStem(path string) string {
	name := filepath.Base(path)
	if _, ok := compressionExts[strings.ToLower(filepath.Ext(name))]; ok {
		name = strings.TrimSuffix(name, filepath.Ext(name))
	}
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "w2v_store"
	}
	return name
}

func openSink(base string, meta Meta, cfg *Config) (Sink, []string, error) {
	switch cfg.Backend {
	case BackendFiles:
		idxPath, blobPath := base+".idx", base+".vec"
		s, err := newFileSink(idxPath, blobPath, meta, cfg)
		if err != nil {
			return nil, nil, err
		}
		return s, []string{idxPath, blobPath}, nil
	case BackendSQLite:
		dbPath := base + ".db"
		w, err := kv.Create(dbPath, meta.Len, meta.Dim)
		if err != nil {
			return nil, nil, ioError("create", dbPath, err)
		}
		return w, []string{w.Path()}, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

// writeChunks fans chunks of lines out to at most cfg.Workers goroutines.
// Chunks may reach the sink in any order.
func writeChunks(lines []string, meta Meta, sink Sink, cfg *Config, log *zap.Logger) (int, error) {
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(cfg.Workers)

	chunks := 0
	for first := 0; first < len(lines); first += cfg.ChunkSize {
		if ctx.Err() != nil {
			break
		}
		chunk := lines[first:min(first+cfg.ChunkSize, len(lines))]
		chunkID := chunks
		firstLine := first
		chunks++
		g.Go(func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			entries, err := encodeChunk(chunk, firstLine, meta.Dim)
			if err != nil {
				return err
			}
			if err := sink.WriteBatch(entries); err != nil {
				return err
			}
			log.Debug("wrote batch", zap.Int("chunk", chunkID), zap.Int("records", len(entries)))
			return nil
		})
	}
	return chunks, g.Wait()
}

// encodeChunk parses and serializes one chunk. firstLine is the index of
// chunk[0] among the corpus records.
func encodeChunk(chunk []string, firstLine int, dim uint64) ([]blob.Entry, error) {
	entries := make([]blob.Entry, len(chunk))
	for i, line := range chunk {
		word, vec, err := ParseRecord(line, dim)
		if err != nil {
			var re *RecordError
			if errors.As(err, &re) {
				re.Line = firstLine + i + 2 // header is line 1
			}
			return nil, err
		}
		entries[i] = blob.Entry{Word: word, Data: blob.EncodeVector(vec)}
	}
	return entries, nil
}
