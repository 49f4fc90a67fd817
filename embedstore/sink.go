package embedstore

import (
	"bufio"
	"errors"
	"os"
	"strconv"
	"sync"

	"github.com/ic-timon/vecdump/embedstore/blob"
)

// Sink is a durable keyed-vector destination. WriteBatch is called
// concurrently, once per chunk; each call is one unit of lock acquisition.
type Sink interface {
	WriteBatch(entries []blob.Entry) error
	Close() error
}

// fileSink writes the index/blob file pair. Each file is guarded by its own
// mutex. The blob offset is a running counter advanced under blobMu, so the
// offset recorded for an entry is always the position its bytes land at.
type fileSink struct {
	blobMu   sync.Mutex
	blobFile *os.File
	blobBuf  *bufio.Writer
	offset   uint64

	idxMu   sync.Mutex
	idxFile *os.File
	idxBuf  *bufio.Writer

	idxPath, blobPath string
}

// newFileSink creates both files and writes the index header exactly once.
func newFileSink(idxPath, blobPath string, meta Meta, cfg *Config) (*fileSink, error) {
	blobFile, err := os.Create(blobPath)
	if err != nil {
		return nil, ioError("create", blobPath, err)
	}
	idxFile, err := os.Create(idxPath)
	if err != nil {
		blobFile.Close()
		return nil, ioError("create", idxPath, err)
	}
	s := &fileSink{
		blobFile: blobFile,
		blobBuf:  bufio.NewWriterSize(blobFile, cfg.BlobBufferSize),
		idxFile:  idxFile,
		idxBuf:   bufio.NewWriterSize(idxFile, cfg.IndexBufferSize),
		idxPath:  idxPath,
		blobPath: blobPath,
	}
	if err := WriteHeader(s.idxBuf, meta); err != nil {
		s.closeFiles()
		return nil, ioError("write header", idxPath, err)
	}
	return s, nil
}

// WriteBatch appends the chunk's vectors to the blob file, then its
// "word offset" lines to the index file.
func (s *fileSink) WriteBatch(entries []blob.Entry) error {
	offsets, err := s.appendBlobs(entries)
	if err != nil {
		return err
	}

	s.idxMu.Lock()
	defer s.idxMu.Unlock()
	var line []byte
	for i, e := range entries {
		line = append(line[:0], e.Word...)
		line = append(line, ' ')
		line = strconv.AppendUint(line, offsets[i], 10)
		line = append(line, '\n')
		if _, err := s.idxBuf.Write(line); err != nil {
			return ioError("write", s.idxPath, err)
		}
	}
	return nil
}

func (s *fileSink) appendBlobs(entries []blob.Entry) ([]uint64, error) {
	offsets := make([]uint64, len(entries))
	s.blobMu.Lock()
	defer s.blobMu.Unlock()
	for i, e := range entries {
		offsets[i] = s.offset
		n, err := s.blobBuf.Write(e.Data)
		s.offset += uint64(n)
		if err != nil {
			return nil, ioError("write", s.blobPath, err)
		}
	}
	return offsets, nil
}

// Close flushes and syncs both files. It must not race with WriteBatch.
func (s *fileSink) Close() error {
	var errs []error
	if err := s.blobBuf.Flush(); err != nil {
		errs = append(errs, ioError("flush", s.blobPath, err))
	} else if err := s.blobFile.Sync(); err != nil {
		errs = append(errs, ioError("sync", s.blobPath, err))
	}
	if err := s.idxBuf.Flush(); err != nil {
		errs = append(errs, ioError("flush", s.idxPath, err))
	} else if err := s.idxFile.Sync(); err != nil {
		errs = append(errs, ioError("sync", s.idxPath, err))
	}
	if err := s.closeFiles(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (s *fileSink) closeFiles() error {
	var errs []error
	if err := s.blobFile.Close(); err != nil {
		errs = append(errs, ioError("close", s.blobPath, err))
	}
	if err := s.idxFile.Close(); err != nil {
		errs = append(errs, ioError("close", s.idxPath, err))
	}
	return errors.Join(errs...)
}
