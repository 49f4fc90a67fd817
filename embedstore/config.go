package embedstore

import (
	"runtime"

	"go.uber.org/zap"
)

// Backend selects the durable sink used by Ingest and the reader used by Load.
type Backend string

const (
	// BackendFiles writes an index file (.idx) and a blob file (.vec).
	BackendFiles Backend = "files"
	// BackendSQLite writes a single SQLite key-value database (.db).
	BackendSQLite Backend = "sqlite"
)

// Config holds ingestion and store parameters.
type Config struct {
	ChunkSize       int         // lines per unit of parallel work, default 100000
	Workers         int         // concurrent chunk workers, default runtime.NumCPU()
	ReadBufferSize  int         // corpus and index read buffer, default 64MB
	IndexBufferSize int         // index file write buffer, default 16MB
	BlobBufferSize  int         // blob file write buffer, default 64MB
	ProgressEvery   int         // log corpus read progress every N lines, default 100000
	OutputDir       string      // directory for ingest outputs, default "."
	Backend         Backend     // default BackendFiles
	Logger          *zap.Logger // default zap.L()
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		ChunkSize:       100_000,
		Workers:         runtime.NumCPU(),
		ReadBufferSize:  64 << 20,
		IndexBufferSize: 16 << 20,
		BlobBufferSize:  64 << 20,
		ProgressEvery:   100_000,
		OutputDir:       ".",
		Backend:         BackendFiles,
	}
}

// OrDefault returns DefaultConfig if c is nil, otherwise normalizes c.
func (c *Config) OrDefault() *Config {
	if c == nil {
		return DefaultConfig()
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = 100_000
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.ReadBufferSize <= 0 {
		c.ReadBufferSize = 64 << 20
	}
	if c.IndexBufferSize <= 0 {
		c.IndexBufferSize = 16 << 20
	}
	if c.BlobBufferSize <= 0 {
		c.BlobBufferSize = 64 << 20
	}
	if c.ProgressEvery <= 0 {
		c.ProgressEvery = 100_000
	}
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
	if c.Backend == "" {
		c.Backend = BackendFiles
	}
	return c
}

func (c *Config) logger() *zap.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return zap.L()
}
