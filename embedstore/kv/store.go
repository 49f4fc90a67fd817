package kv

import (
	"fmt"
	"sync"

	"crawshaw.io/sqlite"
	"crawshaw.io/sqlite/sqlitex"
	"go.uber.org/zap"

	"github.com/ic-timon/vecdump/embedstore/blob"
)

// Store is a read-only view of a database written by Writer.
type Store struct {
	mu   sync.Mutex
	conn *sqlite.Conn
	len  uint64
	dim  uint64
	log  *zap.Logger
}

// Open opens the database at path read-only. log may be nil to use zap.L().
func Open(path string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.L()
	}
	conn, err := sqlite.OpenConn(path, sqlite.SQLITE_OPEN_READONLY)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	s := &Store{conn: conn, log: log}
	seen := 0
	err = sqlitex.Exec(conn, `SELECT key, value FROM meta;`, func(stmt *sqlite.Stmt) error {
		switch stmt.ColumnText(0) {
		case "len":
			s.len = uint64(stmt.ColumnInt64(1))
			seen++
		case "dim":
			s.dim = uint64(stmt.ColumnInt64(1))
			seen++
		}
		return nil
	})
	if err == nil && seen != 2 {
		err = fmt.Errorf("meta table incomplete")
	}
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to read meta: %w", err)
	}
	return s, nil
}

// Get returns the vector for word. Lookup or decode failures are logged and
// reported as absent.
func (s *Store) Get(word string) ([]float32, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil, false
	}
	var data []byte
	err := sqlitex.Exec(s.conn, `SELECT data FROM vectors WHERE word = ?;`, func(stmt *sqlite.Stmt) error {
		data = make([]byte, stmt.ColumnLen(0))
		stmt.ColumnBytes(0, data)
		return nil
	}, word)
	if err != nil {
		s.log.Warn("vector lookup failed", zap.String("word", word), zap.Error(err))
		return nil, false
	}
	if data == nil {
		return nil, false
	}
	vec, err := blob.DecodeBytes(data)
	if err != nil {
		s.log.Warn("vector decode failed", zap.String("word", word), zap.Error(err))
		return nil, false
	}
	return vec, true
}

// Count returns the number of rows actually stored.
func (s *Store) Count() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return 0, fmt.Errorf("store closed")
	}
	var n int
	err := sqlitex.Exec(s.conn, `SELECT COUNT(*) FROM vectors;`, func(stmt *sqlite.Stmt) error {
		n = int(stmt.ColumnInt64(0))
		return nil
	})
	return n, err
}

// Len returns the declared vocabulary size.
func (s *Store) Len() int { return int(s.len) }

// Dim returns the declared dimension.
func (s *Store) Dim() int { return int(s.dim) }

// Close closes the connection. Safe to call more than once.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}
