package kv

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"crawshaw.io/sqlite"
	"crawshaw.io/sqlite/sqlitex"

	"github.com/ic-timon/vecdump/embedstore/blob"
)

const schema = `
CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS vectors (
	word TEXT PRIMARY KEY,
	data BLOB NOT NULL
);`

// Writer populates a new database. WriteBatch is safe for concurrent use;
// batches are serialized on the single connection.
type Writer struct {
	mu   sync.Mutex
	conn *sqlite.Conn
	path string
}

// Create replaces any database at path and records the declared length and dimension.
func Create(path string, length, dim uint64) (*Writer, error) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("remove existing database: %w", err)
	}
	conn, err := sqlite.OpenConn(path, sqlite.SQLITE_OPEN_CREATE|sqlite.SQLITE_OPEN_READWRITE)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	if err := sqlitex.ExecScript(conn, schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	err = sqlitex.Exec(conn, `INSERT INTO meta (key, value) VALUES ('len', ?), ('dim', ?);`, nil,
		int64(length), int64(dim))
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to write meta: %w", err)
	}
	return &Writer{conn: conn, path: path}, nil
}

// Path returns the database file path.
func (w *Writer) Path() string {
	return w.path
}

// WriteBatch inserts entries in one transaction. Later writes of the same
// word replace earlier ones.
func (w *Writer) WriteBatch(entries []blob.Entry) (err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	defer sqlitex.Save(w.conn)(&err)

	stmt, err := w.conn.Prepare(`INSERT OR REPLACE INTO vectors (word, data) VALUES (?, ?);`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	for _, e := range entries {
		stmt.BindText(1, e.Word)
		stmt.BindBytes(2, e.Data)
		_, err = stmt.Step()
		if rerr := stmt.Reset(); err == nil {
			err = rerr
		}
		if err != nil {
			return fmt.Errorf("failed to insert %q: %w", e.Word, err)
		}
	}
	return nil
}

// Close closes the connection.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.conn == nil {
		return nil
	}
	err := w.conn.Close()
	w.conn = nil
	return err
}
