package embedstore

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Meta is the declared vocabulary size and dimension of a corpus.
//
// Both values come from the header line and are carried unchanged into the
// index file; they are never re-derived from the records actually written.
type Meta struct {
	Len uint64
	Dim uint64
}

// maxPresize bounds capacity hints taken from an untrusted header.
const maxPresize = 1 << 16

// sizeHint returns Len as a capacity hint, capped at maxPresize.
func (m Meta) sizeHint() int {
	return int(min(m.Len, maxPresize))
}

// String returns the header line form "<len> <dim>".
func (m Meta) String() string {
	return strconv.FormatUint(m.Len, 10) + " " + strconv.FormatUint(m.Dim, 10)
}

// ParseHeader parses a "<len> <dim>" line.
func ParseHeader(line string) (Meta, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return Meta{}, fmt.Errorf("%w: want \"<len> <dim>\", got %q", ErrMalformedHeader, line)
	}
	n, err := strconv.ParseUint(fields[0], 10, 64)
	if err != nil {
		return Meta{}, fmt.Errorf("%w: vocabulary size %q: %w", ErrMalformedHeader, fields[0], err)
	}
	d, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return Meta{}, fmt.Errorf("%w: dimension %q: %w", ErrMalformedHeader, fields[1], err)
	}
	return Meta{Len: n, Dim: d}, nil
}

// ReadHeader consumes exactly one line from r and parses it as a header.
func ReadHeader(r *bufio.Reader) (Meta, error) {
	line, err := readLine(r)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Meta{}, fmt.Errorf("%w: header not found", ErrMalformedHeader)
		}
		return Meta{}, fmt.Errorf("%w: read header: %w", ErrIO, err)
	}
	return ParseHeader(line)
}

// WriteHeader writes m as a single header line.
func WriteHeader(w io.Writer, m Meta) error {
	_, err := io.WriteString(w, m.String()+"\n")
	return err
}

// readLine returns the next line without its terminator. io.EOF is returned
// only when no bytes remain; a final unterminated line is returned normally.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) || line == "" {
			return "", err
		}
	}
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), nil
}
