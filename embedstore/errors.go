package embedstore

import (
	"errors"
	"fmt"
	"io/fs"
)

var (
	// ErrIO is returned when a file cannot be opened, read or written.
	ErrIO = errors.New("io error")

	// ErrMalformedHeader is returned when the "<len> <dim>" line is missing or unparseable.
	ErrMalformedHeader = errors.New("malformed header")

	// ErrMalformedRecord is returned when a corpus or index line cannot be parsed.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrDeserialize is returned when blob bytes at a recorded offset do not decode.
	ErrDeserialize = errors.New("deserialize error")

	// ErrUnknownBackend is returned for a Config.Backend value with no implementation.
	ErrUnknownBackend = errors.New("unknown backend")
)

// RecordError describes a line that failed to parse.
//
// It matches ErrMalformedRecord with errors.Is; the underlying parse error
// (if any) can be accessed via errors.Unwrap.
type RecordError struct {
	Line   int // 1-based line number within the file, 0 if unknown
	Text   string
	Reason string
	cause  error
}

func (e *RecordError) Error() string {
	text := e.Text
	if len(text) > 64 {
		text = text[:64] + "..."
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s: line %d: %s: %q", ErrMalformedRecord, e.Line, e.Reason, text)
	}
	return fmt.Sprintf("%s: %s: %q", ErrMalformedRecord, e.Reason, text)
}

func (e *RecordError) Is(target error) bool { return target == ErrMalformedRecord }

func (e *RecordError) Unwrap() error { return e.cause }

// ioError tags err with ErrIO. A *fs.PathError already names its op and path.
func ioError(op, path string, err error) error {
	var pe *fs.PathError
	if errors.As(err, &pe) {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return fmt.Errorf("%w: %s %s: %w", ErrIO, op, path, err)
}
