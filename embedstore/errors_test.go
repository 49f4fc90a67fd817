package embedstore

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIOError(t *testing.T) {
	err := ioError("open", "/x", &fs.PathError{Op: "open", Path: "/x", Err: fs.ErrNotExist})
	assert.ErrorIs(t, err, ErrIO)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Equal(t, "io error: open /x: file does not exist", err.Error())

	err = ioError("flush", "/y", errors.New("disk full"))
	assert.ErrorIs(t, err, ErrIO)
	assert.Equal(t, "io error: flush /y: disk full", err.Error())
}
