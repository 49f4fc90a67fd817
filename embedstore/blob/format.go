package blob

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

const (
	// PrefixSize is the size of the element count that starts every record.
	PrefixSize = 8

	// FloatSize is the encoded size of one vector component.
	FloatSize = 4
)

var (
	// ErrTruncated is returned when a record runs past the end of the data.
	ErrTruncated = errors.New("blob record truncated")

	// ErrOffsetOutOfRange is returned when a record offset lies outside the data.
	ErrOffsetOutOfRange = errors.New("blob offset out of range")
)

// Entry is one encoded vector ready to be written to a sink.
type Entry struct {
	Word string
	Data []byte
}

// EncodedSize returns the number of bytes a vector of dim components occupies.
func EncodedSize(dim int) int {
	return PrefixSize + dim*FloatSize
}

// AppendVector appends the encoded form of vec to dst and returns the extended slice.
func AppendVector(dst []byte, vec []float32) []byte {
	dst = binary.LittleEndian.AppendUint64(dst, uint64(len(vec)))
	for _, v := range vec {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v))
	}
	return dst
}

// EncodeVector returns the encoded form of vec.
func EncodeVector(vec []float32) []byte {
	return AppendVector(make([]byte, 0, EncodedSize(len(vec))), vec)
}

// RecordBounds validates the record at offset and returns the byte range of
// its float payload within src.
func RecordBounds(src []byte, offset uint64) (start, end int, err error) {
	size := uint64(len(src))
	if offset >= size || size-offset < PrefixSize {
		return 0, 0, fmt.Errorf("%w: offset %d, size %d", ErrOffsetOutOfRange, offset, size)
	}
	n := binary.LittleEndian.Uint64(src[offset : offset+PrefixSize])
	payload := size - offset - PrefixSize
	if n > payload/FloatSize {
		return 0, 0, fmt.Errorf("%w: need %d floats at offset %d, have %d bytes", ErrTruncated, n, offset, payload)
	}
	start = int(offset + PrefixSize)
	return start, start + int(n)*FloatSize, nil
}

// DecodeVector decodes the record at offset into a newly allocated slice.
func DecodeVector(src []byte, offset uint64) ([]float32, error) {
	start, end, err := RecordBounds(src, offset)
	if err != nil {
		return nil, err
	}
	out := make([]float32, (end-start)/FloatSize)
	for i := range out {
		p := start + i*FloatSize
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(src[p : p+FloatSize]))
	}
	return out, nil
}

// DecodeBytes decodes a record that occupies the whole of src.
func DecodeBytes(src []byte) ([]float32, error) {
	vec, err := DecodeVector(src, 0)
	if err != nil {
		return nil, err
	}
	if EncodedSize(len(vec)) != len(src) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrTruncated, len(src)-EncodedSize(len(vec)))
	}
	return vec, nil
}
