package blob

import (
	"os"
	"unsafe"

	"github.com/edsrzf/mmap-go"
)

var _ Region = (*MmapRegion)(nil)

// MmapRegion is a Region backed by an mmap'd file.
type MmapRegion struct {
	f    *os.File
	data mmap.MMap
}

// OpenRegion opens a file and returns a read-only Region over its contents.
// An empty file yields a region with no bytes.
func OpenRegion(path string) (*MmapRegion, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if fi.Size() == 0 {
		return &MmapRegion{f: f}, nil
	}
	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &MmapRegion{f: f, data: m}, nil
}

// Bytes returns the full mapped file.
func (r *MmapRegion) Bytes() []byte {
	return r.data
}

// Advise hints the kernel that lookups hit the mapping in random order.
func (r *MmapRegion) Advise() error {
	if len(r.data) == 0 {
		return nil
	}
	return adviseRandom(r.data)
}

// VectorView returns a []float32 view of the record at offset.
// The slice is valid until Close. Caller must not modify it.
func (r *MmapRegion) VectorView(offset uint64) []float32 {
	if r.data == nil || !hostLittleEndian {
		return nil
	}
	start, end, err := RecordBounds(r.data, offset)
	if err != nil || start%FloatSize != 0 {
		return nil
	}
	if start == end {
		return []float32{}
	}
	ptr := unsafe.Pointer(&r.data[start])
	return unsafe.Slice((*float32)(ptr), (end-start)/FloatSize)
}

// Close unmaps the file and closes it.
func (r *MmapRegion) Close() error {
	if r.data != nil {
		if err := r.data.Unmap(); err != nil {
			return err
		}
		r.data = nil
	}
	if r.f != nil {
		err := r.f.Close()
		r.f = nil
		return err
	}
	return nil
}

var hostLittleEndian = func() bool {
	x := uint16(1)
	return *(*byte)(unsafe.Pointer(&x)) == 1
}()
