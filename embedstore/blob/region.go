package blob

// Region provides read-only access to a persisted blob file.
type Region interface {
	// Bytes returns the full mapped file, or nil for an empty file.
	// The slice is valid until Close is called. Caller must not modify it.
	Bytes() []byte
	// VectorView returns a []float32 view of the record at offset, or nil
	// if the record is out of range or the host is not little-endian.
	// The slice is valid until Close is called. Caller must not modify it.
	VectorView(offset uint64) []float32
	// Close releases resources (e.g. unmaps the file).
	Close() error
}
