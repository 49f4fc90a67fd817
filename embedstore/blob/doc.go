// Package blob provides the blob file record format and the mmap-backed
// read-only region used by embedstore.Open.
//
// The blob file is a plain concatenation of records, one per vector:
//   - Count (8 bytes): little-endian uint64 element count
//   - Data: Count little-endian float32 values
//
// Records carry their own length, so a decoder given only a start offset
// can find the end of the record. The index file supplies the offsets.
package blob
