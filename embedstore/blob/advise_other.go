//go:build !unix

package blob

// adviseRandom is a no-op where madvise is unavailable.
func adviseRandom(b []byte) error {
	return nil
}
