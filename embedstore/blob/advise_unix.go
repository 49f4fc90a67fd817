//go:build unix

package blob

import "golang.org/x/sys/unix"

func adviseRandom(b []byte) error {
	return unix.Madvise(b, unix.MADV_RANDOM)
}
