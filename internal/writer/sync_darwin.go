//go:build darwin

package writer

import (
	"os"

	"golang.org/x/sys/unix"
)

// datasync uses F_FULLFSYNC; plain fsync on macOS may stop at the drive cache.
func datasync(f *os.File) error {
	_, err := unix.FcntlInt(f.Fd(), unix.F_FULLFSYNC, 0)
	return err
}
