//go:build linux

package writer

import "golang.org/x/sys/unix"

// adviseSequential hints that the input is read once front to back.
func adviseSequential(fd uintptr) {
	_ = unix.Fadvise(int(fd), 0, 0, unix.FADV_SEQUENTIAL)
}
