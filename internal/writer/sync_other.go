//go:build !linux && !freebsd && !darwin

package writer

import "os"

func datasync(f *os.File) error {
	return f.Sync()
}
