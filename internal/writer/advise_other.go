//go:build !linux

package writer

func adviseSequential(uintptr) {}
