package main

import (
	"errors"

	"github.com/joshuapare/hicattr/internal/format"
)

const (
	exitOK             = 0
	exitFailure        = 1
	exitInvalidArgs    = 2
	exitAnchorNotFound = 3
	exitFormat         = 4
	exitFileOpen       = 5
)

// exitCode classifies err by the typed error it wraps.
func exitCode(err error) int {
	var (
		anchor  *format.AnchorNotFoundError
		invalid *format.InvalidArgumentError
		bad     *format.FormatError
		open    *format.FileOpenError
	)
	switch {
	case err == nil:
		return exitOK
	case errors.As(err, &anchor):
		return exitAnchorNotFound
	case errors.As(err, &invalid):
		return exitInvalidArgs
	case errors.As(err, &bad):
		return exitFormat
	case errors.As(err, &open):
		return exitFileOpen
	default:
		return exitFailure
	}
}
