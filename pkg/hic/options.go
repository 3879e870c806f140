package hic

import (
	"github.com/joshuapare/hicattr/internal/format"
)

// EditOptions controls EditFile.
type EditOptions struct {
	// BufferSize is the payload copy chunk. Zero uses 1 MiB.
	BufferSize int

	// TwoPass writes the file with the original offsets and then reopens it
	// to patch each offset field in place. The default single pass emits
	// every offset already corrected. Both produce identical bytes.
	TwoPass bool

	// Sync flushes the output to stable storage before it is renamed.
	Sync bool

	// Verify re-reads input and output after writing and compares them.
	Verify bool

	// SkipTrailer stops header parsing after the attribute block instead of
	// walking the chromosome dictionary and resolution arrays.
	SkipTrailer bool

	// AllowAnyMagic accepts files that do not start with "HIC".
	AllowAnyMagic bool
}

func (o *EditOptions) withDefaults() EditOptions {
	var out EditOptions
	if o != nil {
		out = *o
	}
	if out.BufferSize <= 0 {
		out.BufferSize = format.DefaultCopyBufferSize
	}
	return out
}
