package writer

import (
	"errors"
	"io"
	"math"

	"github.com/joshuapare/hicattr/internal/buf"
	"github.com/joshuapare/hicattr/internal/format"
	"github.com/joshuapare/hicattr/internal/logger"
	"github.com/joshuapare/hicattr/internal/patch"
)

// Input is the file being rewritten.
type Input interface {
	io.ReaderAt
	Size() int64
}

// Stats summarizes one rewrite.
type Stats struct {
	BytesWritten  int64
	PayloadBytes  int64
	FieldsPatched int
}

// Rewriter streams a header edit from Input to an io.Writer.
type Rewriter struct {
	in  Input
	hdr *format.Header
	// patches is nil when offsets are fixed afterwards in place.
	patches *patch.Streamer
	chunk   *[]byte
	stats   Stats
}

// NewRewriter prepares a rewrite of in. When set is non-nil its fields are
// patched into the stream; bufSize bounds the copy buffer.
func NewRewriter(in Input, hdr *format.Header, set *patch.Set, bufSize int) *Rewriter {
	rw := &Rewriter{in: in, hdr: hdr, chunk: buf.GetChunk(bufSize)}
	if set != nil {
		rw.patches = set.Stream()
	}
	if f, ok := in.(interface{ Fd() uintptr }); ok {
		adviseSequential(f.Fd())
	}
	return rw
}

// Close releases the copy buffer.
func (rw *Rewriter) Close() {
	buf.PutChunk(rw.chunk)
	rw.chunk = nil
}

// WriteTo emits, in order: the unmodified prefix up to the attribute count,
// the new count and attributes, the trailer bytes, then the payload.
func (rw *Rewriter) WriteTo(w io.Writer, attrs []format.Attribute) (Stats, error) {
	h := rw.hdr
	if len(attrs) > math.MaxInt32 {
		return rw.stats, &format.InvalidArgumentError{Arg: "attributes", Message: "too many attributes"}
	}

	if err := rw.copyRange(w, "header prefix", 0, h.AttributeCountOffset()); err != nil {
		return rw.stats, err
	}

	block := buf.AppendI32LE(make([]byte, 0, format.Int32Size+int(format.EncodedSize(attrs))), int32(len(attrs)))
	block = format.AppendAttributes(block, attrs)
	if err := rw.write(w, "attributes", h.AttributeCountOffset(), block); err != nil {
		return rw.stats, err
	}

	if err := rw.copyRange(w, "trailer", h.AttributesEnd, h.TrailerEnd); err != nil {
		return rw.stats, err
	}
	start := rw.stats.BytesWritten
	if err := rw.copyRange(w, "payload", h.TrailerEnd, rw.in.Size()); err != nil {
		return rw.stats, err
	}
	rw.stats.PayloadBytes = rw.stats.BytesWritten - start

	logger.Debug("rewrite complete",
		"bytes", rw.stats.BytesWritten, "payload", rw.stats.PayloadBytes, "patched", rw.stats.FieldsPatched)
	return rw.stats, nil
}

func (rw *Rewriter) write(w io.Writer, field string, inOff int64, b []byte) error {
	n, err := w.Write(b)
	rw.stats.BytesWritten += int64(n)
	if err != nil {
		return &format.IOError{Op: "write", Field: field, Offset: inOff, Cause: err}
	}
	return nil
}

// copyRange copies input bytes [from, to) through the reusable chunk.
func (rw *Rewriter) copyRange(w io.Writer, field string, from, to int64) error {
	b := *rw.chunk
	for off := from; off < to; {
		c := b[:min(int64(len(b)), to-off)]
		n, err := rw.in.ReadAt(c, off)
		if n < len(c) {
			if err == nil || errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return &format.IOError{Op: "read", Field: field, Offset: off + int64(n), Cause: err}
		}
		if rw.patches != nil {
			rw.stats.FieldsPatched += rw.patches.Apply(c, off)
		}
		if err := rw.write(w, field, off, c); err != nil {
			return err
		}
		off += int64(len(c))
	}
	return nil
}
