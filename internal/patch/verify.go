package patch

import (
	"errors"
	"fmt"
	"io"

	"github.com/cespare/xxhash/v2"

	"github.com/joshuapare/hicattr/internal/buf"
	"github.com/joshuapare/hicattr/internal/format"
	"github.com/joshuapare/hicattr/internal/reader"
)

// ErrMismatch is wrapped by Verify when the output does not match the input.
var ErrMismatch = errors.New("patch: output does not match input")

// Source is a sized random-access file view.
type Source interface {
	io.ReaderAt
	Size() int64
}

// Report is the result of comparing an output file with its input.
type Report struct {
	Delta          int64 `json:"delta"`
	AttributeCount int   `json:"attributeCount"`
	FieldsChecked  int   `json:"fieldsChecked"`
	// PrefixDigest and PayloadDigest are xxhash64 digests of the unchanged
	// regions with offset fields zeroed; In and Out must agree.
	InPrefixDigest   uint64   `json:"inPrefixDigest"`
	OutPrefixDigest  uint64   `json:"outPrefixDigest"`
	InPayloadDigest  uint64   `json:"inPayloadDigest"`
	OutPayloadDigest uint64   `json:"outPayloadDigest"`
	Mismatches       []string `json:"mismatches,omitempty"`
}

// OK reports whether no mismatch was found.
func (r *Report) OK() bool { return len(r.Mismatches) == 0 }

func (r *Report) failf(format string, args ...any) {
	r.Mismatches = append(r.Mismatches, fmt.Sprintf(format, args...))
}

// Verify checks that out is in with only the attribute block replaced and
// every stored offset shifted by the attribute delta. chunk sizes the read
// buffers; zero selects the default.
func Verify(in, out Source, chunk int) (*Report, error) {
	inHdr, err := reader.ReadHeader(io.NewSectionReader(in, 0, in.Size()), reader.Options{AllowAnyMagic: true})
	if err != nil {
		return nil, fmt.Errorf("input header: %w", err)
	}
	outHdr, err := reader.ReadHeader(io.NewSectionReader(out, 0, out.Size()), reader.Options{AllowAnyMagic: true})
	if err != nil {
		return nil, fmt.Errorf("output header: %w", err)
	}

	delta := format.EncodedSize(outHdr.Attributes) - format.EncodedSize(inHdr.Attributes)
	rep := &Report{Delta: delta, AttributeCount: len(outHdr.Attributes)}

	if inHdr.AttributeCountOffset() != outHdr.AttributeCountOffset() {
		rep.failf("attribute count field moved from %d to %d", inHdr.AttributeCountOffset(), outHdr.AttributeCountOffset())
		return rep, fmt.Errorf("%w: %s", ErrMismatch, rep.Mismatches[0])
	}
	if got, want := outHdr.AttributesEnd, inHdr.AttributesEnd+delta; got != want {
		rep.failf("attribute block ends at %d, want %d", got, want)
	}
	if got, want := out.Size(), in.Size()+delta; got != want {
		rep.failf("output size %d, want %d", got, want)
	}

	set, err := Build(in, inHdr, delta)
	if err != nil {
		return nil, err
	}
	cur := make([]byte, format.Int64Size)
	for _, f := range set.Fields {
		at := set.OutputOffset(f)
		b := cur[:f.Width]
		if _, err := out.ReadAt(b, at); err != nil {
			rep.failf("%s: unreadable at %d: %v", f.Name, at, err)
			continue
		}
		if got := buf.Decode(b, f.Width); got != f.New {
			rep.failf("%s at %d: stored %d, want %d", f.Name, at, got, f.New)
		}
		rep.FieldsChecked++
	}

	// Regions compared in input coordinates: the fixed prefix up to the
	// attribute count, then everything after the attribute block.
	prefix := inHdr.AttributeCountOffset()
	if rep.InPrefixDigest, err = digest(in, set, 0, 0, prefix, chunk); err != nil {
		return nil, err
	}
	if rep.OutPrefixDigest, err = digest(out, set, 0, 0, prefix, chunk); err != nil {
		return nil, err
	}
	tail := in.Size() - inHdr.AttributesEnd
	if rep.InPayloadDigest, err = digest(in, set, inHdr.AttributesEnd, inHdr.AttributesEnd, tail, chunk); err != nil {
		return nil, err
	}
	if out.Size()-outHdr.AttributesEnd == tail {
		if rep.OutPayloadDigest, err = digest(out, set, outHdr.AttributesEnd, inHdr.AttributesEnd, tail, chunk); err != nil {
			return nil, err
		}
	}
	if rep.InPrefixDigest != rep.OutPrefixDigest {
		rep.failf("fixed header differs outside offset fields")
	}
	if rep.InPayloadDigest != rep.OutPayloadDigest {
		rep.failf("payload differs outside offset fields")
	}

	if !rep.OK() {
		return rep, fmt.Errorf("%w: %d problem(s), first: %s", ErrMismatch, len(rep.Mismatches), rep.Mismatches[0])
	}
	return rep, nil
}

// digest hashes n bytes of r starting at off, zeroing offset fields. inOff is
// the input offset corresponding to off.
func digest(r io.ReaderAt, set *Set, off, inOff, n int64, chunk int) (uint64, error) {
	b := buf.GetChunk(chunk)
	defer buf.PutChunk(b)

	st := set.Stream()
	st.Mask = true
	h := xxhash.New()
	for done := int64(0); done < n; {
		c := (*b)[:min(int64(len(*b)), n-done)]
		if _, err := r.ReadAt(c, off+done); err != nil {
			return 0, &format.IOError{Op: "read", Field: "verify", Offset: off + done, Cause: err}
		}
		st.Apply(c, inOff+done)
		_, _ = h.Write(c)
		done += int64(len(c))
	}
	return h.Sum64(), nil
}
