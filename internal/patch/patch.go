// Package patch computes and applies the offset corrections a header edit
// requires. Every correction is a named field write: the field's location in
// the input, its width, and its old and new values. A Set is built from the
// input before anything is written, so it can be applied to bytes in flight
// (single pass) or to the finished output file (two pass).
package patch

import (
	"fmt"
	"io"
	"slices"

	"github.com/joshuapare/hicattr/internal/buf"
	"github.com/joshuapare/hicattr/internal/format"
	"github.com/joshuapare/hicattr/internal/reader"
)

// Field is one offset-bearing field and its corrected value.
type Field struct {
	Name        string
	InputOffset int64
	Width       int
	Old         int64
	New         int64
}

func (f Field) end() int64 { return f.InputOffset + int64(f.Width) }

// Set is the full list of field writes for one edit, in patch order: header
// fields, then master index entries, then normalization-vector index entries.
type Set struct {
	Header *format.Header
	Delta  int64
	Fields []Field

	MasterEntries int
	NormEntries   int
}

// Build walks the input's header fields and indexes and records every stored
// absolute offset with its shifted value. Offsets that point before the end
// of the attribute block keep their value.
func Build(r io.ReaderAt, h *format.Header, delta int64) (*Set, error) {
	s := &Set{Header: h, Delta: delta}

	if err := s.add(string(format.FieldFooterPosition), h.Fields[format.FieldFooterPosition], format.Int64Size, h.FooterPosition); err != nil {
		return nil, err
	}
	if h.HasNormVectorIndex() {
		if err := s.add(string(format.FieldNormVectorIndexPosition), h.Fields[format.FieldNormVectorIndexPosition], format.Int64Size, h.NormVectorIndexPosition); err != nil {
			return nil, err
		}
	}

	master, err := reader.ReadMasterIndex(r, h.FooterPosition, h.Version)
	if err != nil {
		return nil, fmt.Errorf("master index: %w", err)
	}
	for i, e := range master.Entries {
		name := fmt.Sprintf("masterIndex[%d](%s).position", i, e.Key)
		if err := s.add(name, e.PositionOffset, format.Int64Size, e.Position); err != nil {
			return nil, err
		}
	}
	s.MasterEntries = len(master.Entries)

	if h.HasNormVectorIndex() {
		nvi, err := reader.ReadNormVectorIndex(r, h.NormVectorIndexPosition)
		if err != nil {
			return nil, fmt.Errorf("normalization vector index: %w", err)
		}
		for i, e := range nvi.Entries {
			name := fmt.Sprintf("normVectorIndex[%d](%s/%s/%d).position", i, e.Type, e.Unit, e.Resolution)
			if err := s.add(name, e.PositionOffset, format.Int64Size, e.Position); err != nil {
				return nil, err
			}
		}
		s.NormEntries = len(nvi.Entries)
	}
	return s, nil
}

func (s *Set) add(name string, at int64, width int, old int64) error {
	h := s.Header
	countOff := h.AttributeCountOffset()
	if _, n := buf.Overlap(at, int64(width), countOff, h.AttributesEnd-countOff); n > 0 {
		return &format.FormatError{Field: name, Offset: at, Cause: fmt.Errorf("%w: field overlaps the attribute block", format.ErrOffsetRange)}
	}
	next := old
	if h.Shifts(old) {
		v, ok := buf.Shift(old, s.Delta)
		if !ok {
			return &format.FormatError{Field: name, Offset: at, Cause: fmt.Errorf("%w: %d%+d", format.ErrOffsetRange, old, s.Delta)}
		}
		next = v
	}
	s.Fields = append(s.Fields, Field{Name: name, InputOffset: at, Width: width, Old: old, New: next})
	return nil
}

// field returns the first field with the given name.
func (s *Set) field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Changed reports how many fields receive a different value.
func (s *Set) Changed() int {
	n := 0
	for _, f := range s.Fields {
		if f.New != f.Old {
			n++
		}
	}
	return n
}

// OutputOffset is where f lives in the rewritten file.
func (s *Set) OutputOffset(f Field) int64 {
	return s.Header.OutputOffset(f.InputOffset, s.Delta)
}

// Stream returns a Streamer that patches chunks read from the input in
// ascending offset order.
func (s *Set) Stream() *Streamer {
	sorted := slices.Clone(s.Fields)
	slices.SortFunc(sorted, func(a, b Field) int {
		switch {
		case a.InputOffset < b.InputOffset:
			return -1
		case a.InputOffset > b.InputOffset:
			return 1
		}
		return 0
	})
	return &Streamer{fields: sorted}
}

// Streamer overwrites field bytes in chunks as they pass by. Chunks must be
// presented in ascending, non-overlapping input order; fields may straddle
// chunk boundaries.
type Streamer struct {
	fields []Field
	next   int
	// Mask writes zeros instead of the new value.
	Mask bool
}

// Apply patches chunk, whose first byte is at input offset off. It returns
// the number of fields completed within this chunk.
func (st *Streamer) Apply(chunk []byte, off int64) int {
	end := off + int64(len(chunk))
	for st.next < len(st.fields) && st.fields[st.next].end() <= off {
		st.next++
	}
	touched := 0
	for i := st.next; i < len(st.fields) && st.fields[i].InputOffset < end; i++ {
		f := st.fields[i]
		start, n := buf.Overlap(off, int64(len(chunk)), f.InputOffset, int64(f.Width))
		if n == 0 {
			continue
		}
		val := make([]byte, f.Width)
		if !st.Mask {
			val = buf.Encode(f.New, f.Width)
		}
		src := start - f.InputOffset
		copy(chunk[start-off:start-off+n], val[src:src+n])
		if start+n == f.end() {
			touched++
		}
	}
	return touched
}
