package reader

import (
	"fmt"
	"io"
	"math"

	"github.com/joshuapare/hicattr/internal/format"
)

func at(r io.ReaderAt, pos int64) io.Reader {
	return io.NewSectionReader(r, pos, math.MaxInt64-pos)
}

// ReadMasterIndex walks the master index stored at pos. Entries are read in
// sequence because each variable-length key determines where the next entry
// begins.
func ReadMasterIndex(r io.ReaderAt, pos int64, version int32) (*format.MasterIndex, error) {
	if pos < 0 {
		return nil, &format.FormatError{Field: "masterIndex", Offset: pos, Cause: format.ErrOffsetRange}
	}
	d := newDecoder(at(r, pos), pos, 0)
	idx := &format.MasterIndex{}

	var err error
	if idx.ByteCount, err = d.fixed("masterIndex.byteCount", format.MasterIndexSizeWidth(version)); err != nil {
		return nil, err
	}
	n, err := d.count("masterIndex.entryCount")
	if err != nil {
		return nil, err
	}
	idx.Entries = make([]format.MasterIndexEntry, 0, min(int(n), 4096))
	for i := range int(n) {
		var e format.MasterIndexEntry
		if e.Key, err = d.cstring(fmt.Sprintf("masterIndex[%d].key", i)); err != nil {
			return nil, err
		}
		e.PositionOffset = d.off
		if e.Position, err = d.i64(fmt.Sprintf("masterIndex[%d].position", i)); err != nil {
			return nil, err
		}
		if e.Size, err = d.i32(fmt.Sprintf("masterIndex[%d].size", i)); err != nil {
			return nil, err
		}
		idx.Entries = append(idx.Entries, e)
	}
	return idx, nil
}

// ReadNormVectorIndex walks the normalization-vector index stored at pos.
func ReadNormVectorIndex(r io.ReaderAt, pos int64) (*format.NormVectorIndex, error) {
	if pos < 0 {
		return nil, &format.FormatError{Field: "normVectorIndex", Offset: pos, Cause: format.ErrOffsetRange}
	}
	d := newDecoder(at(r, pos), pos, 0)
	n, err := d.count("normVectorIndex.entryCount")
	if err != nil {
		return nil, err
	}
	idx := &format.NormVectorIndex{Entries: make([]format.NormVectorIndexEntry, 0, min(int(n), 4096))}
	for i := range int(n) {
		var e format.NormVectorIndexEntry
		prefix := fmt.Sprintf("normVectorIndex[%d]", i)
		if e.Type, err = d.cstring(prefix + ".type"); err != nil {
			return nil, err
		}
		if e.Chromosome, err = d.i32(prefix + ".chromosome"); err != nil {
			return nil, err
		}
		if e.Unit, err = d.cstring(prefix + ".unit"); err != nil {
			return nil, err
		}
		if e.Resolution, err = d.i32(prefix + ".resolution"); err != nil {
			return nil, err
		}
		e.PositionOffset = d.off
		if e.Position, err = d.i64(prefix + ".position"); err != nil {
			return nil, err
		}
		if e.Size, err = d.i64(prefix + ".size"); err != nil {
			return nil, err
		}
		idx.Entries = append(idx.Entries, e)
	}
	return idx, nil
}
