package testutil

import (
	"github.com/joshuapare/hicattr/internal/buf"
	"github.com/joshuapare/hicattr/internal/format"
)

// Chromosome is a dictionary entry in a synthetic file.
type Chromosome struct {
	Name   string
	Length int64
}

// Block is a payload block referenced from the master index.
type Block struct {
	Key  string
	Size int32
}

// NormVector is a payload block referenced from the normalization-vector index.
type NormVector struct {
	Type       string
	Chromosome int32
	Unit       string
	Resolution int32
	Size       int64
}

// HicSpec describes a synthetic .hic file. Zero values give a small v9 file.
type HicSpec struct {
	Version    int32
	Genome     string
	Attributes []format.Attribute

	Chromosomes     []Chromosome
	BpResolutions   []int32
	FragResolutions []int32

	Blocks      []Block
	NormVectors []NormVector

	// FooterAt pads the body so the master index starts exactly here. It
	// is ignored when the body is already longer.
	FooterAt int64

	// LowPositions adds master index entries whose positions point into the
	// fixed header, before the attribute block.
	LowPositions []int64
}

// HicFile is a built file plus the offsets the builder chose.
type HicFile struct {
	Data []byte

	AttributesEnd  int64
	TrailerEnd     int64
	FooterPosition int64
	NormPosition   int64
	NormLength     int64

	// BlockPositions and NormPositions are the stored position values, in
	// index order. BlockPositions includes LowPositions at the end.
	BlockPositions []int64
	NormPositions  []int64
}

// DefaultHicSpec returns a v9 file with chromosome dictionary, two blocks and
// one normalization vector.
func DefaultHicSpec() HicSpec {
	return HicSpec{
		Version: 9,
		Genome:  "hg38",
		Attributes: []format.Attribute{
			{Key: "software", Value: "juicer_tools"},
		},
		Chromosomes:     []Chromosome{{"All", 3000}, {"chr1", 248956422}},
		BpResolutions:   []int32{2500000, 1000000},
		FragResolutions: []int32{500},
		Blocks:          []Block{{"1_1", 96}, {"1_1_2500000", 40}},
		NormVectors:     []NormVector{{"KR", 1, "BP", 2500000, 24}},
	}
}

func cstr(b []byte, s string) []byte {
	b = append(b, s...)
	return append(b, 0)
}

// fill appends n deterministic, non-zero payload bytes.
func fill(b []byte, n int64, seed byte) []byte {
	for i := range n {
		b = append(b, byte(i*31)+seed|1)
	}
	return b
}

// BuildHic lays out header, trailer, payload blocks, norm vectors, master
// index and normalization-vector index, in that order.
func BuildHic(s HicSpec) *HicFile {
	if s.Version == 0 {
		s.Version = 9
	}
	nvi := format.HasNormVectorIndex(s.Version)
	out := &HicFile{}

	b := cstr(nil, format.Magic)
	b = buf.AppendI32LE(b, s.Version)
	footerField := len(b)
	b = buf.AppendI64LE(b, 0)
	b = cstr(b, s.Genome)
	nviField := -1
	if nvi {
		nviField = len(b)
		b = buf.AppendI64LE(b, 0)
		b = buf.AppendI64LE(b, 0)
	}
	b = buf.AppendI32LE(b, int32(len(s.Attributes)))
	b = format.AppendAttributes(b, s.Attributes)
	out.AttributesEnd = int64(len(b))

	b = buf.AppendI32LE(b, int32(len(s.Chromosomes)))
	for _, c := range s.Chromosomes {
		b = cstr(b, c.Name)
		if nvi {
			b = buf.AppendI64LE(b, c.Length)
		} else {
			b = buf.AppendI32LE(b, int32(c.Length))
		}
	}
	b = buf.AppendI32LE(b, int32(len(s.BpResolutions)))
	for _, r := range s.BpResolutions {
		b = buf.AppendI32LE(b, r)
	}
	b = buf.AppendI32LE(b, int32(len(s.FragResolutions)))
	for _, r := range s.FragResolutions {
		b = buf.AppendI32LE(b, r)
	}
	out.TrailerEnd = int64(len(b))

	for i, blk := range s.Blocks {
		out.BlockPositions = append(out.BlockPositions, int64(len(b)))
		b = fill(b, int64(blk.Size), byte(i))
	}
	out.BlockPositions = append(out.BlockPositions, s.LowPositions...)
	if nvi {
		for i, nv := range s.NormVectors {
			out.NormPositions = append(out.NormPositions, int64(len(b)))
			b = fill(b, nv.Size, byte(0x40+i))
		}
	}

	if int64(len(b)) < s.FooterAt {
		b = fill(b, s.FooterAt-int64(len(b)), 0x80)
	}
	out.FooterPosition = int64(len(b))

	var entries []byte
	keys := make([]string, 0, len(out.BlockPositions))
	sizes := make([]int32, 0, len(out.BlockPositions))
	for _, blk := range s.Blocks {
		keys = append(keys, blk.Key)
		sizes = append(sizes, blk.Size)
	}
	for i := range s.LowPositions {
		keys = append(keys, "low_"+string(rune('a'+i)))
		sizes = append(sizes, 4)
	}
	entries = buf.AppendI32LE(entries, int32(len(keys)))
	for i, k := range keys {
		entries = cstr(entries, k)
		entries = buf.AppendI64LE(entries, out.BlockPositions[i])
		entries = buf.AppendI32LE(entries, sizes[i])
	}
	if nvi {
		b = buf.AppendI64LE(b, int64(len(entries)))
	} else {
		b = buf.AppendI32LE(b, int32(len(entries)))
	}
	b = append(b, entries...)
	// expected value maps are opaque to the editor
	b = buf.AppendI32LE(b, 0)

	if nvi {
		out.NormPosition = int64(len(b))
		b = buf.AppendI32LE(b, int32(len(s.NormVectors)))
		for i, nv := range s.NormVectors {
			b = cstr(b, nv.Type)
			b = buf.AppendI32LE(b, nv.Chromosome)
			b = cstr(b, nv.Unit)
			b = buf.AppendI32LE(b, nv.Resolution)
			b = buf.AppendI64LE(b, out.NormPositions[i])
			b = buf.AppendI64LE(b, nv.Size)
		}
		out.NormLength = int64(len(b)) - out.NormPosition
		buf.PutI64LE(b[nviField:], out.NormPosition)
		buf.PutI64LE(b[nviField+8:], out.NormLength)
	}
	buf.PutI64LE(b[footerField:], out.FooterPosition)

	out.Data = b
	return out
}
