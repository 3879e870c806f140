// Package format describes the on-disk layout of .hic contact-matrix headers
// and the indexes whose absolute offsets must track header edits. All
// integers are little-endian.
//
//	Field                      Type          Present
//	-------------------------  ------------  -------------------
//	magic                      cstring       always ("HIC")
//	version                    int32         always
//	footer position            int64         always (master index)
//	genome ID                  cstring       always
//	norm vector index position int64         version > 8
//	norm vector index length   int64         version > 8
//	attribute count            int32         always
//	attributes                 cstring pairs always
//	chromosome dictionary      see trailer   optional walk
//	resolution arrays          see trailer   optional walk
package format

// Magic is the expected file signature, stored null-terminated.
const Magic = "HIC"

const (
	// Int32Size and Int64Size are the widths of the fixed integer fields.
	Int32Size = 4
	Int64Size = 8

	// NormVectorMinVersion is the first version that carries a
	// normalization-vector index position/length pair in the header and
	// 8-byte chromosome lengths in the dictionary.
	NormVectorMinVersion = 9

	// MaxStringLen bounds a single null-terminated header string. Real
	// attribute values (statistics, graphs) stay well below this.
	MaxStringLen = 64 << 20

	// DefaultCopyBufferSize is the payload copy chunk size.
	DefaultCopyBufferSize = 1 << 20
)

// HasNormVectorIndex reports whether files of this version carry the
// normalization-vector index fields.
func HasNormVectorIndex(version int32) bool {
	return version >= NormVectorMinVersion
}

// MasterIndexSizeWidth returns the width of the byte-count field that
// precedes the master index entry count.
func MasterIndexSizeWidth(version int32) int {
	if HasNormVectorIndex(version) {
		return Int64Size
	}
	return Int32Size
}

// ChromosomeLengthWidth returns the width of each chromosome length in the
// chromosome dictionary.
func ChromosomeLengthWidth(version int32) int {
	if HasNormVectorIndex(version) {
		return Int64Size
	}
	return Int32Size
}
