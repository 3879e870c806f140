package format

// FieldName identifies an offset-bearing field in the file.
type FieldName string

// Header fields whose position is recorded while parsing.
const (
	FieldFooterPosition          FieldName = "footerPosition"
	FieldNormVectorIndexPosition FieldName = "normVectorIndexPosition"
	FieldNormVectorIndexLength   FieldName = "normVectorIndexLength"
	FieldAttributeCount          FieldName = "attributeCount"
)

// Header is the parsed .hic preamble together with the absolute input offset
// of every field that an edit may need to rewrite.
type Header struct {
	Magic    string
	Version  int32
	GenomeID string

	// FooterPosition is the absolute offset of the master index.
	FooterPosition int64
	// NormVectorIndexPosition and NormVectorIndexLength are only meaningful
	// when HasNormVectorIndex(Version).
	NormVectorIndexPosition int64
	NormVectorIndexLength   int64

	Attributes []Attribute

	// Fields maps each recorded field to its offset in the input.
	Fields map[FieldName]int64

	// AttributesStart is the offset of the first key byte, AttributesEnd the
	// offset just past the last value terminator.
	AttributesStart int64
	AttributesEnd   int64

	// TrailerEnd is the end of the chromosome dictionary and resolution
	// arrays when they were walked, otherwise equal to AttributesEnd.
	TrailerEnd      int64
	TrailerParsed   bool
	ChromosomeCount int32
	BpResolutions   int32
	FragResolutions int32
}

// HasNormVectorIndex reports whether the header carries NVI fields.
func (h *Header) HasNormVectorIndex() bool {
	return HasNormVectorIndex(h.Version)
}

// FieldOffset returns the recorded input offset of name.
func (h *Header) FieldOffset(name FieldName) (int64, bool) {
	off, ok := h.Fields[name]
	return off, ok
}

// AttributeCountOffset is where the rewritten header diverges from the input.
func (h *Header) AttributeCountOffset() int64 {
	return h.Fields[FieldAttributeCount]
}

// OutputOffset maps an input offset to the output layout for a given delta.
// Bytes before the attribute block do not move.
func (h *Header) OutputOffset(in, delta int64) int64 {
	if in < h.AttributesEnd {
		return in
	}
	return in + delta
}

// Shifts reports whether a stored offset value points at or past the end of
// the attribute block and therefore moves with an edit.
func (h *Header) Shifts(value int64) bool {
	return value >= h.AttributesEnd
}
