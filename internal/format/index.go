package format

// MasterIndexEntry describes a payload block referenced from the footer.
//
//	key       cstring
//	position  int64   absolute
//	size      int32
type MasterIndexEntry struct {
	Key      string `json:"key"`
	Position int64  `json:"position"`
	Size     int32  `json:"size"`

	// PositionOffset is where the position field itself lives in the file.
	PositionOffset int64 `json:"positionOffset"`
}

// NormVectorIndexEntry describes one normalization vector.
//
//	type        cstring
//	chromosome  int32
//	unit        cstring
//	resolution  int32
//	position    int64   absolute
//	size        int64
type NormVectorIndexEntry struct {
	Type       string `json:"type"`
	Chromosome int32  `json:"chromosome"`
	Unit       string `json:"unit"`
	Resolution int32  `json:"resolution"`
	Position   int64  `json:"position"`
	Size       int64  `json:"size"`

	PositionOffset int64 `json:"positionOffset"`
}

// MasterIndex is the footer table at Header.FooterPosition.
type MasterIndex struct {
	ByteCount int64
	Entries   []MasterIndexEntry
}

// NormVectorIndex is the table at Header.NormVectorIndexPosition.
type NormVectorIndex struct {
	Entries []NormVectorIndexEntry
}
