package hic

import (
	"io"

	"github.com/joshuapare/hicattr/internal/format"
	"github.com/joshuapare/hicattr/internal/reader"
)

// Info describes a file's header and offset-bearing indexes.
type Info struct {
	Path     string `json:"path"`
	Size     int64  `json:"size"`
	Magic    string `json:"magic"`
	Version  int32  `json:"version"`
	GenomeID string `json:"genomeId"`

	FooterPosition          int64 `json:"footerPosition"`
	NormVectorIndexPosition int64 `json:"normVectorIndexPosition,omitempty"`
	NormVectorIndexLength   int64 `json:"normVectorIndexLength,omitempty"`

	AttributesStart int64       `json:"attributesStart"`
	AttributesEnd   int64       `json:"attributesEnd"`
	TrailerEnd      int64       `json:"trailerEnd"`
	Attributes      []Attribute `json:"attributes"`

	Chromosomes     int32 `json:"chromosomes"`
	BpResolutions   int32 `json:"bpResolutions"`
	FragResolutions int32 `json:"fragResolutions"`

	MasterIndex     []format.MasterIndexEntry     `json:"masterIndex"`
	NormVectorIndex []format.NormVectorIndexEntry `json:"normVectorIndex,omitempty"`

	Fields map[format.FieldName]int64 `json:"fieldOffsets"`
}

// Inspect reads the header and both indexes of the file at path.
func Inspect(path string) (*Info, error) {
	f, _, err := openSized(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	h, err := reader.ReadHeader(io.NewSectionReader(f, 0, f.Size()), reader.Options{ParseTrailer: true})
	if err != nil {
		return nil, err
	}
	info := &Info{
		Path:            path,
		Size:            f.Size(),
		Magic:           h.Magic,
		Version:         h.Version,
		GenomeID:        h.GenomeID,
		FooterPosition:  h.FooterPosition,
		AttributesStart: h.AttributesStart,
		AttributesEnd:   h.AttributesEnd,
		TrailerEnd:      h.TrailerEnd,
		Attributes:      h.Attributes,
		Chromosomes:     h.ChromosomeCount,
		BpResolutions:   h.BpResolutions,
		FragResolutions: h.FragResolutions,
		Fields:          h.Fields,
	}

	master, err := reader.ReadMasterIndex(f, h.FooterPosition, h.Version)
	if err != nil {
		return nil, err
	}
	info.MasterIndex = master.Entries

	if h.HasNormVectorIndex() {
		info.NormVectorIndexPosition = h.NormVectorIndexPosition
		info.NormVectorIndexLength = h.NormVectorIndexLength
		nvi, err := reader.ReadNormVectorIndex(f, h.NormVectorIndexPosition)
		if err != nil {
			return nil, err
		}
		info.NormVectorIndex = nvi.Entries
	}
	return info, nil
}
