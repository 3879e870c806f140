package hic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/hicattr/internal/format"
	"github.com/joshuapare/hicattr/internal/testutil"
	"github.com/joshuapare/hicattr/pkg/hic"
)

func TestInspect(t *testing.T) {
	path, f := testutil.WriteHic(t, testutil.DefaultHicSpec())

	info, err := hic.Inspect(path)
	require.NoError(t, err)

	assert.Equal(t, int64(len(f.Data)), info.Size)
	assert.Equal(t, int32(9), info.Version)
	assert.Equal(t, "hg38", info.GenomeID)
	assert.Equal(t, f.FooterPosition, info.FooterPosition)
	assert.Equal(t, f.NormPosition, info.NormVectorIndexPosition)
	assert.Equal(t, f.NormLength, info.NormVectorIndexLength)
	assert.Equal(t, f.AttributesEnd, info.AttributesEnd)
	assert.Equal(t, f.TrailerEnd, info.TrailerEnd)
	assert.Equal(t, int32(2), info.Chromosomes)
	assert.Equal(t, int32(2), info.BpResolutions)
	assert.Equal(t, int32(1), info.FragResolutions)
	assert.Equal(t, []hic.Attribute{{Key: "software", Value: "juicer_tools"}}, info.Attributes)
	assert.Equal(t, int64(8), info.Fields[format.FieldFooterPosition])

	require.Len(t, info.MasterIndex, 2)
	assert.Equal(t, "1_1", info.MasterIndex[0].Key)
	assert.Equal(t, f.BlockPositions[1], info.MasterIndex[1].Position)
	assert.Equal(t, int32(40), info.MasterIndex[1].Size)

	require.Len(t, info.NormVectorIndex, 1)
	nv := info.NormVectorIndex[0]
	assert.Equal(t, "KR", nv.Type)
	assert.Equal(t, "BP", nv.Unit)
	assert.Equal(t, int32(2500000), nv.Resolution)
	assert.Equal(t, f.NormPositions[0], nv.Position)
}

func TestInspect_BadMagic(t *testing.T) {
	f := testutil.BuildHic(testutil.DefaultHicSpec())
	data := append([]byte(nil), f.Data...)
	copy(data, "XYZ")
	path := testutil.WriteTemp(t, "bad.hic", data)

	_, err := hic.Inspect(path)
	require.ErrorIs(t, err, format.ErrBadMagic)
}
