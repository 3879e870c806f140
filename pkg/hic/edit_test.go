package hic_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/hicattr/internal/buf"
	"github.com/joshuapare/hicattr/internal/format"
	"github.com/joshuapare/hicattr/internal/testutil"
	"github.com/joshuapare/hicattr/pkg/hic"
)

func outPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "out.hic")
}

func TestEditFile_AppendScenario(t *testing.T) {
	spec := testutil.DefaultHicSpec()
	spec.Attributes = []hic.Attribute{{Key: "software", Value: "x"}}
	spec.FooterAt = 1000
	in, _ := testutil.WriteHic(t, spec)
	out := outPath(t)

	plan := hic.Plan{&hic.Append{Pairs: []hic.Attribute{{Key: "k", Value: "v"}}}}
	res, err := hic.EditFile(in, out, plan, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(4), res.Delta)
	assert.Equal(t, 1, res.Changed)
	assert.Equal(t, 2, res.AttributeCount)

	h, err := hic.ReadHeader(out, false)
	require.NoError(t, err)
	assert.Equal(t, int64(1004), h.FooterPosition)
	assert.Len(t, h.Attributes, 2)
	data := testutil.ReadFile(t, out)
	assert.Equal(t, int32(2), buf.I32LE(data[h.AttributeCountOffset():]))

	spec.Attributes = append(spec.Attributes, hic.Attribute{Key: "k", Value: "v"})
	spec.FooterAt = 1004
	assert.Equal(t, testutil.BuildHic(spec).Data, data)
}

func TestEditFile_InsertStatisticsAndGraphs(t *testing.T) {
	spec := testutil.DefaultHicSpec()
	spec.Attributes = []hic.Attribute{{Key: "a", Value: "1"}, {Key: "software", Value: "s"}, {Key: "b", Value: "2"}}
	in, _ := testutil.WriteHic(t, spec)
	out := outPath(t)

	res, err := hic.EditFile(in, out, hic.Plan{hic.InsertStatisticsAndGraphs("S", "G")}, nil)
	require.NoError(t, err)

	var got []string
	for _, a := range res.Attributes {
		got = append(got, a.Key)
	}
	assert.Equal(t, []string{"a", "software", "statistics", "graphs", "b"}, got)
	assert.Equal(t, int64(len("statistics")+1+2+len("graphs")+1+2), res.Delta)

	want := spec
	want.Attributes = res.Attributes
	assert.Equal(t, testutil.BuildHic(want).Data, testutil.ReadFile(t, out))
}

func TestEditFile_MissingAnchorLeavesNoOutput(t *testing.T) {
	spec := testutil.DefaultHicSpec()
	spec.Attributes = []hic.Attribute{{Key: "a", Value: "1"}}
	in, _ := testutil.WriteHic(t, spec)
	out := outPath(t)

	_, err := hic.EditFile(in, out, hic.Plan{hic.InsertStatisticsAndGraphs("S", "G")}, nil)
	var anf *hic.AnchorNotFoundError
	require.ErrorAs(t, err, &anf)
	assert.Equal(t, "software", anf.Key)

	entries, err := os.ReadDir(filepath.Dir(out))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestEditFile_ZeroNetChangeIsByteIdentical(t *testing.T) {
	for _, twoPass := range []bool{false, true} {
		in, f := testutil.WriteHic(t, testutil.DefaultHicSpec())
		out := outPath(t)

		plan := hic.Plan{&hic.ReplaceNamed{Pairs: []hic.Attribute{{Key: "software", Value: "juicer_tools"}}}}
		res, err := hic.EditFile(in, out, plan, &hic.EditOptions{TwoPass: twoPass})
		require.NoError(t, err)
		assert.Zero(t, res.Delta)
		assert.Zero(t, res.Changed)
		assert.Zero(t, res.FieldsPatched)
		assert.Equal(t, f.Data, testutil.ReadFile(t, out))
	}
}

func TestEditFile_TwoPassMatchesSinglePass(t *testing.T) {
	spec := testutil.DefaultHicSpec()
	spec.LowPositions = []int64{0}
	in, _ := testutil.WriteHic(t, spec)
	plan := hic.Plan{
		&hic.Append{Pairs: []hic.Attribute{{Key: "graphs", Value: "<g/>"}}},
		&hic.Reorder{Keys: []string{"graphs", "software"}},
	}

	single := outPath(t)
	r1, err := hic.EditFile(in, single, plan, &hic.EditOptions{BufferSize: 5})
	require.NoError(t, err)
	double := outPath(t)
	r2, err := hic.EditFile(in, double, plan, &hic.EditOptions{TwoPass: true, Sync: true})
	require.NoError(t, err)

	assert.Equal(t, r1.Delta, r2.Delta)
	assert.Equal(t, 5, r1.FieldsPatched)
	assert.Equal(t, testutil.ReadFile(t, single), testutil.ReadFile(t, double))
}

func TestEditFile_ShrinkV8(t *testing.T) {
	spec := testutil.DefaultHicSpec()
	spec.Version = 8
	spec.Attributes = []hic.Attribute{{Key: "software", Value: "s"}, {Key: "old", Value: "long value"}}
	in, f := testutil.WriteHic(t, spec)
	out := outPath(t)

	plan := hic.Plan{&hic.ReplaceNamed{Pairs: []hic.Attribute{{Key: "old", Value: ""}}}}
	res, err := hic.EditFile(in, out, plan, &hic.EditOptions{Verify: true})
	require.NoError(t, err)
	assert.Equal(t, int64(-10), res.Delta)
	assert.Zero(t, res.NormEntries)
	require.NotNil(t, res.Verify)
	assert.True(t, res.Verify.OK())

	info, err := hic.Inspect(out)
	require.NoError(t, err)
	assert.Equal(t, f.FooterPosition-10, info.FooterPosition)
	assert.Zero(t, info.NormVectorIndexPosition)
	for i, e := range info.MasterIndex {
		assert.Equal(t, f.BlockPositions[i]-10, e.Position)
	}
}

func TestEditFile_NormVectorEntriesPatched(t *testing.T) {
	spec := testutil.DefaultHicSpec()
	spec.NormVectors = append(spec.NormVectors, testutil.NormVector{Type: "VC", Chromosome: 1, Unit: "FRAG", Resolution: 500, Size: 8})
	in, f := testutil.WriteHic(t, spec)
	out := outPath(t)

	res, err := hic.EditFile(in, out, hic.Plan{&hic.Append{Pairs: []hic.Attribute{{Key: "x", Value: "yz"}}}}, nil)
	require.NoError(t, err)
	require.Equal(t, int64(5), res.Delta)
	assert.Equal(t, 2, res.NormEntries)

	info, err := hic.Inspect(out)
	require.NoError(t, err)
	assert.Equal(t, f.NormPosition+5, info.NormVectorIndexPosition)
	assert.Equal(t, f.NormLength, info.NormVectorIndexLength)
	require.Len(t, info.NormVectorIndex, 2)
	for i, e := range info.NormVectorIndex {
		assert.Equal(t, f.NormPositions[i]+5, e.Position)
	}
}

func TestEditFile_Errors(t *testing.T) {
	in, f := testutil.WriteHic(t, testutil.DefaultHicSpec())
	plan := hic.Plan{&hic.Append{Pairs: []hic.Attribute{{Key: "k", Value: "v"}}}}

	t.Run("missing input", func(t *testing.T) {
		_, err := hic.EditFile(filepath.Join(t.TempDir(), "nope.hic"), outPath(t), plan, nil)
		var foe *hic.FileOpenError
		require.ErrorAs(t, err, &foe)
	})

	t.Run("same file", func(t *testing.T) {
		_, err := hic.EditFile(in, in, plan, nil)
		var iae *hic.InvalidArgumentError
		require.ErrorAs(t, err, &iae)
		assert.Equal(t, f.Data, testutil.ReadFile(t, in))
	})

	t.Run("same file through link", func(t *testing.T) {
		link := filepath.Join(t.TempDir(), "link.hic")
		require.NoError(t, os.Link(in, link))
		_, err := hic.EditFile(in, link, plan, nil)
		var iae *hic.InvalidArgumentError
		require.ErrorAs(t, err, &iae)
	})

	t.Run("truncated header", func(t *testing.T) {
		short := testutil.WriteTemp(t, "short.hic", f.Data[:f.AttributesEnd-3])
		out := outPath(t)
		_, err := hic.EditFile(short, out, plan, nil)
		var fe *hic.FormatError
		require.ErrorAs(t, err, &fe)
		_, statErr := os.Stat(out)
		assert.True(t, errors.Is(statErr, os.ErrNotExist))
	})

	t.Run("truncated master index", func(t *testing.T) {
		short := testutil.WriteTemp(t, "short.hic", f.Data[:f.FooterPosition+4])
		_, err := hic.EditFile(short, outPath(t), plan, nil)
		var fe *hic.FormatError
		require.ErrorAs(t, err, &fe)
	})

	t.Run("value over the string limit", func(t *testing.T) {
		out := outPath(t)
		big := hic.Plan{&hic.Append{Pairs: []hic.Attribute{{Key: "graphs", Value: strings.Repeat("g", format.MaxStringLen+1)}}}}
		_, err := hic.EditFile(in, out, big, nil)
		var iae *hic.InvalidArgumentError
		require.ErrorAs(t, err, &iae)
		_, statErr := os.Stat(out)
		assert.True(t, errors.Is(statErr, os.ErrNotExist))
	})

	t.Run("missing output directory", func(t *testing.T) {
		_, err := hic.EditFile(in, filepath.Join(t.TempDir(), "no", "out.hic"), plan, nil)
		var foe *hic.FileOpenError
		require.ErrorAs(t, err, &foe)
	})
}

func TestVerifyFiles(t *testing.T) {
	in, _ := testutil.WriteHic(t, testutil.DefaultHicSpec())
	out := outPath(t)
	_, err := hic.EditFile(in, out, hic.Plan{&hic.Append{Pairs: []hic.Attribute{{Key: "k", Value: "v"}}}}, nil)
	require.NoError(t, err)

	rep, err := hic.VerifyFiles(in, out, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(4), rep.Delta)

	data := testutil.ReadFile(t, out)
	data[len(data)-1] ^= 0x01
	require.NoError(t, os.WriteFile(out, data, 0o644))
	_, err = hic.VerifyFiles(in, out, 0)
	require.ErrorIs(t, err, hic.ErrVerifyMismatch)
}
