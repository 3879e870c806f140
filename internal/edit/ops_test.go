package edit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/hicattr/internal/format"
)

func attrs(kv ...string) []format.Attribute {
	out := make([]format.Attribute, 0, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		out = append(out, format.Attribute{Key: kv[i], Value: kv[i+1]})
	}
	return out
}

func keys(a []format.Attribute) []string {
	out := make([]string, len(a))
	for i, x := range a {
		out[i] = x.Key
	}
	return out
}

func TestAppend(t *testing.T) {
	orig := attrs("software", "x")
	res, err := (&Append{Pairs: attrs("k", "v")}).Apply(orig)
	require.NoError(t, err)
	assert.Equal(t, attrs("software", "x", "k", "v"), res.Attributes)
	assert.Equal(t, 1, res.Changed)
	assert.Equal(t, int64(4), Delta(orig, res.Attributes))
	assert.Len(t, orig, 1, "input must not be modified")
}

func TestAppend_AllowsDuplicatesAndEmptyValue(t *testing.T) {
	res, err := (&Append{Pairs: attrs("a", "")}).Apply(attrs("a", "1"))
	require.NoError(t, err)
	assert.Equal(t, attrs("a", "1", "a", ""), res.Attributes)
}

func TestInsertAfterAnchor(t *testing.T) {
	orig := attrs("a", "1", "software", "s", "b", "2")
	res, err := InsertStatisticsAndGraphs("S", "G").Apply(orig)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "software", "statistics", "graphs", "b"}, keys(res.Attributes))
	assert.Equal(t, 2, res.Changed)
}

func TestInsertAfterAnchor_RemovesExistingKeys(t *testing.T) {
	orig := attrs("graphs", "old", "software", "s", "b", "2", "statistics", "old")
	res, err := InsertStatisticsAndGraphs("S", "G").Apply(orig)
	require.NoError(t, err)
	assert.Equal(t, attrs("software", "s", "statistics", "S", "graphs", "G", "b", "2"), res.Attributes)
}

func TestInsertAfterAnchor_FirstAnchorOnly(t *testing.T) {
	orig := attrs("software", "1", "x", "", "software", "2")
	res, err := (&InsertAfterAnchor{Anchor: "software", Pairs: attrs("k", "v")}).Apply(orig)
	require.NoError(t, err)
	assert.Equal(t, []string{"software", "k", "x", "software"}, keys(res.Attributes))
}

func TestInsertAfterAnchor_AlreadyInPlace(t *testing.T) {
	orig := attrs("software", "s", "statistics", "S", "graphs", "G")
	res, err := InsertStatisticsAndGraphs("S", "G").Apply(orig)
	require.NoError(t, err)
	assert.Equal(t, orig, res.Attributes)
	assert.Zero(t, res.Changed)
	assert.Zero(t, Delta(orig, res.Attributes))
}

func TestInsertAfterAnchor_MissingAnchor(t *testing.T) {
	_, err := InsertStatisticsAndGraphs("S", "G").Apply(attrs("a", "1", "b", "2"))
	var anf *format.AnchorNotFoundError
	require.ErrorAs(t, err, &anf)
	assert.Equal(t, "software", anf.Key)
}

func TestInsertAfterAnchor_InsertingAnchorRejected(t *testing.T) {
	_, err := (&InsertAfterAnchor{Anchor: "software", Pairs: attrs("software", "v")}).Apply(attrs("software", "s"))
	var iae *format.InvalidArgumentError
	require.ErrorAs(t, err, &iae)
}

func TestReplaceNamed(t *testing.T) {
	orig := attrs("a", "1", "b", "2", "a", "3")
	res, err := (&ReplaceNamed{Pairs: attrs("a", "one", "b", "2")}).Apply(orig)
	require.NoError(t, err)
	assert.Equal(t, attrs("a", "one", "b", "2", "a", "3"), res.Attributes)
	assert.Equal(t, 1, res.Changed)
	assert.Equal(t, int64(2), Delta(orig, res.Attributes))
	assert.Equal(t, "1", orig[0].Value, "input must not be modified")
}

func TestReplaceNamed_MissingKey(t *testing.T) {
	_, err := (&ReplaceNamed{Pairs: attrs("nope", "v")}).Apply(attrs("a", "1"))
	var anf *format.AnchorNotFoundError
	require.ErrorAs(t, err, &anf)
	assert.Equal(t, "replace", anf.Op)
}

func TestReorder(t *testing.T) {
	tests := []struct {
		name    string
		in      []format.Attribute
		keys    []string
		want    []string
		changed int
	}{
		{
			name:    "swap into canonical order",
			in:      attrs("graphs", "G", "x", "", "statistics", "S"),
			keys:    []string{"statistics", "graphs"},
			want:    []string{"statistics", "x", "graphs"},
			changed: 2,
		},
		{
			name: "already ordered",
			in:   attrs("statistics", "S", "graphs", "G"),
			keys: []string{"statistics", "graphs"},
			want: []string{"statistics", "graphs"},
		},
		{
			name: "absent key skipped",
			in:   attrs("a", "", "graphs", "G"),
			keys: []string{"statistics", "graphs"},
			want: []string{"a", "graphs"},
		},
		{
			name:    "duplicates stay stable",
			in:      attrs("b", "1", "a", "1", "b", "2", "a", "2"),
			keys:    []string{"a", "b"},
			want:    []string{"a", "a", "b", "b"},
			changed: 4,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := (&Reorder{Keys: tt.keys}).Apply(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, keys(res.Attributes))
			assert.Equal(t, tt.changed, res.Changed)
			assert.Zero(t, Delta(tt.in, res.Attributes))
		})
	}
}

func TestReorder_StableValues(t *testing.T) {
	res, err := (&Reorder{Keys: []string{"a", "b"}}).Apply(attrs("b", "1", "a", "1", "b", "2", "a", "2"))
	require.NoError(t, err)
	assert.Equal(t, attrs("a", "1", "a", "2", "b", "1", "b", "2"), res.Attributes)
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name string
		op   Operation
	}{
		{"empty key", &Append{Pairs: attrs("", "v")}},
		{"no pairs", &Append{}},
		{"nul in value", &ReplaceNamed{Pairs: attrs("a", "x\x00y")}},
		{"nul in key", &Append{Pairs: attrs("a\x00", "v")}},
		{"empty anchor", &InsertAfterAnchor{Pairs: attrs("a", "v")}},
		{"no reorder keys", &Reorder{}},
		{"duplicate reorder key", &Reorder{Keys: []string{"a", "a"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.op.Apply(attrs("a", "1"))
			var iae *format.InvalidArgumentError
			require.ErrorAs(t, err, &iae)
		})
	}
}

func TestValidation_StringLimit(t *testing.T) {
	atLimit := strings.Repeat("g", format.MaxStringLen)
	tooLong := atLimit + "g"

	res, err := (&Append{Pairs: []format.Attribute{{Key: "graphs", Value: atLimit}}}).Apply(attrs("software", "x"))
	require.NoError(t, err)
	assert.Len(t, res.Attributes, 2)

	tests := []struct {
		name string
		op   Operation
	}{
		{"append value", &Append{Pairs: []format.Attribute{{Key: "graphs", Value: tooLong}}}},
		{"insert value", &InsertAfterAnchor{Anchor: "software", Pairs: []format.Attribute{{Key: "graphs", Value: tooLong}}}},
		{"replace value", &ReplaceNamed{Pairs: []format.Attribute{{Key: "software", Value: tooLong}}}},
		{"append key", &Append{Pairs: []format.Attribute{{Key: tooLong, Value: "v"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.op.Apply(attrs("software", "x"))
			var iae *format.InvalidArgumentError
			require.ErrorAs(t, err, &iae)
			assert.Contains(t, iae.Message, "limit")
		})
	}
}
