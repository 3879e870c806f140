// Package edit applies attribute-list edit policies and computes the byte
// delta an edit introduces into the header.
package edit

import (
	"fmt"
	"slices"
	"strings"

	"github.com/joshuapare/hicattr/internal/format"
)

// SoftwareKey is the anchor used by the statistics/graphs insertion.
const (
	SoftwareKey   = "software"
	StatisticsKey = "statistics"
	GraphsKey     = "graphs"
)

// Result is the outcome of applying one or more operations.
type Result struct {
	Attributes []format.Attribute
	// Changed counts attributes added, removed, rewritten or moved.
	Changed int
}

// Operation is a single attribute edit policy. Apply must not modify attrs.
type Operation interface {
	Name() string
	Apply(attrs []format.Attribute) (Result, error)
}

// Append adds pairs to the end of the list.
type Append struct {
	Pairs []format.Attribute
}

// InsertAfterAnchor inserts pairs directly after the first Anchor entry,
// dropping any existing entries that carry one of the inserted keys.
type InsertAfterAnchor struct {
	Anchor string
	Pairs  []format.Attribute
}

// ReplaceNamed overwrites the value of the first entry for each key.
type ReplaceNamed struct {
	Pairs []format.Attribute
}

// Reorder moves entries with the listed keys into the listed relative order,
// reusing the slots they already occupy.
type Reorder struct {
	Keys []string
}

// InsertStatisticsAndGraphs is the designated statistics/graphs pair placed
// right after the software entry.
func InsertStatisticsAndGraphs(statistics, graphs string) *InsertAfterAnchor {
	return &InsertAfterAnchor{
		Anchor: SoftwareKey,
		Pairs: []format.Attribute{
			{Key: StatisticsKey, Value: statistics},
			{Key: GraphsKey, Value: graphs},
		},
	}
}

func (*Append) Name() string            { return "append" }
func (*InsertAfterAnchor) Name() string { return "insert" }
func (*ReplaceNamed) Name() string      { return "replace" }
func (*Reorder) Name() string           { return "reorder" }

func (op *Append) Apply(attrs []format.Attribute) (Result, error) {
	if err := validatePairs(op.Name(), op.Pairs); err != nil {
		return Result{}, err
	}
	out := make([]format.Attribute, 0, len(attrs)+len(op.Pairs))
	out = append(out, attrs...)
	out = append(out, op.Pairs...)
	return Result{Attributes: out, Changed: len(op.Pairs)}, nil
}

func (op *InsertAfterAnchor) Apply(attrs []format.Attribute) (Result, error) {
	if op.Anchor == "" {
		return Result{}, &format.InvalidArgumentError{Arg: "anchor", Message: "anchor key must not be empty"}
	}
	if err := validatePairs(op.Name(), op.Pairs); err != nil {
		return Result{}, err
	}
	inserted := make(map[string]struct{}, len(op.Pairs))
	for _, p := range op.Pairs {
		if p.Key == op.Anchor {
			return Result{}, &format.InvalidArgumentError{Arg: p.Key, Message: "cannot insert the anchor key after itself"}
		}
		inserted[p.Key] = struct{}{}
	}
	if format.IndexOf(attrs, op.Anchor) < 0 {
		return Result{}, &format.AnchorNotFoundError{Op: op.Name(), Key: op.Anchor}
	}

	out := make([]format.Attribute, 0, len(attrs)+len(op.Pairs))
	for _, a := range attrs {
		if _, drop := inserted[a.Key]; !drop {
			out = append(out, a)
		}
	}
	at := format.IndexOf(out, op.Anchor) + 1
	out = slices.Insert(out, at, op.Pairs...)

	if slices.Equal(out, attrs) {
		return Result{Attributes: out}, nil
	}
	return Result{Attributes: out, Changed: len(op.Pairs)}, nil
}

func (op *ReplaceNamed) Apply(attrs []format.Attribute) (Result, error) {
	if err := validatePairs(op.Name(), op.Pairs); err != nil {
		return Result{}, err
	}
	out := slices.Clone(attrs)
	changed := 0
	for _, p := range op.Pairs {
		i := format.IndexOf(out, p.Key)
		if i < 0 {
			return Result{}, &format.AnchorNotFoundError{Op: op.Name(), Key: p.Key}
		}
		if out[i].Value != p.Value {
			out[i].Value = p.Value
			changed++
		}
	}
	return Result{Attributes: out, Changed: changed}, nil
}

func (op *Reorder) Apply(attrs []format.Attribute) (Result, error) {
	if len(op.Keys) == 0 {
		return Result{}, &format.InvalidArgumentError{Message: "reorder needs at least one key"}
	}
	rank := make(map[string]int, len(op.Keys))
	for i, k := range op.Keys {
		if k == "" {
			return Result{}, &format.InvalidArgumentError{Arg: "key", Message: "key must not be empty"}
		}
		if _, dup := rank[k]; dup {
			return Result{}, &format.InvalidArgumentError{Arg: k, Message: "key listed twice"}
		}
		rank[k] = i
	}

	var slots []int
	var moving []format.Attribute
	for i, a := range attrs {
		if _, ok := rank[a.Key]; ok {
			slots = append(slots, i)
			moving = append(moving, a)
		}
	}
	slices.SortStableFunc(moving, func(a, b format.Attribute) int {
		return rank[a.Key] - rank[b.Key]
	})

	out := slices.Clone(attrs)
	changed := 0
	for j, slot := range slots {
		if out[slot] != moving[j] {
			changed++
		}
		out[slot] = moving[j]
	}
	return Result{Attributes: out, Changed: changed}, nil
}

func validatePairs(op string, pairs []format.Attribute) error {
	if len(pairs) == 0 {
		return &format.InvalidArgumentError{Message: op + " needs at least one key/value pair"}
	}
	for _, p := range pairs {
		if p.Key == "" {
			return &format.InvalidArgumentError{Arg: "key", Message: "key must not be empty"}
		}
		if strings.IndexByte(p.Key, 0) >= 0 {
			return &format.InvalidArgumentError{Arg: p.Key, Message: "key contains a NUL byte"}
		}
		if strings.IndexByte(p.Value, 0) >= 0 {
			return &format.InvalidArgumentError{Arg: p.Key, Message: "value contains a NUL byte"}
		}
		if len(p.Key) > format.MaxStringLen {
			return &format.InvalidArgumentError{Arg: "key", Message: fmt.Sprintf("key is %d bytes, limit is %d", len(p.Key), format.MaxStringLen)}
		}
		if len(p.Value) > format.MaxStringLen {
			return &format.InvalidArgumentError{Arg: p.Key, Message: fmt.Sprintf("value is %d bytes, limit is %d", len(p.Value), format.MaxStringLen)}
		}
	}
	return nil
}
