package edit

import (
	"fmt"

	"github.com/joshuapare/hicattr/internal/format"
)

// Plan is an ordered list of operations applied one after another.
type Plan []Operation

// Apply runs every operation against the output of the previous one.
func (p Plan) Apply(attrs []format.Attribute) (Result, error) {
	if len(p) == 0 {
		return Result{}, &format.InvalidArgumentError{Message: "no edits requested"}
	}
	res := Result{Attributes: attrs}
	for i, op := range p {
		next, err := op.Apply(res.Attributes)
		if err != nil {
			return Result{}, fmt.Errorf("edit %d (%s): %w", i+1, op.Name(), err)
		}
		res.Attributes = next.Attributes
		res.Changed += next.Changed
	}
	return res, nil
}

// Delta is the signed byte-size change from orig to next.
func Delta(orig, next []format.Attribute) int64 {
	return format.EncodedSize(next) - format.EncodedSize(orig)
}
