package buf

import (
	"math"
)

// AddOverflowSafe adds a and b, returning ok = false when the result would overflow int64.
func AddOverflowSafe(a, b int64) (int64, bool) {
	switch {
	case b > 0 && a > math.MaxInt64-b:
		return 0, false
	case b < 0 && a < math.MinInt64-b:
		return 0, false
	default:
		return a + b, true
	}
}

// Shift applies delta to an absolute file offset. The result must stay
// non-negative; ok is false on overflow or when the offset would go below zero.
func Shift(off, delta int64) (int64, bool) {
	v, ok := AddOverflowSafe(off, delta)
	if !ok || v < 0 {
		return 0, false
	}
	return v, true
}

// Overlap returns the intersection of [aOff, aOff+aLen) and [bOff, bOff+bLen)
// as a start offset and length. n is 0 when the ranges do not intersect.
func Overlap(aOff, aLen, bOff, bLen int64) (start, n int64) {
	start = max(aOff, bOff)
	end := min(aOff+aLen, bOff+bLen)
	if end <= start {
		return 0, 0
	}
	return start, end - start
}
