package utils

import "math"

// CheckAddOverflow reports whether a+b would overflow an int, or would be
// computed from a negative operand. The structure block is walked almost
// entirely through offset+length additions over attacker-controlled
// fields (tag lengths, nameoffs, totalsize); every one of them must be
// checked this way before being compared against a bound, mirroring the
// reference decoder's "abs_offset < offset" wraparound tests but expressed
// as an explicit checked addition instead of relying on unsigned wrap.
func CheckAddOverflow(a, b int) bool {
	if a < 0 || b < 0 {
		return true
	}
	return a > math.MaxInt-b
}

// SafeAdd adds a and b, returning an error instead of a wrapped result
// when the addition would overflow or either operand is negative.
func SafeAdd(a, b int) (int, error) {
	if CheckAddOverflow(a, b) {
		return 0, NewError(ErrBadOffset, "offset arithmetic overflow")
	}
	return a + b, nil
}

// InBounds reports whether the half-open range [off, off+length) fits
// entirely within [0, total), using overflow-safe arithmetic throughout.
// ReadU32, ReadU64, OffsetToView and the header's sub-block checks
// funnel through this one check rather than trusting a previously
// validated offset (ReadCString and StringAt check their own bounds), since the
// blob is untrusted input and each access is independently attacker
// reachable.
func InBounds(off, length, total int) bool {
	if off < 0 || length < 0 || total < 0 {
		return false
	}
	end, err := SafeAdd(off, length)
	if err != nil {
		return false
	}
	return end <= total
}

// AlignUp4 rounds off up to the next multiple of 4, the structure
// block's tag alignment (FDT_TAGALIGN). Returns an error if the result
// would overflow.
func AlignUp4(off int) (int, error) {
	if off < 0 {
		return 0, NewError(ErrBadOffset, "negative offset")
	}
	aligned, err := SafeAdd(off, 3)
	if err != nil {
		return 0, err
	}
	return aligned &^ 3, nil
}
