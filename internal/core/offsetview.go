package core

import "github.com/arm64boot/fdt/internal/utils"

// OffsetToView returns the length-byte window of data starting at the
// absolute offset off within data (callers walking the structure block
// pass the block's own offset plus their relative one), checked against
// total so that
// every caller gets a bounds-checked, zero-copy slice rather than a raw
// pointer plus a length the caller must remember to validate itself —
// the same role fdt_offset_to_ptr plays in the reference decoder.
func OffsetToView(data []byte, off, length, total int) ([]byte, error) {
	if !utils.InBounds(off, length, total) {
		return nil, utils.NewError(utils.ErrBadOffset, "offset_to_view out of bounds")
	}
	if !utils.InBounds(off, length, len(data)) {
		return nil, utils.NewError(utils.ErrBadOffset, "offset_to_view exceeds blob")
	}
	return data[off : off+length], nil
}
