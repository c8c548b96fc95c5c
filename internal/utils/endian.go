package utils

import "encoding/binary"

// ReadU32 reads a big-endian uint32 at off within data, bounds-checked
// against data's length. The header and structure block are entirely
// big-endian on the wire; header fields and reserved-memory entries are
// read through here or ReadU64, while the tag walker and the property
// value decoders in internal/structures decode their words inline.
func ReadU32(data []byte, off int) (uint32, error) {
	if !InBounds(off, 4, len(data)) {
		return 0, NewError(ErrBadOffset, "read u32 out of bounds")
	}
	return binary.BigEndian.Uint32(data[off : off+4]), nil
}

// ReadU64 reads a big-endian uint64 at off within data, bounds-checked
// against data's length.
func ReadU64(data []byte, off int) (uint64, error) {
	if !InBounds(off, 8, len(data)) {
		return 0, NewError(ErrBadOffset, "read u64 out of bounds")
	}
	return binary.BigEndian.Uint64(data[off : off+8]), nil
}

// ReadCString returns the NUL-terminated string starting at off within
// data, and the offset just past the terminating NUL. The returned
// string is a copy of those bytes, not an alias of data.
func ReadCString(data []byte, off int) (string, int, error) {
	if off < 0 || off > len(data) {
		return "", 0, NewError(ErrBadOffset, "read cstring out of bounds")
	}
	end := off
	for end < len(data) && data[end] != 0 {
		end++
	}
	if end >= len(data) {
		return "", 0, NewError(ErrTruncated, "unterminated string")
	}
	return string(data[off:end]), end + 1, nil
}
