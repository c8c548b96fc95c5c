package structures

import "github.com/arm64boot/fdt/internal/utils"

const rsvmapEntrySize = 16

// NumMemRsv returns the number of entries in the reserved-memory map,
// not counting the terminating zero-size sentinel entry.
func (v View) NumMemRsv(rsvOff, total int) (int, error) {
	count := 0
	for {
		off := rsvOff + count*rsvmapEntrySize
		size, err := utils.ReadU64(v.Data, off+8)
		if err != nil {
			return 0, utils.WrapError("read rsvmap entry", err)
		}
		if size == 0 {
			return count, nil
		}
		count++
	}
}

// GetMemRsv returns the address and size of the n-th reserved-memory
// entry.
func (v View) GetMemRsv(rsvOff, n int) (addr, size uint64, err error) {
	if n < 0 {
		return 0, 0, utils.NewError(utils.ErrBadOffset, "negative rsvmap index")
	}
	off := rsvOff + n*rsvmapEntrySize
	addr, err = utils.ReadU64(v.Data, off)
	if err != nil {
		return 0, 0, utils.WrapError("read rsvmap address", err)
	}
	size, err = utils.ReadU64(v.Data, off+8)
	if err != nil {
		return 0, 0, utils.WrapError("read rsvmap size", err)
	}
	return addr, size, nil
}
