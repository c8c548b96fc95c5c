package structures

import (
	"bytes"

	"github.com/arm64boot/fdt/internal/utils"
)

// StringlistContains reports whether the NUL-separated string list in
// buf contains s as one of its elements.
func (v View) StringlistContains(buf []byte, s string) bool {
	needle := append([]byte(s), 0)
	for len(buf) >= len(needle) {
		if bytes.Equal(buf[:len(needle)], needle) {
			return true
		}
		nul := bytes.IndexByte(buf, 0)
		if nul < 0 {
			return false
		}
		buf = buf[nul+1:]
	}
	return false
}

// StringlistCount returns the number of NUL-terminated strings in the
// property named prop on the node at nodeOff.
func (v View) StringlistCount(nodeOff int, prop string) (int, error) {
	list, err := v.LookupPropertyValueByName(nodeOff, prop)
	if err != nil {
		return 0, err
	}
	count := 0
	for len(list) > 0 {
		nul := bytes.IndexByte(list, 0)
		if nul < 0 {
			return 0, utils.NewError(utils.ErrBadValue, "string list not NUL-terminated")
		}
		list = list[nul+1:]
		count++
	}
	return count, nil
}

// StringlistSearch returns the index of s within the string list held
// by the property named prop on the node at nodeOff.
func (v View) StringlistSearch(nodeOff int, prop, s string) (int, error) {
	list, err := v.LookupPropertyValueByName(nodeOff, prop)
	if err != nil {
		return 0, err
	}
	idx := 0
	for len(list) > 0 {
		nul := bytes.IndexByte(list, 0)
		if nul < 0 {
			return 0, utils.NewError(utils.ErrBadValue, "string list not NUL-terminated")
		}
		if string(list[:nul]) == s {
			return idx, nil
		}
		list = list[nul+1:]
		idx++
	}
	return 0, utils.NewError(utils.ErrNotFound, "string not in list")
}

// StringlistGet returns the string at index in the string list held by
// the property named prop on the node at nodeOff.
func (v View) StringlistGet(nodeOff int, prop string, index int) ([]byte, error) {
	list, err := v.LookupPropertyValueByName(nodeOff, prop)
	if err != nil {
		return nil, err
	}
	for len(list) > 0 {
		nul := bytes.IndexByte(list, 0)
		if nul < 0 {
			return nil, utils.NewError(utils.ErrBadValue, "string list not NUL-terminated")
		}
		if index == 0 {
			return list[:nul], nil
		}
		list = list[nul+1:]
		index--
	}
	return nil, utils.NewError(utils.ErrNotFound, "index out of range")
}
