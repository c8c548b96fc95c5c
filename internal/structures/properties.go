package structures

import (
	"github.com/arm64boot/fdt/internal/core"
	"github.com/arm64boot/fdt/internal/utils"
)

// PropertyEntry describes a decoded property: its name (resolved through
// the strings block) and its raw value, a view into the original blob.
type PropertyEntry struct {
	Name   string
	Value  []byte
	Offset int
}

// lookupValidProperty skips NOP tags starting at off until it finds a
// PROPERTY tag, a BEGIN_NODE/END_NODE (no more properties in this node:
// NotFound), or END. Running into END while still scanning for
// properties (off > 0) means the structure block closed without ever
// closing the node whose properties were being listed, a structural
// corruption distinct from the ordinary "no more properties" case;
// off == 0 is the degenerate all-empty-blob case and is still reported
// as a clean NotFound.
func (v View) lookupValidProperty(off int) (int, error) {
	for {
		tag, next, err := v.nextTag(off)
		if err != nil {
			return 0, err
		}
		switch tag {
		case core.Property:
			return off, nil
		case core.Nop:
			off = next
			continue
		case core.End:
			if off > 0 {
				return 0, utils.NewError(utils.ErrBadStructure, "structure block ends before node closes")
			}
			return 0, utils.NewError(utils.ErrNotFound, "no more properties")
		default:
			return 0, utils.NewError(utils.ErrNotFound, "no more properties")
		}
	}
}

// FirstProperty returns the offset of the first property of the node at
// nodeOff, or NotFound if it has none.
func (v View) FirstProperty(nodeOff int) (int, error) {
	off, err := core.NodeNextOffset(v.Data, nodeOff, v.StructOff, v.StructLen)
	if err != nil {
		return 0, err
	}
	return v.lookupValidProperty(off)
}

// NextProperty returns the offset of the property following the one at
// off, or NotFound if off was the node's last property.
func (v View) NextProperty(off int) (int, error) {
	next, err := core.PropertyNextOffset(v.Data, off, v.StructOff, v.StructLen)
	if err != nil {
		return 0, err
	}
	return v.lookupValidProperty(next)
}

// PropertyEntryAt decodes the property at structure-block offset off.
func (v View) PropertyEntryAt(off int) (PropertyEntry, error) {
	name, val, err := core.PropertyNameAndValue(v.Data, off, v.StructOff, v.StructLen, v.StringsOff, v.StringsLen)
	if err != nil {
		return PropertyEntry{}, err
	}
	return PropertyEntry{Name: name, Value: val, Offset: off}, nil
}

// StringAt resolves a strings-block-relative offset to its NUL-
// terminated string.
func (v View) StringAt(strOff int) (string, error) {
	if strOff < 0 || strOff >= v.StringsLen {
		return "", utils.NewError(utils.ErrBadOffset, "string offset out of bounds")
	}
	s, _, err := utils.ReadCString(v.Data, v.StringsOff+strOff)
	if err != nil {
		return "", utils.WrapError("read string", err)
	}
	return s, nil
}
