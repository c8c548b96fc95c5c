package structures

import (
	"bytes"
	"strings"

	"github.com/arm64boot/fdt/internal/utils"
)

// LookupChildByName finds the child of the node at parentOff whose name
// matches name (with or without a unit address, per NodeNameEqual).
func (v View) LookupChildByName(parentOff int, name string) (int, error) {
	off, err := v.FirstChild(parentOff)
	if err != nil {
		return 0, err
	}
	for {
		if v.NodeNameEqual(off, name) {
			return off, nil
		}
		off, err = v.NextSibling(off)
		if err != nil {
			return 0, err
		}
	}
}

// LookupByPath resolves an absolute path ("/soc/uart@1000") or a path
// rooted at an alias ("ethernet0/mdio") to a node offset, descending one
// path component at a time via LookupChildByName.
func (v View) LookupByPath(path string) (int, error) {
	if path == "" {
		return 0, utils.NewError(utils.ErrBadPath, "empty path")
	}

	offset := 0
	rest := path

	if path[0] != '/' {
		slash := strings.IndexByte(path, '/')
		aliasName := path
		if slash >= 0 {
			aliasName = path[:slash]
		}
		aliasPath, err := v.LookupAliasValue(aliasName)
		if err != nil {
			return 0, utils.NewError(utils.ErrBadPath, "unresolvable alias")
		}
		aliasStr := string(aliasPath)
		if nul := strings.IndexByte(aliasStr, 0); nul >= 0 {
			aliasStr = aliasStr[:nul]
		}
		base, err := v.LookupByPath(aliasStr)
		if err != nil {
			return 0, err
		}
		offset = base
		if slash < 0 {
			return offset, nil
		}
		rest = path[slash:]
	}

	for len(rest) > 0 {
		for len(rest) > 0 && rest[0] == '/' {
			rest = rest[1:]
		}
		if len(rest) == 0 {
			break
		}
		slash := strings.IndexByte(rest, '/')
		var component string
		if slash < 0 {
			component = rest
			rest = ""
		} else {
			component = rest[:slash]
			rest = rest[slash:]
		}
		child, err := v.LookupChildByName(offset, component)
		if err != nil {
			return 0, err
		}
		offset = child
	}

	return offset, nil
}

// LookupByPropertyValue returns the offset of the first node after
// start (pass -1 to search from the beginning) whose property named
// name has the exact value val. NotFound ends iteration. Depth is not
// tracked (mirrors fdt_node_offset_by_prop_value's NULL pdepth), so a
// search resumed mid-tree from a leaf with no children still reaches
// every later sibling and cousin node instead of stopping as soon as
// the starting node's own subtree closes.
func (v View) LookupByPropertyValue(start int, name string, val []byte) (int, error) {
	offset, err := v.NextNode(start, nil)
	for err == nil {
		got, lookupErr := v.LookupPropertyValueByName(offset, name)
		if lookupErr == nil && bytes.Equal(got, val) {
			return offset, nil
		}
		offset, err = v.NextNode(offset, nil)
	}
	return 0, err
}

// LookupByPhandle returns the offset of the node carrying the given
// phandle value. 0 and 0xFFFFFFFF are reserved and always rejected.
func (v View) LookupByPhandle(phandle uint32) (int, error) {
	if phandle == 0 || phandle == 0xFFFFFFFF {
		return 0, utils.NewError(utils.ErrBadPhandle, "reserved phandle value")
	}

	offset, err := v.NextNode(-1, nil)
	for err == nil {
		if v.FetchPhandle(offset) == phandle {
			return offset, nil
		}
		offset, err = v.NextNode(offset, nil)
	}
	return 0, err
}

// LookupByCompatible returns the offset of the first node after start
// (pass -1 to search from the beginning) whose compatible property
// lists compat. Depth is not tracked (mirrors fdt_node_offset_by_compatible's
// NULL pdepth) so the search can resume from any previously found node,
// not just the root.
func (v View) LookupByCompatible(start int, compat string) (int, error) {
	offset, err := v.NextNode(start, nil)
	for err == nil {
		ok, checkErr := v.NodeCheckCompatible(offset, compat)
		if checkErr != nil && !utils.IsCode(checkErr, utils.ErrNotFound) {
			return 0, checkErr
		}
		if ok {
			return offset, nil
		}
		offset, err = v.NextNode(offset, nil)
	}
	return 0, err
}

// NodeCheckCompatible reports whether the node at off has a compatible
// property listing compat.
func (v View) NodeCheckCompatible(off int, compat string) (bool, error) {
	val, err := v.LookupPropertyValueByName(off, "compatible")
	if err != nil {
		return false, err
	}
	return v.StringlistContains(val, compat), nil
}

// LookupPropertyEntryByName finds the property named name on the node
// at nodeOff.
func (v View) LookupPropertyEntryByName(nodeOff int, name string) (PropertyEntry, error) {
	off, err := v.FirstProperty(nodeOff)
	for err == nil {
		entry, entryErr := v.PropertyEntryAt(off)
		if entryErr != nil {
			return PropertyEntry{}, entryErr
		}
		if entry.Name == name {
			return entry, nil
		}
		off, err = v.NextProperty(off)
	}
	return PropertyEntry{}, err
}

// LookupPropertyValueByName returns the raw value of the property named
// name on the node at nodeOff.
func (v View) LookupPropertyValueByName(nodeOff int, name string) ([]byte, error) {
	entry, err := v.LookupPropertyEntryByName(nodeOff, name)
	if err != nil {
		return nil, err
	}
	return entry.Value, nil
}

// LookupAliasValue returns the value of the property named name under
// /aliases.
func (v View) LookupAliasValue(name string) ([]byte, error) {
	aliasOff, err := v.LookupByPath("/aliases")
	if err != nil {
		return nil, utils.NewError(utils.ErrBadPath, "no /aliases node")
	}
	return v.LookupPropertyValueByName(aliasOff, name)
}

// FetchPhandle returns the phandle of the node at nodeOff, trying the
// modern "phandle" property and falling back to the legacy
// "linux,phandle" name. Returns 0 if the node has no valid phandle.
func (v View) FetchPhandle(nodeOff int) uint32 {
	for _, name := range [...]string{"phandle", "linux,phandle"} {
		val, err := v.LookupPropertyValueByName(nodeOff, name)
		if err == nil && len(val) == 4 {
			return uint32(val[0])<<24 | uint32(val[1])<<16 | uint32(val[2])<<8 | uint32(val[3])
		}
	}
	return 0
}

// MaxNCells bounds #address-cells and #size-cells, mirroring
// FDT_MAX_NCELLS.
const MaxNCells = 4

// AddressCells returns the #address-cells value inherited by children
// of the node at nodeOff, defaulting to 2 when absent.
func (v View) AddressCells(nodeOff int) (int, error) {
	return v.ncells(nodeOff, "#address-cells")
}

// SizeCells returns the #size-cells value inherited by children of the
// node at nodeOff, defaulting to 2 when absent.
func (v View) SizeCells(nodeOff int) (int, error) {
	return v.ncells(nodeOff, "#size-cells")
}

func (v View) ncells(nodeOff int, prop string) (int, error) {
	val, err := v.LookupPropertyValueByName(nodeOff, prop)
	if err != nil {
		return 2, nil
	}
	if len(val) != 4 {
		return 0, utils.NewError(utils.ErrBadNCells, "malformed "+prop)
	}
	n := int(uint32(val[0])<<24 | uint32(val[1])<<16 | uint32(val[2])<<8 | uint32(val[3]))
	if n < 0 || n > MaxNCells {
		return 0, utils.NewError(utils.ErrBadNCells, prop+" out of range")
	}
	return n, nil
}
