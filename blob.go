// Package fdt provides a pure Go, zero-copy reader for flattened device
// tree (FDT) blobs: the binary format the firmware hands a booting
// kernel to describe the hardware present on a board. Every []byte
// returned from a Blob is a borrowed view into the caller's own byte
// slice; node names, property names and paths are returned as Go
// strings copied out of it. The package performs no I/O and never
// mutates the blob.
package fdt

import (
	"github.com/arm64boot/fdt/internal/core"
	"github.com/arm64boot/fdt/internal/structures"
	"github.com/arm64boot/fdt/internal/utils"
)

// Blob is a validated, read-only view over a flattened device tree
// image. The zero value is not usable; construct one with New.
type Blob struct {
	data   []byte
	header core.Header
	v      structures.View
}

// New validates the FDT header at the start of data and returns a Blob
// wrapping it. data is not copied: the Blob aliases it for its entire
// lifetime, so the caller must not mutate it while the Blob is in use.
// There is no "open without validation" path — every accessor below
// assumes the header has already been checked.
func New(data []byte) (*Blob, error) {
	h, err := core.ReadHeader(data)
	if err != nil {
		return nil, utils.WrapError("fdt.New", err)
	}
	return &Blob{
		data:   data,
		header: h,
		v: structures.View{
			Data:       data,
			StructOff:  int(h.OffDTStruct),
			StructLen:  int(h.SizeDTStruct),
			StringsOff: int(h.OffDTStrings),
			StringsLen: int(h.SizeDTStrings),
		},
	}, nil
}

// TotalSize returns the blob's declared total size in bytes.
func (b *Blob) TotalSize() int { return int(b.header.TotalSize) }

// Version returns the blob's format version.
func (b *Blob) Version() int { return int(b.header.Version) }

// LastCompVersion returns the oldest version this blob is backwards
// compatible with.
func (b *Blob) LastCompVersion() int { return int(b.header.LastCompVersion) }

// BootCPUIDPhys returns the physical ID of the boot CPU and whether the
// field is present (it was introduced in version 2).
func (b *Blob) BootCPUIDPhys() (uint32, bool) {
	if !b.header.HasBootCPUIDPhys() {
		return 0, false
	}
	return b.header.BootCPUIDPhys, true
}

// Move copies the blob's declared TotalSize bytes into dst, which must
// be at least that long.
func (b *Blob) Move(dst []byte) error {
	if len(dst) < int(b.header.TotalSize) {
		return utils.NewError(utils.ErrNoSpace, "destination buffer too small")
	}
	copy(dst, b.data[:b.header.TotalSize])
	return nil
}

// OffsetToView returns the length-byte window of the blob starting at
// the structure-block-relative offset off.
func (b *Blob) OffsetToView(off, length int) ([]byte, error) {
	if !utils.InBounds(off, length, int(b.header.TotalSize)) {
		return nil, utils.NewError(utils.ErrBadOffset, "offset_to_view out of bounds")
	}
	return core.OffsetToView(b.data, b.v.StructOff+off, length, int(b.header.TotalSize))
}

// NextTag returns the tag at structure-block-relative offset off and the
// offset of the tag that follows it.
func (b *Blob) NextTag(off int) (core.TagKind, int, error) {
	return core.NextTag(b.data, off, b.v.StructOff, b.v.StructLen)
}

// NodeName returns the name (including unit address, if any) of the
// node at off.
func (b *Blob) NodeName(off int) (string, error) { return b.v.NodeName(off) }

// NodeNameEqual reports whether the node at off is named name, treating
// a unit address on the node's own name as optional when name has none.
func (b *Blob) NodeNameEqual(off int, name string) bool { return b.v.NodeNameEqual(off, name) }

// NextNode finds the node following off, tracking nesting depth in
// depth if non-nil. Pass off = -1 to start from the root.
func (b *Blob) NextNode(off int, depth *int) (int, error) { return b.v.NextNode(off, depth) }

// FirstChild returns the offset of the first direct child of the node
// at off.
func (b *Blob) FirstChild(off int) (int, error) { return b.v.FirstChild(off) }

// NextSibling returns the offset of the next sibling of the node at off.
func (b *Blob) NextSibling(off int) (int, error) { return b.v.NextSibling(off) }

// GetPath computes the full absolute path of the node at off.
func (b *Blob) GetPath(off int) (string, error) { return b.v.GetPath(off) }

// SupernodeAtDepth returns the ancestor of the node at off found at the
// given depth from the root.
func (b *Blob) SupernodeAtDepth(off, depth int) (int, error) {
	return b.v.SupernodeAtDepth(off, depth)
}

// NodeDepth returns the depth of the node at off (root is 0).
func (b *Blob) NodeDepth(off int) (int, error) { return b.v.NodeDepth(off) }

// ParentOffset returns the offset of the parent of the node at off.
func (b *Blob) ParentOffset(off int) (int, error) { return b.v.ParentOffset(off) }

// LookupChildByName finds the child of the node at parentOff named name.
func (b *Blob) LookupChildByName(parentOff int, name string) (int, error) {
	return b.v.LookupChildByName(parentOff, name)
}

// LookupByPath resolves an absolute or alias-rooted path to a node
// offset.
func (b *Blob) LookupByPath(path string) (int, error) { return b.v.LookupByPath(path) }

// LookupByPropertyValue returns the offset of the first node after start
// whose property named name equals val.
func (b *Blob) LookupByPropertyValue(start int, name string, val []byte) (int, error) {
	return b.v.LookupByPropertyValue(start, name, val)
}

// LookupByPhandle returns the offset of the node carrying phandle.
func (b *Blob) LookupByPhandle(phandle uint32) (int, error) { return b.v.LookupByPhandle(phandle) }

// LookupByCompatible returns the offset of the first node after start
// whose compatible property lists compat.
func (b *Blob) LookupByCompatible(start int, compat string) (int, error) {
	return b.v.LookupByCompatible(start, compat)
}

// NodeCheckCompatible reports whether the node at off lists compat in
// its compatible property.
func (b *Blob) NodeCheckCompatible(off int, compat string) (bool, error) {
	return b.v.NodeCheckCompatible(off, compat)
}

// FirstProperty returns the offset of the first property of the node at
// nodeOff.
func (b *Blob) FirstProperty(nodeOff int) (int, error) { return b.v.FirstProperty(nodeOff) }

// NextProperty returns the offset of the property following off.
func (b *Blob) NextProperty(off int) (int, error) { return b.v.NextProperty(off) }

// PropertyEntry decodes the property at off.
func (b *Blob) PropertyEntry(off int) (structures.PropertyEntry, error) {
	return b.v.PropertyEntryAt(off)
}

// PropertyValue decodes the property at off and returns its name and raw
// value separately.
func (b *Blob) PropertyValue(off int) (name string, value []byte, err error) {
	entry, err := b.v.PropertyEntryAt(off)
	if err != nil {
		return "", nil, err
	}
	return entry.Name, entry.Value, nil
}

// LookupPropertyEntryByName finds the property named name on the node at
// nodeOff.
func (b *Blob) LookupPropertyEntryByName(nodeOff int, name string) (structures.PropertyEntry, error) {
	return b.v.LookupPropertyEntryByName(nodeOff, name)
}

// LookupPropertyValueByName returns the raw value of the property named
// name on the node at nodeOff.
func (b *Blob) LookupPropertyValueByName(nodeOff int, name string) ([]byte, error) {
	return b.v.LookupPropertyValueByName(nodeOff, name)
}

// LookupAliasValue returns the value of the property named name under
// /aliases.
func (b *Blob) LookupAliasValue(name string) ([]byte, error) { return b.v.LookupAliasValue(name) }

// FetchPhandle returns the phandle of the node at nodeOff, or 0 if it
// has none.
func (b *Blob) FetchPhandle(nodeOff int) uint32 { return b.v.FetchPhandle(nodeOff) }

// AddressCells returns the #address-cells value inherited by children of
// the node at nodeOff.
func (b *Blob) AddressCells(nodeOff int) (int, error) { return b.v.AddressCells(nodeOff) }

// SizeCells returns the #size-cells value inherited by children of the
// node at nodeOff.
func (b *Blob) SizeCells(nodeOff int) (int, error) { return b.v.SizeCells(nodeOff) }

// StringlistContains reports whether the NUL-separated string list in
// buf contains s as one of its elements.
func (b *Blob) StringlistContains(buf []byte, s string) bool {
	return b.v.StringlistContains(buf, s)
}

// StringlistCount returns the number of strings in the property named
// prop on the node at nodeOff.
func (b *Blob) StringlistCount(nodeOff int, prop string) (int, error) {
	return b.v.StringlistCount(nodeOff, prop)
}

// StringlistSearch returns the index of s within the string list held by
// the property named prop on the node at nodeOff.
func (b *Blob) StringlistSearch(nodeOff int, prop, s string) (int, error) {
	return b.v.StringlistSearch(nodeOff, prop, s)
}

// StringlistGet returns the string at index in the string list held by
// the property named prop on the node at nodeOff.
func (b *Blob) StringlistGet(nodeOff int, prop string, index int) ([]byte, error) {
	return b.v.StringlistGet(nodeOff, prop, index)
}

// StringAt resolves a strings-block-relative offset to its
// NUL-terminated string.
func (b *Blob) StringAt(strOff int) (string, error) { return b.v.StringAt(strOff) }

// NumMemRsv returns the number of entries in the reserved-memory map.
func (b *Blob) NumMemRsv() (int, error) {
	return b.v.NumMemRsv(int(b.header.OffMemRsvmap), int(b.header.TotalSize))
}

// GetMemRsv returns the address and size of the n-th reserved-memory
// entry.
func (b *Blob) GetMemRsv(n int) (addr, size uint64, err error) {
	return b.v.GetMemRsv(int(b.header.OffMemRsvmap), n)
}
