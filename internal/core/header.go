// Package core provides the low-level flattened device tree decoding
// layer: header validation, bounded pointer projection into the caller's
// byte slice, and the structure-block tag walker. It performs no I/O;
// byte views it returns alias the caller's slice, while node and
// property names are returned as Go strings copied out of it.
package core

import (
	"github.com/arm64boot/fdt/internal/utils"
)

// Magic is the fixed 4-byte signature at the start of every flattened
// device tree blob.
const Magic = 0xd00dfeed

// Version is the maximum device tree version this decoder understands.
// Blobs whose LastCompVersion is higher than Version are rejected.
const Version = 17

// Header field sizes grow with version: v1 has the first seven words,
// v2 adds BootCPUIDPhys, v3 adds SizeDTStrings, and v17 (the version
// this decoder targets) adds SizeDTStruct for a full ten words.
const (
	V1Size  = 7 * 4
	V2Size  = V1Size + 4
	V3Size  = V2Size + 4
	V16Size = V3Size
	V17Size = V16Size + 4
)

// Header holds the decoded fixed-format FDT header fields, in the order
// they appear on the wire. Every field is read big-endian.
type Header struct {
	Magic           uint32
	TotalSize       uint32
	OffDTStruct     uint32
	OffDTStrings    uint32
	OffMemRsvmap    uint32
	Version         uint32
	LastCompVersion uint32
	BootCPUIDPhys   uint32
	SizeDTStrings   uint32
	SizeDTStruct    uint32
}

// ReadHeader decodes and validates the ten-word FDT header at the start
// of data. It checks the magic number, the version range, and that every
// sub-block offset and size it declares fits within TotalSize — mirroring
// fdt_check_header's validation order: magic, then version bounds, then
// structural bounds of each declared region.
func ReadHeader(data []byte) (Header, error) {
	var h Header

	if len(data) < V17Size {
		return h, utils.NewError(utils.ErrTruncated, "blob shorter than header")
	}

	magic, err := utils.ReadU32(data, 0)
	if err != nil {
		return h, utils.WrapError("read magic", err)
	}
	if magic != Magic {
		return h, utils.NewError(utils.ErrBadMagic, "bad magic number")
	}

	fields := make([]uint32, 9)
	for i := range fields {
		v, err := utils.ReadU32(data, 4+4*i)
		if err != nil {
			return h, utils.WrapError("read header field", err)
		}
		fields[i] = v
	}

	h = Header{
		Magic:           magic,
		TotalSize:       fields[0],
		OffDTStruct:     fields[1],
		OffDTStrings:    fields[2],
		OffMemRsvmap:    fields[3],
		Version:         fields[4],
		LastCompVersion: fields[5],
		BootCPUIDPhys:   fields[6],
		SizeDTStrings:   fields[7],
		SizeDTStruct:    fields[8],
	}

	if h.LastCompVersion > Version {
		return h, utils.NewError(utils.ErrBadVersion, "device tree compiled for a newer version")
	}
	if h.Version < 0x10 {
		return h, utils.NewError(utils.ErrBadVersion, "device tree version too old")
	}

	if !utils.InBounds(0, int(h.TotalSize), len(data)) {
		return h, utils.NewError(utils.ErrTruncated, "declared total size exceeds blob length")
	}
	if !utils.InBounds(int(h.OffDTStruct), int(h.SizeDTStruct), int(h.TotalSize)) {
		return h, utils.NewError(utils.ErrBadLayout, "structure block out of bounds")
	}
	if !utils.InBounds(int(h.OffDTStrings), int(h.SizeDTStrings), int(h.TotalSize)) {
		return h, utils.NewError(utils.ErrBadLayout, "strings block out of bounds")
	}
	if !utils.InBounds(int(h.OffMemRsvmap), 0, int(h.TotalSize)) {
		return h, utils.NewError(utils.ErrBadLayout, "reserved-memory block out of bounds")
	}

	// The three sub-blocks must appear in their canonical relative order:
	// reserved-memory map, then structure block, then strings block.
	if h.OffMemRsvmap > h.OffDTStruct {
		return h, utils.NewError(utils.ErrBadLayout, "reserved-memory map after structure block")
	}
	if h.OffDTStruct > h.OffDTStrings {
		return h, utils.NewError(utils.ErrBadLayout, "structure block after strings block")
	}

	return h, nil
}

// HasBootCPUIDPhys reports whether h.BootCPUIDPhys is meaningful —
// the field was only introduced in version 2.
func (h Header) HasBootCPUIDPhys() bool {
	return h.Version >= 2
}
