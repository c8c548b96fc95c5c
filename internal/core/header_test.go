package core

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arm64boot/fdt/internal/fdtgen"
	"github.com/arm64boot/fdt/internal/utils"
)

func putU32(b []byte, off int, v uint32) {
	binary.BigEndian.PutUint32(b[off:off+4], v)
}

func TestReadHeader_Valid(t *testing.T) {
	blob := fdtgen.NewBuilder().Build()

	h, err := ReadHeader(blob)
	require.NoError(t, err)
	require.Equal(t, uint32(Magic), h.Magic)
	require.Equal(t, uint32(17), h.Version)
	require.True(t, h.HasBootCPUIDPhys())
}

func TestReadHeader_BadMagic(t *testing.T) {
	blob := fdtgen.NewBuilder().Build()
	blob[0] = 0x00

	_, err := ReadHeader(blob)
	require.Error(t, err)
}

func TestReadHeader_Truncated(t *testing.T) {
	_, err := ReadHeader(make([]byte, 10))
	require.Error(t, err)
}

func TestReadHeader_BadVersion(t *testing.T) {
	b := fdtgen.NewBuilder()
	b.LastCompVers = 99
	blob := b.Build()

	_, err := ReadHeader(blob)
	require.Error(t, err)
}

// version = 0x0F is below the 0x10 floor and must be rejected, matching
// spec.md's S3 scenario exactly.
func TestReadHeader_VersionJustBelowFloor(t *testing.T) {
	b := fdtgen.NewBuilder()
	b.Version = 0x0F
	blob := b.Build()

	_, err := ReadHeader(blob)
	require.Error(t, err)
	var e *utils.Error
	require.ErrorAs(t, err, &e)
	require.Equal(t, utils.ErrBadVersion, e.Code())
}

func TestReadHeader_TotalSizeExceedsBlob(t *testing.T) {
	blob := fdtgen.NewBuilder().Build()
	putU32(blob, 4, uint32(len(blob)+100))

	_, err := ReadHeader(blob)
	require.Error(t, err)
}

func TestReadHeader_StructOutOfOrder(t *testing.T) {
	blob := fdtgen.NewBuilder().Build()
	h, err := ReadHeader(blob)
	require.NoError(t, err)

	// Swap struct and strings offsets to violate canonical ordering.
	putU32(blob, 8, h.OffDTStrings)
	putU32(blob, 12, h.OffDTStruct)

	_, err = ReadHeader(blob)
	require.Error(t, err)
}
