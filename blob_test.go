package fdt

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arm64boot/fdt/internal/fdtgen"
	"github.com/arm64boot/fdt/internal/utils"
)

// S1: a minimal well-formed header resolves the root node at offset 0.
func TestScenario_HeaderAndRoot(t *testing.T) {
	data := fdtgen.NewBuilder().Build()

	b, err := New(data)
	require.NoError(t, err)
	require.Equal(t, 17, b.Version())

	off, err := b.LookupByPath("/")
	require.NoError(t, err)
	require.Equal(t, 0, off)
}

// S2: a bad magic number is rejected with ErrBadMagic.
func TestScenario_BadMagic(t *testing.T) {
	data := fdtgen.NewBuilder().Build()
	data[0], data[1], data[2], data[3] = 0, 0, 0, 0

	_, err := New(data)
	require.Error(t, err)
	require.True(t, utils.IsCode(err, utils.ErrBadMagic))
}

// S3: a version below the minimum supported is rejected with ErrBadVersion.
func TestScenario_BadVersion(t *testing.T) {
	b := fdtgen.NewBuilder()
	b.Version = 1
	b.LastCompVers = 1
	data := b.Build()

	_, err := New(data)
	require.Error(t, err)
	require.True(t, utils.IsCode(err, utils.ErrBadVersion))
}

// S3 (spec.md): version = 0x0F is still below the 0x10 floor and must be
// rejected, even though it is well above the old (incorrect) floor of 2.
func TestScenario_BadVersion_JustBelowFloor(t *testing.T) {
	b := fdtgen.NewBuilder()
	b.Version = 0x0F
	data := b.Build()

	_, err := New(data)
	require.Error(t, err)
	require.True(t, utils.IsCode(err, utils.ErrBadVersion))
}

// S4: a root with one child resolves both unit-addressed and bare
// lookups to the same node, and rejects a near-miss name.
func TestScenario_RootWithOneChild(t *testing.T) {
	data := fdtgen.NewBuilder().
		AddNode("cpu@0", 1).
		Build()

	b, err := New(data)
	require.NoError(t, err)

	withAddr, err := b.LookupByPath("/cpu@0")
	require.NoError(t, err)

	bare, err := b.LookupByPath("/cpu")
	require.NoError(t, err)
	require.Equal(t, withAddr, bare)

	_, err = b.LookupByPath("/cpux")
	require.Error(t, err)
	require.True(t, utils.IsCode(err, utils.ErrNotFound))
}

// S5: a two-element compatible string list supports contains/count/get
// and node_check_compatible's three-way result.
func TestScenario_PropertyAndStrings(t *testing.T) {
	data := fdtgen.NewBuilder().
		AddNode("soc", 1, fdtgen.Prop{Name: "compatible", Value: append(append([]byte("foo"), 0), append([]byte("bar"), 0)...)}).
		Build()

	b, err := New(data)
	require.NoError(t, err)

	socOff, err := b.LookupByPath("/soc")
	require.NoError(t, err)

	val, err := b.LookupPropertyValueByName(socOff, "compatible")
	require.NoError(t, err)
	require.True(t, b.StringlistContains(val, "bar"))

	count, err := b.StringlistCount(socOff, "compatible")
	require.NoError(t, err)
	require.Equal(t, 2, count)

	second, err := b.StringlistGet(socOff, "compatible", 1)
	require.NoError(t, err)
	require.Equal(t, "bar", string(second))

	ok, err := b.NodeCheckCompatible(socOff, "bar")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = b.NodeCheckCompatible(socOff, "baz")
	require.NoError(t, err)
	require.False(t, ok)
}

// S6: a path rooted at an alias resolves to the same node as the
// absolute path it points to.
func TestScenario_Alias(t *testing.T) {
	data := fdtgen.NewBuilder().
		AddNode("soc", 1).
		AddNode("uart@9000000", 2).
		AddNode("aliases", 1, fdtgen.Prop{Name: "serial0", Value: append([]byte("/soc/uart@9000000"), 0)}).
		Build()

	b, err := New(data)
	require.NoError(t, err)

	viaAlias, err := b.LookupByPath("serial0")
	require.NoError(t, err)

	viaAbsolute, err := b.LookupByPath("/soc/uart@9000000")
	require.NoError(t, err)

	require.Equal(t, viaAbsolute, viaAlias)
}

// S7: a node carrying a phandle is found by value, and the reserved
// value 0 is rejected.
func TestScenario_Phandle(t *testing.T) {
	data := fdtgen.NewBuilder().
		AddNode("soc", 1, fdtgen.Prop{Name: "phandle", Value: []byte{0, 0, 0, 0x07}}).
		Build()

	b, err := New(data)
	require.NoError(t, err)

	socOff, err := b.LookupByPath("/soc")
	require.NoError(t, err)

	off, err := b.LookupByPhandle(7)
	require.NoError(t, err)
	require.Equal(t, socOff, off)

	_, err = b.LookupByPhandle(0)
	require.Error(t, err)
	require.True(t, utils.IsCode(err, utils.ErrBadPhandle))
}

// S8: the reserved-memory map reports its single live entry and stops
// at the zero-size sentinel.
func TestScenario_ReservedMemory(t *testing.T) {
	data := fdtgen.NewBuilder().
		AddMemRsv(0x40000000, 0x00100000).
		Build()

	b, err := New(data)
	require.NoError(t, err)

	n, err := b.NumMemRsv()
	require.NoError(t, err)
	require.Equal(t, 1, n)

	addr, size, err := b.GetMemRsv(0)
	require.NoError(t, err)
	require.Equal(t, uint64(0x40000000), addr)
	require.Equal(t, uint64(0x00100000), size)
}

func TestBlob_TotalSizeAndMove(t *testing.T) {
	data := fdtgen.NewBuilder().AddNode("soc", 1).Build()

	b, err := New(data)
	require.NoError(t, err)
	require.Equal(t, len(data), b.TotalSize())

	dst := make([]byte, len(data))
	require.NoError(t, b.Move(dst))
	require.Equal(t, data, dst)

	tooSmall := make([]byte, 1)
	err = b.Move(tooSmall)
	require.Error(t, err)
	require.True(t, utils.IsCode(err, utils.ErrNoSpace))
}

func TestBlob_BootCPUIDPhys(t *testing.T) {
	builder := fdtgen.NewBuilder()
	builder.BootCPUID = 3
	data := builder.Build()

	b, err := New(data)
	require.NoError(t, err)

	id, ok := b.BootCPUIDPhys()
	require.True(t, ok)
	require.Equal(t, uint32(3), id)
}

func TestBlob_PropertyIteration(t *testing.T) {
	data := fdtgen.NewBuilder().
		AddNode("soc", 1,
			fdtgen.Prop{Name: "compatible", Value: append([]byte("acme,soc"), 0)},
			fdtgen.Prop{Name: "status", Value: append([]byte("okay"), 0)},
		).
		Build()

	b, err := New(data)
	require.NoError(t, err)

	socOff, err := b.LookupByPath("/soc")
	require.NoError(t, err)

	off, err := b.FirstProperty(socOff)
	require.NoError(t, err)

	name, value, err := b.PropertyValue(off)
	require.NoError(t, err)
	require.Equal(t, "compatible", name)
	require.Equal(t, "acme,soc\x00", string(value))

	off, err = b.NextProperty(off)
	require.NoError(t, err)

	name, _, err = b.PropertyValue(off)
	require.NoError(t, err)
	require.Equal(t, "status", name)

	_, err = b.NextProperty(off)
	require.Error(t, err)
}
