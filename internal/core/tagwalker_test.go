package core

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arm64boot/fdt/internal/fdtgen"
)

func buildSimple(t *testing.T) ([]byte, Header) {
	t.Helper()
	blob := fdtgen.NewBuilder().
		AddNode("soc", 1, fdtgen.Prop{Name: "compatible", Value: append([]byte("simple-bus"), 0)}).
		AddNode("uart@1000", 2, fdtgen.Prop{Name: "reg", Value: []byte{0, 0, 0x10, 0}}).
		Build()
	h, err := ReadHeader(blob)
	require.NoError(t, err)
	return blob, h
}

func TestNextTag_WalksWholeTree(t *testing.T) {
	blob, h := buildSimple(t)

	var kinds []TagKind
	off := 0
	for {
		kind, next, err := NextTag(blob, off, int(h.OffDTStruct), int(h.SizeDTStruct))
		require.NoError(t, err)
		kinds = append(kinds, kind)
		if kind == End {
			break
		}
		off = next
	}

	require.Equal(t, []TagKind{BeginNode, BeginNode, Property, BeginNode, Property, EndNode, EndNode, EndNode, End}, kinds)
}

func TestNextTag_MisalignedOffset(t *testing.T) {
	blob, h := buildSimple(t)

	_, _, err := NextTag(blob, 1, int(h.OffDTStruct), int(h.SizeDTStruct))
	require.Error(t, err)
}

func TestNodeName(t *testing.T) {
	blob, h := buildSimple(t)

	name, err := NodeName(blob, 0, int(h.OffDTStruct), int(h.SizeDTStruct))
	require.NoError(t, err)
	require.Equal(t, "", name)

	_, next, err := NextTag(blob, 0, int(h.OffDTStruct), int(h.SizeDTStruct))
	require.NoError(t, err)
	name, err = NodeName(blob, next, int(h.OffDTStruct), int(h.SizeDTStruct))
	require.NoError(t, err)
	require.Equal(t, "soc", name)
}

func TestPropertyNameAndValue(t *testing.T) {
	blob, h := buildSimple(t)

	// offset of soc's first property: BEGIN_NODE(root) -> BEGIN_NODE(soc) -> PROPERTY(compatible)
	_, off, err := NextTag(blob, 0, int(h.OffDTStruct), int(h.SizeDTStruct))
	require.NoError(t, err)
	_, off, err = NextTag(blob, off, int(h.OffDTStruct), int(h.SizeDTStruct))
	require.NoError(t, err)

	name, val, err := PropertyNameAndValue(blob, off, int(h.OffDTStruct), int(h.SizeDTStruct), int(h.OffDTStrings), int(h.SizeDTStrings))
	require.NoError(t, err)
	require.Equal(t, "compatible", name)
	require.Equal(t, "simple-bus\x00", string(val))
}

func TestNodeNextOffset_RejectsNonNode(t *testing.T) {
	blob, h := buildSimple(t)

	_, off, err := NextTag(blob, 0, int(h.OffDTStruct), int(h.SizeDTStruct))
	require.NoError(t, err)
	_, off, err = NextTag(blob, off, int(h.OffDTStruct), int(h.SizeDTStruct))
	require.NoError(t, err)

	_, err = NodeNextOffset(blob, off, int(h.OffDTStruct), int(h.SizeDTStruct))
	require.Error(t, err)
}
