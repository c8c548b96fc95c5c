package structures

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arm64boot/fdt/internal/core"
	"github.com/arm64boot/fdt/internal/fdtgen"
	"github.com/arm64boot/fdt/internal/utils"
)

func TestNextProperty_StructureEndsBeforeNodeCloses(t *testing.T) {
	blob := fdtgen.NewBuilder().
		AddNode("soc", 1, fdtgen.Prop{Name: "compatible", Value: append([]byte("acme,soc"), 0)}).
		Build()

	h, err := core.ReadHeader(blob)
	require.NoError(t, err)
	v := View{
		Data:       blob,
		StructOff:  int(h.OffDTStruct),
		StructLen:  int(h.SizeDTStruct),
		StringsOff: int(h.OffDTStrings),
		StringsLen: int(h.SizeDTStrings),
	}

	socOff, err := v.LookupByPath("/soc")
	require.NoError(t, err)

	propOff, err := v.FirstProperty(socOff)
	require.NoError(t, err)
	next, err := core.PropertyNextOffset(v.Data, propOff, v.StructOff, v.StructLen)
	require.NoError(t, err)

	// The tag at "next" is soc's own END_NODE; corrupt it into END so the
	// structure block appears to terminate mid-node instead of closing it.
	binary.BigEndian.PutUint32(v.Data[v.StructOff+next:v.StructOff+next+4], 0x9)

	_, err = v.NextProperty(propOff)
	require.Error(t, err)
	require.True(t, utils.IsCode(err, utils.ErrBadStructure))
}
