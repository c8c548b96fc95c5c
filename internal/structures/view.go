// Package structures implements node and property traversal and all
// lookup operations over a validated flattened device tree blob: the
// depth-tracking node walker, property iteration, and the by-name,
// by-path, by-phandle, by-compatible, and by-property-value search
// operations built on top of the tag walker in internal/core.
package structures

import (
	"github.com/arm64boot/fdt/internal/core"
)

// View carries the sub-block layout a Blob decoded from its header, so
// every traversal and lookup function below can be expressed without
// repeatedly threading two separate offset/length pairs through each
// call site.
type View struct {
	Data       []byte
	StructOff  int
	StructLen  int
	StringsOff int
	StringsLen int
}

func (v View) nextTag(off int) (core.TagKind, int, error) {
	return core.NextTag(v.Data, off, v.StructOff, v.StructLen)
}
