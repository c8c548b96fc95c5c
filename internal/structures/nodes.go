package structures

import (
	"strings"

	"github.com/arm64boot/fdt/internal/core"
	"github.com/arm64boot/fdt/internal/utils"
)

// NextNode finds the node following off, tracking nesting depth in
// *depth when depth is non-nil. Passing off = -1 starts the walk before
// the first tag, so the root node (offset 0) is returned. This mirrors
// fdt_next_node's tag loop: PROPERTY and NOP are skipped in place,
// BEGIN_NODE increments depth, END_NODE decrements it (returning the
// offset just past the END_NODE as a success value if depth would go
// negative — the walk has climbed back above its starting point, which
// callers tracking depth use as their own stop condition), and END
// stops the walk with NotFound. Callers that want a full-tree scan
// unconstrained by a starting depth (the by-phandle, by-compatible, and
// by-property-value lookups) pass a nil depth, exactly as the reference
// passes a NULL pdepth for the same searches.
func (v View) NextNode(off int, depth *int) (int, error) {
	nextOffset := 0

	if off >= 0 {
		n, err := core.NodeNextOffset(v.Data, off, v.StructOff, v.StructLen)
		if err != nil {
			return 0, err
		}
		nextOffset = n
	}

	for {
		offset := nextOffset
		tag, next, err := v.nextTag(offset)
		if err != nil {
			return 0, err
		}
		nextOffset = next

		switch tag {
		case core.Property, core.Nop:
			continue

		case core.BeginNode:
			if depth != nil {
				*depth++
			}
			return offset, nil

		case core.EndNode:
			if depth != nil {
				*depth--
				if *depth < 0 {
					// Walked past the starting depth: this is a normal stop
					// condition for a caller tracking depth (FirstChild,
					// NextSibling), not a walker error, so the offset just
					// past this END_NODE is returned as a success value.
					return next, nil
				}
			}
			continue

		case core.End:
			return 0, utils.NewError(utils.ErrNotFound, "end of structure block")

		default:
			return 0, utils.NewError(utils.ErrBadStructure, "unexpected tag")
		}
	}
}

// FirstChild returns the offset of the first direct child of the node
// at off, or NotFound if it has none.
func (v View) FirstChild(off int) (int, error) {
	depth := 0
	child, err := v.NextNode(off, &depth)
	if err != nil {
		return 0, err
	}
	if depth != 1 {
		return 0, utils.NewError(utils.ErrNotFound, "no child node")
	}
	return child, nil
}

// NextSibling returns the offset of the next sibling of the child node
// at off (a node previously returned by FirstChild or NextSibling).
func (v View) NextSibling(off int) (int, error) {
	depth := 1
	for {
		next, err := v.NextNode(off, &depth)
		if err != nil {
			return 0, err
		}
		if depth < 1 {
			return 0, utils.NewError(utils.ErrNotFound, "no more siblings")
		}
		if depth == 1 {
			return next, nil
		}
		off = next
	}
}

// NodeName returns the full name (including unit address, if any) of
// the node at off.
func (v View) NodeName(off int) (string, error) {
	return core.NodeName(v.Data, off, v.StructOff, v.StructLen)
}

// NodeNameEqual reports whether the node at off is named s, ignoring a
// trailing unit address on the node's own name when s carries none.
func (v View) NodeNameEqual(off int, s string) bool {
	full, err := v.NodeName(off)
	if err != nil {
		return false
	}
	if full == s {
		return true
	}
	idx := strings.IndexByte(full, '@')
	if idx >= 0 && full[:idx] == s && !strings.Contains(s, "@") {
		return true
	}
	return false
}
