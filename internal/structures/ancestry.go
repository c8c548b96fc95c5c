package structures

import (
	"strings"

	"github.com/arm64boot/fdt/internal/utils"
)

// findAncestry replays the walker from the start of the structure block
// to locate nodeOff, and returns the chain of ancestor offsets from the
// root (index 0) down to and including nodeOff. Several of the "node
// advanced" operations (GetPath, SupernodeAtDepth, NodeDepth,
// ParentOffset) are declared in the reference header but their bodies
// are not present in the kept source; they are implemented here, per
// the documented contract, by replaying the walker rather than
// maintaining parent pointers the wire format doesn't carry.
func (v View) findAncestry(nodeOff int) ([]int, error) {
	var stack []int

	depth := 0
	offset, err := v.NextNode(-1, &depth)
	for err == nil {
		// depth is 1 for the root, so the node belongs at index depth-1
		// and everything from there on is no longer an ancestor.
		if depth < 1 || depth-1 > len(stack) {
			break
		}
		stack = append(stack[:depth-1], offset)
		if offset == nodeOff {
			out := make([]int, len(stack))
			copy(out, stack)
			return out, nil
		}
		offset, err = v.NextNode(offset, &depth)
	}
	return nil, utils.NewError(utils.ErrBadOffset, "offset does not refer to a node")
}

// NodeDepth returns the depth of the node at off, where the root has
// depth 0.
func (v View) NodeDepth(off int) (int, error) {
	chain, err := v.findAncestry(off)
	if err != nil {
		return 0, err
	}
	return len(chain) - 1, nil
}

// SupernodeAtDepth returns the ancestor of the node at off found at the
// given depth from the root.
func (v View) SupernodeAtDepth(off, depth int) (int, error) {
	chain, err := v.findAncestry(off)
	if err != nil {
		return 0, err
	}
	if depth < 0 || depth >= len(chain) {
		return 0, utils.NewError(utils.ErrNotFound, "requested depth exceeds node depth")
	}
	return chain[depth], nil
}

// ParentOffset returns the offset of the parent of the node at off.
func (v View) ParentOffset(off int) (int, error) {
	chain, err := v.findAncestry(off)
	if err != nil {
		return 0, err
	}
	if len(chain) < 2 {
		return 0, utils.NewError(utils.ErrNotFound, "root node has no parent")
	}
	return chain[len(chain)-2], nil
}

// GetPath computes the full absolute path of the node at off.
func (v View) GetPath(off int) (string, error) {
	chain, err := v.findAncestry(off)
	if err != nil {
		return "", err
	}
	if len(chain) == 1 {
		return "/", nil
	}
	var b strings.Builder
	for _, nodeOff := range chain[1:] {
		name, err := v.NodeName(nodeOff)
		if err != nil {
			return "", err
		}
		b.WriteByte('/')
		b.WriteString(name)
	}
	return b.String(), nil
}
