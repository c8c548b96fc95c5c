// Package fdtgen assembles synthetic flattened device tree blobs for use
// in tests. It is test-support tooling only, mirroring the library's own
// testdata generators: rather than hand-writing byte literals for every
// fixture, a Builder accumulates nodes and properties and serializes them
// into a valid (or deliberately broken) blob on demand.
package fdtgen

import (
	"encoding/binary"
)

const (
	tagBeginNode = 0x1
	tagEndNode   = 0x2
	tagProperty  = 0x3
	tagNop       = 0x4
	tagEnd       = 0x9
)

// Prop is a name/value pair to attach to a node.
type Prop struct {
	Name  string
	Value []byte
}

// Node is one entry in a flattened node tree, in depth-first pre-order:
// Depth 0 is the root. Builder reconstructs BEGIN_NODE/END_NODE nesting
// from the Depth sequence, the same shape the structure block itself
// uses.
type Node struct {
	Name  string
	Depth int
	Props []Prop
}

// Builder accumulates nodes, properties, and reserved-memory entries and
// serializes them into an FDT blob.
type Builder struct {
	Nodes        []Node
	MemRsv       [][2]uint64
	BootCPUID    uint32
	Version      uint32
	LastCompVers uint32
}

// NewBuilder returns a Builder defaulted to a single empty root node at
// version 17.
func NewBuilder() *Builder {
	return &Builder{
		Nodes:        []Node{{Name: "", Depth: 0}},
		Version:      17,
		LastCompVers: 16,
	}
}

// AddNode appends a node at the given depth (1 = child of root).
func (b *Builder) AddNode(name string, depth int, props ...Prop) *Builder {
	b.Nodes = append(b.Nodes, Node{Name: name, Depth: depth, Props: props})
	return b
}

// AddMemRsv appends a reserved-memory entry.
func (b *Builder) AddMemRsv(addr, size uint64) *Builder {
	b.MemRsv = append(b.MemRsv, [2]uint64{addr, size})
	return b
}

// Build serializes the accumulated tree into a well-formed FDT blob.
func (b *Builder) Build() []byte {
	strings, strOffs := b.buildStrings()
	structBlock := b.buildStruct(strOffs)
	rsvmap := b.buildRsvmap()

	headerLen := 40
	rsvOff := headerLen
	structOff := align4(rsvOff + len(rsvmap))
	stringsOff := align4(structOff + len(structBlock))
	total := stringsOff + len(strings)

	out := make([]byte, total)
	putU32(out, 0, 0xd00dfeed)
	putU32(out, 4, uint32(total))
	putU32(out, 8, uint32(structOff))
	putU32(out, 12, uint32(stringsOff))
	putU32(out, 16, uint32(rsvOff))
	putU32(out, 20, b.Version)
	putU32(out, 24, b.LastCompVers)
	putU32(out, 28, b.BootCPUID)
	putU32(out, 32, uint32(len(strings)))
	putU32(out, 36, uint32(len(structBlock)))

	copy(out[rsvOff:], rsvmap)
	copy(out[structOff:], structBlock)
	copy(out[stringsOff:], strings)

	return out
}

func (b *Builder) buildStrings() ([]byte, map[string]int) {
	var buf []byte
	offs := map[string]int{}
	for _, n := range b.Nodes {
		for _, p := range n.Props {
			if _, ok := offs[p.Name]; ok {
				continue
			}
			offs[p.Name] = len(buf)
			buf = append(buf, p.Name...)
			buf = append(buf, 0)
		}
	}
	return buf, offs
}

func (b *Builder) buildStruct(strOffs map[string]int) []byte {
	var buf []byte
	depth := 0
	for i, n := range b.Nodes {
		for depth > n.Depth && i > 0 {
			buf = appendU32(buf, tagEndNode)
			depth--
		}
		buf = appendU32(buf, tagBeginNode)
		buf = append(buf, n.Name...)
		buf = append(buf, 0)
		buf = padTo4(buf)
		depth = n.Depth + 1

		for _, p := range n.Props {
			buf = appendU32(buf, tagProperty)
			buf = appendU32(buf, uint32(len(p.Value)))
			buf = appendU32(buf, uint32(strOffs[p.Name]))
			buf = append(buf, p.Value...)
			buf = padTo4(buf)
		}
	}
	for depth > 0 {
		buf = appendU32(buf, tagEndNode)
		depth--
	}
	buf = appendU32(buf, tagEnd)
	return buf
}

func (b *Builder) buildRsvmap() []byte {
	buf := make([]byte, 0, (len(b.MemRsv)+1)*16)
	for _, e := range b.MemRsv {
		buf = appendU64(buf, e[0])
		buf = appendU64(buf, e[1])
	}
	buf = appendU64(buf, 0)
	buf = appendU64(buf, 0)
	return buf
}

func align4(n int) int { return (n + 3) &^ 3 }

func padTo4(b []byte) []byte {
	for len(b)%4 != 0 {
		b = append(b, 0)
	}
	return b
}

func appendU32(b []byte, v uint32) []byte {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	return append(b, tmp[:]...)
}

func appendU64(b []byte, v uint64) []byte {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], v)
	return append(b, tmp[:]...)
}

func putU32(b []byte, off int, v uint32) {
	binary.BigEndian.PutUint32(b[off:off+4], v)
}
