package machine

import (
	"github.com/colorfulnotion/lift/lifterrors"
)

// Shape names the operand layout a leaf decodes. Each family defines its own
// shapes; the machine package only carries them through.
type Shape uint8

// Node is a decode tree node: *Dispatch, *Leaf, *UnrecognizedNode or
// *DeferNode. Nodes are immutable once a Tree is built.
type Node interface {
	node()
}

// Dispatch selects one of 2^Width children by the bit field at
// (Offset, Width) of the instruction word.
type Dispatch struct {
	Offset   uint
	Width    uint
	Children []Node
}

// Leaf names the opcode for a bit pattern. Data is a shape-specific constant
// (an exact word to match, a secondary opcode, a register number).
type Leaf struct {
	Opcode Opcode
	Shape  Shape
	Data   uint32
}

// UnrecognizedNode marks an architecturally invalid bit pattern.
type UnrecognizedNode struct{}

// DeferNode marks a pattern owned by a later decode stage.
type DeferNode struct{}

func (*Dispatch) node()         {}
func (*Leaf) node()             {}
func (*UnrecognizedNode) node() {}
func (*DeferNode) node()        {}

var (
	unrecognized = &UnrecognizedNode{}
	deferred     = &DeferNode{}
)

func Unrecognized() Node { return unrecognized }

func Defer() Node { return deferred }

// NewDispatch builds a dispatch node. The child count must be exactly
// 2^width and every child must be non-nil; anything else is a table defect.
func NewDispatch(offset, width uint, children ...Node) *Dispatch {
	if width == 0 || width > 16 || offset+width > 32 {
		panic(lifterrors.Internalf("dispatch field offset %d width %d out of range", offset, width))
	}
	if len(children) != 1<<width {
		panic(lifterrors.Internalf("dispatch at bit %d width %d has %d children, want %d", offset, width, len(children), 1<<width))
	}
	for i, c := range children {
		if c == nil {
			panic(lifterrors.Internalf("dispatch at bit %d width %d has a gap at child %d", offset, width, i))
		}
	}
	return &Dispatch{Offset: offset, Width: width, Children: children}
}

func NewLeaf(op Opcode, shape Shape, data uint32) *Leaf {
	return &Leaf{Opcode: op, Shape: shape, Data: data}
}

// Fill returns n copies of node, for padding dispatch child lists.
func Fill(n int, node Node) []Node {
	nodes := make([]Node, n)
	for i := range nodes {
		nodes[i] = node
	}
	return nodes
}

// NewSparseDispatch builds a dispatch node whose children default to fill,
// with the listed slots overridden.
func NewSparseDispatch(offset, width uint, fill Node, slots map[uint32]Node) *Dispatch {
	children := Fill(1<<width, fill)
	for i, n := range slots {
		if int(i) >= len(children) {
			panic(lifterrors.Internalf("dispatch at bit %d width %d has no slot %d", offset, width, i))
		}
		children[i] = n
	}
	return NewDispatch(offset, width, children...)
}

// Select returns the child of d chosen by word.
func (d *Dispatch) Select(word uint32) Node {
	return d.Children[Extract(word, d.Offset, d.Width)]
}
