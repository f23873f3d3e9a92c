package machine

import (
	"github.com/colorfulnotion/lift/lifterrors"
)

// Validate checks that every dispatch node below root has exactly 2^width
// non-nil children and that its field fits a 32-bit word.
func Validate(root Node) error {
	return validate(root, 0)
}

func validate(n Node, depth int) error {
	switch n := n.(type) {
	case nil:
		return lifterrors.Internalf("nil node at depth %d", depth)
	case *Dispatch:
		if n.Width == 0 || n.Offset+n.Width > 32 {
			return lifterrors.Internalf("dispatch field offset %d width %d out of range at depth %d", n.Offset, n.Width, depth)
		}
		if len(n.Children) != 1<<n.Width {
			return lifterrors.Internalf("dispatch at bit %d has %d children, want %d", n.Offset, len(n.Children), 1<<n.Width)
		}
		for i, c := range n.Children {
			if c == nil {
				return lifterrors.Internalf("dispatch at bit %d width %d has a gap at child %d", n.Offset, n.Width, i)
			}
			if err := validate(c, depth+1); err != nil {
				return err
			}
		}
	case *Leaf, *UnrecognizedNode, *DeferNode:
	default:
		return lifterrors.Internalf("unknown node type %T", n)
	}
	return nil
}
