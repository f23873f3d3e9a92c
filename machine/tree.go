package machine

import (
	"fmt"

	"github.com/colorfulnotion/lift/lifterrors"
	"github.com/colorfulnotion/lift/log"
	"github.com/xlab/treeprint"
)

// Tree is a validated, read-only decode tree. It is safe to share between
// any number of concurrent decoders.
type Tree struct {
	name string
	root Node
}

// NewTree validates root and wraps it.
func NewTree(name string, root Node) (*Tree, error) {
	if err := Validate(root); err != nil {
		return nil, fmt.Errorf("decode tree %s: %w", name, err)
	}
	log.Debug(log.TableMonitoring, "decode tree built", "tree", name, "leaves", countLeaves(root))
	return &Tree{name: name, root: root}, nil
}

// MustTree is NewTree for package initialisation; a defective table panics.
func MustTree(name string, root Node) *Tree {
	t, err := NewTree(name, root)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Tree) Name() string {
	return t.name
}

func (t *Tree) Root() Node {
	return t.root
}

// Resolve walks the dispatch nodes selected by word until it reaches a leaf,
// an unrecognized marker or a defer marker.
func (t *Tree) Resolve(word uint32) Node {
	n := t.root
	for {
		d, ok := n.(*Dispatch)
		if !ok {
			return n
		}
		n = d.Select(word)
	}
}

// ResolveStages tries each stage in order. A defer marker moves on to the
// next stage; deferring past the last stage is unrecognized. It returns nil
// when the word is unrecognized.
func ResolveStages(stages []*Tree, word uint32) *Leaf {
	for _, t := range stages {
		switch n := t.Resolve(word).(type) {
		case *Leaf:
			return n
		case *UnrecognizedNode:
			return nil
		case *DeferNode:
			continue
		default:
			panic(lifterrors.Internalf("tree %s resolved to %T", t.name, n))
		}
	}
	return nil
}

// Walk visits every node depth first with the bit pattern prefix that leads
// to it, rendered as (offset, width, value) triples.
func (t *Tree) Walk(fn func(path []FieldValue, n Node)) {
	walk(t.root, nil, fn)
}

// FieldValue is one dispatch decision on the path to a node.
type FieldValue struct {
	Offset uint
	Width  uint
	Value  uint32
}

func walk(n Node, path []FieldValue, fn func([]FieldValue, Node)) {
	fn(path, n)
	d, ok := n.(*Dispatch)
	if !ok {
		return
	}
	for i, c := range d.Children {
		next := append(path[:len(path):len(path)], FieldValue{d.Offset, d.Width, uint32(i)})
		walk(c, next, fn)
	}
}

func countLeaves(n Node) int {
	switch n := n.(type) {
	case *Dispatch:
		total := 0
		for _, c := range n.Children {
			total += countLeaves(c)
		}
		return total
	case *Leaf:
		return 1
	}
	return 0
}

// Dump renders the tree. name maps opcodes to mnemonics.
func (t *Tree) Dump(name func(Opcode) string) string {
	tree := treeprint.New()
	tree.SetValue(t.name)
	dumpNode(tree, t.root, name)
	return tree.String()
}

func dumpNode(branch treeprint.Tree, n Node, name func(Opcode) string) {
	d, ok := n.(*Dispatch)
	if !ok {
		branch.AddNode(nodeLabel(n, name))
		return
	}
	for i, c := range d.Children {
		key := fmt.Sprintf("[%d:%d]=%0*b", d.Offset+d.Width-1, d.Offset, int(d.Width), i)
		if sub, ok := c.(*Dispatch); ok {
			dumpNode(branch.AddBranch(key), sub, name)
			continue
		}
		branch.AddNode(key + " " + nodeLabel(c, name))
	}
}

func nodeLabel(n Node, name func(Opcode) string) string {
	switch n := n.(type) {
	case *Leaf:
		return name(n.Opcode)
	case *UnrecognizedNode:
		return "-"
	case *DeferNode:
		return "defer"
	}
	return fmt.Sprintf("%T", n)
}
