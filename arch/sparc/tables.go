package sparc

import (
	"github.com/colorfulnotion/lift/machine"
)

// Operand layouts.
const (
	shapeNone   machine.Shape = iota
	shapeBranch               // disp22
	shapeCall                 // disp30
	shapeSethi                // imm22, rd
	shapeAlu                  // rs1, reg_or_imm, rd
	shapeShift                // rs1, rs2 or shcnt, rd
	shapeRdY                  // rd
	shapeWrY                  // rs1, reg_or_imm
	shapeTrap                 // rs1, reg_or_imm
	shapeFlush                // address
	shapeLoad                 // address, rd
	shapeStore                // rd, address
	shapeLoadD                // address, rd pair
	shapeStoreD               // rd pair, address
)

func leaf(op machine.Opcode, shape machine.Shape) *machine.Leaf {
	return machine.NewLeaf(op, shape, 0)
}

func condLeaves(opcode func(c condition) machine.Opcode, shape machine.Shape) []machine.Node {
	nodes := make([]machine.Node, len(conditions))
	for i, c := range conditions {
		nodes[i] = leaf(opcode(c), shape)
	}
	return nodes
}

func branchOpcode(c condition) machine.Opcode { return c.branch }
func trapOpcode(c condition) machine.Opcode   { return c.trap }

func format2() machine.Node {
	return machine.NewSparseDispatch(22, 3, machine.Unrecognized(), map[uint32]machine.Node{
		0x2: machine.NewDispatch(25, 4, condLeaves(branchOpcode, shapeBranch)...),
		0x4: leaf(SETHI, shapeSethi),
	})
}

func arithmetic() machine.Node {
	return machine.NewSparseDispatch(19, 6, machine.Unrecognized(), map[uint32]machine.Node{
		0x00: leaf(ADD, shapeAlu),
		0x01: leaf(AND, shapeAlu),
		0x02: leaf(OR, shapeAlu),
		0x03: leaf(XOR, shapeAlu),
		0x04: leaf(SUB, shapeAlu),
		0x05: leaf(ANDN, shapeAlu),
		0x06: leaf(ORN, shapeAlu),
		0x07: leaf(XNOR, shapeAlu),
		0x08: leaf(ADDX, shapeAlu),
		0x0A: leaf(UMUL, shapeAlu),
		0x0B: leaf(SMUL, shapeAlu),
		0x0C: leaf(SUBX, shapeAlu),
		0x0E: leaf(UDIV, shapeAlu),
		0x0F: leaf(SDIV, shapeAlu),
		0x10: leaf(ADDCC, shapeAlu),
		0x11: leaf(ANDCC, shapeAlu),
		0x12: leaf(ORCC, shapeAlu),
		0x13: leaf(XORCC, shapeAlu),
		0x14: leaf(SUBCC, shapeAlu),
		0x15: leaf(ANDNCC, shapeAlu),
		0x16: leaf(ORNCC, shapeAlu),
		0x17: leaf(XNORCC, shapeAlu),
		0x18: leaf(ADDXCC, shapeAlu),
		0x1A: leaf(UMULCC, shapeAlu),
		0x1B: leaf(SMULCC, shapeAlu),
		0x1C: leaf(SUBXCC, shapeAlu),
		0x1E: leaf(UDIVCC, shapeAlu),
		0x1F: leaf(SDIVCC, shapeAlu),
		0x24: leaf(MULSCC, shapeAlu),
		0x25: leaf(SLL, shapeShift),
		0x26: leaf(SRL, shapeShift),
		0x27: leaf(SRA, shapeShift),
		0x28: leaf(RDY, shapeRdY),
		0x30: leaf(WRY, shapeWrY),
		0x38: leaf(JMPL, shapeAlu),
		0x39: leaf(RETT, shapeTrap),
		0x3A: machine.NewDispatch(25, 4, condLeaves(trapOpcode, shapeTrap)...),
		0x3B: leaf(FLUSH, shapeFlush),
		0x3C: leaf(SAVE, shapeAlu),
		0x3D: leaf(RESTORE, shapeAlu),
	})
}

func memory() machine.Node {
	return machine.NewSparseDispatch(19, 6, machine.Unrecognized(), map[uint32]machine.Node{
		0x00: leaf(LD, shapeLoad),
		0x01: leaf(LDUB, shapeLoad),
		0x02: leaf(LDUH, shapeLoad),
		0x03: leaf(LDD, shapeLoadD),
		0x04: leaf(ST, shapeStore),
		0x05: leaf(STB, shapeStore),
		0x06: leaf(STH, shapeStore),
		0x07: leaf(STD, shapeStoreD),
		0x09: leaf(LDSB, shapeLoad),
		0x0A: leaf(LDSH, shapeLoad),
		0x0D: leaf(LDSTUB, shapeLoad),
		0x0F: leaf(SWAP, shapeLoad),
	})
}

var tree = machine.MustTree("sparc", machine.NewDispatch(30, 2,
	format2(),
	leaf(CALL, shapeCall),
	arithmetic(),
	memory(),
))
