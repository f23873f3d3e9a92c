package mips

import (
	"github.com/colorfulnotion/lift/machine"
)

// Operand layouts.
const (
	shapeNone machine.Shape = iota
	shapeCode               // 20-bit code in bits 6-25
	shapeSync               // stype in bits 6-10
	shapeR3                 // rd, rs, rt
	shapeShiftV             // rd, rt, rs
	shapeShift              // rd, rt, sa
	shapeLsa                // rd, rs, rt, sa+1
	shapeRsRt               // rs, rt
	shapeRd                 // rd
	shapeRs                 // rs
	shapeJalr               // rd, rs
	shapeMovci              // rd, rs, cc
	shapeImmS               // rt, rs, simm16
	shapeImmU               // rt, rs, imm16
	shapeLui                // rt, imm16
	shapeMem                // rt, offset(rs)
	shapeMemF               // ft, offset(rs)
	shapeBranch2            // rs, rt, target
	shapeBranch1            // rs, target
	shapeJump               // 26-bit region target
	shapeRdRs               // rd, rs
	shapeRdRt               // rd, rt
	shapeExt                // rt, rs, pos, size
	shapeIns                // rt, rs, pos, size
	shapeIndexed            // rd, index(base)
)

func leaf(op machine.Opcode, shape machine.Shape) *machine.Leaf {
	return machine.NewLeaf(op, shape, 0)
}

func special() machine.Node {
	return machine.NewSparseDispatch(0, 6, machine.Unrecognized(), map[uint32]machine.Node{
		0x00: leaf(SLL, shapeShift),
		0x01: machine.NewDispatch(16, 1, leaf(MOVF, shapeMovci), leaf(MOVT, shapeMovci)),
		0x02: leaf(SRL, shapeShift),
		0x03: leaf(SRA, shapeShift),
		0x04: leaf(SLLV, shapeShiftV),
		0x05: leaf(LSA, shapeLsa),
		0x06: leaf(SRLV, shapeShiftV),
		0x07: leaf(SRAV, shapeShiftV),
		0x08: leaf(JR, shapeRs),
		0x09: leaf(JALR, shapeJalr),
		0x0A: leaf(MOVZ, shapeR3),
		0x0B: leaf(MOVN, shapeR3),
		0x0C: leaf(SYSCALL, shapeCode),
		0x0D: leaf(BREAK, shapeCode),
		0x0F: leaf(SYNC, shapeSync),
		0x10: leaf(MFHI, shapeRd),
		0x11: leaf(MTHI, shapeRs),
		0x12: leaf(MFLO, shapeRd),
		0x13: leaf(MTLO, shapeRs),
		0x18: leaf(MULT, shapeRsRt),
		0x19: leaf(MULTU, shapeRsRt),
		0x1A: leaf(DIV, shapeRsRt),
		0x1B: leaf(DIVU, shapeRsRt),
		0x20: leaf(ADD, shapeR3),
		0x21: leaf(ADDU, shapeR3),
		0x22: leaf(SUB, shapeR3),
		0x23: leaf(SUBU, shapeR3),
		0x24: leaf(AND, shapeR3),
		0x25: leaf(OR, shapeR3),
		0x26: leaf(XOR, shapeR3),
		0x27: leaf(NOR, shapeR3),
		0x2A: leaf(SLT, shapeR3),
		0x2B: leaf(SLTU, shapeR3),
	})
}

func regimm() machine.Node {
	return machine.NewSparseDispatch(16, 5, machine.Unrecognized(), map[uint32]machine.Node{
		0x00: leaf(BLTZ, shapeBranch1),
		0x01: leaf(BGEZ, shapeBranch1),
		0x02: leaf(BLTZL, shapeBranch1),
		0x03: leaf(BGEZL, shapeBranch1),
		0x10: leaf(BLTZAL, shapeBranch1),
		0x11: leaf(BGEZAL, shapeBranch1),
	})
}

func special2() machine.Node {
	return machine.NewSparseDispatch(0, 6, machine.Unrecognized(), map[uint32]machine.Node{
		0x02: leaf(MUL, shapeR3),
		0x20: leaf(CLZ, shapeRdRs),
	})
}

func special3() machine.Node {
	return machine.NewSparseDispatch(0, 6, machine.Unrecognized(), map[uint32]machine.Node{
		0x00: leaf(EXT, shapeExt),
		0x04: leaf(INS, shapeIns),
		0x0A: machine.NewSparseDispatch(6, 5, machine.Unrecognized(), map[uint32]machine.Node{
			0x00: leaf(LWX, shapeIndexed),
			0x04: leaf(LHX, shapeIndexed),
			0x06: leaf(LBUX, shapeIndexed),
		}),
		0x20: machine.NewSparseDispatch(6, 5, machine.Unrecognized(), map[uint32]machine.Node{
			0x10: leaf(SEB, shapeRdRt),
			0x18: leaf(SEH, shapeRdRt),
		}),
	})
}

// baseTable is the MIPS32 encoding space. The 64-bit encodings are
// unrecognized here; MIPS64 claims them in a stage of its own.
func baseTable() machine.Node {
	return machine.NewSparseDispatch(26, 6, machine.Unrecognized(), map[uint32]machine.Node{
		0x00: special(),
		0x01: regimm(),
		0x02: leaf(J, shapeJump),
		0x03: leaf(JAL, shapeJump),
		0x04: leaf(BEQ, shapeBranch2),
		0x05: leaf(BNE, shapeBranch2),
		0x06: leaf(BLEZ, shapeBranch1),
		0x07: leaf(BGTZ, shapeBranch1),
		0x08: leaf(ADDI, shapeImmS),
		0x09: leaf(ADDIU, shapeImmS),
		0x0A: leaf(SLTI, shapeImmS),
		0x0B: leaf(SLTIU, shapeImmS),
		0x0C: leaf(ANDI, shapeImmU),
		0x0D: leaf(ORI, shapeImmU),
		0x0E: leaf(XORI, shapeImmU),
		0x0F: leaf(LUI, shapeLui),
		0x14: leaf(BEQL, shapeBranch2),
		0x15: leaf(BNEL, shapeBranch2),
		0x16: leaf(BLEZL, shapeBranch1),
		0x17: leaf(BGTZL, shapeBranch1),
		0x1C: special2(),
		0x1F: special3(),
		0x20: leaf(LB, shapeMem),
		0x21: leaf(LH, shapeMem),
		0x22: leaf(LWL, shapeMem),
		0x23: leaf(LW, shapeMem),
		0x24: leaf(LBU, shapeMem),
		0x25: leaf(LHU, shapeMem),
		0x26: leaf(LWR, shapeMem),
		0x28: leaf(SB, shapeMem),
		0x29: leaf(SH, shapeMem),
		0x2A: leaf(SWL, shapeMem),
		0x2B: leaf(SW, shapeMem),
		0x2E: leaf(SWR, shapeMem),
		0x30: leaf(LL, shapeMem),
		0x35: leaf(LDC1, shapeMemF),
		0x38: leaf(SC, shapeMem),
		0x3D: leaf(SDC1, shapeMemF),
	})
}

// wideTable holds the doubleword encodings and defers everything else to
// the base stage.
func wideTable() machine.Node {
	return machine.NewSparseDispatch(26, 6, machine.Defer(), map[uint32]machine.Node{
		0x00: machine.NewSparseDispatch(0, 6, machine.Defer(), map[uint32]machine.Node{
			0x14: leaf(DSLLV, shapeShiftV),
			0x16: leaf(DSRLV, shapeShiftV),
			0x17: leaf(DSRAV, shapeShiftV),
			0x1C: leaf(DMULT, shapeRsRt),
			0x1D: leaf(DMULTU, shapeRsRt),
			0x1E: leaf(DDIV, shapeRsRt),
			0x1F: leaf(DDIVU, shapeRsRt),
			0x2C: leaf(DADD, shapeR3),
			0x2D: leaf(DADDU, shapeR3),
			0x2E: leaf(DSUB, shapeR3),
			0x2F: leaf(DSUBU, shapeR3),
			0x38: leaf(DSLL, shapeShift),
			0x3A: leaf(DSRL, shapeShift),
			0x3B: leaf(DSRA, shapeShift),
			0x3C: leaf(DSLL32, shapeShift),
			0x3E: leaf(DSRL32, shapeShift),
			0x3F: leaf(DSRA32, shapeShift),
		}),
		0x18: leaf(DADDI, shapeImmS),
		0x19: leaf(DADDIU, shapeImmS),
		0x1A: leaf(LDL, shapeMem),
		0x1B: leaf(LDR, shapeMem),
		0x27: leaf(LWU, shapeMem),
		0x2C: leaf(SDL, shapeMem),
		0x2D: leaf(SDR, shapeMem),
		0x34: leaf(LLD, shapeMem),
		0x37: leaf(LD, shapeMem),
		0x3C: leaf(SCD, shapeMem),
		0x3F: leaf(SD, shapeMem),
	})
}

var (
	baseTree = machine.MustTree("mips", baseTable())
	wideTree = machine.MustTree("mips64", wideTable())
)
