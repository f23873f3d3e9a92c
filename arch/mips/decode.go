package mips

import (
	"fmt"

	"github.com/colorfulnotion/lift/common"
	"github.com/colorfulnotion/lift/lifterrors"
	"github.com/colorfulnotion/lift/machine"
)

func field(w uint32, offset, width uint) uint32 {
	return machine.Extract(w, offset, width)
}

// DecodeLeaf builds the instruction for leaf from the instruction word.
func (a *Architecture) DecodeLeaf(l *machine.Leaf, head uint32, c *machine.Continuation) (*machine.Instruction, error) {
	// sll r0,r0,0 is the canonical no-op
	if l.Opcode == SLL && head == 0 {
		return machine.NewInstruction(NOP, machine.Linear), nil
	}
	ops, err := a.operands(l, head, c.Address())
	if err != nil {
		return nil, err
	}
	class := classOf(l.Opcode)
	if l.Opcode == JR && field(head, 21, 5) == raReg {
		class |= machine.Return
	}
	return machine.NewInstruction(l.Opcode, class, ops...), nil
}

func (a *Architecture) gpr(w uint32, offset uint) machine.RegisterOperand {
	return machine.RegisterOperand{Reg: a.regs.GPR[field(w, offset, 5)]}
}

func simm16(w uint32) int64 {
	return machine.ExtractSigned(w, 0, 16)
}

func (a *Architecture) operands(l *machine.Leaf, w uint32, addr common.Address) ([]machine.Operand, error) {
	rs, rt, rd := a.gpr(w, 21), a.gpr(w, 16), a.gpr(w, 11)
	sa := int64(field(w, 6, 5))
	switch l.Shape {
	case shapeNone:
		return nil, nil
	case shapeCode:
		return []machine.Operand{machine.Immediate{Value: int64(field(w, 6, 20)), Bits: 20}}, nil
	case shapeSync:
		return []machine.Operand{machine.Immediate{Value: sa, Bits: 5}}, nil
	case shapeR3:
		return []machine.Operand{rd, rs, rt}, nil
	case shapeShiftV:
		return []machine.Operand{rd, rt, rs}, nil
	case shapeShift:
		return []machine.Operand{rd, rt, machine.Immediate{Value: sa, Bits: 5}}, nil
	case shapeLsa:
		return []machine.Operand{rd, rs, rt, machine.Immediate{Value: int64(field(w, 6, 2)) + 1, Bits: 2}}, nil
	case shapeRsRt:
		return []machine.Operand{rs, rt}, nil
	case shapeRd:
		return []machine.Operand{rd}, nil
	case shapeRs:
		return []machine.Operand{rs}, nil
	case shapeJalr:
		return []machine.Operand{rd, rs}, nil
	case shapeMovci:
		return []machine.Operand{rd, rs, machine.Immediate{Value: int64(field(w, 18, 3)), Bits: 3}}, nil
	case shapeImmS:
		return []machine.Operand{rt, rs, machine.Immediate{Value: simm16(w), Bits: 16, Signed: true}}, nil
	case shapeImmU:
		return []machine.Operand{rt, rs, machine.Immediate{Value: int64(field(w, 0, 16)), Bits: 16}}, nil
	case shapeLui:
		return []machine.Operand{rt, machine.Immediate{Value: int64(field(w, 0, 16)), Bits: 16}}, nil
	case shapeMem:
		return []machine.Operand{rt, machine.Indirect{Base: rs.Reg, Offset: simm16(w)}}, nil
	case shapeMemF:
		ft := machine.RegisterOperand{Reg: a.regs.FPR[field(w, 16, 5)]}
		return []machine.Operand{ft, machine.Indirect{Base: rs.Reg, Offset: simm16(w)}}, nil
	case shapeBranch2:
		return []machine.Operand{rs, rt, branchTarget(w, addr)}, nil
	case shapeBranch1:
		return []machine.Operand{rs, branchTarget(w, addr)}, nil
	case shapeJump:
		// the target stays in the 256MB region of the delay slot
		region := uint64(addr.Add(4)) &^ 0x0FFFFFFF
		return []machine.Operand{machine.AbsoluteTarget{Addr: common.Address(region | uint64(field(w, 0, 26))<<2)}}, nil
	case shapeRdRs:
		return []machine.Operand{rd, rs}, nil
	case shapeRdRt:
		return []machine.Operand{rd, rt}, nil
	case shapeExt:
		size := int64(field(w, 11, 5)) + 1
		if sa+size > 32 {
			return nil, malformed("ext field pos %d size %d exceeds 32 bits", sa, size)
		}
		return []machine.Operand{rt, rs, machine.Immediate{Value: sa, Bits: 5}, machine.Immediate{Value: size, Bits: 6}}, nil
	case shapeIns:
		msb := int64(field(w, 11, 5))
		if msb < sa {
			return nil, malformed("ins msb %d below lsb %d", msb, sa)
		}
		return []machine.Operand{rt, rs, machine.Immediate{Value: sa, Bits: 5}, machine.Immediate{Value: msb - sa + 1, Bits: 6}}, nil
	case shapeIndexed:
		return []machine.Operand{rd, machine.Indexed{Base: rs.Reg, Index: rt.Reg}}, nil
	}
	return nil, lifterrors.Internalf("%s: unknown leaf shape %d", OpcodeName(l.Opcode), l.Shape)
}

// branchTarget is relative to the delay slot.
func branchTarget(w uint32, addr common.Address) machine.RelativeTarget {
	return machine.RelativeTarget{Offset: simm16(w) << 2, Base: addr.Add(4)}
}

func malformed(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), lifterrors.ErrMalformedEncoding)
}
