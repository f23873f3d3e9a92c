package sparc

import (
	"fmt"

	"github.com/colorfulnotion/lift/common"
	"github.com/colorfulnotion/lift/lifterrors"
	"github.com/colorfulnotion/lift/machine"
)

// nopWord is sethi 0,%g0.
const nopWord = 0x01000000

func field(w uint32, offset, width uint) uint32 {
	return machine.Extract(w, offset, width)
}

func reg(w uint32, offset uint) machine.RegisterOperand {
	return machine.RegisterOperand{Reg: Registers[field(w, offset, 5)]}
}

func immediateForm(w uint32) bool {
	return machine.Bit(w, 13)
}

// regOrImm is the second source: simm13 when i is set, rs2 otherwise.
func regOrImm(w uint32) machine.Operand {
	if immediateForm(w) {
		return machine.Immediate{Value: machine.ExtractSigned(w, 0, 13), Bits: 13, Signed: true}
	}
	return reg(w, 0)
}

func address(w uint32) machine.Operand {
	rs1 := Registers[field(w, 14, 5)]
	if immediateForm(w) {
		return machine.Indirect{Base: rs1, Offset: machine.ExtractSigned(w, 0, 13)}
	}
	return machine.Indexed{Base: rs1, Index: Registers[field(w, 0, 5)]}
}

func pair(w uint32) (machine.RegisterPair, error) {
	rd := field(w, 25, 5)
	if rd&1 != 0 {
		return machine.RegisterPair{}, fmt.Errorf("odd register %s in a doubleword transfer: %w", Registers[rd], lifterrors.ErrMalformedEncoding)
	}
	return machine.RegisterPair{Hi: Registers[rd], Lo: Registers[rd+1]}, nil
}

// DecodeLeaf builds the instruction for leaf from the instruction word.
func (a *Architecture) DecodeLeaf(l *machine.Leaf, w uint32, c *machine.Continuation) (*machine.Instruction, error) {
	if l.Opcode == SETHI && w == nopWord {
		return machine.NewInstruction(NOP, machine.Linear), nil
	}
	ops, err := operands(l, w, c.Address())
	if err != nil {
		return nil, err
	}
	class := classOf(l.Opcode)
	switch l.Opcode {
	case JMPL:
		class |= jmplClass(w)
	default:
		if l.Shape == shapeBranch && machine.Bit(w, 29) {
			class |= machine.Annul
		}
	}
	return machine.NewInstruction(l.Opcode, class, ops...), nil
}

// jmplClass recognises the return idioms (jmpl %i7+8,%g0 and jmpl %o7+8,%g0)
// and the indirect call (jmpl with %o7 as link register).
func jmplClass(w uint32) machine.InstrClass {
	rd, rs1 := field(w, 25, 5), field(w, 14, 5)
	switch {
	case rd == g0 && (rs1 == i7 || rs1 == o7) && immediateForm(w) && field(w, 0, 13) == 8:
		return machine.Return
	case rd == o7:
		return machine.Call
	}
	return 0
}

func operands(l *machine.Leaf, w uint32, addr common.Address) ([]machine.Operand, error) {
	rd := reg(w, 25)
	switch l.Shape {
	case shapeNone:
		return nil, nil
	case shapeBranch:
		return []machine.Operand{machine.RelativeTarget{Offset: machine.ExtractSigned(w, 0, 22) << 2, Base: addr}}, nil
	case shapeCall:
		return []machine.Operand{machine.RelativeTarget{Offset: machine.ExtractSigned(w, 0, 30) << 2, Base: addr}}, nil
	case shapeSethi:
		return []machine.Operand{machine.Immediate{Value: int64(field(w, 0, 22)), Bits: 22}, rd}, nil
	case shapeAlu:
		return []machine.Operand{reg(w, 14), regOrImm(w), rd}, nil
	case shapeShift:
		var count machine.Operand = reg(w, 0)
		if immediateForm(w) {
			count = machine.Immediate{Value: int64(field(w, 0, 5)), Bits: 5}
		}
		return []machine.Operand{reg(w, 14), count, rd}, nil
	case shapeRdY:
		return []machine.Operand{rd}, nil
	case shapeWrY, shapeTrap:
		return []machine.Operand{reg(w, 14), regOrImm(w)}, nil
	case shapeFlush:
		return []machine.Operand{address(w)}, nil
	case shapeLoad:
		return []machine.Operand{address(w), rd}, nil
	case shapeStore:
		return []machine.Operand{rd, address(w)}, nil
	case shapeLoadD:
		p, err := pair(w)
		if err != nil {
			return nil, err
		}
		return []machine.Operand{address(w), p}, nil
	case shapeStoreD:
		p, err := pair(w)
		if err != nil {
			return nil, err
		}
		return []machine.Operand{p, address(w)}, nil
	}
	return nil, lifterrors.Internalf("%s: unknown leaf shape %d", OpcodeName(l.Opcode), l.Shape)
}
