package pic18

import (
	"fmt"

	"github.com/colorfulnotion/lift/common"
	"github.com/colorfulnotion/lift/lifterrors"
	"github.com/colorfulnotion/lift/machine"
)

func malformed(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), lifterrors.ErrMalformedEncoding)
}

func field(w uint16, offset, width uint) uint16 {
	return machine.Extract(w, offset, width)
}

// DecodeLeaf builds the instruction for leaf from the head word and any
// continuation words its layout needs.
func (a *Architecture) DecodeLeaf(l *machine.Leaf, head uint32, c *machine.Continuation) (*machine.Instruction, error) {
	w := uint16(head)
	ops, err := a.operands(l, w, c)
	if err != nil {
		return nil, err
	}
	return machine.NewInstruction(l.Opcode, classOf(l.Opcode), ops...), nil
}

func (a *Architecture) operands(l *machine.Leaf, w uint16, c *machine.Continuation) ([]machine.Operand, error) {
	name := OpcodeName(l.Opcode)
	switch l.Shape {
	case shapeNone:
		return nil, nil

	case shapeExact:
		if uint32(w) != l.Data {
			return nil, malformed("%s requires 0x%04X, got 0x%04X", name, l.Data, w)
		}
		return nil, nil

	case shapeMemA:
		return []machine.Operand{machine.MemoryDirect{
			Addr:   field(w, 0, 8),
			Access: uint8(field(w, 8, 1)),
		}}, nil

	case shapeMemDA:
		return []machine.Operand{machine.MemoryDirectWithDest{
			Addr:   field(w, 0, 8),
			Dest:   uint8(field(w, 9, 1)),
			Access: uint8(field(w, 8, 1)),
		}}, nil

	case shapeMemBit:
		return []machine.Operand{machine.MemoryBit{
			Addr:   field(w, 0, 8),
			Bit:    uint8(field(w, 9, 3)),
			Access: uint8(field(w, 8, 1)),
		}}, nil

	case shapeImm8:
		return []machine.Operand{machine.ImmediateByte{Value: uint8(w)}}, nil

	case shapeShadow:
		return []machine.Operand{machine.ShadowFlag{Fast: machine.Bit(w, 0)}}, nil

	case shapeRel8, shapeRel11:
		width := uint(8)
		if l.Shape == shapeRel11 {
			width = 11
		}
		n := machine.ExtractSigned(w, 0, width)
		return []machine.Operand{machine.RelativeTarget{Offset: 2 * n, Base: c.Address().Add(2)}}, nil

	case shapeTbl:
		return []machine.Operand{machine.TableMode{Mode: uint8(field(w, 0, 2))}}, nil

	case shapeMovff:
		dst, err := c.Next()
		if err != nil {
			return nil, err
		}
		return []machine.Operand{machine.MemoryToMemory{Src: uint32(field(w, 0, 12)), Dst: dst}}, nil

	case shapeGoto, shapeCall:
		hi, err := c.Next()
		if err != nil {
			return nil, err
		}
		// k is a program word address; bit 0 of the byte address is always zero.
		k := uint32(field(w, 0, 8)) | hi<<8
		ops := []machine.Operand{machine.AbsoluteTarget{Addr: common.Address(k) << 1}}
		if l.Shape == shapeCall {
			ops = append(ops, machine.ShadowFlag{Fast: machine.Bit(w, 8)})
		}
		return ops, nil

	case shapeMovlb4:
		if field(w, 4, 4) != 0 {
			return nil, malformed("MOVLB reserved bits set in 0x%04X", w)
		}
		return []machine.Operand{machine.ImmediateByte{Value: uint8(field(w, 0, 4))}}, nil

	case shapeMovlb6:
		if field(w, 6, 2) != 0 {
			return nil, malformed("MOVLB reserved bits set in 0x%04X", w)
		}
		return []machine.Operand{machine.ImmediateByte{Value: uint8(field(w, 0, 6))}}, nil

	case shapeLfsr12, shapeLfsr14:
		f := uint8(field(w, 4, 2))
		if field(w, 6, 2) != 0 || f == 3 {
			return nil, malformed("LFSR bad register field in 0x%04X", w)
		}
		lo, err := c.Next()
		if err != nil {
			return nil, err
		}
		var k uint16
		if l.Shape == shapeLfsr12 {
			if lo >= 0x100 {
				return nil, malformed("LFSR second word payload 0x%03X out of range", lo)
			}
			k = field(w, 0, 4)<<8 | uint16(lo)
		} else {
			if lo >= 0x400 {
				return nil, malformed("LFSR second word payload 0x%03X out of range", lo)
			}
			k = field(w, 0, 4)<<10 | uint16(lo)
		}
		return []machine.Operand{machine.FSRLiteral{FSR: f, Value: k}}, nil

	case shapeFSRImm6:
		return []machine.Operand{machine.FSRLiteral{FSR: uint8(field(w, 6, 2)), Value: field(w, 0, 6)}}, nil

	case shapeImm6:
		return []machine.Operand{machine.ImmediateByte{Value: uint8(field(w, 0, 6))}}, nil

	case shapeMovsf:
		fd, err := c.Next()
		if err != nil {
			return nil, err
		}
		return []machine.Operand{machine.StackRelative{Offset: uint8(field(w, 0, 7))}, machine.DataAddress{Addr: fd}}, nil

	case shapeMovss:
		zd, err := c.Next()
		if err != nil {
			return nil, err
		}
		return []machine.Operand{
			machine.StackRelative{Offset: uint8(field(w, 0, 7))},
			machine.StackRelative{Offset: uint8(zd & 0x7F)},
		}, nil

	case shapeMovffl:
		w2, err := c.Next()
		if err != nil {
			return nil, err
		}
		w3, err := c.Next()
		if err != nil {
			return nil, err
		}
		src := uint32(field(w, 0, 4))<<10 | w2>>2
		dst := (w2&3)<<12 | w3
		return []machine.Operand{machine.MemoryToMemory{Src: src, Dst: dst}}, nil

	case shapeMovsfl:
		w2, err := c.Next()
		if err != nil {
			return nil, err
		}
		w3, err := c.Next()
		if err != nil {
			return nil, err
		}
		zs := uint8((w2 >> 2) & 0x7F)
		dst := (w2&3)<<12 | w3
		return []machine.Operand{machine.StackRelative{Offset: zs}, machine.DataAddress{Addr: dst}}, nil
	}
	return nil, lifterrors.Internalf("%s: unknown leaf shape %d", name, l.Shape)
}

// DecodeDirective decodes a data directive at the reader's cursor. region
// bounds multi-byte EEPROM directives.
func (a *Architecture) DecodeDirective(kind machine.DirectiveKind, r *machine.WordReader, region machine.RegionFunc) (*machine.Instruction, error) {
	return directiveDecoder.Decode(kind, r, region)
}

var directiveDecoder = &machine.DirectiveDecoder{
	Opcodes: map[machine.DirectiveKind]machine.Opcode{
		machine.DirectiveDE:     DE,
		machine.DirectiveDB:     DB,
		machine.DirectiveDA:     DA,
		machine.DirectiveDW:     DW,
		machine.DirectiveIDLOCS: IDLOCS,
		machine.DirectiveCONFIG: CONFIG,
	},
	Names: OpcodeName,
}
