package mips

import (
	"encoding/binary"
	"fmt"

	"github.com/colorfulnotion/lift/machine"
)

// Architecture is a MIPS32 or MIPS64 processor of either byte order. It is
// immutable and safe for concurrent use.
type Architecture struct {
	isa     ISA
	order   binary.ByteOrder
	regs    *RegisterSet
	stages  []*machine.Tree
	opcodes []machine.Opcode
}

// NewArchitecture returns the descriptor for isa in the given byte order.
func NewArchitecture(isa ISA, order binary.ByteOrder) *Architecture {
	a := &Architecture{
		isa:     isa,
		order:   order,
		regs:    Registers(isa),
		stages:  []*machine.Tree{baseTree},
		opcodes: isaOpcodes(isa),
	}
	if isa == MIPS64 {
		a.stages = []*machine.Tree{wideTree, baseTree}
	}
	return a
}

func (a *Architecture) ISA() ISA { return a.isa }

func (a *Architecture) Registers() *RegisterSet { return a.regs }

// WordBits is the general purpose register width.
func (a *Architecture) WordBits() int { return int(a.isa) }

func (a *Architecture) Name() string {
	endian := "be"
	if a.order == binary.LittleEndian {
		endian = "le"
	}
	return fmt.Sprintf("mips-%s-%d", endian, a.isa)
}

func (a *Architecture) Stages() []*machine.Tree { return a.stages }

func (a *Architecture) MinInstructionSize() int { return 4 }

func (a *Architecture) UnitSize() int { return 4 }

func (a *Architecture) ByteOrder() binary.ByteOrder { return a.order }

func (a *Architecture) Continuation() machine.ContinuationRule { return machine.NoContinuation }

func (a *Architecture) OpcodeName(op machine.Opcode) string { return OpcodeName(op) }

func (a *Architecture) Opcodes() []machine.Opcode { return a.opcodes }
