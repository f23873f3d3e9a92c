package sparc

import (
	"encoding/binary"

	"github.com/colorfulnotion/lift/machine"
)

// Architecture is a 32-bit big-endian SPARC V8 processor.
type Architecture struct {
	stages  []*machine.Tree
	opcodes []machine.Opcode
}

func NewArchitecture() *Architecture {
	return &Architecture{
		stages:  []*machine.Tree{tree},
		opcodes: allOpcodes(),
	}
}

func (a *Architecture) Name() string { return "sparc" }

func (a *Architecture) Stages() []*machine.Tree { return a.stages }

func (a *Architecture) MinInstructionSize() int { return 4 }

func (a *Architecture) UnitSize() int { return 4 }

func (a *Architecture) ByteOrder() binary.ByteOrder { return binary.BigEndian }

func (a *Architecture) Continuation() machine.ContinuationRule { return machine.NoContinuation }

func (a *Architecture) OpcodeName(op machine.Opcode) string { return OpcodeName(op) }

func (a *Architecture) Opcodes() []machine.Opcode { return a.opcodes }
