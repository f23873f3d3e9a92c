package pic18

import (
	"encoding/binary"
	"fmt"

	"github.com/colorfulnotion/lift/machine"
)

// Family selects the PIC18 instruction set variant.
type Family int

const (
	Legacy Family = iota
	Extended
	Enhanced
)

var familyNames = map[Family]string{
	Legacy:   "legacy",
	Extended: "extended",
	Enhanced: "enhanced",
}

func (f Family) String() string {
	if name, ok := familyNames[f]; ok {
		return name
	}
	return fmt.Sprintf("family(%d)", int(f))
}

// ParseFamily maps "legacy", "extended" or "enhanced" to a Family.
func ParseFamily(name string) (Family, error) {
	for f, n := range familyNames {
		if n == name {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown PIC18 family %q", name)
}

// continuationRule marks follow-on words with 1111 in the top nibble.
var continuationRule = machine.ContinuationRule{
	MarkerMask:  0xF000,
	MarkerValue: 0xF000,
	PayloadMask: 0x0FFF,
}

// dataModel describes how an 8-bit file register operand maps to a data
// memory address.
type dataModel struct {
	accessSplit uint16 // access bank addresses below this are in bank 0
	sfrPage     uint16 // the upper half of the access bank
	indexed     bool   // a=0, f<0x60 addresses FSR2+f
}

// Architecture is one PIC18 family. It is immutable and safe for concurrent
// use.
type Architecture struct {
	family  Family
	stages  []*machine.Tree
	opcodes []machine.Opcode
	data    dataModel
}

// NewArchitecture returns the descriptor for family f.
func NewArchitecture(f Family) *Architecture {
	a := &Architecture{
		family:  f,
		stages:  []*machine.Tree{familyTrees[f], baseTree},
		opcodes: familyOpcodes(f),
	}
	switch f {
	case Legacy:
		a.data = dataModel{accessSplit: 0x80, sfrPage: 0x0F00}
	case Extended:
		a.data = dataModel{accessSplit: 0x60, sfrPage: 0x0F00, indexed: true}
	default:
		a.data = dataModel{accessSplit: 0x60, sfrPage: 0x3F00, indexed: true}
	}
	return a
}

func (a *Architecture) Family() Family { return a.family }

func (a *Architecture) Name() string { return "pic18-" + a.family.String() }

func (a *Architecture) Stages() []*machine.Tree { return a.stages }

func (a *Architecture) MinInstructionSize() int { return 2 }

func (a *Architecture) UnitSize() int { return 2 }

func (a *Architecture) ByteOrder() binary.ByteOrder { return binary.LittleEndian }

func (a *Architecture) Continuation() machine.ContinuationRule { return continuationRule }

func (a *Architecture) OpcodeName(op machine.Opcode) string { return OpcodeName(op) }

func (a *Architecture) Opcodes() []machine.Opcode { return a.opcodes }
