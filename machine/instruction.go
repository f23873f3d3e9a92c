package machine

import (
	"fmt"
	"strings"

	"github.com/colorfulnotion/lift/common"
	"github.com/davecgh/go-spew/spew"
)

// Opcode identifies the semantic operation of an instruction. Each family
// numbers its own opcodes; zero is reserved for OpInvalid in every family.
type Opcode uint16

const OpInvalid Opcode = 0

// InstrClass is a bit set describing how an instruction affects control flow.
type InstrClass uint16

const (
	Linear InstrClass = 1 << iota
	Transfer
	Conditional
	Call
	Return
	Delay
	Annul
	Invalid
)

const ConditionalTransfer = Conditional | Transfer

var classNames = []struct {
	c    InstrClass
	name string
}{
	{Linear, "Linear"},
	{Transfer, "Transfer"},
	{Conditional, "Conditional"},
	{Call, "Call"},
	{Return, "Return"},
	{Delay, "Delay"},
	{Annul, "Annul"},
	{Invalid, "Invalid"},
}

func (c InstrClass) Has(flags InstrClass) bool {
	return c&flags == flags
}

func (c InstrClass) String() string {
	if c == 0 {
		return "None"
	}
	var parts []string
	for _, cn := range classNames {
		if c&cn.c != 0 {
			parts = append(parts, cn.name)
		}
	}
	return strings.Join(parts, "|")
}

func (c InstrClass) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Instruction is one decoded unit. Address and Length are stamped by the
// Decoder; leaves leave them zero.
type Instruction struct {
	Opcode   Opcode
	Mnemonic string
	Class    InstrClass
	Address  common.Address
	Length   int
	Operands []Operand

	// Err carries the recoverable condition (malformed encoding, truncation,
	// end of stream) behind an Invalid instruction.
	Err error
}

// NewInstruction returns an undecorated instruction for leaves to fill in.
func NewInstruction(op Opcode, class InstrClass, operands ...Operand) *Instruction {
	return &Instruction{
		Opcode:   op,
		Class:    class,
		Operands: operands,
	}
}

func (i *Instruction) IsValid() bool {
	return i.Class&Invalid == 0
}

// Op returns operand n, or None when the slot is absent.
func (i *Instruction) Op(n int) Operand {
	if n < 0 || n >= len(i.Operands) {
		return None{}
	}
	return i.Operands[n]
}

// End is the address of the byte following the instruction.
func (i *Instruction) End() common.Address {
	return i.Address.Add(int64(i.Length))
}

func (i *Instruction) String() string {
	name := i.Mnemonic
	if name == "" {
		name = fmt.Sprintf("op%d", i.Opcode)
	}
	if len(i.Operands) == 0 {
		return name
	}
	ops := make([]string, len(i.Operands))
	for n, op := range i.Operands {
		ops[n] = op.String()
	}
	return name + " " + strings.Join(ops, ",")
}

// Dump renders every field of the instruction for diagnostics.
func (i *Instruction) Dump() string {
	cfg := spew.ConfigState{Indent: "  ", DisableMethods: true, DisablePointerAddresses: true, SortKeys: true}
	return cfg.Sdump(i)
}
