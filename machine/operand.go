package machine

import (
	"fmt"

	"github.com/colorfulnotion/lift/common"
)

// Operand is the closed set of operand shapes. The shape of every slot is
// fixed by the opcode, so consumers type-switch and treat anything else as a
// table defect.
type Operand interface {
	fmt.Stringer
	operand()
}

type None struct{}

type RegisterOperand struct {
	Reg *Register
}

// MemoryDirect is a file-register reference. Access is the raw addressing
// mode bit: 0 selects the access bank, 1 the bank named by the bank register.
type MemoryDirect struct {
	Addr   uint16
	Access uint8
}

// MemoryDirectWithDest adds the destination selector: Dest 0 writes the
// accumulator, 1 writes back to the file register.
type MemoryDirectWithDest struct {
	Addr   uint16
	Dest   uint8
	Access uint8
}

type MemoryBit struct {
	Addr   uint16
	Bit    uint8
	Access uint8
}

type ImmediateByte struct {
	Value uint8
}

// ImmediateWord is a literal assembled from fragments that may span several
// program words.
type ImmediateWord struct {
	Value uint16
}

// Immediate is a RISC immediate. Bits is the encoded field width.
type Immediate struct {
	Value  int64
	Bits   int
	Signed bool
}

// RelativeTarget is a PC-relative code target. Offset is in bytes and is
// applied to Base, which the leaf derives from the instruction's own address.
type RelativeTarget struct {
	Offset int64
	Base   common.Address
}

func (t RelativeTarget) Target() common.Address {
	return t.Base.Add(t.Offset)
}

type AbsoluteTarget struct {
	Addr common.Address
}

type Indirect struct {
	Base   *Register
	Offset int64
}

type Indexed struct {
	Base  *Register
	Index *Register
}

type RegisterPair struct {
	Hi *Register
	Lo *Register
}

// MemoryToMemory holds two absolute data addresses (MOVFF-style moves).
type MemoryToMemory struct {
	Src uint32
	Dst uint32
}

// DataAddress is an absolute, unbanked data memory address.
type DataAddress struct {
	Addr uint32
}

// StackRelative is a data reference at a fixed offset from the software
// stack pointer register.
type StackRelative struct {
	Offset uint8
}

// FSRLiteral pairs an indirect-address register index with a literal.
type FSRLiteral struct {
	FSR   uint8
	Value uint16
}

// TableMode is the table pointer update mode: 0 "*", 1 "*+", 2 "*-", 3 "+*".
type TableMode struct {
	Mode uint8
}

type ShadowFlag struct {
	Fast bool
}

func (None) operand()                 {}
func (RegisterOperand) operand()      {}
func (MemoryDirect) operand()         {}
func (MemoryDirectWithDest) operand() {}
func (MemoryBit) operand()            {}
func (ImmediateByte) operand()        {}
func (ImmediateWord) operand()        {}
func (Immediate) operand()            {}
func (RelativeTarget) operand()       {}
func (AbsoluteTarget) operand()       {}
func (Indirect) operand()             {}
func (Indexed) operand()              {}
func (RegisterPair) operand()         {}
func (MemoryToMemory) operand()       {}
func (DataAddress) operand()          {}
func (StackRelative) operand()        {}
func (FSRLiteral) operand()           {}
func (TableMode) operand()            {}
func (ShadowFlag) operand()           {}

func (None) String() string { return "" }

func (o RegisterOperand) String() string { return o.Reg.Name }

func accessName(a uint8) string {
	if a == 0 {
		return "ACCESS"
	}
	return "BANKED"
}

func (o MemoryDirect) String() string {
	return fmt.Sprintf("0x%02X,%s", o.Addr, accessName(o.Access))
}

func (o MemoryDirectWithDest) String() string {
	dest := "W"
	if o.Dest != 0 {
		dest = "F"
	}
	return fmt.Sprintf("0x%02X,%s,%s", o.Addr, dest, accessName(o.Access))
}

func (o MemoryBit) String() string {
	return fmt.Sprintf("0x%02X,%d,%s", o.Addr, o.Bit, accessName(o.Access))
}

func (o ImmediateByte) String() string { return fmt.Sprintf("0x%02X", o.Value) }

func (o ImmediateWord) String() string { return fmt.Sprintf("0x%04X", o.Value) }

func (o Immediate) String() string {
	if o.Signed && o.Value < 0 {
		return fmt.Sprintf("-0x%X", -o.Value)
	}
	return fmt.Sprintf("0x%X", o.Value)
}

func (o RelativeTarget) String() string { return o.Target().String() }

func (o AbsoluteTarget) String() string { return o.Addr.String() }

func (o Indirect) String() string {
	if o.Offset < 0 {
		return fmt.Sprintf("-0x%X(%s)", -o.Offset, o.Base.Name)
	}
	return fmt.Sprintf("0x%X(%s)", o.Offset, o.Base.Name)
}

func (o Indexed) String() string { return fmt.Sprintf("%s(%s)", o.Index.Name, o.Base.Name) }

func (o RegisterPair) String() string { return o.Hi.Name + ":" + o.Lo.Name }

func (o MemoryToMemory) String() string { return fmt.Sprintf("0x%03X,0x%03X", o.Src, o.Dst) }

func (o DataAddress) String() string { return fmt.Sprintf("0x%03X", o.Addr) }

func (o StackRelative) String() string { return fmt.Sprintf("[0x%02X]", o.Offset) }

func (o FSRLiteral) String() string { return fmt.Sprintf("FSR%d,0x%X", o.FSR, o.Value) }

var tableModes = [4]string{"*", "*+", "*-", "+*"}

func (o TableMode) String() string { return tableModes[o.Mode&3] }

func (o ShadowFlag) String() string {
	if o.Fast {
		return "FAST"
	}
	return ""
}
