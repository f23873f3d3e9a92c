package mips

import (
	"fmt"

	"github.com/colorfulnotion/lift/machine"
)

var gprNames = map[int]string{28: "gp", 29: "sp", 30: "fp", 31: "ra"}

func gprName(i int) string {
	if name, ok := gprNames[i]; ok {
		return name
	}
	return fmt.Sprintf("r%d", i)
}

// RegisterSet holds the register handles of one register width.
type RegisterSet struct {
	GPR machine.RegisterFile
	FPR machine.RegisterFile
	HI  *machine.Register
	LO  *machine.Register

	// FCSR carries the eight floating point condition codes, one flag
	// group each.
	FCSR *machine.Register
	FCC  [8]*machine.FlagGroup
}

func newRegisterSet(bits int) *RegisterSet {
	rs := &RegisterSet{
		GPR:  machine.NewRegisterFile(32, bits, gprName),
		FPR:  machine.NewRegisterFile(32, 64, func(i int) string { return fmt.Sprintf("f%d", i) }),
		HI:   &machine.Register{Name: "hi", Number: 32, Bits: bits},
		LO:   &machine.Register{Name: "lo", Number: 33, Bits: bits},
		FCSR: &machine.Register{Name: "fcsr", Number: 34, Bits: 32},
	}
	for i := range rs.FCC {
		// condition code 0 is bit 23, codes 1-7 are bits 25-31
		bit := uint(23)
		if i > 0 {
			bit = uint(24 + i)
		}
		rs.FCC[i] = &machine.FlagGroup{Name: fmt.Sprintf("fcc%d", i), Reg: rs.FCSR, Mask: 1 << bit}
	}
	return rs
}

// Registers32 and Registers64 are the handles for MIPS32 and MIPS64.
var (
	Registers32 = newRegisterSet(32)
	Registers64 = newRegisterSet(64)
)

// Registers returns the register set for isa.
func Registers(isa ISA) *RegisterSet {
	if isa == MIPS64 {
		return Registers64
	}
	return Registers32
}

const (
	zeroReg = 0
	spReg   = 29
	raReg   = 31
)
