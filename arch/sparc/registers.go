package sparc

import (
	"fmt"

	"github.com/colorfulnotion/lift/ir"
	"github.com/colorfulnotion/lift/machine"
)

var windowNames = [4]string{"g", "o", "l", "i"}

func registerName(n int) string {
	switch n {
	case 14:
		return "sp"
	case 30:
		return "fp"
	}
	return fmt.Sprintf("%s%d", windowNames[n/8], n%8)
}

// Registers are the 32 integer registers of the current window: %g0-%g7,
// %o0-%o7, %l0-%l7 and %i0-%i7. %o6 is named sp and %i6 fp.
var Registers = machine.NewRegisterFile(32, 32, registerName)

var (
	Y   = &machine.Register{Name: "y", Number: 32, Bits: 32}
	PSR = &machine.Register{Name: "psr", Number: 33, Bits: 32}
)

const (
	g0 = 0
	o7 = 15
	i7 = 31
)

// OutRegisters and InRegisters overlap across a window rotation.
var (
	OutRegisters = Registers[8:16]
	InRegisters  = Registers[24:32]
)

// Integer condition code bits of the PSR.
const (
	flagC = 1 << 20
	flagV = 1 << 21
	flagZ = 1 << 22
	flagN = 1 << 23
)

var (
	N    = &machine.FlagGroup{Name: "N", Reg: PSR, Mask: flagN}
	Z    = &machine.FlagGroup{Name: "Z", Reg: PSR, Mask: flagZ}
	V    = &machine.FlagGroup{Name: "V", Reg: PSR, Mask: flagV}
	C    = &machine.FlagGroup{Name: "C", Reg: PSR, Mask: flagC}
	NZVC = &machine.FlagGroup{Name: "NZVC", Reg: PSR, Mask: flagN | flagZ | flagV | flagC}
	NV   = &machine.FlagGroup{Name: "NV", Reg: PSR, Mask: flagN | flagV}
	NZV  = &machine.FlagGroup{Name: "NZV", Reg: PSR, Mask: flagN | flagZ | flagV}
	CZ   = &machine.FlagGroup{Name: "CZ", Reg: PSR, Mask: flagC | flagZ}
)

// condition is one value of the 4-bit cond field shared by Bicc and Ticc.
type condition struct {
	branch machine.Opcode
	trap   machine.Opcode
	cc     ir.ConditionCode
	flags  *machine.FlagGroup
}

var conditions = [16]condition{
	{BN, TN, ir.CcNEVER, nil},
	{BE, TE, ir.CcEQ, Z},
	{BLE, TLE, ir.CcLE, NZV},
	{BL, TL, ir.CcLT, NV},
	{BLEU, TLEU, ir.CcULE, CZ},
	{BCS, TCS, ir.CcULT, C},
	{BNEG, TNEG, ir.CcSG, N},
	{BVS, TVS, ir.CcOV, V},
	{BA, TA, ir.CcALWAYS, nil},
	{BNE, TNE, ir.CcNE, Z},
	{BG, TG, ir.CcGT, NZV},
	{BGE, TGE, ir.CcGE, NV},
	{BGU, TGU, ir.CcUGT, CZ},
	{BCC, TCC, ir.CcUGE, C},
	{BPOS, TPOS, ir.CcNS, N},
	{BVC, TVC, ir.CcNO, V},
}
