package pic18

import "github.com/colorfulnotion/lift/machine"

// Core registers. Byte-wide special function registers that the lowering
// names directly get their own handle; everything else in data memory is
// reached through memory accesses.
var (
	WREG    = &machine.Register{Name: "WREG", Number: 0, Bits: 8}
	STATUS  = &machine.Register{Name: "STATUS", Number: 1, Bits: 8}
	BSR     = &machine.Register{Name: "BSR", Number: 2, Bits: 8}
	FSR0    = &machine.Register{Name: "FSR0", Number: 3, Bits: 16}
	FSR1    = &machine.Register{Name: "FSR1", Number: 4, Bits: 16}
	FSR2    = &machine.Register{Name: "FSR2", Number: 5, Bits: 16}
	PRODH   = &machine.Register{Name: "PRODH", Number: 6, Bits: 8}
	PRODL   = &machine.Register{Name: "PRODL", Number: 7, Bits: 8}
	TBLPTR  = &machine.Register{Name: "TBLPTR", Number: 8, Bits: 24}
	TABLAT  = &machine.Register{Name: "TABLAT", Number: 9, Bits: 8}
	PCLATH  = &machine.Register{Name: "PCLATH", Number: 10, Bits: 8}
	PCLATU  = &machine.Register{Name: "PCLATU", Number: 11, Bits: 8}
	WS      = &machine.Register{Name: "WS", Number: 12, Bits: 8}
	STATUSS = &machine.Register{Name: "STATUS_CSHAD", Number: 13, Bits: 8}
	BSRS    = &machine.Register{Name: "BSR_CSHAD", Number: 14, Bits: 8}
)

// Registers lists every register handle of the family.
var Registers = machine.RegisterFile{WREG, STATUS, BSR, FSR0, FSR1, FSR2, PRODH, PRODL, TBLPTR, TABLAT, PCLATH, PCLATU, WS, STATUSS, BSRS}

// STATUS bits.
const (
	flagC  = 1 << 0
	flagDC = 1 << 1
	flagZ  = 1 << 2
	flagOV = 1 << 3
	flagN  = 1 << 4
)

var (
	C       = &machine.FlagGroup{Name: "C", Reg: STATUS, Mask: flagC}
	DC      = &machine.FlagGroup{Name: "DC", Reg: STATUS, Mask: flagDC}
	Z       = &machine.FlagGroup{Name: "Z", Reg: STATUS, Mask: flagZ}
	OV      = &machine.FlagGroup{Name: "OV", Reg: STATUS, Mask: flagOV}
	N       = &machine.FlagGroup{Name: "N", Reg: STATUS, Mask: flagN}
	CDCZOVN = &machine.FlagGroup{Name: "CDCZOVN", Reg: STATUS, Mask: flagC | flagDC | flagZ | flagOV | flagN}
	CZN     = &machine.FlagGroup{Name: "CZN", Reg: STATUS, Mask: flagC | flagZ | flagN}
	ZN      = &machine.FlagGroup{Name: "ZN", Reg: STATUS, Mask: flagZ | flagN}
)

// fsr returns indirect register n, nil for n > 2.
func fsr(n uint8) *machine.Register {
	switch n {
	case 0:
		return FSR0
	case 1:
		return FSR1
	case 2:
		return FSR2
	}
	return nil
}

// sfrByLow maps the low byte of a special function register address to the
// register it names. The high part of the address is the family's SFR page.
var sfrByLow = map[uint8]*machine.Register{
	0xD8: STATUS,
	0xE0: BSR,
	0xE8: WREG,
	0xF3: PRODL,
	0xF4: PRODH,
	0xF5: TABLAT,
	0xFA: PCLATH,
	0xFB: PCLATU,
}
