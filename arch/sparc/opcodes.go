package sparc

import (
	"github.com/colorfulnotion/lift/machine"
)

// SPARC V8 opcodes. Zero is machine.OpInvalid. The branch and trap opcodes
// are laid out in condition field order.
const (
	BN machine.Opcode = iota + 1
	BE
	BLE
	BL
	BLEU
	BCS
	BNEG
	BVS
	BA
	BNE
	BG
	BGE
	BGU
	BCC
	BPOS
	BVC

	TN
	TE
	TLE
	TL
	TLEU
	TCS
	TNEG
	TVS
	TA
	TNE
	TG
	TGE
	TGU
	TCC
	TPOS
	TVC

	ADD
	ADDCC
	ADDX
	ADDXCC
	AND
	ANDCC
	ANDN
	ANDNCC
	CALL
	FLUSH
	JMPL
	LD
	LDD
	LDSB
	LDSH
	LDSTUB
	LDUB
	LDUH
	MULSCC
	NOP
	OR
	ORCC
	ORN
	ORNCC
	RDY
	RESTORE
	RETT
	SAVE
	SDIV
	SDIVCC
	SETHI
	SLL
	SMUL
	SMULCC
	SRA
	SRL
	ST
	STB
	STD
	STH
	SUB
	SUBCC
	SUBX
	SUBXCC
	SWAP
	UDIV
	UDIVCC
	UMUL
	UMULCC
	WRY
	XNOR
	XNORCC
	XOR
	XORCC

	opcodeCount
)

var opcodeNames = [opcodeCount]string{
	machine.OpInvalid: "invalid",

	BN: "bn", BE: "be", BLE: "ble", BL: "bl", BLEU: "bleu", BCS: "bcs", BNEG: "bneg", BVS: "bvs",
	BA: "ba", BNE: "bne", BG: "bg", BGE: "bge", BGU: "bgu", BCC: "bcc", BPOS: "bpos", BVC: "bvc",

	TN: "tn", TE: "te", TLE: "tle", TL: "tl", TLEU: "tleu", TCS: "tcs", TNEG: "tneg", TVS: "tvs",
	TA: "ta", TNE: "tne", TG: "tg", TGE: "tge", TGU: "tgu", TCC: "tcc", TPOS: "tpos", TVC: "tvc",

	ADD:     "add",
	ADDCC:   "addcc",
	ADDX:    "addx",
	ADDXCC:  "addxcc",
	AND:     "and",
	ANDCC:   "andcc",
	ANDN:    "andn",
	ANDNCC:  "andncc",
	CALL:    "call",
	FLUSH:   "flush",
	JMPL:    "jmpl",
	LD:      "ld",
	LDD:     "ldd",
	LDSB:    "ldsb",
	LDSH:    "ldsh",
	LDSTUB:  "ldstub",
	LDUB:    "ldub",
	LDUH:    "lduh",
	MULSCC:  "mulscc",
	NOP:     "nop",
	OR:      "or",
	ORCC:    "orcc",
	ORN:     "orn",
	ORNCC:   "orncc",
	RDY:     "rd",
	RESTORE: "restore",
	RETT:    "rett",
	SAVE:    "save",
	SDIV:    "sdiv",
	SDIVCC:  "sdivcc",
	SETHI:   "sethi",
	SLL:     "sll",
	SMUL:    "smul",
	SMULCC:  "smulcc",
	SRA:     "sra",
	SRL:     "srl",
	ST:      "st",
	STB:     "stb",
	STD:     "std",
	STH:     "sth",
	SUB:     "sub",
	SUBCC:   "subcc",
	SUBX:    "subx",
	SUBXCC:  "subxcc",
	SWAP:    "swap",
	UDIV:    "udiv",
	UDIVCC:  "udivcc",
	UMUL:    "umul",
	UMULCC:  "umulcc",
	WRY:     "wr",
	XNOR:    "xnor",
	XNORCC:  "xnorcc",
	XOR:     "xor",
	XORCC:   "xorcc",
}

// OpcodeName returns the assembler mnemonic of op.
func OpcodeName(op machine.Opcode) string {
	if int(op) < len(opcodeNames) && opcodeNames[op] != "" {
		return opcodeNames[op]
	}
	return "invalid"
}

func allOpcodes() []machine.Opcode {
	ops := make([]machine.Opcode, 0, opcodeCount-1)
	for op := BN; op < opcodeCount; op++ {
		ops = append(ops, op)
	}
	return ops
}

func classOf(op machine.Opcode) machine.InstrClass {
	switch {
	case op == BA:
		return machine.Transfer | machine.Delay
	case op >= BN && op <= BVC:
		return machine.ConditionalTransfer | machine.Delay
	case op == TA:
		return machine.Transfer
	case op >= TN && op <= TVC:
		return machine.ConditionalTransfer
	}
	switch op {
	case CALL:
		return machine.Transfer | machine.Call | machine.Delay
	case JMPL:
		return machine.Transfer | machine.Delay
	case RETT:
		return machine.Transfer | machine.Return | machine.Delay
	}
	return machine.Linear
}
