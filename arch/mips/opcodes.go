package mips

import (
	"strings"

	"github.com/colorfulnotion/lift/machine"
	"golang.org/x/exp/slices"
)

// MIPS opcodes. Zero is machine.OpInvalid.
const (
	ADD machine.Opcode = iota + 1
	ADDI
	ADDIU
	ADDU
	AND
	ANDI
	BEQ
	BEQL
	BGEZ
	BGEZAL
	BGEZL
	BGTZ
	BGTZL
	BLEZ
	BLEZL
	BLTZ
	BLTZAL
	BLTZL
	BNE
	BNEL
	BREAK
	CLZ
	DIV
	DIVU
	EXT
	INS
	J
	JAL
	JALR
	JR
	LB
	LBU
	LBUX
	LDC1
	LH
	LHU
	LHX
	LL
	LSA
	LUI
	LW
	LWL
	LWR
	LWX
	MFHI
	MFLO
	MOVF
	MOVN
	MOVT
	MOVZ
	MTHI
	MTLO
	MUL
	MULT
	MULTU
	NOP
	NOR
	OR
	ORI
	SB
	SC
	SDC1
	SEB
	SEH
	SH
	SLL
	SLLV
	SLT
	SLTI
	SLTIU
	SLTU
	SRA
	SRAV
	SRL
	SRLV
	SUB
	SUBU
	SW
	SWL
	SWR
	SYNC
	SYSCALL
	XOR
	XORI

	// 64-bit only
	DADD
	DADDI
	DADDIU
	DADDU
	DDIV
	DDIVU
	DMULT
	DMULTU
	DSLL
	DSLL32
	DSLLV
	DSRA
	DSRA32
	DSRAV
	DSRL
	DSRL32
	DSRLV
	DSUB
	DSUBU
	LD
	LDL
	LDR
	LLD
	LWU
	SCD
	SD
	SDL
	SDR

	// nanoMIPS
	ADDIUPC
	ALUIPC
	LWM
	LWXS
	MOVEP
	NOT
	RESTORE
	RESTOREJRC
	SAVE
	SWXS

	opcodeCount
)

var opcodeNames = [opcodeCount]string{
	machine.OpInvalid: "invalid",
	RESTOREJRC:        "restore.jrc",
}

// mnemonics lists the remaining names in declaration order, starting at ADD.
var mnemonics = strings.Fields(`
	add addi addiu addu and andi beq beql bgez bgezal bgezl bgtz bgtzl blez blezl
	bltz bltzal bltzl bne bnel break clz div divu ext ins j jal jalr jr lb lbu lbux
	ldc1 lh lhu lhx ll lsa lui lw lwl lwr lwx mfhi mflo movf movn movt movz mthi mtlo
	mul mult multu nop nor or ori sb sc sdc1 seb seh sh sll sllv slt slti sltiu sltu
	sra srav srl srlv sub subu sw swl swr sync syscall xor xori
	dadd daddi daddiu daddu ddiv ddivu dmult dmultu dsll dsll32 dsllv dsra dsra32
	dsrav dsrl dsrl32 dsrlv dsub dsubu ld ldl ldr lld lwu scd sd sdl sdr
	addiupc aluipc lwm lwxs movep not restore - save swxs`)

func init() {
	if len(mnemonics) != int(opcodeCount)-1 {
		panic("mips: mnemonic list out of step with opcodes")
	}
	for i, name := range mnemonics {
		op := machine.Opcode(i + 1)
		if opcodeNames[op] == "" {
			opcodeNames[op] = name
		}
	}
}

// OpcodeName returns the assembler mnemonic of op.
func OpcodeName(op machine.Opcode) string {
	if int(op) < len(opcodeNames) && opcodeNames[op] != "" {
		return opcodeNames[op]
	}
	return "invalid"
}

// ISA selects the register width and the opcodes the decoder may produce.
type ISA int

const (
	MIPS32 ISA = 32
	MIPS64 ISA = 64
)

// isaOpcodes enumerates every opcode with a lowering rule for isa. The
// nanoMIPS opcodes are included so their rules stay covered by the
// completeness check; the 32-bit encoding trees never produce them.
func isaOpcodes(isa ISA) []machine.Opcode {
	var ops []machine.Opcode
	for op := ADD; op < opcodeCount; op++ {
		if isa == MIPS32 && op >= DADD && op <= SDR {
			continue
		}
		ops = append(ops, op)
	}
	slices.Sort(ops)
	return ops
}

const (
	branch       = machine.ConditionalTransfer | machine.Delay
	branchLikely = branch | machine.Annul
	jump         = machine.Transfer | machine.Delay
	call         = machine.Transfer | machine.Call | machine.Delay
)

var classes = map[machine.Opcode]machine.InstrClass{
	BEQ:        branch,
	BNE:        branch,
	BGEZ:       branch,
	BGTZ:       branch,
	BLEZ:       branch,
	BLTZ:       branch,
	BEQL:       branchLikely,
	BNEL:       branchLikely,
	BGEZL:      branchLikely,
	BGTZL:      branchLikely,
	BLEZL:      branchLikely,
	BLTZL:      branchLikely,
	BGEZAL:     branch | machine.Call,
	BLTZAL:     branch | machine.Call,
	J:          jump,
	JR:         jump,
	JAL:        call,
	JALR:       call,
	RESTOREJRC: machine.Transfer | machine.Return,
}

func classOf(op machine.Opcode) machine.InstrClass {
	if c, ok := classes[op]; ok {
		return c
	}
	return machine.Linear
}
