package pic18

import (
	"github.com/colorfulnotion/lift/machine"
	"golang.org/x/exp/slices"
)

// PIC18 opcodes. Zero is machine.OpInvalid.
const (
	ADDLW machine.Opcode = iota + 1
	ADDWF
	ADDWFC
	ANDLW
	ANDWF
	BC
	BCF
	BN
	BNC
	BNN
	BNOV
	BNZ
	BOV
	BRA
	BSF
	BTFSC
	BTFSS
	BTG
	BZ
	CALL
	CLRF
	CLRWDT
	COMF
	CPFSEQ
	CPFSGT
	CPFSLT
	DAW
	DCFSNZ
	DECF
	DECFSZ
	GOTO
	INCF
	INCFSZ
	INFSNZ
	IORLW
	IORWF
	LFSR
	MOVF
	MOVFF
	MOVLB
	MOVLW
	MOVWF
	MULLW
	MULWF
	NEGF
	NOP
	POP
	PUSH
	RCALL
	RESET
	RETFIE
	RETLW
	RETURN
	RLCF
	RLNCF
	RRCF
	RRNCF
	SETF
	SLEEP
	SUBFWB
	SUBLW
	SUBWF
	SUBWFB
	SWAPF
	TBLRD
	TBLWT
	TSTFSZ
	XORLW
	XORWF

	// extended instruction set
	ADDFSR
	ADDULNK
	CALLW
	MOVSF
	MOVSS
	PUSHL
	SUBFSR
	SUBULNK

	// enhanced instruction set
	MOVFFL
	MOVSFL

	// data directives
	DE
	DB
	DA
	DW
	IDLOCS
	CONFIG

	opcodeCount
)

var opcodeNames = [opcodeCount]string{
	machine.OpInvalid: "invalid",
	ADDLW:             "ADDLW",
	ADDWF:             "ADDWF",
	ADDWFC:            "ADDWFC",
	ANDLW:             "ANDLW",
	ANDWF:             "ANDWF",
	BC:                "BC",
	BCF:               "BCF",
	BN:                "BN",
	BNC:               "BNC",
	BNN:               "BNN",
	BNOV:              "BNOV",
	BNZ:               "BNZ",
	BOV:               "BOV",
	BRA:               "BRA",
	BSF:               "BSF",
	BTFSC:             "BTFSC",
	BTFSS:             "BTFSS",
	BTG:               "BTG",
	BZ:                "BZ",
	CALL:              "CALL",
	CLRF:              "CLRF",
	CLRWDT:            "CLRWDT",
	COMF:              "COMF",
	CPFSEQ:            "CPFSEQ",
	CPFSGT:            "CPFSGT",
	CPFSLT:            "CPFSLT",
	DAW:               "DAW",
	DCFSNZ:            "DCFSNZ",
	DECF:              "DECF",
	DECFSZ:            "DECFSZ",
	GOTO:              "GOTO",
	INCF:              "INCF",
	INCFSZ:            "INCFSZ",
	INFSNZ:            "INFSNZ",
	IORLW:             "IORLW",
	IORWF:             "IORWF",
	LFSR:              "LFSR",
	MOVF:              "MOVF",
	MOVFF:             "MOVFF",
	MOVLB:             "MOVLB",
	MOVLW:             "MOVLW",
	MOVWF:             "MOVWF",
	MULLW:             "MULLW",
	MULWF:             "MULWF",
	NEGF:              "NEGF",
	NOP:               "NOP",
	POP:               "POP",
	PUSH:              "PUSH",
	RCALL:             "RCALL",
	RESET:             "RESET",
	RETFIE:            "RETFIE",
	RETLW:             "RETLW",
	RETURN:            "RETURN",
	RLCF:              "RLCF",
	RLNCF:             "RLNCF",
	RRCF:              "RRCF",
	RRNCF:             "RRNCF",
	SETF:              "SETF",
	SLEEP:             "SLEEP",
	SUBFWB:            "SUBFWB",
	SUBLW:             "SUBLW",
	SUBWF:             "SUBWF",
	SUBWFB:            "SUBWFB",
	SWAPF:             "SWAPF",
	TBLRD:             "TBLRD",
	TBLWT:             "TBLWT",
	TSTFSZ:            "TSTFSZ",
	XORLW:             "XORLW",
	XORWF:             "XORWF",
	ADDFSR:            "ADDFSR",
	ADDULNK:           "ADDULNK",
	CALLW:             "CALLW",
	MOVSF:             "MOVSF",
	MOVSS:             "MOVSS",
	PUSHL:             "PUSHL",
	SUBFSR:            "SUBFSR",
	SUBULNK:           "SUBULNK",
	MOVFFL:            "MOVFFL",
	MOVSFL:            "MOVSFL",
	DE:                "DE",
	DB:                "DB",
	DA:                "DA",
	DW:                "DW",
	IDLOCS:            "__IDLOCS",
	CONFIG:            "CONFIG",
}

// OpcodeName returns the assembler mnemonic of op.
func OpcodeName(op machine.Opcode) string {
	if int(op) < len(opcodeNames) && opcodeNames[op] != "" {
		return opcodeNames[op]
	}
	return "invalid"
}

var (
	extendedOnly = []machine.Opcode{ADDFSR, ADDULNK, CALLW, MOVSF, MOVSS, PUSHL, SUBFSR, SUBULNK}
	enhancedOnly = []machine.Opcode{MOVFFL, MOVSFL}
	directives   = []machine.Opcode{DE, DB, DA, DW, IDLOCS, CONFIG}
)

// familyOpcodes enumerates the opcodes a family can produce, data
// directives included.
func familyOpcodes(f Family) []machine.Opcode {
	var ops []machine.Opcode
	for op := ADDLW; op <= XORWF; op++ {
		ops = append(ops, op)
	}
	if f >= Extended {
		ops = append(ops, extendedOnly...)
	}
	if f == Enhanced {
		ops = append(ops, enhancedOnly...)
	}
	ops = append(ops, directives...)
	slices.Sort(ops)
	return ops
}

// classes holds the control flow class of every opcode that is not Linear.
var classes = map[machine.Opcode]machine.InstrClass{
	BC:      machine.ConditionalTransfer,
	BN:      machine.ConditionalTransfer,
	BNC:     machine.ConditionalTransfer,
	BNN:     machine.ConditionalTransfer,
	BNOV:    machine.ConditionalTransfer,
	BNZ:     machine.ConditionalTransfer,
	BOV:     machine.ConditionalTransfer,
	BZ:      machine.ConditionalTransfer,
	BTFSC:   machine.ConditionalTransfer,
	BTFSS:   machine.ConditionalTransfer,
	CPFSEQ:  machine.ConditionalTransfer,
	CPFSGT:  machine.ConditionalTransfer,
	CPFSLT:  machine.ConditionalTransfer,
	DCFSNZ:  machine.ConditionalTransfer,
	DECFSZ:  machine.ConditionalTransfer,
	INCFSZ:  machine.ConditionalTransfer,
	INFSNZ:  machine.ConditionalTransfer,
	TSTFSZ:  machine.ConditionalTransfer,
	BRA:     machine.Transfer,
	GOTO:    machine.Transfer,
	RESET:   machine.Transfer,
	CALL:    machine.Transfer | machine.Call,
	RCALL:   machine.Transfer | machine.Call,
	CALLW:   machine.Transfer | machine.Call,
	RETURN:  machine.Transfer | machine.Return,
	RETFIE:  machine.Transfer | machine.Return,
	RETLW:   machine.Transfer | machine.Return,
	ADDULNK: machine.Transfer | machine.Return,
	SUBULNK: machine.Transfer | machine.Return,
}

func classOf(op machine.Opcode) machine.InstrClass {
	if c, ok := classes[op]; ok {
		return c
	}
	return machine.Linear
}
