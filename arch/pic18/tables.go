package pic18

import "github.com/colorfulnotion/lift/machine"

// Operand layouts of PIC18 leaves.
const (
	shapeNone machine.Shape = iota
	shapeExact
	shapeMemA
	shapeMemDA
	shapeMemBit
	shapeImm8
	shapeShadow
	shapeRel8
	shapeRel11
	shapeTbl
	shapeMovff
	shapeGoto
	shapeCall
	shapeMovlb4
	shapeMovlb6
	shapeLfsr12
	shapeLfsr14
	shapeFSRImm6
	shapeImm6
	shapeMovsf
	shapeMovss
	shapeMovffl
	shapeMovsfl
)

type slots = map[uint32]machine.Node

func leaf(op machine.Opcode, shape machine.Shape) *machine.Leaf {
	return machine.NewLeaf(op, shape, 0)
}

func memDA(op machine.Opcode) *machine.Leaf  { return leaf(op, shapeMemDA) }
func memA(op machine.Opcode) *machine.Leaf   { return leaf(op, shapeMemA) }
func imm8(op machine.Opcode) *machine.Leaf   { return leaf(op, shapeImm8) }
func memBit(op machine.Opcode) *machine.Leaf { return leaf(op, shapeMemBit) }

// baseTable decodes the opcodes shared by every PIC18 family. Slots owned by
// a family stage defer; the family stage runs first, so a deferred slot is
// reached here only when the family does not claim it.
func baseTable() machine.Node {
	bad := machine.Unrecognized()
	def := machine.Defer()
	tbl := func(op machine.Opcode) *machine.Leaf { return leaf(op, shapeTbl) }
	shadow := func(op machine.Opcode) *machine.Leaf { return leaf(op, shapeShadow) }

	row00 := machine.NewDispatch(4, 4,
		machine.NewDispatch(0, 4, // 0000 0000 0000 xxxx
			leaf(NOP, shapeNone), bad, def, leaf(SLEEP, shapeNone),
			leaf(CLRWDT, shapeNone), leaf(PUSH, shapeNone), leaf(POP, shapeNone), leaf(DAW, shapeNone),
			tbl(TBLRD), tbl(TBLRD), tbl(TBLRD), tbl(TBLRD),
			tbl(TBLWT), tbl(TBLWT), tbl(TBLWT), tbl(TBLWT),
		),
		machine.NewSparseDispatch(0, 4, bad, slots{ // 0000 0000 0001 xxxx
			0x0: shadow(RETFIE), 0x1: shadow(RETFIE),
			0x2: shadow(RETURN), 0x3: shadow(RETURN),
			0x4: def,
		}),
		bad, bad, bad, bad,
		def, // 0000 0000 0110 xxxx
		bad, bad, bad, bad, bad, bad, bad, bad,
		machine.NewLeaf(RESET, shapeExact, 0x00FF),
	)

	return machine.NewDispatch(12, 4,
		machine.NewDispatch(8, 4, // 0000
			row00,
			def, // 0000 0001
			memA(MULWF), memA(MULWF),
			memDA(DECF), memDA(DECF), memDA(DECF), memDA(DECF),
			imm8(SUBLW), imm8(IORLW), imm8(XORLW), imm8(ANDLW),
			imm8(RETLW), imm8(MULLW), imm8(MOVLW), imm8(ADDLW),
		),
		machine.NewDispatch(10, 2, memDA(IORWF), memDA(ANDWF), memDA(XORWF), memDA(COMF)),
		machine.NewDispatch(10, 2, memDA(ADDWFC), memDA(ADDWF), memDA(INCF), memDA(DECFSZ)),
		machine.NewDispatch(10, 2, memDA(RRCF), memDA(RLCF), memDA(SWAPF), memDA(INCFSZ)),
		machine.NewDispatch(10, 2, memDA(RRNCF), memDA(RLNCF), memDA(INFSNZ), memDA(DCFSNZ)),
		machine.NewDispatch(10, 2, memDA(MOVF), memDA(SUBFWB), memDA(SUBWFB), memDA(SUBWF)),
		machine.NewDispatch(9, 3,
			memA(CPFSLT), memA(CPFSEQ), memA(CPFSGT), memA(TSTFSZ),
			memA(SETF), memA(CLRF), memA(NEGF), memA(MOVWF),
		),
		memBit(BTG),
		memBit(BSF),
		memBit(BCF),
		memBit(BTFSS),
		memBit(BTFSC),
		leaf(MOVFF, shapeMovff),
		machine.NewDispatch(11, 1, leaf(BRA, shapeRel11), leaf(RCALL, shapeRel11)),
		machine.NewDispatch(11, 1,
			machine.NewDispatch(8, 3,
				leaf(BZ, shapeRel8), leaf(BNZ, shapeRel8), leaf(BC, shapeRel8), leaf(BNC, shapeRel8),
				leaf(BOV, shapeRel8), leaf(BNOV, shapeRel8), leaf(BN, shapeRel8), leaf(BNN, shapeRel8),
			),
			machine.NewDispatch(8, 3,
				def, def, def, def,
				leaf(CALL, shapeCall), leaf(CALL, shapeCall),
				def,
				leaf(GOTO, shapeGoto),
			),
		),
		leaf(NOP, shapeNone), // 1111 xxxx xxxx xxxx
	)
}

// familyTable decodes the patterns a family owns and defers the rest.
func familyTable(f Family) machine.Node {
	def := machine.Defer()
	bad := machine.Unrecognized()

	if f == Legacy {
		return machine.NewSparseDispatch(12, 4, def, slots{
			0x0: machine.NewSparseDispatch(8, 4, def, slots{
				0x1: leaf(MOVLB, shapeMovlb4),
			}),
			0xE: machine.NewSparseDispatch(8, 4, def, slots{
				0x8: bad, 0x9: bad, 0xA: bad, 0xB: bad,
				0xE: leaf(LFSR, shapeLfsr12),
			}),
		})
	}

	row000 := slots{
		0x1: machine.NewSparseDispatch(0, 4, def, slots{0x4: leaf(CALLW, shapeNone)}),
	}
	movlb, lfsr := leaf(MOVLB, shapeMovlb4), leaf(LFSR, shapeLfsr12)
	if f == Enhanced {
		row000[0x0] = machine.NewSparseDispatch(0, 4, def, slots{0x2: leaf(MOVSFL, shapeMovsfl)})
		row000[0x6] = leaf(MOVFFL, shapeMovffl)
		movlb, lfsr = leaf(MOVLB, shapeMovlb6), leaf(LFSR, shapeLfsr14)
	}
	fsrArith := func(op, ulnk machine.Opcode) *machine.Dispatch {
		return machine.NewDispatch(6, 2,
			leaf(op, shapeFSRImm6), leaf(op, shapeFSRImm6), leaf(op, shapeFSRImm6),
			leaf(ulnk, shapeImm6),
		)
	}
	return machine.NewSparseDispatch(12, 4, def, slots{
		0x0: machine.NewSparseDispatch(8, 4, def, slots{
			0x0: machine.NewSparseDispatch(4, 4, def, row000),
			0x1: movlb,
		}),
		0xE: machine.NewSparseDispatch(8, 4, def, slots{
			0x8: fsrArith(ADDFSR, ADDULNK),
			0x9: fsrArith(SUBFSR, SUBULNK),
			0xA: imm8(PUSHL),
			0xB: machine.NewDispatch(7, 1, leaf(MOVSF, shapeMovsf), leaf(MOVSS, shapeMovss)),
			0xE: lfsr,
		}),
	})
}

var (
	baseTree    = machine.MustTree("pic18/base", baseTable())
	familyTrees = map[Family]*machine.Tree{
		Legacy:   machine.MustTree("pic18/legacy", familyTable(Legacy)),
		Extended: machine.MustTree("pic18/extended", familyTable(Extended)),
		Enhanced: machine.MustTree("pic18/enhanced", familyTable(Enhanced)),
	}
)
