package mips

import (
	"encoding/binary"
	"math/rand"
	"testing"

	"github.com/colorfulnotion/lift/common"
	"github.com/colorfulnotion/lift/ir"
	"github.com/colorfulnotion/lift/lifterrors"
	"github.com/colorfulnotion/lift/machine"
	"github.com/colorfulnotion/lift/rewriter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	be32 = NewArchitecture(MIPS32, binary.BigEndian)
	be64 = NewArchitecture(MIPS64, binary.BigEndian)
)

func rtype(funct, rs, rt, rd, sa uint32) uint32 {
	return rs<<21 | rt<<16 | rd<<11 | sa<<6 | funct
}

func itype(op, rs, rt uint32, imm int16) uint32 {
	return op<<26 | rs<<21 | rt<<16 | uint32(uint16(imm))
}

func decodeAt(t *testing.T, a *Architecture, base common.Address, w uint32) *machine.Instruction {
	t.Helper()
	r := machine.NewReaderFor(a, common.Words32(a.ByteOrder(), w), base)
	instr, err := machine.NewDecoder(a).DecodeOne(r)
	require.NoError(t, err)
	return instr
}

func render(t *testing.T, a *Architecture, instr *machine.Instruction) []string {
	t.Helper()
	cluster, err := NewRewriter(a).Rewrite(instr, ir.NewFrame())
	require.NoError(t, err, instr.Dump())
	out := make([]string, len(cluster.Statements))
	for i, s := range cluster.Statements {
		out[i] = s.String()
	}
	return out
}

func lower(t *testing.T, a *Architecture, w uint32) []string {
	t.Helper()
	instr := decodeAt(t, a, 0x1000, w)
	require.True(t, instr.IsValid(), "word 0x%08X: %v", w, instr.Err)
	return render(t, a, instr)
}

func TestNop(t *testing.T) {
	instr := decodeAt(t, be32, 0x1000, 0)
	assert.Equal(t, NOP, instr.Opcode)
	assert.Equal(t, "nop", instr.Mnemonic)
	assert.Equal(t, 4, instr.Length)
	assert.Equal(t, []string{"nop"}, render(t, be32, instr))

	// sll with a nonzero field is a real shift
	assert.Equal(t, []string{"r2 = r3 << 0x4"}, lower(t, be32, rtype(0x00, 0, 3, 2, 4)))
}

func TestSubuZeroRegister(t *testing.T) {
	w := rtype(0x23, 3, 0, 2, 0)
	assert.Equal(t, uint32(0x00601023), w)
	instr := decodeAt(t, be32, 0x1000, w)
	assert.Equal(t, "subu r2,r3,r0", instr.String())
	assert.Equal(t, []string{"r2 = r3"}, render(t, be32, instr))
}

func TestMultHiLo(t *testing.T) {
	instr := decodeAt(t, be32, 0x1000, rtype(0x18, 4, 5, 0, 0))
	require.Equal(t, MULT, instr.Opcode)

	cluster, err := NewRewriter(be32).Rewrite(instr, ir.NewFrame())
	require.NoError(t, err)
	require.Len(t, cluster.Statements, 1)
	assign := cluster.Statements[0].(*ir.Assign)
	assert.Equal(t, "hi_lo = r4 *s r5", assign.String())
	seq, ok := assign.Dst.(*ir.Identifier).Storage.(ir.SequenceStorage)
	require.True(t, ok)
	assert.Equal(t, []*machine.Register{Registers32.HI, Registers32.LO}, seq.Elements)
	assert.Equal(t, ir.Int64, assign.Dst.Type())

	assert.Equal(t, []string{"hi_lo = r4 *u r5"}, lower(t, be32, rtype(0x19, 4, 5, 0, 0)))
	assert.Equal(t, []string{"lo = r4 / r5", "hi = r4 %s r5"}, lower(t, be32, rtype(0x1A, 4, 5, 0, 0)))
	assert.Equal(t, []string{"lo = r4 /u r5", "hi = r4 %u r5"}, lower(t, be32, rtype(0x1B, 4, 5, 0, 0)))
	assert.Equal(t, []string{"r2 = r4 *s r5"}, lower(t, be32, 0x1C<<26|rtype(0x02, 4, 5, 2, 0)))
}

func TestZeroIdentities(t *testing.T) {
	tests := []struct {
		name string
		word uint32
		want string
	}{
		{"add x+0", rtype(0x21, 3, 0, 2, 0), "r2 = r3"},
		{"add 0+x", rtype(0x21, 0, 3, 2, 0), "r2 = r3"},
		{"add", rtype(0x21, 3, 4, 2, 0), "r2 = r3 + r4"},
		{"sub 0-x", rtype(0x23, 0, 3, 2, 0), "r2 = -r3"},
		{"and x&0", rtype(0x24, 3, 0, 2, 0), "r2 = 0x0"},
		{"and 0&x", rtype(0x24, 0, 3, 2, 0), "r2 = 0x0"},
		{"or x|0", rtype(0x25, 0, 3, 2, 0), "r2 = r3"},
		{"xor x^0", rtype(0x26, 3, 0, 2, 0), "r2 = r3"},
		{"nor x|0", rtype(0x27, 3, 0, 2, 0), "r2 = ~r3"},
		{"nor 0|0", rtype(0x27, 0, 0, 2, 0), "r2 = 0xFFFFFFFF"},
		{"nor", rtype(0x27, 3, 4, 2, 0), "r2 = ~(r3 | r4)"},
		{"andi 0", itype(0x0C, 3, 2, 0), "r2 = 0x0"},
		{"andi all ones", itype(0x0C, 3, 2, -1), "r2 = r3 & 0xFFFF"},
		{"ori li", itype(0x0D, 0, 2, 0x1234), "r2 = 0x1234"},
		{"addiu li", itype(0x09, 0, 2, -1), "r2 = -0x1"},
		{"addiu move", itype(0x09, 3, 2, 0), "r2 = r3"},
		{"addiu sp", itype(0x09, 29, 29, -16), "sp = sp - 0x10"},
		{"addiu", itype(0x09, 4, 2, 8), "r2 = r4 + 0x8"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, []string{tc.want}, lower(t, be32, tc.word))
		})
	}
}

func TestCompareAndShift(t *testing.T) {
	tests := []struct {
		name string
		word uint32
		want string
	}{
		{"slt", rtype(0x2A, 3, 4, 2, 0), "r2 = (word32) (r3 < r4)"},
		{"sltu", rtype(0x2B, 3, 4, 2, 0), "r2 = (word32) (r3 <u r4)"},
		{"slti", itype(0x0A, 3, 2, -5), "r2 = (word32) (r3 < -0x5)"},
		{"sltiu", itype(0x0B, 3, 2, -1), "r2 = (word32) (r3 <u 0xFFFFFFFF)"},
		{"lui", itype(0x0F, 0, 2, 0x1234), "r2 = 0x12340000"},
		{"srl", rtype(0x02, 0, 3, 2, 1), "r2 = r3 >>u 0x1"},
		{"sra", rtype(0x03, 0, 3, 2, 31), "r2 = r3 >> 0x1F"},
		{"sllv", rtype(0x04, 5, 3, 2, 0), "r2 = r3 << r5"},
		{"srav", rtype(0x07, 5, 3, 2, 0), "r2 = r3 >> r5"},
		{"lsa", rtype(0x05, 3, 4, 2, 1), "r2 = r4 + (r3 << 0x2)"},
		{"mfhi", rtype(0x10, 0, 0, 2, 0), "r2 = hi"},
		{"mtlo", rtype(0x13, 3, 0, 0, 0), "lo = r3"},
		{"clz", 0x1C<<26 | rtype(0x20, 3, 2, 2, 0), "r2 = __clz(r3)"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, []string{tc.want}, lower(t, be32, tc.word))
		})
	}
}

func TestConditionalMove(t *testing.T) {
	instr := decodeAt(t, be32, 0x1000, rtype(0x0B, 3, 4, 2, 0))
	require.Equal(t, MOVN, instr.Opcode)
	cluster, err := NewRewriter(be32).Rewrite(instr, ir.NewFrame())
	require.NoError(t, err)
	require.Len(t, cluster.Statements, 2)
	b := cluster.Statements[0].(*ir.Branch)
	assert.True(t, b.InMiddle)
	assert.Equal(t, machine.ConditionalTransfer, b.Class)
	assert.Equal(t, "if (r4 == 0x0) branch 0x001004", b.String())
	assert.Equal(t, "r2 = r3", cluster.Statements[1].String())

	assert.Equal(t, []string{"if (r4 != 0x0) branch 0x001004", "r2 = r3"}, lower(t, be32, rtype(0x0A, 3, 4, 2, 0)))

	// movt r2,r3,fcc1 and movf r2,r3,fcc1
	assert.Equal(t, []string{"if (!fcc1) branch 0x001004", "r2 = r3"}, lower(t, be32, rtype(0x01, 3, 1<<2|1, 2, 0)))
	assert.Equal(t, []string{"if (fcc1) branch 0x001004", "r2 = r3"}, lower(t, be32, rtype(0x01, 3, 1<<2, 2, 0)))
}

func TestLoadsAndStores(t *testing.T) {
	tests := []struct {
		name string
		word uint32
		want string
	}{
		{"lb", itype(0x20, 3, 2, 4), "r2 = (int32) Mem[r3 + 0x4:int8]"},
		{"lbu", itype(0x24, 3, 2, 4), "r2 = (uint32) Mem[r3 + 0x4:uint8]"},
		{"lh", itype(0x21, 3, 2, 2), "r2 = (int32) Mem[r3 + 0x2:int16]"},
		{"lhu", itype(0x25, 3, 2, 0), "r2 = (uint32) Mem[r3:uint16]"},
		{"lw", itype(0x23, 29, 2, -8), "r2 = Mem[sp - 0x8:word32]"},
		{"lw absolute", itype(0x23, 0, 2, 0x10), "r2 = Mem[0x10:word32]"},
		{"sb zero", itype(0x28, 4, 0, 0), "Mem[r4:byte] = 0x0"},
		{"sh", itype(0x29, 4, 5, 2), "Mem[r4 + 0x2:word16] = (word16) r5"},
		{"sw", itype(0x2B, 29, 31, 28), "Mem[sp + 0x1C:word32] = ra"},
		{"lwl", itype(0x22, 4, 2, 3), "r2 = __lwl(r2, Mem[r4 + 0x3:word32])"},
		{"swr", itype(0x2E, 4, 2, 0), "Mem[r4:word32] = __swr(Mem[r4:word32], r2)"},
		{"ll", itype(0x30, 4, 2, 0), "r2 = __load_linked_32(Mem[r4:word32])"},
		{"sc", itype(0x38, 4, 2, 0), "r2 = __store_conditional_32(Mem[r4:word32], r2)"},
		{"ldc1", itype(0x35, 4, 2, 8), "f2 = Mem[r4 + 0x8:real64]"},
		{"sdc1", itype(0x3D, 4, 2, 8), "Mem[r4 + 0x8:real64] = f2"},
		{"lwx", 0x1F<<26 | rtype(0x0A, 4, 5, 2, 0x00), "r2 = Mem[r4 + r5:word32]"},
		{"lbux", 0x1F<<26 | rtype(0x0A, 4, 5, 2, 0x06), "r2 = (uint32) Mem[r4 + r5:uint8]"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, []string{tc.want}, lower(t, be32, tc.word))
		})
	}
}

func TestSignExtendAndBitFields(t *testing.T) {
	frame := ir.NewFrame()
	instr := decodeAt(t, be32, 0x1000, 0x1F<<26|rtype(0x20, 0, 3, 2, 0x10))
	require.Equal(t, SEB, instr.Opcode)
	cluster, err := NewRewriter(be32).Rewrite(instr, frame)
	require.NoError(t, err)
	assert.Equal(t, "v1 = SLICE(r3, byte, 0)\nr2 = (int32) v1", cluster.String())
	assert.Len(t, frame.Temporaries(), 1)

	// ext r2,r3,4,8: msbd=7 in the rd field, pos in sa
	assert.Equal(t, []string{"r2 = __ext(r3, 0x4, 0x8)"}, lower(t, be32, 0x1F<<26|rtype(0x00, 3, 2, 7, 4)))
	// ins r2,r3,4,8: msb=11
	assert.Equal(t, []string{"r2 = __ins(r2, r3, 0x4, 0x8)"}, lower(t, be32, 0x1F<<26|rtype(0x04, 3, 2, 11, 4)))

	bad := decodeAt(t, be32, 0x1000, 0x1F<<26|rtype(0x04, 3, 2, 1, 4))
	assert.False(t, bad.IsValid())
	assert.ErrorIs(t, bad.Err, lifterrors.ErrMalformedEncoding)
	assert.Equal(t, 4, bad.Length)
}

func TestTransfers(t *testing.T) {
	tests := []struct {
		name  string
		word  uint32
		class machine.InstrClass
		want  []string
	}{
		{"beq", itype(0x04, 3, 4, 3), branch, []string{"if (r3 == r4) branch 0x001010"}},
		{"b", itype(0x04, 0, 0, -1), branch, []string{"goto 0x1000"}},
		{"bnel", itype(0x15, 3, 0, 2), branchLikely, []string{"if (r3 != 0x0) branch 0x00100C"}},
		{"blez", itype(0x06, 3, 0, 2), branch, []string{"if (r3 <= 0x0) branch 0x00100C"}},
		{"bgtz", itype(0x07, 3, 0, 2), branch, []string{"if (r3 > 0x0) branch 0x00100C"}},
		{"bltz", itype(0x01, 3, 0, 2), branch, []string{"if (r3 < 0x0) branch 0x00100C"}},
		{"bgez", itype(0x01, 3, 1, 2), branch, []string{"if (r3 >= 0x0) branch 0x00100C"}},
		{"bltzal", itype(0x01, 3, 0x10, 2), branch | machine.Call, []string{"if (r3 >= 0x0) branch 0x001004", "call 0x100C (0)"}},
		{"bal", itype(0x01, 0, 0x11, 2), branch | machine.Call, []string{"call 0x100C (0)"}},
		{"j", 0x02<<26 | 0x100000, jump, []string{"goto 0x400000"}},
		{"jal", 0x03<<26 | 0x100000, call, []string{"call 0x400000 (0)"}},
		{"jr ra", rtype(0x08, 31, 0, 0, 0), jump | machine.Return, []string{"return (0,0)"}},
		{"jr", rtype(0x08, 25, 0, 0, 0), jump, []string{"goto r25"}},
		{"jalr", rtype(0x09, 25, 0, 31, 0), call, []string{"call r25 (0)"}},
		{"syscall", rtype(0x0C, 0, 0, 0, 0), machine.Linear, []string{"__syscall(0x0)"}},
		{"break", 7<<16 | rtype(0x0D, 0, 0, 0, 0), machine.Linear, []string{"__break(0x1C00)"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			instr := decodeAt(t, be32, 0x1000, tc.word)
			require.True(t, instr.IsValid(), "%v", instr.Err)
			assert.Equal(t, tc.class, instr.Class)
			assert.Equal(t, tc.want, render(t, be32, instr))
		})
	}
}

func TestDoublewordStage(t *testing.T) {
	dsll32 := rtype(0x3C, 0, 3, 2, 4)
	ld := itype(0x37, 29, 2, 16)

	for _, w := range []uint32{dsll32, ld, itype(0x19, 3, 2, 1)} {
		instr := decodeAt(t, be32, 0x1000, w)
		assert.False(t, instr.IsValid(), "0x%08X decodes on MIPS32 as %s", w, instr)
	}

	assert.Equal(t, []string{"r2 = r3 << 0x24"}, lower(t, be64, dsll32))
	assert.Equal(t, []string{"r2 = Mem[sp + 0x10:word64]"}, lower(t, be64, ld))
	assert.Equal(t, []string{"r2 = r3 >> r5"}, lower(t, be64, rtype(0x17, 5, 3, 2, 0)))
	assert.Equal(t, []string{"r2 = r3 >>u r5"}, lower(t, be64, rtype(0x16, 5, 3, 2, 0)))
	assert.Equal(t, []string{"r2 = (int64) Mem[r3:int32]"}, lower(t, be64, itype(0x23, 3, 2, 0)))
	assert.Equal(t, []string{"r2 = (uint64) Mem[r3:uint32]"}, lower(t, be64, itype(0x27, 3, 2, 0)))
	assert.Equal(t, []string{"Mem[r3:word32] = (word32) r2"}, lower(t, be64, itype(0x2B, 3, 2, 0)))
	assert.Equal(t, []string{"r2 = __ldl(r3, 0x8)"}, lower(t, be64, itype(0x1A, 3, 2, 8)))
	assert.Equal(t, []string{"__sdr(r3, 0x8, r2)"}, lower(t, be64, itype(0x2D, 3, 2, 8)))

	instr := decodeAt(t, be64, 0x1000, rtype(0x1C, 4, 5, 0, 0))
	cluster, err := NewRewriter(be64).Rewrite(instr, ir.NewFrame())
	require.NoError(t, err)
	require.Len(t, cluster.Statements, 1)
	assign := cluster.Statements[0].(*ir.Assign)
	assert.Equal(t, "hi_lo = r4 *s r5", assign.String())
	assert.Equal(t, ir.Int(128), assign.Dst.Type())

	// base encodings still decode through the second stage
	assert.Equal(t, []string{"r2 = r3"}, lower(t, be64, rtype(0x23, 3, 0, 2, 0)))
}

func TestByteOrder(t *testing.T) {
	le := NewArchitecture(MIPS32, binary.LittleEndian)
	assert.Equal(t, "mips-le-32", le.Name())
	assert.Equal(t, "mips-be-64", be64.Name())
	image := []byte{0x23, 0x10, 0x60, 0x00}
	instrs, err := machine.Decode(le, image, 0x400)
	require.NoError(t, err)
	require.Len(t, instrs, 1)
	assert.Equal(t, SUBU, instrs[0].Opcode)
	assert.Equal(t, common.Address(0x400), instrs[0].Address)
}

func handBuilt(op machine.Opcode, ops ...machine.Operand) *machine.Instruction {
	instr := machine.NewInstruction(op, classOf(op), ops...)
	instr.Mnemonic = OpcodeName(op)
	instr.Address = 0x2000
	instr.Length = 4
	return instr
}

func TestCompactForms(t *testing.T) {
	gpr := Registers32.GPR
	reg := func(n int) machine.RegisterOperand { return machine.RegisterOperand{Reg: gpr[n]} }
	imm := func(v int64) machine.Immediate { return machine.Immediate{Value: v} }

	tests := []struct {
		name  string
		instr *machine.Instruction
		want  []string
	}{
		{"save", handBuilt(SAVE, imm(32), reg(30), imm(3)), []string{
			"Mem[sp - 0x4:word32] = fp",
			"Mem[sp - 0x8:word32] = ra",
			"Mem[sp - 0xC:word32] = r16",
			"sp = sp - 0x20",
		}},
		{"restore.jrc", handBuilt(RESTOREJRC, imm(32), reg(31), imm(2)), []string{
			"ra = Mem[sp + 0x1C:word32]",
			"r16 = Mem[sp + 0x18:word32]",
			"sp = sp + 0x20",
			"return (0,0)",
		}},
		{"restore", handBuilt(RESTORE, imm(16), reg(16), imm(1)), []string{
			"r16 = Mem[sp + 0xC:word32]",
			"sp = sp + 0x10",
		}},
		{"movep", handBuilt(MOVEP, reg(4), reg(5), reg(6), reg(7)), []string{"r4_r5 = r6_r7"}},
		{"movep zero", handBuilt(MOVEP, reg(4), reg(5), reg(0), reg(6)), []string{"r4_r5 = SEQ(0x0, r6)"}},
		{"lwm", handBuilt(LWM, reg(16), machine.Indirect{Base: gpr[29], Offset: 8}, imm(2)), []string{
			"r16 = Mem[sp + 0x8:word32]",
			"r17 = Mem[sp + 0xC:word32]",
		}},
		{"lwxs", handBuilt(LWXS, reg(2), machine.Indexed{Base: gpr[4], Index: gpr[3]}), []string{"r2 = Mem[r4 + (r3 * 0x4):word32]"}},
		{"swxs", handBuilt(SWXS, reg(2), machine.Indexed{Base: gpr[4], Index: gpr[3]}), []string{"Mem[r4 + (r3 * 0x4):word32] = r2"}},
		{"addiupc", handBuilt(ADDIUPC, reg(2), imm(0x100)), []string{"r2 = 0x2104"}},
		{"aluipc", handBuilt(ALUIPC, reg(2), imm(0x5000)), []string{"r2 = 0x5000"}},
		{"not", handBuilt(NOT, reg(2), reg(3)), []string{"r2 = ~r3"}},
		{"not zero", handBuilt(NOT, reg(2), reg(0)), []string{"r2 = 0xFFFFFFFF"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, render(t, be32, tc.instr))
		})
	}
}

func TestRuleCompleteness(t *testing.T) {
	assert.NotPanics(t, func() { NewRewriter(be32) })
	assert.NotPanics(t, func() { NewRewriter(be64) })
	assert.Len(t, be32.Opcodes(), int(opcodeCount)-1-int(SDR-DADD+1))
	assert.Len(t, be64.Opcodes(), int(opcodeCount)-1)

	partial := rewriter.Table{}
	for op, r := range rules {
		if op != NOP && op != DSLL32 {
			partial[op] = r
		}
	}
	_, err := rewriter.New(be64, partial)
	require.Error(t, err)
	assert.ErrorIs(t, err, lifterrors.ErrInternalConsistency)
	assert.Contains(t, err.Error(), "dsll32, nop")
}

func TestRandomWords(t *testing.T) {
	rng := rand.New(rand.NewSource(0x5eed))
	for _, a := range []*Architecture{be32, be64} {
		d := machine.NewDecoder(a)
		rw := NewRewriter(a)
		for i := 0; i < 20000; i++ {
			w := rng.Uint32()
			r := machine.NewReaderFor(a, common.Words32(a.ByteOrder(), w), 0x1000)
			instr, err := d.DecodeOne(r)
			require.NoError(t, err, "0x%08X", w)
			require.Equal(t, 4, instr.Length, "0x%08X", w)
			require.Equal(t, 4, r.Offset())
			cluster, err := rw.Rewrite(instr, ir.NewFrame())
			require.NoError(t, err, instr.Dump())
			require.NotEmpty(t, cluster.Statements)
		}
	}
}
