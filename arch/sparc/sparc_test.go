package sparc

import (
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

var arch = NewArchitecture()

// Register numbers used by the encoders below.
const (
	rG0 = 0
	rO0 = 8
	rO1 = 9
	rO2 = 10
	rO3 = 11
	rSP = 14
	rO7 = 15
	rL0 = 16
	rI7 = 31
)

func f3(op, rd, op3, rs1 uint32, imm bool, low uint32) uint32 {
	w := op<<30 | rd<<25 | op3<<19 | rs1<<14 | low&0x1FFF
	if imm {
		w |= 1 << 13
	}
	return w
}

func alur(op3, rs1, rs2, rd uint32) uint32 { return f3(2, rd, op3, rs1, false, rs2) }

func alui(op3, rs1 uint32, imm int32, rd uint32) uint32 {
	return f3(2, rd, op3, rs1, true, uint32(imm))
}

func memi(op3, rs1 uint32, imm int32, rd uint32) uint32 {
	return f3(3, rd, op3, rs1, true, uint32(imm))
}

func memr(op3, rs1, rs2, rd uint32) uint32 { return f3(3, rd, op3, rs1, false, rs2) }

func bicc(cond uint32, annul bool, disp int32) uint32 {
	w := cond<<25 | 2<<22 | uint32(disp)&0x3FFFFF
	if annul {
		w |= 1 << 29
	}
	return w
}

func decode(t *testing.T, w uint32) *machine.Instruction {
	t.Helper()
	r := machine.NewReaderFor(arch, common.Words32(arch.ByteOrder(), w), 0x1000)
	instr, err := machine.NewDecoder(arch).DecodeOne(r)
	require.NoError(t, err)
	return instr
}

func render(t *testing.T, instr *machine.Instruction) []string {
	t.Helper()
	cluster, err := NewRewriter(arch).Rewrite(instr, ir.NewFrame())
	require.NoError(t, err, instr.Dump())
	out := make([]string, len(cluster.Statements))
	for i, s := range cluster.Statements {
		out[i] = s.String()
	}
	return out
}

func lower(t *testing.T, w uint32) []string {
	t.Helper()
	instr := decode(t, w)
	require.True(t, instr.IsValid(), "word 0x%08X: %v", w, instr.Err)
	return render(t, instr)
}

func TestSaveWithoutDestination(t *testing.T) {
	instr := decode(t, alui(0x3C, rSP, -96, rG0))
	require.Equal(t, SAVE, instr.Opcode)
	assert.Equal(t, []string{
		"i0 = o0",
		"i1 = o1",
		"i2 = o2",
		"i3 = o3",
		"i4 = o4",
		"i5 = o5",
		"fp = sp",
		"i7 = o7",
	}, render(t, instr))
}

func TestWindowRotation(t *testing.T) {
	frame := ir.NewFrame()
	cluster, err := NewRewriter(arch).Rewrite(decode(t, alui(0x3C, rSP, -96, rSP)), frame)
	require.NoError(t, err)
	require.Len(t, cluster.Statements, 10)
	assert.Equal(t, "v1 = sp - 0x60", cluster.Statements[0].String())
	assert.Equal(t, "fp = sp", cluster.Statements[7].String())
	assert.Equal(t, "sp = v1", cluster.Statements[9].String())
	assert.Len(t, frame.Temporaries(), 1)

	// restore %g0,%g0,%g0 only rotates
	out := lower(t, alur(0x3D, rG0, rG0, rG0))
	require.Len(t, out, 8)
	assert.Equal(t, "o0 = i0", out[0])
	assert.Equal(t, "sp = fp", out[6])

	out = lower(t, alui(0x3D, rO0, 1, rO0))
	require.Len(t, out, 10)
	assert.Equal(t, "v1 = o0 + 0x1", out[0])
	assert.Equal(t, "o0 = v1", out[9])
}

func TestConditionCodes(t *testing.T) {
	// cmp %o0,%o1
	assert.Equal(t, []string{"NZVC = cond(o0 - o1)"}, lower(t, alur(0x14, rO0, rO1, rG0)))
	assert.Equal(t, []string{"o0 = o0 + 0x1", "NZVC = cond(o0)"}, lower(t, alui(0x10, rO0, 1, rO0)))
	assert.Equal(t, []string{"o2 = o0 & o1", "NZVC = cond(o2)"}, lower(t, alur(0x11, rO0, rO1, rO2)))
	assert.Equal(t, []string{"o2 = (o0 + o1) + C", "NZVC = cond(o2)"}, lower(t, alur(0x18, rO0, rO1, rO2)))
	assert.Equal(t, []string{"o2 = (o0 - o1) - C"}, lower(t, alur(0x0C, rO0, rO1, rO2)))
	assert.Equal(t, []string{"o2 = __mulscc(o0, o1)", "NZVC = cond(o2)"}, lower(t, alur(0x24, rO0, rO1, rO2)))
}

func TestZeroIdentities(t *testing.T) {
	tests := []struct {
		name string
		word uint32
		want string
	}{
		{"mov imm", alui(0x02, rG0, 5, rO0), "o0 = 0x5"},
		{"clr", alur(0x02, rG0, rG0, rO0), "o0 = 0x0"},
		{"add g0", alur(0x00, rO0, rG0, rO1), "o1 = o0"},
		{"neg", alur(0x04, rG0, rO0, rO1), "o1 = -o0"},
		{"dec", alui(0x00, rO0, -1, rO0), "o0 = o0 - 0x1"},
		{"sub imm", alui(0x04, rO0, -8, rO0), "o0 = o0 + 0x8"},
		{"andn", alur(0x05, rO0, rO1, rO2), "o2 = o0 & ~o1"},
		{"orn", alur(0x06, rO0, rO1, rO2), "o2 = o0 | ~o1"},
		{"xnor", alur(0x07, rO0, rO1, rO2), "o2 = o0 ^ ~o1"},
		{"sll", alui(0x25, rO0, 2, rO1), "o1 = o0 << 0x2"},
		{"sra reg", alur(0x27, rO0, rO1, rO2), "o2 = o0 >> o1"},
		{"srl", alui(0x26, rO0, 31, rO1), "o1 = o0 >>u 0x1F"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, []string{tc.want}, lower(t, tc.word))
		})
	}

	// plain writes to %g0 have no effect
	assert.Equal(t, []string{"nop"}, lower(t, alur(0x00, rO0, rO1, rG0)))
}

func TestMultiplyDivide(t *testing.T) {
	frame := ir.NewFrame()
	cluster, err := NewRewriter(arch).Rewrite(decode(t, alur(0x0A, rO0, rO1, rO2)), frame)
	require.NoError(t, err)
	require.Len(t, cluster.Statements, 1)
	assign := cluster.Statements[0].(*ir.Assign)
	assert.Equal(t, "y_o2 = o0 *u o1", assign.String())
	seq, ok := assign.Dst.(*ir.Identifier).Storage.(ir.SequenceStorage)
	require.True(t, ok)
	assert.Equal(t, []*machine.Register{Y, Registers[rO2]}, seq.Elements)

	assert.Equal(t, []string{"y = SLICE(o0 *s o1, word32, 32)"}, lower(t, alur(0x0B, rO0, rO1, rG0)))
	assert.Equal(t, []string{"y_o2 = o0 *s o1", "NZVC = cond(o2)"}, lower(t, alur(0x1B, rO0, rO1, rO2)))
	assert.Equal(t, []string{"o2 = (word32) (SEQ(y, o0) /u o1)"}, lower(t, alur(0x0E, rO0, rO1, rO2)))
	assert.Equal(t, []string{"o2 = (word32) (SEQ(y, o0) / o1)"}, lower(t, alur(0x0F, rO0, rO1, rO2)))

	// rd %y,%o0 and wr %o0,%g0,%y
	assert.Equal(t, []string{"o0 = y"}, lower(t, f3(2, rO0, 0x28, 0, false, 0)))
	assert.Equal(t, []string{"y = o0"}, lower(t, alur(0x30, rO0, rG0, 0)))
}

func TestSethiAndNop(t *testing.T) {
	instr := decode(t, nopWord)
	assert.Equal(t, NOP, instr.Opcode)
	assert.Equal(t, "nop", instr.Mnemonic)
	assert.Equal(t, []string{"nop"}, render(t, instr))

	// sethi %hi(0x12345400),%o0
	assert.Equal(t, []string{"o0 = 0x12345400"}, lower(t, rO0<<25|4<<22|0x12345400>>10))
	assert.Equal(t, []string{"nop"}, lower(t, 4<<22|1))
}

func TestBranches(t *testing.T) {
	be := decode(t, bicc(1, false, 2))
	assert.Equal(t, BE, be.Opcode)
	assert.Equal(t, machine.ConditionalTransfer|machine.Delay, be.Class)
	assert.Equal(t, []string{"if (Test(EQ,Z)) branch 0x001008"}, render(t, be))

	bne := decode(t, bicc(9, true, -4))
	assert.Equal(t, BNE, bne.Opcode)
	assert.True(t, bne.Class.Has(machine.Annul))
	assert.Equal(t, []string{"if (Test(NE,Z)) branch 0x000FF0"}, render(t, bne))

	assert.Equal(t, []string{"if (Test(GT,NZV)) branch 0x001008"}, lower(t, bicc(10, false, 2)))
	assert.Equal(t, []string{"if (Test(ULE,CZ)) branch 0x001008"}, lower(t, bicc(4, false, 2)))
	assert.Equal(t, []string{"if (Test(NS,N)) branch 0x001008"}, lower(t, bicc(14, false, 2)))
	assert.Equal(t, []string{"goto 0x1008"}, lower(t, bicc(8, false, 2)))
	assert.Equal(t, []string{"nop"}, lower(t, bicc(0, false, 2)))
}

func TestCallsAndReturns(t *testing.T) {
	call := decode(t, 1<<30|0x10)
	assert.Equal(t, CALL, call.Opcode)
	assert.True(t, call.Class.Has(machine.Call|machine.Delay))
	assert.Equal(t, []string{"call 0x1040 (0)"}, render(t, call))

	for _, rs1 := range []uint32{rI7, rO7} {
		ret := decode(t, alui(0x38, rs1, 8, rG0))
		assert.True(t, ret.Class.Has(machine.Return), ret.String())
		assert.Equal(t, []string{"return (0,0)"}, render(t, ret))
	}

	indirect := decode(t, alui(0x38, rO0, 0, rO7))
	assert.True(t, indirect.Class.Has(machine.Call))
	assert.Equal(t, []string{"call o0 (0)"}, render(t, indirect))

	assert.Equal(t, []string{"goto o0"}, lower(t, alur(0x38, rO0, rG0, rG0)))
	assert.Equal(t, []string{"l0 = 0x1000", "goto o0 + 0x4"}, lower(t, alui(0x38, rO0, 4, rL0)))
	assert.Equal(t, []string{"return (0,0)"}, lower(t, alui(0x39, rI7, 8, 0)))
}

func TestTraps(t *testing.T) {
	ta := decode(t, alui(0x3A, rG0, 5, 8))
	assert.Equal(t, TA, ta.Opcode)
	assert.Equal(t, []string{"__trap(0x5)"}, render(t, ta))

	assert.Equal(t, []string{
		"if (Test(NE,Z)) branch 0x001004",
		"__trap(0x3)",
	}, lower(t, alui(0x3A, rG0, 3, 1)))
	assert.Equal(t, []string{"nop"}, lower(t, alui(0x3A, rG0, 3, 0)))
	assert.Equal(t, []string{"__flush(o0 + 0x8)"}, lower(t, f3(2, 0, 0x3B, rO0, true, 8)))
}

func TestLoadsAndStores(t *testing.T) {
	tests := []struct {
		name string
		word uint32
		want []string
	}{
		{"ld", memi(0x00, rO0, 4, rO1), []string{"o1 = Mem[o0 + 0x4:word32]"}},
		{"ld absolute", memi(0x00, rG0, 0x20, rO1), []string{"o1 = Mem[0x20:word32]"}},
		{"ldub", memi(0x01, rO0, 0, rO1), []string{"o1 = (uint32) Mem[o0:uint8]"}},
		{"ldsh indexed", memr(0x0A, rO0, rO1, rO2), []string{"o2 = (int32) Mem[o0 + o1:int16]"}},
		{"st", memi(0x04, rSP, 64, rO1), []string{"Mem[sp + 0x40:word32] = o1"}},
		{"stb g0", memi(0x05, rO0, 0, rG0), []string{"Mem[o0:byte] = 0x0"}},
		{"sth", memi(0x06, rO0, -2, rO1), []string{"Mem[o0 - 0x2:word16] = (word16) o1"}},
		{"ldd", memi(0x03, rO0, 0, rO2), []string{"o2_o3 = Mem[o0:word64]"}},
		{"std", memi(0x07, rO0, 8, rO2), []string{"Mem[o0 + 0x8:word64] = o2_o3"}},
		{"ldstub", memi(0x0D, rO0, 0, rO1), []string{"v1 = __ldstub(&Mem[o0:byte])", "o1 = (uint32) v1"}},
		{"swap", memi(0x0F, rO0, 0, rO1), []string{"v1 = Mem[o0:word32]", "Mem[o0:word32] = o1", "o1 = v1"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, lower(t, tc.word))
		})
	}
}

func TestOddRegisterPair(t *testing.T) {
	for _, op3 := range []uint32{0x03, 0x07} {
		instr := decode(t, memi(op3, rO0, 0, rO3))
		assert.False(t, instr.IsValid())
		assert.Equal(t, 4, instr.Length)
		assert.ErrorIs(t, instr.Err, lifterrors.ErrMalformedEncoding)
	}
}

func TestUnrecognized(t *testing.T) {
	// op=2, op3=0x09 is unassigned in V8
	instr := decode(t, alur(0x09, rO0, rO1, rO2))
	assert.False(t, instr.IsValid())
	assert.Equal(t, "invalid", instr.Mnemonic)
	assert.Equal(t, []string{"<invalid>"}, render(t, instr))
}

func TestRuleCompleteness(t *testing.T) {
	assert.NotPanics(t, func() { NewRewriter(arch) })
	assert.Len(t, arch.Opcodes(), int(opcodeCount)-1)

	partial := rewriter.Table{}
	for op, r := range rules {
		if op != SWAP && op != TVC {
			partial[op] = r
		}
	}
	_, err := rewriter.New(arch, partial)
	require.Error(t, err)
	assert.ErrorIs(t, err, lifterrors.ErrInternalConsistency)
	assert.Contains(t, err.Error(), "swap, tvc")
}

func TestRandomWords(t *testing.T) {
	rng := rand.New(rand.NewSource(0x5eed))
	d := machine.NewDecoder(arch)
	rw := NewRewriter(arch)
	for i := 0; i < 20000; i++ {
		w := rng.Uint32()
		r := machine.NewReaderFor(arch, common.Words32(arch.ByteOrder(), w), 0x1000)
		instr, err := d.DecodeOne(r)
		require.NoError(t, err, "0x%08X", w)
		require.Equal(t, 4, instr.Length, "0x%08X", w)
		cluster, err := rw.Rewrite(instr, ir.NewFrame())
		require.NoError(t, err, instr.Dump())
		require.NotEmpty(t, cluster.Statements)
	}
}
