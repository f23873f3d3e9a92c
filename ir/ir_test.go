package ir

import (
	"encoding/json"
	"testing"

	"github.com/colorfulnotion/lift/common"
	"github.com/colorfulnotion/lift/machine"
	"github.com/nsf/jsondiff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	r1   = &machine.Register{Name: "r1", Number: 1, Bits: 32}
	r2   = &machine.Register{Name: "r2", Number: 2, Bits: 32}
	hi   = &machine.Register{Name: "hi", Number: 33, Bits: 32}
	lo   = &machine.Register{Name: "lo", Number: 34, Bits: 32}
	zFlg = &machine.FlagGroup{Name: "Z", Mask: 0x4}
	nzvc = &machine.FlagGroup{Name: "NZVC", Mask: 0xF}
)

func TestFrameIdentity(t *testing.T) {
	f := NewFrame()
	a := f.EnsureRegister(r1)
	assert.Same(t, a, f.EnsureRegister(r1))
	assert.Equal(t, Word32, a.Type())

	assert.Equal(t, Bool, f.EnsureFlagGroup(zFlg).Type())
	assert.Equal(t, Byte, f.EnsureFlagGroup(nzvc).Type())

	seq := f.EnsureSequence(Word64, hi, lo)
	assert.Equal(t, "hi_lo", seq.Name)
	assert.Same(t, seq, f.EnsureSequence(Word64, hi, lo))
	ss, ok := seq.Storage.(SequenceStorage)
	require.True(t, ok)
	assert.Equal(t, []*machine.Register{hi, lo}, ss.Elements)

	t1 := f.CreateTemporary(Byte)
	t2 := f.CreateTemporary(Word32)
	assert.Equal(t, "v1", t1.Name)
	assert.Equal(t, "v2", t2.Name)
	assert.Len(t, f.Temporaries(), 2)
}

func TestEmitterFolding(t *testing.T) {
	m := NewEmitter()
	assert.Equal(t, "0xFFFFFFFF", m.Comp(m.Word32(0)).String())
	assert.Equal(t, "0xFFFFFFFC", m.Neg(m.Word32(4)).String())
	assert.Equal(t, "-0x60", m.Int32(-96).String())
	assert.Equal(t, uint64(0xFFFFFFA0), m.Int32(-96).Value)
	assert.Equal(t, "0xFF", m.Cast(Byte, m.Word32(0x1FF)).String())
	assert.Equal(t, uint64(0xFFFFFFFFFFFFFFFF), m.Cast(Word64, m.Int32(-1)).(*Constant).Value)

	f := NewFrame()
	a := f.EnsureRegister(r1)
	assert.Same(t, a, m.Cast(Word32, a))
	assert.Equal(t, "(int64) r1", m.Cast(Int64, a).String())
	assert.Equal(t, "r1 - 0x4", m.AddS(a, -4).String())
	assert.Equal(t, "r1 + 0x4", m.SubS(a, -4).String())
	assert.Equal(t, "~(r1 | r2)", m.Comp(m.Or(a, f.EnsureRegister(r2))).String())
	assert.True(t, IsZero(m.Word32(0)))
	assert.True(t, IsAllOnes(m.Const(Byte, 0xFF)))
	assert.False(t, IsZero(a))
}

func TestInvert(t *testing.T) {
	m := NewEmitter()
	f := NewFrame()
	a := f.EnsureRegister(r1)
	b := f.EnsureRegister(r2)

	assert.Equal(t, "r1 != r2", m.Invert(m.Eq(a, b)).String())
	assert.Equal(t, "r1 >=u r2", m.Invert(m.Ult(a, b)).String())
	assert.Equal(t, "Test(NE,Z)", m.Invert(m.Test(CcEQ, f.EnsureFlagGroup(zFlg))).String())
	z := f.EnsureFlagGroup(zFlg)
	assert.Same(t, z, m.Invert(m.Not(z)))
	assert.Equal(t, "!Z", m.Invert(z).String())
	assert.Equal(t, "false", m.Invert(m.True()).String())
	for cc := CcEQ; cc <= CcNEVER; cc++ {
		assert.Equal(t, cc, cc.Invert().Invert())
		assert.NotEqual(t, cc, cc.Invert())
	}
}

func TestClusterJSON(t *testing.T) {
	m := NewEmitter()
	f := NewFrame()
	a := f.EnsureRegister(r1)
	m.BranchInMiddleOfInstruction(m.Eq(f.EnsureRegister(r2), m.Word32(0)), 0x104, machine.ConditionalTransfer)
	m.Assign(a, m.Fn(&Intrinsic{Name: "__clz", ReturnType: Int32}, f.EnsureRegister(r2)))
	m.Assign(f.EnsureSequence(Word64, hi, lo), m.SMul(Int64, a, f.EnsureRegister(r2)))
	m.Return(0, 0)

	c := &Cluster{Address: 0x100, Length: 4, Class: machine.Linear, Statements: m.Statements()}
	got, err := json.Marshal(c)
	require.NoError(t, err)

	want := `{
		"address": "0x000100",
		"length": 4,
		"class": "Linear",
		"statements": [
			{"kind": "branch", "text": "if (r2 == 0x0) branch 0x000104", "in_middle": true},
			{"kind": "assign", "text": "r1 = __clz(r2)"},
			{"kind": "assign", "text": "hi_lo = r1 *s r2"},
			{"kind": "return", "text": "return (0,0)"}
		]
	}`
	opts := jsondiff.DefaultConsoleOptions()
	diff, report := jsondiff.Compare(got, []byte(want), &opts)
	assert.Equal(t, jsondiff.FullMatch, diff, report)

	assert.Equal(t, common.Address(0x100), c.Address)
	assert.Contains(t, c.String(), "hi_lo = r1 *s r2")
	m.Reset()
	assert.Empty(t, m.Statements())
}

func TestTypes(t *testing.T) {
	assert.Equal(t, "word32", Word32.String())
	assert.Equal(t, "byte", Byte.String())
	assert.Equal(t, "int8", Int8.String())
	assert.Equal(t, "uint16", UInt16.String())
	assert.Equal(t, 3, Word24.Size())
	assert.Equal(t, uint64(0xFFFF), Word16.Mask())
	assert.Equal(t, ^uint64(0), Word64.Mask())
	assert.True(t, Int(32).IsSigned())
}
