package rewriter

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/colorfulnotion/lift/ir"
	"github.com/colorfulnotion/lift/lifterrors"
	"github.com/colorfulnotion/lift/machine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	opMove machine.Opcode = iota + 1
	opClear
	opBoom
	opFault
)

var opNames = map[machine.Opcode]string{
	machine.OpInvalid: "invalid",
	opMove:            "move",
	opClear:           "clear",
	opBoom:            "boom",
	opFault:           "fault",
}

type stubArch struct{}

func (stubArch) Name() string                             { return "stub" }
func (stubArch) Stages() []*machine.Tree                  { return nil }
func (stubArch) MinInstructionSize() int                  { return 4 }
func (stubArch) UnitSize() int                            { return 4 }
func (stubArch) ByteOrder() binary.ByteOrder              { return binary.BigEndian }
func (stubArch) Continuation() machine.ContinuationRule   { return machine.NoContinuation }
func (stubArch) OpcodeName(op machine.Opcode) string      { return opNames[op] }
func (stubArch) Opcodes() []machine.Opcode                { return []machine.Opcode{opMove, opClear, opBoom, opFault} }
func (stubArch) DecodeLeaf(*machine.Leaf, uint32, *machine.Continuation) (*machine.Instruction, error) {
	return nil, nil
}

var (
	rA = &machine.Register{Name: "a", Number: 1, Bits: 32}
	rB = &machine.Register{Name: "b", Number: 2, Bits: 32}
)

func stubTable() Table {
	return Table{
		opMove: func(c *Context) error {
			dst, err := c.Register(0)
			if err != nil {
				return err
			}
			src, err := c.Register(1)
			if err != nil {
				return err
			}
			c.M.Assign(c.Binder.EnsureRegister(dst), c.Binder.EnsureRegister(src))
			return nil
		},
		opClear: func(c *Context) error {
			dst, err := c.Register(0)
			if err != nil {
				return err
			}
			c.M.Assign(c.Binder.EnsureRegister(dst), c.M.Word32(0))
			return nil
		},
		opBoom: func(c *Context) error {
			var ops []machine.Operand
			_ = ops[3]
			return nil
		},
		opFault: func(c *Context) error {
			_, err := c.Immediate(0)
			return err
		},
	}
}

func instr(op machine.Opcode, operands ...machine.Operand) *machine.Instruction {
	i := machine.NewInstruction(op, machine.Linear, operands...)
	i.Mnemonic = opNames[op]
	i.Address = 0x400
	i.Length = 4
	return i
}

func TestNewCompleteness(t *testing.T) {
	table := stubTable()
	delete(table, opClear)
	delete(table, opBoom)
	_, err := New(stubArch{}, table)
	require.Error(t, err)
	assert.ErrorIs(t, err, lifterrors.ErrInternalConsistency)
	assert.Contains(t, err.Error(), "boom, clear")

	assert.Panics(t, func() { MustNew(stubArch{}, table) })

	rw, err := New(stubArch{}, stubTable())
	require.NoError(t, err)
	assert.Equal(t, "stub", rw.Architecture().Name())
}

func TestRewrite(t *testing.T) {
	rw := MustNew(stubArch{}, stubTable())
	frame := ir.NewFrame()

	cluster, err := rw.Rewrite(instr(opMove, machine.RegisterOperand{Reg: rA}, machine.RegisterOperand{Reg: rB}), frame)
	require.NoError(t, err)
	require.Len(t, cluster.Statements, 1)
	assert.Equal(t, "a = b", cluster.Statements[0].String())
	assert.Equal(t, 4, cluster.Length)

	bad := &machine.Instruction{Opcode: machine.OpInvalid, Class: machine.Invalid, Address: 0x404, Length: 4}
	cluster, err = rw.Rewrite(bad, frame)
	require.NoError(t, err)
	require.Len(t, cluster.Statements, 1)
	assert.IsType(t, &ir.InvalidStmt{}, cluster.Statements[0])
}

func TestRewriteFaults(t *testing.T) {
	rw := MustNew(stubArch{}, stubTable())
	frame := ir.NewFrame()

	_, err := rw.Rewrite(instr(opBoom), frame)
	require.Error(t, err)
	assert.ErrorIs(t, err, lifterrors.ErrUnexpectedRuntime)
	var ae *lifterrors.AddressError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, uint64(0x400), ae.Address)

	_, err = rw.Rewrite(instr(opFault, machine.RegisterOperand{Reg: rA}), frame)
	require.Error(t, err)
	assert.ErrorIs(t, err, lifterrors.ErrInternalConsistency)
	assert.Contains(t, err.Error(), "unexpected shape")
}

func TestRewriteAll(t *testing.T) {
	rw := MustNew(stubArch{}, stubTable())
	clusters, err := rw.RewriteAll([]*machine.Instruction{
		instr(opMove, machine.RegisterOperand{Reg: rA}, machine.RegisterOperand{Reg: rB}),
		instr(opClear, machine.RegisterOperand{Reg: rB}),
		instr(opBoom),
		instr(opClear, machine.RegisterOperand{Reg: rA}),
	})
	require.Error(t, err)
	require.Len(t, clusters, 2)
	assert.Equal(t, "b = 0x0", clusters[1].Statements[0].String())
}

func TestIdentities(t *testing.T) {
	m := ir.NewEmitter()
	f := ir.NewFrame()
	a := f.EnsureRegister(rA)
	b := f.EnsureRegister(rB)
	zero := m.Word32(0)
	ones := m.Word32(0xFFFFFFFF)

	assert.Same(t, a, AddIdentity(m, a, zero))
	assert.Same(t, a, AddIdentity(m, zero, a))
	assert.Equal(t, "a + b", AddIdentity(m, a, b).String())

	assert.Same(t, a, SubIdentity(m, a, zero))
	assert.Equal(t, "-a", SubIdentity(m, zero, a).String())
	assert.Equal(t, "a - b", SubIdentity(m, a, b).String())

	assert.True(t, ir.IsZero(AndIdentity(m, a, zero)))
	assert.True(t, ir.IsZero(AndIdentity(m, zero, a)))
	assert.Same(t, a, AndIdentity(m, a, ones))
	assert.Same(t, b, AndIdentity(m, ones, b))
	assert.Equal(t, "a & b", AndIdentity(m, a, b).String())

	assert.Same(t, b, OrIdentity(m, zero, b))
	assert.Same(t, a, XorIdentity(m, a, zero))
	assert.Equal(t, "~a", NorIdentity(m, a, zero).String())
	assert.Equal(t, "0xFFFFFFFF", NorIdentity(m, zero, zero).String())
	assert.Equal(t, "~(a | b)", NorIdentity(m, a, b).String())
}
