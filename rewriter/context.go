package rewriter

import (
	"github.com/colorfulnotion/lift/common"
	"github.com/colorfulnotion/lift/ir"
	"github.com/colorfulnotion/lift/lifterrors"
	"github.com/colorfulnotion/lift/machine"
)

// Context is what a rule sees: the instruction, the statement sink and the
// storage binder.
type Context struct {
	Instr  *machine.Instruction
	M      ir.Builder
	Binder ir.Binder
	Arch   machine.Architecture
}

// UnexpectedOperand reports operand n having a shape its opcode never
// produces.
func (c *Context) UnexpectedOperand(n int) error {
	return lifterrors.Internalf("%s: operand %d has unexpected shape %T", c.Instr.Mnemonic, n, c.Instr.Op(n))
}

// Register returns operand n as a register.
func (c *Context) Register(n int) (*machine.Register, error) {
	op, ok := c.Instr.Op(n).(machine.RegisterOperand)
	if !ok {
		return nil, c.UnexpectedOperand(n)
	}
	return op.Reg, nil
}

// Immediate returns operand n as a RISC immediate.
func (c *Context) Immediate(n int) (machine.Immediate, error) {
	op, ok := c.Instr.Op(n).(machine.Immediate)
	if !ok {
		return machine.Immediate{}, c.UnexpectedOperand(n)
	}
	return op, nil
}

// Target returns the code address of a relative or absolute target operand.
func (c *Context) Target(n int) (common.Address, error) {
	switch op := c.Instr.Op(n).(type) {
	case machine.RelativeTarget:
		return op.Target(), nil
	case machine.AbsoluteTarget:
		return op.Addr, nil
	}
	return 0, c.UnexpectedOperand(n)
}

// Next is the address of the following instruction.
func (c *Context) Next() common.Address {
	return c.Instr.End()
}

// CodeAddress is addr as a pointer constant, for transfer targets.
func (c *Context) CodeAddress(addr common.Address) ir.Expression {
	return c.M.Const(ir.Ptr32, uint64(addr))
}

// Intrinsic calls name returning t.
func (c *Context) Intrinsic(name string, t ir.PrimitiveType, args ...ir.Expression) *ir.Application {
	return c.M.Fn(&ir.Intrinsic{Name: name, ReturnType: t}, args...)
}
