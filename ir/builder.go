package ir

import (
	"github.com/colorfulnotion/lift/common"
	"github.com/colorfulnotion/lift/machine"
)

// ExpressionBuilder constructs IR expressions.
type ExpressionBuilder interface {
	Const(t PrimitiveType, v uint64) *Constant
	Int32(v int64) *Constant
	Word32(v uint64) *Constant
	True() *Constant

	Add(a, b Expression) Expression
	AddS(a Expression, n int64) Expression
	Sub(a, b Expression) Expression
	SubS(a Expression, n int64) Expression
	Mul(a, b Expression) Expression
	SMul(t PrimitiveType, a, b Expression) Expression
	UMul(t PrimitiveType, a, b Expression) Expression
	SDiv(a, b Expression) Expression
	UDiv(a, b Expression) Expression
	SMod(a, b Expression) Expression
	UMod(a, b Expression) Expression
	And(a, b Expression) Expression
	Or(a, b Expression) Expression
	Xor(a, b Expression) Expression
	Shl(a, b Expression) Expression
	Shr(a, b Expression) Expression
	Sar(a, b Expression) Expression
	Bin(op Operator, t PrimitiveType, a, b Expression) Expression

	Eq(a, b Expression) Expression
	Ne(a, b Expression) Expression
	Lt(a, b Expression) Expression
	Le(a, b Expression) Expression
	Gt(a, b Expression) Expression
	Ge(a, b Expression) Expression
	Ult(a, b Expression) Expression
	Ule(a, b Expression) Expression
	Ugt(a, b Expression) Expression
	Uge(a, b Expression) Expression

	Neg(a Expression) Expression
	Comp(a Expression) Expression
	Not(a Expression) Expression
	Invert(cond Expression) Expression
	AddrOf(e Expression) Expression

	Cast(t PrimitiveType, e Expression) Expression
	Slice(t PrimitiveType, e Expression, offset int) Expression
	Mem(t PrimitiveType, ea Expression) *MemoryAccess
	Seq(t PrimitiveType, parts ...Expression) Expression
	Fn(intrinsic *Intrinsic, args ...Expression) *Application
	Cond(e Expression) Expression
	Test(cc ConditionCode, e Expression) Expression
}

// Builder is an ExpressionBuilder that also collects statements.
type Builder interface {
	ExpressionBuilder

	Assign(dst, src Expression)
	SideEffect(e Expression)
	Branch(cond Expression, target common.Address, class machine.InstrClass)
	BranchInMiddleOfInstruction(cond Expression, target common.Address, class machine.InstrClass)
	Goto(target Expression)
	Call(target Expression, returnAddressLen int)
	Return(returnAddressLen, extraBytes int)
	Nop()
	Invalid()
}

// Binder maps architectural storage to canonical identifiers.
type Binder interface {
	EnsureRegister(reg *machine.Register) *Identifier
	EnsureFlagGroup(grp *machine.FlagGroup) *Identifier
	EnsureSequence(t PrimitiveType, regs ...*machine.Register) *Identifier
	CreateTemporary(t PrimitiveType) *Identifier
}
