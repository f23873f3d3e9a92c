package ir

import (
	"github.com/colorfulnotion/lift/common"
	"github.com/colorfulnotion/lift/machine"
)

// Emitter is the concrete Builder. It folds constant operands of unary
// operators and casts and otherwise builds expressions verbatim.
type Emitter struct {
	stmts []Statement
}

func NewEmitter() *Emitter {
	return &Emitter{}
}

// Statements returns the statements emitted so far.
func (m *Emitter) Statements() []Statement {
	return m.stmts
}

func (m *Emitter) Reset() {
	m.stmts = nil
}

func (m *Emitter) emit(s Statement) {
	m.stmts = append(m.stmts, s)
}

func (m *Emitter) Const(t PrimitiveType, v uint64) *Constant {
	return &Constant{T: t, Value: v & t.Mask()}
}

func (m *Emitter) Int32(v int64) *Constant { return m.Const(Int32, uint64(v)) }

func (m *Emitter) Word32(v uint64) *Constant { return m.Const(Word32, v) }

func (m *Emitter) True() *Constant { return &Constant{T: Bool, Value: 1} }

func (m *Emitter) Bin(op Operator, t PrimitiveType, a, b Expression) Expression {
	return &Binary{Op: op, T: t, Left: a, Right: b}
}

func (m *Emitter) Add(a, b Expression) Expression { return m.Bin(OpAdd, a.Type(), a, b) }
func (m *Emitter) Sub(a, b Expression) Expression { return m.Bin(OpSub, a.Type(), a, b) }
func (m *Emitter) Mul(a, b Expression) Expression { return m.Bin(OpMul, a.Type(), a, b) }
func (m *Emitter) SDiv(a, b Expression) Expression {
	return m.Bin(OpSDiv, Int(a.Type().Bits), a, b)
}
func (m *Emitter) UDiv(a, b Expression) Expression {
	return m.Bin(OpUDiv, UInt(a.Type().Bits), a, b)
}
func (m *Emitter) SMod(a, b Expression) Expression {
	return m.Bin(OpSMod, Int(a.Type().Bits), a, b)
}
func (m *Emitter) UMod(a, b Expression) Expression {
	return m.Bin(OpUMod, UInt(a.Type().Bits), a, b)
}
func (m *Emitter) And(a, b Expression) Expression { return m.Bin(OpAnd, a.Type(), a, b) }
func (m *Emitter) Or(a, b Expression) Expression  { return m.Bin(OpOr, a.Type(), a, b) }
func (m *Emitter) Xor(a, b Expression) Expression { return m.Bin(OpXor, a.Type(), a, b) }
func (m *Emitter) Shl(a, b Expression) Expression { return m.Bin(OpShl, a.Type(), a, b) }
func (m *Emitter) Shr(a, b Expression) Expression { return m.Bin(OpShr, a.Type(), a, b) }
func (m *Emitter) Sar(a, b Expression) Expression { return m.Bin(OpSar, a.Type(), a, b) }

func (m *Emitter) SMul(t PrimitiveType, a, b Expression) Expression { return m.Bin(OpSMul, t, a, b) }
func (m *Emitter) UMul(t PrimitiveType, a, b Expression) Expression { return m.Bin(OpUMul, t, a, b) }

// AddS adds a literal, rendering negative literals as a subtraction.
func (m *Emitter) AddS(a Expression, n int64) Expression {
	if n < 0 {
		return m.Sub(a, m.Const(a.Type(), uint64(-n)))
	}
	return m.Add(a, m.Const(a.Type(), uint64(n)))
}

func (m *Emitter) SubS(a Expression, n int64) Expression {
	return m.AddS(a, -n)
}

func (m *Emitter) Eq(a, b Expression) Expression  { return m.Bin(OpEq, Bool, a, b) }
func (m *Emitter) Ne(a, b Expression) Expression  { return m.Bin(OpNe, Bool, a, b) }
func (m *Emitter) Lt(a, b Expression) Expression  { return m.Bin(OpLt, Bool, a, b) }
func (m *Emitter) Le(a, b Expression) Expression  { return m.Bin(OpLe, Bool, a, b) }
func (m *Emitter) Gt(a, b Expression) Expression  { return m.Bin(OpGt, Bool, a, b) }
func (m *Emitter) Ge(a, b Expression) Expression  { return m.Bin(OpGe, Bool, a, b) }
func (m *Emitter) Ult(a, b Expression) Expression { return m.Bin(OpUlt, Bool, a, b) }
func (m *Emitter) Ule(a, b Expression) Expression { return m.Bin(OpUle, Bool, a, b) }
func (m *Emitter) Ugt(a, b Expression) Expression { return m.Bin(OpUgt, Bool, a, b) }
func (m *Emitter) Uge(a, b Expression) Expression { return m.Bin(OpUge, Bool, a, b) }

func (m *Emitter) Neg(a Expression) Expression {
	if c, ok := a.(*Constant); ok {
		return m.Const(c.T, -c.Value)
	}
	return &Unary{Op: OpNeg, T: a.Type(), Operand: a}
}

func (m *Emitter) Comp(a Expression) Expression {
	if c, ok := a.(*Constant); ok {
		return m.Const(c.T, ^c.Value)
	}
	return &Unary{Op: OpComp, T: a.Type(), Operand: a}
}

func (m *Emitter) Not(a Expression) Expression {
	if c, ok := a.(*Constant); ok && c.T.Domain == DomainBool {
		return &Constant{T: Bool, Value: c.Value ^ 1}
	}
	return &Unary{Op: OpNot, T: Bool, Operand: a}
}

// Invert negates a condition, flipping comparisons and condition codes in
// place rather than wrapping them.
func (m *Emitter) Invert(cond Expression) Expression {
	switch e := cond.(type) {
	case *Binary:
		if op, ok := inverted[e.Op]; ok {
			return &Binary{Op: op, T: Bool, Left: e.Left, Right: e.Right}
		}
	case *TestCondition:
		return &TestCondition{CC: e.CC.Invert(), Expr: e.Expr}
	case *Unary:
		if e.Op == OpNot {
			return e.Operand
		}
	}
	return m.Not(cond)
}

func (m *Emitter) AddrOf(e Expression) Expression {
	return &Unary{Op: OpAddrOf, T: Ptr32, Operand: e}
}

// Cast converts e to t. Constants are converted directly, sign-extending
// from signed source types.
func (m *Emitter) Cast(t PrimitiveType, e Expression) Expression {
	if c, ok := e.(*Constant); ok {
		v := c.Value
		if c.T.IsSigned() {
			v = uint64(c.Signed())
		}
		return m.Const(t, v)
	}
	if e.Type() == t {
		return e
	}
	return &Cast{T: t, Expr: e}
}

func (m *Emitter) Slice(t PrimitiveType, e Expression, offset int) Expression {
	return &Slice{T: t, Expr: e, Offset: offset}
}

func (m *Emitter) Mem(t PrimitiveType, ea Expression) *MemoryAccess {
	return &MemoryAccess{T: t, EA: ea}
}

func (m *Emitter) Seq(t PrimitiveType, parts ...Expression) Expression {
	return &MkSequence{T: t, Parts: parts}
}

func (m *Emitter) Fn(intrinsic *Intrinsic, args ...Expression) *Application {
	return &Application{Fn: intrinsic, Args: args}
}

func (m *Emitter) Cond(e Expression) Expression {
	return &ConditionOf{Expr: e}
}

func (m *Emitter) Test(cc ConditionCode, e Expression) Expression {
	return &TestCondition{CC: cc, Expr: e}
}

func (m *Emitter) Assign(dst, src Expression) {
	m.emit(&Assign{Dst: dst, Src: src})
}

func (m *Emitter) SideEffect(e Expression) {
	m.emit(&SideEffect{Expr: e})
}

func (m *Emitter) Branch(cond Expression, target common.Address, class machine.InstrClass) {
	m.emit(&Branch{Cond: cond, Target: target, Class: class})
}

func (m *Emitter) BranchInMiddleOfInstruction(cond Expression, target common.Address, class machine.InstrClass) {
	m.emit(&Branch{Cond: cond, Target: target, Class: class, InMiddle: true})
}

func (m *Emitter) Goto(target Expression) {
	m.emit(&Goto{Target: target})
}

func (m *Emitter) Call(target Expression, returnAddressLen int) {
	m.emit(&Call{Target: target, ReturnAddressLen: returnAddressLen})
}

func (m *Emitter) Return(returnAddressLen, extraBytes int) {
	m.emit(&Return{ReturnAddressLen: returnAddressLen, ExtraBytes: extraBytes})
}

func (m *Emitter) Nop() {
	m.emit(&Nop{})
}

func (m *Emitter) Invalid() {
	m.emit(&InvalidStmt{})
}
