package sparc

import (
	"github.com/colorfulnotion/lift/ir"
	"github.com/colorfulnotion/lift/machine"
	"github.com/colorfulnotion/lift/rewriter"
)

// NewRewriter returns the SPARC lowering. A missing rule is a table defect
// and panics.
func NewRewriter(a *Architecture) *rewriter.Rewriter {
	return rewriter.MustNew(a, rules)
}

type lowerer struct {
	*rewriter.Context
}

type rule func(l *lowerer) error

func (r rule) lift() rewriter.Rule {
	return func(c *rewriter.Context) error {
		return r(&lowerer{Context: c})
	}
}

type binop func(m ir.ExpressionBuilder, a, b ir.Expression) ir.Expression

func isG0(r *machine.Register) bool {
	return r == Registers[g0]
}

// read is the value of r; %g0 reads as zero.
func (l *lowerer) read(r *machine.Register) ir.Expression {
	if isG0(r) {
		return l.M.Word32(0)
	}
	return l.Binder.EnsureRegister(r)
}

func (l *lowerer) reg(r *machine.Register) *ir.Identifier {
	return l.Binder.EnsureRegister(r)
}

func (l *lowerer) src(n int) (ir.Expression, error) {
	switch op := l.Instr.Op(n).(type) {
	case machine.RegisterOperand:
		return l.read(op.Reg), nil
	case machine.Immediate:
		if op.Signed {
			return l.M.Const(ir.Int32, uint64(op.Value)), nil
		}
		return l.M.Word32(uint64(op.Value)), nil
	}
	return nil, l.UnexpectedOperand(n)
}

func (l *lowerer) srcs() (ir.Expression, ir.Expression, error) {
	a, err := l.src(0)
	if err != nil {
		return nil, nil, err
	}
	b, err := l.src(1)
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

// ea is the effective address of a memory operand.
func (l *lowerer) ea(n int) (ir.Expression, error) {
	switch op := l.Instr.Op(n).(type) {
	case machine.Indirect:
		base := l.read(op.Base)
		switch {
		case ir.IsZero(base):
			return l.M.Word32(uint64(op.Offset)), nil
		case op.Offset == 0:
			return base, nil
		}
		return l.M.AddS(base, op.Offset), nil
	case machine.Indexed:
		return rewriter.AddIdentity(l.M, l.read(op.Base), l.read(op.Index)), nil
	}
	return nil, l.UnexpectedOperand(n)
}

// result assigns value to register operand n. Writes to %g0 are dropped,
// but a cc form still sets the condition codes from the value.
func (l *lowerer) result(n int, value ir.Expression, cc bool) error {
	r, err := l.Register(n)
	if err != nil {
		return err
	}
	if isG0(r) {
		if cc {
			l.M.Assign(l.Binder.EnsureFlagGroup(NZVC), l.M.Cond(value))
		} else {
			l.M.Nop()
		}
		return nil
	}
	dst := l.reg(r)
	l.M.Assign(dst, value)
	if cc {
		l.M.Assign(l.Binder.EnsureFlagGroup(NZVC), l.M.Cond(dst))
	}
	return nil
}

// sum is a+b, writing a negative immediate as a subtraction.
func sum(m ir.ExpressionBuilder, a, b ir.Expression) ir.Expression {
	if c, ok := b.(*ir.Constant); ok && c.T.IsSigned() && !ir.IsZero(a) && !c.IsZero() {
		return m.AddS(a, c.Signed())
	}
	return rewriter.AddIdentity(m, a, b)
}

func difference(m ir.ExpressionBuilder, a, b ir.Expression) ir.Expression {
	if c, ok := b.(*ir.Constant); ok && c.T.IsSigned() && !ir.IsZero(a) && !c.IsZero() {
		return m.SubS(a, c.Signed())
	}
	return rewriter.SubIdentity(m, a, b)
}

// negated applies fn to a and the complement of b (andn, orn, xnor).
func negated(fn binop) binop {
	return func(m ir.ExpressionBuilder, a, b ir.Expression) ir.Expression {
		return fn(m, a, m.Comp(b))
	}
}

func alu(fn binop, cc bool) rule {
	return func(l *lowerer) error {
		a, b, err := l.srcs()
		if err != nil {
			return err
		}
		return l.result(2, fn(l.M, a, b), cc)
	}
}

// withCarry is addx/subx: the carry flag joins the operation.
func withCarry(fn binop, cc bool) rule {
	return func(l *lowerer) error {
		a, b, err := l.srcs()
		if err != nil {
			return err
		}
		carry := l.Binder.EnsureFlagGroup(C)
		var value ir.Expression
		if l.Instr.Opcode == ADDX || l.Instr.Opcode == ADDXCC {
			value = l.M.Add(fn(l.M, a, b), carry)
		} else {
			value = l.M.Sub(fn(l.M, a, b), carry)
		}
		return l.result(2, value, cc)
	}
}

// multiply writes the 64-bit product to %y:rd.
func multiply(signed, cc bool) rule {
	return func(l *lowerer) error {
		a, b, err := l.srcs()
		if err != nil {
			return err
		}
		var product ir.Expression
		if signed {
			product = l.M.SMul(ir.Int64, a, b)
		} else {
			product = l.M.UMul(ir.UInt64, a, b)
		}
		rd, err := l.Register(2)
		if err != nil {
			return err
		}
		if isG0(rd) {
			l.M.Assign(l.reg(Y), l.M.Slice(ir.Word32, product, 32))
			if cc {
				l.M.Assign(l.Binder.EnsureFlagGroup(NZVC), l.M.Cond(l.M.Slice(ir.Word32, product, 0)))
			}
			return nil
		}
		l.M.Assign(l.Binder.EnsureSequence(ir.Word64, Y, rd), product)
		if cc {
			l.M.Assign(l.Binder.EnsureFlagGroup(NZVC), l.M.Cond(l.reg(rd)))
		}
		return nil
	}
}

// divide divides %y:rs1 by the second operand.
func divide(signed, cc bool) rule {
	return func(l *lowerer) error {
		a, b, err := l.srcs()
		if err != nil {
			return err
		}
		dividend := l.M.Seq(ir.Word64, l.reg(Y), a)
		quotient := l.M.UDiv(dividend, b)
		if signed {
			quotient = l.M.SDiv(dividend, b)
		}
		return l.result(2, l.M.Cast(ir.Word32, quotient), cc)
	}
}

func rewriteMulscc(l *lowerer) error {
	a, b, err := l.srcs()
	if err != nil {
		return err
	}
	return l.result(2, l.Intrinsic("__mulscc", ir.Int32, a, b), true)
}

func rewriteRdy(l *lowerer) error {
	return l.result(0, l.reg(Y), false)
}

func rewriteWry(l *lowerer) error {
	a, b, err := l.srcs()
	if err != nil {
		return err
	}
	l.M.Assign(l.reg(Y), rewriter.XorIdentity(l.M, a, b))
	return nil
}

func rewriteSethi(l *lowerer) error {
	imm, err := l.Immediate(0)
	if err != nil {
		return err
	}
	return l.result(1, l.M.Word32(uint64(imm.Value)<<10), false)
}

func rewriteNop(l *lowerer) error {
	l.M.Nop()
	return nil
}

func rewriteCall(l *lowerer) error {
	target, err := l.Target(0)
	if err != nil {
		return err
	}
	l.M.Call(l.CodeAddress(target), 0)
	return nil
}

func rewriteJmpl(l *lowerer) error {
	a, b, err := l.srcs()
	if err != nil {
		return err
	}
	rd, err := l.Register(2)
	if err != nil {
		return err
	}
	target := sum(l.M, a, b)
	switch {
	case l.Instr.Class.Has(machine.Return):
		l.M.Return(0, 0)
	case isG0(rd):
		l.M.Goto(target)
	case l.Instr.Class.Has(machine.Call):
		l.M.Call(target, 0)
	default:
		l.M.Assign(l.reg(rd), l.CodeAddress(l.Instr.Address))
		l.M.Goto(target)
	}
	return nil
}

func rewriteRett(l *lowerer) error {
	l.M.Return(0, 0)
	return nil
}

func conditionOf(op, first machine.Opcode) condition {
	return conditions[op-first]
}

func rewriteBranch(l *lowerer) error {
	target, err := l.Target(0)
	if err != nil {
		return err
	}
	c := conditionOf(l.Instr.Opcode, BN)
	switch c.cc {
	case ir.CcALWAYS:
		l.M.Goto(l.CodeAddress(target))
	case ir.CcNEVER:
		l.M.Nop()
	default:
		test := l.M.Test(c.cc, l.Binder.EnsureFlagGroup(c.flags))
		l.M.Branch(test, target, l.Instr.Class)
	}
	return nil
}

func rewriteTrap(l *lowerer) error {
	a, b, err := l.srcs()
	if err != nil {
		return err
	}
	c := conditionOf(l.Instr.Opcode, TN)
	switch c.cc {
	case ir.CcNEVER:
		l.M.Nop()
		return nil
	case ir.CcALWAYS:
	default:
		test := l.M.Test(c.cc, l.Binder.EnsureFlagGroup(c.flags))
		l.M.BranchInMiddleOfInstruction(l.M.Invert(test), l.Next(), machine.ConditionalTransfer)
	}
	l.M.SideEffect(l.Intrinsic("__trap", ir.Void, sum(l.M, a, b)))
	return nil
}

func rewriteFlush(l *lowerer) error {
	ea, err := l.ea(0)
	if err != nil {
		return err
	}
	l.M.SideEffect(l.Intrinsic("__flush", ir.Void, ea))
	return nil
}

// window lowers save and restore: the sum is taken in the old window, the
// registers rotate, and the destination is written in the new window.
func window(save bool) rule {
	return func(l *lowerer) error {
		a, b, err := l.srcs()
		if err != nil {
			return err
		}
		rd, err := l.Register(2)
		if err != nil {
			return err
		}
		var tmp *ir.Identifier
		if !isG0(rd) {
			tmp = l.Binder.CreateTemporary(ir.Word32)
			l.M.Assign(tmp, sum(l.M, a, b))
		}
		for i := range InRegisters {
			in, out := l.reg(InRegisters[i]), l.reg(OutRegisters[i])
			if save {
				l.M.Assign(in, out)
			} else {
				l.M.Assign(out, in)
			}
		}
		if tmp != nil {
			l.M.Assign(l.reg(rd), tmp)
		}
		return nil
	}
}

func load(t ir.PrimitiveType) rule {
	return func(l *lowerer) error {
		ea, err := l.ea(0)
		if err != nil {
			return err
		}
		var value ir.Expression = l.M.Mem(t, ea)
		if t.Bits < 32 {
			ext := ir.Int32
			if t.Domain == ir.DomainUnsigned {
				ext = ir.UInt32
			}
			value = l.M.Cast(ext, value)
		}
		return l.result(1, value, false)
	}
}

func store(t ir.PrimitiveType) rule {
	return func(l *lowerer) error {
		src, err := l.src(0)
		if err != nil {
			return err
		}
		ea, err := l.ea(1)
		if err != nil {
			return err
		}
		if t.Bits < 32 {
			src = l.M.Cast(t, src)
		}
		l.M.Assign(l.M.Mem(t, ea), src)
		return nil
	}
}

func (l *lowerer) pair(n int) (machine.RegisterPair, error) {
	p, ok := l.Instr.Op(n).(machine.RegisterPair)
	if !ok {
		return p, l.UnexpectedOperand(n)
	}
	return p, nil
}

func rewriteLdd(l *lowerer) error {
	ea, err := l.ea(0)
	if err != nil {
		return err
	}
	p, err := l.pair(1)
	if err != nil {
		return err
	}
	l.M.Assign(l.Binder.EnsureSequence(ir.Word64, p.Hi, p.Lo), l.M.Mem(ir.Word64, ea))
	return nil
}

func rewriteStd(l *lowerer) error {
	p, err := l.pair(0)
	if err != nil {
		return err
	}
	ea, err := l.ea(1)
	if err != nil {
		return err
	}
	var src ir.Expression
	if isG0(p.Hi) {
		src = l.M.Seq(ir.Word64, l.read(p.Hi), l.read(p.Lo))
	} else {
		src = l.Binder.EnsureSequence(ir.Word64, p.Hi, p.Lo)
	}
	l.M.Assign(l.M.Mem(ir.Word64, ea), src)
	return nil
}

// rewriteLdstub reads the byte and sets it to all ones in one atomic step.
func rewriteLdstub(l *lowerer) error {
	ea, err := l.ea(0)
	if err != nil {
		return err
	}
	tmp := l.Binder.CreateTemporary(ir.Byte)
	l.M.Assign(tmp, l.Intrinsic("__ldstub", ir.Byte, l.M.AddrOf(l.M.Mem(ir.Byte, ea))))
	return l.result(1, l.M.Cast(ir.UInt32, tmp), false)
}

func rewriteSwap(l *lowerer) error {
	ea, err := l.ea(0)
	if err != nil {
		return err
	}
	rd, err := l.Register(1)
	if err != nil {
		return err
	}
	mem := l.M.Mem(ir.Word32, ea)
	tmp := l.Binder.CreateTemporary(ir.Word32)
	l.M.Assign(tmp, mem)
	l.M.Assign(mem, l.read(rd))
	return l.result(1, tmp, false)
}

var rules rewriter.Table

func init() {
	and := rewriter.AndIdentity
	or := rewriter.OrIdentity
	xor := rewriter.XorIdentity

	table := map[machine.Opcode]rule{
		ADD:    alu(sum, false),
		ADDCC:  alu(sum, true),
		SUB:    alu(difference, false),
		SUBCC:  alu(difference, true),
		AND:    alu(and, false),
		ANDCC:  alu(and, true),
		OR:     alu(or, false),
		ORCC:   alu(or, true),
		XOR:    alu(xor, false),
		XORCC:  alu(xor, true),
		ANDN:   alu(negated(and), false),
		ANDNCC: alu(negated(and), true),
		ORN:    alu(negated(or), false),
		ORNCC:  alu(negated(or), true),
		XNOR:   alu(negated(xor), false),
		XNORCC: alu(negated(xor), true),
		SLL:    alu(ir.ExpressionBuilder.Shl, false),
		SRL:    alu(ir.ExpressionBuilder.Shr, false),
		SRA:    alu(ir.ExpressionBuilder.Sar, false),
		ADDX:   withCarry(sum, false),
		ADDXCC: withCarry(sum, true),
		SUBX:   withCarry(difference, false),
		SUBXCC: withCarry(difference, true),
		UMUL:   multiply(false, false),
		UMULCC: multiply(false, true),
		SMUL:   multiply(true, false),
		SMULCC: multiply(true, true),
		UDIV:   divide(false, false),
		UDIVCC: divide(false, true),
		SDIV:   divide(true, false),
		SDIVCC: divide(true, true),
		MULSCC: rewriteMulscc,
		RDY:    rewriteRdy,
		WRY:    rewriteWry,
		SETHI:  rewriteSethi,
		NOP:    rewriteNop,

		CALL:    rewriteCall,
		JMPL:    rewriteJmpl,
		RETT:    rewriteRett,
		FLUSH:   rewriteFlush,
		SAVE:    window(true),
		RESTORE: window(false),

		LD:     load(ir.Word32),
		LDUB:   load(ir.UInt8),
		LDUH:   load(ir.UInt16),
		LDSB:   load(ir.Int8),
		LDSH:   load(ir.Int16),
		LDD:    rewriteLdd,
		ST:     store(ir.Word32),
		STB:    store(ir.Byte),
		STH:    store(ir.Word16),
		STD:    rewriteStd,
		LDSTUB: rewriteLdstub,
		SWAP:   rewriteSwap,
	}
	for _, c := range conditions {
		table[c.branch] = rewriteBranch
		table[c.trap] = rewriteTrap
	}
	rules = make(rewriter.Table, len(table))
	for op, r := range table {
		rules[op] = r.lift()
	}
}
