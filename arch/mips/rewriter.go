package mips

import (
	"github.com/colorfulnotion/lift/common"
	"github.com/colorfulnotion/lift/ir"
	"github.com/colorfulnotion/lift/machine"
	"github.com/colorfulnotion/lift/rewriter"
)

// NewRewriter returns the lowering for a. A missing rule is a table defect
// and panics.
func NewRewriter(a *Architecture) *rewriter.Rewriter {
	return rewriter.MustNew(a, rules)
}

type lowerer struct {
	*rewriter.Context
	arch *Architecture
}

type rule func(l *lowerer) error

func (r rule) lift() rewriter.Rule {
	return func(c *rewriter.Context) error {
		return r(&lowerer{Context: c, arch: c.Arch.(*Architecture)})
	}
}

type binop func(m ir.ExpressionBuilder, a, b ir.Expression) ir.Expression

func (l *lowerer) word() ir.PrimitiveType {
	return ir.Word(l.arch.WordBits())
}

func (l *lowerer) zero() ir.Expression {
	return l.M.Const(l.word(), 0)
}

func (l *lowerer) isZeroReg(r *machine.Register) bool {
	return r == l.arch.regs.GPR[zeroReg]
}

// read is the value of r; the zero register reads as the constant zero.
func (l *lowerer) read(r *machine.Register) ir.Expression {
	if l.isZeroReg(r) {
		return l.zero()
	}
	return l.Binder.EnsureRegister(r)
}

func (l *lowerer) gpr(n int) *ir.Identifier {
	return l.Binder.EnsureRegister(l.arch.regs.GPR[n])
}

// src returns operand n as an rvalue.
func (l *lowerer) src(n int) (ir.Expression, error) {
	switch op := l.Instr.Op(n).(type) {
	case machine.RegisterOperand:
		return l.read(op.Reg), nil
	case machine.Immediate:
		if op.Signed {
			return l.M.Const(ir.Int(l.arch.WordBits()), uint64(op.Value)), nil
		}
		return l.M.Const(l.word(), uint64(op.Value)), nil
	}
	return nil, l.UnexpectedOperand(n)
}

// dst returns register operand n as an assignment target.
func (l *lowerer) dst(n int) (*ir.Identifier, error) {
	r, err := l.Register(n)
	if err != nil {
		return nil, err
	}
	return l.Binder.EnsureRegister(r), nil
}

func (l *lowerer) srcs(ns ...int) ([]ir.Expression, error) {
	out := make([]ir.Expression, len(ns))
	for i, n := range ns {
		e, err := l.src(n)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

func (l *lowerer) indirect(n int) (machine.Indirect, error) {
	op, ok := l.Instr.Op(n).(machine.Indirect)
	if !ok {
		return machine.Indirect{}, l.UnexpectedOperand(n)
	}
	return op, nil
}

// ea is base+offset with the zero identities applied.
func (l *lowerer) ea(op machine.Indirect) ir.Expression {
	base := l.read(op.Base)
	switch {
	case ir.IsZero(base):
		return l.M.Const(l.word(), uint64(op.Offset))
	case op.Offset == 0:
		return base
	}
	return l.M.AddS(base, op.Offset)
}

func (l *lowerer) mem(t ir.PrimitiveType, n int) (*ir.MemoryAccess, error) {
	op, err := l.indirect(n)
	if err != nil {
		return nil, err
	}
	return l.M.Mem(t, l.ea(op)), nil
}

func (l *lowerer) indexedEA(n int, scale int64) (ir.Expression, error) {
	op, ok := l.Instr.Op(n).(machine.Indexed)
	if !ok {
		return nil, l.UnexpectedOperand(n)
	}
	index := l.read(op.Index)
	if scale != 1 {
		index = l.M.Mul(index, l.M.Const(l.word(), uint64(scale)))
	}
	return rewriter.AddIdentity(l.M, l.read(op.Base), index), nil
}

func (l *lowerer) immediate(n int) (int64, error) {
	op, err := l.Immediate(n)
	if err != nil {
		return 0, err
	}
	return op.Value, nil
}

func alu(fn binop) rule {
	return func(l *lowerer) error {
		dst, err := l.dst(0)
		if err != nil {
			return err
		}
		ops, err := l.srcs(1, 2)
		if err != nil {
			return err
		}
		l.M.Assign(dst, fn(l.M, ops[0], ops[1]))
		return nil
	}
}

func rewriteAddImmediate(l *lowerer) error {
	dst, err := l.dst(0)
	if err != nil {
		return err
	}
	a, err := l.src(1)
	if err != nil {
		return err
	}
	v, err := l.immediate(2)
	if err != nil {
		return err
	}
	switch {
	case ir.IsZero(a):
		l.M.Assign(dst, l.M.Const(ir.Int(l.arch.WordBits()), uint64(v)))
	case v == 0:
		l.M.Assign(dst, a)
	default:
		l.M.Assign(dst, l.M.AddS(a, v))
	}
	return nil
}

// setLess stores the comparison result as a 0/1 word.
func setLess(unsigned bool) rule {
	return func(l *lowerer) error {
		dst, err := l.dst(0)
		if err != nil {
			return err
		}
		ops, err := l.srcs(1, 2)
		if err != nil {
			return err
		}
		cmp := l.M.Lt
		if unsigned {
			cmp = l.M.Ult
			// the sign-extended immediate is compared as an unsigned word
			if c, ok := ops[1].(*ir.Constant); ok {
				ops[1] = l.M.Const(l.word(), c.Value)
			}
		}
		l.M.Assign(dst, l.M.Cast(dst.Type(), cmp(ops[0], ops[1])))
		return nil
	}
}

func rewriteLui(l *lowerer) error {
	dst, err := l.dst(0)
	if err != nil {
		return err
	}
	v, err := l.immediate(1)
	if err != nil {
		return err
	}
	l.M.Assign(dst, l.M.Const(l.word(), uint64(int64(int16(v))<<16)))
	return nil
}

// shiftImmediate shifts by the sa field plus bias, for the *32 forms.
func shiftImmediate(fn binop, bias int64) rule {
	return func(l *lowerer) error {
		dst, err := l.dst(0)
		if err != nil {
			return err
		}
		src, err := l.src(1)
		if err != nil {
			return err
		}
		sa, err := l.immediate(2)
		if err != nil {
			return err
		}
		l.M.Assign(dst, fn(l.M, src, l.M.Int32(sa+bias)))
		return nil
	}
}

func rewriteLsa(l *lowerer) error {
	dst, err := l.dst(0)
	if err != nil {
		return err
	}
	ops, err := l.srcs(1, 2)
	if err != nil {
		return err
	}
	sa, err := l.immediate(3)
	if err != nil {
		return err
	}
	l.M.Assign(dst, rewriter.AddIdentity(l.M, ops[1], l.M.Shl(ops[0], l.M.Int32(sa))))
	return nil
}

// multiply writes the double-width product to the hi:lo pair.
func multiply(bits int, signed bool) rule {
	return func(l *lowerer) error {
		ops, err := l.srcs(0, 1)
		if err != nil {
			return err
		}
		regs := l.arch.regs
		if signed {
			hilo := l.Binder.EnsureSequence(ir.Int(bits), regs.HI, regs.LO)
			l.M.Assign(hilo, l.M.SMul(hilo.Type(), ops[0], ops[1]))
		} else {
			hilo := l.Binder.EnsureSequence(ir.UInt(bits), regs.HI, regs.LO)
			l.M.Assign(hilo, l.M.UMul(hilo.Type(), ops[0], ops[1]))
		}
		return nil
	}
}

func rewriteMul(l *lowerer) error {
	dst, err := l.dst(0)
	if err != nil {
		return err
	}
	ops, err := l.srcs(1, 2)
	if err != nil {
		return err
	}
	l.M.Assign(dst, l.M.SMul(ir.Int(l.arch.WordBits()), ops[0], ops[1]))
	return nil
}

// divide leaves the quotient in lo and the remainder in hi.
func divide(signed bool) rule {
	return func(l *lowerer) error {
		ops, err := l.srcs(0, 1)
		if err != nil {
			return err
		}
		div, mod := l.M.SDiv, l.M.SMod
		if !signed {
			div, mod = l.M.UDiv, l.M.UMod
		}
		regs := l.arch.regs
		l.M.Assign(l.Binder.EnsureRegister(regs.LO), div(ops[0], ops[1]))
		l.M.Assign(l.Binder.EnsureRegister(regs.HI), mod(ops[0], ops[1]))
		return nil
	}
}

func moveFrom(reg func(*RegisterSet) *machine.Register) rule {
	return func(l *lowerer) error {
		dst, err := l.dst(0)
		if err != nil {
			return err
		}
		l.M.Assign(dst, l.Binder.EnsureRegister(reg(l.arch.regs)))
		return nil
	}
}

func moveTo(reg func(*RegisterSet) *machine.Register) rule {
	return func(l *lowerer) error {
		src, err := l.src(0)
		if err != nil {
			return err
		}
		l.M.Assign(l.Binder.EnsureRegister(reg(l.arch.regs)), src)
		return nil
	}
}

func hi(rs *RegisterSet) *machine.Register { return rs.HI }
func lo(rs *RegisterSet) *machine.Register { return rs.LO }

// conditionalMove skips the assignment unless cond holds.
func conditionalMove(l *lowerer, cond ir.Expression) error {
	dst, err := l.dst(0)
	if err != nil {
		return err
	}
	src, err := l.src(1)
	if err != nil {
		return err
	}
	l.M.BranchInMiddleOfInstruction(l.M.Invert(cond), l.Next(), machine.ConditionalTransfer)
	l.M.Assign(dst, src)
	return nil
}

func moveOnZero(nonZero bool) rule {
	return func(l *lowerer) error {
		test, err := l.src(2)
		if err != nil {
			return err
		}
		cond := l.M.Eq(test, l.zero())
		if nonZero {
			cond = l.M.Ne(test, l.zero())
		}
		return conditionalMove(l, cond)
	}
}

func moveOnFCC(set bool) rule {
	return func(l *lowerer) error {
		cc, err := l.immediate(2)
		if err != nil {
			return err
		}
		var cond ir.Expression = l.Binder.EnsureFlagGroup(l.arch.regs.FCC[cc&7])
		if !set {
			cond = l.M.Not(cond)
		}
		return conditionalMove(l, cond)
	}
}

func rewriteJump(l *lowerer) error {
	target, err := l.Target(0)
	if err != nil {
		return err
	}
	l.M.Goto(l.CodeAddress(target))
	return nil
}

func rewriteJumpAndLink(l *lowerer) error {
	target, err := l.Target(0)
	if err != nil {
		return err
	}
	l.M.Call(l.CodeAddress(target), 0)
	return nil
}

func rewriteJr(l *lowerer) error {
	r, err := l.Register(0)
	if err != nil {
		return err
	}
	if r == l.arch.regs.GPR[raReg] {
		l.M.Return(0, 0)
		return nil
	}
	l.M.Goto(l.read(r))
	return nil
}

func rewriteJalr(l *lowerer) error {
	target, err := l.src(1)
	if err != nil {
		return err
	}
	l.M.Call(target, 0)
	return nil
}

type compare func(a, b ir.Expression) ir.Expression

// branchCompare builds the condition of a compare-and-branch. Two-register
// forms compare their registers, the others compare rs against zero.
func (l *lowerer) branchCompare(cmp func(ir.ExpressionBuilder) compare) (ir.Expression, common.Address, error) {
	a, err := l.src(0)
	if err != nil {
		return nil, 0, err
	}
	b, targetOp := l.zero(), 1
	if len(l.Instr.Operands) == 3 {
		if b, err = l.src(1); err != nil {
			return nil, 0, err
		}
		targetOp = 2
	}
	target, err := l.Target(targetOp)
	if err != nil {
		return nil, 0, err
	}
	return cmp(l.M)(a, b), target, nil
}

func eq(m ir.ExpressionBuilder) compare { return m.Eq }
func ne(m ir.ExpressionBuilder) compare { return m.Ne }
func lt(m ir.ExpressionBuilder) compare { return m.Lt }
func le(m ir.ExpressionBuilder) compare { return m.Le }
func gt(m ir.ExpressionBuilder) compare { return m.Gt }
func ge(m ir.ExpressionBuilder) compare { return m.Ge }

func condBranch(cmp func(ir.ExpressionBuilder) compare) rule {
	return func(l *lowerer) error {
		cond, target, err := l.branchCompare(cmp)
		if err != nil {
			return err
		}
		// beq with the same register twice is the unconditional b
		if l.Instr.Opcode == BEQ {
			a, _ := l.Register(0)
			b, _ := l.Register(1)
			if a == b {
				l.M.Goto(l.CodeAddress(target))
				return nil
			}
		}
		l.M.Branch(cond, target, l.Instr.Class&^machine.Call)
		return nil
	}
}

// branchAndLink calls the target when the condition holds. bgezal on the
// zero register is the unconditional bal.
func branchAndLink(cmp func(ir.ExpressionBuilder) compare) rule {
	return func(l *lowerer) error {
		cond, target, err := l.branchCompare(cmp)
		if err != nil {
			return err
		}
		rs, err := l.Register(0)
		if err != nil {
			return err
		}
		if !(l.Instr.Opcode == BGEZAL && l.isZeroReg(rs)) {
			l.M.BranchInMiddleOfInstruction(l.M.Invert(cond), l.Next(), machine.ConditionalTransfer)
		}
		l.M.Call(l.CodeAddress(target), 0)
		return nil
	}
}

// loadFrom sign- or zero-extends a t-typed load to the register width.
func (l *lowerer) loadFrom(dst *ir.Identifier, t ir.PrimitiveType, ea ir.Expression) {
	bits := dst.Type().Bits
	if t.Bits >= bits {
		l.M.Assign(dst, l.M.Mem(dst.Type(), ea))
		return
	}
	ext := ir.Int(bits)
	if t.Domain == ir.DomainUnsigned {
		ext = ir.UInt(bits)
	}
	l.M.Assign(dst, l.M.Cast(ext, l.M.Mem(t, ea)))
}

func load(t ir.PrimitiveType) rule {
	return func(l *lowerer) error {
		dst, err := l.dst(0)
		if err != nil {
			return err
		}
		op, err := l.indirect(1)
		if err != nil {
			return err
		}
		l.loadFrom(dst, t, l.ea(op))
		return nil
	}
}

func loadIndexed(t ir.PrimitiveType, scale int64) rule {
	return func(l *lowerer) error {
		dst, err := l.dst(0)
		if err != nil {
			return err
		}
		ea, err := l.indexedEA(1, scale)
		if err != nil {
			return err
		}
		l.loadFrom(dst, t, ea)
		return nil
	}
}

func store(t ir.PrimitiveType) rule {
	return func(l *lowerer) error {
		src, err := l.src(0)
		if err != nil {
			return err
		}
		mem, err := l.mem(t, 1)
		if err != nil {
			return err
		}
		if t.Bits < src.Type().Bits {
			src = l.M.Cast(t, src)
		}
		l.M.Assign(mem, src)
		return nil
	}
}

func rewriteSwxs(l *lowerer) error {
	src, err := l.src(0)
	if err != nil {
		return err
	}
	ea, err := l.indexedEA(1, 4)
	if err != nil {
		return err
	}
	l.M.Assign(l.M.Mem(ir.Word32, ea), src)
	return nil
}

// floatMove moves a double between an FPU register and memory.
func floatMove(toMemory bool) rule {
	return func(l *lowerer) error {
		f, err := l.dst(0)
		if err != nil {
			return err
		}
		mem, err := l.mem(ir.Real64, 1)
		if err != nil {
			return err
		}
		if toMemory {
			l.M.Assign(mem, f)
		} else {
			l.M.Assign(f, mem)
		}
		return nil
	}
}

// unalignedLoad lowers lwl/lwr: the register merges with the word at ea.
func unalignedLoad(name string) rule {
	return func(l *lowerer) error {
		dst, err := l.dst(0)
		if err != nil {
			return err
		}
		mem, err := l.mem(ir.Word32, 1)
		if err != nil {
			return err
		}
		l.M.Assign(dst, l.Intrinsic(name, ir.Word32, dst, mem))
		return nil
	}
}

func unalignedStore(name string) rule {
	return func(l *lowerer) error {
		src, err := l.src(0)
		if err != nil {
			return err
		}
		mem, err := l.mem(ir.Word32, 1)
		if err != nil {
			return err
		}
		l.M.Assign(mem, l.Intrinsic(name, ir.Word32, mem, src))
		return nil
	}
}

func unalignedLoad64(name string) rule {
	return func(l *lowerer) error {
		dst, err := l.dst(0)
		if err != nil {
			return err
		}
		op, err := l.indirect(1)
		if err != nil {
			return err
		}
		l.M.Assign(dst, l.Intrinsic(name, ir.Word64, l.read(op.Base), l.M.Int32(op.Offset)))
		return nil
	}
}

func unalignedStore64(name string) rule {
	return func(l *lowerer) error {
		src, err := l.src(0)
		if err != nil {
			return err
		}
		op, err := l.indirect(1)
		if err != nil {
			return err
		}
		l.M.SideEffect(l.Intrinsic(name, ir.Void, l.read(op.Base), l.M.Int32(op.Offset), src))
		return nil
	}
}

func loadLinked(name string, t ir.PrimitiveType) rule {
	return func(l *lowerer) error {
		dst, err := l.dst(0)
		if err != nil {
			return err
		}
		mem, err := l.mem(t, 1)
		if err != nil {
			return err
		}
		l.M.Assign(dst, l.Intrinsic(name, t, mem))
		return nil
	}
}

// storeConditional leaves the success flag in the source register.
func storeConditional(name string, t ir.PrimitiveType) rule {
	return func(l *lowerer) error {
		reg, err := l.dst(0)
		if err != nil {
			return err
		}
		mem, err := l.mem(t, 1)
		if err != nil {
			return err
		}
		l.M.Assign(reg, l.Intrinsic(name, t, mem, reg))
		return nil
	}
}

func rewriteClz(l *lowerer) error {
	dst, err := l.dst(0)
	if err != nil {
		return err
	}
	src, err := l.src(1)
	if err != nil {
		return err
	}
	l.M.Assign(dst, l.Intrinsic("__clz", ir.Int32, src))
	return nil
}

func bitField(insert bool) rule {
	return func(l *lowerer) error {
		dst, err := l.dst(0)
		if err != nil {
			return err
		}
		src, err := l.src(1)
		if err != nil {
			return err
		}
		pos, err := l.immediate(2)
		if err != nil {
			return err
		}
		size, err := l.immediate(3)
		if err != nil {
			return err
		}
		if insert {
			l.M.Assign(dst, l.Intrinsic("__ins", dst.Type(), dst, src, l.M.Int32(pos), l.M.Int32(size)))
		} else {
			l.M.Assign(dst, l.Intrinsic("__ext", dst.Type(), src, l.M.Int32(pos), l.M.Int32(size)))
		}
		return nil
	}
}

func signExtend(t ir.PrimitiveType) rule {
	return func(l *lowerer) error {
		dst, err := l.dst(0)
		if err != nil {
			return err
		}
		src, err := l.src(1)
		if err != nil {
			return err
		}
		tmp := l.Binder.CreateTemporary(t)
		l.M.Assign(tmp, l.M.Slice(t, src, 0))
		l.M.Assign(dst, l.M.Cast(ir.Int(dst.Type().Bits), tmp))
		return nil
	}
}

func system(name string) rule {
	return func(l *lowerer) error {
		code, err := l.immediate(0)
		if err != nil {
			return err
		}
		l.M.SideEffect(l.Intrinsic(name, ir.Void, l.M.Word32(uint64(code))))
		return nil
	}
}

func rewriteNop(l *lowerer) error {
	l.M.Nop()
	return nil
}

// listRegister is register i of a nanoMIPS register list starting at rt;
// the list wraps from r31 to r16.
func listRegister(rt, i int) int {
	if rt+i < 32 {
		return rt + i
	}
	return rt + i - 16
}

func (l *lowerer) registerList() (frame int64, rt int, count int, err error) {
	if frame, err = l.immediate(0); err != nil {
		return
	}
	r, err := l.Register(1)
	if err != nil {
		return
	}
	n, err := l.immediate(2)
	return frame, r.Number, int(n), err
}

// rewriteSave stores the register list below sp and allocates the frame.
func rewriteSave(l *lowerer) error {
	frame, rt, count, err := l.registerList()
	if err != nil {
		return err
	}
	sp := l.gpr(spReg)
	for i := 0; i < count; i++ {
		slot := l.M.Mem(ir.Word32, l.M.AddS(sp, -int64(i+1)*4))
		l.M.Assign(slot, l.gpr(listRegister(rt, i)))
	}
	l.M.Assign(sp, l.M.SubS(sp, frame))
	return nil
}

func restore(ret bool) rule {
	return func(l *lowerer) error {
		frame, rt, count, err := l.registerList()
		if err != nil {
			return err
		}
		sp := l.gpr(spReg)
		for i := 0; i < count; i++ {
			slot := l.M.Mem(ir.Word32, l.M.AddS(sp, frame-int64(i+1)*4))
			l.M.Assign(l.gpr(listRegister(rt, i)), slot)
		}
		l.M.Assign(sp, l.M.AddS(sp, frame))
		if ret {
			l.M.Return(0, 0)
		}
		return nil
	}
}

// rewriteMovep moves a register pair. A zero register in the source pair
// reads as a constant, so the halves are combined explicitly.
func rewriteMovep(l *lowerer) error {
	var regs [4]*machine.Register
	for i := range regs {
		r, err := l.Register(i)
		if err != nil {
			return err
		}
		regs[i] = r
	}
	dst := l.Binder.EnsureSequence(ir.Word64, regs[0], regs[1])
	var src ir.Expression
	if l.isZeroReg(regs[2]) || l.isZeroReg(regs[3]) {
		src = l.M.Seq(ir.Word64, l.read(regs[2]), l.read(regs[3]))
	} else {
		src = l.Binder.EnsureSequence(ir.Word64, regs[2], regs[3])
	}
	l.M.Assign(dst, src)
	return nil
}

func rewriteLwm(l *lowerer) error {
	rt, err := l.Register(0)
	if err != nil {
		return err
	}
	op, err := l.indirect(1)
	if err != nil {
		return err
	}
	count, err := l.immediate(2)
	if err != nil {
		return err
	}
	for i := 0; i < int(count); i++ {
		ea := l.ea(machine.Indirect{Base: op.Base, Offset: op.Offset + int64(i)*4})
		l.M.Assign(l.gpr(listRegister(rt.Number, i)), l.M.Mem(ir.Word32, ea))
	}
	return nil
}

func rewriteAddiupc(l *lowerer) error {
	dst, err := l.dst(0)
	if err != nil {
		return err
	}
	off, err := l.immediate(1)
	if err != nil {
		return err
	}
	l.M.Assign(dst, l.CodeAddress(l.Next().Add(off)))
	return nil
}

func rewriteMove(l *lowerer) error {
	dst, err := l.dst(0)
	if err != nil {
		return err
	}
	src, err := l.src(1)
	if err != nil {
		return err
	}
	l.M.Assign(dst, src)
	return nil
}

func rewriteNot(l *lowerer) error {
	dst, err := l.dst(0)
	if err != nil {
		return err
	}
	src, err := l.src(1)
	if err != nil {
		return err
	}
	l.M.Assign(dst, l.M.Comp(src))
	return nil
}

var rules rewriter.Table

func init() {
	shl := ir.ExpressionBuilder.Shl
	shr := ir.ExpressionBuilder.Shr
	sar := ir.ExpressionBuilder.Sar

	table := map[machine.Opcode]rule{
		ADD:    alu(rewriter.AddIdentity),
		ADDU:   alu(rewriter.AddIdentity),
		DADD:   alu(rewriter.AddIdentity),
		DADDU:  alu(rewriter.AddIdentity),
		SUB:    alu(rewriter.SubIdentity),
		SUBU:   alu(rewriter.SubIdentity),
		DSUB:   alu(rewriter.SubIdentity),
		DSUBU:  alu(rewriter.SubIdentity),
		AND:    alu(rewriter.AndIdentity),
		ANDI:   alu(rewriter.AndIdentity),
		OR:     alu(rewriter.OrIdentity),
		ORI:    alu(rewriter.OrIdentity),
		XOR:    alu(rewriter.XorIdentity),
		XORI:   alu(rewriter.XorIdentity),
		NOR:    alu(rewriter.NorIdentity),
		ADDI:   rewriteAddImmediate,
		ADDIU:  rewriteAddImmediate,
		DADDI:  rewriteAddImmediate,
		DADDIU: rewriteAddImmediate,
		SLT:    setLess(false),
		SLTI:   setLess(false),
		SLTU:   setLess(true),
		SLTIU:  setLess(true),
		LUI:    rewriteLui,
		LSA:    rewriteLsa,

		SLL:    shiftImmediate(shl, 0),
		SRL:    shiftImmediate(shr, 0),
		SRA:    shiftImmediate(sar, 0),
		DSLL:   shiftImmediate(shl, 0),
		DSRL:   shiftImmediate(shr, 0),
		DSRA:   shiftImmediate(sar, 0),
		DSLL32: shiftImmediate(shl, 32),
		DSRL32: shiftImmediate(shr, 32),
		DSRA32: shiftImmediate(sar, 32),
		SLLV:   alu(shl),
		SRLV:   alu(shr),
		SRAV:   alu(sar),
		DSLLV:  alu(shl),
		DSRLV:  alu(shr),
		DSRAV:  alu(sar),

		MULT:   multiply(64, true),
		MULTU:  multiply(64, false),
		DMULT:  multiply(128, true),
		DMULTU: multiply(128, false),
		MUL:    rewriteMul,
		DIV:    divide(true),
		DIVU:   divide(false),
		DDIV:   divide(true),
		DDIVU:  divide(false),
		MFHI:   moveFrom(hi),
		MFLO:   moveFrom(lo),
		MTHI:   moveTo(hi),
		MTLO:   moveTo(lo),
		MOVN:   moveOnZero(true),
		MOVZ:   moveOnZero(false),
		MOVT:   moveOnFCC(true),
		MOVF:   moveOnFCC(false),

		J:      rewriteJump,
		JAL:    rewriteJumpAndLink,
		JR:     rewriteJr,
		JALR:   rewriteJalr,
		BEQ:    condBranch(eq),
		BEQL:   condBranch(eq),
		BNE:    condBranch(ne),
		BNEL:   condBranch(ne),
		BLEZ:   condBranch(le),
		BLEZL:  condBranch(le),
		BGTZ:   condBranch(gt),
		BGTZL:  condBranch(gt),
		BLTZ:   condBranch(lt),
		BLTZL:  condBranch(lt),
		BGEZ:   condBranch(ge),
		BGEZL:  condBranch(ge),
		BLTZAL: branchAndLink(lt),
		BGEZAL: branchAndLink(ge),

		LB:   load(ir.Int8),
		LBU:  load(ir.UInt8),
		LH:   load(ir.Int16),
		LHU:  load(ir.UInt16),
		LW:   load(ir.Int32),
		LWU:  load(ir.UInt32),
		LD:   load(ir.Int64),
		LWX:  loadIndexed(ir.Int32, 1),
		LHX:  loadIndexed(ir.Int16, 1),
		LBUX: loadIndexed(ir.UInt8, 1),
		LWXS: loadIndexed(ir.Int32, 4),
		SB:   store(ir.Byte),
		SH:   store(ir.Word16),
		SW:   store(ir.Word32),
		SD:   store(ir.Word64),
		SWXS: rewriteSwxs,
		LDC1: floatMove(false),
		SDC1: floatMove(true),
		LWL:  unalignedLoad("__lwl"),
		LWR:  unalignedLoad("__lwr"),
		SWL:  unalignedStore("__swl"),
		SWR:  unalignedStore("__swr"),
		LDL:  unalignedLoad64("__ldl"),
		LDR:  unalignedLoad64("__ldr"),
		SDL:  unalignedStore64("__sdl"),
		SDR:  unalignedStore64("__sdr"),
		LL:   loadLinked("__load_linked_32", ir.Word32),
		LLD:  loadLinked("__load_linked_64", ir.Word64),
		SC:   storeConditional("__store_conditional_32", ir.Word32),
		SCD:  storeConditional("__store_conditional_64", ir.Word64),

		CLZ: rewriteClz,
		EXT: bitField(false),
		INS: bitField(true),
		SEB: signExtend(ir.Byte),
		SEH: signExtend(ir.Word16),

		SYSCALL: system("__syscall"),
		BREAK:   system("__break"),
		SYNC:    system("__sync"),
		NOP:     rewriteNop,

		SAVE:       rewriteSave,
		RESTORE:    restore(false),
		RESTOREJRC: restore(true),
		MOVEP:      rewriteMovep,
		LWM:        rewriteLwm,
		ADDIUPC:    rewriteAddiupc,
		ALUIPC:     rewriteMove,
		NOT:        rewriteNot,
	}
	rules = make(rewriter.Table, len(table))
	for op, r := range table {
		rules[op] = r.lift()
	}
}
