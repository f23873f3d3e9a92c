package pic18

import (
	"github.com/colorfulnotion/lift/ir"
	"github.com/colorfulnotion/lift/lifterrors"
	"github.com/colorfulnotion/lift/machine"
	"github.com/colorfulnotion/lift/rewriter"
)

// returnAddressLen is the width of a hardware stack entry in bytes.
const returnAddressLen = 3

// NewRewriter returns the lowering for a's family. A missing rule is a
// table defect and panics.
func NewRewriter(a *Architecture) *rewriter.Rewriter {
	return rewriter.MustNew(a, rules)
}

// lowerer is the rule context with the family's data model at hand.
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

func (l *lowerer) reg(r *machine.Register) *ir.Identifier {
	return l.Binder.EnsureRegister(r)
}

func (l *lowerer) flags(g *machine.FlagGroup) *ir.Identifier {
	return l.Binder.EnsureFlagGroup(g)
}

func (l *lowerer) byteConst(v uint64) ir.Expression {
	return l.M.Const(ir.Byte, v)
}

func (l *lowerer) addr16(v uint64) ir.Expression {
	return l.M.Const(ir.Word16, v)
}

// absolute is the data memory cell at addr, or the register it names.
func (l *lowerer) absolute(addr uint32) ir.Expression {
	if uint16(addr)&^0xFF == l.arch.data.sfrPage {
		if r, ok := sfrByLow[uint8(addr)]; ok {
			return l.reg(r)
		}
	}
	return l.M.Mem(ir.Byte, l.addr16(uint64(addr)))
}

// fileReg resolves an 8-bit file register operand through the access bank,
// the indexed literal offset mode or the bank select register.
func (l *lowerer) fileReg(f uint16, access uint8) ir.Expression {
	m := l.M
	if access == 0 {
		switch {
		case l.arch.data.indexed && f < 0x60:
			return m.Mem(ir.Byte, m.Add(l.reg(FSR2), l.addr16(uint64(f))))
		case f < l.arch.data.accessSplit:
			return l.absolute(uint32(f))
		default:
			return l.absolute(uint32(l.arch.data.sfrPage | f))
		}
	}
	bank := m.Shl(m.Cast(ir.Word16, l.reg(BSR)), l.addr16(8))
	return m.Mem(ir.Byte, m.Or(bank, l.addr16(uint64(f))))
}

// stackRel is the byte at FSR2+off.
func (l *lowerer) stackRel(off uint8) ir.Expression {
	return l.M.Mem(ir.Byte, l.M.Add(l.reg(FSR2), l.addr16(uint64(off))))
}

// memDest returns the source file register and the destination selected by
// the d bit.
func (l *lowerer) memDest() (src, dst ir.Expression, err error) {
	op, ok := l.Instr.Op(0).(machine.MemoryDirectWithDest)
	if !ok {
		return nil, nil, l.UnexpectedOperand(0)
	}
	src = l.fileReg(op.Addr, op.Access)
	if op.Dest == 0 {
		return src, l.reg(WREG), nil
	}
	return src, src, nil
}

func (l *lowerer) mem() (ir.Expression, error) {
	op, ok := l.Instr.Op(0).(machine.MemoryDirect)
	if !ok {
		return nil, l.UnexpectedOperand(0)
	}
	return l.fileReg(op.Addr, op.Access), nil
}

func (l *lowerer) memBit() (ir.Expression, ir.Expression, error) {
	op, ok := l.Instr.Op(0).(machine.MemoryBit)
	if !ok {
		return nil, nil, l.UnexpectedOperand(0)
	}
	return l.fileReg(op.Addr, op.Access), l.byteConst(1 << op.Bit), nil
}

func (l *lowerer) imm8() (ir.Expression, error) {
	op, ok := l.Instr.Op(0).(machine.ImmediateByte)
	if !ok {
		return nil, l.UnexpectedOperand(0)
	}
	return l.byteConst(uint64(op.Value)), nil
}

func (l *lowerer) fsrLiteral() (*ir.Identifier, ir.Expression, error) {
	op, ok := l.Instr.Op(0).(machine.FSRLiteral)
	if !ok {
		return nil, nil, l.UnexpectedOperand(0)
	}
	r := fsr(op.FSR)
	if r == nil {
		return nil, nil, l.UnexpectedOperand(0)
	}
	return l.reg(r), l.addr16(uint64(op.Value)), nil
}

func (l *lowerer) setFlags(g *machine.FlagGroup, e ir.Expression) {
	if g != nil {
		l.M.Assign(l.flags(g), l.M.Cond(e))
	}
}

// skip branches over the next program word when cond holds. A two-word
// instruction in the skipped slot has a continuation word there, which the
// core executes as a NOP.
func (l *lowerer) skip(cond ir.Expression) {
	l.M.BranchInMiddleOfInstruction(cond, l.Next().Add(2), machine.ConditionalTransfer)
}

func (l *lowerer) borrow() ir.Expression {
	return l.M.Cast(ir.Byte, l.M.Not(l.flags(C)))
}

// aluOp computes fn(W, f) into the d-selected destination and sets flags.
func aluOp(fn func(l *lowerer, w, f ir.Expression) ir.Expression, flags *machine.FlagGroup) rule {
	return func(l *lowerer) error {
		src, dst, err := l.memDest()
		if err != nil {
			return err
		}
		l.M.Assign(dst, fn(l, l.reg(WREG), src))
		l.setFlags(flags, dst)
		return nil
	}
}

// skipOp steps the file register into the destination and skips on the
// result.
func skipOp(delta int64, skipIfZero bool) rule {
	return func(l *lowerer) error {
		src, dst, err := l.memDest()
		if err != nil {
			return err
		}
		l.M.Assign(dst, l.M.AddS(src, delta))
		zero := l.byteConst(0)
		if skipIfZero {
			l.skip(l.M.Eq(dst, zero))
		} else {
			l.skip(l.M.Ne(dst, zero))
		}
		return nil
	}
}

// compareSkip skips when cmp(f, W) holds.
func compareSkip(cmp func(m ir.ExpressionBuilder, f, w ir.Expression) ir.Expression) rule {
	return func(l *lowerer) error {
		f, err := l.mem()
		if err != nil {
			return err
		}
		l.skip(cmp(l.M, f, l.reg(WREG)))
		return nil
	}
}

// literalOp computes fn(W, k) into W and sets flags.
func literalOp(fn func(l *lowerer, w, k ir.Expression) ir.Expression, flags *machine.FlagGroup) rule {
	return func(l *lowerer) error {
		k, err := l.imm8()
		if err != nil {
			return err
		}
		w := l.reg(WREG)
		l.M.Assign(w, fn(l, w, k))
		l.setFlags(flags, w)
		return nil
	}
}

// bitOp updates one bit of a file register.
func bitOp(fn func(m ir.ExpressionBuilder, f, mask ir.Expression) ir.Expression) rule {
	return func(l *lowerer) error {
		f, mask, err := l.memBit()
		if err != nil {
			return err
		}
		l.M.Assign(f, fn(l.M, f, mask))
		return nil
	}
}

func bitSkip(skipIfSet bool) rule {
	return func(l *lowerer) error {
		f, mask, err := l.memBit()
		if err != nil {
			return err
		}
		tested := l.M.And(f, mask)
		if skipIfSet {
			l.skip(l.M.Ne(tested, l.byteConst(0)))
		} else {
			l.skip(l.M.Eq(tested, l.byteConst(0)))
		}
		return nil
	}
}

var condBranches = map[machine.Opcode]struct {
	cc   ir.ConditionCode
	flag *machine.FlagGroup
}{
	BZ:   {ir.CcEQ, Z},
	BNZ:  {ir.CcNE, Z},
	BC:   {ir.CcULT, C},
	BNC:  {ir.CcUGE, C},
	BOV:  {ir.CcOV, OV},
	BNOV: {ir.CcNO, OV},
	BN:   {ir.CcLT, N},
	BNN:  {ir.CcGE, N},
}

func rewriteCondBranch(l *lowerer) error {
	cb, ok := condBranches[l.Instr.Opcode]
	if !ok {
		return lifterrors.Internalf("%s is not a conditional branch", l.Instr.Mnemonic)
	}
	target, err := l.Target(0)
	if err != nil {
		return err
	}
	l.M.Branch(l.M.Test(cb.cc, l.flags(cb.flag)), target, machine.ConditionalTransfer)
	return nil
}

func rewriteGoto(l *lowerer) error {
	target, err := l.Target(0)
	if err != nil {
		return err
	}
	l.M.Goto(l.CodeAddress(target))
	return nil
}

// saveShadow copies the fast register stack on a CALL with s=1.
func (l *lowerer) saveShadow() {
	l.M.Assign(l.reg(WS), l.reg(WREG))
	l.M.Assign(l.reg(STATUSS), l.reg(STATUS))
	l.M.Assign(l.reg(BSRS), l.reg(BSR))
}

func (l *lowerer) restoreShadow() {
	l.M.Assign(l.reg(WREG), l.reg(WS))
	l.M.Assign(l.reg(STATUS), l.reg(STATUSS))
	l.M.Assign(l.reg(BSR), l.reg(BSRS))
}

func rewriteCall(l *lowerer) error {
	target, err := l.Target(0)
	if err != nil {
		return err
	}
	if s, ok := l.Instr.Op(1).(machine.ShadowFlag); ok && s.Fast {
		l.saveShadow()
	}
	l.M.Call(l.CodeAddress(target), returnAddressLen)
	return nil
}

func rewriteReturn(l *lowerer) error {
	s, ok := l.Instr.Op(0).(machine.ShadowFlag)
	if !ok {
		return l.UnexpectedOperand(0)
	}
	if s.Fast {
		l.restoreShadow()
	}
	l.M.Return(returnAddressLen, 0)
	return nil
}

func sideEffect(name string, args func(l *lowerer) []ir.Expression) rule {
	return func(l *lowerer) error {
		var a []ir.Expression
		if args != nil {
			a = args(l)
		}
		l.M.SideEffect(l.Intrinsic(name, ir.Void, a...))
		return nil
	}
}

func rewriteTable(read bool) rule {
	return func(l *lowerer) error {
		op, ok := l.Instr.Op(0).(machine.TableMode)
		if !ok {
			return l.UnexpectedOperand(0)
		}
		m := l.M
		ptr := l.reg(TBLPTR)
		step := func(n int64) { m.Assign(ptr, m.AddS(ptr, n)) }
		if op.Mode == 3 {
			step(1)
		}
		if read {
			m.Assign(l.reg(TABLAT), l.Intrinsic("__tblrd", ir.Byte, ptr))
		} else {
			m.SideEffect(l.Intrinsic("__tblwt", ir.Void, ptr, l.reg(TABLAT)))
		}
		switch op.Mode {
		case 1:
			step(1)
		case 2:
			step(-1)
		}
		return nil
	}
}

func (l *lowerer) moveData(src, dst ir.Expression) {
	l.M.Assign(dst, src)
}

func rewriteMovff(l *lowerer) error {
	op, ok := l.Instr.Op(0).(machine.MemoryToMemory)
	if !ok {
		return l.UnexpectedOperand(0)
	}
	l.moveData(l.absolute(op.Src), l.absolute(op.Dst))
	return nil
}

func rewriteMovsf(l *lowerer) error {
	zs, ok := l.Instr.Op(0).(machine.StackRelative)
	if !ok {
		return l.UnexpectedOperand(0)
	}
	switch dst := l.Instr.Op(1).(type) {
	case machine.DataAddress:
		l.moveData(l.stackRel(zs.Offset), l.absolute(dst.Addr))
	case machine.StackRelative:
		l.moveData(l.stackRel(zs.Offset), l.stackRel(dst.Offset))
	default:
		return l.UnexpectedOperand(1)
	}
	return nil
}

func fsrArith(sub bool) rule {
	return func(l *lowerer) error {
		r, k, err := l.fsrLiteral()
		if err != nil {
			return err
		}
		if sub {
			l.M.Assign(r, l.M.Sub(r, k))
		} else {
			l.M.Assign(r, l.M.Add(r, k))
		}
		return nil
	}
}

func ulnk(sub bool) rule {
	return func(l *lowerer) error {
		op, ok := l.Instr.Op(0).(machine.ImmediateByte)
		if !ok {
			return l.UnexpectedOperand(0)
		}
		r := l.reg(FSR2)
		k := l.addr16(uint64(op.Value))
		if sub {
			l.M.Assign(r, l.M.Sub(r, k))
		} else {
			l.M.Assign(r, l.M.Add(r, k))
		}
		l.M.Return(returnAddressLen, 0)
		return nil
	}
}

func add(l *lowerer, a, b ir.Expression) ir.Expression { return l.M.Add(a, b) }
func and(l *lowerer, a, b ir.Expression) ir.Expression { return l.M.And(a, b) }
func or(l *lowerer, a, b ir.Expression) ir.Expression  { return l.M.Or(a, b) }
func xor(l *lowerer, a, b ir.Expression) ir.Expression { return l.M.Xor(a, b) }

func rotate(name string, carry bool) func(l *lowerer, w, f ir.Expression) ir.Expression {
	return func(l *lowerer, _, f ir.Expression) ir.Expression {
		if carry {
			return l.Intrinsic(name, ir.Byte, f, l.byteConst(1), l.flags(C))
		}
		return l.Intrinsic(name, ir.Byte, f, l.byteConst(1))
	}
}

var rules rewriter.Table

func init() {
	r := map[machine.Opcode]rule{
		ADDWF:  aluOp(add, CDCZOVN),
		ADDWFC: aluOp(func(l *lowerer, w, f ir.Expression) ir.Expression { return l.M.Add(l.M.Add(w, f), l.M.Cast(ir.Byte, l.flags(C))) }, CDCZOVN),
		ANDWF:  aluOp(and, ZN),
		COMF:   aluOp(func(l *lowerer, _, f ir.Expression) ir.Expression { return l.M.Comp(f) }, ZN),
		DECF:   aluOp(func(l *lowerer, _, f ir.Expression) ir.Expression { return l.M.AddS(f, -1) }, CDCZOVN),
		INCF:   aluOp(func(l *lowerer, _, f ir.Expression) ir.Expression { return l.M.AddS(f, 1) }, CDCZOVN),
		IORWF:  aluOp(or, ZN),
		MOVF:   aluOp(func(_ *lowerer, _, f ir.Expression) ir.Expression { return f }, ZN),
		RLCF:   aluOp(rotate("__rcl", true), CZN),
		RLNCF:  aluOp(rotate("__rol", false), ZN),
		RRCF:   aluOp(rotate("__rcr", true), CZN),
		RRNCF:  aluOp(rotate("__ror", false), ZN),
		SUBFWB: aluOp(func(l *lowerer, w, f ir.Expression) ir.Expression { return l.M.Sub(l.M.Sub(w, f), l.borrow()) }, CDCZOVN),
		SUBWF:  aluOp(func(l *lowerer, w, f ir.Expression) ir.Expression { return l.M.Sub(f, w) }, CDCZOVN),
		SUBWFB: aluOp(func(l *lowerer, w, f ir.Expression) ir.Expression { return l.M.Sub(l.M.Sub(f, w), l.borrow()) }, CDCZOVN),
		SWAPF:  aluOp(func(l *lowerer, _, f ir.Expression) ir.Expression { return l.Intrinsic("__swapf", ir.Byte, f) }, nil),
		XORWF:  aluOp(xor, ZN),

		DECFSZ: skipOp(-1, true),
		DCFSNZ: skipOp(-1, false),
		INCFSZ: skipOp(1, true),
		INFSNZ: skipOp(1, false),

		CPFSEQ: compareSkip(func(m ir.ExpressionBuilder, f, w ir.Expression) ir.Expression { return m.Eq(f, w) }),
		CPFSGT: compareSkip(func(m ir.ExpressionBuilder, f, w ir.Expression) ir.Expression { return m.Ugt(f, w) }),
		CPFSLT: compareSkip(func(m ir.ExpressionBuilder, f, w ir.Expression) ir.Expression { return m.Ult(f, w) }),
		TSTFSZ: func(l *lowerer) error {
			f, err := l.mem()
			if err != nil {
				return err
			}
			l.skip(l.M.Eq(f, l.byteConst(0)))
			return nil
		},
		CLRF: func(l *lowerer) error {
			f, err := l.mem()
			if err != nil {
				return err
			}
			l.M.Assign(f, l.byteConst(0))
			l.M.Assign(l.flags(Z), l.M.True())
			return nil
		},
		SETF: func(l *lowerer) error {
			f, err := l.mem()
			if err != nil {
				return err
			}
			l.M.Assign(f, l.byteConst(0xFF))
			return nil
		},
		MOVWF: func(l *lowerer) error {
			f, err := l.mem()
			if err != nil {
				return err
			}
			l.M.Assign(f, l.reg(WREG))
			return nil
		},
		NEGF: func(l *lowerer) error {
			f, err := l.mem()
			if err != nil {
				return err
			}
			l.M.Assign(f, l.M.Neg(f))
			l.setFlags(CDCZOVN, f)
			return nil
		},
		MULWF: func(l *lowerer) error {
			f, err := l.mem()
			if err != nil {
				return err
			}
			prod := l.Binder.EnsureSequence(ir.Word16, PRODH, PRODL)
			l.M.Assign(prod, l.M.UMul(ir.Word16, l.reg(WREG), f))
			return nil
		},

		BCF:   bitOp(func(m ir.ExpressionBuilder, f, mask ir.Expression) ir.Expression { return m.And(f, m.Comp(mask)) }),
		BSF:   bitOp(func(m ir.ExpressionBuilder, f, mask ir.Expression) ir.Expression { return m.Or(f, mask) }),
		BTG:   bitOp(func(m ir.ExpressionBuilder, f, mask ir.Expression) ir.Expression { return m.Xor(f, mask) }),
		BTFSC: bitSkip(false),
		BTFSS: bitSkip(true),

		ADDLW: literalOp(add, CDCZOVN),
		ANDLW: literalOp(and, ZN),
		IORLW: literalOp(or, ZN),
		XORLW: literalOp(xor, ZN),
		SUBLW: literalOp(func(l *lowerer, w, k ir.Expression) ir.Expression { return l.M.Sub(k, w) }, CDCZOVN),
		MOVLW: literalOp(func(_ *lowerer, _, k ir.Expression) ir.Expression { return k }, nil),
		RETLW: func(l *lowerer) error {
			k, err := l.imm8()
			if err != nil {
				return err
			}
			l.M.Assign(l.reg(WREG), k)
			l.M.Return(returnAddressLen, 0)
			return nil
		},
		MULLW: func(l *lowerer) error {
			k, err := l.imm8()
			if err != nil {
				return err
			}
			prod := l.Binder.EnsureSequence(ir.Word16, PRODH, PRODL)
			l.M.Assign(prod, l.M.UMul(ir.Word16, l.reg(WREG), k))
			return nil
		},
		MOVLB: func(l *lowerer) error {
			k, err := l.imm8()
			if err != nil {
				return err
			}
			l.M.Assign(l.reg(BSR), k)
			return nil
		},
		LFSR: func(l *lowerer) error {
			r, k, err := l.fsrLiteral()
			if err != nil {
				return err
			}
			l.M.Assign(r, k)
			return nil
		},

		BC:    rewriteCondBranch,
		BN:    rewriteCondBranch,
		BNC:   rewriteCondBranch,
		BNN:   rewriteCondBranch,
		BNOV:  rewriteCondBranch,
		BNZ:   rewriteCondBranch,
		BOV:   rewriteCondBranch,
		BZ:    rewriteCondBranch,
		BRA:   rewriteGoto,
		GOTO:  rewriteGoto,
		CALL:  rewriteCall,
		RCALL: func(l *lowerer) error {
			target, err := l.Target(0)
			if err != nil {
				return err
			}
			l.M.Call(l.CodeAddress(target), returnAddressLen)
			return nil
		},
		RETURN: rewriteReturn,
		RETFIE: rewriteReturn,
		RESET: func(l *lowerer) error {
			l.M.SideEffect(l.Intrinsic("__reset", ir.Void))
			l.M.Goto(l.CodeAddress(0))
			return nil
		},

		NOP:    func(l *lowerer) error { l.M.Nop(); return nil },
		SLEEP:  sideEffect("__sleep", nil),
		CLRWDT: sideEffect("__clrwdt", nil),
		PUSH: sideEffect("__push", func(l *lowerer) []ir.Expression {
			return []ir.Expression{l.CodeAddress(l.Next())}
		}),
		POP: sideEffect("__pop", nil),
		DAW: func(l *lowerer) error {
			w := l.reg(WREG)
			l.M.Assign(w, l.Intrinsic("__daw", ir.Byte, w, l.flags(C), l.flags(DC)))
			l.setFlags(C, w)
			return nil
		},
		TBLRD: rewriteTable(true),
		TBLWT: rewriteTable(false),
		MOVFF: rewriteMovff,

		ADDFSR:  fsrArith(false),
		SUBFSR:  fsrArith(true),
		ADDULNK: ulnk(false),
		SUBULNK: ulnk(true),
		PUSHL: func(l *lowerer) error {
			k, err := l.imm8()
			if err != nil {
				return err
			}
			sp := l.reg(FSR2)
			l.M.Assign(l.M.Mem(ir.Byte, sp), k)
			l.M.Assign(sp, l.M.AddS(sp, -1))
			return nil
		},
		MOVSF: rewriteMovsf,
		MOVSS: rewriteMovsf,
		CALLW: func(l *lowerer) error {
			target := l.M.Seq(ir.Word24, l.reg(PCLATU), l.reg(PCLATH), l.reg(WREG))
			l.M.Call(target, returnAddressLen)
			return nil
		},

		MOVFFL: rewriteMovff,
		MOVSFL: rewriteMovsf,
	}
	// Data directives are not executable.
	for _, op := range directives {
		r[op] = func(l *lowerer) error { l.M.Invalid(); return nil }
	}

	rules = make(rewriter.Table, len(r))
	for op, fn := range r {
		rules[op] = fn.lift()
	}
}
