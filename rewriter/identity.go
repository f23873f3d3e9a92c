package rewriter

import "github.com/colorfulnotion/lift/ir"

// The helpers below apply the zero-register identities. Operands read from a
// hard-wired zero register arrive as the constant zero, so every binary
// operator that has an identity or absorbing element with zero folds it here
// instead of emitting arithmetic on a literal zero.

// AddIdentity is a+b with x+0 = 0+x = x.
func AddIdentity(m ir.ExpressionBuilder, a, b ir.Expression) ir.Expression {
	switch {
	case ir.IsZero(a):
		return b
	case ir.IsZero(b):
		return a
	}
	return m.Add(a, b)
}

// SubIdentity is a-b with x-0 = x and 0-x = -x.
func SubIdentity(m ir.ExpressionBuilder, a, b ir.Expression) ir.Expression {
	switch {
	case ir.IsZero(b):
		return a
	case ir.IsZero(a):
		return m.Neg(b)
	}
	return m.Sub(a, b)
}

// AndIdentity is a&b with x&0 = 0 and x&allones = x.
func AndIdentity(m ir.ExpressionBuilder, a, b ir.Expression) ir.Expression {
	switch {
	case ir.IsZero(a):
		return m.Const(b.Type(), 0)
	case ir.IsZero(b):
		return m.Const(a.Type(), 0)
	case ir.IsAllOnes(a):
		return b
	case ir.IsAllOnes(b):
		return a
	}
	return m.And(a, b)
}

// OrIdentity is a|b with x|0 = x.
func OrIdentity(m ir.ExpressionBuilder, a, b ir.Expression) ir.Expression {
	switch {
	case ir.IsZero(a):
		return b
	case ir.IsZero(b):
		return a
	}
	return m.Or(a, b)
}

// XorIdentity is a^b with x^0 = x.
func XorIdentity(m ir.ExpressionBuilder, a, b ir.Expression) ir.Expression {
	switch {
	case ir.IsZero(a):
		return b
	case ir.IsZero(b):
		return a
	}
	return m.Xor(a, b)
}

// NorIdentity is ~(a|b) with the OR identity applied first.
func NorIdentity(m ir.ExpressionBuilder, a, b ir.Expression) ir.Expression {
	return m.Comp(OrIdentity(m, a, b))
}
