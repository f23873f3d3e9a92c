package ir

import (
	"fmt"
	"strings"

	"github.com/colorfulnotion/lift/machine"
)

// Expression is an IR value. The concrete set is closed: *Constant,
// *Identifier, *Binary, *Unary, *Cast, *Slice, *MemoryAccess, *MkSequence,
// *Application, *ConditionOf and *TestCondition.
type Expression interface {
	Type() PrimitiveType
	String() string
	expr()
}

type Constant struct {
	T     PrimitiveType
	Value uint64
}

// Storage says where an identifier lives.
type Storage interface {
	storage()
}

type RegisterStorage struct{ Reg *machine.Register }
type FlagStorage struct{ Group *machine.FlagGroup }
type SequenceStorage struct{ Elements []*machine.Register }
type TemporaryStorage struct{ Number int }

func (RegisterStorage) storage()  {}
func (FlagStorage) storage()      {}
func (SequenceStorage) storage()  {}
func (TemporaryStorage) storage() {}

type Identifier struct {
	Name    string
	T       PrimitiveType
	Storage Storage
}

type Binary struct {
	Op    Operator
	T     PrimitiveType
	Left  Expression
	Right Expression
}

type Unary struct {
	Op      Operator
	T       PrimitiveType
	Operand Expression
}

type Cast struct {
	T    PrimitiveType
	Expr Expression
}

// Slice extracts T.Bits bits of Expr starting at bit Offset.
type Slice struct {
	T      PrimitiveType
	Expr   Expression
	Offset int
}

type MemoryAccess struct {
	T  PrimitiveType
	EA Expression
}

// MkSequence concatenates Parts, most significant first.
type MkSequence struct {
	T     PrimitiveType
	Parts []Expression
}

// Intrinsic is a named operation the IR treats as opaque with a known
// signature.
type Intrinsic struct {
	Name       string
	ReturnType PrimitiveType
}

type Application struct {
	Fn   *Intrinsic
	Args []Expression
}

// ConditionOf is the condition codes an expression sets.
type ConditionOf struct {
	Expr Expression
}

// TestCondition tests a condition code against a flag group.
type TestCondition struct {
	CC   ConditionCode
	Expr Expression
}

func (*Constant) expr()      {}
func (*Identifier) expr()    {}
func (*Binary) expr()        {}
func (*Unary) expr()         {}
func (*Cast) expr()          {}
func (*Slice) expr()         {}
func (*MemoryAccess) expr()  {}
func (*MkSequence) expr()    {}
func (*Application) expr()   {}
func (*ConditionOf) expr()   {}
func (*TestCondition) expr() {}

func (c *Constant) Type() PrimitiveType      { return c.T }
func (id *Identifier) Type() PrimitiveType   { return id.T }
func (b *Binary) Type() PrimitiveType        { return b.T }
func (u *Unary) Type() PrimitiveType         { return u.T }
func (c *Cast) Type() PrimitiveType          { return c.T }
func (s *Slice) Type() PrimitiveType         { return s.T }
func (m *MemoryAccess) Type() PrimitiveType  { return m.T }
func (s *MkSequence) Type() PrimitiveType    { return s.T }
func (a *Application) Type() PrimitiveType   { return a.Fn.ReturnType }
func (c *ConditionOf) Type() PrimitiveType   { return Byte }
func (t *TestCondition) Type() PrimitiveType { return Bool }

func (c *Constant) IsZero() bool {
	return c.Value == 0
}

func (c *Constant) IsAllOnes() bool {
	return c.T.Bits > 0 && c.Value == c.T.Mask()
}

// Signed returns the value sign-extended from its type width.
func (c *Constant) Signed() int64 {
	if c.T.Bits == 0 || c.T.Bits >= 64 {
		return int64(c.Value)
	}
	shift := uint(64 - c.T.Bits)
	return int64(c.Value<<shift) >> shift
}

// IsZero reports whether e is the literal constant zero.
func IsZero(e Expression) bool {
	c, ok := e.(*Constant)
	return ok && c.IsZero()
}

// IsAllOnes reports whether e is a constant with every bit set.
func IsAllOnes(e Expression) bool {
	c, ok := e.(*Constant)
	return ok && c.IsAllOnes()
}

func (c *Constant) String() string {
	if c.T.Domain == DomainBool {
		if c.Value != 0 {
			return "true"
		}
		return "false"
	}
	if c.T.IsSigned() {
		if v := c.Signed(); v < 0 {
			return fmt.Sprintf("-0x%X", -v)
		}
	}
	return fmt.Sprintf("0x%X", c.Value)
}

func (id *Identifier) String() string { return id.Name }

func wrap(e Expression) string {
	switch e.(type) {
	case *Binary:
		return "(" + e.String() + ")"
	}
	return e.String()
}

func (b *Binary) String() string {
	return wrap(b.Left) + " " + b.Op.String() + " " + wrap(b.Right)
}

func (u *Unary) String() string {
	return u.Op.String() + wrap(u.Operand)
}

func (c *Cast) String() string {
	return fmt.Sprintf("(%s) %s", c.T, wrap(c.Expr))
}

func (s *Slice) String() string {
	return fmt.Sprintf("SLICE(%s, %s, %d)", s.Expr, s.T, s.Offset)
}

func (m *MemoryAccess) String() string {
	return fmt.Sprintf("Mem[%s:%s]", m.EA, m.T)
}

func joinExprs(es []Expression) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}

func (s *MkSequence) String() string {
	return "SEQ(" + joinExprs(s.Parts) + ")"
}

func (a *Application) String() string {
	return a.Fn.Name + "(" + joinExprs(a.Args) + ")"
}

func (c *ConditionOf) String() string {
	return "cond(" + c.Expr.String() + ")"
}

func (t *TestCondition) String() string {
	return fmt.Sprintf("Test(%s,%s)", t.CC, t.Expr)
}
