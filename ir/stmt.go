package ir

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/colorfulnotion/lift/common"
	"github.com/colorfulnotion/lift/machine"
)

// Statement is one IR operation: *Assign, *SideEffect, *Branch, *Goto,
// *Call, *Return, *Nop or *InvalidStmt.
type Statement interface {
	String() string
	Kind() string
	stmt()
}

type Assign struct {
	Dst Expression
	Src Expression
}

type SideEffect struct {
	Expr Expression
}

// Branch transfers to Target when Cond holds. InMiddle marks a branch that
// skips the rest of its own instruction's statements.
type Branch struct {
	Cond     Expression
	Target   common.Address
	Class    machine.InstrClass
	InMiddle bool
}

type Goto struct {
	Target Expression
}

// Call pushes a return address of ReturnAddressLen bytes, or none when the
// architecture keeps it in a register.
type Call struct {
	Target           Expression
	ReturnAddressLen int
}

type Return struct {
	ReturnAddressLen int
	ExtraBytes       int
}

type Nop struct{}

type InvalidStmt struct{}

func (*Assign) stmt()      {}
func (*SideEffect) stmt()  {}
func (*Branch) stmt()      {}
func (*Goto) stmt()        {}
func (*Call) stmt()        {}
func (*Return) stmt()      {}
func (*Nop) stmt()         {}
func (*InvalidStmt) stmt() {}

func (*Assign) Kind() string      { return "assign" }
func (*SideEffect) Kind() string  { return "side_effect" }
func (*Branch) Kind() string      { return "branch" }
func (*Goto) Kind() string        { return "goto" }
func (*Call) Kind() string        { return "call" }
func (*Return) Kind() string      { return "return" }
func (*Nop) Kind() string         { return "nop" }
func (*InvalidStmt) Kind() string { return "invalid" }

func (s *Assign) String() string { return s.Dst.String() + " = " + s.Src.String() }

func (s *SideEffect) String() string { return s.Expr.String() }

func (s *Branch) String() string {
	return fmt.Sprintf("if (%s) branch %s", s.Cond, s.Target)
}

func (s *Goto) String() string { return "goto " + s.Target.String() }

func (s *Call) String() string {
	return fmt.Sprintf("call %s (%d)", s.Target, s.ReturnAddressLen)
}

func (s *Return) String() string {
	return fmt.Sprintf("return (%d,%d)", s.ReturnAddressLen, s.ExtraBytes)
}

func (*Nop) String() string { return "nop" }

func (*InvalidStmt) String() string { return "<invalid>" }

// Cluster is the IR produced for one instruction.
type Cluster struct {
	Address    common.Address
	Length     int
	Class      machine.InstrClass
	Statements []Statement
}

func (c *Cluster) String() string {
	lines := make([]string, len(c.Statements))
	for i, s := range c.Statements {
		lines[i] = s.String()
	}
	return strings.Join(lines, "\n")
}

type jsonStatement struct {
	Kind     string `json:"kind"`
	Text     string `json:"text"`
	InMiddle bool   `json:"in_middle,omitempty"`
}

type jsonCluster struct {
	Address    common.Address     `json:"address"`
	Length     int                `json:"length"`
	Class      machine.InstrClass `json:"class"`
	Statements []jsonStatement    `json:"statements"`
}

// MarshalJSON renders the cluster with one entry per statement.
func (c *Cluster) MarshalJSON() ([]byte, error) {
	out := jsonCluster{
		Address:    c.Address,
		Length:     c.Length,
		Class:      c.Class,
		Statements: make([]jsonStatement, len(c.Statements)),
	}
	for i, s := range c.Statements {
		js := jsonStatement{Kind: s.Kind(), Text: s.String()}
		if b, ok := s.(*Branch); ok {
			js.InMiddle = b.InMiddle
		}
		out.Statements[i] = js
	}
	return json.Marshal(out)
}
