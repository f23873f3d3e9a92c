package ir

// Operator is a binary or unary IR operator.
type Operator uint8

const (
	OpAdd Operator = iota
	OpSub
	OpMul
	OpSMul
	OpUMul
	OpSDiv
	OpUDiv
	OpSMod
	OpUMod
	OpAnd
	OpOr
	OpXor
	OpShl
	OpShr
	OpSar
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpUlt
	OpUle
	OpUgt
	OpUge
	OpCand
	OpCor

	OpNeg
	OpComp
	OpNot
	OpAddrOf
)

var operatorStrings = map[Operator]string{
	OpAdd:    "+",
	OpSub:    "-",
	OpMul:    "*",
	OpSMul:   "*s",
	OpUMul:   "*u",
	OpSDiv:   "/",
	OpUDiv:   "/u",
	OpSMod:   "%s",
	OpUMod:   "%u",
	OpAnd:    "&",
	OpOr:     "|",
	OpXor:    "^",
	OpShl:    "<<",
	OpShr:    ">>u",
	OpSar:    ">>",
	OpEq:     "==",
	OpNe:     "!=",
	OpLt:     "<",
	OpLe:     "<=",
	OpGt:     ">",
	OpGe:     ">=",
	OpUlt:    "<u",
	OpUle:    "<=u",
	OpUgt:    ">u",
	OpUge:    ">=u",
	OpCand:   "&&",
	OpCor:    "||",
	OpNeg:    "-",
	OpComp:   "~",
	OpNot:    "!",
	OpAddrOf: "&",
}

func (op Operator) String() string {
	if s, ok := operatorStrings[op]; ok {
		return s
	}
	return "?"
}

// IsComparison reports whether op yields a boolean.
func (op Operator) IsComparison() bool {
	return op >= OpEq && op <= OpUge
}

var inverted = map[Operator]Operator{
	OpEq:  OpNe,
	OpNe:  OpEq,
	OpLt:  OpGe,
	OpGe:  OpLt,
	OpLe:  OpGt,
	OpGt:  OpLe,
	OpUlt: OpUge,
	OpUge: OpUlt,
	OpUle: OpUgt,
	OpUgt: OpUle,
}

// ConditionCode is tested against a flag group by TestCondition.
type ConditionCode uint8

const (
	CcEQ ConditionCode = iota
	CcNE
	CcLT
	CcGE
	CcLE
	CcGT
	CcULT
	CcUGE
	CcULE
	CcUGT
	CcOV
	CcNO
	CcSG // sign set
	CcNS // sign clear
	CcALWAYS
	CcNEVER
)

var ccStrings = [...]string{"EQ", "NE", "LT", "GE", "LE", "GT", "ULT", "UGE", "ULE", "UGT", "OV", "NO", "SG", "NS", "ALWAYS", "NEVER"}

func (cc ConditionCode) String() string {
	if int(cc) < len(ccStrings) {
		return ccStrings[cc]
	}
	return "?"
}

// Invert returns the complementary condition. Codes are laid out in
// complementary pairs.
func (cc ConditionCode) Invert() ConditionCode {
	return cc ^ 1
}
