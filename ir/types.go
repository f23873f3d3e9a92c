package ir

import "fmt"

// Domain is the interpretation of a primitive value's bits.
type Domain uint8

const (
	DomainWord Domain = iota // untyped bits
	DomainSigned
	DomainUnsigned
	DomainBool
	DomainPointer
	DomainReal
	DomainVoid
)

// PrimitiveType is a sized value type.
type PrimitiveType struct {
	Domain Domain
	Bits   int
}

var (
	Void    = PrimitiveType{DomainVoid, 0}
	Bool    = PrimitiveType{DomainBool, 1}
	Byte    = PrimitiveType{DomainWord, 8}
	Word16  = PrimitiveType{DomainWord, 16}
	Word24  = PrimitiveType{DomainWord, 24}
	Word32  = PrimitiveType{DomainWord, 32}
	Word64  = PrimitiveType{DomainWord, 64}
	Word128 = PrimitiveType{DomainWord, 128}
	Int8    = PrimitiveType{DomainSigned, 8}
	Int16   = PrimitiveType{DomainSigned, 16}
	Int32   = PrimitiveType{DomainSigned, 32}
	Int64   = PrimitiveType{DomainSigned, 64}
	UInt8   = PrimitiveType{DomainUnsigned, 8}
	UInt16  = PrimitiveType{DomainUnsigned, 16}
	UInt32  = PrimitiveType{DomainUnsigned, 32}
	UInt64  = PrimitiveType{DomainUnsigned, 64}
	Ptr32   = PrimitiveType{DomainPointer, 32}
	Real64  = PrimitiveType{DomainReal, 64}
)

func Word(bits int) PrimitiveType { return PrimitiveType{DomainWord, bits} }

func Int(bits int) PrimitiveType { return PrimitiveType{DomainSigned, bits} }

func UInt(bits int) PrimitiveType { return PrimitiveType{DomainUnsigned, bits} }

// Size is the byte size, rounded up.
func (t PrimitiveType) Size() int {
	return (t.Bits + 7) / 8
}

func (t PrimitiveType) IsSigned() bool {
	return t.Domain == DomainSigned
}

// Mask is the all-ones value of t, for widths up to 64 bits.
func (t PrimitiveType) Mask() uint64 {
	if t.Bits >= 64 {
		return ^uint64(0)
	}
	return 1<<uint(t.Bits) - 1
}

func (t PrimitiveType) String() string {
	switch t.Domain {
	case DomainVoid:
		return "void"
	case DomainBool:
		return "bool"
	case DomainSigned:
		return fmt.Sprintf("int%d", t.Bits)
	case DomainUnsigned:
		return fmt.Sprintf("uint%d", t.Bits)
	case DomainPointer:
		return fmt.Sprintf("ptr%d", t.Bits)
	case DomainReal:
		return fmt.Sprintf("real%d", t.Bits)
	default:
		if t.Bits == 8 {
			return "byte"
		}
		return fmt.Sprintf("word%d", t.Bits)
	}
}

func (t PrimitiveType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}
