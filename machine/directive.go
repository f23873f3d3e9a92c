package machine

import (
	"fmt"

	"github.com/colorfulnotion/lift/common"
	"github.com/colorfulnotion/lift/lifterrors"
	"github.com/colorfulnotion/lift/log"
)

// DirectiveKind names a data directive decoded over non-code regions.
type DirectiveKind uint8

const (
	DirectiveDE     DirectiveKind = iota // EEPROM byte list
	DirectiveDB                          // single byte
	DirectiveDA                          // single ASCII character
	DirectiveDW                          // single 16-bit word
	DirectiveIDLOCS                      // user ID location byte
	DirectiveCONFIG                      // configuration bit-field byte
	DirectiveDCI                         // device configuration information
	DirectiveDIA                         // device information area
	DirectiveREVID                       // revision ID
	DirectiveDT                          // data table
	DirectiveDTM                         // data table, mixed
)

var directiveNames = map[DirectiveKind]string{
	DirectiveDE:     "DE",
	DirectiveDB:     "DB",
	DirectiveDA:     "DA",
	DirectiveDW:     "DW",
	DirectiveIDLOCS: "IDLOCS",
	DirectiveCONFIG: "CONFIG",
	DirectiveDCI:    "DCI",
	DirectiveDIA:    "DIA",
	DirectiveREVID:  "REVID",
	DirectiveDT:     "DT",
	DirectiveDTM:    "DTM",
}

func (k DirectiveKind) String() string {
	if name, ok := directiveNames[k]; ok {
		return name
	}
	return fmt.Sprintf("directive(%d)", uint8(k))
}

// DataDirective is the single operand of a directive instruction.
type DataDirective struct {
	Kind  DirectiveKind
	Bytes []byte
}

func (DataDirective) operand() {}

func (o DataDirective) String() string {
	s := ""
	for i, b := range o.Bytes {
		if i > 0 {
			s += ","
		}
		if o.Kind == DirectiveDA && b >= 0x20 && b < 0x7F {
			s += fmt.Sprintf("'%c'", b)
		} else {
			s += fmt.Sprintf("0x%02X", b)
		}
	}
	return s
}

// Unsupported is returned for directive kinds that have no decoder.
type Unsupported struct {
	Kind DirectiveKind
}

func (u *Unsupported) Error() string {
	return fmt.Sprintf("%s: %v", u.Kind, lifterrors.ErrUnsupportedDirective)
}

func (u *Unsupported) Unwrap() error {
	return lifterrors.ErrUnsupportedDirective
}

// RegionFunc reports whether addr still lies inside the data block being
// decoded.
type RegionFunc func(addr common.Address) bool

// maxDEBytes bounds one EEPROM directive.
const maxDEBytes = 8

// DirectiveDecoder decodes data directives. Opcodes maps each supported kind
// to the family opcode the resulting instruction carries.
type DirectiveDecoder struct {
	Opcodes map[DirectiveKind]Opcode
	Names   func(Opcode) string
}

// Decode reads one directive of the given kind at the cursor. Running out of
// data before the first unit yields an Invalid instruction with the reader
// untouched; kinds without a decoder return *Unsupported.
func (d *DirectiveDecoder) Decode(kind DirectiveKind, r *WordReader, region RegionFunc) (*Instruction, error) {
	op, ok := d.Opcodes[kind]
	if !ok {
		log.Debug(log.DirectiveMonitoring, "unsupported directive", "kind", kind, "addr", r.Address())
		return nil, &Unsupported{Kind: kind}
	}
	start := r.Offset()
	var data []byte
	switch kind {
	case DirectiveDE:
		b, ok := r.TryReadByte()
		if !ok {
			return d.exhausted(r, start, kind), nil
		}
		data = append(data, b)
		for len(data) < maxDEBytes {
			if region == nil || !region(r.Address()) {
				break
			}
			b, ok := r.TryReadByte()
			if !ok {
				break
			}
			data = append(data, b)
		}
	case DirectiveDW:
		w, ok := r.TryReadUint16()
		if !ok {
			return d.exhausted(r, start, kind), nil
		}
		data = common.Words16(r.ByteOrder(), w)
	default:
		b, ok := r.TryReadByte()
		if !ok {
			return d.exhausted(r, start, kind), nil
		}
		data = []byte{b}
	}
	instr := &Instruction{
		Opcode:   op,
		Class:    Linear,
		Address:  r.AddressOf(start),
		Length:   r.Offset() - start,
		Operands: []Operand{DataDirective{Kind: kind, Bytes: data}},
	}
	if d.Names != nil {
		instr.Mnemonic = d.Names(op)
	}
	return instr, nil
}

func (d *DirectiveDecoder) exhausted(r *WordReader, start int, kind DirectiveKind) *Instruction {
	r.SetOffset(start)
	instr := &Instruction{
		Opcode:  OpInvalid,
		Class:   Invalid,
		Address: r.AddressOf(start),
		Err:     fmt.Errorf("%s directive: %w", kind, lifterrors.ErrTruncatedStream),
	}
	if d.Names != nil {
		instr.Mnemonic = d.Names(OpInvalid)
	}
	return instr
}
