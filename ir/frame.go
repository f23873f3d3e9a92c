package ir

import (
	"fmt"
	"strings"

	"github.com/colorfulnotion/lift/machine"
)

// Frame is the concrete Binder. It hands out one identifier per storage so
// that repeated lookups compare equal by pointer. A Frame belongs to a single
// rewriting task.
type Frame struct {
	regs  map[*machine.Register]*Identifier
	flags map[*machine.FlagGroup]*Identifier
	seqs  map[string]*Identifier
	temps []*Identifier
}

func NewFrame() *Frame {
	return &Frame{
		regs:  make(map[*machine.Register]*Identifier),
		flags: make(map[*machine.FlagGroup]*Identifier),
		seqs:  make(map[string]*Identifier),
	}
}

func registerType(bits int) PrimitiveType {
	if bits == 1 {
		return Bool
	}
	return Word(bits)
}

func (f *Frame) EnsureRegister(reg *machine.Register) *Identifier {
	if id, ok := f.regs[reg]; ok {
		return id
	}
	id := &Identifier{Name: reg.Name, T: registerType(reg.Bits), Storage: RegisterStorage{Reg: reg}}
	f.regs[reg] = id
	return id
}

func (f *Frame) EnsureFlagGroup(grp *machine.FlagGroup) *Identifier {
	if id, ok := f.flags[grp]; ok {
		return id
	}
	t := Byte
	if isSingleBit(grp.Mask) {
		t = Bool
	}
	id := &Identifier{Name: grp.Name, T: t, Storage: FlagStorage{Group: grp}}
	f.flags[grp] = id
	return id
}

func isSingleBit(mask uint32) bool {
	return mask != 0 && mask&(mask-1) == 0
}

// EnsureSequence returns the identifier for regs read as one value, most
// significant register first. Its name joins the register names with '_'.
func (f *Frame) EnsureSequence(t PrimitiveType, regs ...*machine.Register) *Identifier {
	names := make([]string, len(regs))
	for i, r := range regs {
		names[i] = r.Name
	}
	name := strings.Join(names, "_")
	if id, ok := f.seqs[name]; ok {
		return id
	}
	elems := append([]*machine.Register(nil), regs...)
	id := &Identifier{Name: name, T: t, Storage: SequenceStorage{Elements: elems}}
	f.seqs[name] = id
	return id
}

func (f *Frame) CreateTemporary(t PrimitiveType) *Identifier {
	n := len(f.temps)
	id := &Identifier{Name: fmt.Sprintf("v%d", n+1), T: t, Storage: TemporaryStorage{Number: n}}
	f.temps = append(f.temps, id)
	return id
}

// Temporaries returns the temporaries created so far.
func (f *Frame) Temporaries() []*Identifier {
	return f.temps
}
