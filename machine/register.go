package machine

// Register is a named architectural register handle. Handles are created once
// by the architecture package and compared by pointer.
type Register struct {
	Name   string
	Number int
	Bits   int
}

func (r *Register) String() string {
	return r.Name
}

// FlagGroup is a set of status bits living in one flag register.
type FlagGroup struct {
	Name string
	Reg  *Register
	Mask uint32
}

func (f *FlagGroup) String() string {
	return f.Name
}

// RegisterFile indexes a family's registers by number.
type RegisterFile []*Register

// Get returns register n or nil when n is out of range.
func (rf RegisterFile) Get(n int) *Register {
	if n < 0 || n >= len(rf) {
		return nil
	}
	return rf[n]
}

// NewRegisterFile builds count registers named by name(i).
func NewRegisterFile(count, bits int, name func(i int) string) RegisterFile {
	rf := make(RegisterFile, count)
	for i := range rf {
		rf[i] = &Register{Name: name(i), Number: i, Bits: bits}
	}
	return rf
}
