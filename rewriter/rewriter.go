package rewriter

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/colorfulnotion/lift/ir"
	"github.com/colorfulnotion/lift/lifterrors"
	"github.com/colorfulnotion/lift/log"
	"github.com/colorfulnotion/lift/machine"
	"golang.org/x/exp/slices"
)

// Rule lowers one instruction through its Context.
type Rule func(c *Context) error

// Table maps every opcode of a family to its rule.
type Table map[machine.Opcode]Rule

// Rewriter lowers decoded instructions to IR. It is stateless; all mutable
// state lives in the Builder and Binder of each call.
type Rewriter struct {
	arch  machine.Architecture
	table Table
}

// New checks that table has a rule for every opcode arch enumerates.
func New(arch machine.Architecture, table Table) (*Rewriter, error) {
	var missing []string
	for _, op := range arch.Opcodes() {
		if _, ok := table[op]; !ok {
			missing = append(missing, arch.OpcodeName(op))
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return nil, lifterrors.Internalf("%s: no rewrite rule for %s", arch.Name(), strings.Join(missing, ", "))
	}
	log.Debug(log.TableMonitoring, "rewrite table complete", "arch", arch.Name(), "rules", len(table))
	return &Rewriter{arch: arch, table: table}, nil
}

// MustNew is New for architecture constructors; a defective table panics.
func MustNew(arch machine.Architecture, table Table) *Rewriter {
	rw, err := New(arch, table)
	if err != nil {
		panic(err)
	}
	return rw
}

func (rw *Rewriter) Architecture() machine.Architecture {
	return rw.arch
}

// Rewrite lowers instr into a fresh cluster using binder for storage.
func (rw *Rewriter) Rewrite(instr *machine.Instruction, binder ir.Binder) (*ir.Cluster, error) {
	m := ir.NewEmitter()
	if err := rw.RewriteWith(instr, m, binder); err != nil {
		return nil, err
	}
	return &ir.Cluster{
		Address:    instr.Address,
		Length:     instr.Length,
		Class:      instr.Class,
		Statements: m.Statements(),
	}, nil
}

// RewriteWith lowers instr through a caller supplied builder and binder.
// Invalid instructions lower to a single invalid statement. Rule faults and
// panics come back wrapped with the instruction address.
func (rw *Rewriter) RewriteWith(instr *machine.Instruction, m ir.Builder, binder ir.Binder) (err error) {
	addr := uint64(instr.Address)
	defer func() {
		if rec := recover(); rec != nil {
			err = lifterrors.AtAddress(addr, faultFromPanic(rec))
			log.Error(log.RewriterMonitoring, "rewrite fault", "arch", rw.arch.Name(), "addr", instr.Address, "instr", instr.String(), "code", lifterrors.GetErrorCodeWithName(err), "err", err)
		}
	}()
	if !instr.IsValid() {
		m.Invalid()
		return nil
	}
	rule, ok := rw.table[instr.Opcode]
	if !ok {
		return lifterrors.AtAddress(addr, lifterrors.Internalf("no rewrite rule for %s", rw.arch.OpcodeName(instr.Opcode)))
	}
	c := &Context{Instr: instr, M: m, Binder: binder, Arch: rw.arch}
	if err := rule(c); err != nil {
		return lifterrors.AtAddress(addr, err)
	}
	log.Trace(log.RewriterMonitoring, "rewrote", "addr", instr.Address, "instr", instr.String())
	return nil
}

// RewriteAll lowers instrs with one shared frame.
func (rw *Rewriter) RewriteAll(instrs []*machine.Instruction) ([]*ir.Cluster, error) {
	frame := ir.NewFrame()
	out := make([]*ir.Cluster, 0, len(instrs))
	for _, instr := range instrs {
		cluster, err := rw.Rewrite(instr, frame)
		if err != nil {
			return out, err
		}
		out = append(out, cluster)
	}
	return out, nil
}

func faultFromPanic(rec interface{}) error {
	switch v := rec.(type) {
	case runtime.Error:
		return fmt.Errorf("%w: %v", lifterrors.ErrUnexpectedRuntime, v)
	case error:
		if lifterrors.IsFatal(v) {
			return v
		}
		return fmt.Errorf("%w: %v", lifterrors.ErrUnexpectedRuntime, v)
	default:
		return fmt.Errorf("%w: %v", lifterrors.ErrUnexpectedRuntime, v)
	}
}
