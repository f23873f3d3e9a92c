// Package arch maps configured architecture names onto decoder and
// rewriter pairs.
package arch

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/colorfulnotion/lift/arch/mips"
	"github.com/colorfulnotion/lift/arch/pic18"
	"github.com/colorfulnotion/lift/arch/sparc"
	"github.com/colorfulnotion/lift/common"
	"github.com/colorfulnotion/lift/config"
	"github.com/colorfulnotion/lift/ir"
	"github.com/colorfulnotion/lift/log"
	"github.com/colorfulnotion/lift/machine"
	"github.com/colorfulnotion/lift/rewriter"
)

type factory func(opts config.Options) (machine.Architecture, *rewriter.Rewriter, error)

var factories = map[string]factory{
	"pic18": func(opts config.Options) (machine.Architecture, *rewriter.Rewriter, error) {
		family := pic18.Legacy
		if opts.Family != "" {
			f, err := pic18.ParseFamily(opts.Family)
			if err != nil {
				return nil, nil, err
			}
			family = f
		}
		a := pic18.NewArchitecture(family)
		return a, pic18.NewRewriter(a), nil
	},
	"mips":   newMips(mips.MIPS32),
	"mips64": newMips(mips.MIPS64),
	"sparc": func(config.Options) (machine.Architecture, *rewriter.Rewriter, error) {
		a := sparc.NewArchitecture()
		return a, sparc.NewRewriter(a), nil
	},
}

func newMips(isa mips.ISA) factory {
	return func(opts config.Options) (machine.Architecture, *rewriter.Rewriter, error) {
		var order binary.ByteOrder = binary.LittleEndian
		if opts.BigEndian {
			order = binary.BigEndian
		}
		a := mips.NewArchitecture(isa, order)
		return a, mips.NewRewriter(a), nil
	}
}

// Names lists the architectures New accepts.
func Names() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New builds the architecture and rewriter selected by opts.Arch.
func New(opts config.Options) (machine.Architecture, *rewriter.Rewriter, error) {
	f, ok := factories[opts.Arch]
	if !ok {
		return nil, nil, fmt.Errorf("unknown architecture %q (want one of %v)", opts.Arch, Names())
	}
	a, rw, err := f(opts)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", opts.Arch, err)
	}
	log.Debug(log.TableMonitoring, "architecture ready", "arch", a.Name(), "opcodes", len(a.Opcodes()))
	return a, rw, nil
}

// Lift decodes image from base and lowers every instruction. Invalid
// encodings lower to invalid clusters; the first internal fault stops the
// walk and is returned with the clusters lifted so far.
func Lift(opts config.Options, image []byte, base common.Address) ([]*machine.Instruction, []*ir.Cluster, error) {
	a, rw, err := New(opts)
	if err != nil {
		return nil, nil, err
	}
	instrs, err := machine.Decode(a, image, base)
	if err != nil {
		return instrs, nil, err
	}
	clusters, err := rw.RewriteAll(instrs)
	return instrs, clusters, err
}
