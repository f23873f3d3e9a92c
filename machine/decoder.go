package machine

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/colorfulnotion/lift/common"
	"github.com/colorfulnotion/lift/lifterrors"
	"github.com/colorfulnotion/lift/log"
)

// Decoder drives instruction recognition for one architecture. A Decoder
// holds no per-call state and may be shared; each goroutine brings its own
// WordReader.
type Decoder struct {
	arch   Architecture
	stages []*Tree
	rule   ContinuationRule
	min    int
}

func NewDecoder(arch Architecture) *Decoder {
	return &Decoder{
		arch:   arch,
		stages: arch.Stages(),
		rule:   arch.Continuation(),
		min:    arch.MinInstructionSize(),
	}
}

func (d *Decoder) Architecture() Architecture {
	return d.arch
}

// DecodeOne decodes the instruction at the reader's cursor.
//
// Malformed or truncated encodings never surface as errors: the reader is
// rolled back, then advanced by the minimum instruction size, and an Invalid
// instruction carrying the cause in Err is returned. At end of stream the
// Invalid instruction has Length 0 and Err lifterrors.ErrEndOfStream; a
// trailing fragment shorter than one unit is an Invalid covering it.
// Internal faults, including panics in leaf code, are returned as errors
// carrying the instruction address.
func (d *Decoder) DecodeOne(r *WordReader) (instr *Instruction, err error) {
	start := r.Offset()
	addr := r.AddressOf(start)
	defer func() {
		if rec := recover(); rec != nil {
			r.SetOffset(start)
			instr = nil
			err = lifterrors.AtAddress(uint64(addr), faultFromPanic(rec))
			log.Error(log.DecoderMonitoring, "decoder fault", "arch", d.arch.Name(), "addr", addr, "err", err)
		}
	}()

	head, ok := r.TryReadUnit()
	if !ok && !r.AtEnd() {
		return d.invalid(r, start, 0, fmt.Errorf("%d trailing bytes: %w", r.Remaining(), lifterrors.ErrTruncatedStream)), nil
	}
	if !ok {
		return &Instruction{
			Opcode:   OpInvalid,
			Mnemonic: d.arch.OpcodeName(OpInvalid),
			Class:    Invalid,
			Address:  addr,
			Err:      lifterrors.ErrEndOfStream,
		}, nil
	}

	leaf := ResolveStages(d.stages, head)
	if leaf == nil {
		return d.invalid(r, start, head, fmt.Errorf("word 0x%X: %w", head, lifterrors.ErrMalformedEncoding)), nil
	}

	c := newContinuation(r, d.rule, addr)
	instr, err = d.arch.DecodeLeaf(leaf, head, c)
	if err != nil {
		if lifterrors.IsRecoverable(err) {
			return d.invalid(r, start, head, err), nil
		}
		r.SetOffset(start)
		return nil, lifterrors.AtAddress(uint64(addr), err)
	}
	if instr == nil {
		r.SetOffset(start)
		return nil, lifterrors.AtAddress(uint64(addr), lifterrors.Internalf("leaf for %s returned no instruction", d.arch.OpcodeName(leaf.Opcode)))
	}
	if !instr.IsValid() {
		if instr.Err == nil {
			instr.Err = fmt.Errorf("word 0x%X: %w", head, lifterrors.ErrMalformedEncoding)
		}
		return d.invalid(r, start, head, instr.Err), nil
	}

	instr.Address = addr
	instr.Length = r.Offset() - start
	if instr.Mnemonic == "" {
		instr.Mnemonic = d.arch.OpcodeName(instr.Opcode)
	}
	return instr, nil
}

// invalid rolls the reader back to start and then steps over the minimum
// instruction size, or whatever is left of the image if that is shorter.
func (d *Decoder) invalid(r *WordReader, start int, head uint32, cause error) *Instruction {
	r.SetOffset(start)
	n := min(d.min, r.Remaining())
	r.SetOffset(start + n)
	log.Trace(log.DecoderMonitoring, "invalid encoding", "arch", d.arch.Name(), "addr", r.AddressOf(start), "word", fmt.Sprintf("0x%X", head), "code", lifterrors.GetErrorCodeWithName(cause), "cause", cause)
	return &Instruction{
		Opcode:   OpInvalid,
		Mnemonic: d.arch.OpcodeName(OpInvalid),
		Class:    Invalid,
		Address:  r.AddressOf(start),
		Length:   n,
		Err:      cause,
	}
}

// DecodeAll decodes until the end of the image or the first fault. The
// instructions decoded before a fault are returned alongside it.
func (d *Decoder) DecodeAll(r *WordReader) ([]*Instruction, error) {
	var out []*Instruction
	for {
		instr, err := d.DecodeOne(r)
		if err != nil {
			return out, err
		}
		if errors.Is(instr.Err, lifterrors.ErrEndOfStream) {
			return out, nil
		}
		out = append(out, instr)
	}
}

// Decode decodes a whole image starting at base.
func Decode(arch Architecture, image []byte, base common.Address) ([]*Instruction, error) {
	return NewDecoder(arch).DecodeAll(NewReaderFor(arch, image, base))
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
