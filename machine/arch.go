package machine

import (
	"encoding/binary"
)

// Architecture describes one instruction-set family to the Decoder.
type Architecture interface {
	Name() string

	// Stages are the decode tree roots, tried in order.
	Stages() []*Tree

	// MinInstructionSize is the byte length of an Invalid placeholder.
	MinInstructionSize() int

	// UnitSize is the byte width of one program word.
	UnitSize() int

	ByteOrder() binary.ByteOrder

	// Continuation describes how follow-on words are marked.
	Continuation() ContinuationRule

	// DecodeLeaf builds the instruction for a resolved leaf. Recoverable
	// failures are reported as lifterrors.ErrMalformedEncoding or
	// lifterrors.ErrTruncatedStream.
	DecodeLeaf(leaf *Leaf, head uint32, c *Continuation) (*Instruction, error)

	OpcodeName(op Opcode) string

	// Opcodes enumerates every opcode of the family except OpInvalid.
	Opcodes() []Opcode
}
