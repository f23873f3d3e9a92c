package machine

import (
	"encoding/binary"

	"github.com/colorfulnotion/lift/common"
	"github.com/colorfulnotion/lift/lifterrors"
)

// WordReader is an endian-aware cursor over a byte image. It is owned by a
// single decoding task and is not safe for concurrent use.
type WordReader struct {
	image    []byte
	base     common.Address
	offset   int
	unitSize int
	order    binary.ByteOrder
}

// NewWordReader returns a reader over image whose first byte lives at base.
// unitSize is the width of one instruction unit in bytes (2 or 4).
func NewWordReader(image []byte, base common.Address, unitSize int, order binary.ByteOrder) *WordReader {
	if unitSize != 1 && unitSize != 2 && unitSize != 4 {
		panic(lifterrors.Internalf("unsupported unit size %d", unitSize))
	}
	return &WordReader{
		image:    image,
		base:     base,
		unitSize: unitSize,
		order:    order,
	}
}

// NewReaderFor returns a reader configured with the unit size and byte order
// of arch.
func NewReaderFor(arch Architecture, image []byte, base common.Address) *WordReader {
	return NewWordReader(image, base, arch.UnitSize(), arch.ByteOrder())
}

func (r *WordReader) Offset() int {
	return r.offset
}

// SetOffset repositions the cursor. Offsets outside [0, len(image)] are a
// programming error.
func (r *WordReader) SetOffset(off int) {
	if off < 0 || off > len(r.image) {
		panic(lifterrors.Internalf("reader offset %d outside image of %d bytes", off, len(r.image)))
	}
	r.offset = off
}

func (r *WordReader) UnitSize() int {
	return r.unitSize
}

func (r *WordReader) ByteOrder() binary.ByteOrder {
	return r.order
}

// AddressOf maps an image offset to its program address.
func (r *WordReader) AddressOf(off int) common.Address {
	return r.base.Add(int64(off))
}

// Address is the program address of the cursor.
func (r *WordReader) Address() common.Address {
	return r.AddressOf(r.offset)
}

func (r *WordReader) Remaining() int {
	return len(r.image) - r.offset
}

func (r *WordReader) AtEnd() bool {
	return r.offset >= len(r.image)
}

// PeekUnit returns the unit at the cursor without advancing.
func (r *WordReader) PeekUnit() (uint32, bool) {
	if r.Remaining() < r.unitSize {
		return 0, false
	}
	b := r.image[r.offset : r.offset+r.unitSize]
	switch r.unitSize {
	case 1:
		return uint32(b[0]), true
	case 2:
		return uint32(r.order.Uint16(b)), true
	default:
		return r.order.Uint32(b), true
	}
}

// TryReadUnit reads one instruction unit and advances past it. It reports
// false, leaving the cursor untouched, when less than a full unit remains.
func (r *WordReader) TryReadUnit() (uint32, bool) {
	v, ok := r.PeekUnit()
	if ok {
		r.offset += r.unitSize
	}
	return v, ok
}

func (r *WordReader) TryReadByte() (byte, bool) {
	if r.Remaining() < 1 {
		return 0, false
	}
	b := r.image[r.offset]
	r.offset++
	return b, true
}

func (r *WordReader) TryReadUint16() (uint16, bool) {
	if r.Remaining() < 2 {
		return 0, false
	}
	v := r.order.Uint16(r.image[r.offset:])
	r.offset += 2
	return v, true
}
