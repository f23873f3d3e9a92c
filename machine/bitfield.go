package machine

import (
	"unsafe"

	"github.com/colorfulnotion/lift/lifterrors"
	"golang.org/x/exp/constraints"
)

func wordBits[W constraints.Unsigned]() uint {
	var w W
	return uint(unsafe.Sizeof(w)) * 8
}

// field offsets and widths come from static tables, so a bad one is a table defect
func checkField[W constraints.Unsigned](offset, width uint) {
	size := wordBits[W]()
	if width == 0 || offset+width > size {
		panic(lifterrors.Internalf("bit field offset %d width %d exceeds %d-bit word", offset, width, size))
	}
}

// Extract returns the width-bit unsigned field of word starting at bit offset
// (bit 0 is the least significant).
func Extract[W constraints.Unsigned](word W, offset, width uint) W {
	checkField[W](offset, width)
	mask := W(1)<<width - 1
	return (word >> offset) & mask
}

// ExtractSigned is Extract followed by sign extension from bit width-1.
func ExtractSigned[W constraints.Unsigned](word W, offset, width uint) int64 {
	v := uint64(Extract(word, offset, width))
	shift := 64 - width
	return int64(v<<shift) >> shift
}

// Bit reports whether bit n of word is set.
func Bit[W constraints.Unsigned](word W, n uint) bool {
	return Extract(word, n, 1) == 1
}
