package machine

import (
	"fmt"

	"github.com/colorfulnotion/lift/common"
	"github.com/colorfulnotion/lift/lifterrors"
)

// ContinuationRule says how a follow-on word is recognised: the bits under
// MarkerMask must equal MarkerValue, and PayloadMask selects the payload.
type ContinuationRule struct {
	MarkerMask  uint32
	MarkerValue uint32
	PayloadMask uint32
}

// NoContinuation accepts any word whole. Fixed-width families use it.
var NoContinuation = ContinuationRule{PayloadMask: 0xFFFFFFFF}

// Continuation is the capability a leaf gets to read follow-on words. It
// never exposes the cursor position; the Decoder rolls the reader back if the
// leaf fails.
type Continuation struct {
	r        *WordReader
	rule     ContinuationRule
	start    common.Address
	consumed int
}

func newContinuation(r *WordReader, rule ContinuationRule, start common.Address) *Continuation {
	return &Continuation{r: r, rule: rule, start: start}
}

// Next reads one follow-on word, checks its marker and returns the payload.
func (c *Continuation) Next() (uint32, error) {
	w, ok := c.r.TryReadUnit()
	if !ok {
		return 0, fmt.Errorf("continuation word %d: %w", c.consumed+1, lifterrors.ErrTruncatedStream)
	}
	if w&c.rule.MarkerMask != c.rule.MarkerValue {
		return 0, fmt.Errorf("continuation word %d is 0x%X: %w", c.consumed+1, w, lifterrors.ErrMalformedEncoding)
	}
	c.consumed++
	return w & c.rule.PayloadMask, nil
}

// Consumed is the number of follow-on words read so far.
func (c *Continuation) Consumed() int {
	return c.consumed
}

// Address is the address of the head word.
func (c *Continuation) Address() common.Address {
	return c.start
}

// UnitSize is the byte width of one program word.
func (c *Continuation) UnitSize() int {
	return c.r.UnitSize()
}
