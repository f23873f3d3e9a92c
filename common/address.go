package common

import (
	"fmt"
	"strconv"
	"strings"
)

// Address is a byte address in the program image being decoded.
type Address uint64

func (a Address) String() string {
	return fmt.Sprintf("0x%06X", uint64(a))
}

// Add returns a displaced by n bytes. n may be negative.
func (a Address) Add(n int64) Address {
	return Address(int64(a) + n)
}

func (a Address) Uint64() uint64 {
	return uint64(a)
}

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Address) UnmarshalText(data []byte) error {
	s := strings.TrimPrefix(strings.ToLower(string(data)), "0x")
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return fmt.Errorf("invalid address %q: %w", string(data), err)
	}
	*a = Address(v)
	return nil
}
