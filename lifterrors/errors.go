package lifterrors

import (
	"errors"
	"fmt"
	"strings"
)

// Decode (D) Errors. These are recovered locally by the decoder.
var (
	ErrMalformedEncoding    = errors.New("D1|MalformedEncoding: Bit pattern does not encode a valid instruction.")
	ErrTruncatedStream      = errors.New("D2|TruncatedStream: Reader ran out of data in the middle of an instruction.")
	ErrEndOfStream          = errors.New("D3|EndOfStream: No unit left to decode.")
	ErrUnsupportedDirective = errors.New("D4|UnsupportedDirective: Data directive kind has no decoder.")
)

// Fault (F) Errors. These abort the decoding or rewriting session.
var (
	ErrInternalConsistency = errors.New("F1|InternalConsistency: Decode or rewrite tables are inconsistent.")
	ErrUnexpectedRuntime   = errors.New("F2|UnexpectedRuntime: Unexpected fault while decoding or rewriting.")
)

// IsRecoverable reports whether err belongs to the decode taxonomy that
// yields an Invalid instruction instead of aborting.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrMalformedEncoding) ||
		errors.Is(err, ErrTruncatedStream) ||
		errors.Is(err, ErrEndOfStream) ||
		errors.Is(err, ErrUnsupportedDirective)
}

// IsFatal reports whether err is an internal consistency or runtime fault.
func IsFatal(err error) bool {
	return errors.Is(err, ErrInternalConsistency) || errors.Is(err, ErrUnexpectedRuntime)
}

// AddressError attaches the address of the instruction being processed to err.
type AddressError struct {
	Address uint64
	Err     error
}

func (e *AddressError) Error() string {
	return fmt.Sprintf("at 0x%x: %v", e.Address, e.Err)
}

func (e *AddressError) Unwrap() error {
	return e.Err
}

// AtAddress wraps err with the instruction address. A nil err stays nil.
func AtAddress(addr uint64, err error) error {
	if err == nil {
		return nil
	}
	var ae *AddressError
	if errors.As(err, &ae) {
		return err
	}
	return &AddressError{Address: addr, Err: err}
}

// Internalf builds an InternalConsistency fault with a formatted detail message.
func Internalf(format string, args ...interface{}) error {
	return fmt.Errorf("%w %s", ErrInternalConsistency, fmt.Sprintf(format, args...))
}

// GetErrorName extracts the error name from the error message.
func GetErrorName(err error) string {
	if err == nil {
		return "No Error"
	}
	errStr := err.Error()
	if !strings.Contains(errStr, "|") || !strings.Contains(errStr, ":") {
		return errStr
	}
	// drop any "at 0x...: " prefix added by AddressError
	if i := strings.Index(errStr, "|"); i > 0 {
		if j := strings.LastIndex(errStr[:i], " "); j >= 0 {
			errStr = errStr[j+1:]
		}
	}
	parts := strings.SplitN(errStr, "|", 2)
	if len(parts) < 2 {
		return errStr
	}
	nameParts := strings.SplitN(parts[1], ":", 2)
	return strings.TrimSpace(nameParts[0])
}

// GetErrorCode extracts the error code from the error message.
func GetErrorCode(err error) string {
	if err == nil {
		return ""
	}
	errStr := err.Error()
	i := strings.Index(errStr, "|")
	if i < 0 {
		return ""
	}
	code := errStr[:i]
	if j := strings.LastIndex(code, " "); j >= 0 {
		code = code[j+1:]
	}
	return strings.TrimSpace(code)
}

// GetErrorCodeWithName returns the error code and name in the format "Code_ErrorName".
func GetErrorCodeWithName(err error) string {
	code := GetErrorCode(err)
	name := GetErrorName(err)
	if code == "" || name == "" {
		return ""
	}
	return code + "_" + name
}

// GetErrorDesc extracts the error description from the error message.
func GetErrorDesc(err error) string {
	if err == nil {
		return ""
	}
	errStr := err.Error()
	i := strings.Index(errStr, "|")
	if i < 0 {
		return "DESC NOT SET"
	}
	parts := strings.SplitN(errStr[i:], ":", 2)
	if len(parts) < 2 {
		return "DESC NOT SET"
	}
	return strings.TrimSpace(parts[1])
}
