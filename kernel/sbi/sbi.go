// Package sbi is the call gate into the RISC-V Supervisor Binary Interface.
//
// A call places the extension id in a7, the function id in a6 and up to three
// arguments in a0..a2, traps into firmware with ecall, and reads the
// (error, value) pair back from a0 and a1.
//
// Ref: https://github.com/riscv-non-isa/riscv-sbi-doc
package sbi

import "strconv"

// Ret is the raw register pair returned by firmware.
type Ret struct {
	Error int
	Value uintptr
}

// Firmware traps into the SBI implementation. Hardware is the real one;
// tests substitute a recording fake.
type Firmware interface {
	Ecall(ext, fid, a0, a1, a2 uintptr) Ret
}

// Error is a non-success SBI status code.
type Error int

const (
	Success             Error = 0
	ErrFailed           Error = -1
	ErrNotSupported     Error = -2
	ErrInvalidParam     Error = -3
	ErrDenied           Error = -4
	ErrInvalidAddress   Error = -5
	ErrAlreadyAvailable Error = -6
)

var errorNames = [...]string{
	"success",
	"failed",
	"not supported",
	"invalid parameter",
	"denied",
	"invalid address",
	"already available",
}

func (e Error) Error() string {
	if e <= 0 && int(-e) < len(errorNames) {
		return "sbi: " + errorNames[-e]
	}
	return "sbi: status " + strconv.Itoa(int(e))
}

// UnknownStatusError is returned for status codes outside the defined set.
// They are never coerced into one of the defined errors.
type UnknownStatusError struct {
	Code  int
	Value uintptr
}

func (e *UnknownStatusError) Error() string {
	return "sbi: unrecognized status " + strconv.Itoa(e.Code)
}

// Decode maps a raw return pair to a result. Status 0 carries the value;
// every other defined status is an Error.
func Decode(r Ret) (uintptr, error) {
	switch {
	case r.Error == int(Success):
		return r.Value, nil
	case r.Error < 0 && r.Error >= int(ErrAlreadyAvailable):
		return 0, Error(r.Error)
	default:
		return 0, &UnknownStatusError{Code: r.Error, Value: r.Value}
	}
}

// Client issues typed calls through a Firmware. It never retries.
type Client struct {
	fw Firmware
}

func New(fw Firmware) *Client {
	return &Client{fw: fw}
}

func (c *Client) Firmware() Firmware { return c.fw }

// Call performs exactly one ecall.
func (c *Client) Call(ext, fid, a0, a1, a2 uintptr) (uintptr, error) {
	return Decode(c.fw.Ecall(ext, fid, a0, a1, a2))
}

// Must asserts that a call succeeded and returns its value. Call sites that
// treat firmware failure as fatal use it.
func Must(v uintptr, err error) uintptr {
	if err != nil {
		panic(err)
	}
	return v
}
