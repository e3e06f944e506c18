package trap

import "sbirt/kernel/riscv"

// Frame is the register state captured at trap entry. X is indexed by
// register number; X[0] is never written by the entry sequence.
//
// entry_riscv64.s stores at these exact offsets.
type Frame struct {
	X       [32]uintptr
	SStatus uintptr
	SEPC    uintptr
}

const (
	FrameSize  = 34 * riscv.REGBYTES
	OffX       = 0
	OffSStatus = 32 * riscv.REGBYTES
	OffSEPC    = 33 * riscv.REGBYTES

	// bytes below the frame used to pass arguments to dispatchTrap
	callArea = 48
	// call area slot holding the sscratch value restored on exit
	offRearm = 40
	// bytes the entry sequence takes from the stack
	entryReserve = callArea + FrameSize
)

// ABI register numbers.
const (
	RA = 1
	SP = 2
	GP = 3
	TP = 4
	A0 = 10
	A1 = 11
	A7 = 17
)

// Reg reads x[n]; x0 is always zero.
func (f *Frame) Reg(n int) uintptr {
	if n == 0 {
		return 0
	}
	return f.X[n]
}

// SetReg writes x[n]. Writes to x0 are dropped, as in hardware.
func (f *Frame) SetReg(n int, v uintptr) {
	if n == 0 {
		return
	}
	f.X[n] = v
}

// FromUser reports whether the trap came from user mode.
func (f *Frame) FromUser() bool { return f.SStatus&riscv.SSTATUS_SPP == 0 }

// Skip moves the resume address past the trapping instruction, for ecall
// and other instructions that should not be re-executed. Compressed
// instructions are not handled.
func (f *Frame) Skip() { f.SEPC += 4 }

// Registers is the architectural state of one hart as the entry and exit
// sequences see it.
type Registers struct {
	X       [32]uintptr
	SStatus uintptr
	SEPC    uintptr
	PC      uintptr
}

// Capture does what the entry sequence does: every register except x0,
// plus sstatus and sepc, lands in the frame.
func (f *Frame) Capture(r *Registers) {
	for n := 1; n < len(r.X); n++ {
		f.X[n] = r.X[n]
	}
	f.SStatus = r.SStatus
	f.SEPC = r.SEPC
}

// Resume does what the exit sequence does: restore x1..x31 and the two
// CSRs, then sret to sepc.
func (f *Frame) Resume(r *Registers) {
	for n := 1; n < len(r.X); n++ {
		r.X[n] = f.X[n]
	}
	r.X[0] = 0
	r.SStatus = f.SStatus
	r.SEPC = f.SEPC
	r.PC = f.SEPC
}

// entryStack mirrors the entry sequence's choice of stack. Given sp and
// sscratch at the trap, it returns where the reserved block starts, the sp
// saved in the frame, and the sscratch value the exit sequence restores.
// sscratch is zero while a handler runs, so a trap from inside a handler
// stays on the current stack below the handler's frames.
func entryStack(sp, scratch uintptr) (base, interrupted, rearm uintptr) {
	if scratch == 0 {
		return sp - entryReserve, sp, 0
	}
	return scratch - entryReserve, sp, scratch
}
