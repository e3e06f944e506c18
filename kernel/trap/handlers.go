package trap

import "strconv"

// Handlers is the set of trap handlers a program supplies. Embed Defaults
// and override only what is needed.
//
// Every method returns the frame to resume. nil resumes f itself.
type Handlers interface {
	UserSoft(f *Frame) *Frame
	SupervisorSoft(f *Frame) *Frame
	MachineSoft(f *Frame) *Frame
	UserTimer(f *Frame) *Frame
	SupervisorTimer(f *Frame) *Frame
	MachineTimer(f *Frame) *Frame
	UserExternal(f *Frame) *Frame
	SupervisorExternal(f *Frame) *Frame
	MachineExternal(f *Frame) *Frame

	// DefaultHandler receives interrupts whose slot is reserved, invalid
	// or past the end of the table.
	DefaultHandler(f *Frame, cause Cause) *Frame
	// Exception receives every synchronous trap.
	Exception(f *Frame, cause Cause, stval uintptr) *Frame
}

// UnhandledError describes a trap nobody handled.
type UnhandledError struct {
	Cause Cause
	SEPC  uintptr
	Stval uintptr
}

func (e *UnhandledError) Error() string {
	return "trap: unhandled " + e.Cause.String() +
		" sepc=0x" + strconv.FormatUint(uint64(e.SEPC), 16) +
		" stval=0x" + strconv.FormatUint(uint64(e.Stval), 16)
}

// Defaults handles nothing. Each method hands an *UnhandledError to Halt,
// which must not return; without Halt the error is raised as a panic.
type Defaults struct {
	Halt func(err *UnhandledError)
}

var _ Handlers = Defaults{}

func (d Defaults) unhandled(f *Frame, cause Cause, stval uintptr) *Frame {
	err := &UnhandledError{Cause: cause, SEPC: f.SEPC, Stval: stval}
	if d.Halt != nil {
		d.Halt(err)
	}
	panic(err)
}

func (d Defaults) UserSoft(f *Frame) *Frame {
	return d.unhandled(f, InterruptCause(UserSoft), 0)
}

func (d Defaults) SupervisorSoft(f *Frame) *Frame {
	return d.unhandled(f, InterruptCause(SupervisorSoft), 0)
}

func (d Defaults) MachineSoft(f *Frame) *Frame {
	return d.unhandled(f, InterruptCause(MachineSoft), 0)
}

func (d Defaults) UserTimer(f *Frame) *Frame {
	return d.unhandled(f, InterruptCause(UserTimer), 0)
}

func (d Defaults) SupervisorTimer(f *Frame) *Frame {
	return d.unhandled(f, InterruptCause(SupervisorTimer), 0)
}

func (d Defaults) MachineTimer(f *Frame) *Frame {
	return d.unhandled(f, InterruptCause(MachineTimer), 0)
}

func (d Defaults) UserExternal(f *Frame) *Frame {
	return d.unhandled(f, InterruptCause(UserExternal), 0)
}

func (d Defaults) SupervisorExternal(f *Frame) *Frame {
	return d.unhandled(f, InterruptCause(SupervisorExternal), 0)
}

func (d Defaults) MachineExternal(f *Frame) *Frame {
	return d.unhandled(f, InterruptCause(MachineExternal), 0)
}

func (d Defaults) DefaultHandler(f *Frame, cause Cause) *Frame {
	return d.unhandled(f, cause, 0)
}

func (d Defaults) Exception(f *Frame, cause Cause, stval uintptr) *Frame {
	return d.unhandled(f, cause, stval)
}
