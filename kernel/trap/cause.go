package trap

import (
	"strconv"

	"sbirt/kernel/riscv"
)

// Cause is the scause value of a trap.
type Cause uintptr

func InterruptCause(code uintptr) Cause { return Cause(riscv.SCAUSE_INTERRUPT | code) }
func ExceptionCause(code uintptr) Cause { return Cause(code &^ riscv.SCAUSE_INTERRUPT) }

func (c Cause) IsInterrupt() bool { return uintptr(c)&riscv.SCAUSE_INTERRUPT != 0 }
func (c Cause) IsException() bool { return !c.IsInterrupt() }
func (c Cause) Code() uintptr     { return uintptr(c) &^ riscv.SCAUSE_INTERRUPT }

// Exception codes.
const (
	InstructionMisaligned = 0
	InstructionFault      = 1
	IllegalInstruction    = 2
	Breakpoint            = 3
	LoadMisaligned        = 4
	LoadFault             = 5
	StoreMisaligned       = 6
	StoreFault            = 7
	UserEnvCall           = 8
	SupervisorEnvCall     = 9
	MachineEnvCall        = 11
	InstructionPageFault  = 12
	LoadPageFault         = 13
	StorePageFault        = 15
)

var exceptionNames = map[uintptr]string{
	InstructionMisaligned: "InstructionMisaligned",
	InstructionFault:      "InstructionFault",
	IllegalInstruction:    "IllegalInstruction",
	Breakpoint:            "Breakpoint",
	LoadMisaligned:        "LoadMisaligned",
	LoadFault:             "LoadFault",
	StoreMisaligned:       "StoreMisaligned",
	StoreFault:            "StoreFault",
	UserEnvCall:           "UserEnvCall",
	SupervisorEnvCall:     "SupervisorEnvCall",
	MachineEnvCall:        "MachineEnvCall",
	InstructionPageFault:  "InstructionPageFault",
	LoadPageFault:         "LoadPageFault",
	StorePageFault:        "StorePageFault",
}

func (c Cause) String() string {
	code := c.Code()
	name := ""
	if c.IsInterrupt() {
		if code < NumVectors {
			name = vectorNames[code]
		}
		if name == "" {
			name = "Unknown"
		}
		return "interrupt " + name + " (" + strconv.FormatUint(uint64(code), 10) + ")"
	}
	name = exceptionNames[code]
	if name == "" {
		name = "Unknown"
	}
	return "exception " + name + " (" + strconv.FormatUint(uint64(code), 10) + ")"
}
