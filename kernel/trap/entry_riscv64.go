//go:build riscv64

package trap

// InstallVector points this hart's stvec at the trap entry in direct mode
// and loads sscratch with the top of the hart's trap stack.
func InstallVector(stackTop uintptr)

func trapEntry()

// dispatchTrap is called by trapEntry on the trap stack.
//
//go:nosplit
func dispatchTrap(f *Frame, cause Cause, stval uintptr) *Frame {
	return active.Load().Dispatch(f, cause, stval)
}
