//go:build riscv64

package riscv

// Supervisor CSR accessors, implemented in csr_riscv64.s.

func SetSStatus(bits uintptr)
func ClearSStatus(bits uintptr)

func SetSIE(bits uintptr)

func ReadSATP() uintptr
func WriteSATP(v uintptr)

// ReadTime reads the time CSR, in ticks of the platform timebase.
func ReadTime() uint64

// flush the TLB.
func SfenceVMA()

func Wfi()

// Pause hints that the hart is spinning.
func Pause()

// enable device interrupts
func IntrOn() { SetSStatus(SSTATUS_SIE) }

// disable device interrupts
func IntrOff() { ClearSStatus(SSTATUS_SIE) }

// Halt parks the hart forever.
func Halt() {
	for {
		Wfi()
	}
}
