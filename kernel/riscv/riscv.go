// Package riscv holds the supervisor-level view of the RISC-V privileged
// architecture: CSR bit layouts, Sv39 page table entries, the qemu virt
// memory map and the handful of instructions that cannot be written in Go.
package riscv

const XLEN = 64

// word size in bytes
const REGBYTES = XLEN / 8

const PGSIZE = uintptr(4096)
const PGSHIFT = 12

// one beyond the highest possible virtual address.
// MAXVA is actually one bit less than the max allowed by
// Sv39, to avoid having to sign-extend virtual addresses
// that have the high bit set.
const MAXVA = uintptr(1) << (9 + 9 + 9 + 12 - 1)

const (
	PTE_V = 1 << 0 // Valid
	PTE_R = 1 << 1 // Readable
	PTE_W = 1 << 2 // Writable
	PTE_X = 1 << 3 // Executable
	PTE_U = 1 << 4 // User
	PTE_G = 1 << 5 // Global
	PTE_A = 1 << 6 // Accessed
	PTE_D = 1 << 7 // Dirty
)

type Pte uintptr
type Pagetable uintptr

func PX(level int, va uintptr) uintptr { return (va >> (PGSHIFT + uintptr(level)*9)) & 0x1FF }
func PTE2PA(pte Pte) uintptr          { return (uintptr(pte) >> 10) << 12 }
func PA2PTE(pa uintptr) Pte           { return Pte((pa >> 12) << 10) }
func PTE_FLAGS(pte Pte) uintptr       { return uintptr(pte) & 0x3FF }

func PGROUNDDOWN(a uintptr) uintptr { return a & ^(PGSIZE - 1) }
func PGROUNDUP(a uintptr) uintptr   { return (a + PGSIZE - 1) & ^(PGSIZE - 1) }

// Supervisor Status Register, sstatus
const (
	SSTATUS_SPP  = 1 << 8 // Previous mode, 1=Supervisor, 0=User
	SSTATUS_SPIE = 1 << 5 // Supervisor Previous Interrupt Enable
	SSTATUS_UPIE = 1 << 4 // User Previous Interrupt Enable
	SSTATUS_SIE  = 1 << 1 // Supervisor Interrupt Enable
	SSTATUS_UIE  = 1 << 0 // User Interrupt Enable
	SSTATUS_SUM  = 1 << 18
)

// Supervisor Interrupt Enable / Pending
const (
	SIE_SSIE = 1 << 1 // software
	SIE_STIE = 1 << 5 // timer
	SIE_SEIE = 1 << 9 // external
)

// scause: the top bit tells interrupts from exceptions.
const SCAUSE_INTERRUPT = uintptr(1) << (XLEN - 1)

// stvec mode bits
const (
	STVEC_DIRECT   = 0
	STVEC_VECTORED = 1
)

// use riscv's sv39 page table scheme.
const SATP_SV39 = uintptr(8) << 60

func MAKE_SATP(pagetable Pagetable) uintptr {
	return SATP_SV39 | (uintptr(pagetable) >> 12)
}
