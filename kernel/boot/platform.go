package boot

import "sbirt/kernel/vm"

// Platform is the machine-specific half of boot. Hardware implements it on
// riscv64; tests substitute a recording fake.
type Platform interface {
	// ClearStatics zeroes the static arenas before anything uses them.
	ClearStatics()

	// HeapArena is the region the heap is bound to.
	HeapArena() (base, size uintptr)

	// PagePool is the page-aligned range page tables are carved from.
	PagePool() (start, end uintptr)

	// KernelMap lists the regions of the kernel page table. An empty map
	// leaves translation off.
	KernelMap() []vm.Region

	// EnableMapping loads the calling hart's satp and flushes its TLB.
	EnableMapping(satp uintptr)

	// InstallTrapVector points the calling hart's trap vector at the
	// dispatch engine, using that hart's own trap stack.
	InstallTrapVector(hartID uintptr)

	// SpinHint is called on every iteration of a wait loop.
	SpinHint()

	// Halt stops the calling hart. It does not return.
	Halt()
}
