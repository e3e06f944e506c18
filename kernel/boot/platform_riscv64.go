//go:build riscv64

package boot

import (
	"unsafe"

	"sbirt/kernel/layout"
	"sbirt/kernel/riscv"
	"sbirt/kernel/trap"
	"sbirt/kernel/vm"
)

// Exported to entry_riscv64.s through go_asm.h.
const (
	maxHartID      = layout.MaxHartID
	hartStackSize  = layout.HartStackSize
	bootStacksSize = (layout.MaxHartID + 1) * layout.HartStackSize
)

var (
	bootStacks [bootStacksSize]byte
	trapStacks [(layout.MaxHartID + 1) * layout.TrapStackSize]byte
	heapArena  [layout.HeapSize]byte
	pagePool   [layout.PagePoolSize + riscv.PGSIZE]byte
)

// Hardware is the qemu virt machine.
type Hardware struct{}

var _ Platform = Hardware{}

// ClearStatics zeroes everything but the boot stacks, which are in use.
func (Hardware) ClearStatics() {
	riscv.Zero(trapStacks[:])
	riscv.Zero(heapArena[:])
	riscv.Zero(pagePool[:])
}

func (Hardware) HeapArena() (base, size uintptr) {
	return uintptr(unsafe.Pointer(&heapArena[0])), uintptr(len(heapArena))
}

func (Hardware) PagePool() (start, end uintptr) {
	start = riscv.PGROUNDUP(uintptr(unsafe.Pointer(&pagePool[0])))
	return start, start + layout.PagePoolSize
}

func (Hardware) KernelMap() []vm.Region {
	return vm.Kernel(layout.Devices, layout.KernelBase, textEnd(), layout.RAMEnd)
}

func (Hardware) EnableMapping(satp uintptr) {
	riscv.SfenceVMA()
	riscv.WriteSATP(satp)
	riscv.SfenceVMA()
}

func (Hardware) InstallTrapVector(hartID uintptr) {
	top := uintptr(unsafe.Pointer(&trapStacks[0])) + uintptr(len(trapStacks))
	_, hi := StackRegion(top, layout.TrapStackSize, hartID)
	trap.InstallVector(hi)
}

func (Hardware) SpinHint() { riscv.Pause() }

func (Hardware) Halt() { riscv.Halt() }

// textEnd is the linker's end of the text segment.
func textEnd() uintptr

var attached *Runtime

// Attach makes rt the runtime that hartStart hands every hart to. It must
// be called before the firmware releases any hart into the image.
func Attach(rt *Runtime) { attached = rt }

// hartEntry is called by hartStart on the hart's boot stack.
func hartEntry(hartID, bootData uintptr) {
	attached.Start(hartID, bootData)
}

// hartStart is the image entry point. Firmware enters it with the hart id
// in a0 and the device tree pointer in a1.
func hartStart()
