// Package vm builds the Sv39 kernel page table that the elected hart
// installs once during boot.
package vm

import (
	"errors"
	"unsafe"

	"sbirt/kernel/riscv"
)

var (
	ErrNoMemory = errors.New("vm: out of page-table pages")
	ErrRemap    = errors.New("vm: remap")
	ErrBadVA    = errors.New("vm: virtual address out of range")
)

// Region is one range of the kernel address space.
type Region struct {
	Name string
	VA   uintptr
	PA   uintptr
	Size uintptr
	Perm int
}

// Identity maps a physical range at the same virtual address.
func Identity(name string, pa, size uintptr, perm int) Region {
	return Region{Name: name, VA: pa, PA: pa, Size: size, Perm: perm}
}

// QemuVirtDevices are the memory-mapped devices of qemu's virt machine.
func QemuVirtDevices() []Region {
	return []Region{
		Identity("uart0", riscv.UART0, riscv.PGSIZE, riscv.PTE_R|riscv.PTE_W),
		Identity("virtio0", riscv.VIRTIO0, riscv.PGSIZE, riscv.PTE_R|riscv.PTE_W),
		Identity("plic", riscv.PLIC, riscv.PLIC_SIZE, riscv.PTE_R|riscv.PTE_W),
	}
}

// Kernel is the kernel map: devices and RAM identity mapped, text
// read-execute from base up to etext and the rest of RAM, up to ramEnd,
// read-write.
func Kernel(devices []Region, base, etext, ramEnd uintptr) []Region {
	regions := append([]Region(nil), devices...)
	return append(regions,
		Identity("text", base, etext-base, riscv.PTE_R|riscv.PTE_X),
		Identity("data", etext, ramEnd-etext, riscv.PTE_R|riscv.PTE_W),
	)
}

// QemuVirt is the kernel map for qemu's virt machine with 128MB of RAM.
func QemuVirt(etext uintptr) []Region {
	return Kernel(QemuVirtDevices(), riscv.KERNBASE, etext, riscv.PHYSTOP)
}

type PageTable struct {
	root  riscv.Pagetable
	pages *Pages
}

func NewPageTable(pages *Pages) (*PageTable, error) {
	root := pages.Alloc()
	if root == 0 {
		return nil, ErrNoMemory
	}
	return &PageTable{root: riscv.Pagetable(root), pages: pages}, nil
}

func (pt *PageTable) Root() riscv.Pagetable { return pt.root }

// Satp is the value that turns this table on.
func (pt *PageTable) Satp() uintptr { return riscv.MAKE_SATP(pt.root) }

// Return the address of the PTE in page table pagetable
// that corresponds to virtual address va.  If alloc is true,
// create any required page-table pages.
//
// The risc-v Sv39 scheme has three levels of page-table
// pages. A page-table page contains 512 64-bit PTEs.
// A 64-bit virtual address is split into five fields:
//
//	39..63 -- must be zero.
//	30..38 -- 9 bits of level-2 index.
//	21..29 -- 9 bits of level-1 index.
//	12..20 -- 9 bits of level-0 index.
//	 0..11 -- 12 bits of byte offset within the page.
func (pt *PageTable) walk(va uintptr, alloc bool) (*riscv.Pte, error) {
	if va >= riscv.MAXVA {
		return nil, ErrBadVA
	}

	pagetable := pt.root
	for level := 2; level > 0; level-- {
		pte := (*riscv.Pte)(unsafe.Pointer(uintptr(pagetable) + riscv.PX(level, va)*8))

		if *pte&riscv.PTE_V != 0 {
			pagetable = riscv.Pagetable(riscv.PTE2PA(*pte))
			continue
		}
		if !alloc {
			return nil, nil
		}
		page := pt.pages.Alloc()
		if page == 0 {
			return nil, ErrNoMemory
		}
		*pte = riscv.PA2PTE(page) | riscv.PTE_V
		pagetable = riscv.Pagetable(page)
	}

	return (*riscv.Pte)(unsafe.Pointer(uintptr(pagetable) + riscv.PX(0, va)*8)), nil
}

// Map creates PTEs for virtual addresses starting at va that refer to
// physical addresses starting at pa. va and size might not be page-aligned.
func (pt *PageTable) Map(va, size, pa uintptr, perm int) error {
	if size == 0 {
		return nil
	}
	a := riscv.PGROUNDDOWN(va)
	last := riscv.PGROUNDDOWN(va + size - 1)
	pa = riscv.PGROUNDDOWN(pa)
	for {
		pte, err := pt.walk(a, true)
		if err != nil {
			return err
		}
		if *pte&riscv.PTE_V != 0 {
			return ErrRemap
		}
		*pte = riscv.PA2PTE(pa) | riscv.Pte(perm|riscv.PTE_V)
		if a == last {
			break
		}
		a += riscv.PGSIZE
		pa += riscv.PGSIZE
	}
	return nil
}

// MapRegions maps every region in order and stops at the first failure.
func (pt *PageTable) MapRegions(regions []Region) error {
	for _, r := range regions {
		if err := pt.Map(r.VA, r.Size, r.PA, r.Perm); err != nil {
			return &MapError{Region: r, Err: err}
		}
	}
	return nil
}

// Translate looks up a virtual address, returning the physical address and
// the leaf PTE flags.
func (pt *PageTable) Translate(va uintptr) (pa uintptr, flags uintptr, ok bool) {
	pte, err := pt.walk(va, false)
	if err != nil || pte == nil || *pte&riscv.PTE_V == 0 {
		return 0, 0, false
	}
	return riscv.PTE2PA(*pte) | (va & (riscv.PGSIZE - 1)), riscv.PTE_FLAGS(*pte), true
}

type MapError struct {
	Region Region
	Err    error
}

func (e *MapError) Error() string { return "vm: mapping " + e.Region.Name + ": " + e.Err.Error() }

func (e *MapError) Unwrap() error { return e.Err }
