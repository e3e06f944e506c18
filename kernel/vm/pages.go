package vm

import (
	"unsafe"

	"sbirt/kernel/riscv"
	"sbirt/kernel/spin"
)

type run struct {
	next *run
}

// Pages hands out whole physical pages for page tables from a fixed pool.
type Pages struct {
	lock     *spin.Lock
	start    uintptr
	end      uintptr
	freelist *run
	nfree    int
}

func NewPages(paStart, paEnd uintptr) *Pages {
	p := &Pages{
		lock:  spin.New("pages"),
		start: riscv.PGROUNDUP(paStart),
		end:   riscv.PGROUNDDOWN(paEnd),
	}
	p.freerange(p.start, p.end)
	return p
}

func (p *Pages) freerange(paStart, paEnd uintptr) {
	for pa := paStart; pa+riscv.PGSIZE <= paEnd; pa += riscv.PGSIZE {
		p.Free(pa)
	}
}

func (p *Pages) Free(pa uintptr) {
	if pa%riscv.PGSIZE != 0 || pa < p.start || pa >= p.end {
		panic("vm: free of foreign page")
	}

	p.lock.Lock()
	r := (*run)(unsafe.Pointer(pa))
	r.next = p.freelist
	p.freelist = r
	p.nfree++
	p.lock.Unlock()
}

// Alloc returns a zeroed page, or 0 if the pool is empty.
func (p *Pages) Alloc() uintptr {
	p.lock.Lock()
	r := p.freelist
	if r != nil {
		p.freelist = r.next
		p.nfree--
	}
	p.lock.Unlock()

	if r == nil {
		return 0
	}
	pa := uintptr(unsafe.Pointer(r))
	riscv.Memset(pa, 0, riscv.PGSIZE)
	return pa
}

// Available counts the free pages.
func (p *Pages) Available() int {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.nfree
}
