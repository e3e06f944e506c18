// Package heap binds a first-fit free-list allocator to a statically
// reserved arena.
//
// Blocks carry no header: the caller passes the size and alignment back to
// Free, the same way a Layout is handed back to a global allocator. Every
// block is rounded up to BlockAlign bytes, so a sequence of allocations that
// are multiples of BlockAlign and sum to the arena size fits exactly.
package heap

import (
	"errors"
	"unsafe"

	"sbirt/kernel/spin"
)

// hole is written into the free memory it describes.
type hole struct {
	size uintptr
	next uintptr
}

// BlockAlign is the minimum size and alignment of any block: a free block
// must be able to hold a hole.
const BlockAlign = unsafe.Sizeof(hole{})

// Layout is what the out-of-memory hook is told about the failed request.
type Layout struct {
	Size  uintptr
	Align uintptr
}

var (
	ErrAlreadyInitialized = errors.New("heap: already initialized")
	ErrArenaTooSmall      = errors.New("heap: arena too small")
)

type Heap struct {
	mu *spin.Lock

	bound bool
	base  uintptr
	end   uintptr
	head  uintptr // lowest free hole, 0 when full
	used  uintptr

	// OOM is called once for each allocation that cannot be satisfied,
	// without the heap lock held. The default halts the hart by panicking.
	OOM func(Layout)
}

func New() *Heap {
	return &Heap{mu: spin.New("heap")}
}

// Init binds the allocator to [base, base+size). It may be called only once.
func (h *Heap) Init(base, size uintptr) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.bound {
		return ErrAlreadyInitialized
	}
	start := alignUp(base, BlockAlign)
	if size < start-base+BlockAlign {
		return ErrArenaTooSmall
	}
	size = alignDown(size-(start-base), BlockAlign)

	h.bound = true
	h.base = start
	h.end = start + size
	h.head = start
	*holeAt(start) = hole{size: size, next: 0}
	return nil
}

func (h *Heap) Initialized() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.bound
}

// Bounds returns the arena as bound by Init, after alignment.
func (h *Heap) Bounds() (base, end uintptr) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.base, h.end
}

// Alloc returns the address of a block of at least size bytes aligned to
// align (a power of two), or 0 after the OOM hook returns.
func (h *Heap) Alloc(size, align uintptr) uintptr {
	req := Layout{Size: size, Align: align}
	size, align = normalize(size, align)

	h.mu.Lock()
	if !h.bound {
		h.mu.Unlock()
		panic("heap: alloc before init")
	}
	// larger than the arena, or wrapped by rounding
	if req.Size > h.end-h.base || size < req.Size {
		h.mu.Unlock()
		h.outOfMemory(req)
		return 0
	}

	var prev uintptr
	for cur := h.head; cur != 0; cur = holeAt(cur).next {
		hl := holeAt(cur)
		start := alignUp(cur, align)
		front := start - cur
		if start < cur || front > hl.size || size > hl.size-front {
			prev = cur
			continue
		}
		back := hl.size - front - size
		next := hl.next
		if back > 0 {
			rest := start + size
			*holeAt(rest) = hole{size: back, next: next}
			next = rest
		}
		if front > 0 {
			hl.size = front
			hl.next = next
		} else if prev == 0 {
			h.head = next
		} else {
			holeAt(prev).next = next
		}
		h.used += size
		h.mu.Unlock()
		return start
	}
	h.mu.Unlock()

	h.outOfMemory(req)
	return 0
}

// Free returns a block obtained from Alloc with the same size and align.
func (h *Heap) Free(ptr, size, align uintptr) {
	size, _ = normalize(size, align)

	h.mu.Lock()
	defer h.mu.Unlock()

	if ptr < h.base || ptr >= h.end || size > h.end-ptr || ptr%BlockAlign != 0 {
		panic("heap: free of foreign pointer")
	}

	// keep holes sorted by address so neighbours can merge.
	var prev uintptr
	next := h.head
	for next != 0 && next < ptr {
		prev = next
		next = holeAt(next).next
	}
	if next == ptr || (next != 0 && ptr+size > next) || (prev != 0 && prev+holeAt(prev).size > ptr) {
		panic("heap: double free")
	}

	nh := holeAt(ptr)
	*nh = hole{size: size, next: next}
	if next != 0 && ptr+size == next {
		nh.size += holeAt(next).size
		nh.next = holeAt(next).next
	}
	if prev == 0 {
		h.head = ptr
	} else {
		ph := holeAt(prev)
		ph.next = ptr
		if prev+ph.size == ptr {
			ph.size += nh.size
			ph.next = nh.next
		}
	}
	h.used -= size
}

// Stats reports bytes handed out and bytes still free.
func (h *Heap) Stats() (used, free uintptr) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.used, h.end - h.base - h.used
}

func (h *Heap) outOfMemory(l Layout) {
	if h.OOM != nil {
		h.OOM(l)
		return
	}
	panic("heap: out of memory")
}

func normalize(size, align uintptr) (uintptr, uintptr) {
	if align < BlockAlign {
		align = BlockAlign
	}
	if align&(align-1) != 0 {
		panic("heap: alignment is not a power of two")
	}
	if size < BlockAlign {
		size = BlockAlign
	}
	return alignUp(size, BlockAlign), align
}

func holeAt(addr uintptr) *hole {
	return (*hole)(unsafe.Pointer(addr))
}

func alignUp(v, a uintptr) uintptr   { return (v + a - 1) &^ (a - 1) }
func alignDown(v, a uintptr) uintptr { return v &^ (a - 1) }
