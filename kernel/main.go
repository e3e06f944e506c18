//go:build riscv64

// Command kernel is a small program on the boot runtime. Every hart says
// hello and bumps a shared counter; hart 0 then checks the heap, the
// counter and the timer interrupt and powers the machine off.
package main

import (
	"sync/atomic"

	"sbirt/kernel/boot"
	"sbirt/kernel/layout"
	"sbirt/kernel/riscv"
	"sbirt/kernel/sbi"
	"sbirt/kernel/spin"
	"sbirt/kernel/trap"
)

type Counter struct {
	lock *spin.Lock
	num  int
}

var count = Counter{lock: spin.New("count")}

const addLimit = 1000

const (
	// qemu virt's timebase runs at 10MHz
	tickInterval = 1000000
	tickLimit    = 3
)

// handlers takes the supervisor timer and leaves everything else to the
// runtime's defaults.
type handlers struct {
	trap.Defaults
	ticks atomic.Uint32
}

func (h *handlers) SupervisorTimer(*trap.Frame) *trap.Frame {
	next := riscv.ReadTime() + tickInterval
	if h.ticks.Add(1) >= tickLimit {
		next = ^uint64(0)
	}
	sbi.Must(0, rt.SBI().SetTimer(next))
	return nil
}

var rt *boot.Runtime

var traps = &handlers{}

func init() {
	rt = boot.New(boot.DefaultConfig(), boot.Hardware{}, sbi.Hardware{}, kmain, boot.WithHandlers(traps))
	traps.Halt = rt.Unhandled
	boot.Attach(rt)
}

func kmain(hartID, bootData uintptr) {
	rt.Console().Printf("hart %d: hello, boot data %p, satp %x\n", hartID, bootData, riscv.ReadSATP())

	for i := 0; i < addLimit; i++ {
		count.lock.Lock()
		count.num++
		count.lock.Unlock()
	}

	if hartID != 0 {
		riscv.Halt()
	}

	printfTest()
	heapTest()
	spinlockTest()
	timerTest()

	sbi.Must(0, rt.SBI().Shutdown())
}

func printfTest() {
	rt.Console().Println("--- printf test ---")
	t := 1
	rt.Console().Printf("Today is %s, %c %d %d %x\n", "Monday", 'M', t, 2, 2147483647)
}

func heapTest() {
	c := rt.Console()
	c.Println("--- heap test ---")
	h := rt.Heap()

	var blocks [8]uintptr
	for i := range blocks {
		blocks[i] = h.Alloc(uintptr(64<<i), 16)
	}
	used, free := h.Stats()
	c.Printf("allocated %d bytes, %d free\n", used, free)

	for i := range blocks {
		h.Free(blocks[i], uintptr(64<<i), 16)
	}
	used, free = h.Stats()
	c.Printf("after free: %d used, %d free\n", used, free)
}

// spinlockTest waits a bounded time for the other harts to finish counting.
func spinlockTest() {
	rt.Console().Println("--- spinlock test ---")
	want := addLimit * (layout.MaxHartID + 1)
	for spins := 0; spins < 1<<24; spins++ {
		count.lock.Lock()
		n := count.num
		count.lock.Unlock()
		if n == want {
			break
		}
		riscv.Pause()
	}
	count.lock.Lock()
	rt.Console().Printf("Expected Count: %d, Real Count: %d\n", want, count.num)
	count.lock.Unlock()
}

// timerTest takes tickLimit timer interrupts on hart 0. Interrupts are
// off whenever the count is checked, so a tick cannot slip in between the
// check and the wfi; wfi still wakes for it.
func timerTest() {
	c := rt.Console()
	c.Println("--- timer test ---")
	sbi.Must(0, rt.SBI().SetTimer(riscv.ReadTime()+tickInterval))
	riscv.SetSIE(riscv.SIE_STIE)
	for {
		riscv.IntrOff()
		if traps.ticks.Load() >= tickLimit {
			break
		}
		riscv.Wfi()
		riscv.IntrOn()
	}
	c.Printf("timer ticks: %d\n", traps.ticks.Load())
}

func main() {}
