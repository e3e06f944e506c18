// Package boot brings every hart from its firmware hand-off to the program
// entry point.
//
// One hart is elected to run the one-time initialization. The others wait
// on the readiness flag, which the elected hart publishes once init is
// complete; after that every hart installs its own trap vector and calls
// the entry function.
package boot

import (
	"strconv"
	"sync/atomic"

	"sbirt/kernel/console"
	"sbirt/kernel/heap"
	"sbirt/kernel/klog"
	"sbirt/kernel/layout"
	"sbirt/kernel/sbi"
	"sbirt/kernel/trap"
	"sbirt/kernel/vm"
)

// Entry is the program's per-hart entry point. It should not return.
type Entry func(hartID, bootData uintptr)

type Config struct {
	MaxHartID     uintptr
	HartStackSize uintptr
	TrapStackSize uintptr
	LogLevel      klog.Level
}

// DefaultConfig is the layout the kernel image was built with.
func DefaultConfig() Config {
	level, ok := klog.ParseLevel(layout.LogLevel)
	if !ok {
		level = klog.Info
	}
	return Config{
		MaxHartID:     layout.MaxHartID,
		HartStackSize: layout.HartStackSize,
		TrapStackSize: layout.TrapStackSize,
		LogLevel:      level,
	}
}

type Option func(*Runtime)

// WithElector replaces the default election of hart 0.
func WithElector(e Elector) Option {
	return func(rt *Runtime) { rt.elect = e }
}

// WithHandlers sets the trap handlers. Without it every trap halts.
func WithHandlers(h trap.Handlers) Option {
	return func(rt *Runtime) { rt.handlers = h }
}

type Runtime struct {
	cfg      Config
	plat     Platform
	entry    Entry
	elect    Elector
	handlers trap.Handlers

	fw   *sbi.Client
	cons *console.Console
	log  *klog.Logger
	heap *heap.Heap
	kpt  *vm.PageTable
	eng  *trap.Engine

	claimed atomic.Bool
	ready   atomic.Bool
}

func New(cfg Config, plat Platform, fw sbi.Firmware, entry Entry, opts ...Option) *Runtime {
	rt := &Runtime{
		cfg:   cfg,
		plat:  plat,
		entry: entry,
		elect: HartZero,
		fw:    sbi.New(fw),
		heap:  heap.New(),
	}
	for _, opt := range opts {
		opt(rt)
	}
	rt.cons = console.New(rt.fw)
	if rt.handlers == nil {
		rt.handlers = trap.Defaults{Halt: rt.Unhandled}
	}
	rt.eng = trap.NewEngine(rt.handlers)
	return rt
}

func (rt *Runtime) Config() Config            { return rt.cfg }
func (rt *Runtime) SBI() *sbi.Client          { return rt.fw }
func (rt *Runtime) Console() *console.Console { return rt.cons }
func (rt *Runtime) Log() *klog.Logger         { return rt.log }
func (rt *Runtime) Heap() *heap.Heap          { return rt.heap }
func (rt *Runtime) Engine() *trap.Engine      { return rt.eng }
func (rt *Runtime) PageTable() *vm.PageTable  { return rt.kpt }

// Ready reports whether one-time initialization has completed.
func (rt *Runtime) Ready() bool { return rt.ready.Load() }

// Start runs the boot sequence for one hart. It does not return.
func (rt *Runtime) Start(hartID, bootData uintptr) {
	if hartID > rt.cfg.MaxHartID {
		rt.halt()
	}

	if rt.elect(hartID) && rt.claimed.CompareAndSwap(false, true) {
		rt.initialize(hartID, bootData)
		rt.ready.Store(true)
	} else {
		for !rt.ready.Load() {
			rt.plat.SpinHint()
		}
	}

	// satp and stvec are per hart
	if rt.kpt != nil {
		rt.plat.EnableMapping(rt.kpt.Satp())
	}
	rt.plat.InstallTrapVector(hartID)
	rt.log.Debugf("hart %d: trap vector installed", hartID)

	rt.entry(hartID, bootData)

	rt.log.Errorf("hart %d: entry returned", hartID)
	rt.shutdown()
}

func (rt *Runtime) initialize(hartID, bootData uintptr) {
	rt.plat.ClearStatics()

	if regions := rt.plat.KernelMap(); len(regions) > 0 {
		start, end := rt.plat.PagePool()
		kpt, err := vm.NewPageTable(vm.NewPages(start, end))
		if err == nil {
			err = kpt.MapRegions(regions)
		}
		if err != nil {
			rt.fatal("kvminit: " + err.Error())
		}
		rt.kpt = kpt
	}

	base, size := rt.plat.HeapArena()
	if err := rt.heap.Init(base, size); err != nil {
		rt.fatal("heap: " + err.Error())
	}
	rt.heap.OOM = rt.outOfMemory

	rt.log = klog.New(rt.cons, rt.cfg.LogLevel)
	rt.log.Infof("hart %d elected, boot data %p", hartID, bootData)
	rt.log.Infof("heap %p..%p", base, base+size)

	rt.probe()
	trap.Install(rt.eng)
}

// probe logs what the firmware says about itself. Legacy-only firmware
// rejects the base extension, which is not an error here.
func (rt *Runtime) probe() {
	major, minor, err := rt.fw.SpecVersion()
	if err != nil {
		rt.log.Warnf("sbi: no base extension: %s", err.Error())
		return
	}
	rt.log.Infof("sbi: spec v%d.%d", major, minor)
	if id, err := rt.fw.ImplID(); err == nil {
		rt.log.Infof("sbi: implementation %s (%d)", sbi.ImplName(id), id)
	}
}

func (rt *Runtime) outOfMemory(l heap.Layout) {
	rt.fatal("heap: out of memory allocating size " + strconv.FormatUint(uint64(l.Size), 10) +
		" align " + strconv.FormatUint(uint64(l.Align), 10))
}

// Unhandled reports a trap nobody handled and shuts down. It is the halt
// hook of the default handlers; programs that embed trap.Defaults in their
// own handlers can use it too.
func (rt *Runtime) Unhandled(err *trap.UnhandledError) {
	rt.fatal(err.Error())
}

// fatal reports msg and shuts down. It works before the logger exists.
func (rt *Runtime) fatal(msg string) {
	if rt.log != nil {
		rt.log.Errorf("%s", msg)
	} else {
		rt.cons.Println("[ERROR] " + msg)
	}
	rt.shutdown()
}

// shutdown asks firmware to power off and halts the hart if it does not.
func (rt *Runtime) shutdown() {
	if err := rt.fw.Shutdown(); err != nil {
		rt.cons.Println("sbi: shutdown: " + err.Error())
	}
	rt.halt()
}

func (rt *Runtime) halt() {
	rt.plat.Halt()
	panic("boot: halt returned")
}
