// Package spin provides the mutual exclusion primitive usable before and
// outside of any scheduler: a test-and-set lock that busy-waits.
package spin

import "sync/atomic"

type Lock struct {
	locked atomic.Uint32
	name   string
}

func New(name string) *Lock {
	return &Lock{name: name}
}

func (lk *Lock) Name() string { return lk.name }

func (lk *Lock) Lock() {
	// Try to replace 0 with 1. Once we succeed, the lock has been acquired.
	for !lk.locked.CompareAndSwap(0, 1) {
	}
}

func (lk *Lock) TryLock() bool {
	return lk.locked.CompareAndSwap(0, 1)
}

func (lk *Lock) Unlock() {
	if lk.locked.Swap(0) != 1 {
		panic("spin: unlock of unlocked lock " + lk.name)
	}
}

// Holding reports whether the lock is currently taken by anyone.
func (lk *Lock) Holding() bool {
	return lk.locked.Load() == 1
}
