// Package sbitest provides a recording firmware for tests of code that sits
// on top of the SBI call gate.
package sbitest

import (
	"sync"

	"sbirt/kernel/sbi"
)

// Call is one recorded ecall.
type Call struct {
	Ext, Fid   uintptr
	A0, A1, A2 uintptr
}

// Firmware records every call and answers from Reply, or with success and a
// zero value when Reply is nil. It is safe for use from several harts.
type Firmware struct {
	Reply func(c Call) sbi.Ret

	mu    sync.Mutex
	calls []Call
}

func (f *Firmware) Ecall(ext, fid, a0, a1, a2 uintptr) sbi.Ret {
	c := Call{Ext: ext, Fid: fid, A0: a0, A1: a1, A2: a2}
	f.mu.Lock()
	f.calls = append(f.calls, c)
	reply := f.Reply
	f.mu.Unlock()
	if reply != nil {
		return reply(c)
	}
	return sbi.Ret{}
}

// Calls returns a copy of the recorded calls.
func (f *Firmware) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CallsTo returns the recorded calls for one extension.
func (f *Firmware) CallsTo(ext uintptr) []Call {
	var out []Call
	for _, c := range f.Calls() {
		if c.Ext == ext {
			out = append(out, c)
		}
	}
	return out
}

// Console returns the bytes written through the legacy putchar call.
func (f *Firmware) Console() string {
	var b []byte
	for _, c := range f.CallsTo(sbi.LegacyConsolePutchar) {
		b = append(b, byte(c.A0))
	}
	return string(b)
}

func (f *Firmware) Reset() {
	f.mu.Lock()
	f.calls = nil
	f.mu.Unlock()
}
