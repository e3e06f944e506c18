// Package trap routes supervisor traps to program handlers.
//
// The assembly entry saves the interrupted registers into a Frame on the
// hart's trap stack and calls the installed Engine. Whatever frame the
// engine returns is restored before sret.
//
// Traps nest: a trap taken while a handler runs (a fault in the handler, or
// an interrupt if the handler re-enables them) pushes a new frame below the
// handler's on the same stack. The outer frame is left intact and resumes
// once the inner trap returns.
package trap

import "sync/atomic"

type Engine struct {
	handlers Handlers
	table    Table
}

func NewEngine(h Handlers) *Engine {
	return &Engine{handlers: h, table: NewTable(h)}
}

func (e *Engine) Table() *Table { return &e.table }

// Dispatch runs exactly one handler for the trap and returns the frame to
// resume.
func (e *Engine) Dispatch(f *Frame, cause Cause, stval uintptr) *Frame {
	var next *Frame
	if cause.IsException() {
		next = e.handlers.Exception(f, cause, stval)
	} else if h, ok := e.table.Lookup(cause.Code()); ok {
		next = h(f)
	} else {
		next = e.handlers.DefaultHandler(f, cause)
	}
	if next == nil {
		return f
	}
	return next
}

var active atomic.Pointer[Engine]

// Install makes e the engine every hart dispatches to. It is called once,
// before any hart writes stvec.
func Install(e *Engine) { active.Store(e) }

// Installed returns the active engine, or nil.
func Installed() *Engine { return active.Load() }
