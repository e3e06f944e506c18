// Package klog is the kernel's leveled log. Lines go to the console as
//
//	[INFO ] message
//
// and a line is never split between concurrent writers.
package klog

import (
	"strings"
	"sync/atomic"
)

type Level int32

const (
	Off Level = iota
	Error
	Warn
	Info
	Debug
	Trace
)

var levelNames = [...]string{"OFF  ", "ERROR", "WARN ", "INFO ", "DEBUG", "TRACE"}

func (l Level) String() string {
	if l < Off || int(l) >= len(levelNames) {
		return "?????"
	}
	return levelNames[l]
}

// ParseLevel accepts the level names case-insensitively.
func ParseLevel(s string) (Level, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for i, n := range levelNames {
		if strings.TrimSpace(n) == s {
			return Level(i), true
		}
	}
	return Off, false
}

// Printer is where log lines go; *console.Console satisfies it.
type Printer interface {
	Printf(format string, args ...interface{})
}

type Logger struct {
	out   Printer
	level atomic.Int32
}

func New(out Printer, level Level) *Logger {
	l := &Logger{out: out}
	l.level.Store(int32(level))
	return l
}

func (l *Logger) SetLevel(level Level) { l.level.Store(int32(level)) }

func (l *Logger) Level() Level { return Level(l.level.Load()) }

func (l *Logger) Enabled(level Level) bool {
	return l != nil && level != Off && level <= l.Level()
}

func (l *Logger) Logf(level Level, format string, args ...interface{}) {
	if !l.Enabled(level) {
		return
	}
	l.out.Printf("["+level.String()+"] "+format+"\n", args...)
}

func (l *Logger) Errorf(format string, args ...interface{}) { l.Logf(Error, format, args...) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.Logf(Warn, format, args...) }
func (l *Logger) Infof(format string, args ...interface{})  { l.Logf(Info, format, args...) }
func (l *Logger) Debugf(format string, args ...interface{}) { l.Logf(Debug, format, args...) }
func (l *Logger) Tracef(format string, args ...interface{}) { l.Logf(Trace, format, args...) }
