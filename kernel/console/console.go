// Package console prints to the firmware debug console, one byte per SBI
// legacy putchar call.
package console

import (
	"sbirt/kernel/sbi"
	"sbirt/kernel/spin"
)

type Console struct {
	fw *sbi.Client
	mu *spin.Lock
}

func New(fw *sbi.Client) *Console {
	return &Console{fw: fw, mu: spin.New("console")}
}

// putc treats firmware failure as fatal: there is nowhere else to report it.
func (c *Console) putc(b byte) {
	if err := c.fw.ConsolePutchar(b); err != nil {
		panic(err)
	}
}

// Write implements io.Writer. Concurrent writers do not interleave inside
// a single call.
func (c *Console) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, b := range p {
		c.putc(b)
	}
	return len(p), nil
}

func (c *Console) Print(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.printString(s)
}

func (c *Console) Println(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.printString(s)
	c.putc('\n')
}

// Getc polls for one byte of input.
func (c *Console) Getc() (byte, bool) {
	return c.fw.ConsoleGetchar()
}
