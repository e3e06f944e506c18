package main

import (
	"bytes"
	"io"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
	ansiGreen  = "\x1b[32m"
	ansiCyan   = "\x1b[36m"
	ansiGray   = "\x1b[90m"
)

var levelColors = []struct {
	prefix []byte
	color  string
}{
	{[]byte("[ERROR]"), ansiRed},
	{[]byte("[WARN ]"), ansiYellow},
	{[]byte("[INFO ]"), ansiGreen},
	{[]byte("[DEBUG]"), ansiCyan},
	{[]byte("[TRACE]"), ansiGray},
}

// colorizer colors whole kernel log lines by level. Bytes that are not
// part of a log line pass through as soon as they arrive, so prompts and
// raw console output are not held back.
type colorizer struct {
	out     io.Writer
	line    []byte // start of the current line, while it may still be a log line
	color   string // color of the current line once known
	atStart bool
}

func newColorizer(out io.Writer) *colorizer {
	return &colorizer{out: out, atStart: true}
}

func (c *colorizer) Write(p []byte) (int, error) {
	n := len(p)
	for len(p) > 0 {
		if c.atStart || c.line != nil {
			c.line = append(c.line, p[0])
			p = p[1:]
			c.atStart = false
			if err := c.classify(); err != nil {
				return 0, err
			}
			continue
		}
		i := bytes.IndexByte(p, '\n')
		if i < 0 {
			if _, err := c.out.Write(p); err != nil {
				return 0, err
			}
			break
		}
		if err := c.endLine(p[:i]); err != nil {
			return 0, err
		}
		p = p[i+1:]
	}
	return n, nil
}

// classify decides, as soon as enough of the line is buffered, whether it
// is a log line.
func (c *colorizer) classify() error {
	if c.line[len(c.line)-1] == '\n' {
		buf := c.line[:len(c.line)-1]
		c.line = nil
		return c.endLine(buf)
	}
	for _, lc := range levelColors {
		if bytes.HasPrefix(lc.prefix, c.line) {
			if len(c.line) == len(lc.prefix) {
				c.color = lc.color
				buf := c.line
				c.line = nil
				_, err := io.WriteString(c.out, c.color)
				if err == nil {
					_, err = c.out.Write(buf)
				}
				return err
			}
			return nil
		}
	}
	buf := c.line
	c.line = nil
	_, err := c.out.Write(buf)
	return err
}

func (c *colorizer) endLine(rest []byte) error {
	if _, err := c.out.Write(rest); err != nil {
		return err
	}
	if c.color != "" {
		if _, err := io.WriteString(c.out, ansiReset); err != nil {
			return err
		}
		c.color = ""
	}
	_, err := c.out.Write([]byte{'\n'})
	c.atStart = true
	return err
}

// Flush writes out a line start still held back for classification, and
// resets the color. It is called once the board has stopped printing.
func (c *colorizer) Flush() error {
	if c.line != nil {
		buf := c.line
		c.line = nil
		if _, err := c.out.Write(buf); err != nil {
			return err
		}
	}
	if c.color != "" {
		c.color = ""
		_, err := io.WriteString(c.out, ansiReset)
		return err
	}
	return nil
}
