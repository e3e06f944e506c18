package console

import "unsafe"

func (c *Console) printUint(num uint64, base uint64, digits int) {
	// A uint64 needs at most 20 decimal or 16 hex digits.
	var buf [20]byte
	i := 0

	for num > 0 || i < digits || i == 0 {
		buf[i] = "0123456789abcdef"[num%base]
		i++
		num = num / base
	}

	for i = i - 1; i >= 0; i-- {
		c.putc(buf[i])
	}
}

func (c *Console) printInt(num int64) {
	if num < 0 {
		c.putc('-')
		c.printUint(uint64(-num), 10, 0)
		return
	}
	c.printUint(uint64(num), 10, 0)
}

func (c *Console) printString(str string) {
	for i := 0; i < len(str); i++ {
		c.putc(str[i])
	}
}

func (c *Console) printArg(verb byte, arg interface{}) {
	switch verb {
	case 'd':
		switch v := arg.(type) {
		case int:
			c.printInt(int64(v))
		case int32:
			c.printInt(int64(v))
		case int64:
			c.printInt(v)
		case uint:
			c.printUint(uint64(v), 10, 0)
		case uint32:
			c.printUint(uint64(v), 10, 0)
		case uint64:
			c.printUint(v, 10, 0)
		case uintptr:
			c.printUint(uint64(v), 10, 0)
		default:
			c.printString("%!d")
		}
	case 'x', 'p':
		if verb == 'p' {
			c.printString("0x")
		}
		switch v := arg.(type) {
		case int:
			c.printUint(uint64(v), 16, 0)
		case uint:
			c.printUint(uint64(v), 16, 0)
		case uint8:
			c.printUint(uint64(v), 16, 2)
		case uint32:
			c.printUint(uint64(v), 16, 0)
		case uint64:
			c.printUint(v, 16, 0)
		case uintptr:
			c.printUint(uint64(v), 16, 0)
		case unsafe.Pointer:
			c.printUint(uint64(uintptr(v)), 16, 0)
		default:
			c.printString("%!x")
		}
	case 's':
		switch v := arg.(type) {
		case string:
			c.printString(v)
		case error:
			c.printString(v.Error())
		case interface{ String() string }:
			c.printString(v.String())
		default:
			c.printString("%!s")
		}
	case 'c':
		switch v := arg.(type) {
		case int:
			c.putc(byte(v))
		case int32:
			c.putc(byte(v))
		case byte:
			c.putc(v)
		default:
			c.putc('?')
		}
	case 't':
		if v, ok := arg.(bool); ok && v {
			c.printString("true")
		} else {
			c.printString("false")
		}
	default:
		c.putc('%')
		c.putc(verb)
	}
}

// Printf understands %d %x %p %s %c %t and %%. Missing arguments print as
// %!<verb>(MISSING).
func (c *Console) Printf(format string, args ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.printf(format, args...)
}

func (c *Console) printf(format string, args ...interface{}) {
	argIdx := 0
	for i := 0; i < len(format); i++ {
		if format[i] != '%' || i+1 >= len(format) {
			c.putc(format[i])
			continue
		}
		i++
		verb := format[i]
		if verb == '%' {
			c.putc('%')
			continue
		}
		if argIdx >= len(args) {
			c.putc('%')
			c.putc('!')
			c.putc(verb)
			c.printString("(MISSING)")
			continue
		}
		c.printArg(verb, args[argIdx])
		argIdx++
	}
}
