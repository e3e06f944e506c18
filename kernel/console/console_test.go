package console

import (
	"fmt"
	"sync"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sbirt/kernel/sbi"
	"sbirt/kernel/sbi/sbitest"
)

func newTestConsole() (*Console, *sbitest.Firmware) {
	fw := &sbitest.Firmware{}
	return New(sbi.New(fw)), fw
}

func TestPrintf(t *testing.T) {
	c, fw := newTestConsole()
	c.Printf("Today is %s\n, %c %d %d\n", "Monday", 'M', 1, 2)
	assert.Equal(t, "Today is Monday\n, M 1 2\n", fw.Console())
}

func TestPrintfNumbers(t *testing.T) {
	cases := []struct {
		format string
		arg    interface{}
		want   string
	}{
		{"%d", 2147483647, "2147483647"},
		{"%d", -42, "-42"},
		{"%d", 0, "0"},
		{"%d", int64(-9223372036854775808), "-9223372036854775808"},
		{"%d", uintptr(17), "17"},
		{"%x", uintptr(0x80200000), "80200000"},
		{"%x", uint8(7), "07"},
		{"%p", uintptr(0x1000), "0x1000"},
		{"%x", 0, "0"},
		{"%t", true, "true"},
		{"%s", fmt.Errorf("boom"), "boom"},
		{"%d", "nope", "%!d"},
	}
	for _, tc := range cases {
		c, fw := newTestConsole()
		c.Printf(tc.format, tc.arg)
		assert.Equal(t, tc.want, fw.Console(), "format %q arg %v", tc.format, tc.arg)
	}
}

func TestPrintfPointer(t *testing.T) {
	c, fw := newTestConsole()
	x := 1
	p := unsafe.Pointer(&x)
	c.Printf("%p", p)
	assert.Equal(t, fmt.Sprintf("%p", p), fw.Console())
}

func TestPrintfEscapes(t *testing.T) {
	c, fw := newTestConsole()
	format := "100%% %q %d"
	c.Printf(format)
	assert.Equal(t, "100% %!q(MISSING) %!d(MISSING)", fw.Console())
}

func TestWriteSingleCallPerByte(t *testing.T) {
	c, fw := newTestConsole()
	n, err := c.Write([]byte{0x41})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []sbitest.Call{{Ext: sbi.LegacyConsolePutchar, A0: 0x41}}, fw.Calls())
}

func TestWritesDoNotInterleave(t *testing.T) {
	c, fw := newTestConsole()
	var wg sync.WaitGroup
	for h := 0; h < 4; h++ {
		wg.Add(1)
		go func(h int) {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				c.Println(fmt.Sprintf("hart %d line", h))
			}
		}(h)
	}
	wg.Wait()

	out := fw.Console()
	for h := 0; h < 4; h++ {
		assert.Equal(t, 20, countLines(out, fmt.Sprintf("hart %d line\n", h)))
	}
}

func countLines(out, line string) int {
	n := 0
	for i := 0; i+len(line) <= len(out); i++ {
		if out[i:i+len(line)] == line {
			n++
		}
	}
	return n
}

func TestPutcFailureIsFatal(t *testing.T) {
	fw := &sbitest.Firmware{Reply: func(sbitest.Call) sbi.Ret { return sbi.Ret{Error: -4} }}
	c := New(sbi.New(fw))
	assert.PanicsWithError(t, "sbi: denied", func() { c.printString("x") })
	assert.Len(t, fw.Calls(), 1)
}

func TestFailedPrintReleasesLock(t *testing.T) {
	var mu sync.Mutex
	fail := true
	fw := &sbitest.Firmware{Reply: func(sbitest.Call) sbi.Ret {
		mu.Lock()
		defer mu.Unlock()
		if fail {
			return sbi.Ret{Error: -4}
		}
		return sbi.Ret{}
	}}
	c := New(sbi.New(fw))

	assert.Panics(t, func() { c.Println("lost") })
	assert.False(t, c.mu.Holding())

	mu.Lock()
	fail = false
	mu.Unlock()
	fw.Reset()
	c.Println("[ERROR] reported")
	assert.Equal(t, "[ERROR] reported\n", fw.Console())
}

func TestGetc(t *testing.T) {
	fw := &sbitest.Firmware{Reply: func(sbitest.Call) sbi.Ret { return sbi.Ret{Error: 'k'} }}
	c := New(sbi.New(fw))
	b, ok := c.Getc()
	assert.True(t, ok)
	assert.Equal(t, byte('k'), b)
}
