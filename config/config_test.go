package config

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBoard(t *testing.T) {
	b, err := Load(filepath.Join("testdata", "small.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "small", b.Name)
	assert.Equal(t, uint(1), b.MaxHartID)
	assert.Equal(t, Size(8<<10), b.HartStackSize)
	assert.Equal(t, Size(1024), b.TrapStackSize)
	assert.Equal(t, Size(64<<10), b.HeapSize)
	assert.Equal(t, "debug", b.LogLevel)
	assert.Equal(t, "/dev/ttyUSB0", b.Serial.Port)
	assert.Equal(t, 921600, b.Serial.Baud)
	require.Len(t, b.Regions, 2)
	assert.Equal(t, Region{Name: "rom", Base: 0x20000000, Size: 8 << 10, Perm: "rx"}, b.Regions[1])

	// not in the file
	assert.Equal(t, uint64(0x80200000), b.KernelBase)
	assert.Equal(t, uint64(0x88000000), b.RAMEnd)
}

func TestLoadShippedBoard(t *testing.T) {
	b, err := Load("qemu-virt.yaml")
	require.NoError(t, err)
	assert.Equal(t, Size(1<<20), b.HeapSize)
	assert.Equal(t, Size(16<<10), b.HartStackSize)
	assert.Contains(t, b.Emulator.Command, "{kernel}")
	assert.Equal(t, 115200, b.Serial.Baud)
}

func TestUnknownKey(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "unknown-key.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "heap_sise")
}

func TestBadSize(t *testing.T) {
	_, err := Parse([]byte("name: x\nheap_size: lots\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `size "lots"`)
}

func TestValidate(t *testing.T) {
	for _, tc := range []struct {
		name string
		edit func(b *Board)
		msg  string
	}{
		{"name", func(b *Board) { b.Name = "" }, "missing name"},
		{"hart stack", func(b *Board) { b.HartStackSize = 100 }, "hart_stack_size 100"},
		{"trap stack", func(b *Board) { b.TrapStackSize = 256 }, "trap_stack_size 256"},
		{"heap", func(b *Board) { b.HeapSize = 0 }, "heap_size 0"},
		{"pool", func(b *Board) { b.PagePoolSize = 100 }, "page_pool_size 100"},
		{"base", func(b *Board) { b.KernelBase = 0x80200010 }, "kernel_base 0x80200010"},
		{"ram end", func(b *Board) { b.RAMEnd = 0x80100000 }, "ram_end 0x80100000"},
		{"ram end align", func(b *Board) { b.RAMEnd = 0x88000100 }, "ram_end 0x88000100"},
		{"perm", func(b *Board) {
			b.Regions = []Region{{Name: "a", Base: 0x1000, Size: 4096, Perm: "rq"}}
		}, `region a: bad perm "rq"`},
		{"dup", func(b *Board) {
			r := Region{Name: "a", Base: 0x1000, Size: 4096, Perm: "r"}
			b.Regions = []Region{r, r}
		}, `region name "a"`},
		{"level", func(b *Board) { b.LogLevel = "loud" }, `log_level "loud"`},
	} {
		t.Run(tc.name, func(t *testing.T) {
			b := Default()
			b.Name = "x"
			tc.edit(b)
			err := b.Validate()
			require.ErrorIs(t, err, ErrInvalid)
			assert.Contains(t, err.Error(), tc.msg)
		})
	}
}

func TestLayout(t *testing.T) {
	b, err := Load(filepath.Join("testdata", "small.yaml"))
	require.NoError(t, err)

	out, err := b.Layout("config/testdata/small.yaml")
	require.NoError(t, err)
	src := string(out)

	_, err = parser.ParseFile(token.NewFileSet(), "zlayout.go", out, 0)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(src, "// Code generated by rtgen from config/testdata/small.yaml; DO NOT EDIT.\n"))
	assert.Contains(t, src, "\tMaxHartID     = 1\n")
	assert.Contains(t, src, "\tHeapSize      = 0x10000\n")
	assert.Contains(t, src, "\tLogLevel      = \"debug\"\n")
	assert.Contains(t, src, "\tKernelBase    = 0x80200000\n")
	assert.Contains(t, src, "\tRAMEnd        = 0x88000000\n")
	assert.Contains(t, src, "\tvm.Identity(\"rom\", 0x20000000, 0x2000, riscv.PTE_R|riscv.PTE_X),\n")
}

// The checked-in layout is what rtgen makes of the shipped board.
func TestShippedLayoutUpToDate(t *testing.T) {
	b, err := Load("qemu-virt.yaml")
	require.NoError(t, err)
	out, err := b.Layout("config/qemu-virt.yaml")
	require.NoError(t, err)

	want, err := os.ReadFile(filepath.Join("..", "kernel", "layout", "zlayout.go"))
	require.NoError(t, err)
	assert.Equal(t, string(want), string(out))
}
