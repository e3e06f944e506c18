// Package config reads board descriptions for the host tools.
//
// A board file is YAML. Sizes may be written as plain numbers or with
// units ("16KB", "1MB"):
//
//	name: qemu-virt
//	max_hart_id: 3
//	hart_stack_size: 16KB
//	heap_size: 1MB
//	regions:
//	  - {name: uart0, base: 0x10000000, size: 4KB, perm: rw}
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/inhies/go-bytesize"
	"gopkg.in/yaml.v2"

	"sbirt/kernel/klog"
)

const (
	pageSize  = 4096
	blockSize = 16

	// the trap entry reserves this much of every trap stack
	trapFrameReserve = 320
)

var ErrInvalid = errors.New("invalid board")

// Size is a byte count.
type Size uint64

func (s *Size) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var n uint64
	if err := unmarshal(&n); err == nil {
		*s = Size(n)
		return nil
	}
	var str string
	if err := unmarshal(&str); err != nil {
		return err
	}
	b, err := bytesize.Parse(str)
	if err != nil {
		return fmt.Errorf("size %q: %w", str, err)
	}
	*s = Size(b)
	return nil
}

func (s Size) String() string { return bytesize.New(float64(s)).String() }

type Region struct {
	Name string `yaml:"name"`
	Base uint64 `yaml:"base"`
	Size Size   `yaml:"size"`
	Perm string `yaml:"perm"`
}

// Emulator is how rtrun starts the board under emulation.
type Emulator struct {
	Command string `yaml:"command"`
}

// Serial is how rtrun and rtload reach a real board.
type Serial struct {
	Port string `yaml:"port"`
	Baud int    `yaml:"baud"`
}

type Board struct {
	Name          string   `yaml:"name"`
	MaxHartID     uint     `yaml:"max_hart_id"`
	HartStackSize Size     `yaml:"hart_stack_size"`
	TrapStackSize Size     `yaml:"trap_stack_size"`
	HeapSize      Size     `yaml:"heap_size"`
	PagePoolSize  Size     `yaml:"page_pool_size"`
	KernelBase    uint64   `yaml:"kernel_base"`
	RAMEnd        uint64   `yaml:"ram_end"`
	Regions       []Region `yaml:"regions"`
	Emulator      Emulator `yaml:"emulator"`
	Serial        Serial   `yaml:"serial"`
	LogLevel      string   `yaml:"log_level"`
}

// Default values for fields a board file leaves out.
func Default() *Board {
	return &Board{
		MaxHartID:     3,
		HartStackSize: 4 * pageSize,
		TrapStackSize: pageSize,
		HeapSize:      1 << 20,
		PagePoolSize:  512 << 10,
		KernelBase:    0x80200000,
		RAMEnd:        0x88000000,
		Serial:        Serial{Baud: 115200},
		LogLevel:      "info",
	}
}

// Parse decodes a board file over the defaults. Unknown keys are errors.
func Parse(data []byte) (*Board, error) {
	b := Default()
	if err := yaml.UnmarshalStrict(data, b); err != nil {
		return nil, err
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

func Load(path string) (*Board, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	b, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalid}, args...)...)
}

// Validate checks the layout constraints the kernel relies on.
func (b *Board) Validate() error {
	if b.Name == "" {
		return invalid("missing name")
	}
	if b.HartStackSize == 0 || b.HartStackSize%blockSize != 0 {
		return invalid("hart_stack_size %d is not a positive multiple of %d", b.HartStackSize, blockSize)
	}
	if b.TrapStackSize < trapFrameReserve || b.TrapStackSize%blockSize != 0 {
		return invalid("trap_stack_size %d must be a multiple of %d and at least %d",
			b.TrapStackSize, blockSize, trapFrameReserve)
	}
	if b.HeapSize < blockSize || b.HeapSize%blockSize != 0 {
		return invalid("heap_size %d is not a positive multiple of %d", b.HeapSize, blockSize)
	}
	if b.PagePoolSize%pageSize != 0 {
		return invalid("page_pool_size %d is not page aligned", b.PagePoolSize)
	}
	if b.KernelBase%pageSize != 0 {
		return invalid("kernel_base %#x is not page aligned", b.KernelBase)
	}
	if b.RAMEnd%pageSize != 0 || b.RAMEnd <= b.KernelBase {
		return invalid("ram_end %#x must be page aligned and above kernel_base", b.RAMEnd)
	}
	seen := map[string]bool{}
	for _, r := range b.Regions {
		if r.Name == "" || seen[r.Name] {
			return invalid("region name %q is empty or repeated", r.Name)
		}
		seen[r.Name] = true
		if r.Base%pageSize != 0 || r.Size == 0 {
			return invalid("region %s: base %#x must be page aligned and size non-zero", r.Name, r.Base)
		}
		if _, err := r.PermBits(); err != nil {
			return invalid("region %s: %v", r.Name, err)
		}
	}
	if _, ok := klog.ParseLevel(b.LogLevel); !ok {
		return invalid("unknown log_level %q", b.LogLevel)
	}
	return nil
}

// PermBits maps "rwx" letters to page table entry flag names.
func (r Region) PermBits() ([]string, error) {
	if r.Perm == "" {
		return nil, errors.New("empty perm")
	}
	var bits []string
	for _, c := range strings.ToLower(r.Perm) {
		switch c {
		case 'r':
			bits = append(bits, "riscv.PTE_R")
		case 'w':
			bits = append(bits, "riscv.PTE_W")
		case 'x':
			bits = append(bits, "riscv.PTE_X")
		default:
			return nil, fmt.Errorf("bad perm %q", r.Perm)
		}
	}
	return bits, nil
}
