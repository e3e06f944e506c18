package riscv

// Physical memory layout

// qemu -machine virt is set up like this,
// based on qemu's hw/riscv/virt.c:
//
// 00001000 -- boot ROM, provided by qemu
// 00100000 -- sifive test finisher
// 02000000 -- CLINT
// 0C000000 -- PLIC
// 10000000 -- uart0
// 10001000 -- virtio disk
// 80000000 -- OpenSBI firmware (fw_jump / fw_dynamic)
// 80200000 -- supervisor payload (this runtime) is loaded here
// unused RAM after the payload.

// the runtime uses physical memory thus:
// 80200000 -- entry, then text and data, boot stacks, heap arena
// end -- free RAM
// PHYSTOP -- end of RAM assumed by vm.QemuVirt

// qemu virt devices the kernel maps.
const (
	UART0     = uintptr(0x10000000)
	VIRTIO0   = uintptr(0x10001000)
	PLIC      = uintptr(0x0c000000)
	PLIC_SIZE = uintptr(0x400000)
)

// RAM as seen by the supervisor payload.
const (
	KERNBASE = uintptr(0x80200000)
	PHYSTOP  = uintptr(0x80000000) + 128*1024*1024
)
