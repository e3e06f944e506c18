package riscv

import "unsafe"

func Memset(dst uintptr, c int, n uintptr) {
	for i := uintptr(0); i < n; i++ {
		*(*byte)(unsafe.Pointer(dst + i)) = byte(c)
	}
}

// Zero clears a static region such as an arena declared as a byte array.
func Zero(b []byte) {
	if len(b) == 0 {
		return
	}
	Memset(uintptr(unsafe.Pointer(&b[0])), 0, uintptr(len(b)))
}
