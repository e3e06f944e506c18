//go:build riscv64

package sbi

// Hardware is the firmware reached through the ecall instruction.
type Hardware struct{}

func (Hardware) Ecall(ext, fid, a0, a1, a2 uintptr) Ret {
	err, val := ecall(ext, fid, a0, a1, a2)
	return Ret{Error: err, Value: val}
}

// implemented in ecall_riscv64.s
func ecall(ext, fid, a0, a1, a2 uintptr) (err int, val uintptr)
