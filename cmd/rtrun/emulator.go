package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/shlex"
	"golang.org/x/sys/unix"

	"sbirt/config"
)

// emulatorCommand splits the board's emulator command line and substitutes
// the kernel path.
func emulatorCommand(e config.Emulator, kernel string) ([]string, error) {
	if strings.TrimSpace(e.Command) == "" {
		return nil, errors.New("board has no emulator command and no serial port")
	}
	args, err := shlex.Split(e.Command)
	if err != nil {
		return nil, fmt.Errorf("emulator command: %w", err)
	}
	for i, a := range args {
		args[i] = strings.ReplaceAll(a, "{kernel}", kernel)
	}
	return args, nil
}

type emulator struct {
	cmd *exec.Cmd
	out *io.PipeWriter
	io.Reader
	io.WriteCloser
}

func startEmulator(e config.Emulator, kernel string) (*emulator, error) {
	args, err := emulatorCommand(e, kernel)
	if err != nil {
		return nil, err
	}
	cmd := exec.Command(args[0], args[1:]...)
	cmd.Stderr = os.Stderr
	// own process group, so the terminal's Ctrl-C reaches us and not qemu
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	// not StdoutPipe: Wait would close it under the reader
	pr, pw := io.Pipe()
	cmd.Stdout = pw
	if err := cmd.Start(); err != nil {
		return nil, err
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, unix.SIGINT, unix.SIGTERM, unix.SIGHUP)
	go func() {
		for range sigs {
			unix.Kill(cmd.Process.Pid, unix.SIGTERM)
		}
	}()

	return &emulator{cmd: cmd, out: pw, Reader: pr, WriteCloser: stdin}, nil
}

func (e *emulator) Close() error {
	e.WriteCloser.Close()
	// ESRCH when the guest has already shut down
	unix.Kill(e.cmd.Process.Pid, unix.SIGTERM)
	return nil
}

func (e *emulator) Wait() error {
	err := e.cmd.Wait()
	e.out.Close()
	return err
}
