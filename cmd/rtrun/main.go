// Command rtrun boots a kernel image on a board and attaches the terminal
// to its console.
//
// With a serial port (-port, or serial.port in the board file) it talks to
// real hardware; otherwise it starts the board's emulator command with
// {kernel} replaced by the image path. Kernel log lines are colored by
// level. Ctrl-] detaches.
package main

import (
	"flag"
	"io"
	"log"
	"os"
	"unicode/utf8"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-tty"

	"sbirt/config"
	"sbirt/internal/serialport"
)

const detachKey = 0x1d // Ctrl-]

var boardFlag = flag.String("board", "config/qemu-virt.yaml", "board file")
var portFlag = flag.String("port", "", "serial port of a real board, overrides the board file")
var baudFlag = flag.Int("baud", 0, "serial baud rate, overrides the board file")
var plainFlag = flag.Bool("plain", false, "strip colors")

// target is a running board.
type target interface {
	io.ReadWriter
	Close() error
	Wait() error
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("rtrun: ")
	flag.Parse()
	if flag.NArg() != 1 {
		log.Fatalf("usage: rtrun [-board <board.yaml>] [-port <dev>] [-baud <n>] [-plain] <kernel>")
	}
	board, err := config.Load(*boardFlag)
	if err != nil {
		log.Fatal(err)
	}
	if *portFlag != "" {
		board.Serial.Port = *portFlag
	}
	if *baudFlag != 0 {
		board.Serial.Baud = *baudFlag
	}

	var t target
	if board.Serial.Port != "" {
		t, err = serialport.Open(board.Serial)
	} else {
		t, err = startEmulator(board.Emulator, flag.Arg(0))
	}
	if err != nil {
		log.Fatal(err)
	}

	out := colorable.NewColorableStdout()
	if *plainFlag {
		out = colorable.NewNonColorable(os.Stdout)
	}
	col := newColorizer(out)

	err = interact(t, col)
	col.Flush()
	if err != nil {
		log.Fatal(err)
	}
}

// interact runs the session with the terminal in raw mode and puts the
// terminal back before returning.
func interact(t target, out io.Writer) error {
	term, err := tty.Open()
	if err != nil {
		log.Printf("no terminal, input not forwarded: %v", err)
		return session(t, nil, out)
	}
	// closing the tty also ends a ReadRune still waiting for a key
	defer term.Close()
	restore, err := term.Raw()
	if err != nil {
		log.Printf("raw mode: %v", err)
		return session(t, nil, out)
	}
	defer restore()
	return session(t, term, out)
}

type runeReader interface {
	ReadRune() (rune, error)
}

// session runs until the board exits or the detach key is read. It
// returns once everything the board printed has been written to out.
func session(t target, in runeReader, out io.Writer) error {
	copied := make(chan struct{})
	go func() {
		io.Copy(out, t)
		close(copied)
	}()

	done := make(chan error, 2)
	go func() { done <- t.Wait() }()
	if in != nil {
		go func() { done <- forwardInput(t, in) }()
	}

	err := <-done
	t.Close()
	<-copied
	return err
}

// forwardInput sends keystrokes to the board until the detach key.
func forwardInput(w io.Writer, in runeReader) error {
	buf := make([]byte, 0, 4)
	for {
		r, err := in.ReadRune()
		if err != nil {
			return err
		}
		if r == detachKey {
			return nil
		}
		buf = utf8.AppendRune(buf[:0], r)
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
}
