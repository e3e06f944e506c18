// Command rtload sends a kernel image to a board as Intel HEX, for a
// serial loader running in the board's boot ROM.
//
// The image's PT_LOAD segments are sent at their physical addresses,
// followed by a start address record for the ELF entry. The CRC16/XMODEM
// of the loaded bytes is printed so it can be compared with what the
// loader reports.
package main

import (
	"bufio"
	"flag"
	"io"
	"log"
	"os"

	"sbirt/config"
	"sbirt/internal/serialport"
)

var boardFlag = flag.String("board", "config/qemu-virt.yaml", "board file")
var portFlag = flag.String("port", "", "serial port, overrides the board file")
var outFlag = flag.String("o", "", "write the hex to this file instead of a port, - for stdout")
var lineFlag = flag.Int("l", 16, "data bytes per hex record")

func main() {
	log.SetFlags(0)
	log.SetPrefix("rtload: ")
	flag.Parse()
	if flag.NArg() != 1 {
		log.Fatalf("usage: rtload [-board <board.yaml>] [-port <dev> | -o <file>] <kernel.elf>")
	}

	fp, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}
	defer fp.Close()
	img, err := readImage(fp)
	if err != nil {
		log.Fatalf("%s: %v", flag.Arg(0), err)
	}
	log.Printf("%s: %d segments, %d bytes, entry %#x, crc16 %#04x",
		flag.Arg(0), len(img.segments), img.size(), img.entry, img.checksum())

	var w io.WriteCloser
	switch {
	case *outFlag == "-":
		w = os.Stdout
	case *outFlag != "":
		w, err = os.Create(*outFlag)
	default:
		board, lerr := config.Load(*boardFlag)
		if lerr != nil {
			log.Fatal(lerr)
		}
		if *portFlag != "" {
			board.Serial.Port = *portFlag
		}
		if board.Serial.Port == "" {
			log.Fatalf("no serial port: use -port or -o")
		}
		w, err = serialport.Open(board.Serial)
	}
	if err != nil {
		log.Fatal(err)
	}

	bw := bufio.NewWriter(w)
	if err := img.writeHex(bw, *lineFlag); err != nil {
		log.Fatal(err)
	}
	if err := bw.Flush(); err != nil {
		log.Fatal(err)
	}
	if err := w.Close(); err != nil {
		log.Fatal(err)
	}
}
