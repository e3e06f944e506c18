package main

import (
	"debug/elf"
	"fmt"
	"io"
	"sort"

	"github.com/marcinbor85/gohex"
	"github.com/sigurn/crc16"
)

// segment is one loadable piece of the kernel image at its physical address.
type segment struct {
	addr uint32
	data []byte
}

type image struct {
	entry    uint32
	segments []segment
}

// readImage collects the PT_LOAD segments of an ELF kernel. The part of a
// segment past its file size (bss) is sent as zeros.
func readImage(r io.ReaderAt) (*image, error) {
	f, err := elf.NewFile(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if f.Machine != elf.EM_RISCV {
		return nil, fmt.Errorf("not a RISC-V image: %s", f.Machine)
	}
	if f.Entry > 0xffffffff {
		return nil, fmt.Errorf("entry point %#x does not fit in 32 bits", f.Entry)
	}

	img := &image{entry: uint32(f.Entry)}
	for _, p := range f.Progs {
		if p.Type != elf.PT_LOAD || p.Memsz == 0 {
			continue
		}
		if p.Paddr+p.Memsz > 1<<32 {
			return nil, fmt.Errorf("segment at %#x does not fit in 32 bits", p.Paddr)
		}
		data := make([]byte, p.Memsz)
		if _, err := p.ReadAt(data[:p.Filesz], 0); err != nil && err != io.EOF {
			return nil, fmt.Errorf("reading segment at %#x: %w", p.Paddr, err)
		}
		img.segments = append(img.segments, segment{addr: uint32(p.Paddr), data: data})
	}
	if len(img.segments) == 0 {
		return nil, fmt.Errorf("no loadable segments")
	}
	sort.Slice(img.segments, func(i, j int) bool { return img.segments[i].addr < img.segments[j].addr })
	return img, nil
}

var crcTable = crc16.MakeTable(crc16.CRC16_XMODEM)

// checksum is the CRC16/XMODEM of every segment in address order.
func (img *image) checksum() uint16 {
	crc := crc16.Init(crcTable)
	for _, s := range img.segments {
		crc = crc16.Update(crc, s.data, crcTable)
	}
	return crc16.Complete(crc, crcTable)
}

func (img *image) size() int {
	n := 0
	for _, s := range img.segments {
		n += len(s.data)
	}
	return n
}

// writeHex encodes the image as Intel HEX with a start address record.
func (img *image) writeHex(w io.Writer, lineLength int) error {
	mem := gohex.NewMemory()
	for _, s := range img.segments {
		if err := mem.AddBinary(s.addr, s.data); err != nil {
			return fmt.Errorf("segment at %#x: %w", s.addr, err)
		}
	}
	mem.SetStartAddress(img.entry)
	return mem.DumpIntelHex(w, byte(lineLength))
}
