// Command rtgen renders kernel/layout from a board file.
package main

import (
	"bytes"
	"flag"
	"log"
	"os"

	"sbirt/config"
)

var outfile = flag.String("o", "kernel/layout/zlayout.go", "output filename, - for stdout")
var check = flag.Bool("c", false, "only check that the output file is up to date")

func main() {
	log.SetFlags(0)
	log.SetPrefix("rtgen: ")
	flag.Parse()
	if flag.NArg() != 1 {
		log.Fatalf("usage: rtgen [-c] [-o <outputfile>] <board.yaml>")
	}
	board, err := config.Load(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}
	out, err := board.Layout(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}

	switch {
	case *outfile == "-":
		os.Stdout.Write(out)
	case *check:
		old, err := os.ReadFile(*outfile)
		if err != nil {
			log.Fatal(err)
		}
		if !bytes.Equal(old, out) {
			log.Fatalf("%s is stale, rerun rtgen %s", *outfile, flag.Arg(0))
		}
	default:
		if err := os.WriteFile(*outfile, out, 0644); err != nil {
			log.Fatal(err)
		}
		log.Printf("wrote %s for board %s", *outfile, board.Name)
	}
}
