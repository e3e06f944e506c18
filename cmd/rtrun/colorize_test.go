package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColorizeLevels(t *testing.T) {
	var out bytes.Buffer
	c := newColorizer(&out)

	c.Write([]byte("[ERROR] boom\n[INFO ] hart 0 elected\nplain\n"))

	assert.Equal(t,
		ansiRed+"[ERROR] boom"+ansiReset+"\n"+
			ansiGreen+"[INFO ] hart 0 elected"+ansiReset+"\n"+
			"plain\n",
		out.String())
}

func TestColorizeSplitWrites(t *testing.T) {
	var out bytes.Buffer
	c := newColorizer(&out)

	for _, b := range []byte("[WARN ] low\n") {
		c.Write([]byte{b})
	}
	assert.Equal(t, ansiYellow+"[WARN ] low"+ansiReset+"\n", out.String())
}

func TestColorizePassesPartialLines(t *testing.T) {
	var out bytes.Buffer
	c := newColorizer(&out)

	c.Write([]byte("$ "))
	assert.Equal(t, "$ ", out.String())

	c.Write([]byte("\n[DEB"))
	assert.Equal(t, "$ \n", out.String())

	c.Write([]byte("UG] x\n[nope]\n\n"))
	assert.Equal(t, "$ \n"+ansiCyan+"[DEBUG] x"+ansiReset+"\n[nope]\n\n", out.String())
}

func TestColorizeFlush(t *testing.T) {
	var out bytes.Buffer
	c := newColorizer(&out)

	c.Write([]byte("ok\n[ER"))
	assert.Equal(t, "ok\n", out.String())
	c.Flush()
	assert.Equal(t, "ok\n[ER", out.String())

	out.Reset()
	c = newColorizer(&out)
	c.Write([]byte("[ERROR] halted"))
	c.Flush()
	assert.Equal(t, ansiRed+"[ERROR] halted"+ansiReset, out.String())
}
