package klog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sbirt/kernel/console"
	"sbirt/kernel/klog"
	"sbirt/kernel/sbi"
	"sbirt/kernel/sbi/sbitest"
)

func TestLevels(t *testing.T) {
	fw := &sbitest.Firmware{}
	log := klog.New(console.New(sbi.New(fw)), klog.Info)

	log.Errorf("hart %d: entry returned", 1)
	log.Infof("heap %x bytes", uintptr(0x100000))
	log.Debugf("hidden")

	assert.Equal(t, "[ERROR] hart 1: entry returned\n[INFO ] heap 100000 bytes\n", fw.Console())

	fw.Reset()
	log.SetLevel(klog.Trace)
	log.Tracef("now visible")
	assert.Equal(t, "[TRACE] now visible\n", fw.Console())
}

func TestOffAndNil(t *testing.T) {
	fw := &sbitest.Firmware{}
	log := klog.New(console.New(sbi.New(fw)), klog.Off)
	log.Errorf("dropped")
	assert.Empty(t, fw.Calls())

	var nilLog *klog.Logger
	assert.False(t, nilLog.Enabled(klog.Error))
	nilLog.Errorf("no crash")
}

func TestParseLevel(t *testing.T) {
	l, ok := klog.ParseLevel(" debug ")
	assert.True(t, ok)
	assert.Equal(t, klog.Debug, l)

	_, ok = klog.ParseLevel("loud")
	assert.False(t, ok)
	assert.Equal(t, "WARN ", klog.Warn.String())
}
