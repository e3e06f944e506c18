package sbi_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sbirt/kernel/sbi"
	"sbirt/kernel/sbi/sbitest"
)

func TestDecodeSuccess(t *testing.T) {
	v, err := sbi.Decode(sbi.Ret{Error: 0, Value: 0xdead})
	require.NoError(t, err)
	assert.Equal(t, uintptr(0xdead), v)
}

func TestDecodeDefinedErrors(t *testing.T) {
	cases := []struct {
		code int
		want sbi.Error
		msg  string
	}{
		{-1, sbi.ErrFailed, "sbi: failed"},
		{-2, sbi.ErrNotSupported, "sbi: not supported"},
		{-3, sbi.ErrInvalidParam, "sbi: invalid parameter"},
		{-4, sbi.ErrDenied, "sbi: denied"},
		{-5, sbi.ErrInvalidAddress, "sbi: invalid address"},
		{-6, sbi.ErrAlreadyAvailable, "sbi: already available"},
	}
	for _, c := range cases {
		v, err := sbi.Decode(sbi.Ret{Error: c.code, Value: 7})
		assert.Zero(t, v)
		assert.ErrorIs(t, err, c.want)
		assert.EqualError(t, err, c.msg)
	}
}

func TestDecodeUnknownStatus(t *testing.T) {
	for _, code := range []int{1, 42, -7, -100} {
		_, err := sbi.Decode(sbi.Ret{Error: code, Value: 3})
		var unknown *sbi.UnknownStatusError
		require.True(t, errors.As(err, &unknown), "code %d", code)
		assert.Equal(t, code, unknown.Code)

		var defined sbi.Error
		assert.False(t, errors.As(err, &defined), "code %d must not be coerced", code)
	}
}

func TestMust(t *testing.T) {
	assert.Equal(t, uintptr(5), sbi.Must(5, nil))
	assert.PanicsWithError(t, "sbi: denied", func() { sbi.Must(0, sbi.ErrDenied) })
}

func TestConsolePutchar(t *testing.T) {
	fw := &sbitest.Firmware{}
	c := sbi.New(fw)

	require.NoError(t, c.ConsolePutchar(0x41))

	calls := fw.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, sbitest.Call{Ext: sbi.LegacyConsolePutchar, A0: 0x41}, calls[0])
	assert.Equal(t, "A", fw.Console())
}

func TestConsolePutcharFailureNotRetried(t *testing.T) {
	fw := &sbitest.Firmware{Reply: func(sbitest.Call) sbi.Ret { return sbi.Ret{Error: -1} }}
	c := sbi.New(fw)

	assert.ErrorIs(t, c.ConsolePutchar('x'), sbi.ErrFailed)
	assert.Len(t, fw.Calls(), 1)
}

func TestConsoleGetchar(t *testing.T) {
	in := []int{-1, 'q'}
	fw := &sbitest.Firmware{Reply: func(sbitest.Call) sbi.Ret {
		r := sbi.Ret{Error: in[0]}
		in = in[1:]
		return r
	}}
	c := sbi.New(fw)

	_, ok := c.ConsoleGetchar()
	assert.False(t, ok)
	ch, ok := c.ConsoleGetchar()
	assert.True(t, ok)
	assert.Equal(t, byte('q'), ch)
}

func TestShutdown(t *testing.T) {
	fw := &sbitest.Firmware{}
	require.NoError(t, sbi.New(fw).Shutdown())
	assert.Equal(t, []sbitest.Call{{Ext: sbi.LegacyShutdown}}, fw.Calls())
}

func TestLegacyArguments(t *testing.T) {
	fw := &sbitest.Firmware{}
	c := sbi.New(fw)

	require.NoError(t, c.SetTimer(1000))
	require.NoError(t, c.SendIPI(0x8000))
	require.NoError(t, c.RemoteSfenceVMA(0x8000, 0x1000, 0x2000))
	require.NoError(t, c.ClearIPI())
	require.NoError(t, c.RemoteFenceI(0x8000))

	assert.Equal(t, []sbitest.Call{
		{Ext: sbi.LegacySetTimer, A0: 1000},
		{Ext: sbi.LegacySendIPI, A0: 0x8000},
		{Ext: sbi.LegacyRemoteSfenceVMA, A0: 0x8000, A1: 0x1000, A2: 0x2000},
		{Ext: sbi.LegacyClearIPI},
		{Ext: sbi.LegacyRemoteFenceI, A0: 0x8000},
	}, fw.Calls())
}

func TestBaseExtension(t *testing.T) {
	fw := &sbitest.Firmware{Reply: func(c sbitest.Call) sbi.Ret {
		if c.Ext != sbi.ExtBase {
			return sbi.Ret{Error: int(sbi.ErrNotSupported)}
		}
		switch c.Fid {
		case 0:
			return sbi.Ret{Value: 1<<24 | 0} // v1.0
		case 1:
			return sbi.Ret{Value: 1}
		case 3:
			if c.A0 == sbi.LegacyConsolePutchar {
				return sbi.Ret{Value: 1}
			}
			return sbi.Ret{Value: 0}
		}
		return sbi.Ret{Error: int(sbi.ErrNotSupported)}
	}}
	c := sbi.New(fw)

	major, minor, err := c.SpecVersion()
	require.NoError(t, err)
	assert.Equal(t, uintptr(1), major)
	assert.Equal(t, uintptr(0), minor)

	id, err := c.ImplID()
	require.NoError(t, err)
	assert.Equal(t, "OpenSBI", sbi.ImplName(id))
	assert.Equal(t, "unknown", sbi.ImplName(99))

	ok, err := c.ProbeExtension(sbi.LegacyConsolePutchar)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = c.ProbeExtension(0x48534D)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = c.MVendorID()
	assert.ErrorIs(t, err, sbi.ErrNotSupported)
}
