package sbi

// Legacy extensions (SBI v0.1). Each call is its own extension id with
// function id 0.
const (
	LegacySetTimer            = 0x00
	LegacyConsolePutchar      = 0x01
	LegacyConsoleGetchar      = 0x02
	LegacyClearIPI            = 0x03
	LegacySendIPI             = 0x04
	LegacyRemoteFenceI        = 0x05
	LegacyRemoteSfenceVMA     = 0x06
	LegacyRemoteSfenceVMAASID = 0x07
	LegacyShutdown            = 0x08
)

func (c *Client) legacy(ext, a0, a1, a2 uintptr) error {
	_, err := c.Call(ext, 0, a0, a1, a2)
	return err
}

// ConsolePutchar writes one byte to the debug console.
func (c *Client) ConsolePutchar(ch byte) error {
	return c.legacy(LegacyConsolePutchar, uintptr(ch), 0, 0)
}

// ConsoleGetchar reads one byte from the debug console. ok is false when no
// input is pending; the legacy call returns -1 in a0 for that case.
func (c *Client) ConsoleGetchar() (ch byte, ok bool) {
	r := c.fw.Ecall(LegacyConsoleGetchar, 0, 0, 0, 0)
	if r.Error < 0 {
		return 0, false
	}
	return byte(r.Error), true
}

// SetTimer programs the next timer event for the calling hart, in ticks of
// the time CSR. It also clears a pending timer interrupt.
func (c *Client) SetTimer(stime uint64) error {
	return c.legacy(LegacySetTimer, uintptr(stime), 0, 0)
}

func (c *Client) ClearIPI() error {
	return c.legacy(LegacyClearIPI, 0, 0, 0)
}

// SendIPI sends a software interrupt to the harts in the mask pointed to by
// hartMask (a virtual address of an unsigned long bitmap).
func (c *Client) SendIPI(hartMask uintptr) error {
	return c.legacy(LegacySendIPI, hartMask, 0, 0)
}

func (c *Client) RemoteFenceI(hartMask uintptr) error {
	return c.legacy(LegacyRemoteFenceI, hartMask, 0, 0)
}

func (c *Client) RemoteSfenceVMA(hartMask, start, size uintptr) error {
	return c.legacy(LegacyRemoteSfenceVMA, hartMask, start, size)
}

// Shutdown asks firmware to power off. On real firmware it does not return;
// if it does, the error (or nil) is passed back to the caller to decide.
func (c *Client) Shutdown() error {
	return c.legacy(LegacyShutdown, 0, 0, 0)
}
