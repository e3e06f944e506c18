package sbi

// Base extension (SBI v0.2 and later).
const ExtBase = 0x10

const (
	baseGetSpecVersion = 0
	baseGetImplID      = 1
	baseGetImplVersion = 2
	baseProbeExtension = 3
	baseGetMVendorID   = 4
	baseGetMArchID     = 5
	baseGetMImpID      = 6
)

// Known implementation ids, as returned by ImplID.
var implNames = map[uintptr]string{
	0: "Berkeley Boot Loader (BBL)",
	1: "OpenSBI",
	2: "Xvisor",
	3: "KVM",
	4: "RustSBI",
	5: "Diosix",
	6: "Coffer",
}

// ImplName names a firmware implementation id.
func ImplName(id uintptr) string {
	if n, ok := implNames[id]; ok {
		return n
	}
	return "unknown"
}

// SpecVersion returns the SBI specification version as (major, minor).
func (c *Client) SpecVersion() (major, minor uintptr, err error) {
	v, err := c.Call(ExtBase, baseGetSpecVersion, 0, 0, 0)
	if err != nil {
		return 0, 0, err
	}
	return (v >> 24) & 0x7f, v & 0xffffff, nil
}

func (c *Client) ImplID() (uintptr, error) {
	return c.Call(ExtBase, baseGetImplID, 0, 0, 0)
}

func (c *Client) ImplVersion() (uintptr, error) {
	return c.Call(ExtBase, baseGetImplVersion, 0, 0, 0)
}

// ProbeExtension reports whether the extension is available.
func (c *Client) ProbeExtension(ext uintptr) (bool, error) {
	v, err := c.Call(ExtBase, baseProbeExtension, ext, 0, 0)
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

func (c *Client) MVendorID() (uintptr, error) {
	return c.Call(ExtBase, baseGetMVendorID, 0, 0, 0)
}

func (c *Client) MArchID() (uintptr, error) {
	return c.Call(ExtBase, baseGetMArchID, 0, 0, 0)
}

func (c *Client) MImpID() (uintptr, error) {
	return c.Call(ExtBase, baseGetMImpID, 0, 0, 0)
}
