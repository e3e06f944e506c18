package trap

// Interrupt codes as they appear in scause.
const (
	UserSoft           = 0
	SupervisorSoft     = 1
	MachineSoft        = 3
	UserTimer          = 4
	SupervisorTimer    = 5
	MachineTimer       = 7
	UserExternal       = 8
	SupervisorExternal = 9
	MachineExternal    = 11

	NumVectors = 12
)

var vectorNames = [NumVectors]string{
	UserSoft:           "UserSoft",
	SupervisorSoft:     "SupervisorSoft",
	MachineSoft:        "MachineSoft",
	UserTimer:          "UserTimer",
	SupervisorTimer:    "SupervisorTimer",
	MachineTimer:       "MachineTimer",
	UserExternal:       "UserExternal",
	SupervisorExternal: "SupervisorExternal",
	MachineExternal:    "MachineExternal",
}

// Kind tags a vector table slot.
type Kind uint8

const (
	// Invalid is the zero value: a slot nobody filled in.
	Invalid Kind = iota
	Reserved
	Defined
)

func (k Kind) String() string {
	switch k {
	case Reserved:
		return "reserved"
	case Defined:
		return "defined"
	}
	return "invalid"
}

// HandlerFunc handles one interrupt. It returns the frame to resume, or
// nil to resume the frame it was given.
type HandlerFunc func(f *Frame) *Frame

type Vector struct {
	Kind    Kind
	Name    string
	Handler HandlerFunc
}

// Table maps interrupt codes to handlers. It is built once before any hart
// installs the trap vector and never written afterwards.
type Table [NumVectors]Vector

// NewTable lays out the standard supervisor table: the nine named vectors
// are bound to h, codes 2, 6 and 10 are reserved.
func NewTable(h Handlers) Table {
	var t Table
	for code := range t {
		t[code] = Vector{Kind: Reserved}
	}
	bind := func(code int, fn HandlerFunc) {
		t[code] = Vector{Kind: Defined, Name: vectorNames[code], Handler: fn}
	}
	bind(UserSoft, h.UserSoft)
	bind(SupervisorSoft, h.SupervisorSoft)
	bind(MachineSoft, h.MachineSoft)
	bind(UserTimer, h.UserTimer)
	bind(SupervisorTimer, h.SupervisorTimer)
	bind(MachineTimer, h.MachineTimer)
	bind(UserExternal, h.UserExternal)
	bind(SupervisorExternal, h.SupervisorExternal)
	bind(MachineExternal, h.MachineExternal)
	return t
}

// Lookup returns the handler for an interrupt code, or false when the code
// is out of range or its slot is not Defined.
func (t *Table) Lookup(code uintptr) (HandlerFunc, bool) {
	if code >= uintptr(len(t)) {
		return nil, false
	}
	v := &t[code]
	if v.Kind != Defined || v.Handler == nil {
		return nil, false
	}
	return v.Handler, true
}
