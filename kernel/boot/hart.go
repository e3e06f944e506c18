package boot

// StackRegion returns the stack of a hart inside a block of per-hart stacks
// that ends at top. Hart 0 gets the highest region, and the region grows
// down from hi.
//
// The assembly entry computes hi the same way.
func StackRegion(top, size, hartID uintptr) (lo, hi uintptr) {
	hi = top - hartID*size
	return hi - size, hi
}

// Elector decides which hart runs one-time initialization. Only the first
// hart it accepts is used.
type Elector func(hartID uintptr) bool

// HartZero elects hart 0.
func HartZero(hartID uintptr) bool { return hartID == 0 }

// AnyHart elects whichever hart gets there first.
func AnyHart(uintptr) bool { return true }
