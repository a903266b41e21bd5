// Package layout computes the in-memory section layout of a statically
// linked kernel image: region placement, virtual/physical address duality,
// exported boundary symbols, and the linker script a standard linker
// consumes to realize the layout.
package layout

import "strings"

// Perm is a region permission bitmask.
type Perm uint8

const (
	// PermRead marks a region readable.
	PermRead Perm = 1 << iota
	// PermWrite marks a region writable.
	PermWrite
	// PermExec marks a region executable.
	PermExec
)

// String renders the mask in ls -l style, e.g. "r-x".
func (p Perm) String() string {
	var sb strings.Builder
	flags := []struct {
		bit Perm
		c   byte
	}{
		{PermRead, 'r'},
		{PermWrite, 'w'},
		{PermExec, 'x'},
	}
	for _, f := range flags {
		if p&f.bit != 0 {
			sb.WriteByte(f.c)
		} else {
			sb.WriteByte('-')
		}
	}
	return sb.String()
}

// AddressMode selects how a region's runtime address relates to its storage
// address.
type AddressMode int

const (
	// VirtualMapped regions run at storage address + the plan's virtual
	// base. The kernel reaches them only once address translation is on.
	VirtualMapped AddressMode = iota
	// PhysicalIdentity regions run at their storage address. The first
	// region of every plan is identity mapped so it is executable before
	// translation is enabled.
	PhysicalIdentity
)

func (m AddressMode) String() string {
	if m == PhysicalIdentity {
		return "identity"
	}
	return "mapped"
}

// Well-known region names. The architecture catalog, the typed bounds
// accessor and the verify command all key on these.
const (
	RegionVectors  = "vectors"
	RegionText     = "text"
	RegionUsertext = "usertext"
	RegionRodata   = "rodata"
	RegionModules  = "modules"
	RegionUnwind   = "unwind"
	RegionData     = "data"
	RegionBSS      = "bss"
)

// Region is one named, ordered segment of the image.
type Region struct {
	// Name identifies the region in errors, scripts and bounds.
	Name string

	// Alignment is the power-of-two byte boundary the region start is
	// rounded up to.
	Alignment uint64

	// Perms is the capability set the kernel maps the region with.
	Perms Perm

	// Mode selects virtual-mapped or physical-identity addressing.
	Mode AddressMode

	// Contents is the ordered list of input-section patterns the region
	// absorbs. Patterns use linker globs, e.g. ".text.*".
	Contents []string

	// KeepAll protects the contents from dead-section elimination. Set it
	// on anything referenced by hardware or discovered through boundary
	// symbols rather than relocations.
	KeepAll bool

	// Fixed places the region at FixedStart instead of the running cursor.
	// The resolver rejects fixed placements that collide with the previous
	// region.
	Fixed      bool
	FixedStart uint64

	// Limit caps the content size in bytes. Zero means unbounded. Content
	// beyond the cap is an OutOfRangeError.
	Limit uint64

	// SizeAlign rounds the region size up, moving the end boundary. The
	// module table uses 16 so its range stays a multiple of the entry
	// alignment; usertext uses the page size so its bounds stay mappable.
	SizeAlign uint64

	// StartSymbol, EndSymbol and LenSymbol name the boundary symbols
	// exported for this region. Empty strings export nothing.
	StartSymbol string
	EndSymbol   string
	LenSymbol   string
}
