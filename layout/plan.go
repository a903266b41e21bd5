package layout

import (
	"fmt"
	"math/bits"
	"path"
)

// Plan is the architecture-specific layout declaration: an ordered region
// list plus the global addressing parameters. Plans are plain values; the
// architecture catalog constructs one per target and Resolve never mutates
// it.
type Plan struct {
	// Arch names the target the plan describes, e.g. "armv7".
	Arch string

	// PageSize is the minimum alignment granularity of the target.
	PageSize uint64

	// VirtualBase is added to a virtual-mapped region's storage address to
	// obtain its runtime address. The two address spaces stay computable
	// from one another through this single constant.
	VirtualBase uint64

	// Entry is the symbol execution starts at.
	Entry string

	// OutputFormat and OutputArch, when set, pin the BFD target of the
	// emitted script ("elf32-littlearm", "arm"). Without them the linker
	// infers the target from its inputs.
	OutputFormat string
	OutputArch   string

	// EndSymbol, when set, exports the virtual end of the whole image.
	EndSymbol string

	// Regions in placement order.
	Regions []Region

	// Discard lists input-section patterns dropped from the image
	// entirely. Init-only unwind entries go here: keeping them, even empty,
	// would leave dangling unwind references into unmapped init code.
	Discard []string
}

func powerOfTwo(v uint64) bool {
	return v != 0 && bits.OnesCount64(v) == 1
}

func alignUp(v, align uint64) uint64 {
	return (v + align - 1) &^ (align - 1)
}

// Validate checks the structural invariants a plan must satisfy before any
// address can be computed. All violations are configuration errors; nothing
// is recoverable at run time.
func (p *Plan) Validate() error {
	if !powerOfTwo(p.PageSize) {
		return &UndersizedPageError{Size: p.PageSize}
	}
	if len(p.Regions) == 0 {
		return fmt.Errorf("plan %s declares no regions", p.Arch)
	}

	first := p.Regions[0]
	if !first.Fixed {
		return fmt.Errorf("plan %s: first region %s must be anchored at a fixed address", p.Arch, first.Name)
	}
	if first.Mode != PhysicalIdentity {
		return fmt.Errorf("plan %s: first region %s must be identity mapped, it runs before translation is enabled", p.Arch, first.Name)
	}
	if first.Perms&PermExec == 0 || !first.KeepAll {
		return fmt.Errorf("plan %s: first region %s must hold the retained vector table (executable, keep)", p.Arch, first.Name)
	}

	seen := make(map[string]bool, len(p.Regions))
	mapped := false
	for _, r := range p.Regions {
		if r.Name == "" {
			return fmt.Errorf("plan %s contains an unnamed region", p.Arch)
		}
		if seen[r.Name] {
			return fmt.Errorf("plan %s declares region %s twice", p.Arch, r.Name)
		}
		seen[r.Name] = true

		if !powerOfTwo(r.Alignment) {
			return &AlignmentError{Region: r.Name, Alignment: r.Alignment}
		}
		if r.SizeAlign != 0 && !powerOfTwo(r.SizeAlign) {
			return &AlignmentError{Region: r.Name, Alignment: r.SizeAlign}
		}
		// Size padding is expressed as ALIGN(.) in the emitted script,
		// which only matches the computed size when the region start is
		// itself aligned at least that coarsely.
		if r.SizeAlign > r.Alignment {
			return fmt.Errorf("region %s size alignment %#x exceeds its start alignment %#x", r.Name, r.SizeAlign, r.Alignment)
		}
		if r.Fixed && r.FixedStart%r.Alignment != 0 {
			return fmt.Errorf("region %s fixed start %#x breaks its %#x alignment", r.Name, r.FixedStart, r.Alignment)
		}
		if r.Perms&PermWrite != 0 && r.Perms&PermExec != 0 {
			return fmt.Errorf("region %s is both writable and executable", r.Name)
		}
		if r.Perms&PermExec != 0 && r.Limit != 0 && r.Limit%p.PageSize != 0 {
			return fmt.Errorf("region %s executable limit %#x is not a whole number of pages", r.Name, r.Limit)
		}
		if r.LenSymbol != "" && r.StartSymbol == "" {
			return fmt.Errorf("region %s exports a length symbol without a start symbol", r.Name)
		}

		switch r.Mode {
		case VirtualMapped:
			mapped = true
		case PhysicalIdentity:
			if mapped {
				return fmt.Errorf("region %s is identity mapped after a virtual-mapped region", r.Name)
			}
		}

		for _, pat := range r.Contents {
			if _, err := path.Match(pat, ""); err != nil {
				return fmt.Errorf("region %s pattern %q: %v", r.Name, pat, err)
			}
		}
	}

	for _, pat := range p.Discard {
		if _, err := path.Match(pat, ""); err != nil {
			return fmt.Errorf("discard pattern %q: %v", pat, err)
		}
	}

	return nil
}

// Region returns the declared region with the given name, or nil.
func (p *Plan) Region(name string) *Region {
	for i := range p.Regions {
		if p.Regions[i].Name == name {
			return &p.Regions[i]
		}
	}
	return nil
}
