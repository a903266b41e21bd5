package layout

// Boundary symbol names shared by every architecture. Code that consumes a
// composed image links against these, so the names are part of the ABI and
// never vary per arch.
const (
	SymModulesBase  = "modules_base"
	SymModulesEnd   = "modules_end"
	SymUsertextBase = "usertext_base"
	SymUsertextEnd  = "usertext_end"
	SymBSSStart     = "bss_start"
	SymBSSEnd       = "bss_end"
	SymUnwindStart  = "unwind_start"
	SymUnwindEnd    = "unwind_end"
	SymKernelEnd    = "kernel_end"
)

// Symbol is one exported boundary with its runtime address.
type Symbol struct {
	Name  string
	Value uint64
}

// Symbols lists every boundary symbol the layout exports, in region order.
// Start and length symbols come before the region's end symbol.
func (l *Layout) Symbols() []Symbol {
	var syms []Symbol
	for i := range l.Regions {
		r := &l.Regions[i]
		if r.StartSymbol != "" {
			syms = append(syms, Symbol{Name: r.StartSymbol, Value: r.Virt})
		}
		if r.LenSymbol != "" {
			syms = append(syms, Symbol{Name: r.LenSymbol, Value: r.Size})
		}
		if r.EndSymbol != "" {
			syms = append(syms, Symbol{Name: r.EndSymbol, Value: r.VirtEnd()})
		}
	}
	if l.Plan.EndSymbol != "" {
		syms = append(syms, Symbol{Name: l.Plan.EndSymbol, Value: l.end()})
	}
	return syms
}

// end is the runtime address one past the last region.
func (l *Layout) end() uint64 {
	if len(l.Regions) == 0 {
		return 0
	}
	return l.Regions[len(l.Regions)-1].VirtEnd()
}

// Bounds is the typed view of the boundary symbols a kernel layout exports.
// Every field is a runtime (virtual) address. A pair with equal base and end
// means the region exists but is empty, never that it is absent.
type Bounds struct {
	ModulesBase  uint64
	ModulesEnd   uint64
	UsertextBase uint64
	UsertextEnd  uint64
	BSSStart     uint64
	BSSEnd       uint64
	UnwindStart  uint64
	UnwindEnd    uint64
	KernelEnd    uint64
}

// Bounds extracts the typed boundary view from the exported symbols. Layouts
// that do not export a given pair (loader plans, for instance) leave the
// corresponding fields zero.
func (l *Layout) Bounds() Bounds {
	var b Bounds
	for _, s := range l.Symbols() {
		switch s.Name {
		case SymModulesBase:
			b.ModulesBase = s.Value
		case SymModulesEnd:
			b.ModulesEnd = s.Value
		case SymUsertextBase:
			b.UsertextBase = s.Value
		case SymUsertextEnd:
			b.UsertextEnd = s.Value
		case SymBSSStart:
			b.BSSStart = s.Value
		case SymBSSEnd:
			b.BSSEnd = s.Value
		case SymUnwindStart:
			b.UnwindStart = s.Value
		case SymUnwindEnd:
			b.UnwindEnd = s.Value
		case SymKernelEnd:
			b.KernelEnd = s.Value
		}
	}
	return b
}
