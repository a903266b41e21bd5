// Package inspect checks a built kernel against the layout contract. The
// boundary symbol names and their ordering are an ABI between the layout and
// kernel-internal code; breaking them produces a kernel that fails at run
// time with no build error, so inspection reports every violation it finds
// rather than stopping at the first.
package inspect

import (
	"fmt"
	"strings"

	"github.com/bootsmith/bootsmith/arch"
	"github.com/bootsmith/bootsmith/layout"
)

// Load is one loadable segment of a built kernel.
type Load struct {
	Vaddr uint64
	Paddr uint64
	Size  uint64
}

// Source is the view of a built kernel that verification consumes. The ELF
// reader implements it; tests substitute fixed maps.
type Source interface {
	Symbols() (map[string]uint64, error)
	Loads() ([]Load, error)
}

// ContractError carries every violated expectation of the layout contract.
type ContractError struct {
	Violations []string
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("layout contract violated:\n  - %s",
		strings.Join(e.Violations, "\n  - "))
}

// contractSymbols are the boundary symbols every kernel image must export.
var contractSymbols = []string{
	layout.SymModulesBase,
	layout.SymModulesEnd,
	layout.SymUsertextBase,
	layout.SymUsertextEnd,
	layout.SymBSSStart,
	layout.SymBSSEnd,
	layout.SymUnwindStart,
	layout.SymUnwindEnd,
	layout.SymKernelEnd,
}

// Verify checks a built kernel against the layout contract for one
// architecture. All violations are collected into a single ContractError.
func Verify(src Source, a *arch.Arch) error {
	syms, err := src.Symbols()
	if err != nil {
		return err
	}
	loads, err := src.Loads()
	if err != nil {
		return err
	}

	var v []string
	for _, name := range contractSymbols {
		if _, ok := syms[name]; !ok {
			v = append(v, "missing boundary symbol "+name)
		}
	}

	pair := func(base, end string) (uint64, uint64, bool) {
		b, okB := syms[base]
		e, okE := syms[end]
		return b, e, okB && okE
	}

	if base, end, ok := pair(layout.SymModulesBase, layout.SymModulesEnd); ok {
		if end < base {
			v = append(v, fmt.Sprintf("module table ends (%#x) before it starts (%#x)", end, base))
		}
		if (end-base)%16 != 0 {
			v = append(v, fmt.Sprintf("module table range %#x is not a multiple of the 16 byte entry stride", end-base))
		}
		if base%16 != 0 {
			v = append(v, fmt.Sprintf("module table base %#x is not 16 byte aligned", base))
		}
	}

	if base, end, ok := pair(layout.SymUsertextBase, layout.SymUsertextEnd); ok {
		if end < base {
			v = append(v, fmt.Sprintf("usertext ends (%#x) before it starts (%#x)", end, base))
		}
		if base%a.PageSize != 0 || end%a.PageSize != 0 {
			v = append(v, fmt.Sprintf("usertext bounds [%#x, %#x) are not %#x page aligned", base, end, a.PageSize))
		}
	}

	if start, end, ok := pair(layout.SymBSSStart, layout.SymBSSEnd); ok && end < start {
		v = append(v, fmt.Sprintf("bss ends (%#x) before it starts (%#x)", end, start))
	}
	if start, end, ok := pair(layout.SymUnwindStart, layout.SymUnwindEnd); ok && end < start {
		v = append(v, fmt.Sprintf("unwind table ends (%#x) before it starts (%#x)", end, start))
	}

	if kernelEnd, ok := syms[layout.SymKernelEnd]; ok {
		for _, name := range contractSymbols {
			if name == layout.SymKernelEnd {
				continue
			}
			if val, present := syms[name]; present && val > kernelEnd {
				v = append(v, fmt.Sprintf("%s (%#x) lies beyond kernel_end (%#x)", name, val, kernelEnd))
			}
		}
	}

	for _, l := range loads {
		if l.Vaddr >= a.VirtualBase {
			if l.Vaddr-l.Paddr != a.VirtualBase {
				v = append(v, fmt.Sprintf("mapped segment at %#x is stored at %#x, offset %#x instead of the virtual base %#x",
					l.Vaddr, l.Paddr, l.Vaddr-l.Paddr, a.VirtualBase))
			}
		} else if l.Vaddr != l.Paddr {
			v = append(v, fmt.Sprintf("identity segment at %#x is stored at %#x", l.Vaddr, l.Paddr))
		}
	}

	if len(v) > 0 {
		return &ContractError{Violations: v}
	}
	return nil
}
