package compose

import (
	"github.com/bootsmith/bootsmith/arch"
	"github.com/bootsmith/bootsmith/layout"
	"github.com/bootsmith/bootsmith/platform"
	"github.com/bootsmith/bootsmith/toolchain"
)

// RegionBlob is the loader region carrying the kernel as opaque bytes.
const RegionBlob = "blob"

// Boundary symbols bracketing the embedded kernel. The loader copies
// [kernel_image_start, kernel_image_end) to the kernel's physical base and
// jumps; it has no other knowledge of what it carries.
const (
	SymKernelImageStart = "kernel_image_start"
	SymKernelImageEnd   = "kernel_image_end"
	SymKernelImageSize  = "kernel_image_size"
)

// LoaderEntry is the symbol every stub template must define.
const LoaderEntry = "start"

// LoaderPlan builds the first stage layout for one platform. Everything is
// identity mapped: the loader runs with translation off, at whatever address
// the platform's firmware drops it.
func LoaderPlan(p *platform.Params, a *arch.Arch) *layout.Plan {
	// The loader never unwinds, so unwind tables join the discard list
	// wholesale.
	discard := append([]string{}, a.Discard...)
	discard = append(discard, a.Unwind...)

	return &layout.Plan{
		Arch:         a.Name,
		PageSize:     a.PageSize,
		VirtualBase:  0,
		Entry:        LoaderEntry,
		OutputFormat: a.OutputFormat,
		OutputArch:   a.OutputArch,
		Discard:      discard,
		Regions: []layout.Region{
			{
				Name:       layout.RegionText,
				Alignment:  0x20,
				Perms:      layout.PermRead | layout.PermExec,
				Mode:       layout.PhysicalIdentity,
				Fixed:      true,
				FixedStart: p.LoadAddress,
				KeepAll:    true,
				Contents:   []string{"VECTORS", ".text", ".text.*"},
			},
			{
				Name:      layout.RegionRodata,
				Alignment: 0x10,
				Perms:     layout.PermRead,
				Mode:      layout.PhysicalIdentity,
				Contents:  []string{".rodata", ".rodata.*"},
			},
			{
				Name:        RegionBlob,
				Alignment:   0x10,
				Perms:       layout.PermRead,
				Mode:        layout.PhysicalIdentity,
				KeepAll:     true,
				Contents:    []string{toolchain.BlobSection},
				StartSymbol: SymKernelImageStart,
				EndSymbol:   SymKernelImageEnd,
				LenSymbol:   SymKernelImageSize,
			},
			{
				Name:      layout.RegionData,
				Alignment: 0x10,
				Perms:     layout.PermRead | layout.PermWrite,
				Mode:      layout.PhysicalIdentity,
				Contents:  []string{".data", ".data.*", ".got", ".got.*"},
			},
			{
				Name:        layout.RegionBSS,
				Alignment:   0x10,
				Perms:       layout.PermRead | layout.PermWrite,
				Mode:        layout.PhysicalIdentity,
				Contents:    []string{".bss", ".bss.*", "COMMON"},
				StartSymbol: layout.SymBSSStart,
				EndSymbol:   layout.SymBSSEnd,
			},
		},
	}
}
