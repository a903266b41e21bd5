// Package arch catalogs the supported target architectures. Each entry
// carries the addressing parameters of one target and knows how to build the
// region plan the layout resolver consumes.
package arch

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/bootsmith/bootsmith/layout"
)

// Options tunes per-build knobs without redefining the architecture.
type Options struct {
	// DataAlign overrides the mutable-data alignment. Zero keeps the
	// architecture default. The default is coarse (1MB) so the data
	// region can be mapped with large translation entries.
	DataAlign uint64
}

// Arch describes one supported target. Its JSON form is the target
// description handed to the external compile step, so the field names are
// part of the build contract.
type Arch struct {
	Name         string   `json:"name"`
	Triple       string   `json:"triple"`
	Bits         int      `json:"bits"`
	Entry        string   `json:"entry"`
	PageSize     uint64   `json:"page-size"`
	VirtualBase  uint64   `json:"virtual-base"`
	VectorAlign  uint64   `json:"vector-align"`
	DataAlign    uint64   `json:"data-align"`
	OutputFormat string   `json:"output-format"`
	OutputArch   string   `json:"output-arch"`
	CrossPrefix  string   `json:"cross-prefix"`
	Unwind       []string `json:"unwind-sections"`
	Discard      []string `json:"discard-sections"`
}

// Get returns the catalog entry for name.
func Get(name string) (*Arch, error) {
	switch name {
	case "armv7":
		return armv7(), nil
	case "armv8":
		return armv8(), nil
	default:
		return nil, fmt.Errorf("unknown architecture %s (supported: %s)", name, strings.Join(Names(), ", "))
	}
}

// Names lists the catalog in stable order.
func Names() []string {
	return []string{"armv7", "armv8"}
}

// List returns every catalog entry, in Names order.
func List() []*Arch {
	var archs []*Arch
	for _, name := range Names() {
		a, _ := Get(name)
		archs = append(archs, a)
	}
	return archs
}

// Plan builds the kernel region plan for this architecture.
func (a *Arch) Plan(opts Options) *layout.Plan {
	dataAlign := a.DataAlign
	if opts.DataAlign != 0 {
		dataAlign = opts.DataAlign
	}

	page := a.PageSize
	return &layout.Plan{
		Arch:         a.Name,
		PageSize:     page,
		VirtualBase:  a.VirtualBase,
		Entry:        a.Entry,
		EndSymbol:    layout.SymKernelEnd,
		OutputFormat: a.OutputFormat,
		OutputArch:   a.OutputArch,
		Discard:      a.Discard,
		Regions: []layout.Region{
			{
				// Referenced by hardware only, so nothing the
				// eliminator can see keeps it alive.
				Name:      layout.RegionVectors,
				Alignment: a.VectorAlign,
				Perms:     layout.PermRead | layout.PermExec,
				Mode:      layout.PhysicalIdentity,
				Fixed:     true,
				KeepAll:   true,
				Contents:  []string{"VECTORS", ".init", ".init.*"},
			},
			{
				Name:      layout.RegionText,
				Alignment: page,
				Perms:     layout.PermRead | layout.PermExec,
				Mode:      layout.VirtualMapped,
				Contents:  []string{".text", ".text.*"},
			},
			{
				// Page bounded so the kernel can grant user
				// mode exactly this range and nothing else.
				Name:        layout.RegionUsertext,
				Alignment:   page,
				SizeAlign:   page,
				Perms:       layout.PermRead | layout.PermExec,
				Mode:        layout.VirtualMapped,
				Contents:    []string{".usertext", ".usertext.*"},
				StartSymbol: layout.SymUsertextBase,
				EndSymbol:   layout.SymUsertextEnd,
			},
			{
				Name:      layout.RegionRodata,
				Alignment: 0x10,
				Perms:     layout.PermRead,
				Mode:      layout.VirtualMapped,
				Contents:  []string{".rodata", ".rodata.*"},
			},
			{
				// Externally populated registration table. The
				// kernel walks [modules_base, modules_end) at
				// 16 byte stride, so both bounds stay 16
				// aligned even with zero entries.
				Name:        layout.RegionModules,
				Alignment:   16,
				SizeAlign:   16,
				Perms:       layout.PermRead,
				Mode:        layout.VirtualMapped,
				KeepAll:     true,
				Contents:    []string{".MODULE_LIST", ".MODULE_LIST.*"},
				StartSymbol: layout.SymModulesBase,
				EndSymbol:   layout.SymModulesEnd,
			},
			{
				Name:        layout.RegionUnwind,
				Alignment:   0x8,
				Perms:       layout.PermRead,
				Mode:        layout.VirtualMapped,
				Contents:    a.Unwind,
				StartSymbol: layout.SymUnwindStart,
				EndSymbol:   layout.SymUnwindEnd,
			},
			{
				Name:      layout.RegionData,
				Alignment: dataAlign,
				Perms:     layout.PermRead | layout.PermWrite,
				Mode:      layout.VirtualMapped,
				Contents:  []string{".data", ".data.*", ".got", ".got.*"},
			},
			{
				Name:        layout.RegionBSS,
				Alignment:   0x10,
				Perms:       layout.PermRead | layout.PermWrite,
				Mode:        layout.VirtualMapped,
				Contents:    []string{".bss", ".bss.*", "COMMON"},
				StartSymbol: layout.SymBSSStart,
				EndSymbol:   layout.SymBSSEnd,
			},
		},
	}
}

// WriteTarget writes the JSON target description into dir and returns the
// path. The external compile step reads it from there.
func (a *Arch) WriteTarget(fs afero.Fs, dir string) (string, error) {
	content, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return "", err
	}

	if err := fs.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	target := filepath.Join(dir, a.Name+".json")
	if err := afero.WriteFile(fs, target, append(content, '\n'), 0644); err != nil {
		return "", fmt.Errorf("cannot write target description: %v", err)
	}
	return target, nil
}
