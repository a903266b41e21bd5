package layout

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

const testVirtualBase = 0xFFFF800000000000

// kernelishPlan mirrors the armv8 region walk closely enough to exercise
// every placement rule without depending on the arch catalog.
func kernelishPlan() *Plan {
	return &Plan{
		Arch:        "armv8",
		PageSize:    0x10000,
		VirtualBase: testVirtualBase,
		Entry:       "start",
		EndSymbol:   SymKernelEnd,
		Regions: []Region{
			{
				Name:      RegionVectors,
				Alignment: 0x800,
				Perms:     PermRead | PermExec,
				Mode:      PhysicalIdentity,
				Fixed:     true,
				KeepAll:   true,
				Contents:  []string{"VECTORS"},
			},
			{
				Name:      RegionText,
				Alignment: 0x10000,
				Perms:     PermRead | PermExec,
				Mode:      VirtualMapped,
				Contents:  []string{".text", ".text.*"},
			},
			{
				Name:        RegionUsertext,
				Alignment:   0x10000,
				SizeAlign:   0x10000,
				Perms:       PermRead | PermExec,
				Mode:        VirtualMapped,
				Contents:    []string{".usertext*"},
				StartSymbol: SymUsertextBase,
				EndSymbol:   SymUsertextEnd,
			},
			{
				Name:      RegionRodata,
				Alignment: 0x10,
				Perms:     PermRead,
				Mode:      VirtualMapped,
				Contents:  []string{".rodata*"},
			},
			{
				Name:        RegionModules,
				Alignment:   0x10,
				SizeAlign:   0x10,
				Perms:       PermRead,
				Mode:        VirtualMapped,
				KeepAll:     true,
				Contents:    []string{".MODULE_LIST*"},
				StartSymbol: SymModulesBase,
				EndSymbol:   SymModulesEnd,
			},
			{
				Name:      RegionData,
				Alignment: 0x10000,
				Perms:     PermRead | PermWrite,
				Mode:      VirtualMapped,
				Contents:  []string{".data*"},
			},
			{
				Name:        RegionBSS,
				Alignment:   0x10,
				Perms:       PermRead | PermWrite,
				Mode:        VirtualMapped,
				Contents:    []string{".bss*", "COMMON"},
				StartSymbol: SymBSSStart,
				EndSymbol:   SymBSSEnd,
			},
		},
		Discard: []string{".ARM.exidx.init*", ".note*"},
	}
}

func kernelishInventory() Inventory {
	return Inventory{
		{Name: "VECTORS", Size: 0x40},
		{Name: ".text", Size: 0x5000},
		{Name: ".text.cold", Size: 0x200},
		{Name: ".usertext", Size: 0x123},
		{Name: ".rodata", Size: 0x800},
		{Name: ".MODULE_LIST", Size: 0x28},
		{Name: ".data", Size: 0x900},
		{Name: ".bss", Size: 0x2000},
	}
}

func TestResolvePlacement(t *testing.T) {
	t.Run("should round region starts up to their alignment", func(t *testing.T) {
		p := &Plan{
			Arch:        "armv8",
			PageSize:    0x10000,
			VirtualBase: testVirtualBase,
			Entry:       "start",
			Regions: []Region{
				{Name: RegionVectors, Alignment: 0x10, Perms: PermRead | PermExec, Mode: PhysicalIdentity, Fixed: true, KeepAll: true, Contents: []string{"VECTORS"}},
				{Name: RegionText, Alignment: 0x100000, Perms: PermRead | PermExec, Mode: VirtualMapped, Contents: []string{".text"}},
			},
		}
		inv := Inventory{
			{Name: "VECTORS", Size: 0x123},
			{Name: ".text", Size: 0x10},
		}

		l, err := Resolve(p, inv)

		assert.Nil(t, err)
		text := l.Region(RegionText)
		assert.Equal(t, uint64(0x100000), text.Phys)
		assert.Equal(t, uint64(0xFFFF800000100000), text.Virt)
	})

	t.Run("should pack aligned regions back to back", func(t *testing.T) {
		p := &Plan{
			Arch:        "armv7",
			PageSize:    0x1000,
			VirtualBase: 0x80000000,
			Entry:       "start",
			Regions: []Region{
				{Name: RegionVectors, Alignment: 0x10000, Perms: PermRead | PermExec, Mode: PhysicalIdentity, Fixed: true, KeepAll: true, Contents: []string{"VECTORS"}},
				{Name: RegionText, Alignment: 0x10000, Perms: PermRead | PermExec, Mode: VirtualMapped, Contents: []string{".text"}},
			},
		}
		inv := Inventory{
			{Name: "VECTORS", Size: 0x5000},
			{Name: ".text", Size: 0x20000},
		}

		l, err := Resolve(p, inv)

		assert.Nil(t, err)
		assert.Equal(t, uint64(0x0), l.Region(RegionVectors).Phys)
		assert.Equal(t, uint64(0x10000), l.Region(RegionText).Phys)
		assert.Equal(t, uint64(0x30000), l.ImageEnd)
	})

	t.Run("should keep one virtual base offset for every mapped region", func(t *testing.T) {
		l, err := Resolve(kernelishPlan(), kernelishInventory())

		assert.Nil(t, err)
		for _, r := range l.Regions {
			if r.Mode == PhysicalIdentity {
				assert.Equal(t, r.Phys, r.Virt, r.Name)
			} else {
				assert.Equal(t, uint64(testVirtualBase), r.Virt-r.Phys, r.Name)
			}
		}
	})

	t.Run("should absorb each section into the first matching region", func(t *testing.T) {
		l, err := Resolve(kernelishPlan(), kernelishInventory())

		assert.Nil(t, err)
		text := l.Region(RegionText)
		assert.Equal(t, 2, len(text.Sections))
		assert.Equal(t, ".text", text.Sections[0].Name)
		assert.Equal(t, ".text.cold", text.Sections[1].Name)
		assert.Equal(t, text.Phys+0x5000, text.Sections[1].Phys)
	})

	t.Run("should pad usertext to whole pages", func(t *testing.T) {
		l, err := Resolve(kernelishPlan(), kernelishInventory())

		assert.Nil(t, err)
		ut := l.Region(RegionUsertext)
		assert.Equal(t, uint64(0x10000), ut.Size)
		assert.Equal(t, uint64(0), ut.VirtEnd()%0x10000)
	})

	t.Run("should drop discarded sections before placement", func(t *testing.T) {
		inv := append(kernelishInventory(), Section{Name: ".ARM.exidx.init.text", Size: 0x80})

		l, err := Resolve(kernelishPlan(), inv)

		assert.Nil(t, err)
		for _, r := range l.Regions {
			for _, s := range r.Sections {
				assert.NotEqual(t, ".ARM.exidx.init.text", s.Name)
			}
		}
	})

	t.Run("should be deterministic", func(t *testing.T) {
		a, err := Resolve(kernelishPlan(), kernelishInventory())
		assert.Nil(t, err)
		b, err := Resolve(kernelishPlan(), kernelishInventory())
		assert.Nil(t, err)

		assert.True(t, reflect.DeepEqual(a, b))
	})
}

func TestResolveErrors(t *testing.T) {
	t.Run("should report a fixed region inside its predecessor", func(t *testing.T) {
		p := kernelishPlan()
		p.Regions[1].Fixed = true
		p.Regions[1].FixedStart = 0x10000
		p.Regions[1].Alignment = 0x10000
		inv := kernelishInventory()
		inv[0].Size = 0x20000

		_, err := Resolve(p, inv)

		var oerr *OverlapError
		assert.True(t, errors.As(err, &oerr))
		assert.Equal(t, RegionText, oerr.Region)
		assert.Equal(t, RegionVectors, oerr.Prior)
		assert.Equal(t, uint64(0x10000), oerr.Start)
		assert.Equal(t, uint64(0x20000), oerr.PriorEnd)
	})

	t.Run("should name the section that overflows a bounded region", func(t *testing.T) {
		p := kernelishPlan()
		p.Regions[2].Limit = 0x20000
		inv := kernelishInventory()
		inv = append(inv, Section{Name: ".usertext.syscall", Size: 0x15000})
		inv[3].Size = 0x10000

		_, err := Resolve(p, inv)

		var rerr *OutOfRangeError
		assert.True(t, errors.As(err, &rerr))
		assert.Equal(t, RegionUsertext, rerr.Region)
		assert.Equal(t, ".usertext.syscall", rerr.Section)
		assert.Equal(t, uint64(0x20000), rerr.Limit)
	})

	t.Run("should refuse sections no region claims", func(t *testing.T) {
		inv := append(kernelishInventory(), Section{Name: ".mystery", Size: 0x10})

		_, err := Resolve(kernelishPlan(), inv)

		var uerr *UnplacedSectionError
		assert.True(t, errors.As(err, &uerr))
		assert.Equal(t, []string{".mystery"}, uerr.Sections)
	})

	t.Run("should surface plan validation failures", func(t *testing.T) {
		p := kernelishPlan()
		p.PageSize = 0x123

		_, err := Resolve(p, kernelishInventory())

		var perr *UndersizedPageError
		assert.True(t, errors.As(err, &perr))
	})
}

func TestBoundarySymbols(t *testing.T) {
	t.Run("should export equal module bounds when no modules are registered", func(t *testing.T) {
		inv := kernelishInventory()
		inv = append(inv[:5], inv[6:]...) // drop .MODULE_LIST

		l, err := Resolve(kernelishPlan(), inv)

		assert.Nil(t, err)
		b := l.Bounds()
		assert.Equal(t, b.ModulesBase, b.ModulesEnd)
		assert.Equal(t, uint64(0), b.ModulesBase%16)
	})

	t.Run("should keep the module range a multiple of the entry alignment", func(t *testing.T) {
		l, err := Resolve(kernelishPlan(), kernelishInventory())

		assert.Nil(t, err)
		b := l.Bounds()
		assert.True(t, b.ModulesEnd > b.ModulesBase)
		assert.Equal(t, uint64(0), (b.ModulesEnd-b.ModulesBase)%16)
	})

	t.Run("should expose every declared boundary", func(t *testing.T) {
		l, err := Resolve(kernelishPlan(), kernelishInventory())

		assert.Nil(t, err)
		b := l.Bounds()
		ut := l.Region(RegionUsertext)
		bss := l.Region(RegionBSS)
		assert.Equal(t, ut.Virt, b.UsertextBase)
		assert.Equal(t, ut.VirtEnd(), b.UsertextEnd)
		assert.Equal(t, bss.Virt, b.BSSStart)
		assert.Equal(t, bss.VirtEnd(), b.BSSEnd)
		assert.Equal(t, l.Regions[len(l.Regions)-1].VirtEnd(), b.KernelEnd)
	})

	t.Run("should order start, length and end symbols per region", func(t *testing.T) {
		p := &Plan{
			Arch:        "armv8",
			PageSize:    0x1000,
			VirtualBase: 0,
			Entry:       "loader_start",
			Regions: []Region{
				{
					Name: RegionVectors, Alignment: 0x10, Perms: PermRead | PermExec,
					Mode: PhysicalIdentity, Fixed: true, KeepAll: true, Contents: []string{"VECTORS"},
				},
				{
					Name: "blob", Alignment: 0x10, Perms: PermRead,
					Mode: PhysicalIdentity, KeepAll: true, Contents: []string{".kernel_blob"},
					StartSymbol: "kernel_image_start", EndSymbol: "kernel_image_end", LenSymbol: "kernel_image_size",
				},
			},
		}
		inv := Inventory{
			{Name: "VECTORS", Size: 0x10},
			{Name: ".kernel_blob", Size: 0x400},
		}

		l, err := Resolve(p, inv)

		assert.Nil(t, err)
		syms := l.Symbols()
		assert.Equal(t, 3, len(syms))
		assert.Equal(t, Symbol{Name: "kernel_image_start", Value: 0x10}, syms[0])
		assert.Equal(t, Symbol{Name: "kernel_image_size", Value: 0x400}, syms[1])
		assert.Equal(t, Symbol{Name: "kernel_image_end", Value: 0x410}, syms[2])
	})
}
