package arch

import (
	"encoding/json"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"

	"github.com/bootsmith/bootsmith/layout"
)

func TestCatalog(t *testing.T) {
	t.Run("should know armv7", func(t *testing.T) {
		a, err := Get("armv7")

		assert.Nil(t, err)
		assert.Equal(t, uint64(0x1000), a.PageSize)
		assert.Equal(t, uint64(0x80000000), a.VirtualBase)
		assert.Equal(t, 32, a.Bits)
	})

	t.Run("should know armv8", func(t *testing.T) {
		a, err := Get("armv8")

		assert.Nil(t, err)
		assert.Equal(t, uint64(0x10000), a.PageSize)
		assert.Equal(t, uint64(0xFFFF800000000000), a.VirtualBase)
		assert.Equal(t, uint64(0x800), a.VectorAlign)
		assert.Equal(t, 64, a.Bits)
	})

	t.Run("should reject an unknown architecture", func(t *testing.T) {
		_, err := Get("riscv64")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "armv7, armv8")
	})

	t.Run("should list the catalog in stable order", func(t *testing.T) {
		archs := List()

		assert.Equal(t, 2, len(archs))
		assert.Equal(t, "armv7", archs[0].Name)
		assert.Equal(t, "armv8", archs[1].Name)
	})
}

func TestArchPlan(t *testing.T) {
	t.Run("should build a valid plan for every catalog entry", func(t *testing.T) {
		for _, a := range List() {
			assert.Nil(t, a.Plan(Options{}).Validate(), a.Name)
		}
	})

	t.Run("should default mutable data to coarse alignment", func(t *testing.T) {
		a, _ := Get("armv8")

		p := a.Plan(Options{})

		assert.Equal(t, uint64(0x100000), p.Region(layout.RegionData).Alignment)
	})

	t.Run("should honor a data alignment override", func(t *testing.T) {
		a, _ := Get("armv8")

		p := a.Plan(Options{DataAlign: 0x10000})

		assert.Equal(t, uint64(0x10000), p.Region(layout.RegionData).Alignment)
	})

	t.Run("should bound the module table at entry stride", func(t *testing.T) {
		a, _ := Get("armv7")

		m := a.Plan(Options{}).Region(layout.RegionModules)

		assert.Equal(t, uint64(16), m.Alignment)
		assert.Equal(t, uint64(16), m.SizeAlign)
		assert.True(t, m.KeepAll)
		assert.Equal(t, layout.SymModulesBase, m.StartSymbol)
		assert.Equal(t, layout.SymModulesEnd, m.EndSymbol)
	})

	t.Run("should page bound usertext", func(t *testing.T) {
		for _, a := range List() {
			ut := a.Plan(Options{}).Region(layout.RegionUsertext)

			assert.Equal(t, a.PageSize, ut.SizeAlign, a.Name)
			assert.Equal(t, a.PageSize, ut.Alignment, a.Name)
		}
	})

	t.Run("should anchor vectors at physical zero", func(t *testing.T) {
		for _, a := range List() {
			v := a.Plan(Options{}).Regions[0]

			assert.Equal(t, layout.RegionVectors, v.Name, a.Name)
			assert.True(t, v.Fixed, a.Name)
			assert.Equal(t, uint64(0), v.FixedStart, a.Name)
			assert.Equal(t, layout.PhysicalIdentity, v.Mode, a.Name)
		}
	})

	t.Run("should discard init unwind entries on armv7", func(t *testing.T) {
		a, _ := Get("armv7")

		assert.Contains(t, a.Plan(Options{}).Discard, ".ARM.exidx.init*")
	})
}

func TestWriteTarget(t *testing.T) {
	t.Run("should write the target description where the compile step expects it", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		a, _ := Get("armv8")

		target, err := a.WriteTarget(fs, "build/armv8")

		assert.Nil(t, err)
		assert.Equal(t, "build/armv8/armv8.json", target)

		content, err := afero.ReadFile(fs, target)
		assert.Nil(t, err)

		var got Arch
		assert.Nil(t, json.Unmarshal(content, &got))
		assert.Equal(t, a.Name, got.Name)
		assert.Equal(t, a.PageSize, got.PageSize)
		assert.Equal(t, a.Triple, got.Triple)
	})
}
