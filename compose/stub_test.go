package compose

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"

	"github.com/bootsmith/bootsmith/arch"
	"github.com/bootsmith/bootsmith/platform"
)

func stubData(t *testing.T, platformName string) *StubData {
	t.Helper()

	p, err := platform.Get(platformName)
	assert.Nil(t, err)
	a, err := arch.Get(p.Arch)
	assert.Nil(t, err)
	return &StubData{Platform: p, Arch: a, Entry: LoaderEntry}
}

func TestRenderStub(t *testing.T) {
	t.Run("should substitute platform addresses in hex", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		tmpl := "uart = {{hex .Platform.UARTBase}}, ram = {{hex .Platform.RAMBase}}\n"
		assert.Nil(t, afero.WriteFile(fs, "stub.S.tmpl", []byte(tmpl), 0644))

		err := renderStub(fs, "stub.S.tmpl", "out.S", stubData(t, "realview-pb"))

		assert.Nil(t, err)
		out, _ := afero.ReadFile(fs, "out.S")
		assert.Equal(t, "uart = 0x10009000, ram = 0x0\n", string(out))
	})

	t.Run("should expose the entry symbol and architecture", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		tmpl := ".globl {{.Entry}} @ {{.Arch.Name}}"
		assert.Nil(t, afero.WriteFile(fs, "stub.S.tmpl", []byte(tmpl), 0644))

		err := renderStub(fs, "stub.S.tmpl", "out.S", stubData(t, "qemu-virt"))

		assert.Nil(t, err)
		out, _ := afero.ReadFile(fs, "out.S")
		assert.Equal(t, ".globl start @ armv7", string(out))
	})

	t.Run("should fail on fields the record does not have", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		assert.Nil(t, afero.WriteFile(fs, "stub.S.tmpl", []byte("{{.Platform.Dip}}"), 0644))

		err := renderStub(fs, "stub.S.tmpl", "out.S", stubData(t, "qemu-virt"))

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "stub.S.tmpl")
	})

	t.Run("should fail on malformed templates", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		assert.Nil(t, afero.WriteFile(fs, "stub.S.tmpl", []byte("{{.Platform"), 0644))

		err := renderStub(fs, "stub.S.tmpl", "out.S", stubData(t, "qemu-virt"))

		assert.Error(t, err)
	})

	t.Run("should fail when the template file is absent", func(t *testing.T) {
		fs := afero.NewMemMapFs()

		err := renderStub(fs, "nowhere.tmpl", "out.S", stubData(t, "qemu-virt"))

		assert.Error(t, err)
	})
}
