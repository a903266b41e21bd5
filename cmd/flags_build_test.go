package cmd_test

import (
	"testing"

	"github.com/bootsmith/bootsmith/cmd"
	"github.com/bootsmith/bootsmith/types"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
)

func buildFlagSet() *pflag.FlagSet {
	flagSet := pflag.NewFlagSet("test", 0)
	cmd.PersistBuildCommandFlags(flagSet)
	return flagSet
}

func TestCreateBuildFlags(t *testing.T) {
	flagSet := buildFlagSet()

	flagSet.Set("kernel", "out/kernel.bin")
	flagSet.Set("support-lib", "out/libsupport.a")
	flagSet.Set("stub-object", "out/stub.o")
	flagSet.Set("cross-prefix", "aarch64-none-elf-")
	flagSet.Set("data-align", "65536")

	buildFlags := cmd.NewBuildCommandFlags(flagSet)

	assert.Equal(t, buildFlags.Kernel, "out/kernel.bin")
	assert.Equal(t, buildFlags.SupportLib, "out/libsupport.a")
	assert.Equal(t, buildFlags.StubObject, "out/stub.o")
	assert.Equal(t, buildFlags.CrossPrefix, "aarch64-none-elf-")
	assert.Equal(t, buildFlags.DataAlign, uint64(65536))
}

func TestBuildFlagsMergeToConfig(t *testing.T) {
	flagSet := buildFlagSet()

	flagSet.Set("kernel", "out/kernel.bin")
	flagSet.Set("build-dir", "artifacts")
	flagSet.Set("map-file", "kernel.map")

	buildFlags := cmd.NewBuildCommandFlags(flagSet)

	c := types.NewConfig()

	err := buildFlags.MergeToConfig(c)

	assert.Nil(t, err)
	assert.Equal(t, c.Kernel, "out/kernel.bin")
	assert.Equal(t, c.BuildDir, "artifacts")
	assert.Equal(t, c.MapFile, "kernel.map")
}

func TestBuildFlagsDoNotClearConfigFileValues(t *testing.T) {
	flagSet := buildFlagSet()

	buildFlags := cmd.NewBuildCommandFlags(flagSet)

	c := types.NewConfig()
	c.Kernel = "from-config/kernel.bin"
	c.DataAlign = 0x100000

	err := buildFlags.MergeToConfig(c)

	assert.Nil(t, err)
	assert.Equal(t, c.Kernel, "from-config/kernel.bin")
	assert.Equal(t, c.DataAlign, uint64(0x100000))
}
