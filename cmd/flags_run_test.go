package cmd_test

import (
	"testing"

	"github.com/bootsmith/bootsmith/cmd"
	"github.com/bootsmith/bootsmith/types"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
)

func TestRunFlagsMergeToConfig(t *testing.T) {
	flagSet := pflag.NewFlagSet("test", 0)
	cmd.PersistRunCommandFlags(flagSet)

	flagSet.Set("memory", "1G")
	flagSet.Set("smp", "4")
	flagSet.Set("gdb", "1234")
	flagSet.Set("accel", "true")
	flagSet.Set("image", "custom/boot.img")

	runFlags := cmd.NewRunCommandFlags(flagSet)

	c := types.NewConfig()

	err := runFlags.MergeToConfig(c)

	assert.Nil(t, err)
	assert.Equal(t, c.RunConfig.Memory, "1G")
	assert.Equal(t, c.RunConfig.CPUs, 4)
	assert.Equal(t, c.RunConfig.GdbPort, 1234)
	assert.True(t, c.RunConfig.Accel)
	assert.Equal(t, c.RunConfig.Imagename, "custom/boot.img")
}

func TestRunFlagsKeepDefaultsWhenUnset(t *testing.T) {
	flagSet := pflag.NewFlagSet("test", 0)
	cmd.PersistRunCommandFlags(flagSet)

	runFlags := cmd.NewRunCommandFlags(flagSet)

	c := types.NewConfig()

	err := runFlags.MergeToConfig(c)

	assert.Nil(t, err)
	assert.Equal(t, c.RunConfig.Memory, "512m")
	assert.Equal(t, c.RunConfig.CPUs, 1)
	assert.Equal(t, c.RunConfig.GdbPort, 0)
}
