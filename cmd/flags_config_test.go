package cmd_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bootsmith/bootsmith/cmd"
	"github.com/bootsmith/bootsmith/types"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
)

func mergeConfigFile(t *testing.T, path string) *types.Config {
	flagSet := pflag.NewFlagSet("test", 0)
	cmd.PersistConfigCommandFlags(flagSet)
	flagSet.Set("config", path)

	c := &types.Config{}
	err := cmd.NewConfigCommandFlags(flagSet).MergeToConfig(c)
	assert.Nil(t, err)

	return c
}

func TestConfigFlagsReadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "build.json")
	err := os.WriteFile(path, []byte(`{
		"Kernel": "out/kernel.bin",
		"SupportLib": "out/libsupport.a",
		"DataAlign": 65536
	}`), 0644)
	assert.Nil(t, err)

	c := mergeConfigFile(t, path)

	assert.Equal(t, c.Kernel, "out/kernel.bin")
	assert.Equal(t, c.SupportLib, "out/libsupport.a")
	assert.Equal(t, c.DataAlign, uint64(65536))
}

func TestConfigFlagsYAMLMatchesJSON(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "build.json")
	err := os.WriteFile(jsonPath, []byte(`{
		"Kernel": "out/kernel.bin",
		"BuildDir": "artifacts",
		"DataAlign": 65536
	}`), 0644)
	assert.Nil(t, err)

	yamlPath := filepath.Join(dir, "build.yaml")
	err = os.WriteFile(yamlPath, []byte(
		"kernel: out/kernel.bin\nbuilddir: artifacts\ndataalign: 65536\n"), 0644)
	assert.Nil(t, err)

	fromJSON := mergeConfigFile(t, jsonPath)
	fromYAML := mergeConfigFile(t, yamlPath)

	assert.Equal(t, fromJSON, fromYAML)
}

func TestConfigFlagsMissingFile(t *testing.T) {
	flagSet := pflag.NewFlagSet("test", 0)
	cmd.PersistConfigCommandFlags(flagSet)
	flagSet.Set("config", filepath.Join(t.TempDir(), "nope.json"))

	c := &types.Config{}
	err := cmd.NewConfigCommandFlags(flagSet).MergeToConfig(c)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config")
}

func TestConfigFlagsEmptyPathLeavesConfigAlone(t *testing.T) {
	flagSet := pflag.NewFlagSet("test", 0)
	cmd.PersistConfigCommandFlags(flagSet)

	c := types.NewConfig()
	want := *c

	err := cmd.NewConfigCommandFlags(flagSet).MergeToConfig(c)

	assert.Nil(t, err)
	assert.Equal(t, &want, c)
}
