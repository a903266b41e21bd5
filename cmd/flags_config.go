package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bootsmith/bootsmith/types"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v2"
)

// ConfigCommandFlags handles the config file path flag and the build
// configuration read from that file.
type ConfigCommandFlags struct {
	Config string
}

// MergeToConfig loads the configuration file over c.
func (flags *ConfigCommandFlags) MergeToConfig(c *types.Config) error {
	if flags.Config == "" {
		return nil
	}

	return unwrapConfig(flags.Config, c)
}

// unwrapConfig parses a build configuration file into c. JSON is the native
// format; files ending in .yaml or .yml are parsed as YAML.
func unwrapConfig(file string, c *types.Config) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("error reading config: %v", err)
	}

	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	default:
		err = json.Unmarshal(data, c)
	}
	if err != nil {
		return fmt.Errorf("error config: %v", err)
	}

	return nil
}

// NewConfigCommandFlags returns an instance of ConfigCommandFlags.
func NewConfigCommandFlags(cmdFlags *pflag.FlagSet) (flags *ConfigCommandFlags) {
	var err error
	flags = &ConfigCommandFlags{}

	flags.Config, err = cmdFlags.GetString("config")
	if err != nil {
		exitWithError(err.Error())
	}

	flags.Config = strings.TrimSpace(flags.Config)

	return
}

// PersistConfigCommandFlags appends the config file flag to a command.
func PersistConfigCommandFlags(cmdFlags *pflag.FlagSet) {
	cmdFlags.StringP("config", "c", "", "build config file (json or yaml)")
}
