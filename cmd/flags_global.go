package cmd

import (
	"github.com/bootsmith/bootsmith/types"
	"github.com/spf13/pflag"
)

// GlobalCommandFlags are flags available to every command.
type GlobalCommandFlags struct {
	ShowWarnings bool
	ShowErrors   bool
	ShowDebug    bool
	Verbose      bool
}

// MergeToConfig merges global flags to configuration.
func (flags *GlobalCommandFlags) MergeToConfig(c *types.Config) error {
	c.RunConfig.ShowWarnings = flags.ShowWarnings
	c.RunConfig.ShowErrors = flags.ShowErrors
	c.RunConfig.ShowDebug = flags.ShowDebug
	c.RunConfig.Verbose = flags.Verbose

	return nil
}

// NewGlobalCommandFlags returns an instance of GlobalCommandFlags.
func NewGlobalCommandFlags(cmdFlags *pflag.FlagSet) (flags *GlobalCommandFlags) {
	var err error
	flags = &GlobalCommandFlags{}

	flags.ShowWarnings, err = cmdFlags.GetBool("show-warnings")
	if err != nil {
		exitWithError(err.Error())
	}

	flags.ShowErrors, err = cmdFlags.GetBool("show-errors")
	if err != nil {
		exitWithError(err.Error())
	}

	flags.ShowDebug, err = cmdFlags.GetBool("show-debug")
	if err != nil {
		exitWithError(err.Error())
	}

	flags.Verbose, err = cmdFlags.GetBool("verbose")
	if err != nil {
		exitWithError(err.Error())
	}

	return
}

// PersistGlobalCommandFlags declares the flags shared by every command.
func PersistGlobalCommandFlags(cmdFlags *pflag.FlagSet) {
	cmdFlags.Bool("show-warnings", false, "display warning messages")
	cmdFlags.Bool("show-errors", false, "display error messages")
	cmdFlags.Bool("show-debug", false, "display debug messages")
	cmdFlags.BoolP("verbose", "v", false, "verbose output")
}
