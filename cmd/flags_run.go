package cmd

import (
	"github.com/bootsmith/bootsmith/types"
	"github.com/spf13/pflag"
)

// RunCommandFlags handles the emulator flags of the run command.
type RunCommandFlags struct {
	Memory  string
	CPUs    int
	GdbPort int
	Accel   bool
	Image   string
}

// MergeToConfig merges the emulator flags to configuration.
func (flags *RunCommandFlags) MergeToConfig(c *types.Config) error {
	if flags.Memory != "" {
		c.RunConfig.Memory = flags.Memory
	}

	if flags.CPUs != 0 {
		c.RunConfig.CPUs = flags.CPUs
	}

	if flags.GdbPort != 0 {
		c.RunConfig.GdbPort = flags.GdbPort
	}

	if flags.Accel {
		c.RunConfig.Accel = true
	}

	if flags.Image != "" {
		c.RunConfig.Imagename = flags.Image
	}

	return nil
}

// NewRunCommandFlags returns an instance of RunCommandFlags.
func NewRunCommandFlags(cmdFlags *pflag.FlagSet) (flags *RunCommandFlags) {
	var err error
	flags = &RunCommandFlags{}

	flags.Memory, err = cmdFlags.GetString("memory")
	if err != nil {
		exitWithError(err.Error())
	}

	flags.CPUs, err = cmdFlags.GetInt("smp")
	if err != nil {
		exitWithError(err.Error())
	}

	flags.GdbPort, err = cmdFlags.GetInt("gdb")
	if err != nil {
		exitWithError(err.Error())
	}

	flags.Accel, err = cmdFlags.GetBool("accel")
	if err != nil {
		exitWithError(err.Error())
	}

	flags.Image, err = cmdFlags.GetString("image")
	if err != nil {
		exitWithError(err.Error())
	}

	return
}

// PersistRunCommandFlags appends the emulator flags to a command.
func PersistRunCommandFlags(cmdFlags *pflag.FlagSet) {
	cmdFlags.StringP("memory", "m", "", "emulated RAM size, e.g. 512m or 2G")
	cmdFlags.Int("smp", 0, "number of emulated cores")
	cmdFlags.Int("gdb", 0, "listen for gdb on this port and wait at the first instruction")
	cmdFlags.Bool("accel", false, "use hardware acceleration when the host supports it")
	cmdFlags.StringP("image", "i", "", "boot image to run, defaults to the composed image")
}
