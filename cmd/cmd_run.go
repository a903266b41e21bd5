package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bootsmith/bootsmith/arch"
	"github.com/bootsmith/bootsmith/constants"
	"github.com/bootsmith/bootsmith/platform"
	"github.com/bootsmith/bootsmith/qemu"
	"github.com/bootsmith/bootsmith/types"
	"github.com/spf13/cobra"
)

// RunCommand boots a composed image under the platform's QEMU machine.
func RunCommand() *cobra.Command {
	var cmdRun = &cobra.Command{
		Use:   "run [platform]",
		Short: "Boot a composed image under QEMU",
		Args:  cobra.ExactArgs(1),
		Run:   runCommandHandler,
	}

	persistentFlags := cmdRun.PersistentFlags()

	PersistConfigCommandFlags(persistentFlags)
	PersistBuildCommandFlags(persistentFlags)
	PersistRunCommandFlags(persistentFlags)

	return cmdRun
}

func runCommandHandler(cmd *cobra.Command, args []string) {
	flags := cmd.Flags()

	configFlags := NewConfigCommandFlags(flags)
	globalFlags := NewGlobalCommandFlags(flags)
	buildFlags := NewBuildCommandFlags(flags)
	runFlags := NewRunCommandFlags(flags)

	c := types.NewConfig()

	mergeContainer := NewMergeConfigContainer(configFlags, globalFlags, buildFlags, runFlags)
	err := mergeContainer.Merge(c)
	if err != nil {
		exitWithError(err.Error())
	}

	plat, err := platform.Get(args[0])
	if err != nil {
		exitWithError(err.Error())
	}

	a, err := arch.Get(plat.Arch)
	if err != nil {
		exitWithError(err.Error())
	}

	if c.RunConfig.Imagename == "" {
		c.RunConfig.Imagename = filepath.Join(c.BuildDir, plat.Name, constants.BootImageFile)
	}

	if _, err := os.Stat(c.RunConfig.Imagename); err != nil {
		exitWithError(fmt.Sprintf("no boot image at %s, run `bootsmith compose %s` first",
			c.RunConfig.Imagename, plat.Name))
	}

	runner := qemu.NewRunner(plat, a)
	if err := runner.Start(&c.RunConfig); err != nil {
		exitWithError(err.Error())
	}
}
