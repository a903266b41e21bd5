package cmd

import (
	"fmt"

	"github.com/bootsmith/bootsmith/compose"
	"github.com/bootsmith/bootsmith/types"
	"github.com/bootsmith/bootsmith/util"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/ttacon/chalk"
)

// ComposeCommand wraps a prebuilt kernel with a first-stage loader into a
// raw boot image for a platform.
func ComposeCommand() *cobra.Command {
	var cmdCompose = &cobra.Command{
		Use:   "compose [platform]",
		Short: "Compose a bootable image for a platform",
		Long: `Compose a bootable image for a platform.

The kernel binary is embedded verbatim behind the first-stage loader; the
platform decides the load address, entry stub and UART. Input paths come
from the config file or flags.`,
		Args: cobra.ExactArgs(1),
		Run:  composeCommandHandler,
	}

	persistentFlags := cmdCompose.PersistentFlags()

	PersistConfigCommandFlags(persistentFlags)
	PersistBuildCommandFlags(persistentFlags)

	return cmdCompose
}

func composeCommandHandler(cmd *cobra.Command, args []string) {
	flags := cmd.Flags()

	configFlags := NewConfigCommandFlags(flags)
	globalFlags := NewGlobalCommandFlags(flags)
	buildFlags := NewBuildCommandFlags(flags)

	c := types.NewConfig()

	mergeContainer := NewMergeConfigContainer(configFlags, globalFlags, buildFlags)
	err := mergeContainer.Merge(c)
	if err != nil {
		exitWithError(err.Error())
	}

	composer := compose.NewComposer(c)

	var image *compose.Image
	err = (&util.ProgressSpinner{}).Do(func() error {
		var cerr error
		image, cerr = composer.Compose(args[0])
		return cerr
	}, "composing ", args[0])
	if err != nil {
		exitWithError(err.Error())
	}

	fmt.Printf("boot image: %s (%s)\n", chalk.Bold.TextStyle(image.Path), humanize.Bytes(uint64(image.Size)))
	fmt.Printf("loader elf: %s\n", image.ELF)
	fmt.Printf("link map:   %s\n", image.MapFile)
	fmt.Printf("manifest:   %s\n", image.Manifest)
}
