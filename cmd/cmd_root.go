package cmd

import (
	"os"
	"strings"

	"github.com/bootsmith/bootsmith/log"
	"github.com/bootsmith/bootsmith/types"
	"github.com/spf13/cobra"
)

// GetRootCommand assembles the bootsmith command set.
func GetRootCommand() *cobra.Command {
	var rootCmd = &cobra.Command{
		Use:   "bootsmith",
		Short: "Compose bootable ARM kernel images",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config := &types.Config{}

			configFlag, _ := cmd.Flags().GetString("config")
			configFlag = strings.TrimSpace(configFlag)

			if configFlag != "" {
				if err := unwrapConfig(configFlag, config); err != nil {
					return err
				}
			}

			globalFlags := NewGlobalCommandFlags(cmd.Flags())
			if err := globalFlags.MergeToConfig(config); err != nil {
				return err
			}

			log.InitDefault(os.Stdout, config)
			return nil
		},
	}

	// persist flags transversal to every command
	PersistGlobalCommandFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(LayoutCommand())
	rootCmd.AddCommand(ComposeCommand())
	rootCmd.AddCommand(PlatformsCommand())
	rootCmd.AddCommand(VerifyCommand())
	rootCmd.AddCommand(RunCommand())
	rootCmd.AddCommand(VersionCommand())

	return rootCmd
}
