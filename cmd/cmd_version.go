package cmd

import (
	"fmt"

	"github.com/bootsmith/bootsmith/constants"
	"github.com/spf13/cobra"
)

// VersionCommand provides the version command.
func VersionCommand() *cobra.Command {
	var cmdVersion = &cobra.Command{
		Use:   "version",
		Short: "Version",
		Run:   printVersion,
	}
	return cmdVersion
}

func printVersion(cmd *cobra.Command, args []string) {
	fmt.Printf("bootsmith version: %s\n", constants.Version)
}
