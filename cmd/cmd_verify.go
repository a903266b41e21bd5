package cmd

import (
	"fmt"

	"github.com/bootsmith/bootsmith/arch"
	"github.com/bootsmith/bootsmith/inspect"
	"github.com/spf13/cobra"
	"github.com/ttacon/chalk"
)

// VerifyCommand checks a built kernel against the layout contract: the
// boundary symbols exist with the alignment and ordering the runtime
// depends on, and every load segment honors the address-space split.
func VerifyCommand() *cobra.Command {
	var cmdVerify = &cobra.Command{
		Use:   "verify [kernel ELF]",
		Short: "Verify the layout contract of a built kernel",
		Args:  cobra.ExactArgs(1),
		Run:   verifyCommandHandler,
	}

	cmdVerify.PersistentFlags().StringP("target", "t", "", "target architecture of the kernel")

	return cmdVerify
}

func verifyCommandHandler(cmd *cobra.Command, args []string) {
	target, err := cmd.Flags().GetString("target")
	if err != nil {
		exitWithError(err.Error())
	}
	if target == "" {
		exitForCmd(cmd, "missing target architecture")
	}

	a, err := arch.Get(target)
	if err != nil {
		exitWithError(err.Error())
	}

	f, err := inspect.Open(args[0])
	if err != nil {
		exitWithError(err.Error())
	}
	defer f.Close()

	if err := inspect.Verify(f, a); err != nil {
		exitWithError(err.Error())
	}

	fmt.Printf("%s honors the %s layout contract\n", chalk.Bold.TextStyle(args[0]), a.Name)
}
