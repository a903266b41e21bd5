package cmd

import (
	"fmt"
	"os"

	"github.com/bootsmith/bootsmith/platform"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// PlatformsCommand lists the boot targets this build knows about.
func PlatformsCommand() *cobra.Command {
	var cmdPlatforms = &cobra.Command{
		Use:   "platforms",
		Short: "List supported boot platforms",
		Run:   platformsCommandHandler,
	}
	return cmdPlatforms
}

func platformsCommandHandler(cmd *cobra.Command, args []string) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Name", "Arch", "Load Address", "UART", "Description"})
	table.SetHeaderColor(
		tablewriter.Colors{tablewriter.Bold, tablewriter.FgCyanColor},
		tablewriter.Colors{tablewriter.Bold, tablewriter.FgCyanColor},
		tablewriter.Colors{tablewriter.Bold, tablewriter.FgCyanColor},
		tablewriter.Colors{tablewriter.Bold, tablewriter.FgCyanColor},
		tablewriter.Colors{tablewriter.Bold, tablewriter.FgCyanColor})
	table.SetRowLine(true)

	for _, p := range platform.List() {
		var row []string
		row = append(row, p.Name)
		row = append(row, p.Arch)
		row = append(row, fmt.Sprintf("%#x", p.LoadAddress))
		row = append(row, fmt.Sprintf("%#x", p.UARTBase))
		row = append(row, p.Description)
		table.Append(row)
	}

	table.Render()
}
