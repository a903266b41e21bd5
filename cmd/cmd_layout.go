package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bootsmith/bootsmith/arch"
	"github.com/bootsmith/bootsmith/constants"
	"github.com/bootsmith/bootsmith/inspect"
	"github.com/bootsmith/bootsmith/layout"
	"github.com/bootsmith/bootsmith/log"
	"github.com/bootsmith/bootsmith/types"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/ttacon/chalk"
)

// LayoutCommand emits the kernel linker script and target description for an
// architecture, and resolves concrete addresses when an inventory of
// measured input sections is supplied.
func LayoutCommand() *cobra.Command {
	var cmdLayout = &cobra.Command{
		Use:   "layout [arch]",
		Short: "Write the kernel linker script for an architecture",
		Long: `Write the kernel linker script and target description for an architecture.

With --sections or --from-elf the concrete region addresses are resolved and
printed alongside the exported boundary symbols.`,
		Args: cobra.ExactArgs(1),
		Run:  layoutCommandHandler,
	}

	persistentFlags := cmdLayout.PersistentFlags()

	PersistConfigCommandFlags(persistentFlags)
	PersistBuildCommandFlags(persistentFlags)
	PersistLayoutCommandFlags(persistentFlags)

	return cmdLayout
}

func layoutCommandHandler(cmd *cobra.Command, args []string) {
	flags := cmd.Flags()

	configFlags := NewConfigCommandFlags(flags)
	globalFlags := NewGlobalCommandFlags(flags)
	buildFlags := NewBuildCommandFlags(flags)
	layoutFlags := NewLayoutCommandFlags(flags)

	c := types.NewConfig()

	mergeContainer := NewMergeConfigContainer(configFlags, globalFlags, buildFlags, layoutFlags)
	err := mergeContainer.Merge(c)
	if err != nil {
		exitWithError(err.Error())
	}

	a, err := arch.Get(args[0])
	if err != nil {
		exitWithError(err.Error())
	}

	plan := a.Plan(arch.Options{DataAlign: c.DataAlign})

	fs := afero.NewOsFs()
	dir := filepath.Join(c.BuildDir, a.Name)

	script, err := writeLayoutScript(fs, plan, dir)
	if err != nil {
		exitWithError(err.Error())
	}

	target, err := a.WriteTarget(fs, dir)
	if err != nil {
		exitWithError(err.Error())
	}

	fmt.Printf("kernel linker script: %s\n", chalk.Bold.TextStyle(script))
	fmt.Printf("target description: %s\n", target)

	inv, ok, err := layoutInventory(c, layoutFlags.FromELF)
	if err != nil {
		exitWithError(err.Error())
	}
	if !ok {
		return
	}

	resolved, err := layout.Resolve(plan, inv)
	if err != nil {
		exitWithError(err.Error())
	}

	printRegionTable(resolved)
	printSymbolTable(resolved)
	fmt.Printf("image end: %#x\n", resolved.ImageEnd)
}

func writeLayoutScript(fs afero.Fs, plan *layout.Plan, dir string) (string, error) {
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	script := filepath.Join(dir, constants.KernelScriptFile)
	f, err := fs.Create(script)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := plan.WriteScript(f); err != nil {
		return "", err
	}

	return script, nil
}

// layoutInventory loads the measured input sections, preferring an ELF over
// a sections file when both are given. ok is false when neither is set.
func layoutInventory(c *types.Config, fromELF string) (inv layout.Inventory, ok bool, err error) {
	if fromELF != "" {
		if c.Sections != "" {
			log.Warn("ignoring sections file %s, measuring %s instead", c.Sections, fromELF)
		}
		inv, err = inspect.InventoryFromELF(fromELF)
		return inv, true, err
	}

	if c.Sections == "" {
		return nil, false, nil
	}

	data, err := os.ReadFile(c.Sections)
	if err != nil {
		return nil, false, fmt.Errorf("error reading sections: %v", err)
	}

	if err := json.Unmarshal(data, &inv); err != nil {
		return nil, false, fmt.Errorf("error sections: %v", err)
	}

	return inv, true, nil
}

func printRegionTable(l *layout.Layout) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Region", "Phys", "Virt", "Size", "Perms", "Mode"})
	table.SetHeaderColor(
		tablewriter.Colors{tablewriter.Bold, tablewriter.FgCyanColor},
		tablewriter.Colors{tablewriter.Bold, tablewriter.FgCyanColor},
		tablewriter.Colors{tablewriter.Bold, tablewriter.FgCyanColor},
		tablewriter.Colors{tablewriter.Bold, tablewriter.FgCyanColor},
		tablewriter.Colors{tablewriter.Bold, tablewriter.FgCyanColor},
		tablewriter.Colors{tablewriter.Bold, tablewriter.FgCyanColor})
	table.SetRowLine(true)

	for _, r := range l.Regions {
		var row []string
		row = append(row, r.Name)
		row = append(row, fmt.Sprintf("%#x", r.Phys))
		row = append(row, fmt.Sprintf("%#x", r.Virt))
		row = append(row, fmt.Sprintf("%#x (%s)", r.Size, humanize.IBytes(r.Size)))
		row = append(row, r.Perms.String())
		row = append(row, r.Mode.String())
		table.Append(row)
	}

	table.Render()
}

func printSymbolTable(l *layout.Layout) {
	symbols := l.Symbols()
	if len(symbols) == 0 {
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Symbol", "Address"})
	table.SetHeaderColor(
		tablewriter.Colors{tablewriter.Bold, tablewriter.FgCyanColor},
		tablewriter.Colors{tablewriter.Bold, tablewriter.FgCyanColor})

	for _, s := range symbols {
		table.Append([]string{s.Name, fmt.Sprintf("%#x", s.Value)})
	}

	table.Render()
}
