package cmd

import (
	"github.com/bootsmith/bootsmith/types"
	"github.com/spf13/pflag"
)

// LayoutCommandFlags handles the inventory flags of the layout command.
type LayoutCommandFlags struct {
	Sections string
	FromELF  string
}

// MergeToConfig merges the sections file path to configuration. The ELF path
// stays on the flags; it never belongs in a build config file.
func (flags *LayoutCommandFlags) MergeToConfig(c *types.Config) error {
	if flags.Sections != "" {
		c.Sections = flags.Sections
	}

	return nil
}

// NewLayoutCommandFlags returns an instance of LayoutCommandFlags.
func NewLayoutCommandFlags(cmdFlags *pflag.FlagSet) (flags *LayoutCommandFlags) {
	var err error
	flags = &LayoutCommandFlags{}

	flags.Sections, err = cmdFlags.GetString("sections")
	if err != nil {
		exitWithError(err.Error())
	}

	flags.FromELF, err = cmdFlags.GetString("from-elf")
	if err != nil {
		exitWithError(err.Error())
	}

	return
}

// PersistLayoutCommandFlags appends the inventory flags to a command.
func PersistLayoutCommandFlags(cmdFlags *pflag.FlagSet) {
	cmdFlags.String("sections", "", "measured input sections (json)")
	cmdFlags.String("from-elf", "", "measure input sections from an ELF file")
}
