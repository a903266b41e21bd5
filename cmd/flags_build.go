package cmd

import (
	"github.com/bootsmith/bootsmith/types"
	"github.com/spf13/pflag"
)

// BuildCommandFlags consolidates the flags shared by the layout and compose
// commands: input artifacts, output locations and toolchain overrides.
type BuildCommandFlags struct {
	Kernel       string
	SupportLib   string
	StubTemplate string
	StubObject   string
	BuildDir     string
	CrossPrefix  string
	DataAlign    uint64
	MapFile      string
}

// MergeToConfig overrides configuration properties with the flag values.
// Unset flags leave the config file values alone.
func (flags *BuildCommandFlags) MergeToConfig(c *types.Config) error {
	if flags.Kernel != "" {
		c.Kernel = flags.Kernel
	}

	if flags.SupportLib != "" {
		c.SupportLib = flags.SupportLib
	}

	if flags.StubTemplate != "" {
		c.StubTemplate = flags.StubTemplate
	}

	if flags.StubObject != "" {
		c.StubObject = flags.StubObject
	}

	if flags.BuildDir != "" {
		c.BuildDir = flags.BuildDir
	}

	if flags.CrossPrefix != "" {
		c.CrossPrefix = flags.CrossPrefix
	}

	if flags.DataAlign != 0 {
		c.DataAlign = flags.DataAlign
	}

	if flags.MapFile != "" {
		c.MapFile = flags.MapFile
	}

	return nil
}

// NewBuildCommandFlags returns an instance of BuildCommandFlags.
func NewBuildCommandFlags(cmdFlags *pflag.FlagSet) (flags *BuildCommandFlags) {
	var err error
	flags = &BuildCommandFlags{}

	flags.Kernel, err = cmdFlags.GetString("kernel")
	if err != nil {
		exitWithError(err.Error())
	}

	flags.SupportLib, err = cmdFlags.GetString("support-lib")
	if err != nil {
		exitWithError(err.Error())
	}

	flags.StubTemplate, err = cmdFlags.GetString("stub-template")
	if err != nil {
		exitWithError(err.Error())
	}

	flags.StubObject, err = cmdFlags.GetString("stub-object")
	if err != nil {
		exitWithError(err.Error())
	}

	flags.BuildDir, err = cmdFlags.GetString("build-dir")
	if err != nil {
		exitWithError(err.Error())
	}

	flags.CrossPrefix, err = cmdFlags.GetString("cross-prefix")
	if err != nil {
		exitWithError(err.Error())
	}

	flags.DataAlign, err = cmdFlags.GetUint64("data-align")
	if err != nil {
		exitWithError(err.Error())
	}

	flags.MapFile, err = cmdFlags.GetString("map-file")
	if err != nil {
		exitWithError(err.Error())
	}

	return
}

// PersistBuildCommandFlags appends the build flags to a command.
func PersistBuildCommandFlags(cmdFlags *pflag.FlagSet) {
	cmdFlags.StringP("kernel", "k", "", "prebuilt kernel binary to embed")
	cmdFlags.String("support-lib", "", "loader support library archive")
	cmdFlags.String("stub-template", "", "entry stub template override")
	cmdFlags.String("stub-object", "", "pre-assembled entry stub object, skips rendering")
	cmdFlags.String("build-dir", "", "build output directory")
	cmdFlags.String("cross-prefix", "", "cross toolchain prefix, e.g. aarch64-none-elf-")
	cmdFlags.Uint64("data-align", 0, "mutable data region alignment in bytes")
	cmdFlags.String("map-file", "", "link map file name inside the platform directory")
}
