package types

import "github.com/bootsmith/bootsmith/constants"

// Config describes one layout or compose build.
type Config struct {
	// Kernel is the path to the prebuilt kernel binary. The composer embeds
	// it verbatim; it is never relinked or relocated.
	Kernel string `json:",omitempty"`

	// SupportLib is the statically linked loader support library archive.
	SupportLib string `json:",omitempty"`

	// StubTemplate overrides the platform's default entry stub template.
	StubTemplate string `json:",omitempty"`

	// StubObject supplies a pre-assembled entry stub object file. When set,
	// stub rendering and assembly are skipped.
	StubObject string `json:",omitempty"`

	// BuildDir is the root of the per-platform output directories.
	BuildDir string `json:",omitempty"`

	// CrossPrefix overrides the cross toolchain prefix, e.g.
	// "arm-none-eabi-". Defaults come from the architecture catalog and the
	// CROSS_COMPILE environment variable.
	CrossPrefix string `json:",omitempty"`

	// DataAlign overrides the mutable-data region alignment in bytes. Zero
	// keeps the architecture default.
	DataAlign uint64 `json:",omitempty"`

	// MapFile overrides the link map file name inside the platform
	// directory.
	MapFile string `json:",omitempty"`

	// Sections is a JSON file with measured input sections, used by the
	// layout command to resolve concrete addresses.
	Sections string `json:",omitempty"`

	// RunConfig holds emulator settings for the run command.
	RunConfig RunConfig `json:",omitempty"`
}

// RunConfig holds the QEMU invocation settings.
type RunConfig struct {
	// Accel requests hardware acceleration when the host supports it.
	Accel bool `json:",omitempty"`

	// CPUs specifies the number of emulated cores.
	CPUs int `json:",omitempty"`

	// Memory, e.g. "512m" or "2G".
	Memory string `json:",omitempty"`

	// Imagename overrides the boot image path handed to the emulator.
	Imagename string `json:",omitempty"`

	// GdbPort, when nonzero, makes the emulator wait for a debugger.
	GdbPort int `json:",omitempty"`

	// Verbose enables info-level logging.
	Verbose bool `json:",omitempty"`

	// ShowDebug enables all log levels.
	ShowDebug bool `json:",omitempty"`

	// ShowWarnings enables warning-level logging.
	ShowWarnings bool `json:",omitempty"`

	// ShowErrors enables error-level logging.
	ShowErrors bool `json:",omitempty"`
}

// NewConfig returns a Config with the build defaults applied.
func NewConfig() *Config {
	return &Config{
		BuildDir: constants.DefaultBuildDir,
		RunConfig: RunConfig{
			Memory: "512m",
			CPUs:   1,
		},
	}
}
