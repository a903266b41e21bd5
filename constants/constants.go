package constants

// Version is stamped into compose manifests and printed by the version
// command.
const Version = "0.4.1"

const (
	// WarningColor used in warning texts
	WarningColor = "\033[1;33m%s\033[0m"
	// ErrorColor used in error texts
	ErrorColor = "\033[1;31m%s\033[0m"
)

const (
	// DefaultBuildDir is where per-platform output directories are created.
	DefaultBuildDir = "build"
	// LinkMapFile is the link map name written next to each boot image.
	LinkMapFile = "boot.map"
	// BootImageFile is the raw boot image name inside a platform directory.
	BootImageFile = "boot.img"
	// LoaderELFFile is the intermediate linked loader kept for debugging.
	LoaderELFFile = "loader.elf"
	// KernelScriptFile is the kernel linker script emitted by the layout
	// command.
	KernelScriptFile = "kernel.ld"
	// LoaderScriptFile is the loader linker script generated during
	// composition.
	LoaderScriptFile = "loader.ld"
	// ComposeManifestFile records the inputs of a composed image.
	ComposeManifestFile = "compose.json"
)
