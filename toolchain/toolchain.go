// Package toolchain wraps the external cross tools behind a narrow
// interface. The tools are black boxes consuming object files and flags;
// everything address related is decided before they run.
package toolchain

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/xyproto/env/v2"

	"github.com/bootsmith/bootsmith/arch"
	"github.com/bootsmith/bootsmith/log"
	"github.com/bootsmith/bootsmith/types"
)

// BlobSection is the section name an embedded kernel binary is renamed to.
// The loader plan places it by this name.
const BlobSection = ".kernel_blob"

// Toolchain is the tool surface composition needs. Implementations run real
// cross binaries; tests substitute a recorder.
type Toolchain interface {
	// Assemble translates one assembly source into an object file.
	Assemble(src, obj string) error

	// EmbedBlob wraps opaque bytes into a relocatable object exposing
	// them as BlobSection. The blob is never relocated or parsed.
	EmbedBlob(blob, obj string) error

	// Link runs the linker with the given script, writing the image and
	// a map of final symbol addresses. Unreferenced sections are
	// eliminated.
	Link(script, mapFile, out string, objects []string) error

	// Binary flattens a linked image into raw loadable bytes.
	Binary(elf, img string) error
}

// MissingToolError reports a cross tool that is not installed.
type MissingToolError struct {
	Tool string
}

func (e *MissingToolError) Error() string {
	return fmt.Sprintf("%s not found in PATH, set CROSS_COMPILE or install a cross toolchain", e.Tool)
}

// Cross drives binutils style tools named by a target prefix.
type Cross struct {
	prefix  string
	format  string
	bfdArch string
}

// New builds a Cross for the given architecture. The prefix is taken from
// the config when set, then the CROSS_COMPILE environment variable, then the
// architecture default.
func New(a *arch.Arch, config *types.Config) *Cross {
	prefix := config.CrossPrefix
	if prefix == "" {
		prefix = env.Str("CROSS_COMPILE", a.CrossPrefix)
	}

	return &Cross{
		prefix:  prefix,
		format:  a.OutputFormat,
		bfdArch: a.OutputArch,
	}
}

// Tool returns the full name of one tool under the active prefix.
func (t *Cross) Tool(name string) string {
	return t.prefix + name
}

// Installed reports whether the linker under the active prefix is on PATH.
func (t *Cross) Installed() bool {
	_, err := exec.LookPath(t.Tool("ld"))
	return err == nil
}

func (t *Cross) run(tool string, args ...string) error {
	if _, err := exec.LookPath(tool); err != nil {
		return &MissingToolError{Tool: tool}
	}

	log.Debug(tool + " " + strings.Join(args, " "))

	out, err := exec.Command(tool, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s failed: %v\n%s", tool, err, strings.TrimSpace(string(out)))
	}
	return nil
}

func (t *Cross) Assemble(src, obj string) error {
	return t.run(t.Tool("as"), src, "-o", obj)
}

func (t *Cross) EmbedBlob(blob, obj string) error {
	return t.run(t.Tool("objcopy"),
		"-I", "binary",
		"-O", t.format,
		"-B", t.bfdArch,
		"--rename-section", ".data="+BlobSection+",contents,alloc,load,readonly,data",
		blob, obj)
}

func (t *Cross) Link(script, mapFile, out string, objects []string) error {
	args := []string{
		"-T", script,
		"--gc-sections",
		"-Map=" + mapFile,
		"-o", out,
	}
	args = append(args, objects...)
	return t.run(t.Tool("ld"), args...)
}

func (t *Cross) Binary(elf, img string) error {
	return t.run(t.Tool("objcopy"), "-O", "binary", elf, img)
}
