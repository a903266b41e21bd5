// Package compose builds a bootable image for one platform: it renders and
// assembles the entry stub, wraps the prebuilt kernel into an opaque blob
// object, links stub, support library and blob under a generated loader
// script, and flattens the result into raw loadable bytes.
package compose

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-errors/errors"
	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/afero"

	"github.com/bootsmith/bootsmith/arch"
	"github.com/bootsmith/bootsmith/constants"
	"github.com/bootsmith/bootsmith/layout"
	"github.com/bootsmith/bootsmith/log"
	"github.com/bootsmith/bootsmith/platform"
	"github.com/bootsmith/bootsmith/toolchain"
	"github.com/bootsmith/bootsmith/types"
)

// stagingBarThreshold is the blob size above which staging shows a byte
// progress bar.
const stagingBarThreshold = 8 << 20

// MissingInputError reports a required build input that is absent. It is
// returned before any tool runs or output is written.
type MissingInputError struct {
	Input string
	Path  string
}

func (e *MissingInputError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("missing %s (not configured)", e.Input)
	}
	return fmt.Sprintf("missing %s: %s", e.Input, e.Path)
}

// ToolFactory builds the toolchain for the architecture selected by the
// platform.
type ToolFactory func(a *arch.Arch, config *types.Config) toolchain.Toolchain

// Composer builds boot images. A Composer serves any number of Compose
// calls; no state survives an invocation.
type Composer struct {
	fs     afero.Fs
	tools  ToolFactory
	config *types.Config
	logger *log.Logger
}

// NewComposer returns a Composer running the real cross toolchain on the
// host filesystem.
func NewComposer(config *types.Config) *Composer {
	return NewComposerWithTools(afero.NewOsFs(), func(a *arch.Arch, c *types.Config) toolchain.Toolchain {
		return toolchain.New(a, c)
	}, config)
}

// NewComposerWithTools wires an explicit filesystem and toolchain factory.
// Tests compose on a memory filesystem with a recording toolchain.
func NewComposerWithTools(fs afero.Fs, tools ToolFactory, config *types.Config) *Composer {
	return &Composer{
		fs:     fs,
		tools:  tools,
		config: config,
		logger: log.Default(),
	}
}

// Image is the result of one composition.
type Image struct {
	Platform string
	Arch     string
	Path     string
	ELF      string
	MapFile  string
	Manifest string
	Size     int64
}

// Compose builds the boot image for the named platform. Unknown platforms
// and missing inputs fail before anything is written; every other failure
// leaves the platform's build directory for inspection.
func (c *Composer) Compose(platformName string) (*Image, error) {
	plat, err := platform.Get(platformName)
	if err != nil {
		return nil, err
	}
	a, err := arch.Get(plat.Arch)
	if err != nil {
		return nil, err
	}
	if err := c.checkInputs(); err != nil {
		return nil, err
	}

	// Every platform owns its build subdirectory, so parallel builds of
	// different platforms never share output paths.
	dir := filepath.Join(c.config.BuildDir, plat.Name)
	if err := c.fs.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(err, 1)
	}

	tools := c.tools(a, c.config)

	stubObj, stubSrc, err := c.prepareStub(tools, dir, plat, a)
	if err != nil {
		return nil, err
	}

	blobObj, kernelSize, err := c.prepareBlob(tools, dir)
	if err != nil {
		return nil, err
	}

	script := filepath.Join(dir, constants.LoaderScriptFile)
	if err := c.writeScript(LoaderPlan(plat, a), script); err != nil {
		return nil, err
	}

	elf := filepath.Join(dir, constants.LoaderELFFile)
	mapFile := filepath.Join(dir, c.mapFileName())
	c.logger.Info("linking " + elf)
	if err := tools.Link(script, mapFile, elf, []string{stubObj, blobObj, c.config.SupportLib}); err != nil {
		return nil, err
	}

	img := filepath.Join(dir, constants.BootImageFile)
	if err := tools.Binary(elf, img); err != nil {
		return nil, err
	}

	size, err := c.fileSize(img)
	if err != nil {
		return nil, err
	}

	m := &Manifest{
		ID:         uuid.New().String(),
		Composer:   "bootsmith " + constants.Version,
		Platform:   plat.Name,
		Arch:       a.Name,
		CreatedAt:  time.Now().UTC(),
		Image:      img,
		ImageSize:  size,
		Kernel:     c.config.Kernel,
		KernelSize: kernelSize,
		SupportLib: c.config.SupportLib,
		Stub:       stubSrc,
		MapFile:    mapFile,
	}
	manifest := filepath.Join(dir, constants.ComposeManifestFile)
	if err := m.write(c.fs, manifest); err != nil {
		return nil, errors.Wrap(err, 1)
	}

	c.logger.Info("composed " + img + " (" + humanize.Bytes(uint64(size)) + ")")

	return &Image{
		Platform: plat.Name,
		Arch:     a.Name,
		Path:     img,
		ELF:      elf,
		MapFile:  mapFile,
		Manifest: manifest,
		Size:     size,
	}, nil
}

func (c *Composer) mapFileName() string {
	if c.config.MapFile != "" {
		return c.config.MapFile
	}
	return constants.LinkMapFile
}

func (c *Composer) checkInputs() error {
	if err := c.requireFile("kernel binary", c.config.Kernel); err != nil {
		return err
	}
	if err := c.requireFile("support library", c.config.SupportLib); err != nil {
		return err
	}
	if c.config.StubObject != "" {
		return c.requireFile("entry stub object", c.config.StubObject)
	}
	return c.requireFile("entry stub template", c.config.StubTemplate)
}

func (c *Composer) requireFile(role, path string) error {
	if path == "" {
		return &MissingInputError{Input: role}
	}
	ok, err := afero.Exists(c.fs, path)
	if err != nil {
		return errors.Wrap(err, 1)
	}
	if !ok {
		return &MissingInputError{Input: role, Path: path}
	}
	return nil
}

// prepareStub returns the assembled stub object, rendering the template
// first unless the config supplies a pre-assembled object.
func (c *Composer) prepareStub(tools toolchain.Toolchain, dir string, plat *platform.Params, a *arch.Arch) (obj, src string, err error) {
	if c.config.StubObject != "" {
		return c.config.StubObject, c.config.StubObject, nil
	}

	src = filepath.Join(dir, plat.Name+".S")
	data := &StubData{Platform: plat, Arch: a, Entry: LoaderEntry}
	if err := renderStub(c.fs, c.config.StubTemplate, src, data); err != nil {
		return "", "", err
	}

	obj = filepath.Join(dir, "stub.o")
	c.logger.Info("assembling " + src)
	if err := tools.Assemble(src, obj); err != nil {
		return "", "", err
	}
	return obj, src, nil
}

// prepareBlob stages the kernel into the build directory and wraps it into
// an object exposing it as the blob section.
func (c *Composer) prepareBlob(tools toolchain.Toolchain, dir string) (string, int64, error) {
	staged := filepath.Join(dir, "kernel.bin")
	size, err := c.stage(c.config.Kernel, staged)
	if err != nil {
		return "", 0, err
	}

	obj := filepath.Join(dir, "kernel_blob.o")
	if err := tools.EmbedBlob(staged, obj); err != nil {
		return "", 0, err
	}
	return obj, size, nil
}

func (c *Composer) stage(src, dst string) (int64, error) {
	in, err := c.fs.Open(src)
	if err != nil {
		return 0, errors.Wrap(err, 1)
	}
	defer in.Close()

	fi, err := in.Stat()
	if err != nil {
		return 0, errors.Wrap(err, 1)
	}

	out, err := c.fs.Create(dst)
	if err != nil {
		return 0, errors.Wrap(err, 1)
	}
	defer out.Close()

	var w io.Writer = out
	if fi.Size() > stagingBarThreshold {
		bar := progressbar.DefaultBytes(fi.Size(), "staging kernel")
		w = io.MultiWriter(out, bar)
	}
	if _, err := io.Copy(w, in); err != nil {
		return 0, errors.Wrap(err, 1)
	}
	return fi.Size(), nil
}

func (c *Composer) writeScript(p *layout.Plan, path string) error {
	f, err := c.fs.Create(path)
	if err != nil {
		return errors.Wrap(err, 1)
	}
	defer f.Close()
	return p.WriteScript(f)
}

func (c *Composer) fileSize(path string) (int64, error) {
	fi, err := c.fs.Stat(path)
	if err != nil {
		return 0, errors.Wrap(err, 1)
	}
	return fi.Size(), nil
}
