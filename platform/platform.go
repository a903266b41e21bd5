// Package platform catalogs the boards a boot image can target. A platform
// binds an architecture to the physical facts the loader needs: where RAM
// starts, where firmware drops the image, and where the debug UART lives.
package platform

import (
	"fmt"
	"strings"

	"github.com/bootsmith/bootsmith/arch"
)

// Params is one platform record. Everything here is data; composing for a
// new board means adding a record, not code.
type Params struct {
	// Name is the identifier given on the command line.
	Name string

	// Arch names the architecture catalog entry the platform runs.
	Arch string

	// Description is the one line shown by the platforms listing.
	Description string

	// UARTBase is the physical address of the debug UART data register.
	// The entry stub renders it into its early print routine.
	UARTBase uint64

	// RAMBase is the lowest physical RAM address.
	RAMBase uint64

	// LoadAddress is where firmware places the boot image. The loader
	// plan anchors its first region here.
	LoadAddress uint64

	// DTB names the device tree blob the board's firmware expects next
	// to the image. Empty when the machine passes one itself.
	DTB string

	// Machine and CPU select the qemu incarnation of the board. Machine
	// is empty for boards qemu cannot emulate.
	Machine string
	CPU     string
}

// MissingPlatformError reports a compose request for a platform the catalog
// does not know. Nothing is written when this is returned.
type MissingPlatformError struct {
	Name  string
	Known []string
}

func (e *MissingPlatformError) Error() string {
	return fmt.Sprintf("no platform %s (known: %s)", e.Name, strings.Join(e.Known, ", "))
}

// Get returns the catalog entry for name.
func Get(name string) (*Params, error) {
	switch name {
	case "qemu-virt":
		return qemuVirt(), nil
	case "realview-pb":
		return realviewPB(), nil
	case "qemu-virt64":
		return qemuVirt64(), nil
	case "raspi3":
		return raspi3(), nil
	default:
		return nil, &MissingPlatformError{Name: name, Known: Names()}
	}
}

// Names lists the catalog in stable order.
func Names() []string {
	return []string{"qemu-virt", "realview-pb", "qemu-virt64", "raspi3"}
}

// List returns every catalog entry, in Names order.
func List() []*Params {
	var platforms []*Params
	for _, name := range Names() {
		p, _ := Get(name)
		platforms = append(platforms, p)
	}
	return platforms
}

// Validate checks the record against the architecture catalog. Catalog
// entries are validated by tests; user supplied records go through here
// before any composition starts.
func (p *Params) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("platform record without a name")
	}
	if _, err := arch.Get(p.Arch); err != nil {
		return fmt.Errorf("platform %s: %v", p.Name, err)
	}
	if p.UARTBase == 0 {
		return fmt.Errorf("platform %s declares no UART", p.Name)
	}
	if p.LoadAddress%4 != 0 {
		return fmt.Errorf("platform %s load address %#x is not instruction aligned", p.Name, p.LoadAddress)
	}
	if p.LoadAddress < p.RAMBase {
		return fmt.Errorf("platform %s loads at %#x, below RAM at %#x", p.Name, p.LoadAddress, p.RAMBase)
	}
	return nil
}

// qemuVirt is the 32-bit qemu virt machine. Firmware is qemu's own
// bootloader, which jumps past the device tree it leaves at RAM base.
func qemuVirt() *Params {
	return &Params{
		Name:        "qemu-virt",
		Arch:        "armv7",
		Description: "qemu virt machine, 32-bit",
		UARTBase:    0x09000000,
		RAMBase:     0x40000000,
		LoadAddress: 0x40010000,
		Machine:     "virt",
		CPU:         "cortex-a15",
	}
}

// realviewPB is the RealView Platform Baseboard, RAM at zero and the image
// at the classic 0x8000 offset.
func realviewPB() *Params {
	return &Params{
		Name:        "realview-pb",
		Arch:        "armv7",
		Description: "RealView Platform Baseboard Cortex-A8",
		UARTBase:    0x10009000,
		RAMBase:     0x0,
		LoadAddress: 0x8000,
		Machine:     "realview-pb-a8",
		CPU:         "cortex-a8",
	}
}

// qemuVirt64 is the 64-bit qemu virt machine.
func qemuVirt64() *Params {
	return &Params{
		Name:        "qemu-virt64",
		Arch:        "armv8",
		Description: "qemu virt machine, 64-bit",
		UARTBase:    0x09000000,
		RAMBase:     0x40000000,
		LoadAddress: 0x40080000,
		Machine:     "virt",
		CPU:         "cortex-a57",
	}
}

// raspi3 is the Raspberry Pi 3B. Firmware reads the image and the named
// device tree from the boot partition.
func raspi3() *Params {
	return &Params{
		Name:        "raspi3",
		Arch:        "armv8",
		Description: "Raspberry Pi 3 Model B",
		UARTBase:    0x3F201000,
		RAMBase:     0x0,
		LoadAddress: 0x80000,
		DTB:         "bcm2710-rpi-3-b.dtb",
		Machine:     "raspi3b",
		CPU:         "cortex-a53",
	}
}
