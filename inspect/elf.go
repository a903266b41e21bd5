package inspect

import (
	"debug/elf"

	"github.com/bootsmith/bootsmith/layout"
)

// File reads the queries inspection needs out of a built ELF.
type File struct {
	f *elf.File
}

// Open opens a built kernel or loader image.
func Open(path string) (*File, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, err
	}
	return &File{f: f}, nil
}

func (f *File) Close() error {
	return f.f.Close()
}

// Symbols returns the defined symbols by name.
func (f *File) Symbols() (map[string]uint64, error) {
	syms, err := f.f.Symbols()
	if err != nil {
		return nil, err
	}

	table := make(map[string]uint64, len(syms))
	for _, s := range syms {
		if s.Name == "" || elf.ST_TYPE(s.Info) == elf.STT_FILE {
			continue
		}
		table[s.Name] = s.Value
	}
	return table, nil
}

// Loads returns the loadable segments.
func (f *File) Loads() ([]Load, error) {
	var loads []Load
	for _, p := range f.f.Progs {
		if p.Type != elf.PT_LOAD || p.Memsz == 0 {
			continue
		}
		loads = append(loads, Load{Vaddr: p.Vaddr, Paddr: p.Paddr, Size: p.Memsz})
	}
	return loads, nil
}

// Sections returns the allocatable input sections with their sizes, the
// inventory the layout resolver consumes.
func (f *File) Sections() layout.Inventory {
	var inv layout.Inventory
	for _, s := range f.f.Sections {
		if s.Flags&elf.SHF_ALLOC == 0 || s.Name == "" {
			continue
		}
		inv = append(inv, layout.Section{Name: s.Name, Size: s.Size})
	}
	return inv
}

// InventoryFromELF measures the allocatable sections of an object or
// executable, feeding the layout command from a previous build.
func InventoryFromELF(path string) (layout.Inventory, error) {
	f, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return f.Sections(), nil
}
