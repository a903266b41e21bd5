package layout

import "path"

// Section is one measured input section handed to the resolver. Sizes come
// from the compiled objects; the resolver never reads object files itself.
type Section struct {
	Name string `json:"name"`
	Size uint64 `json:"size"`
}

// Inventory is the ordered list of measured input sections.
type Inventory []Section

// PlacedSection records where one input section landed.
type PlacedSection struct {
	Name string
	Phys uint64
	Size uint64
}

// Placed is a region with concrete addresses.
type Placed struct {
	Region

	// Phys is the storage address of the region start.
	Phys uint64

	// Virt is the runtime address: Phys plus the plan's virtual base for
	// mapped regions, Phys itself for identity regions.
	Virt uint64

	// Size includes any SizeAlign padding.
	Size uint64

	// Sections holds the absorbed inputs in placement order.
	Sections []PlacedSection
}

// PhysEnd returns the storage address one past the region.
func (p *Placed) PhysEnd() uint64 {
	return p.Phys + p.Size
}

// VirtEnd returns the runtime address one past the region.
func (p *Placed) VirtEnd() uint64 {
	return p.Virt + p.Size
}

// Layout is a fully resolved plan. There is no partial form: Resolve either
// returns a complete Layout or an error.
type Layout struct {
	Plan     *Plan
	Regions  []Placed
	ImageEnd uint64
}

// Region returns the placed region with the given name, or nil.
func (l *Layout) Region(name string) *Placed {
	for i := range l.Regions {
		if l.Regions[i].Name == name {
			return &l.Regions[i]
		}
	}
	return nil
}

func matchAny(patterns []string, name string) bool {
	for _, pat := range patterns {
		if ok, _ := path.Match(pat, name); ok {
			return true
		}
	}
	return false
}

// Resolve walks the plan's regions in declared order and computes concrete
// storage and runtime addresses for every region and section. It is a pure
// function: the same plan and inventory always produce the same layout.
func Resolve(p *Plan, inv Inventory) (*Layout, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	// Discarded sections vanish before placement so they cannot occupy a
	// zero-length slot anywhere.
	sections := make(Inventory, 0, len(inv))
	for _, s := range inv {
		if !matchAny(p.Discard, s.Name) {
			sections = append(sections, s)
		}
	}
	used := make([]bool, len(sections))

	l := &Layout{Plan: p, Regions: make([]Placed, 0, len(p.Regions))}
	var cursor uint64
	prior := ""
	for _, r := range p.Regions {
		start := alignUp(cursor, r.Alignment)
		if r.Fixed {
			if r.FixedStart < cursor {
				return nil, &OverlapError{
					Region:   r.Name,
					Start:    r.FixedStart,
					Prior:    prior,
					PriorEnd: cursor,
				}
			}
			start = r.FixedStart
		}

		pr := Placed{Region: r, Phys: start}
		off := start
		for _, pat := range r.Contents {
			for i, s := range sections {
				if used[i] {
					continue
				}
				if ok, _ := path.Match(pat, s.Name); !ok {
					continue
				}
				used[i] = true
				pr.Sections = append(pr.Sections, PlacedSection{Name: s.Name, Phys: off, Size: s.Size})
				off += s.Size
			}
		}

		size := off - start
		if r.SizeAlign != 0 {
			size = alignUp(size, r.SizeAlign)
		}
		if r.Limit != 0 && size > r.Limit {
			return nil, &OutOfRangeError{
				Region:  r.Name,
				Section: overflowSection(pr.Sections, start, r.Limit),
				End:     size,
				Limit:   r.Limit,
			}
		}

		pr.Size = size
		pr.Virt = start
		if r.Mode == VirtualMapped {
			pr.Virt += p.VirtualBase
		}
		l.Regions = append(l.Regions, pr)
		cursor = start + size
		prior = r.Name
	}

	var unplaced []string
	for i, s := range sections {
		if !used[i] {
			unplaced = append(unplaced, s.Name)
		}
	}
	if len(unplaced) > 0 {
		return nil, &UnplacedSectionError{Sections: unplaced}
	}

	l.ImageEnd = cursor
	return l, nil
}

// overflowSection names the first section whose end crosses the region
// limit. Padding alone can also cross it, in which case the region itself is
// reported.
func overflowSection(sections []PlacedSection, start, limit uint64) string {
	for _, s := range sections {
		if s.Phys+s.Size-start > limit {
			return s.Name
		}
	}
	return "(alignment padding)"
}
