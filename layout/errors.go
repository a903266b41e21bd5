package layout

import (
	"fmt"
	"strings"
)

// OverlapError reports a region whose placement collides with the one laid
// out before it.
type OverlapError struct {
	Region   string
	Start    uint64
	Prior    string
	PriorEnd uint64
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("region %s starts at %#x, inside %s which ends at %#x",
		e.Region, e.Start, e.Prior, e.PriorEnd)
}

// UndersizedPageError reports a page size that is not a power of two.
type UndersizedPageError struct {
	Size uint64
}

func (e *UndersizedPageError) Error() string {
	return fmt.Sprintf("page size %#x is not a power of two", e.Size)
}

// AlignmentError reports a region alignment that is not a power of two.
type AlignmentError struct {
	Region    string
	Alignment uint64
}

func (e *AlignmentError) Error() string {
	return fmt.Sprintf("region %s alignment %#x is not a power of two",
		e.Region, e.Alignment)
}

// OutOfRangeError reports content that lands beyond a bounded region's
// declared range.
type OutOfRangeError struct {
	Region  string
	Section string
	End     uint64
	Limit   uint64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("section %s ends %#x bytes into region %s, beyond its %#x byte bound",
		e.Section, e.End, e.Region, e.Limit)
}

// UnplacedSectionError reports input sections no region pattern absorbed. A
// silently dropped section produces a kernel that fails far from the
// misconfiguration, so resolution refuses to continue.
type UnplacedSectionError struct {
	Sections []string
}

func (e *UnplacedSectionError) Error() string {
	return fmt.Sprintf("no region absorbs input sections: %s",
		strings.Join(e.Sections, ", "))
}
