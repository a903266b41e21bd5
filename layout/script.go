package layout

import (
	"fmt"
	"io"
)

// scriptWriter keeps the first write error and silences the rest, so the
// emitter body stays a straight list of prints.
type scriptWriter struct {
	w   io.Writer
	err error
}

func (sw *scriptWriter) printf(format string, args ...interface{}) {
	if sw.err != nil {
		return
	}
	_, sw.err = fmt.Fprintf(sw.w, format, args...)
}

// WriteScript renders the plan as a GNU ld script. The script restates the
// resolver's arithmetic in linker syntax, so the addresses the linker
// assigns are the addresses Resolve predicts for the same inventory; the
// link map can be checked against a resolved layout after the fact.
func (p *Plan) WriteScript(w io.Writer) error {
	if err := p.Validate(); err != nil {
		return err
	}

	sw := &scriptWriter{w: w}

	sw.printf("/* %s layout, generated. Edits are overwritten on the next build. */\n", p.Arch)
	if p.OutputFormat != "" {
		sw.printf("OUTPUT_FORMAT(%q)\n", p.OutputFormat)
	}
	if p.OutputArch != "" {
		sw.printf("OUTPUT_ARCH(%s)\n", p.OutputArch)
	}
	sw.printf("ENTRY(%s)\n", p.Entry)
	sw.printf("\nSECTIONS\n{\n")

	// Discards come first. The linker hands each input section to the first
	// pattern that matches, and discard patterns overlap region contents
	// (.ARM.exidx.init* against .ARM.exidx.*).
	if len(p.Discard) > 0 {
		sw.printf("\t/DISCARD/ : {\n")
		for _, pat := range p.Discard {
			sw.printf("\t\t*(%s)\n", pat)
		}
		sw.printf("\t}\n\n")
	}

	mapped := false
	for i := range p.Regions {
		r := &p.Regions[i]
		if i > 0 {
			sw.printf("\n")
		}

		// The location counter crosses into the virtual half exactly
		// once, in front of the first mapped region.
		if r.Mode == VirtualMapped && !mapped {
			sw.printf("\t. += %#x;\n\n", p.VirtualBase)
			mapped = true
		}

		if r.Fixed {
			sw.printf("\t. = %#x;\n", r.FixedStart)
		} else if r.Alignment > 1 {
			sw.printf("\t. = ALIGN(%#x);\n", r.Alignment)
		}
		if r.StartSymbol != "" {
			sw.printf("\t%s = .;\n", r.StartSymbol)
		}

		sw.printf("\t.%s :", r.Name)
		if r.Mode == VirtualMapped {
			sw.printf(" AT( ADDR(.%s) - %#x )", r.Name, p.VirtualBase)
		}
		sw.printf(" {\n")
		for _, pat := range r.Contents {
			if r.KeepAll {
				sw.printf("\t\tKEEP( *(%s) )\n", pat)
			} else {
				sw.printf("\t\t*(%s)\n", pat)
			}
		}
		sw.printf("\t}\n")

		if r.SizeAlign > 1 {
			sw.printf("\t. = ALIGN(%#x);\n", r.SizeAlign)
		}
		if r.EndSymbol != "" {
			sw.printf("\t%s = .;\n", r.EndSymbol)
		}
		if r.LenSymbol != "" {
			if r.EndSymbol != "" {
				sw.printf("\t%s = %s - %s;\n", r.LenSymbol, r.EndSymbol, r.StartSymbol)
			} else {
				sw.printf("\t%s = . - %s;\n", r.LenSymbol, r.StartSymbol)
			}
		}
	}

	if p.EndSymbol != "" {
		sw.printf("\n\t%s = .;\n", p.EndSymbol)
	}

	sw.printf("}\n")
	return sw.err
}
