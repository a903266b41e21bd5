package compose

import (
	"bytes"
	"fmt"
	"path/filepath"
	"text/template"

	"github.com/spf13/afero"

	"github.com/bootsmith/bootsmith/arch"
	"github.com/bootsmith/bootsmith/platform"
)

// StubData is what a stub template sees. Typed fields replace the textual
// preprocessing per-platform assembly used to go through: a template that
// names a field the record lacks fails the build instead of assembling
// garbage.
type StubData struct {
	Platform *platform.Params
	Arch     *arch.Arch
	Entry    string
}

var stubFuncs = template.FuncMap{
	"hex": func(v uint64) string { return fmt.Sprintf("%#x", v) },
}

// renderStub renders the user supplied stub template for one platform and
// writes the assembly source to out.
func renderStub(fs afero.Fs, tmplPath, out string, data *StubData) error {
	src, err := afero.ReadFile(fs, tmplPath)
	if err != nil {
		return err
	}

	tmpl, err := template.New(filepath.Base(tmplPath)).Funcs(stubFuncs).Option("missingkey=error").Parse(string(src))
	if err != nil {
		return fmt.Errorf("stub template %s: %v", tmplPath, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("stub template %s: %v", tmplPath, err)
	}
	return afero.WriteFile(fs, out, buf.Bytes(), 0644)
}
