package export

import (
	"embed"
	"fmt"
	"io"
	"path/filepath"
	"text/template"

	"github.com/Masterminds/sprig"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/vlehtola/tahti"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

type reportData struct {
	Project *tahti.Project
	Stats   Stats
}

// WriteReport renders a textual summary of the project. With templateDir
// empty the embedded report template is used; a directory can override it
// with its own report.tmpl.
func WriteReport(p *tahti.Project, w io.Writer, templateDir string) error {
	funcs := sprig.TxtFuncMap()
	funcs["title"] = cases.Title(language.English).String
	funcs["gmFamily"] = func(name string) string {
		if program := tahti.GMProgramNumber(name); program >= 0 {
			return tahti.GMProgramFamily(program)
		}
		return ""
	}
	var t *template.Template
	var err error
	if templateDir != "" {
		t, err = template.New("report.tmpl").Funcs(funcs).ParseGlob(filepath.Join(templateDir, "*.tmpl"))
	} else {
		t, err = template.New("report.tmpl").Funcs(funcs).ParseFS(templateFS, "templates/*.tmpl")
	}
	if err != nil {
		return fmt.Errorf("parsing the report template failed: %w", err)
	}
	return t.ExecuteTemplate(w, "report.tmpl", reportData{Project: p, Stats: Collect(p)})
}
