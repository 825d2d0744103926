// Package renderer turns a résumé record into a single page A4 document and
// writes the generated artifacts.
package renderer

import (
	"bytes"
	_ "embed"
	"html/template"
	"strings"

	"github.com/pkg/errors"

	"github.com/nikogura/resume-builder/pkg/resume"
)

// DefaultName heads a résumé whose record has no name.
const DefaultName = "Your Name"

// DefaultAccent is the heading and rule color.
const DefaultAccent = "#1F4E79"

//go:embed template.html
var pageTemplate string

// Limits caps how many items of each list make it onto the page. Records are
// never modified; truncation happens only in the rendered view.
type Limits struct {
	ExperienceBullets int
	Projects          int
	ProjectBullets    int
	Certifications    int
	Achievements      int
	Honors            int
	Coursework        int
}

// DefaultLimits keeps a typical record on one page.
func DefaultLimits() (l Limits) {
	l = Limits{
		ExperienceBullets: 3,
		Projects:          3,
		ProjectBullets:    2,
		Certifications:    3,
		Achievements:      3,
		Honors:            2,
		Coursework:        4,
	}
	return l
}

// HTMLRenderer renders records with the embedded page template.
type HTMLRenderer struct {
	limits Limits
	accent string
	tmpl   *template.Template
}

// NewHTMLRenderer parses the page template. An empty accent selects
// DefaultAccent.
func NewHTMLRenderer(limits Limits, accent string) (r *HTMLRenderer, err error) {
	if accent == "" {
		accent = DefaultAccent
	}

	var tmpl *template.Template
	tmpl, err = template.New("resume").Funcs(template.FuncMap{
		"join": strings.Join,
	}).Parse(pageTemplate)
	if err != nil {
		err = errors.Wrap(err, "failed to parse resume template")
		return r, err
	}

	r = &HTMLRenderer{limits: limits, accent: accent, tmpl: tmpl}

	return r, err
}

// Render returns the HTML page for rec.
func (r *HTMLRenderer) Render(rec resume.Record) (html []byte, err error) {
	var buf bytes.Buffer

	err = r.tmpl.Execute(&buf, buildView(rec, r.limits, r.accent))
	if err != nil {
		err = errors.Wrap(err, "failed to render resume")
		return html, err
	}

	html = buf.Bytes()

	return html, err
}

// RenderHTML renders rec with the default limits and accent.
func RenderHTML(rec resume.Record) (html []byte, err error) {
	var r *HTMLRenderer
	r, err = NewHTMLRenderer(DefaultLimits(), "")
	if err != nil {
		return html, err
	}

	html, err = r.Render(rec)

	return html, err
}
