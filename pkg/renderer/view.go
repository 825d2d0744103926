package renderer

import (
	"html/template"
	"strings"

	"github.com/nikogura/resume-builder/pkg/resume"
)

type pageView struct {
	Title          string
	Accent         template.CSS
	Name           string
	Contact        []string
	Links          []string
	Summary        string
	Education      []entryView
	Skills         []skillView
	Experience     []experienceView
	Projects       []entryView
	Certifications []string
	Achievements   []string
}

type entryView struct {
	Header     string
	Subheader  []string
	Honors     []string
	Coursework []string
	Bullets    []string
}

type experienceView struct {
	Header    []string
	Subheader []string
	Bullets   []string
}

type skillView struct {
	Name   string
	Skills []string
}

func buildView(rec resume.Record, l Limits, accent string) (v pageView) {
	c := rec.Contact

	name := strings.TrimSpace(c.Name)
	if name == "" {
		name = DefaultName
	}

	v = pageView{
		Title:          name,
		Accent:         template.CSS(accent),
		Name:           name,
		Contact:        nonEmpty(c.Email, c.Phone, c.Location),
		Links:          nonEmpty(c.LinkedIn, c.GitHub, c.Portfolio),
		Summary:        strings.TrimSpace(rec.ProfessionalSummary),
		Certifications: head(nonEmpty(rec.Certifications...), l.Certifications),
		Achievements:   head(nonEmpty(rec.Achievements...), l.Achievements),
	}

	for _, e := range rec.Education {
		sub := nonEmpty(e.Institution, e.Location, e.Graduation)
		if e.GPA != "" {
			sub = append(sub, "GPA: "+e.GPA)
		}
		v.Education = append(v.Education, entryView{
			Header:     e.Degree,
			Subheader:  sub,
			Honors:     head(nonEmpty(e.Honors...), l.Honors),
			Coursework: head(nonEmpty(e.RelevantCoursework...), l.Coursework),
		})
	}

	for _, s := range rec.TechnicalSkills {
		skills := nonEmpty(s.Skills...)
		if len(skills) == 0 {
			continue
		}
		v.Skills = append(v.Skills, skillView{Name: s.Name, Skills: skills})
	}

	for _, e := range rec.Experience {
		v.Experience = append(v.Experience, experienceView{
			Header:    nonEmpty(e.Title, e.Company),
			Subheader: nonEmpty(e.Location, e.Duration),
			Bullets:   head(nonEmpty(e.Achievements...), l.ExperienceBullets),
		})
	}

	for _, p := range head(rec.Projects, l.Projects) {
		sub := nonEmpty(p.Technologies, p.Duration)
		if p.GitHub != "" {
			sub = append(sub, "GitHub: "+p.GitHub)
		}
		if p.Demo != "" {
			sub = append(sub, "Demo: "+p.Demo)
		}
		v.Projects = append(v.Projects, entryView{
			Header:    p.Title,
			Subheader: sub,
			Bullets:   head(nonEmpty(p.Description...), l.ProjectBullets),
		})
	}

	return v
}

// head returns at most n leading items. A non-positive n means no limit.
func head[E any](items []E, n int) (out []E) {
	out = items
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func nonEmpty(values ...string) (out []string) {
	for _, s := range values {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
