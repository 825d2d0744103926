package resume

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// Decode builds a Record from a JSON document. The document must be an
// object carrying a "contact" object; everything else is optional and read
// leniently:
//   - scalars in string slots are stringified
//   - a lone object where a list is expected becomes a one-element list
//   - objects inside string lists collapse to their "name" or "title"
//   - unknown keys are ignored
func Decode(data []byte) (rec Record, err error) {
	if !gjson.ValidBytes(data) {
		err = errors.New("document is not valid JSON")
		return rec, err
	}

	err = CheckShape(data)
	if err != nil {
		return rec, err
	}

	rec = FromJSON(gjson.ParseBytes(data))

	return rec, err
}

// FromJSON reads a Record out of an already parsed document without any
// shape check. Missing fields come back empty.
func FromJSON(doc gjson.Result) (rec Record) {
	c := doc.Get("contact")
	rec.Contact = Contact{
		Name:      str(c.Get("name")),
		Email:     str(c.Get("email")),
		Phone:     str(c.Get("phone")),
		Location:  str(c.Get("location")),
		LinkedIn:  str(c.Get("linkedin")),
		GitHub:    str(c.Get("github")),
		Portfolio: str(c.Get("portfolio")),
	}

	rec.ProfessionalSummary = str(doc.Get("professional_summary"))

	for _, e := range objects(doc.Get("education")) {
		rec.Education = append(rec.Education, Education{
			Degree:             str(e.Get("degree")),
			Institution:        str(e.Get("institution")),
			Location:           str(e.Get("location")),
			Graduation:         str(e.Get("graduation")),
			GPA:                str(e.Get("gpa")),
			RelevantCoursework: strs(e.Get("relevant_coursework")),
			Honors:             strs(e.Get("honors")),
		})
	}

	rec.TechnicalSkills = skillsFrom(doc.Get("technical_skills"))

	for _, e := range objects(doc.Get("experience")) {
		rec.Experience = append(rec.Experience, Experience{
			Title:        str(e.Get("title")),
			Company:      str(e.Get("company")),
			Location:     str(e.Get("location")),
			Duration:     str(e.Get("duration")),
			Achievements: strs(e.Get("achievements")),
		})
	}

	for _, p := range objects(doc.Get("projects")) {
		rec.Projects = append(rec.Projects, Project{
			Title:        str(p.Get("title")),
			Technologies: str(p.Get("technologies")),
			Duration:     str(p.Get("duration")),
			Description:  strs(p.Get("description")),
			GitHub:       str(p.Get("github")),
			Demo:         str(p.Get("demo")),
		})
	}

	rec.Certifications = strs(doc.Get("certifications"))
	rec.Achievements = strs(doc.Get("achievements"))

	rec.Normalize()

	return rec
}

// skillsFrom reads technical_skills. An object maps categories to lists; a
// bare list becomes a single "Skills" category.
func skillsFrom(v gjson.Result) (skills Skills) {
	skills = Skills{}

	switch {
	case v.IsObject():
		v.ForEach(func(key, value gjson.Result) bool {
			skills = append(skills, SkillCategory{Name: key.String(), Skills: strs(value)})
			return true
		})
	case v.IsArray():
		list := strs(v)
		if len(list) > 0 {
			skills = append(skills, SkillCategory{Name: "Skills", Skills: list})
		}
	}

	return skills
}

// str reads a string slot. Lists of scalars are joined with ", ".
func str(v gjson.Result) (s string) {
	switch v.Type {
	case gjson.String, gjson.Number, gjson.True, gjson.False:
		s = strings.TrimSpace(v.String())
	case gjson.JSON:
		if v.IsArray() {
			s = strings.Join(strs(v), ", ")
		}
	case gjson.Null:
	}
	return s
}

// strs reads a list of strings.
func strs(v gjson.Result) (list []string) {
	list = []string{}

	switch {
	case v.IsArray():
		v.ForEach(func(_, item gjson.Result) bool {
			var s string
			if item.IsObject() {
				s = str(item.Get("name"))
				if s == "" {
					s = str(item.Get("title"))
				}
			} else if !item.IsArray() {
				s = str(item)
			}
			if s != "" {
				list = append(list, s)
			}
			return true
		})
	case v.IsObject():
	default:
		if s := str(v); s != "" {
			list = append(list, s)
		}
	}

	return list
}

// objects reads a list of objects. A lone object is a list of one.
func objects(v gjson.Result) (list []gjson.Result) {
	switch {
	case v.IsArray():
		v.ForEach(func(_, item gjson.Result) bool {
			if item.IsObject() {
				list = append(list, item)
			}
			return true
		})
	case v.IsObject():
		list = append(list, v)
	}
	return list
}
