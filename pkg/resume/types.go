// Package resume holds the résumé record and the lenient decoding that turns
// loosely structured model output into it.
package resume

// Record is a complete résumé. Every field is optional on input; decoding
// fills absent fields with empty values so consumers never see nil slices.
type Record struct {
	Contact             Contact      `json:"contact"`
	ProfessionalSummary string       `json:"professional_summary"`
	Education           []Education  `json:"education"`
	TechnicalSkills     Skills       `json:"technical_skills"`
	Experience          []Experience `json:"experience"`
	Projects            []Project    `json:"projects"`
	Certifications      []string     `json:"certifications"`
	Achievements        []string     `json:"achievements"`
}

// Contact is the header block.
type Contact struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Location  string `json:"location"`
	LinkedIn  string `json:"linkedin,omitempty"`
	GitHub    string `json:"github,omitempty"`
	Portfolio string `json:"portfolio,omitempty"`
}

// Education is one degree.
type Education struct {
	Degree             string   `json:"degree"`
	Institution        string   `json:"institution"`
	Location           string   `json:"location"`
	Graduation         string   `json:"graduation"`
	GPA                string   `json:"gpa,omitempty"`
	RelevantCoursework []string `json:"relevant_coursework"`
	Honors             []string `json:"honors"`
}

// Experience is one position.
type Experience struct {
	Title        string   `json:"title"`
	Company      string   `json:"company"`
	Location     string   `json:"location"`
	Duration     string   `json:"duration"`
	Achievements []string `json:"achievements"`
}

// Project is one portfolio project.
type Project struct {
	Title        string   `json:"title"`
	Technologies string   `json:"technologies"`
	Duration     string   `json:"duration"`
	Description  []string `json:"description"`
	GitHub       string   `json:"github,omitempty"`
	Demo         string   `json:"demo,omitempty"`
}

// SkillCategory is a named group of skills, e.g. "Programming Languages".
type SkillCategory struct {
	Name   string
	Skills []string
}

// Normalize replaces nil slices with empty ones, recursively.
func (r *Record) Normalize() {
	r.Education = nonNil(r.Education)
	for i := range r.Education {
		r.Education[i].RelevantCoursework = nonNil(r.Education[i].RelevantCoursework)
		r.Education[i].Honors = nonNil(r.Education[i].Honors)
	}

	r.TechnicalSkills = nonNil(r.TechnicalSkills)
	for i := range r.TechnicalSkills {
		r.TechnicalSkills[i].Skills = nonNil(r.TechnicalSkills[i].Skills)
	}

	r.Experience = nonNil(r.Experience)
	for i := range r.Experience {
		r.Experience[i].Achievements = nonNil(r.Experience[i].Achievements)
	}

	r.Projects = nonNil(r.Projects)
	for i := range r.Projects {
		r.Projects[i].Description = nonNil(r.Projects[i].Description)
	}

	r.Certifications = nonNil(r.Certifications)
	r.Achievements = nonNil(r.Achievements)
}

func nonNil[S ~[]E, E any](s S) (out S) {
	out = s
	if out == nil {
		out = S{}
	}
	return out
}
