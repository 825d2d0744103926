// Package fallback builds a complete résumé without any network access. The
// content is canned per career field, personalized only by the name taken
// from the input and the current year.
package fallback

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nikogura/resume-builder/pkg/field"
	"github.com/nikogura/resume-builder/pkg/resume"
)

// DefaultName is used when the input does not start with a plain word.
const DefaultName = "Alex Johnson"

type bucketContent struct {
	skills         resume.Skills
	certifications []string
}

// contentFor returns fresh slices on every call so records never share state.
func contentFor(b field.Bucket) (c bucketContent) {
	switch b {
	case field.DataScience:
		c = bucketContent{
			skills: resume.Skills{
				{Name: "Programming Languages", Skills: []string{"Python", "R", "SQL"}},
				{Name: "Frameworks & Tools", Skills: []string{"TensorFlow", "PyTorch", "Pandas", "Jupyter"}},
				{Name: "Databases & Cloud", Skills: []string{"PostgreSQL", "BigQuery", "AWS", "Spark"}},
			},
			certifications: []string{"Google Data Analytics", "AWS Machine Learning"},
		}
	case field.Marketing:
		c = bucketContent{
			skills: resume.Skills{
				{Name: "Digital Marketing", Skills: []string{"Google Ads", "SEO/SEM", "Content Marketing"}},
				{Name: "Analytics Tools", Skills: []string{"Google Analytics", "Tableau", "HubSpot"}},
				{Name: "Design & Content", Skills: []string{"Adobe Creative Suite", "Canva", "WordPress"}},
			},
			certifications: []string{"Google Ads Certified", "HubSpot Content Marketing"},
		}
	default:
		// Software engineering, and the general bucket.
		c = bucketContent{
			skills: resume.Skills{
				{Name: "Programming Languages", Skills: []string{"Python", "JavaScript", "Java", "TypeScript"}},
				{Name: "Frameworks & Tools", Skills: []string{"React", "Node.js", "Django", "Git", "Docker"}},
				{Name: "Databases & Cloud", Skills: []string{"PostgreSQL", "MongoDB", "AWS", "Redis"}},
			},
			certifications: []string{"AWS Solutions Architect", "Google Cloud Professional"},
		}
	}
	return c
}

// Generate builds the fallback record for input using the current year.
func Generate(input string) (rec resume.Record) {
	rec = GenerateAt(input, time.Now())
	return rec
}

// GenerateAt builds the fallback record as of now. Identical inputs and
// years give identical records.
func GenerateAt(input string, now time.Time) (rec resume.Record) {
	bucket := field.Classify(input)
	content := contentFor(bucket)
	name := NameFrom(input)
	slug := strings.ReplaceAll(strings.ToLower(name), " ", "")
	year := now.Year()
	label := bucket.Label()

	rec = resume.Record{
		Contact: resume.Contact{
			Name:      name,
			Email:     strings.ReplaceAll(strings.ToLower(name), " ", ".") + "@email.com",
			Phone:     "(555) 123-4567",
			Location:  "City, State",
			LinkedIn:  "linkedin.com/in/" + slug,
			GitHub:    "github.com/" + slug,
			Portfolio: "www." + slug + ".dev",
		},
		ProfessionalSummary: fmt.Sprintf("Results-driven %s professional with strong analytical and technical skills. "+
			"Proven ability to develop innovative solutions and deliver high-quality results in fast-paced environments.", label),
		Education: []resume.Education{
			{
				Degree:             "Bachelor of Science in " + cases.Title(language.English).String(label),
				Institution:        "State University",
				Location:           "City, State",
				Graduation:         fmt.Sprintf("May %d", year),
				GPA:                "3.7/4.0",
				RelevantCoursework: []string{"Data Structures", "Algorithms", "Database Systems"},
				Honors:             []string{"Dean's List", "Academic Excellence Award"},
			},
		},
		TechnicalSkills: content.skills,
		Experience: []resume.Experience{
			{
				Title:    "Software Engineering Intern",
				Company:  "Tech Solutions Inc.",
				Location: "Remote",
				Duration: fmt.Sprintf("Jun %d - Aug %d", year-1, year-1),
				Achievements: []string{
					"Developed RESTful APIs using Python and Flask, serving 1000+ daily requests with 99.9% uptime",
					"Implemented automated testing suite reducing bug detection time by 40% and deployment cycle by 25%",
				},
			},
		},
		Projects: []resume.Project{
			{
				Title:        "E-Commerce Analytics Platform",
				Technologies: "Python, Django, React, PostgreSQL, AWS",
				Duration:     fmt.Sprintf("Mar %d - Jul %d", year, year),
				Description: []string{
					"Built full-stack platform processing 10,000+ transactions daily with real-time analytics dashboard",
					"Optimized database queries and caching, reducing page load time by 60% and improving UX",
				},
				GitHub: "github.com/username/ecommerce-analytics",
			},
			{
				Title:        "AI-Powered Chatbot",
				Technologies: "Python, TensorFlow, Flask, MongoDB",
				Duration:     fmt.Sprintf("Jan %d - Mar %d", year, year),
				Description: []string{
					"Developed NLP chatbot achieving 92% intent recognition accuracy using transformer models",
					"Deployed scalable API handling 500+ concurrent users with 200ms average response time",
				},
				GitHub: "github.com/username/ai-chatbot",
			},
		},
		Certifications: content.certifications,
		Achievements: []string{
			fmt.Sprintf("Winner, University Hackathon - Best Technical Innovation (%d)", year),
			"Dean's List for 3 consecutive semesters",
		},
	}

	rec.Normalize()

	return rec
}

// NameFrom returns the first word of input title-cased when it is purely
// alphabetic, DefaultName otherwise.
func NameFrom(input string) (name string) {
	words := strings.Fields(input)
	if len(words) == 0 || !isAlpha(words[0]) {
		name = DefaultName
		return name
	}

	name = cases.Title(language.Und).String(words[0])

	return name
}

func isAlpha(s string) (ok bool) {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return ok
		}
	}
	ok = s != ""
	return ok
}
