// Package prompt builds the instruction sent to completion providers.
package prompt

import (
	"fmt"

	"github.com/nikogura/resume-builder/pkg/field"
)

// Skeleton is the JSON document the model is asked to fill in. It is itself
// a valid record.
const Skeleton = `{
  "contact": {
    "name": "Full Name",
    "email": "name@example.com",
    "phone": "(555) 123-4567",
    "location": "City, State",
    "linkedin": "linkedin.com/in/username",
    "github": "github.com/username",
    "portfolio": "www.portfolio.dev"
  },
  "professional_summary": "Two or three lines on strengths, experience and goals",
  "education": [
    {
      "degree": "Full degree name",
      "institution": "Institution name",
      "location": "City, State",
      "graduation": "Month Year",
      "gpa": "3.X/4.0, omit below 3.5",
      "relevant_coursework": ["Course 1", "Course 2", "Course 3"],
      "honors": ["Honor 1"]
    }
  ],
  "technical_skills": {
    "Programming Languages": ["Language 1", "Language 2"],
    "Frameworks & Tools": ["Framework 1", "Tool 1"],
    "Databases & Cloud": ["Database 1", "Cloud 1"]
  },
  "experience": [
    {
      "title": "Role",
      "company": "Company",
      "location": "City, State",
      "duration": "Month Year - Month Year",
      "achievements": ["Quantified achievement", "Technical result"]
    }
  ],
  "projects": [
    {
      "title": "Project name",
      "technologies": "Comma separated stack",
      "duration": "Month Year - Month Year",
      "description": ["Built X achieving Y", "Improved Z by N%"],
      "github": "github.com/username/project",
      "demo": "demo.example.com"
    }
  ],
  "certifications": ["Certification (Issuer, Year)"],
  "achievements": ["Achievement with impact"]
}`

// Build returns the generation prompt for a free-text self description.
func Build(input string, bucket field.Bucket, year int) (prompt string) {
	prompt = fmt.Sprintf(`You are an expert resume writer and career counselor. Write a complete, ATS friendly, one page resume for the person described here: %q

INSTRUCTIONS:
1. Infer career level, field and goals from the description
2. Write realistic achievements with numbers
3. Include 2-3 projects with at most 2 bullets each
4. Include 1-2 experience entries with 2-3 bullets each
5. Group skills into 3-4 categories
6. List 2-3 certifications and 2-3 achievements
7. Keep the summary to 2-3 lines and every bullet to 1-2 lines

FIELD: %s
%s

Respond with ONLY a JSON object in exactly this structure (no markdown, no commentary):

%s

Use terminology current for %d.
`, input, bucket.Label(), bucket.Hint(), Skeleton, year)

	return prompt
}
