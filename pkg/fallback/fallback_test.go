package fallback

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikogura/resume-builder/pkg/resume"
)

//nolint:gochecknoglobals // test fixture
var fixedNow = time.Date(2025, time.March, 14, 9, 0, 0, 0, time.UTC)

func TestGenerateAtSoftwareStudent(t *testing.T) {
	rec := GenerateAt("CS student with Python skills seeking SWE internship", fixedNow)

	assert.Equal(t, "Cs", rec.Contact.Name)
	assert.Equal(t, "cs@email.com", rec.Contact.Email)
	assert.Equal(t, "linkedin.com/in/cs", rec.Contact.LinkedIn)
	assert.Equal(t, "github.com/cs", rec.Contact.GitHub)
	assert.Equal(t, "www.cs.dev", rec.Contact.Portfolio)
	assert.Equal(t, "(555) 123-4567", rec.Contact.Phone)

	assert.Contains(t, rec.ProfessionalSummary, "software engineering professional")
	require.Len(t, rec.Education, 1)
	assert.Equal(t, "Bachelor of Science in Software Engineering", rec.Education[0].Degree)
	assert.Equal(t, "May 2025", rec.Education[0].Graduation)

	langs, ok := rec.TechnicalSkills.Get("Programming Languages")
	require.True(t, ok)
	assert.Contains(t, langs, "Python")
	assert.Equal(t, []string{"AWS Solutions Architect", "Google Cloud Professional"}, rec.Certifications)

	require.Len(t, rec.Experience, 1)
	assert.Equal(t, "Jun 2024 - Aug 2024", rec.Experience[0].Duration)
	assert.Len(t, rec.Projects, 2)
	assert.Equal(t, "Winner, University Hackathon - Best Technical Innovation (2025)", rec.Achievements[0])
}

func TestGenerateAtBuckets(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		category string
		cert     string
		degree   string
	}{
		{name: "data", input: "Recent grad into data visualization", category: "Databases & Cloud", cert: "Google Data Analytics", degree: "Bachelor of Science in Data Science"},
		{name: "marketing", input: "Social media manager", category: "Digital Marketing", cert: "Google Ads Certified", degree: "Bachelor of Science in Marketing"},
		{name: "general", input: "Nurse with ten years of ward experience", category: "Programming Languages", cert: "AWS Solutions Architect", degree: "Bachelor of Science in Technology"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := GenerateAt(tc.input, fixedNow)
			_, ok := rec.TechnicalSkills.Get(tc.category)
			assert.True(t, ok)
			assert.Contains(t, rec.Certifications, tc.cert)
			assert.Equal(t, tc.degree, rec.Education[0].Degree)
		})
	}
}

func TestGenerateAtDeterministic(t *testing.T) {
	a := GenerateAt("Jane marketing lead", fixedNow)
	b := GenerateAt("Jane marketing lead", fixedNow)
	assert.Equal(t, a, b)

	// Records do not share slices.
	a.Certifications[0] = "changed"
	assert.NotEqual(t, a.Certifications[0], b.Certifications[0])
}

func TestGenerateSatisfiesShape(t *testing.T) {
	for _, input := range []string{"", "   ", "123 numbers first", "Ada data scientist", "!!!"} {
		rec := Generate(input)

		data, err := json.Marshal(rec)
		require.NoError(t, err)
		require.NoError(t, resume.CheckShape(data), input)

		decoded, err := resume.Decode(data)
		require.NoError(t, err)
		assert.Equal(t, rec, decoded)
	}
}

func TestNameFrom(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "CS student", want: "Cs"},
		{input: "jane doe", want: "Jane"},
		{input: "MARÍA engineer", want: "María"},
		{input: "", want: DefaultName},
		{input: "  ", want: DefaultName},
		{input: "3rd year student", want: DefaultName},
		{input: "O'Brien developer", want: DefaultName},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.want, NameFrom(tc.input))
		})
	}
}

func TestDefaultNameContact(t *testing.T) {
	rec := GenerateAt("", fixedNow)
	assert.Equal(t, DefaultName, rec.Contact.Name)
	assert.Equal(t, "alex.johnson@email.com", rec.Contact.Email)
	assert.Equal(t, "github.com/alexjohnson", rec.Contact.GitHub)
}
