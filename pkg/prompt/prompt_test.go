package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikogura/resume-builder/pkg/field"
	"github.com/nikogura/resume-builder/pkg/resume"
)

func TestSkeletonIsARecord(t *testing.T) {
	rec, err := resume.Decode([]byte(Skeleton))
	require.NoError(t, err)

	assert.Equal(t, "Full Name", rec.Contact.Name)
	assert.Equal(t, []string{"Programming Languages", "Frameworks & Tools", "Databases & Cloud"}, rec.TechnicalSkills.Names())
	assert.Len(t, rec.Projects, 1)
}

func TestBuild(t *testing.T) {
	input := `Data analyst who said "hello"`
	p := Build(input, field.DataScience, 2026)

	assert.Contains(t, p, `"Data analyst who said \"hello\""`)
	assert.Contains(t, p, "FIELD: data science")
	assert.Contains(t, p, field.DataScience.Hint())
	assert.Contains(t, p, Skeleton)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(p), "Use terminology current for 2026."))
}

func TestBuildGeneral(t *testing.T) {
	p := Build("", field.General, 2025)
	assert.Contains(t, p, "FIELD: technology")
}
