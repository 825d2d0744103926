package extract

import "regexp"

// RepairPattern is a textual fix applied to a candidate that failed to parse.
type RepairPattern struct {
	Name        string
	Pattern     *regexp.Regexp
	Replacement string
}

// buildRepairPatterns returns the repairs tried on broken candidates. Each
// candidate is repaired at most once.
func buildRepairPatterns() (patterns []RepairPattern) {
	patterns = []RepairPattern{
		{
			// {"a": 1,} and [1, 2,]
			Name:        "trailing-comma",
			Pattern:     regexp.MustCompile(`,(\s*[}\]])`),
			Replacement: "$1",
		},
	}
	return patterns
}

// applyRepairs runs every pattern once over text.
func applyRepairs(text string, patterns []RepairPattern) (fixed string, applied []string) {
	fixed = text
	applied = []string{}

	for _, p := range patterns {
		if p.Pattern.MatchString(fixed) {
			fixed = p.Pattern.ReplaceAllString(fixed, p.Replacement)
			applied = append(applied, p.Name)
		}
	}

	return fixed, applied
}
