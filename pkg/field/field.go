// Package field maps a free-text self description onto one of a small set of
// career buckets. The buckets drive prompt hints and the canned content used
// when no model output is available.
package field

import "strings"

// Bucket is a coarse career field.
type Bucket string

const (
	// SoftwareEngineering covers CS students, developers and engineers.
	SoftwareEngineering Bucket = "software_engineering"
	// DataScience covers analytics, ML and AI.
	DataScience Bucket = "data_science"
	// Marketing covers digital and social media marketing.
	Marketing Bucket = "marketing"
	// General is used when nothing else matches.
	General Bucket = "general"
)

// rule binds a bucket to the substrings that select it.
type rule struct {
	bucket   Bucket
	keywords []string
}

// rules are evaluated in order. The first bucket with a matching keyword wins.
// Matching is substring based, so short keywords like "cs" and "ai" also hit
// inside longer words.
//
//nolint:gochecknoglobals // immutable lookup table
var rules = []rule{
	{
		bucket:   SoftwareEngineering,
		keywords: []string{"cs", "computer science", "software", "programming", "developer", "engineer"},
	},
	{
		bucket:   DataScience,
		keywords: []string{"data", "analytics", "machine learning", "ai"},
	},
	{
		bucket:   Marketing,
		keywords: []string{"marketing", "digital", "social media"},
	},
}

// Classify returns the bucket for text. It never fails.
func Classify(text string) (bucket Bucket) {
	lower := strings.ToLower(text)

	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				bucket = r.bucket
				return bucket
			}
		}
	}

	bucket = General
	return bucket
}

// Keywords returns the keywords that select b, in match order.
func Keywords(b Bucket) (keywords []string) {
	keywords = []string{}
	for _, r := range rules {
		if r.bucket == b {
			keywords = append(keywords, r.keywords...)
			return keywords
		}
	}
	return keywords
}

// Label is the human readable field name used in generated prose.
func (b Bucket) Label() (label string) {
	switch b {
	case SoftwareEngineering:
		label = "software engineering"
	case DataScience:
		label = "data science"
	case Marketing:
		label = "marketing"
	default:
		label = "technology"
	}
	return label
}

// Hint is a one-line steer appended to generation prompts.
func (b Bucket) Hint() (hint string) {
	switch b {
	case SoftwareEngineering:
		hint = "Emphasize programming languages, frameworks, system design and shipped software."
	case DataScience:
		hint = "Emphasize statistics, machine learning tooling, data pipelines and measurable insights."
	case Marketing:
		hint = "Emphasize campaigns, channels, analytics tools and audience growth metrics."
	default:
		hint = "Emphasize transferable technical skills and concrete, quantified results."
	}
	return hint
}

// Valid reports whether b is one of the known buckets.
func (b Bucket) Valid() (ok bool) {
	switch b {
	case SoftwareEngineering, DataScience, Marketing, General:
		ok = true
	}
	return ok
}
