package extract

import (
	"regexp"
	"strings"
)

//nolint:gochecknoglobals // compiled once
var (
	fenceBlock = regexp.MustCompile("(?s)```[A-Za-z0-9_+-]*[ \t]*\r?\n?(.*?)```")
	fenceTag   = regexp.MustCompile(`^[A-Za-z0-9_+-]*[ \t]*$`)
)

// wholeText is the trimmed input as a single candidate.
func wholeText(text string) (candidates []string) {
	candidates = []string{strings.TrimSpace(text)}
	return candidates
}

// fencedBodies returns the body of every fenced code block in order. An
// opening fence with no closing fence yields everything after it.
func fencedBodies(text string) (candidates []string) {
	candidates = []string{}

	for _, m := range fenceBlock.FindAllStringSubmatch(text, -1) {
		if body := strings.TrimSpace(m[1]); body != "" {
			candidates = append(candidates, body)
		}
	}

	if strings.Count(text, "```")%2 == 1 {
		rest := text[strings.LastIndex(text, "```")+3:]
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 && fenceTag.MatchString(strings.TrimRight(rest[:nl], "\r")) {
			rest = rest[nl+1:]
		}
		if body := strings.TrimSpace(rest); body != "" {
			candidates = append(candidates, body)
		}
	}

	return candidates
}

// outermostBraces returns the substring from the first '{' to the last '}'.
func outermostBraces(text string) (candidates []string) {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end <= start {
		return candidates
	}
	candidates = []string{text[start : end+1]}
	return candidates
}

// balancedBlocks returns every top-level balanced {...} block in document
// order. Braces inside JSON strings are not counted.
func balancedBlocks(text string) (candidates []string) {
	candidates = []string{}

	depth := 0
	start := -1
	inString := false
	escaped := false

	for i := 0; i < len(text); i++ {
		c := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 {
					candidates = append(candidates, text[start:i+1])
				}
			}
		}
	}

	return candidates
}
