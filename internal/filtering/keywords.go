package filtering

import "strings"

// ContentPolicy screens the about-company text of an opened job. A bad word
// skips the job unless an allow word is also present.
type ContentPolicy struct {
	BadWords   []string
	AllowWords []string
}

// Violation returns the first bad word found in the text, case-insensitively.
// Allow words override: when any allow word is present the text passes.
func (p ContentPolicy) Violation(text string) (string, bool) {
	if len(p.BadWords) == 0 {
		return "", false
	}

	lower := strings.ToLower(text)
	for _, allow := range p.AllowWords {
		if allow = strings.TrimSpace(allow); allow != "" && strings.Contains(lower, strings.ToLower(allow)) {
			return "", false
		}
	}

	for _, bad := range p.BadWords {
		if bad = strings.TrimSpace(bad); bad != "" && strings.Contains(lower, strings.ToLower(bad)) {
			return bad, true
		}
	}

	return "", false
}
