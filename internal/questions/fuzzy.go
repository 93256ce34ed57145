package questions

import "strings"

// possiblePhrases expands a desired answer into the phrases that may appear
// in site option texts. "Decline" style answers map onto the wordings sites
// use for opting out; plain answers get case and punctuation variants.
func possiblePhrases(desired string) []string {
	switch {
	case desired == "Decline":
		return []string{"Decline", "not wish", "don't wish", "Prefer not", "not want"}
	case strings.Contains(strings.ToLower(desired), "yes"):
		return []string{"Yes", "Agree", "I do", "I have"}
	case strings.Contains(strings.ToLower(desired), "no"):
		return []string{"No", "Disagree", "I don't", "I do not"}
	default:
		return []string{desired, strings.ToLower(desired), strings.ToUpper(desired), alnumOnly(desired)}
	}
}

func alnumOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FuzzyMatch finds the option best matching the desired answer. Phrases are
// tried in order and, within each phrase, options in their given order; the
// ordering is a deliberate tie-break. A phrase matches an option when either
// contains the other case-insensitively. Returns the option index, or false
// when nothing matches.
func FuzzyMatch(desired string, options []Option) (int, bool) {
	for _, phrase := range possiblePhrases(desired) {
		if phrase == "" {
			continue
		}
		lowPhrase := strings.ToLower(phrase)
		for i, option := range options {
			lowOption := strings.ToLower(option.Display)
			if strings.Contains(lowOption, lowPhrase) || strings.Contains(lowPhrase, lowOption) {
				return i, true
			}
		}
	}
	return 0, false
}

// MatchOption locates the option for a desired answer: an exact
// case-sensitive display match is preferred, then fuzzy matching.
func MatchOption(desired string, options []Option) (index int, fuzzy bool, ok bool) {
	for i, option := range options {
		if option.Display == desired {
			return i, false, true
		}
	}
	if i, found := FuzzyMatch(desired, options); found {
		return i, true, true
	}
	return 0, false, false
}
