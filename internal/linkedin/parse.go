package linkedin

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	postedAgoRe  = regexp.MustCompile(`(\d+)\s+(second|minute|hour|day|week|month|year)s?\s+ago`)
	experienceRe = regexp.MustCompile(`(\d+)[-to ]*\d*\+?\s*[Yy]ears?`)
)

// ParsePostedAgo converts a "3 weeks ago" style string into an absolute
// time. A "Reposted" prefix is reported separately.
func ParsePostedAgo(text string, now time.Time) (posted time.Time, reposted bool, ok bool) {
	text = strings.TrimSpace(text)
	reposted = strings.Contains(strings.ToLower(text), "reposted")

	m := postedAgoRe.FindStringSubmatch(strings.ToLower(text))
	if m == nil {
		return time.Time{}, reposted, false
	}

	n, err := strconv.Atoi(m[1])
	if err != nil {
		return time.Time{}, reposted, false
	}

	switch m[2] {
	case "second":
		posted = now.Add(-time.Duration(n) * time.Second)
	case "minute":
		posted = now.Add(-time.Duration(n) * time.Minute)
	case "hour":
		posted = now.Add(-time.Duration(n) * time.Hour)
	case "day":
		posted = now.AddDate(0, 0, -n)
	case "week":
		posted = now.AddDate(0, 0, -7*n)
	case "month":
		posted = now.AddDate(0, -n, 0)
	case "year":
		posted = now.AddDate(-n, 0, 0)
	default:
		return time.Time{}, reposted, false
	}

	return posted, reposted, true
}

// ExtractExperience pulls the first "N years" style requirement out of a job
// description. Returns an empty string when none is stated.
func ExtractExperience(description string) string {
	m := experienceRe.FindStringSubmatch(description)
	if m == nil {
		return ""
	}
	return m[1]
}

// SplitWorkLocation separates a "City, Country (Remote)" location into the
// location proper and the work style.
func SplitWorkLocation(raw string) (location, style string) {
	raw = strings.TrimSpace(raw)
	for _, s := range []string{"Remote", "Hybrid", "On-site"} {
		marker := "(" + s + ")"
		if strings.Contains(raw, marker) {
			return strings.TrimSpace(strings.ReplaceAll(raw, marker, "")), s
		}
	}
	return raw, ""
}
