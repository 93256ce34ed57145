package linkedin

import (
	"testing"
	"time"
)

func TestParsePostedAgo(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		text     string
		want     time.Time
		reposted bool
		ok       bool
	}{
		{"3 weeks ago", now.AddDate(0, 0, -21), false, true},
		{"Reposted 2 days ago", now.AddDate(0, 0, -2), true, true},
		{"1 hour ago", now.Add(-time.Hour), false, true},
		{"5 months ago", now.AddDate(0, -5, 0), false, true},
		{"Promoted", time.Time{}, false, false},
	}

	for _, tc := range cases {
		got, reposted, ok := ParsePostedAgo(tc.text, now)
		if ok != tc.ok || reposted != tc.reposted {
			t.Fatalf("%q: ok=%v reposted=%v", tc.text, ok, reposted)
		}
		if ok && !got.Equal(tc.want) {
			t.Fatalf("%q: got %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestExtractExperience(t *testing.T) {
	cases := []struct {
		description string
		want        string
	}{
		{"We need 5+ years of Go experience", "5"},
		{"3-5 years working with distributed systems", "3"},
		{"2 to 4 years in backend roles", "2"},
		{"Fresh graduates welcome", ""},
	}

	for _, tc := range cases {
		if got := ExtractExperience(tc.description); got != tc.want {
			t.Fatalf("%q: got %q, want %q", tc.description, got, tc.want)
		}
	}
}

func TestSplitWorkLocation(t *testing.T) {
	location, style := SplitWorkLocation("Berlin, Germany (Remote)")
	if location != "Berlin, Germany" || style != "Remote" {
		t.Fatalf("got %q %q", location, style)
	}

	location, style = SplitWorkLocation("Pune, Maharashtra, India")
	if location != "Pune, Maharashtra, India" || style != "" {
		t.Fatalf("got %q %q", location, style)
	}
}
