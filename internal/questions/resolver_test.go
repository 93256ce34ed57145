package questions

import (
	"errors"
	"testing"

	"linkedin-applier/internal/profile"
)

func testProfile() *profile.Profile {
	return &profile.Profile{
		FirstName:         "Ada",
		LastName:          "Lovelace",
		PhoneNumber:       "9876543210",
		Email:             "ada@example.com",
		CurrentCity:       "London",
		State:             "Greater London",
		Country:           "United Kingdom",
		Zipcode:           "NW1",
		Gender:            "Female",
		DisabilityStatus:  "No",
		VeteranStatus:     "No",
		Citizenship:       "Yes",
		RequireVisa:       "No",
		YearsOfExperience: "5",
		NoticePeriodDays:  95,
		CurrentCTC:        1500000,
		DesiredSalary:     2000000,
		RecentEmployer:    "Analytical Engines Ltd",
		Summary:           "Engineer.",
		CoverLetter:       "Dear hiring team,",
	}
}

func newTestResolver(cfg Config) *Resolver {
	r := NewResolver(testProfile(), cfg, nil)
	r.randIntN = func(int) int { return 0 }
	return r
}

func TestResolveGenericRadioDefaultsToYes(t *testing.T) {
	r := newTestResolver(Config{})
	q := &Question{
		Label:   "Do you have experience in Python?",
		Kind:    KindRadio,
		Options: []Option{{Display: "Yes"}, {Display: "No"}},
	}

	d, err := r.Resolve(q, JobContext{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Value != "Yes" || d.Source != SourceProfileRule {
		t.Fatalf("expected Yes via profile rule, got %q via %s", d.Value, d.Source)
	}
	if d.MatchedOption != 0 {
		t.Fatalf("expected matched option 0, got %d", d.MatchedOption)
	}
}

func TestResolveCurrentCTCInLakhs(t *testing.T) {
	r := newTestResolver(Config{})
	q := &Question{Label: "Current CTC (in Lakhs)", Kind: KindText}

	d, err := r.Resolve(q, JobContext{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Value != "15.0" {
		t.Fatalf("expected 15.0, got %q", d.Value)
	}
	if d.Source != SourceProfileRule {
		t.Fatalf("expected profile rule source, got %s", d.Source)
	}
}

func TestResolveKeepsPreviousAnswer(t *testing.T) {
	r := newTestResolver(Config{OverwritePrevious: false})
	q := &Question{
		Label:          "Notice period (in days)",
		Kind:           KindText,
		PreviousAnswer: "30",
	}

	d, err := r.Resolve(q, JobContext{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Value != "30" {
		t.Fatalf("expected previous answer 30, got %q", d.Value)
	}
}

func TestResolveContactSelectReconfirmsStoredDefault(t *testing.T) {
	r := newTestResolver(Config{OverwritePrevious: false})
	q := &Question{
		Label:          "Email address",
		Kind:           KindSelect,
		PreviousAnswer: "old@example.com",
		Options: []Option{
			{Display: "Select an option"},
			{Display: "old@example.com"},
			{Display: "ada@example.com"},
		},
	}

	d, err := r.Resolve(q, JobContext{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Value != "ada@example.com" {
		t.Fatalf("expected stored default, got %q", d.Value)
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	r := newTestResolver(Config{})
	q := &Question{Label: "How many years of experience do you have?", Kind: KindText}

	first, err := r.Resolve(q, JobContext{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := r.Resolve(q, JobContext{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Fatalf("resolver not idempotent: %+v vs %+v", first, second)
	}
}

func TestResolveRuleOrderNoticeBeforeSalary(t *testing.T) {
	r := newTestResolver(Config{})
	// Matches both the notice and salary keyword groups; the notice rule is
	// earlier in the table and must win.
	q := &Question{Label: "What is your notice period given your current salary?", Kind: KindText}

	d, err := r.Resolve(q, JobContext{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Value != "95" {
		t.Fatalf("expected notice rule to win with 95, got %q", d.Value)
	}
}

func TestResolveCityFallsBackToWorkLocation(t *testing.T) {
	p := testProfile()
	p.CurrentCity = ""
	r := NewResolver(p, Config{}, nil)
	q := &Question{Label: "In which city are you based?", Kind: KindText}

	d, err := r.Resolve(q, JobContext{WorkLocation: "Berlin, Germany"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Value != "Berlin, Germany" {
		t.Fatalf("expected job work location fallback, got %q", d.Value)
	}
}

func TestResolveUnmatchedTextNeedsAIWhenEnabled(t *testing.T) {
	r := newTestResolver(Config{AIEnabled: true})
	q := &Question{Label: "Describe a project you are proud of", Kind: KindTextarea}

	_, err := r.Resolve(q, JobContext{})
	if !errors.Is(err, ErrNeedsAI) {
		t.Fatalf("expected ErrNeedsAI, got %v", err)
	}
}

func TestResolveUnmatchedTextFallsBackWithoutAI(t *testing.T) {
	r := newTestResolver(Config{AIEnabled: false})

	text := &Question{Label: "Favourite programming paradigm", Kind: KindText}
	d, err := r.Resolve(text, JobContext{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Value != "5" || d.Source != SourceRandomFallback {
		t.Fatalf("expected years-of-experience fallback, got %q via %s", d.Value, d.Source)
	}

	area := &Question{Label: "Anything else to add?", Kind: KindTextarea}
	d, err = r.Resolve(area, JobContext{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Value != "" || d.Source != SourceRandomFallback {
		t.Fatalf("expected empty textarea fallback, got %q via %s", d.Value, d.Source)
	}
}

func TestResolveSelectRandomFallbackSkipsPlaceholder(t *testing.T) {
	r := newTestResolver(Config{})
	q := &Question{
		Label: "Which time zone do you prefer?",
		Kind:  KindSelect,
		Options: []Option{
			{Display: "Select an option"},
			{Display: "UTC-8"},
			{Display: "UTC+1"},
		},
	}

	d, err := r.Resolve(q, JobContext{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Source != SourceRandomFallback {
		t.Fatalf("expected random fallback, got %s", d.Source)
	}
	if d.MatchedOption == 0 {
		t.Fatal("random fallback must not pick the placeholder option")
	}
	if d.Value != q.Options[d.MatchedOption].Display {
		t.Fatalf("decision value %q does not reference the chosen option", d.Value)
	}
}

func TestResolveVeteranRadio(t *testing.T) {
	r := newTestResolver(Config{})
	q := &Question{
		Label:   "Are you a protected veteran?",
		Kind:    KindRadio,
		Options: []Option{{Display: "Yes"}, {Display: "No"}, {Display: "I prefer not to say"}},
	}

	d, err := r.Resolve(q, JobContext{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Value != "No" {
		t.Fatalf("expected veteran status No, got %q", d.Value)
	}
}
