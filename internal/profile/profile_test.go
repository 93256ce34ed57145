package profile

import "testing"

func TestSalaryConversionsAreExact(t *testing.T) {
	p := &Profile{CurrentCTC: 1234567, DesiredSalary: 1500000}

	if got := p.CurrentCTCLakhs(); got != "12.35" {
		t.Fatalf("expected 12.35 lakhs, got %q", got)
	}
	if got := p.CurrentCTCMonthly(); got != "102880.58" {
		t.Fatalf("expected 102880.58 monthly, got %q", got)
	}
	if got := p.DesiredSalaryLakhs(); got != "15.0" {
		t.Fatalf("expected 15.0 lakhs, got %q", got)
	}
	if got := p.DesiredSalaryMonthly(); got != "125000.0" {
		t.Fatalf("expected 125000.0 monthly, got %q", got)
	}
}

func TestNoticePeriodConversions(t *testing.T) {
	p := &Profile{NoticePeriodDays: 95}

	if got := p.NoticePeriodMonths(); got != "3" {
		t.Fatalf("expected 3 months, got %q", got)
	}
	if got := p.NoticePeriodWeeks(); got != "13" {
		t.Fatalf("expected 13 weeks, got %q", got)
	}
	if got := p.NoticePeriod(); got != "95" {
		t.Fatalf("expected 95 days, got %q", got)
	}
}

func TestFullName(t *testing.T) {
	p := &Profile{FirstName: "Ada", LastName: "Lovelace"}
	if got := p.FullName(); got != "Ada Lovelace" {
		t.Fatalf("unexpected full name: %q", got)
	}

	p.MiddleName = "King"
	if got := p.FullName(); got != "Ada King Lovelace" {
		t.Fatalf("unexpected full name with middle: %q", got)
	}
}

func TestNormalizeTrimsNames(t *testing.T) {
	p := &Profile{FirstName: " Ada ", LastName: "Lovelace\n", CurrentCity: " London "}
	p.Normalize()

	if p.FirstName != "Ada" || p.LastName != "Lovelace" || p.CurrentCity != "London" {
		t.Fatalf("normalize did not trim fields: %+v", p)
	}
}
