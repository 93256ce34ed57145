package filtering

import "testing"

func TestRunSkipsBlacklistedCompany(t *testing.T) {
	memory := NewMemory(nil)
	memory.MarkBlacklisted("Shady Corp")

	filters := []Filter{
		NewBlacklistedCompany(memory),
		NewRejectedJob(memory),
		NewAlreadyApplied(memory),
	}

	skip, reason, err := Run(filters, Job{ID: "1", Company: "shady corp"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !skip {
		t.Fatal("expected job to be skipped")
	}
	if reason == "" {
		t.Fatal("expected a skip reason")
	}
}

func TestRunPassesCleanJob(t *testing.T) {
	memory := NewMemory([]string{"42"})
	filters := []Filter{
		NewBlacklistedCompany(memory),
		NewRejectedJob(memory),
		NewAlreadyApplied(memory),
	}

	skip, _, err := Run(filters, Job{ID: "7", Company: "Fine Inc"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if skip {
		t.Fatal("expected job to pass all filters")
	}
}

func TestRunSkipsAppliedFromSeededHistory(t *testing.T) {
	memory := NewMemory([]string{"42"})
	filters := []Filter{NewAlreadyApplied(memory)}

	skip, _, err := Run(filters, Job{ID: "42"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !skip {
		t.Fatal("expected seeded applied id to be skipped")
	}
}

func TestDisableByName(t *testing.T) {
	memory := NewMemory(nil)
	memory.MarkRejected("9")

	filters := []Filter{NewRejectedJob(memory)}
	DisableByName(filters, "rejected_job", "force flag is set")

	skip, _, err := Run(filters, Job{ID: "9"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if skip {
		t.Fatal("disabled filter must not skip")
	}

	statuses := Describe(filters)
	if len(statuses) != 1 || statuses[0].Enabled {
		t.Fatalf("expected disabled status, got %+v", statuses)
	}
	if statuses[0].Reason != "force flag is set" {
		t.Fatalf("expected disable reason, got %q", statuses[0].Reason)
	}
}

func TestContentPolicyViolation(t *testing.T) {
	policy := ContentPolicy{
		BadWords:   []string{"crypto", "gambling"},
		AllowWords: []string{"blockchain research"},
	}

	word, bad := policy.Violation("We are a fast moving CRYPTO exchange")
	if !bad || word != "crypto" {
		t.Fatalf("expected crypto violation, got %q %v", word, bad)
	}

	if _, bad := policy.Violation("Blockchain research lab working on crypto primitives"); bad {
		t.Fatal("allow word must override bad word")
	}

	if _, bad := policy.Violation("A normal company"); bad {
		t.Fatal("clean text must pass")
	}
}
