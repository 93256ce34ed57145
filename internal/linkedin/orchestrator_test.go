package linkedin

import (
	"context"
	"testing"
	"time"

	"linkedin-applier/internal/filtering"
	"linkedin-applier/internal/forms"
	"linkedin-applier/internal/questions"
)

func newTestOrchestrator(t *testing.T, surface *fakeSurface, cfg OrchestratorConfig) *Orchestrator {
	t.Helper()

	memory := filtering.NewMemory(nil)
	flow, _ := newTestFlow(t, surface, memory, nil, FlowConfig{})
	o := NewOrchestrator(surface, flow, cfg, nil)
	o.shuffle = func([]string) {}
	return o
}

func easyApplySurface(pages ...[]Card) *fakeSurface {
	return &fakeSurface{
		easyApply:     true,
		page:          &fakeFormPage{fields: []forms.Field{{Question: &questions.Question{Label: "Mobile phone number", Kind: questions.KindText}}}},
		stepsToSubmit: 0,
		listingPages:  pages,
	}
}

func TestOrchestratorSinglePass(t *testing.T) {
	surface := easyApplySurface(
		[]Card{{ID: "1", Company: "A"}, {ID: "2", Company: "B"}},
		[]Card{{ID: "3", Company: "C"}},
	)
	o := newTestOrchestrator(t, surface, OrchestratorConfig{
		SearchTerms: []string{"golang developer"},
	})

	stats := o.Run(context.Background())

	if stats.Success != 3 || stats.Total() != 3 {
		t.Fatalf("expected three successes across two pages, got %+v", stats)
	}
	if len(surface.searches) != 1 {
		t.Fatalf("one-shot mode must run a single pass, searches: %v", surface.searches)
	}
}

func TestOrchestratorPerTermCap(t *testing.T) {
	surface := easyApplySurface(
		[]Card{{ID: "1", Company: "A"}, {ID: "2", Company: "B"}, {ID: "3", Company: "C"}},
	)
	o := newTestOrchestrator(t, surface, OrchestratorConfig{
		SearchTerms: []string{"golang developer"},
		PerTermCap:  2,
	})

	stats := o.Run(context.Background())

	if stats.Success != 2 {
		t.Fatalf("expected the cap to stop at two, got %+v", stats)
	}
}

func TestOrchestratorStopsOnCancel(t *testing.T) {
	surface := easyApplySurface([]Card{{ID: "1", Company: "A"}, {ID: "2", Company: "B"}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o := newTestOrchestrator(t, surface, OrchestratorConfig{
		SearchTerms: []string{"golang developer"},
	})
	stats := o.Run(ctx)

	if stats.Total() != 0 {
		t.Fatalf("cancelled run must not process jobs, got %+v", stats)
	}
}

func TestOrchestratorStopsOnDailyLimit(t *testing.T) {
	surface := easyApplySurface([]Card{{ID: "1", Company: "A"}, {ID: "2", Company: "B"}})
	surface.startErr = ErrDailyLimit

	o := newTestOrchestrator(t, surface, OrchestratorConfig{
		SearchTerms: []string{"golang developer", "backend engineer"},
	})
	stats := o.Run(context.Background())

	// The first job hits the limit and the run stops before the second job
	// and the second term.
	if len(surface.opened) != 1 {
		t.Fatalf("expected run to stop after the first job, opened: %v", surface.opened)
	}
	if len(surface.searches) != 1 {
		t.Fatalf("expected no further terms, searches: %v", surface.searches)
	}
	if stats.Skipped != 1 || stats.Total() != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestOrchestratorRotatesDatePostedAndSort(t *testing.T) {
	surface := easyApplySurface() // no listings, passes are instant
	ctx, cancel := context.WithCancel(context.Background())
	surface.onSearch = func() {
		if len(surface.searches) == 3 {
			cancel()
		}
	}

	o := newTestOrchestrator(t, surface, OrchestratorConfig{
		SearchTerms:      []string{"golang developer"},
		Continuous:       true,
		RotateDatePosted: true,
		CycleInterval:    time.Millisecond,
	})
	o.Run(ctx)

	if len(surface.searchFilters) < 3 {
		t.Fatalf("expected at least three cycles, got %d", len(surface.searchFilters))
	}

	want := []struct{ date, sort string }{
		{"Any time", "Most recent"},
		{"Past month", "Most relevant"},
		{"Past week", "Most recent"},
	}
	for i, w := range want {
		got := surface.searchFilters[i]
		if got.DatePosted != w.date || got.SortBy != w.sort {
			t.Fatalf("cycle %d: got %q/%q, want %q/%q", i+1, got.DatePosted, got.SortBy, w.date, w.sort)
		}
	}
}

func TestOrchestratorStopAtPast24hStays(t *testing.T) {
	surface := easyApplySurface()
	ctx, cancel := context.WithCancel(context.Background())
	surface.onSearch = func() {
		if len(surface.searches) == 6 {
			cancel()
		}
	}

	o := newTestOrchestrator(t, surface, OrchestratorConfig{
		SearchTerms:      []string{"golang developer"},
		Continuous:       true,
		RotateDatePosted: true,
		StopAtPast24h:    true,
		CycleInterval:    time.Millisecond,
	})
	o.Run(ctx)

	if len(surface.searchFilters) < 5 {
		t.Fatalf("expected at least five cycles, got %d", len(surface.searchFilters))
	}
	if surface.searchFilters[3].DatePosted != "Past 24 hours" {
		t.Fatalf("cycle 4 should reach Past 24 hours, got %q", surface.searchFilters[3].DatePosted)
	}
	if surface.searchFilters[4].DatePosted != "Past 24 hours" {
		t.Fatalf("date filter must stay at Past 24 hours, got %q", surface.searchFilters[4].DatePosted)
	}
}
