// Package linkedin models jobs discovered on the site and drives the
// application flow for each of them over a browser surface.
package linkedin

import (
	"errors"
	"time"
)

// ErrDailyLimit reports that the site refused further applications for
// today. The orchestrator stops the run when it sees this.
var ErrDailyLimit = errors.New("daily application limit reached")

// Card is one search result listing before it is opened.
type Card struct {
	ID       string
	Title    string
	Company  string
	Location string
}

// JobDetails is progressively enriched while one flow run owns it.
type JobDetails struct {
	ID           string
	Title        string
	Company      string
	WorkLocation string
	WorkStyle    string
	Description  string
	AboutCompany string
	Experience   string
	Skills       []string
	HRName       string
	HRLink       string
	Reposted     bool
	PostedAt     time.Time
	DateApplied  time.Time
	Link         string
	ExternalLink string

	QuestionsFound int
	ConnectRequest string
	Resume         string
}

// Outcome is the terminal result of one job's flow.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeFailed
	OutcomeSkipped
	OutcomeExternal
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailed:
		return "failed"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeExternal:
		return "external"
	default:
		return "unknown"
	}
}

// RunStats accumulates per-run counters. It is owned by the orchestrator's
// single thread of control.
type RunStats struct {
	Success  int
	Failed   int
	Skipped  int
	External int

	// RandomlyAnswered collects question labels that got a fallback answer,
	// for the end-of-run summary.
	RandomlyAnswered []string
}

// FlagRandomlyAnswered records fallback-answered labels, once each. Forms
// re-detect their fields on every step, so the same label can surface
// repeatedly within one application.
func (s *RunStats) FlagRandomlyAnswered(labels ...string) {
	for _, label := range labels {
		seen := false
		for _, have := range s.RandomlyAnswered {
			if have == label {
				seen = true
				break
			}
		}
		if !seen {
			s.RandomlyAnswered = append(s.RandomlyAnswered, label)
		}
	}
}

// Record increments the counter matching the outcome, exactly once per job.
func (s *RunStats) Record(o Outcome) {
	switch o {
	case OutcomeSuccess:
		s.Success++
	case OutcomeFailed:
		s.Failed++
	case OutcomeSkipped:
		s.Skipped++
	case OutcomeExternal:
		s.External++
	}
}

// Applied is the number of jobs that counted toward the processed total.
func (s *RunStats) Applied() int {
	return s.Success + s.External
}

func (s *RunStats) Total() int {
	return s.Success + s.Failed + s.Skipped + s.External
}
