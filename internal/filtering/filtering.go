// Package filtering decides whether a discovered job should be skipped
// before any application work is spent on it.
package filtering

import (
	"fmt"

	"go.uber.org/zap"
)

// Job is the minimal view of a discovered job the filters act on.
type Job struct {
	ID      string
	Title   string
	Company string
}

// Filter represents a single skip check applied to a discovered job.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate() error
	Check(job Job) (skip bool, reason string)
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
}

// DisableByName marks a filter with the provided name as disabled while
// keeping it in the list.
func DisableByName(filters []Filter, name, reason string) {
	for _, f := range filters {
		if f.Name() == name {
			f.Disable(reason)
		}
	}
}

// Run executes the filters sequentially and reports the first one that wants
// the job skipped.
func Run(filters []Filter, job Job, logger *zap.Logger) (bool, string, error) {
	for _, f := range filters {
		if !f.IsEnabled() {
			continue
		}
		if err := f.Validate(); err != nil {
			return false, "", fmt.Errorf("%s: %w", f.Name(), err)
		}
	}

	for _, f := range filters {
		if !f.IsEnabled() {
			if logger != nil {
				logger.Debug("filter disabled", zap.String("name", f.Name()))
			}
			continue
		}

		skip, reason := f.Check(job)
		if !skip {
			continue
		}

		if logger != nil {
			logger.Info("job skipped by filter",
				zap.String("name", f.Name()),
				zap.String("job_id", job.ID),
				zap.String("company", job.Company),
				zap.String("reason", reason),
			)
		}
		return true, reason, nil
	}

	return false, "", nil
}

// Describe returns status entries for the provided filters.
func Describe(filters []Filter) []Status {
	statuses := make([]Status, 0, len(filters))
	for _, f := range filters {
		status := Status{Name: f.Name(), Enabled: f.IsEnabled()}
		if reporter, ok := f.(interface{ Reason() string }); ok {
			status.Reason = reporter.Reason()
		}
		statuses = append(statuses, status)
	}
	return statuses
}
