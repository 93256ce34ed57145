package filtering

import "fmt"

type blacklistFilter struct {
	memory   *Memory
	disabled bool
	reason   string
}

// NewBlacklistedCompany creates a filter that skips jobs from companies the
// run has blacklisted.
func NewBlacklistedCompany(memory *Memory) Filter {
	return &blacklistFilter{memory: memory}
}

func (f *blacklistFilter) Name() string { return "blacklisted_company" }

func (f *blacklistFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *blacklistFilter) IsEnabled() bool { return !f.disabled }

func (f *blacklistFilter) Reason() string { return f.reason }

func (f *blacklistFilter) Validate() error {
	if f.memory == nil {
		return fmt.Errorf("memory is required")
	}
	return nil
}

func (f *blacklistFilter) Check(job Job) (bool, string) {
	if f.memory.IsBlacklisted(job.Company) {
		return true, fmt.Sprintf("company %q is blacklisted", job.Company)
	}
	return false, ""
}

type rejectedFilter struct {
	memory   *Memory
	disabled bool
	reason   string
}

// NewRejectedJob creates a filter that skips job ids rejected earlier in the
// run.
func NewRejectedJob(memory *Memory) Filter {
	return &rejectedFilter{memory: memory}
}

func (f *rejectedFilter) Name() string { return "rejected_job" }

func (f *rejectedFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *rejectedFilter) IsEnabled() bool { return !f.disabled }

func (f *rejectedFilter) Reason() string { return f.reason }

func (f *rejectedFilter) Validate() error {
	if f.memory == nil {
		return fmt.Errorf("memory is required")
	}
	return nil
}

func (f *rejectedFilter) Check(job Job) (bool, string) {
	if f.memory.IsRejected(job.ID) {
		return true, "job was rejected earlier in this run"
	}
	return false, ""
}

type appliedFilter struct {
	memory   *Memory
	disabled bool
	reason   string
}

// NewAlreadyApplied creates a filter that skips jobs found in the
// application history.
func NewAlreadyApplied(memory *Memory) Filter {
	return &appliedFilter{memory: memory}
}

func (f *appliedFilter) Name() string { return "already_applied" }

func (f *appliedFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *appliedFilter) IsEnabled() bool { return !f.disabled }

func (f *appliedFilter) Reason() string { return f.reason }

func (f *appliedFilter) Validate() error {
	if f.memory == nil {
		return fmt.Errorf("memory is required")
	}
	return nil
}

func (f *appliedFilter) Check(job Job) (bool, string) {
	if f.memory.IsApplied(job.ID) {
		return true, "already applied to this job"
	}
	return false, ""
}
