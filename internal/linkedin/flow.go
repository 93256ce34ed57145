package linkedin

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"linkedin-applier/internal/ai"
	"linkedin-applier/internal/browser"
	"linkedin-applier/internal/filtering"
	"linkedin-applier/internal/forms"
	"linkedin-applier/internal/history"
	"linkedin-applier/internal/pacing"
	"linkedin-applier/internal/questions"
)

// maxFormSteps is the loop guard: an Easy Apply form that needs this many
// consecutive steps without reaching a submit control is stuck.
const maxFormSteps = 15

// Prompter blocks for user confirmation. Confirm returns false when the
// user declines.
type Prompter interface {
	Confirm(label string) bool
}

// FlowConfig is the immutable per-run configuration of the flow.
type FlowConfig struct {
	ResumePath         string
	PauseBeforeSubmit  bool
	ManualIntervention bool
	FollowCompanies    bool
	ExtractSkills      bool
	ScreenshotDir      string
	Speed              int
}

// Flow drives one job from discovery to a recorded outcome. It owns the
// browser surface exclusively while Run executes.
type Flow struct {
	surface  Surface
	handler  *forms.Handler
	filters  []filtering.Filter
	memory   *filtering.Memory
	policy   filtering.ContentPolicy
	gateway  ai.Gateway
	log      *history.Log
	pacer    *pacing.Pacer
	prompter Prompter
	cfg      FlowConfig
	logger   *zap.Logger

	now func() time.Time
}

type FlowDeps struct {
	Surface  Surface
	Handler  *forms.Handler
	Filters  []filtering.Filter
	Memory   *filtering.Memory
	Policy   filtering.ContentPolicy
	Gateway  ai.Gateway
	History  *history.Log
	Pacer    *pacing.Pacer
	Prompter Prompter
	Logger   *zap.Logger
}

func NewFlow(deps FlowDeps, cfg FlowConfig) *Flow {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Flow{
		surface:  deps.Surface,
		handler:  deps.Handler,
		filters:  deps.Filters,
		memory:   deps.Memory,
		policy:   deps.Policy,
		gateway:  deps.Gateway,
		log:      deps.History,
		pacer:    deps.Pacer,
		prompter: deps.Prompter,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// Run takes one discovered card to a terminal outcome and records it exactly
// once. The returned error is non-nil only for run-stopping conditions
// (daily limit); per-job failures are absorbed into the outcome.
func (f *Flow) Run(ctx context.Context, card Card, stats *RunStats) (Outcome, error) {
	logger := f.logger.With(zap.String("job_id", card.ID), zap.String("company", card.Company))

	skip, reason, err := filtering.Run(f.filters, filtering.Job{ID: card.ID, Title: card.Title, Company: card.Company}, f.logger)
	if err != nil {
		return f.skip(stats, logger, fmt.Sprintf("filter error: %v", err)), nil
	}
	if skip {
		return f.skip(stats, logger, reason), nil
	}

	details, err := f.surface.OpenListing(ctx, card)
	if err != nil {
		return f.skip(stats, logger, fmt.Sprintf("listing did not open: %v", err)), nil
	}

	if blacklisted := f.enrich(ctx, details, logger); blacklisted {
		stats.Record(OutcomeSkipped)
		return OutcomeSkipped, nil
	}

	easyApply, err := f.surface.HasEasyApply(ctx)
	if err != nil {
		return f.skip(stats, logger, fmt.Sprintf("apply affordance unreadable: %v", err)), nil
	}

	if !easyApply {
		return f.applyExternal(ctx, details, stats, logger), nil
	}
	return f.applyEasy(ctx, details, stats, logger)
}

func (f *Flow) skip(stats *RunStats, logger *zap.Logger, reason string) Outcome {
	logger.Info("job skipped", zap.String("reason", reason))
	stats.Record(OutcomeSkipped)
	return OutcomeSkipped
}

// enrich scrapes the job page into details and applies the content policy.
// A policy violation blacklists the company and rejects the job.
func (f *Flow) enrich(ctx context.Context, details *JobDetails, logger *zap.Logger) bool {
	about, err := f.surface.AboutCompany(ctx)
	if err != nil && !errors.Is(err, browser.ErrNotFound) {
		logger.Debug("about company unreadable", zap.Error(err))
	}
	details.AboutCompany = about

	if word, bad := f.policy.Violation(about); bad {
		f.memory.MarkBlacklisted(details.Company)
		f.memory.MarkRejected(details.ID)
		logger.Info("blacklisted content",
			zap.String("word", word),
			zap.String("company", details.Company),
		)
		return true
	}

	if description, err := f.surface.Description(ctx); err == nil {
		details.Description = description
		details.Experience = ExtractExperience(description)
	} else {
		logger.Debug("description unreadable", zap.Error(err))
	}

	if name, link, err := f.surface.HRInfo(ctx); err == nil {
		details.HRName = name
		details.HRLink = link
	}

	if ago, err := f.surface.PostedAgo(ctx); err == nil {
		if posted, reposted, ok := ParsePostedAgo(ago, f.now()); ok {
			details.PostedAt = posted
			details.Reposted = reposted
		}
	}

	if f.gateway != nil && f.cfg.ExtractSkills && details.Description != "" {
		if report, err := f.gateway.ExtractSkills(ctx, details.Description); err == nil {
			details.Skills = report.All()
		} else {
			logger.Warn("skill extraction failed", zap.Error(err))
		}
	}

	return false
}

// applyExternal records the job as externally handled: the link is collected
// and the job counts toward the processed total, but no form is touched.
func (f *Flow) applyExternal(ctx context.Context, details *JobDetails, stats *RunStats, logger *zap.Logger) Outcome {
	link, err := f.surface.ExternalApplyLink(ctx)
	if err != nil {
		logger.Warn("external apply link not collected", zap.Error(err))
	}
	details.ExternalLink = link

	f.memory.MarkApplied(details.ID)
	f.record(details, logger)
	stats.Record(OutcomeExternal)
	logger.Info("external application recorded", zap.String("link", link))
	return OutcomeExternal
}

func (f *Flow) applyEasy(ctx context.Context, details *JobDetails, stats *RunStats, logger *zap.Logger) (Outcome, error) {
	if err := f.surface.StartEasyApply(ctx); err != nil {
		if errors.Is(err, ErrDailyLimit) {
			stats.Record(OutcomeSkipped)
			return OutcomeSkipped, ErrDailyLimit
		}
		return f.fail(stats, details, logger, "easy apply did not start", err), nil
	}

	jc := questions.JobContext{
		WorkLocation: details.WorkLocation,
		Description:  details.Description,
		AboutCompany: details.AboutCompany,
	}

	uploaded := false
	guardResetUsed := false
	for step := 1; ; step++ {
		if step >= maxFormSteps {
			if f.cfg.ManualIntervention && !guardResetUsed && f.intervene(ctx, details, logger) {
				guardResetUsed = true
				step = 0
				continue
			}
			return f.fail(stats, details, logger, "form loop guard tripped", nil), nil
		}

		if err := f.pacer.Buffer(ctx, f.cfg.Speed); err != nil {
			return f.fail(stats, details, logger, "interrupted", err), nil
		}

		result, err := f.handler.Process(ctx, f.surface.FormPage(), jc)
		switch {
		case errors.Is(err, forms.ErrNoQuestions):
			// Navigational step (upload, review). Nothing to fill.
		case err != nil:
			return f.fail(stats, details, logger, "form structure not understood", err), nil
		default:
			details.QuestionsFound += result.Answered + result.Failed
			stats.FlagRandomlyAnswered(result.RandomlyAnswered...)
		}

		if !uploaded && f.cfg.ResumePath != "" {
			switch err := f.surface.UploadResume(ctx, f.cfg.ResumePath); {
			case err == nil:
				uploaded = true
				details.Resume = filepath.Base(f.cfg.ResumePath)
			case errors.Is(err, browser.ErrNotFound):
				// No upload control on this step. Try again on the next one.
			default:
				logger.Warn("resume upload failed", zap.Error(err))
				uploaded = true
			}
		}

		ready, err := f.surface.SubmitReady(ctx)
		if err != nil {
			return f.fail(stats, details, logger, "submit control unreadable", err), nil
		}
		if ready {
			break
		}

		if err := f.surface.Advance(ctx); err != nil {
			if errors.Is(err, browser.ErrNotFound) {
				return f.fail(stats, details, logger, "no submit or advance control", err), nil
			}
			return f.fail(stats, details, logger, "could not advance form", err), nil
		}
	}

	return f.submit(ctx, details, stats, logger), nil
}

// intervene pauses for the user to untangle the form by hand. Returns true
// when the user confirmed and the loop may reset its guard once.
func (f *Flow) intervene(ctx context.Context, details *JobDetails, logger *zap.Logger) bool {
	shot := ""
	if f.cfg.ScreenshotDir != "" {
		shot = filepath.Join(f.cfg.ScreenshotDir, fmt.Sprintf("stuck_%s_%d.png", details.ID, f.now().Unix()))
		if err := f.surface.Screenshot(ctx, shot); err != nil {
			logger.Warn("diagnostic screenshot failed", zap.Error(err))
			shot = ""
		}
	}

	logger.Warn("form stuck, waiting for manual intervention",
		zap.String("screenshot", shot),
	)
	if f.prompter == nil {
		return false
	}
	return f.prompter.Confirm("Form is stuck. Fix it in the browser, then continue")
}

func (f *Flow) submit(ctx context.Context, details *JobDetails, stats *RunStats, logger *zap.Logger) Outcome {
	if err := f.surface.SetFollowCompany(ctx, f.cfg.FollowCompanies); err == nil {
		details.ConnectRequest = followLabel(f.cfg.FollowCompanies)
	} else if !errors.Is(err, browser.ErrNotFound) {
		logger.Debug("follow company toggle failed", zap.Error(err))
	}

	if f.cfg.PauseBeforeSubmit && f.prompter != nil {
		if !f.prompter.Confirm(fmt.Sprintf("Submit application to %s", details.Company)) {
			return f.fail(stats, details, logger, "submission declined", nil)
		}
	}

	if err := f.surface.Submit(ctx); err != nil {
		return f.fail(stats, details, logger, "submit click failed", err)
	}

	if err := f.surface.DismissConfirmation(ctx); err != nil {
		logger.Debug("post-submit dialog not dismissed", zap.Error(err))
	}

	f.memory.MarkApplied(details.ID)
	details.DateApplied = f.now()
	f.record(details, logger)
	stats.Record(OutcomeSuccess)
	logger.Info("application submitted", zap.Int("questions", details.QuestionsFound))
	return OutcomeSuccess
}

// fail discards the in-progress modal, appends a failure record, and counts
// the job exactly once.
func (f *Flow) fail(stats *RunStats, details *JobDetails, logger *zap.Logger, reason string, cause error) Outcome {
	logger.Error("application failed", zap.String("reason", reason), zap.Error(cause))

	if err := f.surface.Discard(context.Background()); err != nil {
		logger.Debug("modal not discarded", zap.Error(err))
	}

	if f.log != nil {
		rec := &history.FailedRecord{
			JobID:     details.ID,
			Title:     details.Title,
			Company:   details.Company,
			Reason:    reason,
			Err:       cause,
			DateTried: f.now(),
			JobLink:   details.Link,
		}
		if err := f.log.AppendFailed(rec); err != nil {
			logger.Warn("failure record not written", zap.Error(err))
		}
	}

	stats.Record(OutcomeFailed)
	return OutcomeFailed
}

func (f *Flow) record(details *JobDetails, logger *zap.Logger) {
	if f.log == nil {
		return
	}

	if details.DateApplied.IsZero() {
		details.DateApplied = f.now()
	}
	rec := &history.Record{
		JobID:          details.ID,
		Title:          details.Title,
		Company:        details.Company,
		WorkLocation:   details.WorkLocation,
		WorkStyle:      details.WorkStyle,
		AboutJob:       details.Description,
		Experience:     details.Experience,
		Skills:         details.Skills,
		HRName:         details.HRName,
		HRLink:         details.HRLink,
		Resume:         details.Resume,
		Reposted:       details.Reposted,
		DatePosted:     details.PostedAt,
		DateApplied:    details.DateApplied,
		JobLink:        details.Link,
		ExternalLink:   details.ExternalLink,
		QuestionsFound: details.QuestionsFound,
		ConnectRequest: details.ConnectRequest,
	}
	if err := f.log.Append(rec); err != nil {
		logger.Warn("history record not written", zap.Error(err))
	}
}

func followLabel(follow bool) string {
	if follow {
		return "On"
	}
	return "Off"
}
