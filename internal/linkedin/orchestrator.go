package linkedin

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"linkedin-applier/internal/pacing"
)

var datePostedCycle = []string{"Any time", "Past month", "Past week", "Past 24 hours"}

var sortCycle = []string{"Most recent", "Most relevant"}

// OrchestratorConfig is the immutable run configuration of the cycle.
type OrchestratorConfig struct {
	SearchTerms    []string
	Location       string
	RandomizeOrder bool
	PerTermCap     int
	EasyApplyOnly  bool

	Continuous       bool
	RotateDatePosted bool
	StopAtPast24h    bool
	CycleInterval    time.Duration
}

// Orchestrator iterates search terms and pages, handing every listing to the
// flow. It owns the browser session and the run stats; everything runs on
// its single thread of control.
type Orchestrator struct {
	surface Surface
	flow    *Flow
	cfg     OrchestratorConfig
	logger  *zap.Logger

	shuffle func([]string)
}

func NewOrchestrator(surface Surface, flow *Flow, cfg OrchestratorConfig, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		surface: surface,
		flow:    flow,
		cfg:     cfg,
		logger:  logger,
		shuffle: func(terms []string) {
			rand.Shuffle(len(terms), func(i, j int) { terms[i], terms[j] = terms[j], terms[i] })
		},
	}
}

// Run executes search cycles until the context is cancelled, the site
// reports the daily limit, or a single pass completes in one-shot mode. The
// returned stats are always valid, also on early termination.
func (o *Orchestrator) Run(ctx context.Context) *RunStats {
	stats := &RunStats{}

	dateIdx := 0
	sortIdx := 0
	for cycle := 1; ; cycle++ {
		filters := SearchFilters{
			EasyApplyOnly: o.cfg.EasyApplyOnly,
			Location:      o.cfg.Location,
		}
		if o.cfg.RotateDatePosted {
			filters.DatePosted = datePostedCycle[dateIdx]
			filters.SortBy = sortCycle[sortIdx]
		}

		o.logger.Info("starting cycle",
			zap.Int("cycle", cycle),
			zap.String("date_posted", filters.DatePosted),
			zap.String("sort_by", filters.SortBy),
		)

		if done := o.runPass(ctx, filters, stats); done {
			break
		}

		if !o.cfg.Continuous {
			break
		}

		if o.cfg.RotateDatePosted {
			if dateIdx == len(datePostedCycle)-1 {
				if !o.cfg.StopAtPast24h {
					dateIdx = 0
				}
			} else {
				dateIdx++
			}
			sortIdx = (sortIdx + 1) % len(sortCycle)
		}

		o.logger.Info("cycle finished, sleeping",
			zap.Duration("interval", o.cfg.CycleInterval),
		)
		if err := pacing.WaitFor(ctx, o.cfg.CycleInterval); err != nil {
			break
		}
	}

	o.summarize(stats)
	return stats
}

// runPass walks every search term once. Returns true when the run must stop.
func (o *Orchestrator) runPass(ctx context.Context, filters SearchFilters, stats *RunStats) bool {
	terms := append([]string(nil), o.cfg.SearchTerms...)
	if o.cfg.RandomizeOrder {
		o.shuffle(terms)
	}

	for _, term := range terms {
		if ctx.Err() != nil {
			o.logger.Info("run interrupted", zap.String("term", term))
			return true
		}
		if done := o.runTerm(ctx, term, filters, stats); done {
			return true
		}
	}
	return false
}

func (o *Orchestrator) runTerm(ctx context.Context, term string, filters SearchFilters, stats *RunStats) bool {
	if err := o.surface.Search(ctx, term, filters); err != nil {
		o.logger.Error("search failed", zap.String("term", term), zap.Error(err))
		return false
	}

	processed := 0
	for {
		cards, err := o.surface.Listings(ctx)
		if err != nil {
			o.logger.Error("listings unreadable", zap.String("term", term), zap.Error(err))
			return false
		}
		if len(cards) == 0 {
			return false
		}

		for _, card := range cards {
			// Interrupts land between jobs, never mid-flow.
			if ctx.Err() != nil {
				return true
			}

			outcome, err := o.flow.Run(ctx, card, stats)
			if errors.Is(err, ErrDailyLimit) {
				o.logger.Warn("daily application limit reached, stopping run")
				return true
			}

			if outcome == OutcomeSuccess || outcome == OutcomeExternal {
				processed++
				if o.cfg.PerTermCap > 0 && processed >= o.cfg.PerTermCap {
					o.logger.Info("per-term cap reached",
						zap.String("term", term),
						zap.Int("cap", o.cfg.PerTermCap),
					)
					return false
				}
			}
		}

		more, err := o.surface.NextPage(ctx)
		if err != nil {
			o.logger.Error("pagination failed", zap.String("term", term), zap.Error(err))
			return false
		}
		if !more {
			return false
		}
	}
}

func (o *Orchestrator) summarize(stats *RunStats) {
	o.logger.Info("run summary",
		zap.Int("success", stats.Success),
		zap.Int("external", stats.External),
		zap.Int("failed", stats.Failed),
		zap.Int("skipped", stats.Skipped),
		zap.Int("total", stats.Total()),
	)
	if len(stats.RandomlyAnswered) > 0 {
		o.logger.Warn("questions answered by fallback, review them",
			zap.Strings("labels", stats.RandomlyAnswered),
		)
	}
}
