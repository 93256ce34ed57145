package questions

import (
	"math/rand/v2"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"linkedin-applier/internal/profile"
)

// Config controls resolver behaviour.
type Config struct {
	// OverwritePrevious re-answers questions that already hold a value.
	OverwritePrevious bool
	// AIEnabled makes the resolver hand unanswered free-text questions to
	// the AI gateway instead of the deterministic fallback.
	AIEnabled bool
}

// Resolver decides what to answer for a question using an ordered table of
// label rules over the user profile. It holds no mutable state: resolving
// the same question twice yields the same decision.
type Resolver struct {
	profile *profile.Profile
	cfg     Config
	logger  *zap.Logger

	randIntN func(int) int
}

func NewResolver(p *profile.Profile, cfg Config, logger *zap.Logger) *Resolver {
	return &Resolver{
		profile:  p,
		cfg:      cfg,
		logger:   logger,
		randIntN: rand.IntN,
	}
}

// rule pairs a label predicate with the answer it produces. Rules are tried
// strictly in order; the first match wins, so a label matching several
// keywords resolves by the earliest rule.
type rule struct {
	name   string
	match  func(label string) bool
	answer func(r *Resolver, label string, jc JobContext, q *Question) string
}

func contains(subs ...string) func(string) bool {
	return func(label string) bool {
		for _, s := range subs {
			if strings.Contains(label, s) {
				return true
			}
		}
		return false
	}
}

var selectRules = []rule{
	{"contact", contains("email", "phone"), func(r *Resolver, label string, _ JobContext, q *Question) string {
		// Contact fields always reconfirm against the stored default.
		stored := r.profile.PhoneNumber
		if strings.Contains(label, "email") {
			stored = r.profile.Email
		}
		if stored == "" {
			return q.PreviousAnswer
		}
		return stored
	}},
	{"gender", contains("gender", "sex"), func(r *Resolver, _ string, _ JobContext, _ *Question) string {
		return r.profile.Gender
	}},
	{"disability", contains("disability"), func(r *Resolver, _ string, _ JobContext, _ *Question) string {
		return r.profile.DisabilityStatus
	}},
	{"proficiency", contains("proficiency"), func(_ *Resolver, _ string, _ JobContext, _ *Question) string {
		return "Professional"
	}},
	{"location", contains("location", "city", "state", "country"), func(r *Resolver, label string, jc JobContext, _ *Question) string {
		return r.locationAnswer(label, jc)
	}},
	{"visa", contains("sponsorship", "visa"), func(r *Resolver, _ string, _ JobContext, _ *Question) string {
		return r.profile.RequireVisa
	}},
}

var radioRules = []rule{
	{"citizenship", contains("citizenship", "employment eligibility"), func(r *Resolver, _ string, _ JobContext, _ *Question) string {
		return r.profile.Citizenship
	}},
	{"veteran", contains("veteran", "protected"), func(r *Resolver, _ string, _ JobContext, _ *Question) string {
		return r.profile.VeteranStatus
	}},
	{"disability", contains("disability", "handicapped"), func(r *Resolver, _ string, _ JobContext, _ *Question) string {
		return r.profile.DisabilityStatus
	}},
	{"visa", contains("sponsorship", "visa"), func(r *Resolver, _ string, _ JobContext, _ *Question) string {
		return r.profile.RequireVisa
	}},
}

var textRules = []rule{
	{"experience", contains("experience", "years"), func(r *Resolver, _ string, _ JobContext, _ *Question) string {
		return r.profile.YearsOfExperience
	}},
	{"phone", contains("phone", "mobile"), func(r *Resolver, _ string, _ JobContext, _ *Question) string {
		return r.profile.PhoneNumber
	}},
	{"street", contains("street"), func(r *Resolver, _ string, _ JobContext, _ *Question) string {
		return r.profile.Street
	}},
	{"city", contains("city", "location", "address"), func(r *Resolver, label string, jc JobContext, _ *Question) string {
		if r.profile.CurrentCity != "" {
			return r.profile.CurrentCity
		}
		return jc.WorkLocation
	}},
	{"signature", contains("signature"), func(r *Resolver, _ string, _ JobContext, _ *Question) string {
		return r.profile.FullName()
	}},
	{"name", contains("name"), func(r *Resolver, label string, _ JobContext, _ *Question) string {
		return r.nameAnswer(label)
	}},
	{"notice", contains("notice"), func(r *Resolver, label string, _ JobContext, _ *Question) string {
		return r.noticeAnswer(label)
	}},
	{"salary", contains("salary", "compensation", "ctc", "pay"), func(r *Resolver, label string, _ JobContext, _ *Question) string {
		return r.salaryAnswer(label)
	}},
	{"linkedin", contains("linkedin"), func(r *Resolver, _ string, _ JobContext, _ *Question) string {
		return r.profile.LinkedIn
	}},
	{"website", contains("website", "blog", "portfolio", "link"), func(r *Resolver, _ string, _ JobContext, _ *Question) string {
		return r.profile.Website
	}},
	{"scale", contains("scale of 1-10"), func(r *Resolver, _ string, _ JobContext, _ *Question) string {
		return r.profile.ConfidenceLevel
	}},
	{"headline", contains("headline"), func(r *Resolver, _ string, _ JobContext, _ *Question) string {
		return r.profile.Headline
	}},
	{"referral", func(label string) bool {
		return (strings.Contains(label, "hear") || strings.Contains(label, "come across")) &&
			strings.Contains(label, "this") &&
			(strings.Contains(label, "job") || strings.Contains(label, "position"))
	}, func(_ *Resolver, _ string, _ JobContext, _ *Question) string {
		return "LinkedIn"
	}},
	{"state", contains("state", "province"), func(r *Resolver, _ string, _ JobContext, _ *Question) string {
		return r.profile.State
	}},
	{"zipcode", contains("zip", "postal", "code"), func(r *Resolver, _ string, _ JobContext, _ *Question) string {
		return r.profile.Zipcode
	}},
	{"country", contains("country"), func(r *Resolver, _ string, _ JobContext, _ *Question) string {
		return r.profile.Country
	}},
	{"visa", contains("sponsorship", "visa"), func(r *Resolver, _ string, _ JobContext, _ *Question) string {
		return r.profile.RequireVisa
	}},
}

var textareaRules = []rule{
	{"summary", contains("summary"), func(r *Resolver, _ string, _ JobContext, _ *Question) string {
		return r.profile.Summary
	}},
	{"cover", contains("cover"), func(r *Resolver, _ string, _ JobContext, _ *Question) string {
		return r.profile.CoverLetter
	}},
	{"visa", contains("sponsorship", "visa"), func(r *Resolver, _ string, _ JobContext, _ *Question) string {
		return r.profile.RequireVisa
	}},
}

func (r *Resolver) locationAnswer(label string, jc JobContext) string {
	switch {
	case strings.Contains(label, "country"):
		return r.profile.Country
	case strings.Contains(label, "state"):
		return r.profile.State
	case strings.Contains(label, "city"):
		if r.profile.CurrentCity != "" {
			return r.profile.CurrentCity
		}
		return jc.WorkLocation
	default:
		return jc.WorkLocation
	}
}

func (r *Resolver) nameAnswer(label string) string {
	switch {
	case strings.Contains(label, "full"):
		return r.profile.FullName()
	case strings.Contains(label, "first") && !strings.Contains(label, "last"):
		return r.profile.FirstName
	case strings.Contains(label, "middle") && !strings.Contains(label, "last"):
		return r.profile.MiddleName
	case strings.Contains(label, "last") && !strings.Contains(label, "first"):
		return r.profile.LastName
	case strings.Contains(label, "employer"):
		return r.profile.RecentEmployer
	default:
		return r.profile.FullName()
	}
}

func (r *Resolver) noticeAnswer(label string) string {
	switch {
	case strings.Contains(label, "month"):
		return r.profile.NoticePeriodMonths()
	case strings.Contains(label, "week"):
		return r.profile.NoticePeriodWeeks()
	default:
		return r.profile.NoticePeriod()
	}
}

func (r *Resolver) salaryAnswer(label string) string {
	current := strings.Contains(label, "current") || strings.Contains(label, "present")
	switch {
	case strings.Contains(label, "month"):
		if current {
			return r.profile.CurrentCTCMonthly()
		}
		return r.profile.DesiredSalaryMonthly()
	case strings.Contains(label, "lakh"):
		if current {
			return r.profile.CurrentCTCLakhs()
		}
		return r.profile.DesiredSalaryLakhs()
	default:
		if current {
			return salaryFigure(r.profile.CurrentCTC)
		}
		return salaryFigure(r.profile.DesiredSalary)
	}
}

// Resolve decides the answer for a question. It returns ErrNeedsAI when a
// free-text question matches no rule and the AI gateway is enabled; the
// caller invokes the gateway and falls back to Fallback on error.
func (r *Resolver) Resolve(q *Question, jc JobContext) (Decision, error) {
	label := q.NormalizedLabel()

	if q.PreviousAnswer != "" && !r.cfg.OverwritePrevious && !r.reconfirms(q.Kind, label) {
		return Decision{
			Value:         q.PreviousAnswer,
			Source:        SourceProfileRule,
			MatchedOption: optionIndex(q.Options, q.PreviousAnswer),
		}, nil
	}

	desired := r.dispatch(q, label, jc)

	switch q.Kind {
	case KindSelect, KindRadio:
		return r.chooseOption(q, desired), nil
	case KindText, KindTextarea:
		if desired != "" {
			return Decision{Value: desired, Source: SourceProfileRule, MatchedOption: -1}, nil
		}
		if r.cfg.AIEnabled {
			return Decision{}, ErrNeedsAI
		}
		return r.Fallback(q.Kind), nil
	default:
		// Checkboxes have no textual answer; the form handler only checks them.
		return Decision{Value: "Yes", Source: SourceProfileRule, MatchedOption: -1}, nil
	}
}

// Fallback is the deterministic answer used when neither the rules nor the
// AI gateway produced one. Callers must flag the question label as randomly
// answered.
func (r *Resolver) Fallback(kind Kind) Decision {
	value := ""
	if kind == KindText {
		value = r.profile.YearsOfExperience
	}
	return Decision{Value: value, Source: SourceRandomFallback, MatchedOption: -1}
}

// reconfirms reports whether the field must be re-resolved even when a
// previous answer exists. Contact dropdowns re-resolve to the stored default.
func (r *Resolver) reconfirms(kind Kind, label string) bool {
	return kind == KindSelect && (strings.Contains(label, "email") || strings.Contains(label, "phone"))
}

func (r *Resolver) dispatch(q *Question, label string, jc JobContext) string {
	var rules []rule
	switch q.Kind {
	case KindSelect:
		rules = selectRules
	case KindRadio:
		rules = radioRules
	case KindText:
		rules = textRules
	case KindTextarea:
		rules = textareaRules
	default:
		return ""
	}

	for _, rl := range rules {
		if rl.match(label) {
			answer := rl.answer(r, label, jc, q)
			if r.logger != nil {
				r.logger.Debug("rule matched",
					zap.String("rule", rl.name),
					zap.String("label", q.Label),
					zap.String("kind", q.Kind.String()),
				)
			}
			return answer
		}
	}

	if q.Kind == KindSelect || q.Kind == KindRadio {
		return "Yes"
	}
	return ""
}

// chooseOption maps the desired textual answer onto an actual option: exact
// display match first, then fuzzy phrases, then a random non-placeholder
// option (index 0 is assumed to be "Select an option").
func (r *Resolver) chooseOption(q *Question, desired string) Decision {
	if i, fuzzy, ok := MatchOption(desired, q.Options); ok {
		source := SourceProfileRule
		if fuzzy {
			source = SourceFuzzyMatch
		}
		return Decision{Value: q.Options[i].Display, Source: source, MatchedOption: i}
	}

	if len(q.Options) == 0 {
		return Decision{Value: desired, Source: SourceRandomFallback, MatchedOption: -1}
	}

	i := 0
	if len(q.Options) > 1 {
		i = 1 + r.randIntN(len(q.Options)-1)
	}
	return Decision{Value: q.Options[i].Display, Source: SourceRandomFallback, MatchedOption: i}
}

func optionIndex(options []Option, display string) int {
	for i, option := range options {
		if option.Display == display {
			return i
		}
	}
	return -1
}

// salaryFigure formats a salary amount, treating zero as unset so the AI or
// fallback path can take over.
func salaryFigure(v int) string {
	if v == 0 {
		return ""
	}
	return strconv.Itoa(v)
}
