// Package forms fills application form pages by resolving each detected
// question and applying the decided answer to the page.
package forms

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"linkedin-applier/internal/ai"
	"linkedin-applier/internal/questions"
)

// ErrNoQuestions reports a question step that exposed no detectable fields,
// which means the page structure was not understood.
var ErrNoQuestions = errors.New("no questions detected on form page")

// Field is one detected form control. Ref is an opaque handle the page uses
// to act on the control later.
type Field struct {
	Question *questions.Question
	Ref      any
}

// Page is the minimal surface the handler needs to read and fill a form
// step. A checkbox field reports PreviousAnswer "Yes" when already checked.
type Page interface {
	Fields(ctx context.Context) ([]Field, error)
	WriteText(ctx context.Context, f Field, value string) error
	SelectOption(ctx context.Context, f Field, optionIndex int) error
	Check(ctx context.Context, f Field) error
}

// Result summarizes one processed form step.
type Result struct {
	Answered int
	Failed   int
	// RandomlyAnswered lists labels that got a fallback answer so the run
	// report can flag them for review.
	RandomlyAnswered []string
}

// Handler resolves and fills every question on a form page. Individual field
// failures are logged and counted, not fatal; the submit attempt decides
// whether the step as a whole succeeded.
type Handler struct {
	resolver *questions.Resolver
	gateway  ai.Gateway
	userInfo map[string]any
	logger   *zap.Logger
}

// NewHandler builds a Handler. gateway may be nil, which disables the AI
// fallback; userInfo is the profile summary handed to the gateway.
func NewHandler(resolver *questions.Resolver, gateway ai.Gateway, userInfo map[string]any, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		resolver: resolver,
		gateway:  gateway,
		userInfo: userInfo,
		logger:   logger,
	}
}

// Process fills all fields on the page. It returns ErrNoQuestions when the
// page exposed nothing to fill.
func (h *Handler) Process(ctx context.Context, page Page, jc questions.JobContext) (*Result, error) {
	fields, err := page.Fields(ctx)
	if err != nil {
		return nil, fmt.Errorf("detect form fields: %w", err)
	}
	if len(fields) == 0 {
		return nil, ErrNoQuestions
	}

	result := &Result{}
	for _, field := range fields {
		if err := h.processField(ctx, page, field, jc, result); err != nil {
			result.Failed++
			h.logger.Warn("question failed",
				zap.String("label", field.Question.Label),
				zap.String("kind", field.Question.Kind.String()),
				zap.Error(err),
			)
			continue
		}
		result.Answered++
	}

	return result, nil
}

func (h *Handler) processField(ctx context.Context, page Page, field Field, jc questions.JobContext, result *Result) error {
	q := field.Question

	decision, err := h.resolver.Resolve(q, jc)
	if errors.Is(err, questions.ErrNeedsAI) {
		decision = h.askAI(ctx, q, result)
		err = nil
	}
	if err != nil {
		return err
	}

	if decision.Source == questions.SourceRandomFallback {
		result.RandomlyAnswered = append(result.RandomlyAnswered, q.Label)
	}

	// A decision that only confirms what the form already holds needs no
	// write. The previous value may not even appear among the scraped
	// options, e.g. a select whose chosen text the site rewrote.
	if q.PreviousAnswer != "" && decision.Value == q.PreviousAnswer {
		h.logger.Debug("keeping previous answer",
			zap.String("label", q.Label),
			zap.String("answer", decision.Value),
		)
		return nil
	}

	h.logger.Debug("answering question",
		zap.String("label", q.Label),
		zap.String("kind", q.Kind.String()),
		zap.String("answer", decision.Value),
		zap.String("source", decision.Source.String()),
	)

	switch q.Kind {
	case questions.KindText, questions.KindTextarea:
		return page.WriteText(ctx, field, decision.Value)
	case questions.KindSelect, questions.KindRadio:
		if decision.MatchedOption < 0 {
			return fmt.Errorf("no option resolved for %q", q.Label)
		}
		return page.SelectOption(ctx, field, decision.MatchedOption)
	case questions.KindCheckbox:
		return page.Check(ctx, field)
	default:
		return fmt.Errorf("unsupported field kind %q", q.Kind)
	}
}

// askAI consults the gateway and falls back to the deterministic answer when
// the gateway is missing or fails.
func (h *Handler) askAI(ctx context.Context, q *questions.Question, result *Result) questions.Decision {
	if h.gateway == nil {
		return h.resolver.Fallback(q.Kind)
	}

	qc := ai.QuestionContext{
		Label:    q.Label,
		Kind:     q.Kind.String(),
		UserInfo: h.userInfo,
	}
	for _, option := range q.Options {
		qc.Options = append(qc.Options, option.Display)
	}

	answer, err := h.gateway.AnswerQuestion(ctx, qc)
	if err != nil || answer == "" {
		h.logger.Warn("ai answer failed, using fallback",
			zap.String("label", q.Label),
			zap.Error(err),
		)
		return h.resolver.Fallback(q.Kind)
	}

	return questions.Decision{Value: answer, Source: questions.SourceAI, MatchedOption: -1}
}
