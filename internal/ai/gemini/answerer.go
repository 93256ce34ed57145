package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"linkedin-applier/internal/ai"
	"linkedin-applier/internal/logger"
)

//go:embed answer_prompt.md
var answerPromptTemplate string

//go:embed skills_prompt.md
var skillsPromptTemplate string

const (
	defaultMaxLogLength = 200
	maxAnswerRunes      = 350
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}

// Answerer implements the AI gateway over a content generator.
type Answerer struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewAnswerer(generator contentGenerator, log *zap.Logger, maxLogLength int) *Answerer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Answerer{
		generator: generator,
		logger:    log,
		maxLogLen: maxLogLength,
	}
}

// AnswerQuestion asks the model for an answer to one form question. The reply
// is trimmed of fencing and quotes and clamped to a form-friendly length.
func (a *Answerer) AnswerQuestion(ctx context.Context, qc ai.QuestionContext) (string, error) {
	label := strings.TrimSpace(qc.Label)
	if label == "" {
		return "", fmt.Errorf("question label is required")
	}

	userInfo, err := json.MarshalIndent(qc.UserInfo, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal user info: %w", err)
	}

	options := "none"
	if len(qc.Options) > 0 {
		options = strings.Join(qc.Options, "\n")
	}

	prompt := strings.ReplaceAll(answerPromptTemplate, "{{USER_INFO}}", string(userInfo))
	prompt = strings.ReplaceAll(prompt, "{{OPTIONS}}", options)
	prompt = strings.ReplaceAll(prompt, "{{QUESTION}}", label)

	a.logger.Debug("gemini answer request",
		zap.String("label", label),
		zap.String("kind", qc.Kind),
		zap.String("model", a.generator.Model()),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, a.maxLogLen)),
	)

	raw, err := a.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return "", err
	}

	a.logger.Debug("gemini answer response",
		zap.String("label", label),
		zap.String("response_preview", logger.TruncateForLog(raw, a.maxLogLen)),
	)

	answer := sanitizeAnswer(raw)
	if answer == "" {
		return "", fmt.Errorf("gemini returned an unusable answer for %q", label)
	}

	return answer, nil
}

// ExtractSkills classifies the skills mentioned in a job description.
func (a *Answerer) ExtractSkills(ctx context.Context, description string) (*ai.SkillReport, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, fmt.Errorf("job description is required")
	}

	prompt := strings.ReplaceAll(skillsPromptTemplate, "{{DESCRIPTION}}", description)

	a.logger.Debug("gemini skill extraction request",
		zap.String("model", a.generator.Model()),
		zap.Int("description_length", utf8.RuneCountInString(description)),
	)

	raw, err := a.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("gemini skill extraction response",
		zap.String("response_preview", logger.TruncateForLog(raw, a.maxLogLen)),
	)

	return parseSkillReport(raw)
}

func parseSkillReport(raw string) (*ai.SkillReport, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	report := &ai.SkillReport{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           report,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create skill report decoder: %w", err)
	}
	if err := decoder.Decode(data); err != nil {
		return nil, fmt.Errorf("decode skill report: %w", err)
	}

	return report, nil
}

func sanitizeAnswer(raw string) string {
	answer := extractJSON(raw)
	answer = strings.Trim(answer, `"'`)
	answer = strings.TrimSpace(answer)

	// Keep only the first paragraph if the model added commentary anyway.
	if idx := strings.Index(answer, "\n\n"); idx != -1 {
		answer = strings.TrimSpace(answer[:idx])
	}

	if utf8.RuneCountInString(answer) > maxAnswerRunes {
		runes := []rune(answer)
		answer = strings.TrimSpace(string(runes[:maxAnswerRunes]))
	}

	return answer
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
