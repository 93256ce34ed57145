package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"linkedin-applier/internal/ai"
)

type stubGenerator struct {
	response   string
	err        error
	lastPrompt string
}

func (s *stubGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubGenerator) Model() string {
	return "stub-model"
}

func TestAnswererAnswerQuestion(t *testing.T) {
	stub := &stubGenerator{response: "5"}
	answerer := NewAnswerer(stub, zap.NewNop(), 0)

	qc := ai.QuestionContext{
		Label:    "How many years of experience do you have with Go?",
		Kind:     "text",
		UserInfo: map[string]any{"years_of_experience": "5"},
	}

	answer, err := answerer.AnswerQuestion(context.Background(), qc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer != "5" {
		t.Fatalf("expected 5, got %q", answer)
	}

	if !strings.Contains(stub.lastPrompt, qc.Label) {
		t.Fatalf("expected question in prompt")
	}
	if !strings.Contains(stub.lastPrompt, "years_of_experience") {
		t.Fatalf("expected user info in prompt")
	}
	if !strings.Contains(stub.lastPrompt, "none") {
		t.Fatalf("expected options placeholder for a free-form question")
	}
}

func TestAnswererIncludesOptions(t *testing.T) {
	stub := &stubGenerator{response: "Yes"}
	answerer := NewAnswerer(stub, zap.NewNop(), 0)

	qc := ai.QuestionContext{
		Label:   "Are you willing to relocate?",
		Kind:    "radio",
		Options: []string{"Yes", "No"},
	}

	if _, err := answerer.AnswerQuestion(context.Background(), qc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stub.lastPrompt, "Yes\nNo") {
		t.Fatalf("expected options listed in prompt, got: %s", stub.lastPrompt)
	}
}

func TestAnswererSanitizesAnswer(t *testing.T) {
	stub := &stubGenerator{response: "```\n\"Yes\"\n```\n\nI chose Yes because the user is eligible."}
	answerer := NewAnswerer(stub, zap.NewNop(), 0)

	answer, err := answerer.AnswerQuestion(context.Background(), ai.QuestionContext{Label: "Eligible?"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer != "Yes" {
		t.Fatalf("expected fencing and commentary stripped, got %q", answer)
	}
}

func TestAnswererPropagatesGeneratorError(t *testing.T) {
	stub := &stubGenerator{err: errors.New("quota exceeded")}
	answerer := NewAnswerer(stub, zap.NewNop(), 0)

	if _, err := answerer.AnswerQuestion(context.Background(), ai.QuestionContext{Label: "Any"}); err == nil {
		t.Fatal("expected error from generator")
	}
}

func TestExtractSkills(t *testing.T) {
	stub := &stubGenerator{response: "```json\n" + `{
		"tech_stack": ["Go", "PostgreSQL"],
		"technical_skills": ["System Design"],
		"other_skills": ["Communication"],
		"required_skills": ["Go"],
		"nice_to_have": ["Kubernetes"]
	}` + "\n```"}
	answerer := NewAnswerer(stub, zap.NewNop(), 0)

	report, err := answerer.ExtractSkills(context.Background(), "We are hiring a Go engineer.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(report.TechStack) != 2 || report.TechStack[0] != "Go" {
		t.Fatalf("unexpected tech stack: %v", report.TechStack)
	}
	if len(report.NiceToHave) != 1 || report.NiceToHave[0] != "Kubernetes" {
		t.Fatalf("unexpected nice to have: %v", report.NiceToHave)
	}

	all := report.All()
	if len(all) != 6 {
		t.Fatalf("expected 6 skills total, got %d: %v", len(all), all)
	}
}

func TestExtractSkillsRejectsBadJSON(t *testing.T) {
	stub := &stubGenerator{response: "Sure! Here are the skills: Go, Kubernetes."}
	answerer := NewAnswerer(stub, zap.NewNop(), 0)

	if _, err := answerer.ExtractSkills(context.Background(), "Job text"); err == nil {
		t.Fatal("expected parse error for non-JSON response")
	}
}

func TestParseSkillReportToleratesMissingCategories(t *testing.T) {
	report, err := parseSkillReport(`{"tech_stack": ["Go"]}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.TechStack) != 1 || len(report.RequiredSkills) != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
}
