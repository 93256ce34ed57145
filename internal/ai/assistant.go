package ai

import "context"

// SkillReport classifies the skills mentioned in a job description.
type SkillReport struct {
	TechStack       []string `json:"tech_stack"`
	TechnicalSkills []string `json:"technical_skills"`
	OtherSkills     []string `json:"other_skills"`
	RequiredSkills  []string `json:"required_skills"`
	NiceToHave      []string `json:"nice_to_have"`
}

// All returns every extracted skill as a flat list, categories in report order.
func (r *SkillReport) All() []string {
	out := make([]string, 0, len(r.TechStack)+len(r.TechnicalSkills)+len(r.OtherSkills)+len(r.RequiredSkills)+len(r.NiceToHave))
	out = append(out, r.TechStack...)
	out = append(out, r.TechnicalSkills...)
	out = append(out, r.OtherSkills...)
	out = append(out, r.RequiredSkills...)
	out = append(out, r.NiceToHave...)
	return out
}

// QuestionContext is everything the assistant gets to answer one form question.
type QuestionContext struct {
	Label    string
	Kind     string
	Options  []string
	UserInfo map[string]any
}

// Gateway answers form questions and extracts skills from job descriptions.
type Gateway interface {
	AnswerQuestion(ctx context.Context, qc QuestionContext) (string, error)
	ExtractSkills(ctx context.Context, description string) (*SkillReport, error)
}
