// Package questions contains the decision engine that picks an answer for a
// detected form question from the user profile, fuzzy option matching, and
// an optional AI fallback.
package questions

import (
	"errors"
	"strings"
)

// Kind classifies the form control a question is rendered as. It is fixed at
// detection time; Options are only populated for select and radio kinds.
type Kind int

const (
	KindSelect Kind = iota
	KindRadio
	KindText
	KindTextarea
	KindCheckbox
)

func (k Kind) String() string {
	switch k {
	case KindSelect:
		return "select"
	case KindRadio:
		return "radio"
	case KindText:
		return "text"
	case KindTextarea:
		return "textarea"
	case KindCheckbox:
		return "checkbox"
	default:
		return "unknown"
	}
}

// Option is one selectable choice of a select or radio question.
type Option struct {
	// Display is the visible option text.
	Display string
	// Value is the underlying control value when it differs from Display.
	Value string
}

// Question is a single detected form field.
type Question struct {
	Label          string
	Kind           Kind
	Options        []Option
	PreviousAnswer string
	Required       bool
}

// NormalizedLabel returns the label lowered for substring dispatch.
func (q *Question) NormalizedLabel() string {
	return strings.ToLower(q.Label)
}

// Source records how an answer was produced.
type Source int

const (
	SourceProfileRule Source = iota
	SourceFuzzyMatch
	SourceAI
	SourceRandomFallback
)

func (s Source) String() string {
	switch s {
	case SourceProfileRule:
		return "profile_rule"
	case SourceFuzzyMatch:
		return "fuzzy_match"
	case SourceAI:
		return "ai"
	case SourceRandomFallback:
		return "random_fallback"
	default:
		return "unknown"
	}
}

// Decision is the outcome of resolving one question. For select and radio
// kinds Value always equals the display text of the chosen option and
// MatchedOption indexes into Question.Options; for other kinds MatchedOption
// is -1.
type Decision struct {
	Value         string
	Source        Source
	MatchedOption int
}

// ErrNeedsAI signals that no static rule produced an answer for a free-text
// question and an AI gateway should be consulted.
var ErrNeedsAI = errors.New("question needs an ai answer")

// JobContext carries the job attributes some rules resolve against.
type JobContext struct {
	WorkLocation string
	Description  string
	AboutCompany string
}
